package query

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kcmvp/mapq"
	"github.com/kcmvp/mapq/app"
	"github.com/spf13/cobra"
)

var (
	baseURL      string
	paramsFile   string
	clientID     string
	clientSecret string
)

// QueryCmd builds (and, with credentials, signs) a canonical query string
// from a JSON parameter file.
var QueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Build a canonical query string from a JSON parameter file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(paramsFile)
		if err != nil {
			return fmt.Errorf("read params: %w", err)
		}
		rs := mapq.ParamsFromJSON(string(data))
		if rs.IsError() {
			return fmt.Errorf("parse params: %w", rs.Error())
		}
		p := rs.MustGet()

		id, secret := clientID, clientSecret
		if id == "" && secret == "" {
			if cred := app.Credentials(); !cred.IsError() {
				id, secret = cred.MustGet().ClientID, cred.MustGet().ClientSecret
			}
		}
		if id != "" && secret != "" {
			p.Set("client_id", id).Set("client_secret", secret)
		}

		base := baseURL
		if base == "" {
			base = app.BaseURL("")
		}
		if base == "" {
			return fmt.Errorf("no --base given and mapq.base_url is not configured")
		}

		serialize := mapq.Serializer(mapq.DefaultSerializers(), base)
		out, err := serialize(p)
		if err != nil {
			return err
		}
		color.Green("%s?%s", base, out)
		return nil
	},
}

func init() {
	QueryCmd.Flags().StringVar(&baseURL, "base", "", "service base URL; defaults from application.yml")
	QueryCmd.Flags().StringVar(&paramsFile, "params", "", "JSON file holding the parameter mapping (required)")
	QueryCmd.Flags().StringVar(&clientID, "client-id", "", "premium-plan client identifier")
	QueryCmd.Flags().StringVar(&clientSecret, "secret", "", "premium-plan client secret")
	_ = QueryCmd.MarkFlagRequired("params")
}
