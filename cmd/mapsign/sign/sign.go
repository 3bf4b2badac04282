package sign

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kcmvp/mapq/app"
	"github.com/kcmvp/mapq/signature"
	"github.com/spf13/cobra"
)

var (
	unsignedURL  string
	clientSecret string
)

// SignCmd signs an already-canonicalized URL with a premium-plan secret.
var SignCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign an unsigned request URL with a premium-plan client secret.",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := clientSecret
		if secret == "" {
			rs := app.Credentials()
			if rs.IsError() {
				return fmt.Errorf("no --secret given and none configured: %w", rs.Error())
			}
			secret = rs.MustGet().ClientSecret
		}
		sig, err := signature.CreatePremiumPlanSignature(unsignedURL, secret)
		if err != nil {
			return err
		}
		joiner := "?"
		if strings.Contains(unsignedURL, "?") {
			joiner = "&"
		}
		color.Green("%s%ssignature=%s", unsignedURL, joiner, sig)
		return nil
	},
}

func init() {
	SignCmd.Flags().StringVar(&unsignedURL, "url", "", "unsigned request URL (required)")
	SignCmd.Flags().StringVar(&clientSecret, "secret", "", "URL-safe base64 client secret; defaults from application.yml")
	_ = SignCmd.MarkFlagRequired("url")
}
