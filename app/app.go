// Package app loads the configuration the companion CLI reads its default
// credentials from. The library core never touches it: every serializer and
// signer takes its inputs as arguments.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/mo"
	"github.com/spf13/viper"
)

const (
	cfgName     = "application"
	testCfgName = "application_test"

	keyClientID     = "mapq.client_id"
	keyClientSecret = "mapq.client_secret"
	keyBaseURL      = "mapq.base_url"
)

var (
	cfg  *viper.Viper
	once sync.Once
)

// Credential is the shared-secret premium-plan pair read from configuration.
type Credential struct {
	ClientID     string
	ClientSecret string
}

// Config loads application.yml (application_test.yml under `go test`),
// searching the project root, the working directory and their ./config
// subdirectories. A missing file is not an error; the CLI treats every value
// as an overridable default.
func Config() mo.Result[*viper.Viper] {
	once.Do(func() {
		cfg, _ = load()
	})
	if cfg == nil {
		return mo.Err[*viper.Viper](fmt.Errorf("can not find %s.yml", cfgName))
	}
	return mo.Ok(cfg)
}

// Credentials returns the configured premium-plan pair. It is an error when
// either half is missing; a lone client_id cannot sign anything.
func Credentials() mo.Result[Credential] {
	rs := Config()
	if rs.IsError() {
		return mo.Err[Credential](rs.Error())
	}
	v := rs.MustGet()
	c := Credential{
		ClientID:     v.GetString(keyClientID),
		ClientSecret: v.GetString(keyClientSecret),
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return mo.Err[Credential](fmt.Errorf("%s and %s must both be configured", keyClientID, keyClientSecret))
	}
	return mo.Ok(c)
}

// BaseURL returns the configured service base URL, or def when absent.
func BaseURL(def string) string {
	if rs := Config(); !rs.IsError() {
		if v := rs.MustGet().GetString(keyBaseURL); v != "" {
			return v
		}
	}
	return def
}

func load() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	addSearchPaths(v)

	name := cfgName
	if isTestProcess() {
		name = testCfgName
	}
	v.SetConfigName(name)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return v, nil
}

// addSearchPaths registers the project root (nearest parent with a go.mod)
// and the working directory, each with its ./config subdirectory. Viper
// resolves relative paths against the CWD, which varies between IDE, test
// and deployed runs; anchoring on the module root keeps discovery stable.
func addSearchPaths(v *viper.Viper) {
	cwd, err := os.Getwd()
	if err != nil {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		return
	}
	if root, ok := projectRoot(cwd); ok {
		v.AddConfigPath(root)
		v.AddConfigPath(filepath.Join(root, "config"))
	}
	v.AddConfigPath(cwd)
	v.AddConfigPath(filepath.Join(cwd, "config"))
}

// projectRoot walks upward from start until it finds a directory containing
// a go.mod.
func projectRoot(start string) (string, bool) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// isTestProcess detects a `go test` run by the -test. flags the test binary
// is invoked with.
func isTestProcess() bool {
	for _, a := range os.Args {
		if strings.HasPrefix(a, "-test.") {
			return true
		}
	}
	return false
}
