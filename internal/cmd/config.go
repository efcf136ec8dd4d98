package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config keys. Each may come from a flag, a TOOLBELT_* environment
// variable or the config file, in that order of precedence.
const (
	VLogLevel    = "log_level"
	VLogFormat   = "log_format"
	VAlgorithm   = "algorithm"
	VCompression = "compression"
)

// config holds state shared by every subcommand of one root command.
type config struct {
	v *viper.Viper
}

func newConfig() *config {
	return &config{}
}

// load reads the optional config file and environment. It is safe to call
// more than once; only the first call does any work.
func (c *config) load() error {
	if c.v != nil {
		return nil
	}
	v := viper.New()

	// Specify an alternate config file
	if cfgFile := os.Getenv("TOOLBELT_CONFIG"); cfgFile != "" {
		// A named file must exist; only the search paths are optional.
		if _, err := os.Stat(cfgFile); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.toolbelt")
		v.SetConfigName("toolbelt")
	}

	// E.g. TOOLBELT_LOG_LEVEL=debug
	v.SetEnvPrefix("toolbelt")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(VLogLevel, "info")
	v.SetDefault(VLogFormat, "console")
	v.SetDefault(VAlgorithm, "sha256")
	v.SetDefault(VCompression, "none")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	c.v = v
	return nil
}

// configFile reports the config file in use, or "" when none was found.
func (c *config) configFile() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

// setting resolves key for cmd: an explicitly set flag wins, otherwise the
// environment, config file or default supplies the value.
func (c *config) setting(cmd *cobra.Command, flag, key string) string {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return f.Value.String()
	}
	if c.v == nil {
		if f := cmd.Flags().Lookup(flag); f != nil {
			return f.DefValue
		}
		return ""
	}
	return c.v.GetString(key)
}
