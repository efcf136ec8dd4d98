package cmd

import (
	"github.com/dendrascience/toolbelt/internal/logger"
	"github.com/dendrascience/toolbelt/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the toolbelt CLI.
// It sets up all subcommands, command groups, and the shared configuration.
func NewRootCmd() *cobra.Command {
	cfg := newConfig()

	rootCmd := &cobra.Command{
		Use:   "toolbelt",
		Short: "toolbelt - digests, tar archives and small encoding helpers",
		Long: `toolbelt bundles the helpers used across our data tooling.

It computes MD5, SHA-1, SHA-2 and BLAKE3 digests, builds and verifies tar
archives (optionally gzip or zstd compressed), and converts between text,
base64, hex and human-readable sizes.

Settings can be given as flags, TOOLBELT_* environment variables, or in a
toolbelt.yaml config file (in the working directory or $HOME/.toolbelt, or
named by TOOLBELT_CONFIG).`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.load(); err != nil {
				return err
			}
			level, err := logger.ParseLevel(cfg.setting(cmd, "log-level", VLogLevel))
			if err != nil {
				return err
			}
			format, err := logger.ParseFormat(cfg.setting(cmd, "log-format", VLogFormat))
			if err != nil {
				return err
			}
			l, err := logger.New(logger.Config{
				Level:       level,
				Format:      format,
				Destination: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			logger.SetDefault(l)
			cmd.SetContext(logger.WithContext(cmd.Context(), l))
			if f := cfg.configFile(); f != "" {
				l.Debug("using config file", "path", f)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format: console, json or none")

	groupDigest := "digest"
	groupArchive := "archive"
	groupUtilities := "utilities"

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupDigest,
		Title: "Digest",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupArchive,
		Title: "Archive",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utilities",
	})

	hashCmd := NewHashCmd(cfg)
	archiveCmd := NewArchiveCmd(cfg)
	encodeCmd := NewEncodeCmd()
	decodeCmd := NewDecodeCmd()
	sizeCmd := NewSizeCmd()
	countCmd := NewCountCmd()
	expandCmd := NewExpandCmd()
	seedCmd := NewSeedCmd()
	versionCmd := NewVersionCmd()

	hashCmd.GroupID = groupDigest
	archiveCmd.GroupID = groupArchive
	encodeCmd.GroupID = groupUtilities
	decodeCmd.GroupID = groupUtilities
	sizeCmd.GroupID = groupUtilities
	countCmd.GroupID = groupUtilities
	expandCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(hashCmd, archiveCmd, encodeCmd, decodeCmd, sizeCmd, countCmd, expandCmd, seedCmd, versionCmd)

	return rootCmd
}
