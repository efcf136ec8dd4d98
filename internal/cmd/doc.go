// Package cmd provides the command-line interface implementation for toolbelt.
//
// This package contains all the subcommand implementations for the toolbelt CLI.
// It uses the Cobra library for command structure, Fang for styled help and
// errors, and Viper for settings read from flags, TOOLBELT_* environment
// variables or a toolbelt.yaml file.
//
// The package is organized into the following commands:
//   - root: Main command coordinator, configuration and logger setup
//   - hash: File, stdin and string digests
//   - archive: Tar archive creation, listing and manifest verification
//   - encode, decode: Base64 and hex conversion
//   - size, count, expand, seed, version: Smaller utilities
//
// Each command is implemented as a separate file with its own constructor function
// that returns a *cobra.Command. The heavy lifting lives in the util package.
package cmd
