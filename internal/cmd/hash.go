package cmd

import (
	"fmt"
	"io"

	"github.com/dendrascience/toolbelt/internal/logger"
	"github.com/dendrascience/toolbelt/util"
	"github.com/spf13/cobra"
)

// NewHashCmd creates and returns the hash subcommand for the toolbelt CLI.
// It digests files, standard input, or a literal string.
func NewHashCmd(cfg *config) *cobra.Command {
	var (
		upper  bool
		oci    bool
		rename bool
		text   string
	)

	cmd := &cobra.Command{
		Use:   "hash [FILE...]",
		Short: "Compute the digest of files, stdin, or a string",
		Long: `Compute the digest of each FILE, printing "DIGEST  NAME" lines.

With no FILE, or when FILE is -, standard input is read. --text digests the
given string instead. Supported algorithms are md5, sha1, sha256, sha384,
sha512 and blake3; the default comes from the algorithm setting (sha256).

--rename moves each file to "<digest><ext>" in its own directory.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("text") && len(args) > 0 {
				return fmt.Errorf("--text cannot be combined with file arguments")
			}
			if rename && len(args) == 0 {
				return fmt.Errorf("--rename needs at least one file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := util.ParseAlgorithm(cfg.setting(cmd, "algorithm", VAlgorithm))
			if err != nil {
				return err
			}
			log := logger.From(cmd.Context())
			out := cmd.OutOrStdout()
			render := func(d util.Digest) (string, error) {
				switch {
				case oci:
					od, err := d.OCI()
					return od.String(), err
				case upper:
					return d.HexUpper(), nil
				default:
					return d.Hex(), nil
				}
			}

			if cmd.Flags().Changed("text") {
				d, err := util.SumBytes(text, alg)
				if err != nil {
					return err
				}
				s, err := render(d)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
				return nil
			}

			if len(args) == 0 {
				args = []string{"-"}
			}
			for _, path := range args {
				if rename {
					newPath, err := util.RenameHashedFile(path, alg)
					if err != nil {
						return fmt.Errorf("renaming %s: %w", path, err)
					}
					log.Info("renamed file", "from", path, "to", newPath)
					fmt.Fprintf(out, "%s -> %s\n", path, newPath)
					continue
				}
				d, err := digestPath(cmd.InOrStdin(), path, alg)
				if err != nil {
					return fmt.Errorf("hashing %s: %w", path, err)
				}
				s, err := render(d)
				if err != nil {
					return err
				}
				log.Debug("hashed", "path", path, "algorithm", alg.String())
				fmt.Fprintf(out, "%s  %s\n", s, path)
			}
			return nil
		},
	}

	cmd.Flags().StringP("algorithm", "a", "sha256", "Digest algorithm (md5, sha1, sha256, sha384, sha512, blake3)")
	cmd.Flags().BoolVarP(&upper, "upper", "u", false, "Print uppercase hex")
	cmd.Flags().BoolVar(&oci, "oci", false, "Print OCI \"algorithm:hex\" digests")
	cmd.Flags().StringVarP(&text, "text", "t", "", "Digest this string instead of files")
	cmd.Flags().BoolVar(&rename, "rename", false, "Rename each file to its digest, keeping the extension")
	cmd.MarkFlagsMutuallyExclusive("upper", "oci")
	cmd.MarkFlagsMutuallyExclusive("text", "rename")

	return cmd
}

func digestPath(stdin io.Reader, path string, alg util.Algorithm) (util.Digest, error) {
	if path == "-" {
		return util.Sum(stdin, alg)
	}
	return util.SumFile(path, alg)
}
