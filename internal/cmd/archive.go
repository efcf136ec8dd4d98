package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dendrascience/toolbelt/internal/logger"
	"github.com/dendrascience/toolbelt/util"
	"github.com/spf13/cobra"
)

// ErrVerifyFailed is returned by archive verify when any entry disagrees
// with the manifest.
var ErrVerifyFailed = errors.New("archive does not match manifest")

// NewArchiveCmd creates the archive command and its create, list and verify
// subcommands.
func NewArchiveCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Create, list and verify tar archives",
	}
	cmd.AddCommand(newArchiveCreateCmd(cfg), newArchiveListCmd(cfg), newArchiveVerifyCmd())
	return cmd
}

func newArchiveCreateCmd(cfg *config) *cobra.Command {
	var (
		texts            []string
		contentAddressed bool
		recursive        bool
	)

	cmd := &cobra.Command{
		Use:   "create OUTPUT [FILE...]",
		Short: "Write files and text entries into a new tar archive",
		Long: `Create a tar archive at OUTPUT.

Each FILE is added under its own path; absolute paths lose their leading
separator. --text NAME=CONTENT adds an in-memory entry with mode 0644 and the
current time. --content-addressed stores files under "bucket-subbucket-digest"
names instead. --recursive walks directory arguments; without it a
directory adds a single header entry. --compression selects none, gzip or
zstd.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compression, err := util.ParseCompression(cfg.setting(cmd, "compression", VCompression))
			if err != nil {
				return err
			}
			log := logger.From(cmd.Context())
			out, files := args[0], args[1:]

			a, err := util.CreateArchive(out, util.WithCompression(compression))
			if err != nil {
				return err
			}
			for _, t := range texts {
				name, content, ok := strings.Cut(t, "=")
				if !ok || name == "" {
					return errors.Join(fmt.Errorf("invalid --text %q, want NAME=CONTENT", t), a.Close())
				}
				if err := a.AppendText(name, content); err != nil {
					return errors.Join(err, a.Close())
				}
				log.Debug("added text entry", "name", name, "size", len(content))
			}
			for _, f := range files {
				if recursive {
					if info, statErr := os.Stat(f); statErr == nil && info.IsDir() {
						n, err := a.AppendTree(f)
						if err != nil {
							return errors.Join(err, a.Close())
						}
						log.Debug("added tree", "path", f, "files", n)
						continue
					}
				}
				name := util.EntryName(f)
				if contentAddressed {
					name, err = a.AppendContentAddressed(f)
				} else {
					err = a.AppendFile(f)
				}
				if err != nil {
					return errors.Join(err, a.Close())
				}
				log.Debug("added file", "path", f, "name", name)
			}
			if err := a.Close(); err != nil {
				return err
			}
			log.Info("archive written", "path", out, "entries", len(texts)+len(files), "compression", compression.String())
			return nil
		},
	}

	cmd.Flags().StringP("compression", "c", "none", "Compression: none, gzip or zstd")
	cmd.Flags().StringArrayVar(&texts, "text", nil, "Add an entry NAME=CONTENT (repeatable)")
	cmd.Flags().BoolVar(&contentAddressed, "content-addressed", false, "Name file entries by content digest")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Add directories with everything below them")

	return cmd
}

func newArchiveListCmd(cfg *config) *cobra.Command {
	var (
		asJSON bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "list ARCHIVE",
		Short: "List entries with their digests and summarize an archive",
		Long: `List every regular file in ARCHIVE with its digest, size and name.

Compression is detected from the content. --output writes the manifest as
JSON, ready for "archive verify".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := util.ParseAlgorithm(cfg.setting(cmd, "algorithm", VAlgorithm))
			if err != nil {
				return err
			}
			m, compression, err := util.ReadManifestFile(args[0], alg)
			if err != nil {
				return err
			}
			m.Sort()
			summary := m.Summarize(compression)

			if output != "" {
				if err := util.WriteJSONFile(output, m); err != nil {
					return fmt.Errorf("writing manifest: %w", err)
				}
				logger.From(cmd.Context()).Info("manifest written", "path", output)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Summary  util.Summary   `json:"summary"`
					Manifest *util.Manifest `json:"manifest"`
				}{summary, m})
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for e := range m.Iterate {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Digest, util.BytesAsHumanReadable(e.Size), e.Name)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d entries (%d unique), %s, %s, %s\n",
				summary.EntryCount, summary.UniqueContentCount, summary.HumanSize, summary.Compression, summary.Algorithm)
			return nil
		},
	}

	cmd.Flags().StringP("algorithm", "a", "sha256", "Digest algorithm for entries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary and manifest as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the manifest JSON to this file")

	return cmd
}

func newArchiveVerifyCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "verify ARCHIVE",
		Short: "Check archive entries against a manifest",
		Long: `Recompute the digest of every entry in ARCHIVE and compare it with the
manifest written by "archive list --output". Digests in the manifest may be
plain hex or OCI "algorithm:hex" strings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			want := util.NewManifest(util.SHA256)
			if err := util.ReadJSONFile(manifestPath, want); err != nil {
				return fmt.Errorf("reading manifest: %w", err)
			}
			got, _, err := util.ReadManifestFile(args[0], want.Algorithm())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			mismatches := got.Compare(want)
			for _, mm := range mismatches {
				fmt.Fprintf(out, "  - %s\n", mm)
			}
			fmt.Fprintf(out, "Entries checked: %d\n", got.Len())
			fmt.Fprintf(out, "Mismatches: %d\n", len(mismatches))
			if len(mismatches) > 0 {
				return fmt.Errorf("%w: %d mismatches", ErrVerifyFailed, len(mismatches))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Manifest JSON to verify against (required)")
	cmd.MarkFlagRequired("manifest")

	return cmd
}
