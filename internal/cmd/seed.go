package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/dendrascience/toolbelt/internal/logger"
	"github.com/dendrascience/toolbelt/util"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// maxFilesPerDir caps how many fixtures land in a single directory.
const maxFilesPerDir = 1000

// NewSeedCmd creates and returns the seed subcommand for the toolbelt CLI.
// It generates fixture files with a randomized directory structure.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		seed       uint64
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate fixture files with randomized directory structure",
		Long: `Generate fixture files for exercising hash, count and archive commands.

Creates files in a YYYY/MM/DD/HH/mm/SS directory structure, with most files
at the deepest level. Each file holds one UUID line drawn from a pool of 50,
so many files share content. --seed makes the layout repeatable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fileCount < 0 {
				return fmt.Errorf("--count must not be negative")
			}
			if !cmd.Flags().Changed("seed") {
				seed = rand.Uint64()
			}
			stats, err := runSeed(util.ShellExpand(outputPath), fileCount, seed)
			if err != nil {
				return err
			}
			logger.From(cmd.Context()).Info("seeded fixtures",
				"path", outputPath, "files", stats.files, "dirs", stats.dirs, "seed", seed)
			if verbose {
				stats.print(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 10000, "Number of files to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for a repeatable layout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print distribution statistics")

	cmd.MarkFlagRequired("output")

	return cmd
}

type seedStats struct {
	files    int
	dirs     int
	minInDir int
	maxInDir int
}

func (s seedStats) print(w io.Writer) {
	fmt.Fprintf(w, "Successfully created %d files\n", s.files)
	fmt.Fprintf(w, "Files distributed across %d directories\n", s.dirs)
	fmt.Fprintf(w, "Directory file counts: min=%d, max=%d\n", s.minInDir, s.maxInDir)
}

// seedDir picks the directory depth for a fixture: 5% year, 5% month,
// 5% day, 10% hour, 15% minute and the rest at second level.
func seedDir(root string, ts time.Time, roll int) string {
	parts := []string{
		fmt.Sprintf("%04d", ts.Year()),
		fmt.Sprintf("%02d", ts.Month()),
		fmt.Sprintf("%02d", ts.Day()),
		fmt.Sprintf("%02d", ts.Hour()),
		fmt.Sprintf("%02d", ts.Minute()),
		fmt.Sprintf("%02d", ts.Second()),
	}
	var depth int
	switch {
	case roll < 5:
		depth = 1
	case roll < 10:
		depth = 2
	case roll < 15:
		depth = 3
	case roll < 25:
		depth = 4
	case roll < 40:
		depth = 5
	default:
		depth = 6
	}
	return filepath.Join(append([]string{root}, parts[:depth]...)...)
}

func runSeed(outputPath string, fileCount int, seed uint64) (seedStats, error) {
	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return seedStats{}, fmt.Errorf("creating output directory: %w", err)
	}

	rng := rand.New(rand.NewPCG(seed, seed>>1))

	uuidPool := make([]string, 50)
	for i := range uuidPool {
		uuidPool[i] = uuid.New().String()
	}

	dirFileCounts := make(map[string]int)
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	created := 0
	for created < fileCount {
		fileTime := baseTime.Add(time.Duration(rng.Int64N(int64(365 * 24 * time.Hour))))
		fileTime = fileTime.Truncate(time.Second)
		dirPath := seedDir(outputPath, fileTime, rng.IntN(100))

		if dirFileCounts[dirPath] >= maxFilesPerDir {
			continue
		}
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return seedStats{}, fmt.Errorf("creating %s: %w", dirPath, err)
		}

		ext := ".json"
		if rng.IntN(2) == 1 {
			ext = ".txt"
		}
		filePath := filepath.Join(dirPath, fmt.Sprintf("%08x%s", rng.Uint32(), ext))
		if _, err := os.Stat(filePath); err == nil {
			continue
		}

		content := uuidPool[rng.IntN(len(uuidPool))] + "\n"
		if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
			return seedStats{}, fmt.Errorf("writing %s: %w", filePath, err)
		}
		dirFileCounts[dirPath]++
		created++
	}

	stats := seedStats{files: created, dirs: len(dirFileCounts), minInDir: maxFilesPerDir}
	for _, count := range dirFileCounts {
		stats.maxInDir = max(stats.maxInDir, count)
		stats.minInDir = min(stats.minInDir, count)
	}
	if len(dirFileCounts) == 0 {
		stats.minInDir = 0
	}
	return stats, nil
}
