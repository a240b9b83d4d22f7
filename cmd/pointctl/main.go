// Command pointctl annotates a dimensionality-reduced point cloud with
// per-point explanations and writes the result as CSV.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gijs-s/pointctl"
	"github.com/gijs-s/pointctl/fs"
	"github.com/gijs-s/pointctl/index"
	"github.com/gijs-s/pointctl/pointset"
)

const progressBarWidth = 40

var rootCmd = &cobra.Command{
	Use:           "pointctl",
	Short:         "Point cloud explanation tool",
	Long:          "pointctl explains dimensionality reductions: for every projected point it reports which original attribute dominates its neighborhood, and how confidently.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	originalPath string
	reducedPath  string
	outputPath   string
	algorithm    string
	radius       float64
	knn          int
	maxNeighbors int
	threshold    float64
	workers      int
	seed         int64
	source       string
	cacheDists   bool
	verbose      bool
	jsonLogs     bool
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Annotate every point with its dominant attribute and confidence",
	RunE:  runExplain,
}

func init() {
	f := explainCmd.Flags()
	f.StringVarP(&originalPath, "original", "i", "", "CSV with the original high-dimensional points (required)")
	f.StringVarP(&reducedPath, "reduced", "r", "", "CSV with the 2D/3D reduced points (required)")
	f.StringVarP(&outputPath, "output", "o", "annotated.csv", "output path (.gz for gzip)")
	f.StringVarP(&algorithm, "algorithm", "a", "rtree", "spatial index: brute, rtree or hnsw")
	f.Float64Var(&radius, "radius", 0, "neighborhood radius as a fraction of the projection width, in (0,1]")
	f.IntVarP(&knn, "neighbors", "k", 0, "neighborhood size for k-NN mode")
	f.IntVarP(&maxNeighbors, "max-neighbors", "m", pointctl.DefaultMaxNeighbors, "cap on neighborhood size")
	f.Float64VarP(&threshold, "threshold", "t", 0, "blank annotations below this confidence")
	f.IntVarP(&workers, "workers", "w", 0, "worker count (0 = hardware parallelism)")
	f.Int64Var(&seed, "seed", 1, "seed for neighborhood sampling and hnsw build")
	f.StringVar(&source, "source", "reduced", "space neighbors are found in: reduced or original")
	f.BoolVar(&cacheDists, "cache-distances", false, "memoize pairwise distances for the run")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	f.BoolVar(&jsonLogs, "json-logs", false, "JSON log output")

	_ = explainCmd.MarkFlagRequired("original")
	_ = explainCmd.MarkFlagRequired("reduced")

	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	log := newLogger()

	kind, err := index.ParseKind(algorithm)
	if err != nil {
		return fmt.Errorf("%w: %w", pointctl.ErrInvalidConfig, err)
	}

	var src pointctl.NeighborSource
	switch source {
	case "reduced":
		src = pointctl.SourceReduced
	case "original":
		src = pointctl.SourceOriginal
	default:
		return fmt.Errorf("%w: unknown neighbor source %q", pointctl.ErrInvalidConfig, source)
	}

	originalRows, names, err := fs.ReadPointsFile(originalPath)
	if err != nil {
		return err
	}
	reducedRows, _, err := fs.ReadPointsFile(reducedPath)
	if err != nil {
		return err
	}

	original, err := pointset.New(originalRows)
	if err != nil {
		return err
	}
	reduced, err := pointset.New(reducedRows)
	if err != nil {
		return err
	}

	log.Info("points loaded",
		"points", original.Len(),
		"dimension", original.Dim(),
		"reduced_dimension", reduced.Dim(),
	)

	engine, err := pointctl.New(original, reduced, func(o *pointctl.Options) {
		o.Algorithm = kind
		o.Radius = float32(radius)
		o.K = knn
		o.MaxNeighbors = maxNeighbors
		o.ConfidenceThreshold = float32(threshold)
		o.Workers = workers
		o.Seed = seed
		o.Source = src
		o.CacheDistances = cacheDists
		o.AttributeNames = names
		o.Logger = log
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go pollProgress(ctx, engine, done)

	annotated, err := engine.Annotate(ctx)
	close(done)
	if err != nil {
		return err
	}

	if err := fs.WriteAnnotatedFile(outputPath, annotated); err != nil {
		return err
	}

	log.Info("annotated point set written", "path", outputPath)
	return nil
}

func newLogger() *pointctl.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if jsonLogs {
		return pointctl.NewJSONLogger(level)
	}
	return pointctl.NewTextLogger(level)
}

// pollProgress renders a progress bar on stderr until done closes.
func pollProgress(ctx context.Context, engine *pointctl.Engine, done <-chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			fmt.Fprint(os.Stderr, "\r"+strings.Repeat(" ", progressBarWidth+20)+"\r")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			completed, total := engine.Progress()
			if total == 0 {
				continue
			}
			filled := int(completed * progressBarWidth / total)
			bar := strings.Repeat("#", filled) + strings.Repeat("-", progressBarWidth-filled)
			fmt.Fprintf(os.Stderr, "\r[%s] %d/%d", bar, completed, total)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pointctl:", err)
		os.Exit(pointctl.ExitCode(err))
	}
}
