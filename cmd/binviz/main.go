// Command binviz turns any file into a point cloud: every 3 bytes become a
// point on a sphere, repeated triplets are counted, and the result is
// summarised on stdout or served to a browser with -listen.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/teschty/binviz/internal/cloud"
	"github.com/teschty/binviz/internal/config"
	"github.com/teschty/binviz/internal/fsutil"
	"github.com/teschty/binviz/internal/pointdb"
	"github.com/teschty/binviz/internal/version"
	"github.com/teschty/binviz/internal/viewer"
)

const usageLine = "Usage: binviz [flags] <file>"

type options struct {
	configPath string
	listen     string
	dropLast   bool
	noColor    bool
	version    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process plumbing; it returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("binviz", flag.ContinueOnError)
	fs.SetOutput(stdout)

	var o options
	fs.StringVar(&o.configPath, "config", "", "Path to viewer config JSON (defaults built in)")
	fs.StringVar(&o.listen, "listen", "", "Serve the viewer on this address, e.g. localhost:8080 (empty = print and exit)")
	fs.BoolVar(&o.dropLast, "drop-last", false, "Drop the final complete triplet (legacy truncation)")
	fs.BoolVar(&o.noColor, "no-color", false, "Skip point colouring")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stdout, usageLine)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if o.version {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return 0
	}
	path := fs.Arg(0)

	cfg := config.EmptyViewerConfig()
	if o.configPath != "" {
		var err error
		cfg, err = config.LoadViewerConfig(o.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	opts := cloud.DefaultOptions()
	if o.dropLast || cfg.GetDropLastTriplet() {
		opts.Policy = cloud.DropLast
	}
	opts.SkipColor = o.noColor

	c, err := cloud.LoadFile(fsutil.OSFileSystem{}, path, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading file: %v\n", err)
		return 1
	}

	printSummary(stdout, cloud.Summarize(c), c.Source)

	if o.listen == "" {
		return 0
	}
	if err := serve(ctx, c, cfg, o.listen); err != nil {
		fmt.Fprintf(stderr, "Error serving viewer: %v\n", err)
		return 1
	}
	return 0
}

func printSummary(w io.Writer, s cloud.Summary, src cloud.Source) {
	fmt.Fprintf(w, "%d unique points, %d duplicates discarded\n", s.UniquePoints, s.Duplicates)
	fmt.Fprintf(w, "source: %s (%d bytes, %s)\n", src.Path, s.SizeBytes, s.Digest)
	fmt.Fprintf(w, "run: %s policy=%s triplets=%d consumed=%d dropped=%d\n",
		s.RunID, s.Policy, s.Triplets, s.Consumed, s.Dropped)
	if s.UniquePoints > 0 {
		fmt.Fprintf(w, "duplicates per point: max=%.0f mean=%.3f stddev=%.3f p50=%.0f p90=%.0f p99=%.0f\n",
			s.MaxDuplicates, s.MeanDuplicates, s.StdDevDuplicates,
			s.P50Duplicates, s.P90Duplicates, s.P99Duplicates)
	}
}

func serve(ctx context.Context, c *cloud.Cloud, cfg *config.ViewerConfig, addr string) error {
	db, err := pointdb.OpenIndexed(c)
	if err != nil {
		return fmt.Errorf("failed to index points: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close point index: %v", err)
		}
	}()

	ws, err := viewer.NewWebServer(viewer.WebServerConfig{Cloud: c, Config: cfg, Index: db})
	if err != nil {
		return err
	}
	return ws.Start(ctx, addr)
}
