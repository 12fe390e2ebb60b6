package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/mattanapol/image_collision/internal/collision"
	"github.com/mattanapol/image_collision/internal/common"
	"github.com/mattanapol/image_collision/internal/csv_helper"
	"github.com/mattanapol/image_collision/internal/file_helper"
	"github.com/mattanapol/image_collision/internal/phash"
	"github.com/mattanapol/image_collision/internal/scanner"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var log = logrus.New()

type options struct {
	ignore     string
	noDCT      bool
	resolution uint32
	workers    int
	csvFile    string
	progress   bool
	verbose    bool
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if err := newRootCommand(afero.NewOsFs()).Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:           "image_duplicate [dir]",
		Short:         "Find images in a directory that share a perceptual hash and dimensions",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetLevel(logrus.WarnLevel)
			if opts.verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			var dir string
			if len(args) == 1 {
				dir = args[0]
			} else {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				dir = wd
			}
			return run(cmd.Context(), fs, dir, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.ignore, "ignore", "i", "", "file listing paths to ignore, one per line")
	flags.BoolVar(&opts.noDCT, "no-dct", false, "hash pixels directly instead of DCT coefficients")
	flags.Uint32VarP(&opts.resolution, "resolution", "r", phash.DefaultResolution, "hash width and height in cells")
	flags.IntVarP(&opts.workers, "workers", "j", runtime.NumCPU(), "number of hashing workers")
	flags.StringVar(&opts.csvFile, "csv", "", "also write collisions to this CSV file")
	flags.BoolVar(&opts.progress, "progress", false, "show a progress bar on stderr")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log skipped files and timings")
	return cmd
}

// run performs one scan of dir. Nothing is written to stdout unless the
// whole scan succeeded.
func run(ctx context.Context, fs afero.Fs, dir string, opts options, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	config := phash.Config{Resolution: opts.resolution, DCT: !opts.noDCT}
	if err := config.Validate(); err != nil {
		return err
	}

	paths, err := file_helper.ListCandidates(fs, dir)
	if err != nil {
		return fmt.Errorf("reading directory: %w", err)
	}

	if opts.ignore != "" {
		ignored, err := common.LoadIgnoreSet(fs, opts.ignore)
		if err != nil {
			return err
		}
		paths = ignored.Filter(paths)
	}
	log.WithField("dir", dir).WithField("config", config).Debugf("found %d candidate files", len(paths))

	scanOpts := scanner.Options{Workers: opts.workers, Logger: log}
	if opts.progress && len(paths) > 0 {
		bar := progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("Hashing images"),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		scanOpts.Progress = bar
	}

	items, err := scanner.Run(ctx, fs, paths, config.NewHasher, scanOpts)
	if err != nil {
		return err
	}
	log.Debugf("hashed %d of %d files", len(items), len(paths))

	aggregator := collision.NewAggregator(config)
	if err := aggregator.AddAll(items); err != nil {
		return err
	}
	groups := aggregator.Groups()

	if opts.csvFile != "" {
		if err := csv_helper.WriteCSV(fs, opts.csvFile, collision.CSVHeaders, collision.Records(groups)); err != nil {
			return err
		}
	}
	return collision.Print(stdout, groups)
}
