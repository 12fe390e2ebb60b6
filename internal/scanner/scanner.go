package scanner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/mattanapol/image_collision/internal/phash"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// HasherFactory builds the private Hasher of one worker.
type HasherFactory func() (*phash.Hasher, error)

// Tracker receives one tick per processed path. *progressbar.ProgressBar
// satisfies it.
type Tracker interface {
	Add(num int) error
}

type Options struct {
	// Workers defaults to runtime.NumCPU().
	Workers  int
	Progress Tracker
	Logger   logrus.FieldLogger
}

// Run hashes every path on a fixed pool of workers. Each worker owns exactly
// one Hasher for its lifetime, and all of those hashers must share one
// Config. Files that fail to decode are left out of the result; only a
// failing factory, a config mismatch or a cancelled ctx aborts the run.
//
// Results are returned once every worker is done, in no particular order.
func Run(ctx context.Context, fs afero.Fs, paths []string, factory HasherFactory, opts Options) ([]Item, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}
	log.WithField("workers", workers).WithField("files", len(paths)).Debug("hashing images")

	jobs := make(chan string)
	perWorker := make([][]Item, workers)
	g, ctx := errgroup.WithContext(ctx)

	var (
		mu        sync.Mutex
		runConfig *phash.Config
	)
	sameConfig := func(c phash.Config) error {
		mu.Lock()
		defer mu.Unlock()
		if runConfig == nil {
			runConfig = &c
			return nil
		}
		if *runConfig != c {
			return fmt.Errorf("%w: worker hasher uses %s, run uses %s", phash.ErrConfigMismatch, c, *runConfig)
		}
		return nil
	}

	g.Go(func() error {
		defer close(jobs)
		for _, path := range paths {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			hasher, err := factory()
			if err != nil {
				return err
			}
			if err := sameConfig(hasher.Config()); err != nil {
				return err
			}
			for path := range jobs {
				dims, hash, err := HashOne(fs, hasher, path)
				if opts.Progress != nil {
					_ = opts.Progress.Add(1)
				}
				if err != nil {
					log.WithError(err).Debug("skipping file")
					continue
				}
				perWorker[w] = append(perWorker[w], Item{Dimensions: dims, Path: path, Hash: hash})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []Item
	for _, batch := range perWorker {
		items = append(items, batch...)
	}
	return items, nil
}
