// Verifies or updates the checksums of FITS files
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/robert-malhotra/go-fits/fits"
	"github.com/robert-malhotra/go-fits/internal/config"
	"github.com/robert-malhotra/go-fits/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("fitscheck", flag.ContinueOnError)
	flags.SetOutput(stderr)
	update := flags.Bool("update", false, "write the checksums instead of verifying them")
	workers := flags.Int("workers", 0, "files processed at once (default $FITS_WORKERS or GOMAXPROCS)")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		fmt.Fprintln(stderr, "Usage: fitscheck [-update] [-workers n] <file.fits>...")
		return 2
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 2
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	logger := logging.Setup(stderr, cfg.LogLevel, cfg.LogFormat)

	paths := flags.Args()
	results := checkAll(paths, *update, cfg.Workers, logger)

	status := 0
	for i, path := range paths {
		if err := results[i]; err != nil {
			fmt.Fprintf(stdout, "%s: %v\n", path, err)
			status = 1
			continue
		}
		if *update {
			fmt.Fprintf(stdout, "%s: updated\n", path)
		} else {
			fmt.Fprintf(stdout, "%s: OK\n", path)
		}
	}
	return status
}

// checkAll processes the files with at most workers at once and returns
// the outcome for each path, in order.
func checkAll(paths []string, update bool, workers int, logger *slog.Logger) []error {
	results := make([]error, len(paths))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			log := logging.WithFile(logger, path)
			if update {
				results[i] = updateFile(path, log)
			} else {
				results[i] = verifyFile(path, log)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func verifyFile(path string, logger *slog.Logger) (err error) {
	f, err := fits.Open(path, fits.Read, fits.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	err = f.VerifyChecksums()
	var sumErr *fits.ChecksumError
	if errors.As(err, &sumErr) {
		logger.Warn("checksum mismatch",
			slog.Int("hdu", sumErr.HDUIndex),
			slog.String("data", sumErr.Data.String()),
			slog.String("header", sumErr.HDU.String()))
	}
	return err
}

func updateFile(path string, logger *slog.Logger) error {
	f, err := fits.Open(path, fits.Edit, fits.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := f.UpdateChecksums(); err != nil {
		return errors.Join(err, f.Close())
	}
	logger.Info("checksums updated")
	return f.Close()
}
