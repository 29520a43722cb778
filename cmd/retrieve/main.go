package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"network-summary/internal/config"
	"network-summary/internal/data"
	"network-summary/internal/logging"

	"go.uber.org/zap"
)

// Downloads one data bundle, drawing a progress bar on stderr.
func main() {
	var (
		url      = flag.String("url", "", "Resource to download")
		output   = flag.String("output", "", "Destination file (default: ./data/<basename of url>)")
		logLevel = flag.String("log-level", "INFO", "Log level")
		quiet    = flag.Bool("quiet", false, "Do not print progress")
	)
	flag.Parse()

	if *url == "" {
		fmt.Fprintln(os.Stderr, "--url is required")
		os.Exit(2)
	}
	if *output == "" {
		*output = filepath.Join("data", filepath.Base(*url))
	}

	logger, closeLog, err := logging.New(logging.Options{
		LoggingConfig: config.LoggingConfig{Level: *logLevel},
		SkipHandlers:  true,
	}, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var hook data.ProgressFunc
	if !*quiet {
		hook = data.PercentHook(progressBar(os.Stderr))
	}

	logger.Info("downloading", zap.String("url", *url), zap.String("output", *output))
	d := data.NewDownloader(logger)
	if err := d.Retrieve(ctx, *url, *output, hook); err != nil {
		if !*quiet {
			fmt.Fprintln(os.Stderr)
		}
		logger.Fatal("download failed", zap.Error(err))
	}
	if !*quiet {
		fmt.Fprintln(os.Stderr)
	}
	logger.Info("download complete", zap.String("output", *output))
}
