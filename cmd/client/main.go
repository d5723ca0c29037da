// Package main runs the Postboard terminal client: it loads configuration,
// restores the persisted session and starts the interactive shell.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/postboard/internal/client/api"
	"github.com/atinyakov/postboard/internal/client/app"
	"github.com/atinyakov/postboard/internal/client/report"
	"github.com/atinyakov/postboard/internal/client/storage"
	"github.com/atinyakov/postboard/internal/client/ui"
	"github.com/atinyakov/postboard/internal/client/view"
	"github.com/atinyakov/postboard/internal/config"
	"github.com/atinyakov/postboard/internal/logger"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if options.Version {
		fmt.Printf("Postboard Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	// Open the session store.
	store, closeStore, err := storage.Open(options.Store, options.StorePath, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot open session store", zap.String("store", options.Store), zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			zapLogger.Warn("failed to close session store", zap.Error(err))
		}
	}()

	hc, err := api.NewHTTPClient(options.CAFile, time.Duration(options.Timeout))
	if err != nil {
		zapLogger.Fatal("cannot build http client", zap.Error(err))
	}

	reporter := report.New(report.DefaultDelay)
	defer reporter.Stop()

	client := api.NewClient(options.BaseURL, hc, reporter, zapLogger)
	prompt := ui.NewPrompter(os.Stdin, os.Stdout)

	a := app.New(app.Deps{
		API:     client,
		Store:   store,
		Banner:  reporter,
		Confirm: prompt,
		Format:  view.NewTimeFormatter(options.TimeLayout, view.ParseLocale(options.Locale), time.Local, time.Now),
		Log:     zapLogger,
	})
	client.Token = a.Token

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapLogger.Info("starting client", zap.String("url", options.BaseURL), zap.String("store", options.Store))
	if err := a.Start(ctx); err != nil {
		zapLogger.Error("startup failed", zap.Error(err))
		return
	}
	ui.NewShell(a, prompt, os.Stdout).Run(ctx)
}
