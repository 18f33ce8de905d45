package main

import (
	"fyne.io/fyne/v2/app"

	"github.com/julianstephens/meter/internal/config"
	"github.com/julianstephens/meter/internal/constants"
	"github.com/julianstephens/meter/internal/errors"
	"github.com/julianstephens/meter/internal/invoice"
	"github.com/julianstephens/meter/internal/logger"
	"github.com/julianstephens/meter/internal/notifier"
	"github.com/julianstephens/meter/internal/session"
	"github.com/julianstephens/meter/internal/storage"
	"github.com/julianstephens/meter/internal/tray"
)

func main() {
	cfg, err := config.Load(config.Options{})
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, Dir: cfg.Dir}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Close()

	target, err := cfg.DatabaseTarget()
	if err != nil {
		errors.Fatal(err)
	}
	var store storage.Provider
	if cfg.Database == config.KeyringDatabase {
		store, err = storage.NewTrusted(target)
	} else {
		store, err = storage.New(target)
	}
	if err != nil {
		errors.Fatal(err)
	}
	if err := storage.Ready(store); err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	var renderer invoice.Renderer = invoice.PDFRenderer{}
	if cfg.InvoiceFormat == constants.InvoiceFormatText {
		renderer = invoice.TextRenderer{}
	}

	lockDir, err := notifier.GetTrayAppConfigDir()
	if err != nil {
		errors.Fatal(err)
	}

	t, err := tray.New(app.NewWithID(constants.TrayAppIdentifier), store,
		session.WithGenerator(invoice.NewGenerator(store, renderer, cfg.InvoiceDir)),
	)
	if err != nil {
		errors.Fatal(err)
	}
	logger.Info("meter-tray started", "version", constants.Version, "lockdir", lockDir)
	if err := t.Run(lockDir, constants.TrayTickInterval); err != nil {
		errors.Fatal(err)
	}
}
