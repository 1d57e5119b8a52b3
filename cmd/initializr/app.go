package main

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"initializr/internal/config"
	"initializr/internal/dependency"
	"initializr/internal/logging"
	"initializr/internal/metadata"
	"initializr/internal/prompt"
	"initializr/internal/store"
	"initializr/internal/wizard"
)

const settingsFile = "settings.yaml"

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	client  *metadata.Client
	prompt  prompt.Port
	history *dependency.History
	out     io.Writer
}

// newApp is replaced in tests.
var newApp = loadApp

func loadApp(out io.Writer) (*app, error) {
	st, err := store.Default()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(st.Path(settingsFile))
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)
	logger.Debug("config loaded", "path", st.Path(settingsFile), "serviceUrls", len(cfg.ServiceURL))

	return &app{
		cfg:     cfg,
		logger:  logger,
		client:  metadata.NewClient(&http.Client{Timeout: 60 * time.Second}, logger),
		prompt:  prompt.NewTerminal(os.Stdin, out),
		history: dependency.NewHistory(st, dependency.ParsePolicy(cfg.LastUsed.Scope)),
		out:     out,
	}, nil
}

func (a *app) sources() wizard.Sources {
	return wizard.Sources{Config: a.cfg, Metadata: a.client, History: a.history}
}

// remember persists the confirmed dependency set once an operation has
// completed.
func (a *app) remember(rec *wizard.Record) {
	if err := a.history.Save(rec.BootVersion, rec.DependencyIDs()); err != nil {
		a.logger.Warn("cannot save last used dependencies", "err", err)
	}
}

func (a *app) engine() *wizard.Engine {
	return wizard.NewEngine(a.prompt, a.logger)
}
