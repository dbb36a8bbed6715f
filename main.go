package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"chatterm/api"
	"chatterm/config"
	"chatterm/ui"
)

func main() {
	configPath := flag.String("config", "chatterm.yaml", "path to the configuration file")
	apiBase := flag.String("server", "", "API base URL override (e.g. http://localhost:8080/v1)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *apiBase != "" {
		cfg.APIBase = *apiBase
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client := api.NewClient(api.Config{
		AppID:                cfg.AppID,
		Region:               cfg.Region,
		AuthKey:              cfg.AuthKey,
		PresenceSubscription: cfg.PresenceSubscription,
		BaseURL:              cfg.APIBase,
		SocketURL:            cfg.SocketBase,
	}, logger)

	app := ui.NewApp(client, logger)
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes structured logs to a file; the terminal belongs to
// the UI.
func newLogger(path string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}
