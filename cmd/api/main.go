package main

import (
	"context"

	"github.com/PratikDhanave/detection-sessions/internal/config"
	"github.com/PratikDhanave/detection-sessions/internal/httpserver"
	"github.com/PratikDhanave/detection-sessions/internal/logging"
	"github.com/PratikDhanave/detection-sessions/internal/store"
)

// main boots the service: config → logging → store + schema → HTTP server.
func main() {
	// Defaults, optional config.yaml, then environment (DB_URL, DB_DRIVER, API_KEYS, ...).
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	// Connect to the event store and make sure the schema exists.
	st, err := store.Open(context.Background(), cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("open store")
	}
	defer st.Close()

	router := httpserver.NewRouter(cfg, st)

	logging.Info().Str("addr", cfg.Server.Addr).Str("driver", cfg.Database.Driver).Msg("server started")
	if err := router.Run(cfg.Server.Addr); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}
