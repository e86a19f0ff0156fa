package main

import (
	"flag"
	"log/slog"
	"os"

	"facet-backend/lib/configutil"
	"facet-backend/lib/telemetry"
	"facet-backend/lib/util/serviceutil"
	"facet-backend/services/viewer"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tel, err := telemetry.SetupFromEnv(ctx, "facetd")
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("no telemetry.json5 found, tracing disabled")
		} else {
			serviceutil.Fatal("setup telemetry", err)
		}
	} else {
		defer func() {
			if err := tel.Shutdown(ctx); err != nil {
				slog.Error("failed to shut down telemetry", "err", err)
			}
		}()
	}

	cfg, err := configutil.ReadConfig[viewer.Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}

	var cache *badger.DB
	if cfg.CacheDir != "" {
		cache, err = badger.Open(badger.DefaultOptions(cfg.CacheDir))
		if err != nil {
			serviceutil.Fatal("open route cache", err)
		}
		defer cache.Close()
	}

	service := viewer.NewService(cfg, cache)
	serviceutil.StartHttpServer(ctx, cfg.Port, service.Router())
}
