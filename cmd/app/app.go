package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/api"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/config"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/logger"
	"github.com/yizeng/gab/gin/redis/holiday-planner/internal/storage"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	store, err := openStore(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize storage -> %w", err)
	}

	s := api.NewServer(conf, store)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

// openStore picks the storage backend from config. REDIS_URL and
// DATABASE_URL env vars win over the config file so hosted deployments
// keep working without editing config.yml.
func openStore(conf *config.AppConfig) (storage.Store, error) {
	switch conf.Storage.Driver {
	case "", "memory":
		return storage.NewMemory(), nil
	case "file":
		return storage.OpenFile(conf.Storage.File)
	case "redis":
		url := os.Getenv("REDIS_URL")
		if url == "" {
			url = conf.Redis.URL
		}

		return storage.OpenRedis(url)
	case "postgres":
		if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
			return storage.OpenPostgresWithURL(dbURL)
		}

		return storage.OpenPostgres(conf.Postgres)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}
