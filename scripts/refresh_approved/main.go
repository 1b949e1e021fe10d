// Recomputes the approved candidates report and stores it in Redis.
//
// The server already does this on its cron schedule. Run it by hand after
// bulk imports of attempts or when the cache was flushed.
//
// Usage: go run ./scripts/refresh_approved
package main

import (
	"context"
	"log"
	"time"

	"hr_recruit_backend/internal/config"
	"hr_recruit_backend/internal/repository"
	"hr_recruit_backend/internal/service"
	"hr_recruit_backend/pkg/database"
	"hr_recruit_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, false)
	if err != nil {
		logger.Log.Fatal("Failed to connect database", zap.Error(err))
	}
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()

	approved := service.NewApprovedService(
		repository.NewVacancyRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewApprovedCache(rdb, cfg.ApprovedCacheTTL()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rows, err := approved.Refresh(ctx)
	if err != nil {
		logger.Log.Fatal("Refresh failed", zap.Error(err))
	}
	logger.Log.Info("Approved candidates refreshed", zap.Int("rows", len(rows)))
}
