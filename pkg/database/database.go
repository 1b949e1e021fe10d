package database

import (
	"fmt"
	"time"

	"hr_recruit_backend/internal/config"
	"hr_recruit_backend/internal/model"
	applog "hr_recruit_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table the service owns, in creation order.
var Models = []interface{}{
	&model.Vacancy{},
	&model.VacancyFile{},
	&model.Testing{},
	&model.PracticalQuestion{},
	&model.TheoreticalQuestion{},
	&model.AnswerOption{},
	&model.Attempt{},
}

// InitDB opens the MySQL pool. Schema migration runs only when migrate is set,
// release deployments migrate explicitly with -migrate.
func InitDB(cfg *config.DatabaseConfig, mode string, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=UTC",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	applog.Log.Info("Database connection established", zap.String("host", cfg.Host), zap.String("db", cfg.DBName))

	if !migrate {
		return db, nil
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	applog.Log.Info("Database migration completed", zap.Int("tables", len(Models)))

	return db, nil
}
