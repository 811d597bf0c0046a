package db

import (
	"orderapi/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{}
	if cfg.GoEnv == "prod" {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	return gorm.Open(postgres.Open(cfg.PostgresDSN()), gcfg)
}
