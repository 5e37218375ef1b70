package main

import (
	"fmt"

	"github.com/zulandar/tasktrail/internal/config"
	"github.com/zulandar/tasktrail/internal/db"
	"gorm.io/gorm"
)

const defaultConfigPath = "tasktrail.yaml"

func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s database: %w", cfg.Database.Driver, err)
	}

	return cfg, gormDB, nil
}
