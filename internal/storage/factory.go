package storage

import (
	"context"
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type FactoryResult struct {
	Driver string
	Store  Store
}

func FromEnv(ctx context.Context) (FactoryResult, error) {
	_ = ctx

	driver := os.Getenv("KV_DRIVER")
	if driver == "" {
		driver = "local"
	}

	switch driver {
	case "local":
		baseDir := envOr("LOCAL_KV_DIR", "./storage/cart")
		return FactoryResult{Driver: "local", Store: NewLocal(baseDir)}, nil

	case "mysql":
		dsn := os.Getenv("DB_DSN")
		if dsn == "" {
			return FactoryResult{}, fmt.Errorf("mysql config missing: DB_DSN required")
		}
		db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			return FactoryResult{}, fmt.Errorf("connect mysql: %w", err)
		}
		s, err := NewGorm(db)
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "mysql", Store: s}, nil

	case "memory":
		return FactoryResult{Driver: "memory", Store: NewMemory()}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown KV_DRIVER: %s", driver)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
