package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func ParseDialect(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "", "sqlite", "sqlite3":
		return "sqlite3"
	case "postgres", "postgresql":
		return "postgres"
	default:
		return strings.ToLower(strings.TrimSpace(d))
	}
}

func NewDialector(config Config) (gorm.Dialector, error) {
	cfg := config.withDefaults()
	switch ParseDialect(cfg.Dialect) {
	case "sqlite3":
		return sqlite.Open(cfg.Datasource), nil
	case "postgres":
		return postgres.Open(cfg.Datasource), nil
	case "mysql":
		return mysql.Open(cfg.Datasource), nil
	default:
		return nil, fmt.Errorf("database: unsupported dialect %q", cfg.Dialect)
	}
}
