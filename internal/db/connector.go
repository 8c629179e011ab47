// Package db provides the database connector used by the governance server.
// It maps a database type string to the matching GORM driver and applies the
// connection settings shared by all binaries.
package db

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	TypeSQLite   = "sqlite"
	TypeMySQL    = "mysql"
	TypePostgres = "postgres"
)

// Connect opens a GORM connection for the given database type and DSN.
func Connect(dbType, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	var dialector gorm.Dialector
	switch dbType {
	case TypeSQLite:
		dialector = sqlite.Open(dsn)
	case TypeMySQL:
		dialector = mysql.Open(dsn)
	case TypePostgres, "":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type %q (expected sqlite, mysql, or postgres)", dbType)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", dbType, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return gormDB, nil
}
