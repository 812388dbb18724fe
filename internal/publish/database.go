package publish

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DBConfig holds the MySQL connection settings
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// ConfigFromEnv reads DB_HOST, DB_PORT, DB_USERNAME, DB_PASSWORD and
// DB_DATABASE. A project .env has already been loaded by config.Load.
func ConfigFromEnv() DBConfig {
	return DBConfig{
		Host:     getenv("DB_HOST", "127.0.0.1"),
		Port:     getenv("DB_PORT", "3306"),
		User:     getenv("DB_USERNAME", "root"),
		Password: os.Getenv("DB_PASSWORD"),
		Database: getenv("DB_DATABASE", "shoptest"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DSN formats the connection string, with or without the database selected.
func (c DBConfig) DSN(withDatabase bool) string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, c.Port)
	cfg.ParseTime = true
	cfg.Timeout = 10 * time.Second
	if withDatabase {
		cfg.DBName = c.Database
	}
	return cfg.FormatDSN()
}

// Open connects to the server, creates the results database if it does not
// exist and returns a handle on it.
func Open(ctx context.Context, c DBConfig) (*sql.DB, error) {
	if !isValidDatabaseName(c.Database) {
		return nil, fmt.Errorf("invalid database name: %s", c.Database)
	}

	server, err := sql.Open("mysql", c.DSN(false))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer server.Close()

	if err := server.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}
	if _, err := server.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", c.Database)); err != nil {
		return nil, fmt.Errorf("failed to create database %s: %w", c.Database, err)
	}

	db, err := sql.Open("mysql", c.DSN(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", c.Database, err)
	}
	return db, nil
}

// isValidDatabaseName validates database name (basic check)
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	invalidChars := []string{"'", "\"", "`", ";", "--", "/*", "*/", " ", "DROP", "DELETE", "TRUNCATE"}
	upperName := strings.ToUpper(name)
	for _, char := range invalidChars {
		if strings.Contains(upperName, char) {
			return false
		}
	}
	return true
}
