package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type HTTPServer struct {
	Addr string `env:"HTTP_ADDR" env-default:":8080"`
}

// Database holds the resolved connection tuple. It is not populated by
// cleanenv because the resolution rules (DATABASE_URL takes priority,
// otherwise first non-empty of several alternately-named variables) cannot
// be expressed with a single env tag per field.
type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type Pool struct {
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" env-default:"30m"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" env-default:"5m"`
}

type Config struct {
	Env        string `env:"ENV" env-default:"local"`
	Storage    string `env:"STORAGE" env-default:"postgres"`
	JWTSecret  string `env:"JWT_SECRET"`
	HTTPServer HTTPServer
	Pool       Pool
	Database   Database
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present, matching local development setups.
func Load() (*Config, error) {

	_ = godotenv.Load()

	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	cfg.Database = resolveDatabase()

	return &cfg, nil
}

func MustLoad() *Config {

	cfg, err := Load()
	if err != nil {
		log.Fatalf("can not load config: %s", err.Error())
	}

	return cfg
}

// resolveDatabase produces the connection tuple. DATABASE_URL wins outright;
// otherwise each field takes the first non-empty value of its variable chain,
// falling back to the deployment defaults. Values are not validated here,
// malformed settings surface at connect time.
func resolveDatabase() Database {

	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		if db, ok := parseDatabaseURL(raw); ok {
			return db
		}
	}

	return Database{
		Host:     firstOf("postgresql", "DB_HOST", "POSTGRESQL_SERVICE_HOST"),
		Port:     firstOf("5432", "DB_PORT", "POSTGRESQL_SERVICE_PORT"),
		Name:     firstOf("sampledb", "DB_NAME", "POSTGRESQL_DATABASE", "DATABASE_NAME"),
		User:     firstOf("userVNQ", "DB_USER", "POSTGRESQL_USER", "DATABASE_USER"),
		Password: firstOf("cxulDFiUcmTHqp34", "DB_PASSWORD", "POSTGRESQL_PASSWORD", "DATABASE_PASSWORD"),
		SSLMode:  "disable",
	}
}

func parseDatabaseURL(raw string) (Database, bool) {

	parsed, err := url.Parse(raw)
	if err != nil {
		return Database{}, false
	}

	port := parsed.Port()
	if port == "" {
		port = "5432"
	}

	password, _ := parsed.User.Password()

	sslMode := parsed.Query().Get("sslmode")
	if sslMode == "" {
		sslMode = "disable"
	}

	return Database{
		Host:     parsed.Hostname(),
		Port:     port,
		Name:     strings.TrimPrefix(parsed.Path, "/"),
		User:     parsed.User.Username(),
		Password: password,
		SSLMode:  sslMode,
	}, true
}

func firstOf(fallback string, keys ...string) string {

	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}

	return fallback
}

func (d *Database) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, d.Name, d.SSLMode)
}
