package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is loaded from config.yaml (CONFIG_PATH overrides the location),
// then individual environment variables override fields.
type Config struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`

	// StorageDriver selects the experiment store: memory, sqlite, postgres.
	StorageDriver string `yaml:"storage_driver"`
	SQLitePath    string `yaml:"sqlite_path"`

	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     int    `yaml:"postgres_port"`
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"postgres_password"`
	PostgresDBName   string `yaml:"postgres_dbname"`
	PostgresSSLMode  string `yaml:"postgres_sslmode"`
}

func Load() Config {
	cfg := Config{
		Port:            "8001",
		CORSOrigins:     []string{"http://localhost:3000"},
		StorageDriver:   "memory",
		SQLitePath:      "diagbench.db",
		PostgresHost:    "localhost",
		PostgresPort:    5432,
		PostgresSSLMode: "disable",
	}

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	envOverride(&cfg.Port, "PORT")
	envOverride(&cfg.StorageDriver, "STORAGE_DRIVER")
	envOverride(&cfg.SQLitePath, "SQLITE_PATH")
	envOverride(&cfg.PostgresHost, "POSTGRES_HOST")
	envOverrideInt(&cfg.PostgresPort, "POSTGRES_PORT")
	envOverride(&cfg.PostgresUser, "POSTGRES_USER")
	envOverride(&cfg.PostgresPassword, "POSTGRES_PASSWORD")
	envOverride(&cfg.PostgresDBName, "POSTGRES_DBNAME")
	envOverride(&cfg.PostgresSSLMode, "POSTGRES_SSLMODE")
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		} else {
			log.Printf("Ignoring non-integer %s=%q", key, v)
		}
	}
}
