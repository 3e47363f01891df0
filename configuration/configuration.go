/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package configuration

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Configuration struct {
	ListenAddress string `yaml:"listen_address" env:"TOL_LISTEN_ADDRESS" env-default:"127.0.0.1:8080" validate:"required"`
	Secret        string `yaml:"secret" env:"TOL_SECRET" validate:"required"`
	AppName       string `yaml:"app_name" env:"TOL_APP_NAME" env-default:"tol" validate:"required"`

	DBDriver       string        `yaml:"db_driver" env:"TOL_DB_DRIVER" env-default:"postgres" validate:"oneof=postgres mysql"`
	DBHost         string        `yaml:"db_host" env:"TOL_DB_HOST" env-default:"127.0.0.1"`
	DBPort         string        `yaml:"db_port" env:"TOL_DB_PORT" env-default:"5432"`
	DBUser         string        `yaml:"db_user" env:"TOL_DB_USER" env-default:"tol"`
	DBPassword     string        `yaml:"db_password" env:"TOL_DB_PASSWORD"`
	DBName         string        `yaml:"db_name" env:"TOL_DB_NAME" env-default:"tol"`
	DBSSLMode      string        `yaml:"db_sslmode" env:"TOL_DB_SSLMODE" env-default:"disable"`
	DBMaxOpen      int           `yaml:"db_max_open" env:"TOL_DB_MAX_OPEN" env-default:"25" validate:"gte=1"`
	DBMaxIdle      int           `yaml:"db_max_idle" env:"TOL_DB_MAX_IDLE" env-default:"5" validate:"gte=0"`
	DBConnLifetime time.Duration `yaml:"db_conn_lifetime" env:"TOL_DB_CONN_LIFETIME" env-default:"5m"`
	DBMigrate      bool          `yaml:"db_migrate" env:"TOL_DB_MIGRATE" env-default:"true"`

	EntityParam string `yaml:"entity_param" env:"TOL_ENTITY_PARAM" env-default:"ent" validate:"required"`
	OutputParam string `yaml:"output_param" env:"TOL_OUTPUT_PARAM" env-default:"out" validate:"required"`

	ImagesDir      string        `yaml:"images_dir" env:"TOL_IMAGES_DIR"`
	SessionsDir    string        `yaml:"sessions_dir" env:"TOL_SESSIONS_DIR"`
	SessionTimeout time.Duration `yaml:"session_timeout" env:"TOL_SESSION_TIMEOUT" env-default:"8h"`

	ControllerSuffix string `yaml:"controller_suffix" env:"TOL_CONTROLLER_SUFFIX" env-default:"T" validate:"required"`
	ProcessorSuffix  string `yaml:"processor_suffix" env:"TOL_PROCESSOR_SUFFIX" env-default:"R" validate:"required"`
}

var Config = Configuration{}

// Init loads the configuration once at startup. A .env file in the working
// directory is applied first, then TOL_CONFIG_FILE (YAML) if set, then the
// environment.
func Init() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		os.Stderr.WriteString("[WARNING][CONFIG] .env not loaded: " + err.Error() + "\n")
	}

	cfg, err := Load(os.Getenv("TOL_CONFIG_FILE"))
	if err != nil {
		return err
	}

	Config = *cfg
	return nil
}

// Load reads and validates a configuration without touching the global.
func Load(path string) (*Configuration, error) {
	var cfg Configuration

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, errors.Wrap(err, "[CONFIG] read configuration")
	}

	cfg.DBDriver = strings.ToLower(cfg.DBDriver)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "[CONFIG] invalid configuration")
	}

	return &cfg, nil
}
