// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

// Config describes how to connect to the catalog database.
type Config struct {
	Driver   string        `yaml:"driver"` // name of the database/sql driver
	User     string        `yaml:"user"`
	Password string        `yaml:"password"`
	Host     string        `yaml:"host"`
	Name     string        `yaml:"name"`    // name of the catalog database
	Timeout  time.Duration `yaml:"timeout"` // timeout of each request
}

// DefaultConfig returns the configuration of a local catalog database.
func DefaultConfig() Config {
	return Config{
		Driver:   "mysql",
		User:     "username",
		Password: "s3cr3t",
		Host:     "localhost",
		Name:     "comtrade",
		Timeout:  5 * time.Second,
	}
}

// LoadConfig loads a YAML configuration file.
// Keys absent from the file keep their default value.
func LoadConfig(fname string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(fname)
	if err != nil {
		return cfg, fmt.Errorf("catalog: could not read config file: %w", err)
	}

	err = yaml.Unmarshal(raw, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("catalog: could not decode config file %q: %w", fname, err)
	}

	if cfg.Timeout <= 0 {
		return cfg, fmt.Errorf("catalog: invalid request timeout %v", cfg.Timeout)
	}

	return cfg, nil
}

// DSN returns the data source name of the catalog database.
func (cfg Config) DSN() string {
	dsn := mysql.NewConfig()
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = cfg.Host
	dsn.DBName = cfg.Name
	dsn.ParseTime = true
	dsn.Timeout = cfg.Timeout
	return dsn.FormatDSN()
}
