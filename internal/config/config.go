// Package config loads the demo table-server's defaults from an HCL file.
// Nothing under the core engine (card/eval/betting/holdem) depends on this
// package; only cmd/tableserver does.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the demo server's full configuration surface.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Tables []TableSpec    `hcl:"table,block"`
}

// ServerSettings configures the listen address and log verbosity.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableSpec is one table the demo server creates at startup.
type TableSpec struct {
	Name         string `hcl:"name,label"`
	SmallBlind   int64  `hcl:"small_blind"`
	BigBlind     int64  `hcl:"big_blind"`
	InitialStack int64  `hcl:"initial_stack,optional"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerSettings{Address: "localhost:8080", LogLevel: "info"},
		Tables: []TableSpec{
			{Name: "main", SmallBlind: 5, BigBlind: 10, InitialStack: 1000},
		},
	}
}

// Load reads filename as HCL, falling back to Default if the file doesn't
// exist. Zero-valued optional fields are backfilled: address and log level
// with Default's values, a table's initial stack as 100 big blinds.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", filename, diags.Error())
	}

	var cfg Config
	if diags = gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", filename, diags.Error())
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = "localhost:8080"
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	for i := range cfg.Tables {
		if cfg.Tables[i].InitialStack == 0 {
			cfg.Tables[i].InitialStack = cfg.Tables[i].BigBlind * 100
		}
	}
	return &cfg, nil
}

// Validate checks the invariants a table needs to actually start.
func (c *Config) Validate() error {
	if len(c.Tables) == 0 {
		return fmt.Errorf("config: at least one table must be configured")
	}
	for _, tbl := range c.Tables {
		if tbl.SmallBlind <= 0 {
			return fmt.Errorf("config: table %s: small blind must be positive", tbl.Name)
		}
		if tbl.BigBlind <= tbl.SmallBlind {
			return fmt.Errorf("config: table %s: big blind must exceed small blind", tbl.Name)
		}
		if tbl.InitialStack <= 0 {
			return fmt.Errorf("config: table %s: initial stack must be positive", tbl.Name)
		}
	}
	return nil
}
