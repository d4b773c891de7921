package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vinumeris/crashfx/internal/color"
)

// PasswordEnv is consulted for the dashboard password when the config file
// does not set one.
const PasswordEnv = "CRASHFX_PASSWORD"

// Defaults applied to unset (zero) settings.
const (
	DefaultHost           = "localhost"
	DefaultPort           = 9000
	DefaultMaxUploadBytes = 1 << 20
	DefaultDatabasePath   = "crashfx.db"
	DefaultUsername       = "admin"
	DefaultRecentLimit    = 100
)

// Config is the fully-resolved service configuration.
type Config struct {
	Server    Server
	Database  Database
	Dashboard Dashboard
}

// Server holds HTTP listener settings.
type Server struct {
	Host           string `hcl:"host,optional"`
	Port           int    `hcl:"port,optional"`
	MaxUploadBytes int64  `hcl:"max_upload_bytes,optional"`
}

// Database holds crash storage settings.
type Database struct {
	Path string `hcl:"path,optional"`
}

// Dashboard holds dashboard access and presentation settings.
type Dashboard struct {
	Username    string `hcl:"username,optional"`
	Password    string `hcl:"password,optional"`
	RecentLimit int    `hcl:"recent_limit,optional"`
	Top         int    `hcl:"top,optional"`
	Seed        string `hcl:"seed,optional"`
	PaddedHex   bool   `hcl:"padded_hex,optional"`
	Templates   string `hcl:"templates,optional"`
}

type fileConfig struct {
	Server    *Server    `hcl:"server,block"`
	Database  *Database  `hcl:"database,block"`
	Dashboard *Dashboard `hcl:"dashboard,block"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and resolves the HCL config file at path. A missing file yields
// Default().
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(src, path)
}

// Parse resolves HCL config source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	var raw fileConfig
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &raw); diags.HasErrors() {
		return nil, fmt.Errorf("decoding config: %s", diags.Error())
	}

	cfg := &Config{}
	if raw.Server != nil {
		cfg.Server = *raw.Server
	}
	if raw.Database != nil {
		cfg.Database = *raw.Database
	}
	if raw.Dashboard != nil {
		cfg.Dashboard = *raw.Dashboard
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Dashboard.Username == "" {
		c.Dashboard.Username = DefaultUsername
	}
	if c.Dashboard.Password == "" {
		c.Dashboard.Password = os.Getenv(PasswordEnv)
	}
	if c.Dashboard.RecentLimit == 0 {
		c.Dashboard.RecentLimit = DefaultRecentLimit
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if c.Dashboard.RecentLimit < 0 {
		return fmt.Errorf("dashboard.recent_limit must be positive")
	}
	if c.Dashboard.Top < 0 {
		return fmt.Errorf("dashboard.top must not be negative")
	}
	if _, err := c.SeedColor(); err != nil {
		return err
	}
	return nil
}

// SeedColor returns the first palette color: the configured seed, or
// color.CornflowerBlue when none is set.
func (c *Config) SeedColor() (color.RGB, error) {
	if c.Dashboard.Seed == "" {
		return color.CornflowerBlue, nil
	}
	parsed, err := color.ParseHex(c.Dashboard.Seed)
	if err != nil {
		return color.RGB{}, fmt.Errorf("dashboard.seed: %w", err)
	}
	return parsed.RGB(), nil
}

// Format returns the web color format the dashboard uses.
func (c *Config) Format() color.Format {
	if c.Dashboard.PaddedHex {
		return color.FormatPadded
	}
	return color.FormatLegacy
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
