package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gamelist/internal/errors"
	"gamelist/pkg/types"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	appName          = "gamelist"
	DefaultBlockSize = 16384
	DefaultWikiURL   = "https://wiki.dolphin-emu.org/index.php"
)

// DefaultExtensions are the file types scanned for games
var DefaultExtensions = []string{"gcm", "iso", "tgc", "wbfs", "ciso", "gcz", "wad", "elf", "dol"}

// Columns holds the visibility of each game table column
type Columns struct {
	Platform    bool `yaml:"platform"`
	Banner      bool `yaml:"banner"`
	Title       bool `yaml:"title"`
	Description bool `yaml:"description"`
	Maker       bool `yaml:"maker"`
	ID          bool `yaml:"id"`
	Country     bool `yaml:"country"`
	Size        bool `yaml:"size"`
	Rating      bool `yaml:"rating"`
}

// Config represents the application configuration structure.
// It holds the game directories, view preferences, the emulator to launch
// and the external tools the game list hands work to.
type Config struct {
	Paths struct {
		Games     []string `yaml:"games"`     // Directories scanned for games
		Recursive bool     `yaml:"recursive"` // Scan subdirectories too
		NAND      string   `yaml:"nand" validate:"required"`
		Export    string   `yaml:"export" validate:"required"` // Exported saves land here
	} `yaml:"paths"`
	Interface struct {
		PreferTable bool    `yaml:"prefer_table"` // Table view instead of the icon grid
		Columns     Columns `yaml:"columns"`
	} `yaml:"interface"`
	Core struct {
		DefaultISO   string   `yaml:"default_iso"` // Disc booted when no game is chosen
		Emulator     string   `yaml:"emulator"`
		EmulatorArgs []string `yaml:"emulator_args"`
	} `yaml:"core"`
	Tools struct {
		Converter    string        `yaml:"converter" validate:"required"`
		BlockSize    int           `yaml:"block_size" validate:"min=512"`
		PollInterval time.Duration `yaml:"poll_interval" validate:"gt=0"`
	} `yaml:"tools"`
	Wiki struct {
		BaseURL string `yaml:"base_url" validate:"required,url"`
	} `yaml:"wiki"`
	Extensions []string `yaml:"extensions" validate:"dive,required"`
}

// DefaultPath returns ~/.config/gamelist/config.yaml, or its XDG equivalent
func DefaultPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join(appName, "config.yaml"))
	if err != nil {
		return "", errors.NewConfigError("cannot resolve config location", "", errors.ConfigNotFound, err)
	}
	return path, nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	// Start from defaults so keys missing from the file keep their default
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Paths.Games = []string{}
	cfg.Paths.Recursive = false
	cfg.Paths.NAND = filepath.Join(xdg.DataHome, appName, "nand")
	cfg.Paths.Export = filepath.Join(xdg.DataHome, appName, "export")

	cfg.Interface.PreferTable = true
	cfg.Interface.Columns = Columns{
		Platform: true,
		Banner:   true,
		Title:    true,
		Maker:    true,
		ID:       false,
		Country:  true,
		Size:     true,
		Rating:   false,
	}

	cfg.Core.Emulator = "dolphin-emu"
	cfg.Core.EmulatorArgs = []string{"-b", "-e"}

	cfg.Tools.Converter = "dolphin-tool"
	cfg.Tools.BlockSize = DefaultBlockSize
	cfg.Tools.PollInterval = 250 * time.Millisecond

	cfg.Wiki.BaseURL = DefaultWikiURL

	cfg.Extensions = append([]string(nil), DefaultExtensions...)

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.NewConfigError("invalid value", verrs[0].Namespace(), errors.InvalidConfig, err)
		}
		return errors.NewConfigError("invalid configuration", "", errors.InvalidConfig, err)
	}

	// The converter's block size must be a power of two
	if bs := c.Tools.BlockSize; bs&(bs-1) != 0 {
		return errors.NewConfigError("block size must be a power of two", "tools.block_size", errors.InvalidConfig, nil)
	}

	if len(c.Extensions) == 0 {
		return errors.NewConfigError("at least one extension is required", "extensions", errors.InvalidConfig, nil)
	}

	for i, dir := range c.Paths.Games {
		if dir == "" {
			return errors.NewConfigError(fmt.Sprintf("game directory %d is empty", i), "paths.games", errors.InvalidConfig, nil)
		}
	}

	return nil
}

// ColumnVisible reports whether a table column is shown
func (c *Config) ColumnVisible(col types.Column) bool {
	if p := c.columnField(col); p != nil {
		return *p
	}
	return false
}

// SetColumnVisible shows or hides a table column
func (c *Config) SetColumnVisible(col types.Column, visible bool) {
	if p := c.columnField(col); p != nil {
		*p = visible
	}
}

func (c *Config) columnField(col types.Column) *bool {
	cols := &c.Interface.Columns
	switch col {
	case types.ColPlatform:
		return &cols.Platform
	case types.ColBanner:
		return &cols.Banner
	case types.ColTitle:
		return &cols.Title
	case types.ColDescription:
		return &cols.Description
	case types.ColMaker:
		return &cols.Maker
	case types.ColID:
		return &cols.ID
	case types.ColCountry:
		return &cols.Country
	case types.ColSize:
		return &cols.Size
	case types.ColRating:
		return &cols.Rating
	}
	return nil
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig(dir string) *Config {
	cfg := defaultConfig()
	cfg.Paths.NAND = filepath.Join(dir, "nand")
	cfg.Paths.Export = filepath.Join(dir, "export")
	cfg.Tools.PollInterval = 10 * time.Millisecond
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
