package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile      = "checkers-local/config.yaml"
	logFile      = "checkers-local/checkers.log"
	snapshotsDir = "checkers-local/snapshots"
)

// Locales with an embedded message catalog.
var Locales = []string{"en", "ru"}

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	LightSquare   int `yaml:"light_square"`
	DarkSquare    int `yaml:"dark_square"`
	BlackPiece    int `yaml:"black_piece"`
	WhitePiece    int `yaml:"white_piece"`
	Highlight     int `yaml:"highlight"`
	CaptureTarget int `yaml:"capture_target"`
	Selected      int `yaml:"selected"`
	CursorBG      int `yaml:"cursor_bg"`
	LastMoveBG    int `yaml:"last_move_bg"`
	Captured      int `yaml:"captured"`
	Coordinates   int `yaml:"coordinates"`
}

// Symbol is a single character, written as a one-character string in YAML.
type Symbol rune

func (s Symbol) MarshalYAML() (interface{}, error) {
	return string(rune(s)), nil
}

func (s *Symbol) UnmarshalYAML(value *yaml.Node) error {
	r := []rune(value.Value)
	if value.Kind != yaml.ScalarNode || len(r) != 1 {
		return fmt.Errorf("line %d: symbol must be a single character, got %q", value.Line, value.Value)
	}
	*s = Symbol(r[0])
	return nil
}

type ConfigSymbols struct {
	BlackPiece Symbol `yaml:"black_piece"`
	WhitePiece Symbol `yaml:"white_piece"`
	Highlight  Symbol `yaml:"highlight"`
	Captured   Symbol `yaml:"captured"`
}

type Theme struct {
	DrawCoordinates bool          `yaml:"draw_coordinates"`
	Colors          ConfigColors  `yaml:"colors"`
	Symbols         ConfigSymbols `yaml:"symbols"`
}

// AnimationConfig holds the cosmetic delays, in milliseconds.
// They only affect presentation; game state is updated immediately.
type AnimationConfig struct {
	MoveMs    int `yaml:"move_ms"`
	CaptureMs int `yaml:"capture_ms"`
}

// LogConfig controls the zap logger. An empty File means the XDG state location.
type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// WebConfig holds browser host settings.
type WebConfig struct {
	Addr string `yaml:"addr"`
	// AllowAnyOrigin accepts websocket upgrades from pages on other origins.
	AllowAnyOrigin bool `yaml:"allow_any_origin"`
}

type Config struct {
	Theme     Theme           `yaml:"theme"`
	Animation AnimationConfig `yaml:"animation"`
	Log       LogConfig       `yaml:"log"`
	Web       WebConfig       `yaml:"web"`
	Locale    string          `yaml:"locale"`
}

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []Symbol{c.Theme.Symbols.BlackPiece, c.Theme.Symbols.WhitePiece, c.Theme.Symbols.Highlight, c.Theme.Symbols.Captured} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if c.Animation.MoveMs < 0 || c.Animation.CaptureMs < 0 {
		return &InvalidConfig{"animation delays must not be negative"}
	}
	if !validLocale(c.Locale) {
		return &InvalidConfig{fmt.Sprintf("unknown locale %q (available: %s)", c.Locale, strings.Join(Locales, ", "))}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "legacy", "console", "json":
	default:
		return &InvalidConfig{fmt.Sprintf("unknown log format %q", c.Log.Format)}
	}
	return nil
}

func validLocale(locale string) bool {
	for _, l := range Locales {
		if l == locale {
			return true
		}
	}
	return false
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return fmt.Errorf("locate config file: %w", err)
	}
	return saveCfgFile(absPath, c, 0664)
}

// LogFilePath returns the configured log file, or the XDG state location.
func (c *Config) LogFilePath() (string, error) {
	if strings.TrimSpace(c.Log.File) != "" {
		return c.Log.File, nil
	}
	return xdg.StateFile(logFile)
}

// SnapshotPath returns a path for a new board snapshot named name.
func SnapshotPath(name string) (string, error) {
	return xdg.DataFile(filepath.Join(snapshotsDir, name))
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	data, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filePath, data, perm); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, a); err != nil {
		return fmt.Errorf("parse config %s: %w", filePath, err)
	}
	return nil
}
