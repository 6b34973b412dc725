package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/phravins/notepane/pkg/utils"
)

const Version = "v1.0.0"

// Config keys
const (
	KeyLastDirectory   = "last_directory"
	KeyPreviewStyle    = "preview_style"
	KeyPreviewWidth    = "preview_width"
	KeySettingsBackend = "settings_backend"
	KeySettingsDB      = "settings_db"
	KeyWatch           = "watch"
	KeyWatchDebounceMs = "watch_debounce_ms"
	KeyDebugLog        = "debug_log"
)

type Config struct {
	LastDirectory   string `mapstructure:"last_directory"`
	PreviewStyle    string `mapstructure:"preview_style"` // glamour style: dark, light, notty, or a JSON path
	PreviewWidth    int    `mapstructure:"preview_width"` // 0 = follow the pane width
	SettingsBackend string `mapstructure:"settings_backend"` // yaml or sqlite
	SettingsDB      string `mapstructure:"settings_db"`
	Watch           bool   `mapstructure:"watch"`
	WatchDebounceMs int    `mapstructure:"watch_debounce_ms"`
	DebugLog        string `mapstructure:"debug_log"`
}

// Path is where the config file lives unless SetPath was called.
func Path() string {
	if configPath != "" {
		return configPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".notepane.yaml"
	}
	return filepath.Join(home, ".notepane.yaml")
}

var configPath string

// SetPath overrides the config file location (used by --config and tests).
func SetPath(path string) {
	configPath = path
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()
	v.SetDefault(KeyLastDirectory, "")
	v.SetDefault(KeyPreviewStyle, "dark")
	v.SetDefault(KeyPreviewWidth, 0)
	v.SetDefault(KeySettingsBackend, "yaml")
	v.SetDefault(KeySettingsDB, filepath.Join(home, ".notepane", "settings.db"))
	v.SetDefault(KeyWatch, true)
	v.SetDefault(KeyWatchDebounceMs, 300)
	v.SetDefault(KeyDebugLog, "")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(Path())
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("NOTEPANE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	// No config yet; defaults apply until the first write.
	if err := viper.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig sets key for this process and persists it. Only the keys already
// in the file plus key are written: defaults, env overrides and bound flags
// stay out of the file.
func SaveConfig(key string, value interface{}) error {
	viper.Set(key, value)

	path := Path()
	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("yaml")
	if err := file.ReadInConfig(); err != nil && !isNotExist(err) {
		return err
	}
	file.Set(key, value)

	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return file.WriteConfigAs(path)
}

func isNotExist(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	// SetConfigFile reports a missing file as a plain PathError.
	return errors.Is(err, fs.ErrNotExist)
}

func GetString(key string) string {
	return viper.GetString(key)
}

// Keys lists the settings known to notepane, for `config get` without args.
func Keys() []string {
	return []string{
		KeyLastDirectory,
		KeyPreviewStyle,
		KeyPreviewWidth,
		KeySettingsBackend,
		KeySettingsDB,
		KeyWatch,
		KeyWatchDebounceMs,
		KeyDebugLog,
	}
}
