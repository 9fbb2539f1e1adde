// Package settings manages persistent user settings for afcctl, with
// AFC_* environment overrides.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/afc-network/afcctl/pkg/auth"
)

// EnvPath overrides the settings file location.
const EnvPath = "AFC_SETTINGS"

// keyDelim keeps permission names such as "vrf.create" intact as map keys.
const keyDelim = "::"

func vkey(key string) string {
	return strings.ReplaceAll(key, ".", keyDelim)
}

// Settings holds persistent user preferences. Password and Token are read
// from the environment only and are never written back.
type Settings struct {
	Address   string        `mapstructure:"afc_ip" yaml:"afc_ip,omitempty"`
	Username  string        `mapstructure:"username" yaml:"username,omitempty"`
	Password  string        `mapstructure:"password" yaml:"-"`
	Token     string        `mapstructure:"token" yaml:"-"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
	VerifyTLS bool          `mapstructure:"verify_tls" yaml:"verify_tls,omitempty"`
	StateDir  string        `mapstructure:"state_dir" yaml:"state_dir,omitempty"`
	LogLevel  string        `mapstructure:"log_level" yaml:"log_level,omitempty"`

	Redis RedisSettings `mapstructure:"redis" yaml:"redis,omitempty"`
	Audit AuditSettings `mapstructure:"audit" yaml:"audit,omitempty"`

	Permissions auth.Policy `mapstructure:"permissions" yaml:"permissions,omitempty"`
}

// RedisSettings locates the optional token cache.
type RedisSettings struct {
	Addr     string        `mapstructure:"addr" yaml:"addr,omitempty"`
	DB       int           `mapstructure:"db" yaml:"db,omitempty"`
	Password string        `mapstructure:"password" yaml:"-"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl,omitempty"`
	// SealKey is the secret token cache entries are sealed under.
	SealKey string `mapstructure:"seal_key" yaml:"-"`
}

// AuditSettings configures the audit log.
type AuditSettings struct {
	Disabled   bool  `mapstructure:"disabled" yaml:"disabled,omitempty"`
	MaxSizeMB  int64 `mapstructure:"max_size_mb" yaml:"max_size_mb,omitempty"`
	MaxBackups int   `mapstructure:"max_backups" yaml:"max_backups,omitempty"`
}

// env maps setting keys to the variables that override them.
var env = map[string]string{
	"afc_ip":         "AFC_IP",
	"username":       "AFC_USERNAME",
	"password":       "AFC_PASSWORD",
	"token":          "AFC_TOKEN",
	"timeout":        "AFC_TIMEOUT",
	"verify_tls":     "AFC_VERIFY_TLS",
	"state_dir":      "AFC_STATE_DIR",
	"log_level":      "AFC_LOG_LEVEL",
	"redis.addr":     "AFC_REDIS_ADDR",
	"redis.db":       "AFC_REDIS_DB",
	"redis.password": "AFC_REDIS_PASSWORD",
	"redis.ttl":      "AFC_TOKEN_TTL",
	"redis.seal_key": "AFC_TOKEN_CACHE_KEY",
}

// persisted lists the keys `settings set` may change.
var persisted = map[string]func(*Settings, string) error{
	"afc_ip":   func(s *Settings, v string) error { s.Address = v; return nil },
	"username": func(s *Settings, v string) error { s.Username = v; return nil },
	"timeout": func(s *Settings, v string) error {
		d, err := time.ParseDuration(v)
		s.Timeout = d
		return err
	},
	"verify_tls": func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		s.VerifyTLS = b
		return err
	},
	"state_dir":  func(s *Settings, v string) error { s.StateDir = v; return nil },
	"log_level":  func(s *Settings, v string) error { s.LogLevel = v; return nil },
	"redis.addr": func(s *Settings, v string) error { s.Redis.Addr = v; return nil },
	"redis.db": func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		s.Redis.DB = n
		return err
	},
	"redis.ttl": func(s *Settings, v string) error {
		d, err := time.ParseDuration(v)
		s.Redis.TTL = d
		return err
	},
	"audit.disabled": func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		s.Audit.Disabled = b
		return err
	},
	"audit.max_size_mb": func(s *Settings, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		s.Audit.MaxSizeMB = n
		return err
	},
	"audit.max_backups": func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		s.Audit.MaxBackups = n
		return err
	},
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "afcctl_settings.yaml"
	}
	return filepath.Join(home, ".afcctl", "settings.yaml")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from path, then applies environment overrides.
// A missing file yields the defaults.
func LoadFrom(path string) (*Settings, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelim))
	v.SetConfigType("yaml")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("verify_tls", false)
	v.SetDefault("log_level", "warn")
	v.SetDefault(vkey("redis.ttl"), 8*time.Hour)
	v.SetDefault(vkey("audit.max_size_mb"), 10)
	v.SetDefault(vkey("audit.max_backups"), 5)
	for key, name := range env {
		if err := v.BindEnv(vkey(key), name); err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading settings %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decoding settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes the persisted settings to path. Secrets are omitted.
func (s *Settings) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Keys returns the setting names accepted by Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(persisted))
	for k := range persisted {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns one persisted setting from its string form.
func (s *Settings) Set(key, value string) error {
	set, ok := persisted[key]
	if !ok {
		return fmt.Errorf("unknown setting '%s' (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := set(s, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// Get returns the string form of one persisted setting.
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case "afc_ip":
		return s.Address, nil
	case "username":
		return s.Username, nil
	case "timeout":
		return s.Timeout.String(), nil
	case "verify_tls":
		return strconv.FormatBool(s.VerifyTLS), nil
	case "state_dir":
		return s.GetStateDir(), nil
	case "log_level":
		return s.LogLevel, nil
	case "redis.addr":
		return s.Redis.Addr, nil
	case "redis.db":
		return strconv.Itoa(s.Redis.DB), nil
	case "redis.ttl":
		return s.Redis.TTL.String(), nil
	case "audit.disabled":
		return strconv.FormatBool(s.Audit.Disabled), nil
	case "audit.max_size_mb":
		return strconv.FormatInt(s.Audit.MaxSizeMB, 10), nil
	case "audit.max_backups":
		return strconv.Itoa(s.Audit.MaxBackups), nil
	}
	return "", fmt.Errorf("unknown setting '%s'", key)
}

// GetStateDir returns the directory for the audit log (with fallback)
func (s *Settings) GetStateDir() string {
	if s.StateDir != "" {
		return s.StateDir
	}
	return filepath.Dir(DefaultSettingsPath())
}

// AuditPath returns the audit log file location.
func (s *Settings) AuditPath() string {
	return filepath.Join(s.GetStateDir(), "audit.log")
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
