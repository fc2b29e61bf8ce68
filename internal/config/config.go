package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// SupportedVersion is the only configuration file version LoadConfig accepts.
const SupportedVersion = "1"

var ErrUnsupportedVersion = errors.New("unsupported configuration version")

// Config represents the complete configuration structure
type Config struct {
	Version   string          `yaml:"version" default:"1"`
	Site      SiteConfig      `yaml:"site"`
	Server    ServerConfig    `yaml:"server"`
	Theme     ThemeConfig     `yaml:"theme"`
	WordPress WordPressConfig `yaml:"wordpress"`
	Content   ContentConfig   `yaml:"content"`
	Meta      MetaConfig      `yaml:"meta"`
	Social    SocialConfig    `yaml:"social"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info" env:"LOG_LEVEL"`
}

type SiteConfig struct {
	Name        string `yaml:"name" default:"Tiffy Cooks"`
	Description string `yaml:"description" default:"Easy, everyday recipes"`
	Tagline     string `yaml:"tagline" default:"Latest Recipes"`
	Logo        string `yaml:"logo" default:"/static/logo.svg"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0" env:"HOST"`
	Port string `yaml:"port" default:"12600" env:"PORT"`
}

type ThemeConfig struct {
	Default            string       `yaml:"default" default:"light"`
	AllowSwitching     bool         `yaml:"allow_switching" default:"true"`
	SyntaxHighlighting SyntaxConfig `yaml:"syntax_highlighting"`
}

type SyntaxConfig struct {
	DefaultDark  string `yaml:"default_dark" default:"gruvbox"`
	DefaultLight string `yaml:"default_light" default:"catppuccin-latte"`
}

// WordPressConfig describes the remote content source.
type WordPressConfig struct {
	BaseURL          string        `yaml:"base_url" default:"https://tiffycooks.com/wp-json/wp/v2" env:"WP_BASE_URL"`
	PerPage          int           `yaml:"per_page" default:"12"`
	Timeout          time.Duration `yaml:"timeout" default:"10s"`
	UserAgent        string        `yaml:"user_agent" default:"recipe-archive/1.0"`
	Revalidate       time.Duration `yaml:"revalidate" default:"1h"`
	SearchRevalidate time.Duration `yaml:"search_revalidate" default:"1m"`
	Cache            CacheConfig   `yaml:"cache"`
}

type CacheConfig struct {
	Enabled     bool   `yaml:"enabled" default:"true" env:"WP_CACHE_ENABLED"`
	Compression string `yaml:"compression" default:"zstd"`
}

type ContentConfig struct {
	// Class substrings whose elements are removed from rendered WordPress HTML.
	StripClasses  []string `yaml:"strip_classes" default:"rating"`
	HighlightCode bool     `yaml:"highlight_code" default:"true"`
	Minify        bool     `yaml:"minify" default:"true"`
}

type MetaConfig struct {
	Author   string   `yaml:"author" default:""`
	Keywords []string `yaml:"keywords" default:"recipes,cooking,food"`
	Favicon  string   `yaml:"favicon" default:"/static/favicon.svg"`
}

type SocialConfig struct {
	Instagram string `yaml:"instagram" default:""`
	YouTube   string `yaml:"youtube" default:""`
	TikTok    string `yaml:"tiktok" default:""`
	Email     string `yaml:"email" default:""`
}

var AppConfig *Config

// Default returns a Config populated only from struct-tag defaults.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

func LoadConfig(path string) error {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(config)

	if err := config.Validate(); err != nil {
		return err
	}

	AppConfig = config
	return nil
}

// Validate reports the first setting that would keep the server from starting.
func (c *Config) Validate() error {
	if c.Version != SupportedVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, c.Version)
	}

	u, err := url.Parse(c.WordPress.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid wordpress.base_url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("wordpress.base_url must be an absolute URL, got %q", c.WordPress.BaseURL)
	}

	if c.WordPress.PerPage <= 0 {
		return fmt.Errorf("wordpress.per_page must be positive, got %d", c.WordPress.PerPage)
	}

	switch c.WordPress.Cache.Compression {
	case "zstd", "gzip", "none":
	default:
		return fmt.Errorf("unknown wordpress.cache.compression %q", c.WordPress.Cache.Compression)
	}

	return nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	walkFields(config, "default", func(field reflect.Value, name, value string) {
		if field.Kind() == reflect.Slice && field.Len() > 0 {
			return
		}
		setField(field, name, value)
	})
}

// applyEnv overrides fields tagged with `env:"NAME"` when NAME is set.
func applyEnv(config interface{}) {
	walkFields(config, "env", func(field reflect.Value, name, key string) {
		value, ok := os.LookupEnv(key)
		if !ok || value == "" {
			return
		}
		configLogger.Debug().Str("env", key).Str("field_name", name).Msg("Overriding config from environment")
		setField(field, name, value)
	})
}

func walkFields(config interface{}, tag string, fn func(field reflect.Value, name, value string)) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively walk nested structs
		if field.Kind() == reflect.Struct {
			walkFields(field.Addr().Interface(), tag, fn)
			continue
		}

		value := fieldType.Tag.Get(tag)
		if value == "" {
			continue
		}

		fn(field, fieldType.Name, value)
	}
}

func setField(field reflect.Value, name, value string) {
	if field.Type() == durationType {
		if d, err := time.ParseDuration(value); err == nil {
			field.SetInt(int64(d))
		}
		return
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if val, err := strconv.ParseBool(value); err == nil {
			field.SetBool(val)
		}
	case reflect.Int:
		if val, err := strconv.ParseInt(value, 10, 64); err == nil {
			field.SetInt(val)
		}
	case reflect.Float64:
		if val, err := strconv.ParseFloat(value, 64); err == nil {
			field.SetFloat(val)
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
			for j, part := range parts {
				slice.Index(j).SetString(strings.TrimSpace(part))
			}
			field.Set(slice)
		}
	default:
		configLogger.Warn().
			Str("field_name", name).
			Str("field_type", field.Kind().String()).
			Msg("Unsupported field type for default value")
	}
}
