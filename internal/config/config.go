package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port    string        `mapstructure:"port"`
	Mode    string        `mapstructure:"mode"`
	Content ContentConfig `mapstructure:"content"`
	Session SessionConfig `mapstructure:"session"`
	DB      DBConfig      `mapstructure:"db"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Contact ContactConfig `mapstructure:"contact"`
}

// ContentConfig points at the manifesto data and its images.
type ContentConfig struct {
	Path       string `mapstructure:"path"`
	ImagesDir  string `mapstructure:"images_dir"`
	StaticDir  string `mapstructure:"static_dir"`
	ThumbCache string `mapstructure:"thumb_cache"`
	Watch      bool   `mapstructure:"watch"`
}

// SessionConfig selects where visitor popup state lives.
type SessionConfig struct {
	Backend       string        `mapstructure:"backend"`
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

// DBConfig holds sqlite settings.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
	To   string `mapstructure:"to"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ContactConfig limits contact form submissions per client.
type ContactConfig struct {
	PerMinute float64 `mapstructure:"per_minute"`
	Burst     int     `mapstructure:"burst"`
}

// the deployment env vars predate the MANIFESTO_ prefix and stay supported
var legacyEnv = map[string]string{
	"port":           "PORT",
	"smtp.host":      "SMTP_HOST",
	"smtp.port":      "SMTP_PORT",
	"smtp.user":      "SMTP_USER",
	"smtp.pass":      "SMTP_PASS",
	"smtp.to":        "TO_EMAIL",
	"admin.username": "ADMIN_USERNAME",
	"admin.password": "ADMIN_PASSWORD",
}

// Load reads configuration from an optional file and env. Env var overrides
// use prefix MANIFESTO_, e.g. MANIFESTO_SESSION_BACKEND=redis.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("mode", "debug")
	v.SetDefault("content.path", "")
	v.SetDefault("content.images_dir", "./images")
	v.SetDefault("content.static_dir", "./static")
	v.SetDefault("content.thumb_cache", "./.cache/thumbs")
	v.SetDefault("content.watch", true)
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_password", "")
	v.SetDefault("session.redis_db", 0)
	v.SetDefault("db.path", "manifesto.db")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.pass", "")
	v.SetDefault("smtp.to", "")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin123")
	v.SetDefault("contact.per_minute", 2.0)
	v.SetDefault("contact.burst", 3)

	if path := os.Getenv("MANIFESTO_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("MANIFESTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := "MANIFESTO_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Session.Backend != "memory" && c.Session.Backend != "redis" {
		return Config{}, fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	return c, nil
}

// UsingDefaultAdmin reports whether the admin login still has the shipped
// credentials.
func (c Config) UsingDefaultAdmin() bool {
	return c.Admin.Username == "admin" && c.Admin.Password == "admin123"
}
