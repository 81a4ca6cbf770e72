package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is built once at process start and passed into every component
// that needs a policy flag; nothing reads it ambiently.
type Config struct {
	Addr         string        `yaml:"addr"`
	JWTSecret    string        `yaml:"jwt_secret"`
	APITimeout   time.Duration `yaml:"timeout"`
	DatabasePath string        `yaml:"database_path"`
	RedisAddr    string        `yaml:"redis_addr"`

	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`

	CORSOrigins []string `yaml:"cors_origins"`

	DefaultAdminEmail    string `yaml:"default_admin_email"`
	DefaultAdminPassword string `yaml:"default_admin_password"`

	Flags Flags `yaml:"flags"`
}

// Flags are the deployment-time policy switches reported by /healthz.
type Flags struct {
	EnablePreflight    bool `yaml:"enable_preflight"`
	EnableDBInitCheck  bool `yaml:"enable_db_init_check"`
	AllowAutoDBInit    bool `yaml:"allow_auto_db_init"`
	EnableBootstrap    bool `yaml:"enable_bootstrap"`
	CreateDefaultAdmin bool `yaml:"create_default_admin"`
	LazyLoading        bool `yaml:"lazy_loading"`
	StatelessStrict    bool `yaml:"stateless_strict"`
	AllowRefreshStore  bool `yaml:"allow_refresh_store"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:                 getEnv("HUB_ADDR", ":8080"),
		JWTSecret:            getEnv("HUB_JWT_SECRET", "change-this-in-production"),
		APITimeout:           15 * time.Second,
		DatabasePath:         getEnv("HUB_DATABASE_PATH", "internhub.db"),
		RedisAddr:            getEnv("HUB_REDIS_ADDR", ""),
		AccessTokenTTL:       30 * time.Minute,
		RefreshTokenTTL:      30 * 24 * time.Hour,
		CORSOrigins:          splitList(getEnv("HUB_CORS_ORIGINS", "http://localhost:3000")),
		DefaultAdminEmail:    getEnv("HUB_DEFAULT_ADMIN_EMAIL", "admin@internhub.local"),
		DefaultAdminPassword: getEnv("HUB_DEFAULT_ADMIN_PASSWORD", "ChangeMe123!"),
		Flags: Flags{
			EnablePreflight:    getEnvBool("HUB_ENABLE_PREFLIGHT", true),
			EnableDBInitCheck:  getEnvBool("HUB_ENABLE_DB_INIT_CHECK", true),
			AllowAutoDBInit:    getEnvBool("HUB_ALLOW_AUTO_DB_INIT", true),
			EnableBootstrap:    getEnvBool("HUB_ENABLE_BOOTSTRAP", true),
			CreateDefaultAdmin: getEnvBool("HUB_CREATE_DEFAULT_ADMIN", true),
			LazyLoading:        getEnvBool("HUB_LAZY_LOADING", true),
			StatelessStrict:    getEnvBool("HUB_STATELESS_STRICT", true),
			AllowRefreshStore:  getEnvBool("HUB_ALLOW_REFRESH_STORE", false),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}

	return def
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
