package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all per-site configuration
type Config struct {
	App       AppConfig
	Site      SiteConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Auth      AuthConfig
	Mail      MailConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
	HTTP      HTTPConfig
	Chat      ChatConfig
	Log       LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// SiteConfig holds the public identity of the deployed site
type SiteConfig struct {
	Name         string // display name used in templates and email subjects
	Tagline      string // short line under the name on the landing page
	Domain       string
	ContactEmail string // inbox that receives inquiry notifications
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file path
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// SessionConfig holds session cookie settings
type SessionConfig struct {
	Secret   string
	Name     string
	MaxAge   time.Duration
	Secure   bool
	SameSite string // "strict", "lax", or "none"
}

// AuthConfig holds login lockout settings
type AuthConfig struct {
	MaxFailedAttempts int
	LockDuration      time.Duration
}

// MailConfig holds SMTP relay settings
type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

// UploadConfig holds file upload settings
type UploadConfig struct {
	Dir          string // local storage root
	MaxSize      int64  // bytes
	Backend      string // "local" or "s3"
	S3Bucket     string
	S3Region     string
	S3Endpoint   string // optional, for S3-compatible stores
	S3AccessKey  string
	S3SecretKey  string
	ThumbnailDir string
}

// RateLimitConfig holds per-IP rate limit settings
type RateLimitConfig struct {
	Enabled         bool
	ContactRequests int
	ContactWindow   time.Duration
	LoginRequests   int
	LoginWindow     time.Duration
	ChatRequests    int
	ChatWindow      time.Duration
	RedisAddr       string // empty = in-memory counters
	RedisPassword   string
	RedisDB         int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64
	TrustedProxies []string
}

// ChatConfig holds the chat widget relay settings
type ChatConfig struct {
	Enabled     bool
	APIEndpoint string
	BotID       string
	Timeout     time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with WEBGARDEN_ prefix (e.g., WEBGARDEN_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/webgarden")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("WEBGARDEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Site: SiteConfig{
			Name:         v.GetString("site.name"),
			Tagline:      v.GetString("site.tagline"),
			Domain:       v.GetString("site.domain"),
			ContactEmail: v.GetString("site.contact_email"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Session: SessionConfig{
			Secret:   v.GetString("session.secret"),
			Name:     v.GetString("session.name"),
			MaxAge:   v.GetDuration("session.max_age"),
			Secure:   v.GetBool("session.secure"),
			SameSite: v.GetString("session.same_site"),
		},
		Auth: AuthConfig{
			MaxFailedAttempts: v.GetInt("auth.max_failed_attempts"),
			LockDuration:      v.GetDuration("auth.lock_duration"),
		},
		Mail: MailConfig{
			Enabled:  v.GetBool("mail.enabled"),
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			Username: v.GetString("mail.username"),
			Password: v.GetString("mail.password"),
			From:     v.GetString("mail.from"),
			UseTLS:   v.GetBool("mail.use_tls"),
		},
		Upload: UploadConfig{
			Dir:          v.GetString("upload.dir"),
			MaxSize:      v.GetInt64("upload.max_size"),
			Backend:      v.GetString("upload.backend"),
			S3Bucket:     v.GetString("upload.s3_bucket"),
			S3Region:     v.GetString("upload.s3_region"),
			S3Endpoint:   v.GetString("upload.s3_endpoint"),
			S3AccessKey:  v.GetString("upload.s3_access_key"),
			S3SecretKey:  v.GetString("upload.s3_secret_key"),
			ThumbnailDir: v.GetString("upload.thumbnail_dir"),
		},
		RateLimit: RateLimitConfig{
			Enabled:         v.GetBool("rate_limit.enabled"),
			ContactRequests: v.GetInt("rate_limit.contact_requests"),
			ContactWindow:   v.GetDuration("rate_limit.contact_window"),
			LoginRequests:   v.GetInt("rate_limit.login_requests"),
			LoginWindow:     v.GetDuration("rate_limit.login_window"),
			ChatRequests:    v.GetInt("rate_limit.chat_requests"),
			ChatWindow:      v.GetDuration("rate_limit.chat_window"),
			RedisAddr:       v.GetString("rate_limit.redis_addr"),
			RedisPassword:   v.GetString("rate_limit.redis_password"),
			RedisDB:         v.GetInt("rate_limit.redis_db"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodySize:    v.GetInt64("http.max_body_size"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		Chat: ChatConfig{
			Enabled:     v.GetBool("chat.enabled"),
			APIEndpoint: v.GetString("chat.api_endpoint"),
			BotID:       v.GetString("chat.bot_id"),
			Timeout:     v.GetDuration("chat.timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "webgarden"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Site.Name == "" {
		cfg.Site.Name = cfg.App.Name
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "webgarden"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "webgarden.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 10
	}
	if cfg.Session.Name == "" {
		cfg.Session.Name = "webgarden_session"
	}
	if cfg.Session.MaxAge == 0 {
		cfg.Session.MaxAge = 12 * time.Hour
	}
	if cfg.Session.SameSite == "" {
		cfg.Session.SameSite = "lax"
	}
	if cfg.Auth.MaxFailedAttempts == 0 {
		cfg.Auth.MaxFailedAttempts = 5
	}
	if cfg.Auth.LockDuration == 0 {
		cfg.Auth.LockDuration = 15 * time.Minute
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "uploads"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 8 << 20 // 8MB
	}
	if cfg.Upload.Backend == "" {
		cfg.Upload.Backend = "local"
	}
	if cfg.Upload.ThumbnailDir == "" {
		cfg.Upload.ThumbnailDir = "thumbnails"
	}
	if cfg.RateLimit.ContactRequests == 0 {
		cfg.RateLimit.ContactRequests = 5
	}
	if cfg.RateLimit.ContactWindow == 0 {
		cfg.RateLimit.ContactWindow = time.Hour
	}
	if cfg.RateLimit.LoginRequests == 0 {
		cfg.RateLimit.LoginRequests = 10
	}
	if cfg.RateLimit.LoginWindow == 0 {
		cfg.RateLimit.LoginWindow = time.Minute
	}
	if cfg.RateLimit.ChatRequests == 0 {
		cfg.RateLimit.ChatRequests = 30
	}
	if cfg.RateLimit.ChatWindow == 0 {
		cfg.RateLimit.ChatWindow = 5 * time.Minute
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.Chat.Timeout == 0 {
		cfg.Chat.Timeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Upload.Backend != "local" && c.Upload.Backend != "s3" {
		return fmt.Errorf("upload.backend must be local or s3, got %q", c.Upload.Backend)
	}
	if c.Upload.Backend == "s3" && c.Upload.S3Bucket == "" {
		return fmt.Errorf("upload.s3_bucket is required when upload.backend is s3")
	}

	if c.App.Env == "production" {
		if c.Session.Secret == "" {
			return fmt.Errorf("session.secret is required in production")
		}
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session.secret must be at least 32 characters in production")
		}
		if !c.Session.Secure {
			return fmt.Errorf("session.secure must be true in production (HTTPS required for secure cookies)")
		}
		if c.Database.Driver == "postgres" && c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Mail.Enabled && c.Site.ContactEmail == "" {
			return fmt.Errorf("site.contact_email is required when mail is enabled in production")
		}
	}

	return nil
}

// IsProduction returns true when running with the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
