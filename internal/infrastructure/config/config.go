package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Realtime  RealtimeConfig
	Scheduler SchedulerConfig
	Analytics AnalyticsConfig
	Export    ExportConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
}

// CookieConfig holds cookie settings for the refresh token
type CookieConfig struct {
	Domain   string // Domain for cookies (empty = current domain)
	Path     string // Path for cookies
	Secure   bool   // Secure flag (should be true in production for HTTPS)
	SameSite string // SameSite policy: "strict", "lax", or "none"
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool          // Enable stricter rate limiting for auth endpoints
	AuthRateLimitRequests int           // Max auth attempts (default: 5)
	AuthRateLimitWindow   time.Duration // Auth rate limit window (default: 1 minute)
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// RealtimeConfig holds WebSocket relay configuration
type RealtimeConfig struct {
	Enabled           bool
	ChannelPrefix     string        // Redis pub/sub channel prefix, one channel per tenant
	PingInterval      time.Duration // How often the server pings idle connections
	PongTimeout       time.Duration // How long to wait for a pong before dropping
	WriteTimeout      time.Duration
	MaxMessageSize    int64
	SendBufferSize    int // Per-connection outbound queue length
	MaxConnsPerTenant int // 0 = unlimited
}

// SchedulerConfig holds background job configuration
type SchedulerConfig struct {
	Enabled           bool
	SnapshotInterval  time.Duration // Dashboard snapshot refresh cadence
	LowStockInterval  time.Duration // Low stock scan cadence
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// AnalyticsConfig holds forecasting and caching parameters
type AnalyticsConfig struct {
	CacheTTL         time.Duration // Dashboard/forecast cache lifetime in Redis
	ForecastHorizon  int           // Days to project forward
	HistoryWindow    int           // Days of sales history to feed the models
	ServiceLevelZ    float64       // Z-score for safety stock (1.96 = 97.5% service level)
	DefaultLeadTime  int           // Supplier lead time in days when a product has none
	SearchResultCap  int           // Max hits per entity type in global search
	SearchCacheTTL   time.Duration // Search result cache lifetime, shorter than CacheTTL
	ScoreStaleAfter  time.Duration // Recompute lead scores older than this
	MinHistoryPoints int           // Below this many days of sales, fall back to naive forecast
}

// ExportConfig holds CSV export and object storage settings
type ExportConfig struct {
	Bucket          string
	Region          string
	Endpoint        string // Custom S3 endpoint (MinIO etc), empty for AWS
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignTTL      time.Duration // Lifetime of generated download links
	MaxRows         int           // Hard cap on rows per export file
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	// Logs and metrics export (both ride the same collector endpoint)
	LogsEnabled     bool          // Ship zap logs through OTLP alongside stdout
	MetricsEnabled  bool          // Export request and job metrics via OTLP
	MetricsInterval time.Duration // Periodic metric reader interval (default: 30s)
	// Database tracing options
	DBTraceEnabled    bool          // Enable database query tracing (otelgorm)
	DBLogFullSQL      bool          // Log full SQL statements (dev only, disable in prod for security)
	DBSlowQueryThresh time.Duration // Slow query threshold for warnings (default: 200ms)
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with CRM_ prefix (e.g., CRM_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("CRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
		},
		Cookie: CookieConfig{
			Domain:   v.GetString("cookie.domain"),
			Path:     v.GetString("cookie.path"),
			Secure:   v.GetBool("cookie.secure"),
			SameSite: v.GetString("cookie.same_site"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
		},
		Realtime: RealtimeConfig{
			Enabled:           v.GetBool("realtime.enabled"),
			ChannelPrefix:     v.GetString("realtime.channel_prefix"),
			PingInterval:      v.GetDuration("realtime.ping_interval"),
			PongTimeout:       v.GetDuration("realtime.pong_timeout"),
			WriteTimeout:      v.GetDuration("realtime.write_timeout"),
			MaxMessageSize:    v.GetInt64("realtime.max_message_size"),
			SendBufferSize:    v.GetInt("realtime.send_buffer_size"),
			MaxConnsPerTenant: v.GetInt("realtime.max_conns_per_tenant"),
		},
		Scheduler: SchedulerConfig{
			Enabled:           v.GetBool("scheduler.enabled"),
			SnapshotInterval:  v.GetDuration("scheduler.snapshot_interval"),
			LowStockInterval:  v.GetDuration("scheduler.low_stock_interval"),
			MaxConcurrentJobs: v.GetInt("scheduler.max_concurrent_jobs"),
			JobTimeout:        v.GetDuration("scheduler.job_timeout"),
			RetryAttempts:     v.GetInt("scheduler.retry_attempts"),
			RetryDelay:        v.GetDuration("scheduler.retry_delay"),
		},
		Analytics: AnalyticsConfig{
			CacheTTL:         v.GetDuration("analytics.cache_ttl"),
			ForecastHorizon:  v.GetInt("analytics.forecast_horizon"),
			HistoryWindow:    v.GetInt("analytics.history_window"),
			ServiceLevelZ:    v.GetFloat64("analytics.service_level_z"),
			DefaultLeadTime:  v.GetInt("analytics.default_lead_time"),
			SearchResultCap:  v.GetInt("analytics.search_result_cap"),
			SearchCacheTTL:   v.GetDuration("analytics.search_cache_ttl"),
			ScoreStaleAfter:  v.GetDuration("analytics.score_stale_after"),
			MinHistoryPoints: v.GetInt("analytics.min_history_points"),
		},
		Export: ExportConfig{
			Bucket:          v.GetString("export.bucket"),
			Region:          v.GetString("export.region"),
			Endpoint:        v.GetString("export.endpoint"),
			AccessKeyID:     v.GetString("export.access_key_id"),
			SecretAccessKey: v.GetString("export.secret_access_key"),
			UsePathStyle:    v.GetBool("export.use_path_style"),
			PresignTTL:      v.GetDuration("export.presign_ttl"),
			MaxRows:         v.GetInt("export.max_rows"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "elevatecrm-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
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
		cfg.Database.DBName = "elevatecrm"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "elevatecrm-backend"
	}
	if cfg.JWT.MaxRefreshCount == 0 {
		cfg.JWT.MaxRefreshCount = 10
	}
	// Cookie defaults
	if cfg.Cookie.Path == "" {
		cfg.Cookie.Path = "/"
	}
	if cfg.Cookie.SameSite == "" {
		cfg.Cookie.SameSite = "lax"
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
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// Stricter limits for auth endpoints to slow brute force attempts
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 5
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	// NOTE: CORS origins are intentionally not given a default fallback to "*".
	// An empty list means no cross-origin requests are allowed until explicitly configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID"}
	}
	// Realtime defaults
	if cfg.Realtime.ChannelPrefix == "" {
		cfg.Realtime.ChannelPrefix = "realtime:tenant:"
	}
	if cfg.Realtime.PingInterval == 0 {
		cfg.Realtime.PingInterval = 30 * time.Second
	}
	if cfg.Realtime.PongTimeout == 0 {
		cfg.Realtime.PongTimeout = 60 * time.Second
	}
	if cfg.Realtime.WriteTimeout == 0 {
		cfg.Realtime.WriteTimeout = 10 * time.Second
	}
	if cfg.Realtime.MaxMessageSize == 0 {
		cfg.Realtime.MaxMessageSize = 4 << 10 // 4KB, clients only send small control frames
	}
	if cfg.Realtime.SendBufferSize == 0 {
		cfg.Realtime.SendBufferSize = 64
	}
	// Scheduler defaults
	if cfg.Scheduler.SnapshotInterval == 0 {
		cfg.Scheduler.SnapshotInterval = 15 * time.Minute
	}
	if cfg.Scheduler.LowStockInterval == 0 {
		cfg.Scheduler.LowStockInterval = time.Hour
	}
	if cfg.Scheduler.MaxConcurrentJobs == 0 {
		cfg.Scheduler.MaxConcurrentJobs = 3
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 10 * time.Minute
	}
	if cfg.Scheduler.RetryAttempts == 0 {
		cfg.Scheduler.RetryAttempts = 3
	}
	if cfg.Scheduler.RetryDelay == 0 {
		cfg.Scheduler.RetryDelay = time.Minute
	}
	// Analytics defaults
	if cfg.Analytics.CacheTTL == 0 {
		cfg.Analytics.CacheTTL = 5 * time.Minute
	}
	if cfg.Analytics.ForecastHorizon == 0 {
		cfg.Analytics.ForecastHorizon = 30
	}
	if cfg.Analytics.HistoryWindow == 0 {
		cfg.Analytics.HistoryWindow = 90
	}
	if cfg.Analytics.ServiceLevelZ == 0 {
		cfg.Analytics.ServiceLevelZ = 1.96
	}
	if cfg.Analytics.DefaultLeadTime == 0 {
		cfg.Analytics.DefaultLeadTime = 7
	}
	if cfg.Analytics.SearchCacheTTL == 0 {
		cfg.Analytics.SearchCacheTTL = time.Minute
	}
	if cfg.Analytics.SearchResultCap == 0 {
		cfg.Analytics.SearchResultCap = 20
	}
	if cfg.Analytics.ScoreStaleAfter == 0 {
		cfg.Analytics.ScoreStaleAfter = 24 * time.Hour
	}
	if cfg.Analytics.MinHistoryPoints == 0 {
		cfg.Analytics.MinHistoryPoints = 7
	}
	// Export defaults
	if cfg.Export.Region == "" {
		cfg.Export.Region = "us-east-1"
	}
	if cfg.Export.PresignTTL == 0 {
		cfg.Export.PresignTTL = time.Hour
	}
	if cfg.Export.MaxRows == 0 {
		cfg.Export.MaxRows = 100000
	}
	// Telemetry defaults
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0 // 100% in development
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 30 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Validate connection pool settings
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

	// Production-specific validations
	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if !c.Cookie.Secure {
			return fmt.Errorf("cookie.secure must be true in production (HTTPS required for secure cookies)")
		}
		if c.Cookie.SameSite == "none" && !c.Cookie.Secure {
			return fmt.Errorf("cookie.same_site=none requires cookie.secure=true")
		}
		// CORS must not use wildcard with credentials
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		// Full SQL logging leaks tenant data into traces
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.Analytics.ServiceLevelZ < 0 {
		return fmt.Errorf("analytics.service_level_z cannot be negative")
	}
	if c.Realtime.PongTimeout <= c.Realtime.PingInterval {
		return fmt.Errorf("realtime.pong_timeout (%s) must exceed realtime.ping_interval (%s)",
			c.Realtime.PongTimeout, c.Realtime.PingInterval)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
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

// Addr returns the host:port address for the Redis client
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
