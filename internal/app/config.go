package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (TASTORIA_ prefix), flags, or YAML config files.
type Config struct {
	Addr          string        `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL   string        `usage:"PostgreSQL connection URL (TASTORIA_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	JWTSecret     string        `usage:"HMAC secret for session tokens" flag:"jwt-secret"`
	JWTTTL        time.Duration `default:"72h" usage:"Session token lifetime" flag:"jwt-ttl"`
	CloudinaryURL string        `usage:"Cloudinary URL for image uploads (cloudinary://...)" flag:"cloudinary-url"`
	SMTP          SMTPConfig
	OTP           OTPConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Graceful      GracefulConfig
}

// SMTPConfig controls the verification email transport.
type SMTPConfig struct {
	Host     string `default:"smtp.gmail.com" usage:"SMTP server host"`
	Port     int    `default:"587" usage:"SMTP server port"`
	Username string `usage:"SMTP username"`
	Password string `usage:"SMTP password"`
	From     string `usage:"Sender address for verification emails"`
}

// OTPConfig controls signup verification codes.
type OTPConfig struct {
	TTL           time.Duration `default:"10m" usage:"Verification code lifetime"`
	SweepInterval time.Duration `default:"1m" usage:"Expired pending-signup eviction interval" flag:"otp-sweep-interval"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "TASTORIA",
		Files:     []string{"config.yaml", "/etc/tastoria/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.DatabaseURL == "" {
		return nil, errors.New("database URL is required: set TASTORIA_DATABASE_URL or DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT secret is required: set TASTORIA_JWT_SECRET")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and
// PORT to the TASTORIA_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if c.CloudinaryURL == "" {
		if v := os.Getenv("CLOUDINARY_URL"); v != "" {
			c.CloudinaryURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
