package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/gommon/random"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"20"`

	// HTTP
	Port int `envconfig:"PORT" default:"8080"`

	// JWT
	JWTSecret    string        `envconfig:"JWT_SECRET"`
	JWTExpiry    time.Duration `envconfig:"JWT_EXPIRY" default:"24h"`
	JWKSURL      string        `envconfig:"JWKS_URL"`
	JWTIssuer    string        `envconfig:"JWT_ISSUER" default:"condoparcel"`
	AllowOrigins []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`

	// Redis
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	ViewCacheTTL  time.Duration `envconfig:"VIEW_CACHE_TTL" default:"5m"`

	// MinIO
	MinioEndpoint  string        `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	MinioAccessKey string        `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	MinioSecretKey string        `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	MinioUseSSL    bool          `envconfig:"MINIO_USE_SSL" default:"false"`
	MinioRegion    string        `envconfig:"MINIO_REGION" default:"us-east-1"`
	ProofBucket    string        `envconfig:"PROOF_BUCKET" default:"withdrawal-proofs"`
	ProofURLExpiry time.Duration `envconfig:"PROOF_URL_EXPIRY" default:"15m"`

	// Jobs
	ReconcileInterval time.Duration `envconfig:"RECONCILE_INTERVAL" default:"1h"`

	Debug bool `envconfig:"DEBUG" default:"false"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.JWTSecret == "" && c.JWKSURL == "" {
		c.JWTSecret = random.String(32)
		log.Warn().Msg("JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}
	if c.ViewCacheTTL <= 0 {
		return nil, fmt.Errorf("VIEW_CACHE_TTL must be positive")
	}
	if c.ReconcileInterval <= 0 {
		return nil, fmt.Errorf("RECONCILE_INTERVAL must be positive")
	}
	return &c, nil
}
