package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// - empty optional addresses (Redis, Kafka, OTLP) switch the matching integration off
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	CORS        CORSConfig
	Log         LogConfig
	JWT         JWTConfig
	Reservation ReservationConfig
	Jobs        JobsConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Tracing     TracingConfig
	Payment     PaymentConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

type ReservationConfig struct {
	ImmediatePaymentThreshold time.Duration `envconfig:"RESERVATION_IMMEDIATE_PAYMENT_THRESHOLD" default:"24h"`
	PaymentGracePeriod        time.Duration `envconfig:"RESERVATION_PAYMENT_GRACE_PERIOD" default:"1h"`
	LockTimeout               time.Duration `envconfig:"RESERVATION_LOCK_TIMEOUT" default:"3s"`
	MaxTxRetries              int           `envconfig:"RESERVATION_MAX_TX_RETRIES" default:"3"`
	IdempotencyTTL            time.Duration `envconfig:"RESERVATION_IDEMPOTENCY_TTL" default:"24h"`
}

type JobsConfig struct {
	DeadlineSweepInterval time.Duration `envconfig:"JOBS_DEADLINE_SWEEP_INTERVAL" default:"5m"`
	FlightSyncInterval    time.Duration `envconfig:"JOBS_FLIGHT_SYNC_INTERVAL" default:"15m"`
	ExcursionSyncInterval time.Duration `envconfig:"JOBS_EXCURSION_SYNC_INTERVAL" default:"30m"`
	StaySyncInterval      time.Duration `envconfig:"JOBS_STAY_SYNC_INTERVAL" default:"30m"`
	OutboxRelayInterval   time.Duration `envconfig:"JOBS_OUTBOX_RELAY_INTERVAL" default:"10s"`
	BatchSize             int           `envconfig:"JOBS_BATCH_SIZE" default:"100"`
	LockTTL               time.Duration `envconfig:"JOBS_LOCK_TTL" default:"2m"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type KafkaConfig struct {
	Brokers      []string      `envconfig:"KAFKA_BROKERS" default:""`
	Topic        string        `envconfig:"KAFKA_TOPIC" default:"reservation-events"`
	WriteTimeout time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"10s"`
}

type TracingConfig struct {
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:""`
	ServiceName  string `envconfig:"OTEL_SERVICE_NAME" default:"reservation-engine"`
	Environment  string `envconfig:"ENV" default:"dev"`
}

type PaymentConfig struct {
	CheckoutBaseURL string `envconfig:"PAYMENT_CHECKOUT_BASE_URL" default:"https://checkout.sandbox.local/pay"`
	WebhookSecret   string `envconfig:"PAYMENT_WEBHOOK_SECRET" required:"true"`
	Currency        string `envconfig:"PAYMENT_CURRENCY" default:"USD"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
		},
		Reservation: ReservationConfig{
			ImmediatePaymentThreshold: 24 * time.Hour,
			PaymentGracePeriod:        time.Hour,
			LockTimeout:               3 * time.Second,
			MaxTxRetries:              3,
			IdempotencyTTL:            24 * time.Hour,
		},
		Jobs: JobsConfig{
			DeadlineSweepInterval: 5 * time.Minute,
			FlightSyncInterval:    15 * time.Minute,
			ExcursionSyncInterval: 30 * time.Minute,
			StaySyncInterval:      30 * time.Minute,
			OutboxRelayInterval:   10 * time.Second,
			BatchSize:             100,
			LockTTL:               2 * time.Minute,
		},
		Kafka: KafkaConfig{
			Topic:        "reservation-events",
			WriteTimeout: 10 * time.Second,
		},
		Tracing: TracingConfig{
			ServiceName: "reservation-engine-test",
			Environment: "test",
		},
		Payment: PaymentConfig{
			CheckoutBaseURL: "https://checkout.test/pay",
			WebhookSecret:   "test-webhook-secret",
			Currency:        "USD",
		},
	}
}
