package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaEnabled     bool     `envconfig:"KAFKA_ENABLED" default:"true"`
	KafkaBrokers     []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaSourceTopic string   `envconfig:"KAFKA_SOURCE_TOPIC" default:"condition-requests"`
	KafkaSinkTopic   string   `envconfig:"KAFKA_SINK_TOPIC" default:"activity-conditions"`
	KafkaGroupID     string   `envconfig:"KAFKA_GROUP_ID" default:"ocean-safe"`

	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080" validate:"required"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`

	BatchSize          int           `envconfig:"BATCH_SIZE" default:"50" validate:"min=1,max=1000"`
	BatchFlushInterval time.Duration `envconfig:"BATCH_FLUSH_INTERVAL" default:"500ms" validate:"gt=0"`
	EvalConcurrency    int           `envconfig:"EVAL_CONCURRENCY" default:"8" validate:"min=1,max=256"`

	// DatabaseURL enables condition persistence when set.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// NASA POWER historical temperature provider.
	PowerEnabled   bool          `envconfig:"POWER_ENABLED" default:"true"`
	PowerBaseURL   string        `envconfig:"POWER_BASE_URL" default:"https://power.larc.nasa.gov/api/temporal/daily/point" validate:"omitempty,url"`
	PowerTimeout   time.Duration `envconfig:"POWER_TIMEOUT" default:"10s" validate:"gt=0"`
	PowerCacheSize int           `envconfig:"POWER_CACHE_SIZE" default:"256" validate:"min=1"`
	PowerRateLimit float64       `envconfig:"POWER_RATE_LIMIT" default:"2" validate:"gt=0"`

	// Probability estimation defaults.
	HistoryEmptyPolicy string  `envconfig:"HISTORY_EMPTY_POLICY" default:"strict" validate:"oneof=strict zero"`
	HotPercentile      float64 `envconfig:"HOT_PERCENTILE" default:"90" validate:"gt=0,lte=100"`
	ColdPercentile     float64 `envconfig:"COLD_PERCENTILE" default:"10" validate:"gt=0,lte=100"`
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults where unset.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.KafkaBrokers = trimBrokers(cfg.KafkaBrokers)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, describeValidation(err)
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED is true")
		}
	}
	if cfg.PowerEnabled && cfg.PowerBaseURL == "" {
		return nil, errors.New("POWER_ENABLED is true but POWER_BASE_URL is not set")
	}

	return &cfg, nil
}

func trimBrokers(brokers []string) []string {
	out := brokers[:0]
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// describeValidation rewrites validator errors in terms of environment
// variable names.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	t := reflect.TypeOf(Config{})
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.StructField()
		if f, ok := t.FieldByName(fe.StructField()); ok {
			name = f.Tag.Get("envconfig")
		}
		msgs = append(msgs, fmt.Sprintf("invalid %s: %v (failed %q)", name, fe.Value(), fe.ActualTag()))
	}
	return fmt.Errorf("validate config: %s", strings.Join(msgs, "; "))
}
