package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Cache    CacheConfig    `yaml:"cache"`
	Insights InsightsConfig `yaml:"insights"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GetHost returns the configured host, defaulting to localhost.
func (s ServerConfig) GetHost() string {
	if s.Host == "" {
		return "localhost"
	}
	return s.Host
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.GetHost(), s.Port)
}

// DatasetConfig selects where the six raw tables are loaded from.
// source is one of "dir", "s3", "sql".
type DatasetConfig struct {
	Source     string `yaml:"source"`
	Dir        string `yaml:"dir"`
	S3Bucket   string `yaml:"s3_bucket"`
	S3Region   string `yaml:"s3_region"`
	S3Prefix   string `yaml:"s3_prefix"`
	AWSProfile string `yaml:"aws_profile"`
	SQLDriver  string `yaml:"sql_driver"` // "postgres" or "snowflake"
	SQLDSN     string `yaml:"sql_dsn"`
}

// AnalysisConfig holds the default analysis parameters.
// The comparison year feeds growth calculations; both binaries and the API
// accept per-request overrides.
type AnalysisConfig struct {
	TargetYear        int    `yaml:"target_year"`
	ComparisonYear    int    `yaml:"comparison_year"`
	StatusFilter      string `yaml:"status_filter"`
	ReviewAggregation string `yaml:"review_aggregation"` // "average" or "first"
}

// DeliveryBucket labels delivery durations up to MaxDays (inclusive).
// MaxDays 0 marks the open-ended final bucket.
type DeliveryBucket struct {
	Label   string `yaml:"label"`
	MaxDays int    `yaml:"max_days"`
}

// DeliveryConfig holds delivery speed categorization thresholds
type DeliveryConfig struct {
	Buckets []DeliveryBucket `yaml:"buckets"`
}

// CacheConfig holds Redis response-cache settings
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	RedisAddr  string `yaml:"redis_addr"`
	RedisDB    int    `yaml:"redis_db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// InsightRule is one declarative threshold check evaluated against the
// executive summary. Template is a Liquid template; it sees the rule's
// metric value, threshold, and every summary field.
type InsightRule struct {
	Name      string  `yaml:"name"`
	Metric    string  `yaml:"metric"`
	Operator  string  `yaml:"operator"` // ">", "<", ">=", "<=", "=="
	Threshold float64 `yaml:"threshold"`
	Severity  string  `yaml:"severity"` // "info", "warning", "critical"
	Priority  int     `yaml:"priority"`
	Template  string  `yaml:"template"`
	Disabled  bool    `yaml:"disabled"`
}

// InsightsConfig holds the insight rule battery
type InsightsConfig struct {
	Rules []InsightRule `yaml:"rules"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = "dir"
	}
	if cfg.Dataset.Dir == "" {
		cfg.Dataset.Dir = "ecommerce_data"
	}
	if cfg.Dataset.SQLDriver == "" {
		cfg.Dataset.SQLDriver = "postgres"
	}
	if cfg.Analysis.StatusFilter == "" {
		cfg.Analysis.StatusFilter = "delivered"
	}
	if cfg.Analysis.ReviewAggregation == "" {
		cfg.Analysis.ReviewAggregation = "average"
	}
	if cfg.Analysis.TargetYear != 0 && cfg.Analysis.ComparisonYear == 0 {
		cfg.Analysis.ComparisonYear = cfg.Analysis.TargetYear - 1
	}
	if len(cfg.Delivery.Buckets) == 0 {
		cfg.Delivery.Buckets = DefaultDeliveryBuckets()
	}
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 300
	}
	if len(cfg.Insights.Rules) == 0 {
		cfg.Insights.Rules = DefaultInsightRules()
	}
}

// DefaultDeliveryBuckets returns the stock delivery speed categorization.
func DefaultDeliveryBuckets() []DeliveryBucket {
	return []DeliveryBucket{
		{Label: "1-3 days", MaxDays: 3},
		{Label: "4-7 days", MaxDays: 7},
		{Label: "8+ days", MaxDays: 0},
	}
}

// DefaultInsightRules returns the stock rule battery used when the config
// file does not define one.
func DefaultInsightRules() []InsightRule {
	return []InsightRule{
		{Name: "Revenue Decline", Metric: "yoy_growth", Operator: "<", Threshold: 0,
			Severity: "critical", Priority: 100,
			Template: "Revenue declined {{ value | percent }} year over year. Review pricing and marketing spend."},
		{Name: "Order Decline", Metric: "order_growth", Operator: "<", Threshold: 0,
			Severity: "warning", Priority: 80,
			Template: "Order volume is down {{ value | percent }} versus the comparison period."},
		{Name: "Category Concentration", Metric: "category_market_share", Operator: ">", Threshold: 0.40,
			Severity: "warning", Priority: 60,
			Template: "{{ top_category }} accounts for {{ value | percent }} of revenue. Concentration above {{ threshold | percent }} is a diversification risk."},
		{Name: "Slow Delivery", Metric: "average_delivery_days", Operator: ">", Threshold: 7,
			Severity: "warning", Priority: 50,
			Template: "Average delivery takes {{ value | round1 }} days, above the {{ threshold | round1 }}-day target."},
		{Name: "Low Satisfaction", Metric: "average_review_score", Operator: "<", Threshold: 4.0,
			Severity: "warning", Priority: 40,
			Template: "Average review score is {{ value | round1 }} out of 5. Investigate fulfillment and product quality."},
		{Name: "Narrow Footprint", Metric: "active_markets", Operator: "<", Threshold: 5,
			Severity: "info", Priority: 20,
			Template: "Only {{ value | round0 }} states generated orders in this period."},
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so local
// settings can live in .env and real env vars win in deployment. An empty
// path skips the YAML file and starts from the built-in defaults.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	var cfg *Config
	if path == "" {
		cfg = &Config{}
		applyDefaults(cfg)
	} else {
		var err error
		cfg, err = Load(path)
		if err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("DATASET_DIR"); v != "" {
		cfg.Dataset.Source = "dir"
		cfg.Dataset.Dir = v
	}
	if v := os.Getenv("DATASET_S3_BUCKET"); v != "" {
		cfg.Dataset.Source = "s3"
		cfg.Dataset.S3Bucket = v
	}
	if v := os.Getenv("DATASET_S3_REGION"); v != "" {
		cfg.Dataset.S3Region = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Dataset.Source = "sql"
		cfg.Dataset.SQLDSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}

	return cfg, nil
}
