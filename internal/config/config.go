package config

import (
	"fmt"
	"strings"

	"github.com/ayo6706/payment-batch/internal/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration derived from the environment, an
// optional YAML file and command-line flags.
type Config struct {
	InputPath           string          `yaml:"input_path"`
	ValidatedOutputPath string          `yaml:"validated_output_path"`
	ReportOutputPath    string          `yaml:"report_output_path"`
	RejectedOutputPath  string          `yaml:"rejected_output_path"`
	CommissionRate      decimal.Decimal `yaml:"commission_rate"`
	MinAmount           decimal.Decimal `yaml:"min_amount"`
	MaxAmount           decimal.Decimal `yaml:"max_amount"`
	SupportedCurrencies []string        `yaml:"supported_currencies"`
	ChunkSize           int             `yaml:"chunk_size"`
	LogLevel            string          `yaml:"log_level"`
	MetricsTextfile     string          `yaml:"metrics_textfile,omitempty"`
	PushgatewayURL      string          `yaml:"pushgateway_url,omitempty"`
}

// Flag names bound onto config keys when a flag set is passed to Load.
var flagKeys = map[string]string{
	"input":           "input_path",
	"validated-out":   "validated_output_path",
	"report-out":      "report_output_path",
	"rejected-out":    "rejected_output_path",
	"commission-rate": "commission_rate",
	"chunk-size":      "chunk_size",
	"log-level":       "log_level",
}

// Load reads configuration with precedence flags > env > file > defaults.
// configFile and flags are optional. supported_currencies may be a
// comma-separated string or, in the YAML file, a list.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "input_path", "INPUT_PATH", "PAYMENT_BATCH_INPUT_PATH")
	bindEnv(v, "validated_output_path", "VALIDATED_OUTPUT_PATH", "PAYMENT_BATCH_VALIDATED_OUTPUT_PATH")
	bindEnv(v, "report_output_path", "REPORT_OUTPUT_PATH", "PAYMENT_BATCH_REPORT_OUTPUT_PATH")
	bindEnv(v, "rejected_output_path", "REJECTED_OUTPUT_PATH", "PAYMENT_BATCH_REJECTED_OUTPUT_PATH")
	bindEnv(v, "commission_rate", "PAYMENT_COMMISSION_RATE", "PAYMENT_BATCH_COMMISSION_RATE")
	bindEnv(v, "min_amount", "MIN_AMOUNT", "PAYMENT_BATCH_MIN_AMOUNT")
	bindEnv(v, "max_amount", "MAX_AMOUNT", "PAYMENT_BATCH_MAX_AMOUNT")
	bindEnv(v, "supported_currencies", "SUPPORTED_CURRENCIES", "PAYMENT_BATCH_SUPPORTED_CURRENCIES")
	bindEnv(v, "chunk_size", "CHUNK_SIZE", "PAYMENT_BATCH_CHUNK_SIZE")
	bindEnv(v, "log_level", "LOG_LEVEL", "PAYMENT_BATCH_LOG_LEVEL")
	bindEnv(v, "metrics_textfile", "METRICS_TEXTFILE", "PAYMENT_BATCH_METRICS_TEXTFILE")
	bindEnv(v, "pushgateway_url", "PUSHGATEWAY_URL", "PAYMENT_BATCH_PUSHGATEWAY_URL")

	v.SetDefault("input_path", "data/input/payments.txt")
	v.SetDefault("validated_output_path", "data/output/processed_payments.txt")
	v.SetDefault("report_output_path", "data/output/payment_report.txt")
	v.SetDefault("rejected_output_path", "data/output/rejected_payments.txt")
	v.SetDefault("commission_rate", "0.02")
	v.SetDefault("min_amount", "10.00")
	v.SetDefault("max_amount", "10000.00")
	v.SetDefault("supported_currencies", domain.DefaultSupportedCurrencies)
	v.SetDefault("chunk_size", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_textfile", "")
	v.SetDefault("pushgateway_url", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	commissionRate, err := decimalSetting(v, "commission_rate")
	if err != nil {
		return nil, err
	}
	minAmount, err := decimalSetting(v, "min_amount")
	if err != nil {
		return nil, err
	}
	maxAmount, err := decimalSetting(v, "max_amount")
	if err != nil {
		return nil, err
	}

	chunkSize := v.GetInt("chunk_size")
	if chunkSize <= 0 {
		chunkSize = 10
	}

	cfg := &Config{
		InputPath:           v.GetString("input_path"),
		ValidatedOutputPath: v.GetString("validated_output_path"),
		ReportOutputPath:    v.GetString("report_output_path"),
		RejectedOutputPath:  v.GetString("rejected_output_path"),
		CommissionRate:      commissionRate,
		MinAmount:           minAmount,
		MaxAmount:           maxAmount,
		SupportedCurrencies: ParseCurrencies(strings.Join(v.GetStringSlice("supported_currencies"), ",")),
		ChunkSize:           chunkSize,
		LogLevel:            v.GetString("log_level"),
		MetricsTextfile:     v.GetString("metrics_textfile"),
		PushgatewayURL:      v.GetString("pushgateway_url"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for name, path := range map[string]string{
		"INPUT_PATH":            c.InputPath,
		"VALIDATED_OUTPUT_PATH": c.ValidatedOutputPath,
		"REPORT_OUTPUT_PATH":    c.ReportOutputPath,
		"REJECTED_OUTPUT_PATH":  c.RejectedOutputPath,
	} {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	if c.MinAmount.GreaterThan(c.MaxAmount) {
		return fmt.Errorf("MIN_AMOUNT %s must not exceed MAX_AMOUNT %s", c.MinAmount, c.MaxAmount)
	}
	if c.CommissionRate.IsNegative() || c.CommissionRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("PAYMENT_COMMISSION_RATE must be between 0 and 1, got %s", c.CommissionRate)
	}
	if len(c.SupportedCurrencies) == 0 {
		return fmt.Errorf("SUPPORTED_CURRENCIES must list at least one currency")
	}
	return nil
}

// ParseCurrencies splits a comma-separated code list, dropping blanks and
// duplicates while keeping order.
func ParseCurrencies(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, code := range strings.Split(raw, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

func decimalSetting(v *viper.Viper, key string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", strings.ToUpper(key), raw, err)
	}
	return d, nil
}

func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}
