package contract

import (
	"fmt"
	"maps"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/tracelens/tracelens/schema"
)

// Default values for configuration.
const (
	DefaultPageSize     = 100
	DefaultResultLimit  = 25
	MaxResultLimit      = 1000
	DefaultPrecision    = 1
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 500
)

// weightSumTolerance is the allowed deviation of the vital weight sum
// from 1.0 before the configuration is rejected.
const weightSumTolerance = 1e-9

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	TracePath   string
	TestName    string
	ResultLimit int
	Workers     int
	PageSize    int
	Detail      bool
	Explain     bool
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	HistoryLimit int

	// Budgets maps budget metric keys to numeric limits. Absent keys are
	// unlimited.
	Budgets map[string]float64

	// VitalWeights is the final per-metric weight map, computed from
	// defaults plus config file overrides. Always sums to 1.0.
	VitalWeights map[schema.MetricName]float64

	// VitalThresholds is the final per-metric threshold map.
	VitalThresholds map[schema.MetricName]schema.VitalThresholds

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// WeightsRawInput holds custom vital weight overrides from the config file.
type WeightsRawInput struct {
	LCP *float64 `mapstructure:"lcp"`
	FID *float64 `mapstructure:"fid"`
	CLS *float64 `mapstructure:"cls"`
	FCP *float64 `mapstructure:"fcp"`
	TTI *float64 `mapstructure:"tti"`
	TBT *float64 `mapstructure:"tbt"`
}

// ThresholdRawInput holds one metric's threshold override pair.
type ThresholdRawInput struct {
	Good             *float64 `mapstructure:"good"`
	NeedsImprovement *float64 `mapstructure:"needs_improvement"`
}

// ThresholdsRawInput holds all threshold overrides from the config file.
type ThresholdsRawInput struct {
	LCP *ThresholdRawInput `mapstructure:"lcp"`
	FID *ThresholdRawInput `mapstructure:"fid"`
	CLS *ThresholdRawInput `mapstructure:"cls"`
	FCP *ThresholdRawInput `mapstructure:"fcp"`
	TTI *ThresholdRawInput `mapstructure:"tti"`
	TBT *ThresholdRawInput `mapstructure:"tbt"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	TracePathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	TestName       string `mapstructure:"test-name"`
	OutputFile     string `mapstructure:"output-file"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	PageSize       int    `mapstructure:"page-size"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	Detail         bool   `mapstructure:"detail"`
	Explain        bool   `mapstructure:"explain"`
	Width          int    `mapstructure:"width"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// --- Fields from historyCmd.Flags() ---
	HistoryLimit int `mapstructure:"history-limit"`

	// --- Budget limits from config file or --budget flags ---
	Budgets map[string]float64 `mapstructure:"budgets"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`

	// --- Custom thresholds from config file ---
	Thresholds ThresholdsRawInput `mapstructure:"thresholds"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Budgets != nil {
		clone.Budgets = make(map[string]float64, len(c.Budgets))
		maps.Copy(clone.Budgets, c.Budgets)
	}
	if c.VitalWeights != nil {
		clone.VitalWeights = make(map[schema.MetricName]float64, len(c.VitalWeights))
		maps.Copy(clone.VitalWeights, c.VitalWeights)
	}
	if c.VitalThresholds != nil {
		clone.VitalThresholds = make(map[schema.MetricName]schema.VitalThresholds, len(c.VitalThresholds))
		maps.Copy(clone.VitalThresholds, c.VitalThresholds)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw
// inputs and updates the final Config struct. Malformed weight or budget
// configuration fails here, before any scoring runs.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processBudgets(cfg, input); err != nil {
		return err
	}
	if err := processVitalWeights(cfg, input); err != nil {
		return err
	}
	if err := processVitalThresholds(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.TracePath = input.TracePathStr
	cfg.TestName = input.TestName
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. PageSize Validation ---
	if input.PageSize <= 0 {
		return fmt.Errorf("page-size must be greater than 0 (received %d)", input.PageSize)
	}
	cfg.PageSize = input.PageSize

	// --- 4. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	// --- 5. History Limit Validation ---
	if input.HistoryLimit <= 0 || input.HistoryLimit > MaxHistoryLimit {
		return fmt.Errorf("history-limit must be greater than 0 and cannot exceed %d (received %d)", MaxHistoryLimit, input.HistoryLimit)
	}
	cfg.HistoryLimit = input.HistoryLimit

	// --- 6. Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}

	return nil
}

// processBudgets validates the budget mapping. Unknown keys are rejected
// so a typo does not silently become "unlimited".
func processBudgets(cfg *Config, input *ConfigRawInput) error {
	if len(input.Budgets) == 0 {
		cfg.Budgets = nil
		return nil
	}
	known := make(map[string]struct{}, len(schema.AllBudgetMetrics))
	for _, k := range schema.AllBudgetMetrics {
		known[k] = struct{}{}
	}
	budgets := make(map[string]float64, len(input.Budgets))
	for key, limit := range input.Budgets {
		key = strings.ToLower(strings.TrimSpace(key))
		if _, ok := known[key]; !ok {
			return &ConfigurationError{Field: "budgets." + key, Reason: "unknown budget metric"}
		}
		if limit < 0 || math.IsNaN(limit) || math.IsInf(limit, 0) {
			return &ConfigurationError{Field: "budgets." + key, Reason: fmt.Sprintf("limit must be a non-negative number (received %v)", limit)}
		}
		budgets[key] = limit
	}
	cfg.Budgets = budgets
	return nil
}

// processVitalWeights merges config file overrides over the default
// weights and validates the result: every weight non-negative, the sum
// exactly 1.0 within tolerance.
func processVitalWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.GetDefaultWeights()

	overrides := map[schema.MetricName]*float64{
		schema.LCPMetric: input.Weights.LCP,
		schema.FIDMetric: input.Weights.FID,
		schema.CLSMetric: input.Weights.CLS,
		schema.FCPMetric: input.Weights.FCP,
		schema.TTIMetric: input.Weights.TTI,
		schema.TBTMetric: input.Weights.TBT,
	}
	for name, w := range overrides {
		if w == nil {
			continue
		}
		if *w < 0 || math.IsNaN(*w) || math.IsInf(*w, 0) {
			return &ConfigurationError{Field: "weights." + strings.ToLower(string(name)), Reason: fmt.Sprintf("weight must be a non-negative number (received %v)", *w)}
		}
		weights[name] = *w
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return &ConfigurationError{Field: "weights", Reason: fmt.Sprintf("weights must sum to 1.0 (received %.6f)", sum)}
	}

	cfg.VitalWeights = weights
	return nil
}

// processVitalThresholds merges config file overrides over the default
// thresholds and validates ordering (good <= needs_improvement).
func processVitalThresholds(cfg *Config, input *ConfigRawInput) error {
	thresholds := schema.GetDefaultThresholds()

	overrides := map[schema.MetricName]*ThresholdRawInput{
		schema.LCPMetric: input.Thresholds.LCP,
		schema.FIDMetric: input.Thresholds.FID,
		schema.CLSMetric: input.Thresholds.CLS,
		schema.FCPMetric: input.Thresholds.FCP,
		schema.TTIMetric: input.Thresholds.TTI,
		schema.TBTMetric: input.Thresholds.TBT,
	}
	for name, o := range overrides {
		if o == nil {
			continue
		}
		th := thresholds[name]
		if o.Good != nil {
			th.Good = *o.Good
		}
		if o.NeedsImprovement != nil {
			th.NeedsImprovement = *o.NeedsImprovement
		}
		field := "thresholds." + strings.ToLower(string(name))
		if th.Good < 0 || th.NeedsImprovement < 0 {
			return &ConfigurationError{Field: field, Reason: "thresholds must be non-negative"}
		}
		if th.Good > th.NeedsImprovement {
			return &ConfigurationError{Field: field, Reason: fmt.Sprintf("good threshold (%v) must not exceed needs_improvement threshold (%v)", th.Good, th.NeedsImprovement)}
		}
		thresholds[name] = th
	}

	cfg.VitalThresholds = thresholds
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
