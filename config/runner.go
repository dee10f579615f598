package config

import (
	"time"

	"github.com/kbukum/flowkit/observability"
	"github.com/kbukum/flowkit/validation"
)

// RunnerConfig configures a process that runs flows.
type RunnerConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	// Pipeline is the YAML pipeline file to run.
	Pipeline string `yaml:"pipeline" mapstructure:"pipeline"`
	// PipelineDirs are searched for included pipelines. The directory of
	// Pipeline is always searched first.
	PipelineDirs []string `yaml:"pipeline_dirs" mapstructure:"pipeline_dirs"`
	// Cron overrides the pipeline's own schedule when set.
	Cron string `yaml:"cron" mapstructure:"cron" validate:"omitempty,cron"`
	// MaxParallel bounds concurrently running tasks per level; 0 is unlimited.
	MaxParallel int `yaml:"max_parallel" mapstructure:"max_parallel" validate:"gte=0"`

	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// TracingConfig enables OTLP trace export.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	// SpanPrefix names task spans "{prefix}.{task}".
	SpanPrefix string `yaml:"span_prefix" mapstructure:"span_prefix"`
}

// MetricsConfig enables OTLP metric export.
type MetricsConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// ApplyDefaults applies the service defaults and the telemetry defaults.
func (c *RunnerConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "flowrun"
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "localhost:4318"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
	if c.Tracing.SpanPrefix == "" {
		c.Tracing.SpanPrefix = "flow"
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = "localhost:4318"
	}
	if c.Metrics.Interval == 0 {
		c.Metrics.Interval = 15 * time.Second
	}
}

// Validate checks the service section and the runner fields.
func (c *RunnerConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(c)
}

// TracerConfig converts the tracing section for observability.InitTracer.
func (c *RunnerConfig) TracerConfig() observability.TracerConfig {
	return observability.TracerConfig{
		ServiceName:    c.Name,
		ServiceVersion: c.Version,
		Environment:    c.Environment,
		Endpoint:       c.Tracing.Endpoint,
		Insecure:       c.Tracing.Insecure,
		SampleRate:     c.Tracing.SampleRate,
	}
}

// MeterConfig converts the metrics section for observability.InitMeter.
func (c *RunnerConfig) MeterConfig() observability.MeterConfig {
	return observability.MeterConfig{
		ServiceName:    c.Name,
		ServiceVersion: c.Version,
		Environment:    c.Environment,
		Endpoint:       c.Metrics.Endpoint,
		Insecure:       c.Metrics.Insecure,
		Interval:       c.Metrics.Interval,
	}
}
