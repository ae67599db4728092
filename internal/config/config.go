package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/reconcile"
	"github.com/vango-dev/vtree/pkg/schedule"
	"github.com/vango-dev/vtree/pkg/telemetry"
)

// ConfigFileNames are the accepted config file names, in lookup order.
var ConfigFileNames = []string{"vtree.json", "vtree.yaml", "vtree.yml"}

const (
	// DefaultAddr is the default preview server address.
	DefaultAddr = "localhost:3000"

	// DefaultOutput is the default rendered document path.
	DefaultOutput = "dist/index.html"

	// DefaultMaxExpansionDepth bounds component expansion chains.
	DefaultMaxExpansionDepth = 256

	// DefaultPoolMaxPerKey bounds each recycling pool bucket.
	DefaultPoolMaxPerKey = 64

	// DefaultTimerDelay is the flush delay of the timer scheduler.
	DefaultTimerDelay = "1ms"
)

// Scheduler kinds accepted by engine.scheduler.
const (
	SchedulerMicrotask = "microtask"
	SchedulerManual    = "manual"
	SchedulerTimer     = "timer"
)

// Config represents the complete vtree.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Engine configures the reconciliation runtime.
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Log configures the CLI's slog handler.
	Log LogConfig `json:"log" yaml:"log"`

	// Metrics configures the Prometheus sink.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing configures OpenTelemetry spans.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Render configures HTML output.
	Render RenderConfig `json:"render" yaml:"render"`

	// Resume points at the document data.
	Resume ResumeConfig `json:"resume" yaml:"resume"`

	// Preview configures the live preview server.
	Preview PreviewConfig `json:"preview" yaml:"preview"`

	// Publish configures where rendered output goes.
	Publish PublishConfig `json:"publish" yaml:"publish"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// EngineConfig contains runtime settings.
type EngineConfig struct {
	// SyncComponentUpdates renders children synchronously when a parent
	// passes new props. Default: true.
	SyncComponentUpdates *bool `json:"syncComponentUpdates,omitempty" yaml:"syncComponentUpdates,omitempty"`

	// MaxExpansionDepth bounds stateless expansion and component chains.
	MaxExpansionDepth int `json:"maxExpansionDepth,omitempty" yaml:"maxExpansionDepth,omitempty"`

	// Pool configures node and component recycling.
	Pool PoolConfig `json:"pool" yaml:"pool"`

	// Scheduler is one of microtask, manual or timer.
	Scheduler string `json:"scheduler,omitempty" yaml:"scheduler,omitempty"`

	// TimerDelay is the flush delay for the timer scheduler (e.g. "1ms").
	TimerDelay string `json:"timerDelay,omitempty" yaml:"timerDelay,omitempty"`
}

// PoolConfig contains recycling pool settings.
type PoolConfig struct {
	// MaxPerKey bounds each pool bucket. -1 disables recycling.
	MaxPerKey int `json:"maxPerKey,omitempty" yaml:"maxPerKey,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty" yaml:"subsystem,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// RenderConfig contains HTML output settings.
type RenderConfig struct {
	Pretty bool   `json:"pretty,omitempty" yaml:"pretty,omitempty"`
	Indent string `json:"indent,omitempty" yaml:"indent,omitempty"`
}

// ResumeConfig locates the resume data.
type ResumeConfig struct {
	// Data is the JSON or YAML resume file.
	Data string `json:"data,omitempty" yaml:"data,omitempty"`

	// Locale is a BCP 47 tag used for the page language and dates.
	Locale string `json:"locale,omitempty" yaml:"locale,omitempty"`
}

// PreviewConfig contains preview server settings.
type PreviewConfig struct {
	Addr            string `json:"addr,omitempty" yaml:"addr,omitempty"`
	ReadBufferSize  int    `json:"readBufferSize,omitempty" yaml:"readBufferSize,omitempty"`
	WriteBufferSize int    `json:"writeBufferSize,omitempty" yaml:"writeBufferSize,omitempty"`
}

// PublishConfig contains output settings.
type PublishConfig struct {
	// Output is the local file the CLI writes.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// S3 uploads the output when Bucket is set.
	S3 S3Config `json:"s3" yaml:"s3"`
}

// S3Config contains object storage settings.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Key      string `json:"key,omitempty" yaml:"key,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	syncUpdates := true
	return &Config{
		Engine: EngineConfig{
			SyncComponentUpdates: &syncUpdates,
			MaxExpansionDepth:    DefaultMaxExpansionDepth,
			Pool:                 PoolConfig{MaxPerKey: DefaultPoolMaxPerKey},
			Scheduler:            SchedulerMicrotask,
			TimerDelay:           DefaultTimerDelay,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: "vtree",
		},
		Tracing: TracingConfig{
			TracerName: "vtree",
		},
		Render: RenderConfig{
			Indent: "  ",
		},
		Resume: ResumeConfig{
			Data:   "resume.json",
			Locale: "en",
		},
		Preview: PreviewConfig{
			Addr:            DefaultAddr,
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		Publish: PublishConfig{
			Output: DefaultOutput,
			S3:     S3Config{Key: "index.html"},
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// vtree.json, vtree.yaml and vtree.yml in that order.
func Load(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E141").
		WithDetail("No vtree.json, vtree.yaml or vtree.yml found in " + dir).
		WithSuggestion("Run 'vtree init' to create one")
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	unmarshal, err := codecFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'vtree init' to create one")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check the file's syntax")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func codecFor(path string) (func([]byte, any) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Unmarshal, nil
	case ".yaml", ".yml":
		return yaml.Unmarshal, nil
	}
	return nil, errors.New("E142").WithDetail(path)
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path in the format its extension
// names.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		return errors.New("E142").WithDetail(path)
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	d := New()

	// Engine
	if c.Engine.SyncComponentUpdates == nil {
		c.Engine.SyncComponentUpdates = d.Engine.SyncComponentUpdates
	}
	if c.Engine.MaxExpansionDepth == 0 {
		c.Engine.MaxExpansionDepth = d.Engine.MaxExpansionDepth
	}
	if c.Engine.Pool.MaxPerKey == 0 {
		c.Engine.Pool.MaxPerKey = d.Engine.Pool.MaxPerKey
	}
	if c.Engine.Scheduler == "" {
		c.Engine.Scheduler = d.Engine.Scheduler
	}
	if c.Engine.TimerDelay == "" {
		c.Engine.TimerDelay = d.Engine.TimerDelay
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}

	// Telemetry
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = d.Tracing.TracerName
	}

	// Render
	if c.Render.Indent == "" {
		c.Render.Indent = d.Render.Indent
	}

	// Resume
	if c.Resume.Data == "" {
		c.Resume.Data = d.Resume.Data
	}
	if c.Resume.Locale == "" {
		c.Resume.Locale = d.Resume.Locale
	}

	// Preview
	if c.Preview.Addr == "" {
		c.Preview.Addr = d.Preview.Addr
	}
	if c.Preview.ReadBufferSize == 0 {
		c.Preview.ReadBufferSize = d.Preview.ReadBufferSize
	}
	if c.Preview.WriteBufferSize == 0 {
		c.Preview.WriteBufferSize = d.Preview.WriteBufferSize
	}

	// Publish
	if c.Publish.Output == "" {
		c.Publish.Output = d.Publish.Output
	}
	if c.Publish.S3.Key == "" {
		c.Publish.S3.Key = d.Publish.S3.Key
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Engine.MaxExpansionDepth < 1 {
		return errors.New("E121").
			WithDetail("engine.maxExpansionDepth must be at least 1")
	}
	if c.Engine.Pool.MaxPerKey < -1 {
		return errors.New("E121").
			WithDetail("engine.pool.maxPerKey must be -1 (disabled) or positive")
	}
	switch c.Engine.Scheduler {
	case SchedulerMicrotask, SchedulerManual, SchedulerTimer:
	default:
		return errors.New("E122").
			WithDetailf("engine.scheduler is %q", c.Engine.Scheduler)
	}
	if d, err := time.ParseDuration(c.Engine.TimerDelay); err != nil || d < 0 {
		return errors.New("E121").
			WithDetailf("engine.timerDelay %q is not a duration", c.Engine.TimerDelay)
	}
	if _, ok := logLevels[strings.ToLower(c.Log.Level)]; !ok {
		return errors.New("E123").WithDetailf("log.level is %q", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return errors.New("E123").WithDetailf("log.format is %q", c.Log.Format)
	}
	if c.Preview.ReadBufferSize < 0 || c.Preview.WriteBufferSize < 0 {
		return errors.New("E121").
			WithDetail("preview buffer sizes must not be negative")
	}
	return nil
}

// SyncComponentUpdates reports the effective engine.syncComponentUpdates.
func (c *Config) SyncComponentUpdates() bool {
	return c.Engine.SyncComponentUpdates == nil || *c.Engine.SyncComponentUpdates
}

// EngineOptions maps the engine section to runtime options. mu is the lock
// guarding the runtime; it is only used, and then required, by the timer
// scheduler.
func (c *Config) EngineOptions(mu sync.Locker) ([]reconcile.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var sched reconcile.Scheduler
	switch c.Engine.Scheduler {
	case SchedulerManual:
		sched = schedule.NewManual()
	case SchedulerTimer:
		if mu == nil {
			return nil, errors.New("E122").
				WithDetail("the timer scheduler needs the runtime's lock")
		}
		delay, _ := time.ParseDuration(c.Engine.TimerDelay)
		sched = schedule.NewTimer(mu, delay)
	default:
		sched = schedule.NewMicrotasks()
	}

	limit := c.Engine.Pool.MaxPerKey
	if limit < 0 {
		limit = 0
	}
	return []reconcile.Option{
		reconcile.WithScheduler(sched),
		reconcile.WithSyncComponentUpdates(c.SyncComponentUpdates()),
		reconcile.WithMaxExpansionDepth(c.Engine.MaxExpansionDepth),
		reconcile.WithPoolLimit(limit),
	}, nil
}

// TelemetryOptions returns the metrics and tracing options the config
// enables. Metrics register with reg, or the default registerer when reg
// is nil.
func (c *Config) TelemetryOptions(reg prometheus.Registerer) []reconcile.Option {
	var opts []reconcile.Option
	if c.Metrics.Enabled {
		mopts := []telemetry.MetricsOption{
			telemetry.WithNamespace(c.Metrics.Namespace),
			telemetry.WithSubsystem(c.Metrics.Subsystem),
		}
		if reg != nil {
			mopts = append(mopts, telemetry.WithRegistry(reg))
		}
		opts = append(opts, reconcile.WithMetrics(telemetry.Prometheus(mopts...)))
	}
	if c.Tracing.Enabled {
		opts = append(opts, reconcile.WithTracer(telemetry.OpenTelemetry(
			telemetry.WithTracerName(c.Tracing.TracerName),
		)))
	}
	return opts
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Logger builds the slog logger the log section describes.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevels[strings.ToLower(c.Log.Level)]}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ResumePath returns the absolute path to the resume data file.
func (c *Config) ResumePath() string {
	return c.resolve(c.Resume.Data)
}

// OutputPath returns the absolute path to the rendered document.
func (c *Config) OutputPath() string {
	return c.resolve(c.Publish.Output)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No vtree config found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'vtree init' to create one")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
