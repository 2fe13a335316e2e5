package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultHTTPListen   = ":8080"
	defaultHealthPath   = "/healthz"
	defaultReadyPath    = "/readyz"
	defaultAPIPrefix    = "/v1"
	defaultMaxBodyBytes = 2 << 20

	defaultNATSURL                = "nats://127.0.0.1:4222"
	defaultSubmissionSubject      = "alertcycle.submissions"
	defaultSubmissionStream       = "ALERTCYCLE_SUBMISSIONS"
	defaultSubmissionConsumer     = "alertcycle-ingest"
	defaultSubmissionDeliverGroup = "alertcycle-workers"
	defaultEventSubjectPrefix     = "alertcycle.events"
	defaultEventStream            = "ALERTCYCLE_EVENTS"
	defaultNATSWorkers            = 1
	defaultNATSAckWaitSec         = 30
	defaultNATSNackDelayMS        = 1000
	defaultNATSMaxDeliver         = -1
	defaultNATSMaxAckPending      = 2048
	defaultEventBuffer            = 1024
	defaultEventRetryMS           = 500
	defaultEventMaxAttempts       = 5

	defaultDedupWindowSec      = 300
	defaultAutoResolveSec      = 3600
	defaultMaxAlertsPerRule    = 1000
	defaultShutdownGraceSec    = 10
	trueByDefaultDedupEnabled  = true
	trueByDefaultAutoResolve   = true
	trueByDefaultConsoleEnable = true

	// ServiceModeNATS keeps NATS-backed ingest/event settings.
	ServiceModeNATS = "nats"
	// ServiceModeSingle keeps single-instance mode without NATS dependencies.
	ServiceModeSingle = "single"
)

// Config holds service runtime settings for the lifecycle engine.
// Params: TOML sections from file or merged directory snapshot.
// Returns: validated runtime configuration.
type Config struct {
	Service ServiceConfig `toml:"service"`
	Log     LogConfig     `toml:"log"`
	Engine  EngineConfig  `toml:"engine"`
	Ingest  IngestConfig  `toml:"ingest"`
	Events  EventsConfig  `toml:"events"`
}

// ServiceConfig contains process-level settings.
// Params: name, single/nats mode, and shutdown grace.
// Returns: service behavior defaults.
type ServiceConfig struct {
	Name             string `toml:"name"`
	Mode             string `toml:"mode"`
	ShutdownGraceSec int    `toml:"shutdown_grace_sec"`
}

// LogConfig contains console/file logging sinks.
// Params: sink settings for each output target.
// Returns: logger setup options.
type LogConfig struct {
	Console LogSinkConfig `toml:"console"`
	File    LogSinkConfig `toml:"file"`
}

// LogSinkConfig defines one logging sink.
// Params: sink enable flag, level, format, and path.
// Returns: sink-specific behavior.
type LogSinkConfig struct {
	Enabled bool   `toml:"enabled"`
	Level   string `toml:"level"`
	Format  string `toml:"format"`
	Path    string `toml:"path"`
}

// EngineConfig controls deduplication, auto-resolve, and index bounds.
// Params: recognized engine options with documented defaults.
// Returns: lifecycle controller tuning.
type EngineConfig struct {
	DedupEnabled          *bool `toml:"dedup_enabled"`
	DedupWindowSec        int   `toml:"dedup_window_sec"`
	AutoResolveEnabled    *bool `toml:"auto_resolve_enabled"`
	AutoResolveTimeoutSec int   `toml:"auto_resolve_timeout_sec"`
	GroupingEnabled       bool  `toml:"grouping_enabled"`
	GroupingWindowSec     int   `toml:"grouping_window_sec"`
	MaxAlertsPerRule      int   `toml:"max_alerts_per_rule"`
}

// DedupWindow returns effective deduplication window.
// Params: none.
// Returns: window duration.
func (c EngineConfig) DedupWindow() time.Duration {
	return time.Duration(c.DedupWindowSec) * time.Second
}

// AutoResolveTimeout returns effective default auto-resolve delay.
// Params: none.
// Returns: delay duration used when a rule omits its own.
func (c EngineConfig) AutoResolveTimeout() time.Duration {
	return time.Duration(c.AutoResolveTimeoutSec) * time.Second
}

// Deduplicate reports whether fingerprint dedup is enabled.
// Params: none.
// Returns: effective flag (true by default).
func (c EngineConfig) Deduplicate() bool {
	if c.DedupEnabled == nil {
		return trueByDefaultDedupEnabled
	}
	return *c.DedupEnabled
}

// AutoResolve reports whether scheduler arming is enabled.
// Params: none.
// Returns: effective flag (true by default).
func (c EngineConfig) AutoResolve() bool {
	if c.AutoResolveEnabled == nil {
		return trueByDefaultAutoResolve
	}
	return *c.AutoResolveEnabled
}

// IngestConfig defines inbound submission interfaces.
// Params: embedded HTTP and NATS subscription controls.
// Returns: ingestion runtime options.
type IngestConfig struct {
	HTTP HTTPIngestConfig `toml:"http"`
	NATS NATSIngestConfig `toml:"nats"`
}

// HTTPIngestConfig configures HTTP API endpoint.
// Params: enable flag, listen/paths, and optional body size limit.
// Returns: HTTP API behavior.
type HTTPIngestConfig struct {
	Enabled      bool   `toml:"enabled"`
	Listen       string `toml:"listen"`
	HealthPath   string `toml:"health_path"`
	ReadyPath    string `toml:"ready_path"`
	APIPrefix    string `toml:"api_prefix"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// NATSIngestConfig configures JetStream queue-consumer submission intake.
// Params: connection + worker/ack/redelivery policy; routing keys are runtime-fixed.
// Returns: NATS ingest behavior.
type NATSIngestConfig struct {
	Enabled       bool     `toml:"enabled"`
	URL           []string `toml:"url"`
	Subject       string   `toml:"-"`
	Stream        string   `toml:"-"`
	ConsumerName  string   `toml:"-"`
	DeliverGroup  string   `toml:"-"`
	Workers       int      `toml:"workers"`
	AckWaitSec    int      `toml:"ack_wait_sec"`
	NackDelayMS   int      `toml:"nack_delay_ms"`
	MaxDeliver    int      `toml:"max_deliver"`
	MaxAckPending int      `toml:"max_ack_pending"`
}

// EventsConfig defines outbound lifecycle event forwarding.
// Params: NATS forwarder section.
// Returns: event publishing options.
type EventsConfig struct {
	NATS NATSEventsConfig `toml:"nats"`
}

// NATSEventsConfig configures JetStream forwarder for lifecycle events.
// Params: enable flag, URL list, buffer, and retry policy; subjects are runtime-fixed.
// Returns: forwarder behavior.
type NATSEventsConfig struct {
	Enabled       bool     `toml:"enabled"`
	URL           []string `toml:"url"`
	SubjectPrefix string   `toml:"-"`
	Stream        string   `toml:"-"`
	Buffer        int      `toml:"buffer"`
	RetryDelayMS  int      `toml:"retry_delay_ms"`
	MaxAttempts   int      `toml:"max_attempts"`
}

// ConfigSource describes file or directory config source.
// Params: exactly one of file path or directory path.
// Returns: normalized source descriptor.
type ConfigSource struct {
	File string
	Dir  string
}

// FromCLI builds normalized source configuration from input paths.
// Params: optional file and directory arguments.
// Returns: source descriptor or validation error.
func FromCLI(filePath, dirPath string) (ConfigSource, error) {
	filePath = strings.TrimSpace(filePath)
	dirPath = strings.TrimSpace(dirPath)

	if filePath == "" && dirPath == "" {
		return ConfigSource{}, errors.New("either --config-file or --config-dir must be provided")
	}
	if filePath != "" && dirPath != "" {
		return ConfigSource{}, errors.New("config source must be either file or dir")
	}

	if filePath != "" {
		return ConfigSource{File: filePath}, nil
	}
	return ConfigSource{Dir: dirPath}, nil
}

// LoadSnapshot loads and validates configuration from one source.
// Params: source selects file or directory mode.
// Returns: validated config or load/validation error.
func LoadSnapshot(src ConfigSource) (Config, error) {
	var cfg Config
	var err error
	if src.File != "" {
		cfg, err = loadFile(src.File)
	} else {
		cfg, err = loadDir(src.Dir)
	}
	if err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile reads one TOML configuration file.
// Params: file path to config snapshot.
// Returns: decoded config or read/decode error.
func loadFile(path string) (Config, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %q: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(body, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config file %q: %w", path, err)
	}
	return cfg, nil
}

// configMergeHints carries explicit bool-presence markers used for directory overlays.
// Params: sparse fields decoded from one TOML fragment.
// Returns: merge behavior hints for zero-value bool overrides.
type configMergeHints struct {
	Engine engineMergeHints `toml:"engine"`
	Ingest ingestMergeHints `toml:"ingest"`
	Events eventsMergeHints `toml:"events"`
}

// engineMergeHints tracks explicit bool fields in engine section.
// Params: sparse engine values decoded from one TOML fragment.
// Returns: bool-presence markers for merge logic.
type engineMergeHints struct {
	GroupingEnabled *bool `toml:"grouping_enabled"`
}

// ingestMergeHints tracks explicit enabled flags in ingest sections.
// Params: sparse ingest fields decoded from one TOML fragment.
// Returns: bool-presence markers for merge logic.
type ingestMergeHints struct {
	HTTP sectionMergeHints `toml:"http"`
	NATS sectionMergeHints `toml:"nats"`
}

// eventsMergeHints tracks explicit enabled flags in events sections.
// Params: sparse events fields decoded from one TOML fragment.
// Returns: bool-presence markers for merge logic.
type eventsMergeHints struct {
	NATS sectionMergeHints `toml:"nats"`
}

// sectionMergeHints tracks one explicit enabled flag.
// Params: sparse section fields decoded from one TOML fragment.
// Returns: bool-presence marker for merge logic.
type sectionMergeHints struct {
	Enabled *bool `toml:"enabled"`
}

// loadFileForMerge reads one TOML file with merge hints.
// Params: file path to config fragment.
// Returns: decoded config plus explicit-bool hints for overlay merge.
func loadFileForMerge(path string) (Config, configMergeHints, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Config{}, configMergeHints{}, fmt.Errorf("read config file %q: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(body, &cfg); err != nil {
		return Config{}, configMergeHints{}, fmt.Errorf("decode config file %q: %w", path, err)
	}
	var hints configMergeHints
	if err := toml.Unmarshal(body, &hints); err != nil {
		return Config{}, configMergeHints{}, fmt.Errorf("decode merge hints %q: %w", path, err)
	}
	return cfg, hints, nil
}

// loadDir reads and merges TOML files from one directory.
// Params: directory containing config fragments.
// Returns: merged config snapshot or load/decode error.
func loadDir(dir string) (Config, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Config{}, fmt.Errorf("read config dir %q: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) != ".toml" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	if len(files) == 0 {
		return Config{}, fmt.Errorf("no .toml files found in %q", dir)
	}
	sort.Strings(files)

	var merged Config
	for _, file := range files {
		fragment, hints, err := loadFileForMerge(file)
		if err != nil {
			return Config{}, err
		}
		mergeConfig(&merged, fragment, hints)
	}
	return merged, nil
}

// mergeConfig overlays source fragment onto destination.
// Params: destination config, next fragment, and explicit-bool hints.
// Returns: merged configuration side-effect in dst.
func mergeConfig(dst *Config, src Config, hints configMergeHints) {
	if src.Service != (ServiceConfig{}) {
		dst.Service = src.Service
	}
	if src.Log != (LogConfig{}) {
		dst.Log = src.Log
	}

	if src.Engine.DedupEnabled != nil {
		dst.Engine.DedupEnabled = src.Engine.DedupEnabled
	}
	if src.Engine.DedupWindowSec > 0 {
		dst.Engine.DedupWindowSec = src.Engine.DedupWindowSec
	}
	if src.Engine.AutoResolveEnabled != nil {
		dst.Engine.AutoResolveEnabled = src.Engine.AutoResolveEnabled
	}
	if src.Engine.AutoResolveTimeoutSec > 0 {
		dst.Engine.AutoResolveTimeoutSec = src.Engine.AutoResolveTimeoutSec
	}
	if hints.Engine.GroupingEnabled != nil {
		dst.Engine.GroupingEnabled = *hints.Engine.GroupingEnabled
	}
	if src.Engine.GroupingWindowSec > 0 {
		dst.Engine.GroupingWindowSec = src.Engine.GroupingWindowSec
	}
	if src.Engine.MaxAlertsPerRule > 0 {
		dst.Engine.MaxAlertsPerRule = src.Engine.MaxAlertsPerRule
	}

	if hints.Ingest.HTTP.Enabled != nil {
		dst.Ingest.HTTP.Enabled = *hints.Ingest.HTTP.Enabled
	}
	if src.Ingest.HTTP.Listen != "" {
		dst.Ingest.HTTP.Listen = src.Ingest.HTTP.Listen
	}
	if src.Ingest.HTTP.HealthPath != "" {
		dst.Ingest.HTTP.HealthPath = src.Ingest.HTTP.HealthPath
	}
	if src.Ingest.HTTP.ReadyPath != "" {
		dst.Ingest.HTTP.ReadyPath = src.Ingest.HTTP.ReadyPath
	}
	if src.Ingest.HTTP.APIPrefix != "" {
		dst.Ingest.HTTP.APIPrefix = src.Ingest.HTTP.APIPrefix
	}
	if src.Ingest.HTTP.MaxBodyBytes > 0 {
		dst.Ingest.HTTP.MaxBodyBytes = src.Ingest.HTTP.MaxBodyBytes
	}

	if hints.Ingest.NATS.Enabled != nil {
		dst.Ingest.NATS.Enabled = *hints.Ingest.NATS.Enabled
	}
	if len(src.Ingest.NATS.URL) > 0 {
		dst.Ingest.NATS.URL = src.Ingest.NATS.URL
	}
	if src.Ingest.NATS.Workers > 0 {
		dst.Ingest.NATS.Workers = src.Ingest.NATS.Workers
	}
	if src.Ingest.NATS.AckWaitSec > 0 {
		dst.Ingest.NATS.AckWaitSec = src.Ingest.NATS.AckWaitSec
	}
	if src.Ingest.NATS.NackDelayMS > 0 {
		dst.Ingest.NATS.NackDelayMS = src.Ingest.NATS.NackDelayMS
	}
	if src.Ingest.NATS.MaxDeliver != 0 {
		dst.Ingest.NATS.MaxDeliver = src.Ingest.NATS.MaxDeliver
	}
	if src.Ingest.NATS.MaxAckPending > 0 {
		dst.Ingest.NATS.MaxAckPending = src.Ingest.NATS.MaxAckPending
	}

	if hints.Events.NATS.Enabled != nil {
		dst.Events.NATS.Enabled = *hints.Events.NATS.Enabled
	}
	if len(src.Events.NATS.URL) > 0 {
		dst.Events.NATS.URL = src.Events.NATS.URL
	}
	if src.Events.NATS.Buffer > 0 {
		dst.Events.NATS.Buffer = src.Events.NATS.Buffer
	}
	if src.Events.NATS.RetryDelayMS > 0 {
		dst.Events.NATS.RetryDelayMS = src.Events.NATS.RetryDelayMS
	}
	if src.Events.NATS.MaxAttempts > 0 {
		dst.Events.NATS.MaxAttempts = src.Events.NATS.MaxAttempts
	}
}

// applyDefaults fills omitted settings with documented defaults.
// Params: decoded config pointer.
// Returns: config mutated in place.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Service.Name) == "" {
		cfg.Service.Name = "alertcycle"
	}
	cfg.Service.Mode = NormalizeServiceMode(cfg.Service.Mode)
	if cfg.Service.ShutdownGraceSec <= 0 {
		cfg.Service.ShutdownGraceSec = defaultShutdownGraceSec
	}

	if cfg.Log.Console.Level == "" {
		cfg.Log.Console.Level = "info"
	}
	if cfg.Log.Console.Format == "" {
		cfg.Log.Console.Format = "line"
	}
	if cfg.Log.File.Level == "" {
		cfg.Log.File.Level = "info"
	}
	if cfg.Log.File.Format == "" {
		cfg.Log.File.Format = "json"
	}
	if !cfg.Log.Console.Enabled && !cfg.Log.File.Enabled {
		cfg.Log.Console.Enabled = trueByDefaultConsoleEnable
	}

	if cfg.Engine.DedupWindowSec <= 0 {
		cfg.Engine.DedupWindowSec = defaultDedupWindowSec
	}
	if cfg.Engine.AutoResolveTimeoutSec <= 0 {
		cfg.Engine.AutoResolveTimeoutSec = defaultAutoResolveSec
	}
	if cfg.Engine.MaxAlertsPerRule <= 0 {
		cfg.Engine.MaxAlertsPerRule = defaultMaxAlertsPerRule
	}

	if strings.TrimSpace(cfg.Ingest.HTTP.Listen) == "" {
		cfg.Ingest.HTTP.Listen = defaultHTTPListen
	}
	if strings.TrimSpace(cfg.Ingest.HTTP.HealthPath) == "" {
		cfg.Ingest.HTTP.HealthPath = defaultHealthPath
	}
	if strings.TrimSpace(cfg.Ingest.HTTP.ReadyPath) == "" {
		cfg.Ingest.HTTP.ReadyPath = defaultReadyPath
	}
	if strings.TrimSpace(cfg.Ingest.HTTP.APIPrefix) == "" {
		cfg.Ingest.HTTP.APIPrefix = defaultAPIPrefix
	}
	if cfg.Ingest.HTTP.MaxBodyBytes <= 0 {
		cfg.Ingest.HTTP.MaxBodyBytes = defaultMaxBodyBytes
	}

	if cfg.Service.Mode == ServiceModeSingle {
		// Single mode always disables NATS-dependent paths regardless of user flags.
		cfg.Ingest.NATS.Enabled = false
		cfg.Events.NATS.Enabled = false
	} else {
		cfg.Ingest.NATS.URL = normalizeNATSURLs(cfg.Ingest.NATS.URL)
		if len(cfg.Ingest.NATS.URL) == 0 {
			cfg.Ingest.NATS.URL = []string{defaultNATSURL}
		}
		cfg.Ingest.NATS.Subject = defaultSubmissionSubject
		cfg.Ingest.NATS.Stream = defaultSubmissionStream
		cfg.Ingest.NATS.ConsumerName = defaultSubmissionConsumer
		cfg.Ingest.NATS.DeliverGroup = defaultSubmissionDeliverGroup
		if cfg.Ingest.NATS.Workers <= 0 {
			cfg.Ingest.NATS.Workers = defaultNATSWorkers
		}
		if cfg.Ingest.NATS.AckWaitSec <= 0 {
			cfg.Ingest.NATS.AckWaitSec = defaultNATSAckWaitSec
		}
		if cfg.Ingest.NATS.NackDelayMS <= 0 {
			cfg.Ingest.NATS.NackDelayMS = defaultNATSNackDelayMS
		}
		if cfg.Ingest.NATS.MaxDeliver == 0 {
			cfg.Ingest.NATS.MaxDeliver = defaultNATSMaxDeliver
		}
		if cfg.Ingest.NATS.MaxAckPending <= 0 {
			cfg.Ingest.NATS.MaxAckPending = defaultNATSMaxAckPending
		}

		cfg.Events.NATS.URL = normalizeNATSURLs(cfg.Events.NATS.URL)
		if len(cfg.Events.NATS.URL) == 0 {
			cfg.Events.NATS.URL = cfg.Ingest.NATS.URL
		}
		cfg.Events.NATS.SubjectPrefix = defaultEventSubjectPrefix
		cfg.Events.NATS.Stream = defaultEventStream
		if cfg.Events.NATS.Buffer <= 0 {
			cfg.Events.NATS.Buffer = defaultEventBuffer
		}
		if cfg.Events.NATS.RetryDelayMS <= 0 {
			cfg.Events.NATS.RetryDelayMS = defaultEventRetryMS
		}
		if cfg.Events.NATS.MaxAttempts <= 0 {
			cfg.Events.NATS.MaxAttempts = defaultEventMaxAttempts
		}
	}
}

// validateConfig checks loaded configuration invariants.
// Params: config snapshot after defaults.
// Returns: first validation error.
func validateConfig(cfg Config) error {
	mode := NormalizeServiceMode(cfg.Service.Mode)
	if !IsSupportedServiceMode(mode) {
		return fmt.Errorf("service.mode has unsupported value %q", cfg.Service.Mode)
	}
	if cfg.Service.ShutdownGraceSec <= 0 {
		return errors.New("service.shutdown_grace_sec must be >0")
	}

	if err := validateLogSink("console", cfg.Log.Console, false); err != nil {
		return err
	}
	if err := validateLogSink("file", cfg.Log.File, true); err != nil {
		return err
	}

	if cfg.Engine.DedupWindowSec <= 0 {
		return errors.New("engine.dedup_window_sec must be >0")
	}
	if cfg.Engine.AutoResolveTimeoutSec <= 0 {
		return errors.New("engine.auto_resolve_timeout_sec must be >0")
	}
	if cfg.Engine.MaxAlertsPerRule <= 0 {
		return errors.New("engine.max_alerts_per_rule must be >0")
	}
	if cfg.Engine.GroupingWindowSec < 0 {
		return errors.New("engine.grouping_window_sec must be >=0")
	}
	if cfg.Engine.GroupingEnabled && cfg.Engine.GroupingWindowSec == 0 {
		return errors.New("engine.grouping_window_sec must be >0 when engine.grouping_enabled=true")
	}

	if strings.TrimSpace(cfg.Ingest.HTTP.Listen) == "" {
		return errors.New("ingest.http.listen is required")
	}
	if !strings.HasPrefix(cfg.Ingest.HTTP.APIPrefix, "/") {
		return fmt.Errorf("ingest.http.api_prefix %q must start with /", cfg.Ingest.HTTP.APIPrefix)
	}
	if mode == ServiceModeSingle && !cfg.Ingest.HTTP.Enabled {
		return errors.New("ingest.http.enabled must be true when service.mode=single")
	}

	if mode == ServiceModeNATS {
		if err := validateNATSURLs("ingest.nats.url", cfg.Ingest.NATS.URL); err != nil {
			return err
		}
		if cfg.Ingest.NATS.Enabled {
			if cfg.Ingest.NATS.Workers <= 0 {
				return errors.New("ingest.nats.workers must be >0 when ingest.nats.enabled=true")
			}
			if cfg.Ingest.NATS.AckWaitSec <= 0 {
				return errors.New("ingest.nats.ack_wait_sec must be >0 when ingest.nats.enabled=true")
			}
			if cfg.Ingest.NATS.MaxDeliver == 0 || cfg.Ingest.NATS.MaxDeliver < -1 {
				return errors.New("ingest.nats.max_deliver must be -1 or >0")
			}
		}
		if cfg.Events.NATS.Enabled {
			if err := validateNATSURLs("events.nats.url", cfg.Events.NATS.URL); err != nil {
				return err
			}
			if cfg.Events.NATS.Buffer <= 0 {
				return errors.New("events.nats.buffer must be >0")
			}
			if cfg.Events.NATS.MaxAttempts <= 0 {
				return errors.New("events.nats.max_attempts must be >0")
			}
		}
	}
	return nil
}

// validateLogSink checks one logging sink settings.
// Params: sink name, sink config, and file-path requirement flag.
// Returns: validation error for level/format/path.
func validateLogSink(name string, sink LogSinkConfig, requirePath bool) error {
	if !sink.Enabled {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(sink.Level)) {
	case "debug", "info", "warn", "error", "panic":
	default:
		return fmt.Errorf("log.%s.level has unsupported value %q", name, sink.Level)
	}
	switch sink.Format {
	case "line", "json":
	default:
		return fmt.Errorf("log.%s.format has unsupported value %q", name, sink.Format)
	}
	if requirePath && strings.TrimSpace(sink.Path) == "" {
		return fmt.Errorf("log.%s.path is required when sink is enabled", name)
	}
	return nil
}

// validateNATSURLs checks URL list for emptiness and blank entries.
// Params: config path label and URL list.
// Returns: validation error.
func validateNATSURLs(label string, urls []string) error {
	if len(urls) == 0 {
		return fmt.Errorf("%s is required", label)
	}
	for i, url := range urls {
		if strings.TrimSpace(url) == "" {
			return fmt.Errorf("%s[%d] is empty", label, i)
		}
	}
	return nil
}

// normalizeNATSURLs trims and drops empty URL entries.
// Params: raw URL list from config.
// Returns: normalized list.
func normalizeNATSURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		trimmed := strings.TrimSpace(url)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// NormalizeServiceMode canonicalizes service mode value.
// Params: raw mode string.
// Returns: normalized mode, defaulting to nats.
func NormalizeServiceMode(value string) string {
	mode := strings.ToLower(strings.TrimSpace(value))
	if mode == "" {
		return ServiceModeNATS
	}
	return mode
}

// IsSupportedServiceMode reports whether mode value is recognized.
// Params: normalized mode.
// Returns: true for nats/single.
func IsSupportedServiceMode(mode string) bool {
	return mode == ServiceModeNATS || mode == ServiceModeSingle
}
