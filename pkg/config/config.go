// Package config loads and validates the fluid-gen configuration file.
// The configuration is constructed once per run and threaded explicitly
// through every component; there is no mutable process-wide state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Output strategies.
const (
	StrategyMirror   = "mirror"
	StrategyCoLocate = "co-locate"
)

// Environment modes.
const (
	ModeUnified  = "unified"
	ModeSeparate = "separate"
)

// Supported frontend frameworks for proxy integration. Empty means none.
var supportedFrameworks = map[string]bool{
	"sveltekit": true,
	"nextjs":    true,
}

// Config is the complete, immutable configuration for one generation run.
type Config struct {
	// Framework enables proxy/environment integration when set
	// ("sveltekit" or "nextjs").
	Framework string `yaml:"framework"`
	// Target names the environment to build for; must exist in Environments.
	Target string `yaml:"target"`
	// Language selects the registered code generator. Defaults to
	// "typescript".
	Language string `yaml:"language"`

	Output  Output  `yaml:"output"`
	Backend Backend `yaml:"backend"`

	Environments map[string]Environment `yaml:"environments"`

	// Include and Exclude are glob pattern sets restricting auto-discovery
	// scanning, evaluated against paths relative to the scan root.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	AutoDiscovery AutoDiscovery `yaml:"autoDiscovery"`
}

// Output selects artifact placement.
type Output struct {
	// Strategy is "mirror" (shadow tree under Location) or "co-locate"
	// (artifacts next to their source files).
	Strategy string `yaml:"strategy"`
	// Location is the shadow-tree root; the shared runtime module always
	// lives here regardless of strategy.
	Location string `yaml:"location"`
}

// Backend is the address of the live API process.
type Backend struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Environment describes one named build target.
type Environment struct {
	// Mode is "unified" (frontend proxies API calls) or "separate".
	Mode string `yaml:"mode"`
	// APIUrl is the base URL generated clients use in this environment.
	APIUrl string `yaml:"apiUrl"`
}

// AutoDiscovery configures folder-convention route discovery.
type AutoDiscovery struct {
	Enabled bool `yaml:"enabled"`
	// FilePatterns is the ordered list of filename patterns marking a file
	// as a discovery candidate, e.g. "_*.py" or "*.*.py".
	FilePatterns []string `yaml:"filePatterns"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Target:   "development",
		Language: "typescript",
		Output: Output{Strategy: StrategyMirror, Location: ".fluid"},
		Backend: Backend{
			Host: "127.0.0.1",
			Port: 8000,
		},
		Environments: map[string]Environment{
			"development": {Mode: ModeSeparate, APIUrl: "http://127.0.0.1:8000"},
		},
		AutoDiscovery: AutoDiscovery{
			Enabled: true,
			// "*.api" admits the synthesized identities emitted by
			// spec-backed sources such as the OpenAPI adapter.
			FilePatterns: []string{"_*.py", "*.*.py", "*.api"},
		},
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Option: "config", Message: err.Error()}
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &Error{Option: "config", Message: fmt.Sprintf("malformed YAML: %v", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Output.Location stays relative; the planner resolves it against the
	// project root at write time.
	return cfg, nil
}

// Validate checks the invariants the rest of the pipeline relies on.
// It returns a *Error naming the offending option.
func (c *Config) Validate() error {
	if c.Framework != "" && !supportedFrameworks[c.Framework] {
		return &Error{Option: "framework", Value: c.Framework, Message: "unsupported framework"}
	}
	switch c.Output.Strategy {
	case StrategyMirror, StrategyCoLocate:
	case "":
		return &Error{Option: "output.strategy", Message: "required"}
	default:
		return &Error{Option: "output.strategy", Value: c.Output.Strategy, Message: `must be "mirror" or "co-locate"`}
	}
	if c.Output.Location == "" {
		return &Error{Option: "output.location", Message: "required"}
	}
	if c.Target == "" {
		return &Error{Option: "target", Message: "required"}
	}
	if c.Language == "" {
		return &Error{Option: "language", Message: "required"}
	}
	env, ok := c.Environments[c.Target]
	if !ok {
		return &Error{Option: "target", Value: c.Target, Message: "no such environment"}
	}
	if env.Mode != ModeUnified && env.Mode != ModeSeparate {
		return &Error{Option: "environments." + c.Target + ".mode", Value: env.Mode, Message: `must be "unified" or "separate"`}
	}
	if env.APIUrl == "" {
		return &Error{Option: "environments." + c.Target + ".apiUrl", Message: "required"}
	}
	if env.Mode == ModeUnified && c.Framework == "" {
		return &Error{Option: "framework", Message: "required when the target environment mode is unified"}
	}
	if c.AutoDiscovery.Enabled && len(c.AutoDiscovery.FilePatterns) == 0 {
		return &Error{Option: "autoDiscovery.filePatterns", Message: "required when autoDiscovery is enabled"}
	}
	return nil
}

// TargetEnv returns the environment named by Target. Validate guarantees it
// exists.
func (c *Config) TargetEnv() Environment {
	return c.Environments[c.Target]
}

// Error is a fatal configuration error; it aborts the run before any IR
// work begins.
type Error struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("fluid-gen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("fluid-gen: config error for %q: %s", e.Option, e.Message)
}
