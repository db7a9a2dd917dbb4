package generator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/blimu-dev/fluid-gen/pkg/config"
	"github.com/blimu-dev/fluid-gen/pkg/ir"
)

// Language renders the language specific artifacts for a plan. Languages
// are registered by name and looked up from configuration.
type Language interface {
	// Name returns the registry key, e.g. "typescript".
	Name() string

	// FileExtension returns the extension for generated client files,
	// without the leading dot, e.g. "ts".
	FileExtension() string

	// RenderUnit renders one route-group client file. The unit carries the
	// route group plus every model it transitively references.
	RenderUnit(ctx context.Context, project *ir.Project, unit *Unit, cfg *config.Config) ([]byte, error)

	// RenderRuntime renders the shared runtime module emitted exactly once
	// per generation run.
	RenderRuntime(ctx context.Context, cfg *config.Config) ([]byte, error)

	// RenderProxy renders framework proxy artifacts for unified mode.
	// Languages that have no proxy concept return nil.
	RenderProxy(ctx context.Context, cfg *config.Config) ([]ProxyFile, error)
}

// ProxyFile is a framework specific artifact with a fixed location.
type ProxyFile struct {
	Path    string
	Content []byte
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Language)
)

// Register makes a language available by its Name. It panics on duplicate
// registration, which indicates a programming error.
func Register(lang Language) {
	registryMu.Lock()
	defer registryMu.Unlock()
	name := lang.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("generator: language %q registered twice", name))
	}
	registry[name] = lang
}

// Lookup returns the language registered under name.
func Lookup(name string) (Language, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	lang, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("generator: unknown language %q (available: %v)", name, registeredNamesLocked())
	}
	return lang, nil
}

// RegisteredNames returns the sorted names of all registered languages.
func RegisteredNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registeredNamesLocked()
}

func registeredNamesLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
