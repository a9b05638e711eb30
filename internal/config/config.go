package config

import (
	"os"
	"sync"

	"github.com/dockgen/dockgen/internal/config/layer"
	"github.com/dockgen/dockgen/internal/config/loader"
	"github.com/dockgen/dockgen/internal/schema"
)

const (
	// EnvPrefix marks environment variables that feed the environment
	// layer. The variable name after the prefix is the root-level field
	// it sets, lowercased.
	EnvPrefix = "DOCKGEN_"

	// FileEnvVar names the configuration file when no path is given on
	// the command line. It never enters the environment layer itself.
	FileEnvVar = EnvPrefix + "CFG_FILE"
)

// Layer names used by the resolver.
const (
	layerDefaults = "defaults"
	layerFile     = "file"
	layerEnv      = "env"
	layerOverride = "override"
)

// Resolver assembles the configuration from its layered sources and
// produces validated Dockerfile entities. The zero set of sources is
// usable: built-in defaults are always present, and the environment
// layer is captured at construction time.
type Resolver struct {
	mu sync.Mutex

	layers *layer.Manager
	fs     loader.FileSystem

	// environ overrides the process environment, for tests.
	environ []string

	// filePath is the path of the currently loaded file layer.
	filePath string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithFileSystem sets the filesystem used to read configuration files.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(r *Resolver) {
		r.fs = fsys
	}
}

// WithEnviron replaces the process environment for the environment
// layer and for FileEnvVar lookup.
func WithEnviron(environ []string) Option {
	return func(r *Resolver) {
		r.environ = environ
	}
}

// New creates a Resolver seeded with the built-in defaults and the
// current environment.
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		layers: layer.NewManager(),
		fs:     loader.DefaultFS(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.layers.AddLayer(layer.NewLayer(layerDefaults, layer.SourceBuiltin, layer.DefaultPriority(layer.SourceBuiltin), schema.Defaults()))

	env, err := loader.NewEnvLoaderWithEnviron(EnvPrefix, r.environ).Load()
	if err != nil {
		return nil, err
	}
	if len(env) > 0 {
		r.layers.AddLayer(layer.NewLayer(layerEnv, layer.SourceEnv, layer.DefaultPriority(layer.SourceEnv), env))
	}

	return r, nil
}

// ConfigPath picks the configuration file path: an explicit path wins,
// otherwise FileEnvVar from the environment. ErrNoConfigFile is
// returned when neither is set.
func (r *Resolver) ConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if p := r.getenv(FileEnvVar); p != "" {
		return p, nil
	}
	return "", ErrNoConfigFile
}

// LoadFile reads and decodes a configuration file into the file layer,
// replacing any previously loaded file. Failures are reported as a
// *LoadError wrapping the underlying cause.
func (r *Resolver) LoadFile(path string) error {
	tree, err := loader.LoadFile(r.fs, path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.layers.RemoveLayer(layerFile)
	r.layers.AddLayer(layer.NewLayer(layerFile, layer.SourceFile, layer.DefaultPriority(layer.SourceFile), tree))
	r.filePath = path
	return nil
}

// Reload re-reads the configuration file loaded by LoadFile.
func (r *Resolver) Reload() error {
	r.mu.Lock()
	path := r.filePath
	r.mu.Unlock()

	if path == "" {
		return ErrNoFileLayer
	}
	return r.LoadFile(path)
}

// FilePath returns the path of the loaded configuration file, or the
// empty string when only in-memory layers are present.
func (r *Resolver) FilePath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filePath
}

// SetOverrides installs a tree as the override layer, replacing any
// previous overrides. The tree is normalized so that values from any
// caller look like decoded file values.
func (r *Resolver) SetOverrides(tree map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.layers.RemoveLayer(layerOverride)
	if len(tree) == 0 {
		return
	}
	norm, _ := loader.Normalize(tree).(map[string]any)
	r.layers.AddLayer(layer.NewLayer(layerOverride, layer.SourceOverride, layer.DefaultPriority(layer.SourceOverride), norm))
}

// Tree returns the merged configuration tree across all layers.
// Callers own the result; the manager's cached merge stays private.
func (r *Resolver) Tree() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return layer.Merge(r.layers.Merge(), nil)
}

// Resolve merges all layers, applies the given call-time overrides on
// top without installing them, and validates the result into a
// Dockerfile entity.
func (r *Resolver) Resolve(overrides map[string]any) (*schema.Dockerfile, error) {
	tree := r.Tree()
	if len(overrides) > 0 {
		norm, _ := loader.Normalize(overrides).(map[string]any)
		tree = layer.Merge(tree, norm)
	}
	return schema.FromTree(tree)
}

func (r *Resolver) getenv(name string) string {
	if r.environ == nil {
		return os.Getenv(name)
	}
	prefix := name + "="
	for _, kv := range r.environ {
		if len(kv) > len(prefix) && kv[:len(prefix)] == prefix {
			return kv[len(prefix):]
		}
	}
	return ""
}
