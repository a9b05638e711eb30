// Package main is the entry point for the dockgen build-file generator.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dockgen/dockgen/internal/config"
	"github.com/dockgen/dockgen/internal/config/layer"
	"github.com/dockgen/dockgen/internal/config/loader"
	"github.com/dockgen/dockgen/internal/config/watcher"
	"github.com/dockgen/dockgen/internal/render"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	outputPath string
	watch      bool
	overrides  []string
}

func run() int {
	opts := parseFlags()

	if err := validateOptions(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	resolver, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read environment: %v\n", err)
		return 1
	}

	if tree, err := overrideTree(opts.overrides); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	} else if len(tree) > 0 {
		resolver.SetOverrides(tree)
	}

	// The config file is optional: the environment plus defaults can
	// carry a complete configuration on their own.
	path, err := resolver.ConfigPath(opts.configPath)
	if err == nil {
		if err := resolver.LoadFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	} else if !errors.Is(err, config.ErrNoConfigFile) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	renderer, err := render.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := generate(resolver, renderer, opts.outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.watch {
		if resolver.FilePath() == "" {
			fmt.Fprintln(os.Stderr, "Error: -watch requires a configuration file")
			return 2
		}
		return watchLoop(resolver, renderer, opts.outputPath)
	}

	return 0
}

// validateOptions rejects flag combinations that cannot work together.
func validateOptions(opts options) error {
	if opts.watch && opts.outputPath == "" {
		return errors.New("-watch requires -o: regenerating to standard output would concatenate build files")
	}
	return nil
}

// generate resolves the layered configuration, renders it, and writes
// the result to the output path, or to standard output when none is
// given.
func generate(resolver *config.Resolver, renderer *render.Renderer, outputPath string) error {
	dockerfile, err := resolver.Resolve(nil)
	if err != nil {
		return err
	}

	text, err := renderer.Render(dockerfile.Tree())
	if err != nil {
		return err
	}

	if outputPath == "" {
		fmt.Print(text)
		return nil
	}
	return os.WriteFile(outputPath, []byte(text), 0o644)
}

// watchLoop regenerates the output whenever the configuration file
// changes, until interrupted. A broken intermediate state (mid-edit
// syntax error, failing validation) is reported and skipped rather
// than fatal.
func watchLoop(resolver *config.Resolver, renderer *render.Renderer, outputPath string) int {
	w, err := watcher.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer w.Close()

	w.OnChange(func(path string) {
		if err := resolver.Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			return
		}
		if err := generate(resolver, renderer, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			return
		}
		fmt.Fprintf(os.Stderr, "Regenerated from %s\n", path)
	})

	if err := w.Start(resolver.FilePath()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "Watching %s\n", resolver.FilePath())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	return 0
}

// overrideTree turns repeated -set key=value flags into an override
// tree. Keys are dot paths into the configuration; values that parse
// as JSON set nested structures, anything else is a plain string.
func overrideTree(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	tree := make(map[string]any)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid -set %q (want key=value)", pair)
		}
		layer.SetPath(tree, key, loader.ParseValue(value))
	}
	return tree, nil
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func parseFlags() options {
	var opts options
	var overrides stringList
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.outputPath, "o", "", "Write output to a file instead of standard output")
	flag.BoolVar(&opts.watch, "watch", false, "Regenerate whenever the configuration file changes")
	flag.Var(&overrides, "set", "Override a configuration value as key=value (repeatable, dot paths allowed)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "dockgen - multi-stage build-file generator\n\n")
		fmt.Fprintf(os.Stderr, "Usage: dockgen [options] [config-file]\n\n")
		fmt.Fprintf(os.Stderr, "The config file may be JSON, TOML, YAML, or Lua. When no path is\n")
		fmt.Fprintf(os.Stderr, "given, %s names it; with neither, the configuration\n", config.FileEnvVar)
		fmt.Fprintf(os.Stderr, "comes from %s* variables and built-in defaults alone.\n\n", config.EnvPrefix)
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  dockgen dockgen.toml                    Print the build file\n")
		fmt.Fprintf(os.Stderr, "  dockgen -o Dockerfile dockgen.toml      Write it to Dockerfile\n")
		fmt.Fprintf(os.Stderr, "  dockgen -set dev.tag=3.10-slim cfg.toml Override one value\n")
		fmt.Fprintf(os.Stderr, "  dockgen -watch -o Dockerfile cfg.yaml   Regenerate on change\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("dockgen %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.overrides = overrides

	args := flag.Args()
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Error: at most one config file, got %d\n", len(args))
		flag.Usage()
		os.Exit(2)
	}
	if len(args) == 1 {
		opts.configPath = args[0]
	}

	return opts
}
