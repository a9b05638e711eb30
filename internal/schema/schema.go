// Package schema defines the typed Dockerfile settings entities and
// the validation that converts a merged configuration tree into them.
//
// The dynamic tree (nested map[string]any) and the static entity graph
// are deliberately distinct: merging happens only on trees, validation
// happens exactly once, as a total conversion pass, and the resulting
// entities are immutable.
package schema

import "strings"

// Fallbacks applied when the merged tree leaves a field unset. These
// are the same literals the compiled-in defaults tree carries.
const (
	// FallbackImage is used when a target specifies neither an image
	// nor a repository/tag pair.
	FallbackImage = "python:3.9-alpine"

	// DefaultPoetryVersion pins the poetry installer in the dev stage.
	DefaultPoetryVersion = "1.1.4"

	// DefaultScriptsPath is where helper scripts are stored. It should
	// be on $PATH inside the image.
	DefaultScriptsPath = "/usr/local/sbin"

	// DefaultRequest is the command template used to download files.
	DefaultRequest = "/usr/bin/curl -L -o"
)

// ReadmeExt is the README file extension variant.
type ReadmeExt string

const (
	// ReadmeRST is a reStructuredText README.
	ReadmeRST ReadmeExt = ".rst"
	// ReadmeMD is a Markdown README.
	ReadmeMD ReadmeExt = ".md"
)

// ReqStep is one installer invocation: a command and its arguments.
type ReqStep struct {
	// Command is the installer command (e.g., "apk add --no-cache").
	Command string

	// Args are the packages or arguments handed to the command.
	Args []string
}

// ReqGroup is an ordered group of installer steps rendered as a single
// build instruction.
type ReqGroup []ReqStep

// Target holds the configuration shared by both build stages.
type Target struct {
	// Repository is the image registry path (e.g., "python").
	Repository string

	// Tag is the image version tag (e.g., "3.9-alpine").
	Tag string

	// Image is the composite "repository:tag" reference. It is always
	// consistent with Repository and Tag after validation.
	Image string

	// Env maps environment variable names to values.
	Env map[string]string

	// Args maps build argument names to optional default values.
	// A nil value means the argument has no default.
	Args map[string]*string

	// Reqs are the grouped installation steps, in order.
	Reqs []ReqGroup
}

// Dev is the development stage configuration.
type Dev struct {
	Target

	// PoetryExtras are the poetry extras (groups) included when
	// installing the package.
	PoetryExtras []string

	// PoetryVersion pins the poetry installer version.
	PoetryVersion string
}

// Prod is the production stage configuration.
type Prod struct {
	Target

	// EntrypointScript is the ENTRYPOINT script for the image.
	EntrypointScript string

	// Cmd is the CMD for the image.
	Cmd string
}

// Spacing holds the literal layout constants used by the renderer.
type Spacing struct {
	N      string
	NN     string
	Header string
	Z      string
	T      string
	Footer string
}

// DefaultSpacing returns the standard layout constants.
func DefaultSpacing() Spacing {
	rule := strings.Repeat("#", 80)
	return Spacing{
		N:      "\n",
		NN:     "\n\n",
		Header: "# Made with <3 using dockgen. Check it out at git.io/dockgen",
		Z:      "",
		T:      "\n\n" + rule + "\n\n",
		Footer: "",
	}
}

// Dockerfile is the root settings entity, constructed once per run
// from the merged configuration tree and immutable thereafter.
type Dockerfile struct {
	// Package is the subject package name. Required.
	Package string

	// ReadmeExt selects the README file suffix.
	ReadmeExt ReadmeExt

	// ScriptsPath is where helper scripts are stored in the image.
	ScriptsPath string

	// Args maps root-level build argument names to optional defaults.
	Args map[string]*string

	// Dev is the development stage.
	Dev Dev

	// Prod is the production stage.
	Prod Prod

	// Request is the command template used to download files.
	Request string

	// Spacing holds the renderer layout constants.
	Spacing Spacing
}

// Defaults returns the compiled-in default configuration tree, the
// lowest-precedence layer of the resolver.
func Defaults() map[string]any {
	sp := DefaultSpacing()
	return map[string]any{
		"readme_ext":   string(ReadmeRST),
		"scripts_path": DefaultScriptsPath,
		"request":      DefaultRequest,
		"spacing": map[string]any{
			"n":      sp.N,
			"nn":     sp.NN,
			"header": sp.Header,
			"z":      sp.Z,
			"t":      sp.T,
			"footer": sp.Footer,
		},
		"dev": map[string]any{
			"poetry_version": DefaultPoetryVersion,
		},
		"prod": map[string]any{},
	}
}
