// Package config resolves the dockgen configuration from its layered
// sources and produces the validated Dockerfile entity.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Call-time Overrides     │  ← Highest priority (-set flags)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← DOCKGEN_* variables
//	├─────────────────────────────┤
//	│  2. Configuration File      │  ← JSON, TOML, YAML, or Lua
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Maps merge recursively across layers; sequences and scalars from a
// higher layer replace the lower value wholesale. The merged tree is
// then shape-checked and reconciled by the schema package.
//
// # Sub-packages
//
//   - layer: Priority-ordered layers and the deep-merge engine
//   - loader: File decoding (JSON, TOML, YAML, Lua) and environment scanning
//   - watcher: File watching for regenerate-on-change
package config
