package layer

// Standard priority levels for configuration layers.
// Higher values override lower values during merging.
const (
	// PriorityBuiltin is the lowest priority, for compiled-in defaults.
	PriorityBuiltin = 0

	// PriorityFile is for the decoded configuration file.
	PriorityFile = 100

	// PriorityEnv is for environment variable overrides.
	PriorityEnv = 200

	// PriorityOverride is the highest priority, for explicit
	// call-time overrides.
	PriorityOverride = 300
)

// DefaultPriority returns the default priority for a given source.
func DefaultPriority(source Source) int {
	switch source {
	case SourceBuiltin:
		return PriorityBuiltin
	case SourceFile:
		return PriorityFile
	case SourceEnv:
		return PriorityEnv
	case SourceOverride:
		return PriorityOverride
	default:
		return PriorityBuiltin
	}
}
