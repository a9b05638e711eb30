package render

import (
	"fmt"
	"sort"
	"strings"
)

// cmdInstruction formats a CMD instruction from a scalar or sequence.
// Empty input yields no instruction.
func cmdInstruction(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		if val == "" {
			return "", nil
		}
		return fmt.Sprintf("CMD [%q]", val), nil
	case []any:
		if len(val) == 0 {
			return "", nil
		}
		parts := make([]string, 0, len(val))
		for _, part := range val {
			s, ok := part.(string)
			if !ok {
				return "", fmt.Errorf("cmd element must be a string, got %T", part)
			}
			parts = append(parts, fmt.Sprintf("%q", s))
		}
		return "CMD [" + strings.Join(parts, ", ") + "]", nil
	default:
		return "", fmt.Errorf("cmd must be a string or sequence, got %T", v)
	}
}

// runInstructions formats the install groups as RUN instructions, one
// per group, chaining the group's steps with && continuations:
//
//	RUN apk add --no-cache \
//	        musl-dev \
//	        curl \
//	    && git clone \
//	        https://a-dependency.git
func runInstructions(v any) (string, error) {
	groups, ok := v.([]any)
	if !ok {
		if v == nil {
			return "", nil
		}
		return "", fmt.Errorf("install groups must be a sequence, got %T", v)
	}

	instructions := make([]string, 0, len(groups))
	for _, group := range groups {
		steps, ok := group.([]any)
		if !ok {
			return "", fmt.Errorf("install group must be a sequence of steps, got %T", group)
		}

		var b strings.Builder
		for i, step := range steps {
			m, ok := step.(map[string]any)
			if !ok {
				return "", fmt.Errorf("install step must be a mapping, got %T", step)
			}
			command, _ := m["command"].(string)
			if command == "" {
				return "", fmt.Errorf("install step has no command")
			}

			if i == 0 {
				b.WriteString("RUN " + command)
			} else {
				b.WriteString(" \\\n    && " + command)
			}
			if args, ok := m["args"].([]any); ok {
				for _, arg := range args {
					b.WriteString(fmt.Sprintf(" \\\n        %v", arg))
				}
			}
		}
		instructions = append(instructions, b.String())
	}
	return strings.Join(instructions, "\n"), nil
}

// envInstruction formats an ENV instruction from a name → value
// mapping, names in sorted order. Empty input yields no instruction.
func envInstruction(v any) (string, error) {
	m, ok := v.(map[string]any)
	if !ok {
		if v == nil {
			return "", nil
		}
		return "", fmt.Errorf("env must be a mapping, got %T", v)
	}
	if len(m) == 0 {
		return "", nil
	}

	pairs := make([]string, 0, len(m))
	for _, name := range sortedKeys(m) {
		pairs = append(pairs, fmt.Sprintf("%s=%v", name, m[name]))
	}
	return "ENV " + strings.Join(pairs, " "), nil
}

// argInstructions formats ARG instructions from a name → optional
// default mapping, names in sorted order. A null default declares the
// argument without a value.
func argInstructions(v any) (string, error) {
	m, ok := v.(map[string]any)
	if !ok {
		if v == nil {
			return "", nil
		}
		return "", fmt.Errorf("args must be a mapping, got %T", v)
	}

	lines := make([]string, 0, len(m))
	for _, name := range sortedKeys(m) {
		if val := m[name]; val != nil {
			lines = append(lines, fmt.Sprintf("ARG %s=%v", name, val))
		} else {
			lines = append(lines, "ARG "+name)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// extrasFlags formats the extras sequence as install flags: -E db -E cli.
func extrasFlags(v any) (string, error) {
	seq, ok := v.([]any)
	if !ok {
		if v == nil {
			return "", nil
		}
		return "", fmt.Errorf("extras must be a sequence, got %T", v)
	}

	flags := make([]string, 0, len(seq))
	for _, extra := range seq {
		flags = append(flags, fmt.Sprintf("-E %v", extra))
	}
	return strings.Join(flags, " "), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
