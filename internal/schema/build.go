package schema

import (
	"fmt"
	"strconv"
)

// FromTree converts a merged configuration tree into a validated
// Dockerfile entity. Every field is shape-checked against the schema;
// failures are collected and reported together, one entry per failing
// field. Keys the schema does not know are ignored.
//
// Image reconciliation for each target runs only after the tree passes
// field validation, and its failures are returned individually as an
// *ImageConsistencyError.
func FromTree(tree map[string]any) (*Dockerfile, error) {
	b := &builder{errs: &ValidationErrors{}}

	d := &Dockerfile{
		ReadmeExt:   ReadmeRST,
		ScriptsPath: DefaultScriptsPath,
		Request:     DefaultRequest,
		Spacing:     DefaultSpacing(),
	}

	if v, ok := tree["package"]; ok {
		d.Package = b.str("package", v)
	} else {
		b.errs.Add("package", "required field is missing")
	}

	if v, ok := tree["readme_ext"]; ok {
		d.ReadmeExt = b.readmeExt("readme_ext", v)
	}
	if v, ok := tree["scripts_path"]; ok {
		d.ScriptsPath = b.str("scripts_path", v)
	}
	if v, ok := tree["request"]; ok {
		d.Request = b.str("request", v)
	}
	if v, ok := tree["args"]; ok {
		d.Args = b.argMap("args", v)
	}
	if v, ok := tree["spacing"]; ok {
		d.Spacing = b.spacing("spacing", v)
	}

	d.Dev = b.dev("dev", tree["dev"])
	d.Prod = b.prod("prod", tree["prod"])

	if err := b.errs.AsError(); err != nil {
		return nil, err
	}

	// Cross-field reconciliation, using already-validated values.
	if err := reconcileImage("dev.image", &d.Dev.Target); err != nil {
		return nil, err
	}
	if err := reconcileImage("prod.image", &d.Prod.Target); err != nil {
		return nil, err
	}

	return d, nil
}

// builder accumulates validation errors while walking the tree.
// Accessors return the zero value on failure so the walk can continue
// and report every problem at once.
type builder struct {
	errs *ValidationErrors
}

// str coerces a scalar to a string. Numbers and booleans coerce
// losslessly (the dynamic sources cannot always tell "3.9" from 3.9);
// maps and sequences do not.
func (b *builder) str(path string, v any) string {
	s, ok := coerceString(v)
	if !ok {
		b.errs.AddWithValue(path, fmt.Sprintf("expected string, got %s", typeName(v)), v)
		return ""
	}
	return s
}

// optStr is like str but treats nil as absent.
func (b *builder) optStr(path string, v any) string {
	if v == nil {
		return ""
	}
	return b.str(path, v)
}

// readmeExt coerces a README extension value to its enum variant.
func (b *builder) readmeExt(path string, v any) ReadmeExt {
	s, ok := coerceString(v)
	if !ok {
		b.errs.AddWithValue(path, fmt.Sprintf("expected string, got %s", typeName(v)), v)
		return ReadmeRST
	}
	switch s {
	case ".rst", "rst", "RST":
		return ReadmeRST
	case ".md", "md", "MD":
		return ReadmeMD
	default:
		b.errs.AddWithValue(path, fmt.Sprintf("value %q is not one of allowed values: [.rst .md]", s), v)
		return ReadmeRST
	}
}

// objMap asserts that a value is map-shaped. nil is treated as an
// absent, empty map.
func (b *builder) objMap(path string, v any) map[string]any {
	if v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		b.errs.AddWithValue(path, fmt.Sprintf("expected mapping, got %s", typeName(v)), v)
		return nil
	}
	return m
}

// stringMap converts a tree value into a name → value string mapping.
func (b *builder) stringMap(path string, v any) map[string]string {
	m := b.objMap(path, v)
	if m == nil {
		return nil
	}

	out := make(map[string]string, len(m))
	for name, item := range m {
		s, ok := coerceString(item)
		if !ok {
			b.errs.AddWithValue(path+"."+name, fmt.Sprintf("expected string, got %s", typeName(item)), item)
			continue
		}
		out[name] = s
	}
	return out
}

// argMap converts a tree value into a name → optional value mapping.
// A null value means the argument is declared without a default.
func (b *builder) argMap(path string, v any) map[string]*string {
	m := b.objMap(path, v)
	if m == nil {
		return nil
	}

	out := make(map[string]*string, len(m))
	for name, item := range m {
		if item == nil {
			out[name] = nil
			continue
		}
		s, ok := coerceString(item)
		if !ok {
			b.errs.AddWithValue(path+"."+name, fmt.Sprintf("expected string or null, got %s", typeName(item)), item)
			continue
		}
		out[name] = &s
	}
	return out
}

// stringSlice converts a tree value into a string sequence.
func (b *builder) stringSlice(path string, v any) []string {
	if v == nil {
		return nil
	}
	seq, ok := v.([]any)
	if !ok {
		b.errs.AddWithValue(path, fmt.Sprintf("expected sequence, got %s", typeName(v)), v)
		return nil
	}

	out := make([]string, 0, len(seq))
	for i, item := range seq {
		s, ok := coerceString(item)
		if !ok {
			b.errs.AddWithValue(fmt.Sprintf("%s[%d]", path, i), fmt.Sprintf("expected string, got %s", typeName(item)), item)
			continue
		}
		out = append(out, s)
	}
	return out
}

// reqs converts a tree value into the ordered installation groups.
// Each sequence element is a mapping from installer command to its
// argument sequence. Commands within one element are ordered by name;
// elements that must run in a fixed order belong in separate groups.
func (b *builder) reqs(path string, v any) []ReqGroup {
	if v == nil {
		return nil
	}
	seq, ok := v.([]any)
	if !ok {
		b.errs.AddWithValue(path, fmt.Sprintf("expected sequence, got %s", typeName(v)), v)
		return nil
	}

	out := make([]ReqGroup, 0, len(seq))
	for i, item := range seq {
		groupPath := fmt.Sprintf("%s[%d]", path, i)
		m, ok := item.(map[string]any)
		if !ok {
			b.errs.AddWithValue(groupPath, fmt.Sprintf("expected mapping, got %s", typeName(item)), item)
			continue
		}

		group := make(ReqGroup, 0, len(m))
		for _, command := range sortedKeys(m) {
			args := b.stringSlice(groupPath+"."+command, m[command])
			group = append(group, ReqStep{Command: command, Args: args})
		}
		out = append(out, group)
	}
	return out
}

// target parses the fields shared by both stages.
func (b *builder) target(path string, v any) Target {
	t := Target{}
	m := b.objMap(path, v)
	if m == nil {
		return t
	}

	t.Repository = b.optStr(path+".repository", m["repository"])
	t.Tag = b.optStr(path+".tag", m["tag"])
	t.Image = b.optStr(path+".image", m["image"])
	t.Env = b.stringMap(path+".env", m["env"])
	t.Args = b.argMap(path+".args", m["args"])
	t.Reqs = b.reqs(path+".reqs", m["reqs"])
	return t
}

// dev parses the development stage.
func (b *builder) dev(path string, v any) Dev {
	d := Dev{
		Target:        b.target(path, v),
		PoetryVersion: DefaultPoetryVersion,
	}
	if m, ok := v.(map[string]any); ok {
		d.PoetryExtras = b.stringSlice(path+".poetry_extras", m["poetry_extras"])
		if pv, ok := m["poetry_version"]; ok {
			d.PoetryVersion = b.str(path+".poetry_version", pv)
		}
	}
	return d
}

// prod parses the production stage.
func (b *builder) prod(path string, v any) Prod {
	p := Prod{Target: b.target(path, v)}
	if m, ok := v.(map[string]any); ok {
		p.EntrypointScript = b.optStr(path+".entrypoint_script", m["entrypoint_script"])
		p.Cmd = b.optStr(path+".cmd", m["cmd"])
	}
	return p
}

// spacing parses the layout constants, keeping defaults for any
// literal the tree does not override.
func (b *builder) spacing(path string, v any) Spacing {
	sp := DefaultSpacing()
	m := b.objMap(path, v)
	if m == nil {
		return sp
	}

	if s, ok := m["n"]; ok {
		sp.N = b.str(path+".n", s)
	}
	if s, ok := m["nn"]; ok {
		sp.NN = b.str(path+".nn", s)
	}
	if s, ok := m["header"]; ok {
		sp.Header = b.str(path+".header", s)
	}
	if s, ok := m["z"]; ok {
		sp.Z = b.str(path+".z", s)
	}
	if s, ok := m["t"]; ok {
		sp.T = b.str(path+".t", s)
	}
	if s, ok := m["footer"]; ok {
		sp.Footer = b.str(path+".footer", s)
	}
	return sp
}

// coerceString converts a scalar to its string form. Only string,
// number, and boolean scalars coerce.
func coerceString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// typeName returns a friendly type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "sequence"
	case map[string]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}
