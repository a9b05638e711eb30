package schema

import "sort"

// Tree reduces the validated entity to a plain data tree for the
// renderer: only maps, sequences, and scalars, with enums resolved to
// their string values. Every target in the result carries a consistent
// image/repository/tag triple.
func (d *Dockerfile) Tree() map[string]any {
	return map[string]any{
		"package":      d.Package,
		"readme_ext":   string(d.ReadmeExt),
		"scripts_path": d.ScriptsPath,
		"request":      d.Request,
		"args":         argTree(d.Args),
		"spacing": map[string]any{
			"n":      d.Spacing.N,
			"nn":     d.Spacing.NN,
			"header": d.Spacing.Header,
			"z":      d.Spacing.Z,
			"t":      d.Spacing.T,
			"footer": d.Spacing.Footer,
		},
		"dev": map[string]any{
			"repository":     d.Dev.Repository,
			"tag":            d.Dev.Tag,
			"image":          d.Dev.Image,
			"env":            envTree(d.Dev.Env),
			"args":           argTree(d.Dev.Args),
			"reqs":           reqsTree(d.Dev.Reqs),
			"poetry_extras":  stringSeq(d.Dev.PoetryExtras),
			"poetry_version": d.Dev.PoetryVersion,
		},
		"prod": map[string]any{
			"repository":        d.Prod.Repository,
			"tag":               d.Prod.Tag,
			"image":             d.Prod.Image,
			"env":               envTree(d.Prod.Env),
			"args":              argTree(d.Prod.Args),
			"reqs":              reqsTree(d.Prod.Reqs),
			"entrypoint_script": d.Prod.EntrypointScript,
			"cmd":               d.Prod.Cmd,
		},
	}
}

func envTree(env map[string]string) map[string]any {
	if env == nil {
		return nil
	}
	out := make(map[string]any, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}

func argTree(args map[string]*string) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		if v == nil {
			out[k] = nil
		} else {
			out[k] = *v
		}
	}
	return out
}

func reqsTree(reqs []ReqGroup) []any {
	if reqs == nil {
		return nil
	}
	out := make([]any, len(reqs))
	for i, group := range reqs {
		steps := make([]any, len(group))
		for j, step := range group {
			steps[j] = map[string]any{
				"command": step.Command,
				"args":    stringSeq(step.Args),
			}
		}
		out[i] = steps
	}
	return out
}

func stringSeq(in []string) []any {
	if in == nil {
		return nil
	}
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// sortedKeys returns a map's keys in sorted order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
