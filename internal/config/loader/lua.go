package loader

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// luaGlobal is the global table a Lua config must assign its settings to.
const luaGlobal = "dockgen"

// decodeLua executes a declarative Lua config in a sandboxed VM and
// extracts the global "dockgen" table as a nested map.
func decodeLua(data []byte) (map[string]any, error) {
	L := newSandboxedVM()
	defer L.Close()

	if err := L.DoString(string(data)); err != nil {
		return nil, fmt.Errorf("lua: %w", err)
	}

	root := L.GetGlobal(luaGlobal)
	table, ok := root.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("lua: missing or invalid %q table (got %s)", luaGlobal, root.Type())
	}

	tree, ok := luaToTree(table).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("lua: %q table must be map-shaped, not array-shaped", luaGlobal)
	}
	return tree, nil
}

// newSandboxedVM creates a Lua VM with unsafe facilities removed.
// Configs are declarative: no process, filesystem, or module access.
// The string, table, and math libraries remain available.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()

	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)
	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)
	L.SetGlobal("debug", lua.LNil)

	return L
}

// luaToTree converts a Lua value into a plain Go tree. Tables with
// consecutive integer keys starting at 1 become sequences; all other
// tables become string-keyed maps.
func luaToTree(v lua.LValue) any {
	switch val := v.(type) {
	case *lua.LTable:
		if n := val.Len(); n > 0 && tableIsArray(val, n) {
			seq := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				seq = append(seq, luaToTree(val.RawGetInt(i)))
			}
			return seq
		}
		m := make(map[string]any)
		val.ForEach(func(k, item lua.LValue) {
			m[k.String()] = luaToTree(item)
		})
		return m
	case lua.LNumber:
		return float64(val)
	case lua.LBool:
		return bool(val)
	case lua.LString:
		return string(val)
	default:
		return nil
	}
}

// tableIsArray reports whether a table holds exactly the integer keys
// 1..n and nothing else.
func tableIsArray(t *lua.LTable, n int) bool {
	count := 0
	isArray := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		num, ok := k.(lua.LNumber)
		if !ok || float64(num) != float64(int(num)) || int(num) < 1 || int(num) > n {
			isArray = false
		}
	})
	return isArray && count == n
}
