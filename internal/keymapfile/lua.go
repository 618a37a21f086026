package keymapfile

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// LoadLua runs a Lua keymap script and collects its bindings. The script
// either returns an array of {group=..., chord=..., action=...} tables or
// assigns one to a global named "bindings":
//
//	return {
//	    { chord = "^A",     action = "cursor.home" },
//	    { chord = [[\M-x]], action = "palette.open", group = "emacs" },
//	}
func LoadLua(script []byte) (*File, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(string(script)); err != nil {
		return nil, fmt.Errorf("keymap script: %w", err)
	}

	value := L.Get(-1)
	if value == lua.LNil {
		value = L.GetGlobal("bindings")
	}

	table, ok := value.(*lua.LTable)
	if !ok {
		return nil, ErrBadScript
	}

	f := &File{}
	var convErr error
	table.ForEach(func(_, v lua.LValue) {
		if convErr != nil {
			return
		}
		entry, ok := v.(*lua.LTable)
		if !ok {
			convErr = fmt.Errorf("%w: entry is %s, not a table", ErrBadScript, v.Type())
			return
		}
		f.Bindings = append(f.Bindings, Binding{
			Group:  luaString(entry, "group"),
			Chord:  luaString(entry, "chord"),
			Action: luaString(entry, "action"),
		})
	})
	if convErr != nil {
		return nil, convErr
	}

	return f, nil
}

// luaString reads a string field from a table, empty when absent.
func luaString(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}
