package keymapfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/keybind/internal/binder"
	"github.com/dshills/keybind/internal/resolver"
)

type testBackend struct {
	name string
}

func (b *testBackend) Name() string { return b.name }

const tomlKeymap = `
[[bindings]]
chord = "^A"
action = "cursor.home"

[[bindings]]
chord = '\M-x'
action = "palette.open"

[[bindings]]
group = "vi"
chord = "dd"
action = "line.delete"
`

const yamlKeymap = `
bindings:
  - chord: "^A"
    action: cursor.home
  - chord: '\M-x'
    action: palette.open
  - group: vi
    chord: dd
    action: line.delete
`

const luaKeymap = `
return {
    { chord = "^A",      action = "cursor.home" },
    { chord = [[\M-x]],  action = "palette.open" },
    { chord = "dd",      action = "line.delete", group = "vi" },
}
`

func wantBindings(t *testing.T, f *File) {
	t.Helper()

	want := []Binding{
		{Chord: "^A", Action: "cursor.home"},
		{Chord: `\M-x`, Action: "palette.open"},
		{Group: "vi", Chord: "dd", Action: "line.delete"},
	}

	if len(f.Bindings) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(f.Bindings), len(want))
	}
	for i, b := range f.Bindings {
		if b != want[i] {
			t.Errorf("binding %d = %+v, want %+v", i, b, want[i])
		}
	}
}

func TestLoadTOML(t *testing.T) {
	f, err := LoadTOML([]byte(tomlKeymap))
	if err != nil {
		t.Fatalf("LoadTOML error = %v", err)
	}
	wantBindings(t, f)
}

func TestLoadYAML(t *testing.T) {
	f, err := LoadYAML([]byte(yamlKeymap))
	if err != nil {
		t.Fatalf("LoadYAML error = %v", err)
	}
	wantBindings(t, f)
}

func TestLoadLua(t *testing.T) {
	f, err := LoadLua([]byte(luaKeymap))
	if err != nil {
		t.Fatalf("LoadLua error = %v", err)
	}
	wantBindings(t, f)
}

func TestLoadLuaGlobal(t *testing.T) {
	script := `bindings = { { chord = "q", action = "app.quit" } }`
	f, err := LoadLua([]byte(script))
	if err != nil {
		t.Fatalf("LoadLua error = %v", err)
	}
	if len(f.Bindings) != 1 || f.Bindings[0].Action != "app.quit" {
		t.Errorf("bindings = %+v, want one app.quit", f.Bindings)
	}
}

func TestLoadLuaBadScript(t *testing.T) {
	if _, err := LoadLua([]byte(`return 42`)); !errors.Is(err, ErrBadScript) {
		t.Errorf("LoadLua(return 42) error = %v, want ErrBadScript", err)
	}
	if _, err := LoadLua([]byte(`return { "not a table" }`)); !errors.Is(err, ErrBadScript) {
		t.Errorf("LoadLua(string entry) error = %v, want ErrBadScript", err)
	}
	if _, err := LoadLua([]byte(`this is not lua`)); err == nil {
		t.Error("LoadLua(syntax error) succeeded")
	}
}

func TestLoadDispatch(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "keymap.toml")
	if err := os.WriteFile(path, []byte(tomlKeymap), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load(toml) error = %v", err)
	}
	wantBindings(t, f)

	bad := filepath.Join(dir, "keymap.conf")
	if err := os.WriteFile(bad, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load(.conf) error = %v, want ErrUnknownFormat", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load(missing) succeeded")
	}
}

func TestActionRegistry(t *testing.T) {
	reg := NewActionRegistry()
	backend := &testBackend{name: "edit"}

	if err := reg.Register("cursor.home", backend, 1); err != nil {
		t.Fatalf("Register error = %v", err)
	}
	if err := reg.Register("cursor.home", backend, 2); !errors.Is(err, ErrActionRegistered) {
		t.Errorf("duplicate Register error = %v, want ErrActionRegistered", err)
	}

	action, ok := reg.Lookup("cursor.home")
	if !ok || action.ID != 1 || action.Backend != binder.Backend(backend) {
		t.Errorf("Lookup = %+v ok=%v, want id 1", action, ok)
	}

	name, ok := reg.Name(backend, 1)
	if !ok || name != "cursor.home" {
		t.Errorf("Name = %q ok=%v, want cursor.home", name, ok)
	}
	if _, ok := reg.Name(backend, 99); ok {
		t.Error("Name for unregistered id reported ok")
	}
}

func TestApply(t *testing.T) {
	f, err := LoadTOML([]byte(tomlKeymap))
	if err != nil {
		t.Fatal(err)
	}

	b := binder.New()
	backend := &testBackend{name: "edit"}
	reg := NewActionRegistry()
	for id, name := range []string{"cursor.home", "palette.open", "line.delete"} {
		if err := reg.Register(name, backend, uint8(id)); err != nil {
			t.Fatal(err)
		}
	}

	if err := Apply(f, b, reg); err != nil {
		t.Fatalf("Apply error = %v", err)
	}

	// ^A resolves in the default group.
	r := resolver.New(b)
	if got := r.Feed(0x01); got != resolver.Matched {
		t.Fatalf("Feed(^A) = %v, want Matched", got)
	}
	bound, _ := r.Binding()
	if name, _ := reg.Name(bound.Backend, bound.ID); name != "cursor.home" {
		t.Errorf("^A resolved to %q, want cursor.home", name)
	}

	// dd resolves only in the vi group, created on demand.
	viRoot := b.Group("vi")
	if viRoot < 0 {
		t.Fatal("vi group was not created")
	}
	r.SetGroup(viRoot)
	if r.Feed('d') == resolver.NoMatch {
		t.Fatal("Feed(d) in vi group = NoMatch")
	}
	if got := r.Feed('d'); got != resolver.Matched {
		t.Fatalf("Feed(dd) = %v, want Matched", got)
	}
}

func TestApplyCollectsErrors(t *testing.T) {
	f := &File{Bindings: []Binding{
		{Chord: "a", Action: "known"},
		{Chord: "b", Action: "unknown"},
		{Chord: `\Cx`, Action: "known"},
		{Chord: "c", Action: "known"},
	}}

	b := binder.New()
	reg := NewActionRegistry()
	if err := reg.Register("known", &testBackend{name: "edit"}, 1); err != nil {
		t.Fatal(err)
	}

	err := Apply(f, b, reg)
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Apply error = %v, want ErrUnknownAction in chain", err)
	}
	if !errors.Is(err, ErrBindFailed) {
		t.Errorf("Apply error = %v, want ErrBindFailed in chain", err)
	}

	// Good bindings before and after the bad ones still land.
	r := resolver.New(b)
	if got := r.Feed('a'); got != resolver.Matched {
		t.Errorf("Feed(a) = %v, want Matched", got)
	}
	r.Reset()
	if got := r.Feed('c'); got != resolver.Matched {
		t.Errorf("Feed(c) = %v, want Matched", got)
	}
}
