// Package keymapfile loads key binding declarations from TOML, YAML, or Lua
// files and applies them to a binder.
//
// A keymap file is a flat list of bindings, each naming a chord, an action,
// and optionally a group:
//
//	[[bindings]]
//	chord = "\\C-x\\C-e"
//	action = "editor.openExternal"
//
//	[[bindings]]
//	group = "vi"
//	chord = "dd"
//	action = "line.delete"
//
// Action names resolve to (backend, id) pairs through an ActionRegistry the
// host populates before loading. Groups named by bindings are created on
// demand.
package keymapfile

import (
	"errors"
	"fmt"

	"github.com/dshills/keybind/internal/binder"
)

// Binding is one declaration from a keymap file.
type Binding struct {
	// Group names the keymap group. Empty means the default group.
	Group string `toml:"group" yaml:"group"`

	// Chord is the key sequence in chord notation, e.g. "^A" or "\\M-x".
	Chord string `toml:"chord" yaml:"chord"`

	// Action names the registered action this chord triggers.
	Action string `toml:"action" yaml:"action"`
}

// File is a parsed keymap file.
type File struct {
	Bindings []Binding `toml:"bindings" yaml:"bindings"`
}

// Action pairs a backend with the command id it interprets.
type Action struct {
	Backend binder.Backend
	ID      uint8
}

type actionKey struct {
	backend binder.Backend
	id      uint8
}

// ActionRegistry maps the action names used in keymap files to (backend, id)
// pairs, and back again for diagnostics.
type ActionRegistry struct {
	actions map[string]Action
	names   map[actionKey]string
}

// NewActionRegistry creates an empty registry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{
		actions: make(map[string]Action),
		names:   make(map[actionKey]string),
	}
}

// Register adds a named action. Registering the same name twice is an error.
func (r *ActionRegistry) Register(name string, backend binder.Backend, id uint8) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrActionRegistered)
	}
	if _, exists := r.actions[name]; exists {
		return fmt.Errorf("%w: %s", ErrActionRegistered, name)
	}
	r.actions[name] = Action{Backend: backend, ID: id}
	r.names[actionKey{backend: backend, id: id}] = name
	return nil
}

// Lookup resolves an action name.
func (r *ActionRegistry) Lookup(name string) (Action, bool) {
	action, ok := r.actions[name]
	return action, ok
}

// Name reverses a (backend, id) pair to its registered action name.
func (r *ActionRegistry) Name(backend binder.Backend, id uint8) (string, bool) {
	name, ok := r.names[actionKey{backend: backend, id: id}]
	return name, ok
}

// Apply registers every binding in f against b, creating named groups on
// demand. Bad bindings are skipped and collected into the returned error so
// one broken line does not abandon the rest of the file.
func Apply(f *File, b *binder.Binder, reg *ActionRegistry) error {
	var errs []error

	for i, decl := range f.Bindings {
		action, ok := reg.Lookup(decl.Action)
		if !ok {
			errs = append(errs, fmt.Errorf("binding %d (%s): %w: %q", i, decl.Chord, ErrUnknownAction, decl.Action))
			continue
		}

		group := binder.DefaultGroup
		if decl.Group != "" {
			group = b.Group(decl.Group)
			if group < 0 {
				group = b.CreateGroup(decl.Group)
			}
			if group < 0 {
				errs = append(errs, fmt.Errorf("binding %d (%s): %w: cannot create group %q", i, decl.Chord, ErrBindFailed, decl.Group))
				continue
			}
		}

		if !b.Bind(group, decl.Chord, action.Backend, action.ID) {
			errs = append(errs, fmt.Errorf("binding %d (%s): %w", i, decl.Chord, ErrBindFailed))
		}
	}

	return errors.Join(errs...)
}
