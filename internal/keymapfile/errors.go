package keymapfile

import "errors"

// Errors returned by keymap file loading.
var (
	// ErrUnknownFormat indicates a keymap file extension with no loader.
	ErrUnknownFormat = errors.New("unknown keymap file format")

	// ErrUnknownAction indicates a binding names an unregistered action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrActionRegistered indicates a duplicate action registration.
	ErrActionRegistered = errors.New("action already registered")

	// ErrBindFailed indicates the binder rejected a binding, typically a
	// malformed chord or an exhausted arena.
	ErrBindFailed = errors.New("bind failed")

	// ErrBadScript indicates a Lua keymap script produced no bindings table.
	ErrBadScript = errors.New("keymap script must return a bindings table")
)
