// Package main is a small interactive harness for the keybind core. It loads
// an optional keymap file, puts the terminal into raw mode, and prints the
// action each typed chord resolves to.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dshills/keybind/internal/binder"
	"github.com/dshills/keybind/internal/keymapfile"
	"github.com/dshills/keybind/internal/resolver"
)

// echoBackend is the single demo backend; chords resolve to action names
// that are simply printed.
type echoBackend struct {
	name string
}

func (b *echoBackend) Name() string { return b.name }

func main() {
	os.Exit(run())
}

func run() int {
	keymapPath := flag.String("keymap", "", "keymap file to load (.toml, .yaml, .lua)")
	groupName := flag.String("group", "", "resolve against this keymap group")
	capacity := flag.Int("capacity", binder.DefaultCapacity, "binder arena capacity")
	flag.Parse()

	b := binder.NewWithCapacity(*capacity)
	reg := keymapfile.NewActionRegistry()
	editor := &echoBackend{name: "editor"}
	nextID := uint8(0)

	// Built-in bindings so the harness is usable without a keymap file.
	defaults := []struct {
		name  string
		chord string
	}{
		{"cursor.home", "^A"},
		{"cursor.end", "^E"},
		{"palette.open", `\M-x`},
		{"line.openExternal", `\C-x\C-e`},
	}
	for _, d := range defaults {
		if err := reg.Register(d.name, editor, nextID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if !b.Bind(binder.DefaultGroup, d.chord, editor, nextID) {
			fmt.Fprintf(os.Stderr, "Error: cannot bind %s\n", d.chord)
			return 1
		}
		nextID++
	}

	if *keymapPath != "" {
		f, err := keymapfile.Load(*keymapPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

		// Give every action named in the file an id on the echo backend.
		for _, decl := range f.Bindings {
			if _, ok := reg.Lookup(decl.Action); ok {
				continue
			}
			if nextID == 255 {
				fmt.Fprintln(os.Stderr, "Error: too many actions")
				return 1
			}
			if err := reg.Register(decl.Action, editor, nextID); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
			nextID++
		}

		// Bad lines are reported and skipped; the rest of the file loads.
		if err := keymapfile.Apply(f, b, reg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	r := resolver.New(b)
	if *groupName != "" {
		root := b.Group(*groupName)
		if root < 0 {
			fmt.Fprintf(os.Stderr, "Error: no keymap group %q\n", *groupName)
			return 1
		}
		r.SetGroup(root)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot enter raw mode: %v\n", err)
		return 1
	}
	defer term.Restore(fd, oldState)

	fmt.Print("type chords; ctrl-c or ctrl-d quits\r\n")

	buf := make([]byte, 1)
	var pending []byte
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			break
		}
		key := buf[0]
		if key == 0x03 || key == 0x04 {
			break
		}

		pending = append(pending, key)
		switch r.Feed(key) {
		case resolver.Matched, resolver.MatchedPrefix:
			// The harness takes the shortest match rather than waiting
			// out longer candidates.
			bound, _ := r.Binding()
			name, ok := reg.Name(bound.Backend, bound.ID)
			if !ok {
				name = fmt.Sprintf("%s#%d", bound.Backend.Name(), bound.ID)
			}
			fmt.Printf("%s -> %s\r\n", printable(pending), name)
			r.Reset()
			pending = pending[:0]

		case resolver.NoMatch:
			fmt.Printf("%s -> (unbound)\r\n", printable(pending))
			r.Reset()
			pending = pending[:0]

		case resolver.Pending:
		}
	}

	return 0
}

// printable renders raw key bytes back into chord-style notation.
func printable(keys []byte) string {
	var sb strings.Builder
	for _, k := range keys {
		switch {
		case k == 0x1b:
			sb.WriteString(`\e`)
		case k < 0x20:
			sb.WriteByte('^')
			sb.WriteByte(k + '@')
		case k == 0x7f:
			sb.WriteString("^?")
		default:
			sb.WriteByte(k)
		}
	}
	return sb.String()
}
