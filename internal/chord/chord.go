// Package chord translates human-readable chord specifications into the raw
// byte sequences a terminal delivers.
//
// A chord names one or more key presses as a single string, using the
// readline-compatible escapes found in existing key binding files:
//
//   - "^X"      ctrl-X, encoded as X & 0x1F
//   - "\C-X"    ctrl-X, same encoding
//   - "\M-X"    meta/alt-X, encoded as ESC followed by X
//   - "\e[t"    ESC [ t (a raw escape sequence, aka CSI t)
//   - "\t" "\n" "\r" "\0"  tab, newline, carriage return, NUL
//   - "\Z"      any other escaped character stands for itself
//   - "abc"     unescaped characters stand for themselves
//
// The escapes compose: "\M-\C-x" is ESC followed by ctrl-x. A lone trailing
// backslash (or a trailing "^" with nothing after it) ends translation early
// and is not an error.
package chord

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the translation buffer size used by Translate. It bounds
// the translated output at DefaultCapacity-1 bytes, matching the fixed buffer
// historically used for chord translation.
const DefaultCapacity = 64

// Errors returned by chord translation.
var (
	// ErrMalformedChord indicates a "\C" or "\M" escape without its "-".
	ErrMalformedChord = errors.New("malformed chord escape")

	// ErrChordTooLong indicates the translated chord exceeds the buffer capacity.
	ErrChordTooLong = errors.New("chord too long")

	// ErrNonASCII indicates the raw chord string contains a byte >= 0x80.
	ErrNonASCII = errors.New("chord contains non-ASCII byte")
)

// Valid reports whether every byte of the raw chord string is 7-bit ASCII.
// Chord strings address single terminal input bytes, so multi-byte encodings
// are rejected before translation.
func Valid(spec string) error {
	for i := 0; i < len(spec); i++ {
		if spec[i] >= 0x80 {
			return fmt.Errorf("%w: 0x%02x at offset %d", ErrNonASCII, spec[i], i)
		}
	}
	return nil
}

// Translate converts a chord specification into raw key bytes using the
// default buffer capacity.
func Translate(spec string) ([]byte, error) {
	return TranslateMax(spec, DefaultCapacity)
}

// TranslateMax converts a chord specification into raw key bytes, failing
// with ErrChordTooLong once the output would exceed capacity-1 bytes.
func TranslateMax(spec string, capacity int) ([]byte, error) {
	out := make([]byte, 0, capacity)

	emit := func(b byte) error {
		if len(out) >= capacity-1 {
			return fmt.Errorf("%w: exceeds %d bytes", ErrChordTooLong, capacity-1)
		}
		out = append(out, b)
		return nil
	}

	for i := 0; i < len(spec); i++ {
		c := spec[i]

		if c != '\\' && c != '^' {
			if err := emit(c); err != nil {
				return nil, err
			}
			continue
		}

		if c == '^' {
			i++
			if i == len(spec) {
				// Trailing caret, nothing to control-encode.
				return out, nil
			}
			if err := emit(spec[i] & 0x1f); err != nil {
				return nil, err
			}
			continue
		}

		// Backslash escape.
		i++
		if i == len(spec) {
			// Trailing lone backslash ends translation early.
			return out, nil
		}

		switch spec[i] {
		case 'M':
			if i+1 == len(spec) || spec[i+1] != '-' {
				return nil, fmt.Errorf("%w: \\M without -", ErrMalformedChord)
			}
			i++ // consume '-'; the following char translates on its own
			if err := emit(0x1b); err != nil {
				return nil, err
			}

		case 'C':
			if i+1 == len(spec) || spec[i+1] != '-' {
				return nil, fmt.Errorf("%w: \\C without -", ErrMalformedChord)
			}
			i += 2
			if i == len(spec) {
				return out, nil
			}
			if err := emit(spec[i] & 0x1f); err != nil {
				return nil, err
			}

		case 'e':
			if err := emit(0x1b); err != nil {
				return nil, err
			}
		case 't':
			if err := emit('\t'); err != nil {
				return nil, err
			}
		case 'n':
			if err := emit('\n'); err != nil {
				return nil, err
			}
		case 'r':
			if err := emit('\r'); err != nil {
				return nil, err
			}
		case '0':
			if err := emit(0); err != nil {
				return nil, err
			}
		default:
			if err := emit(spec[i]); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}
