package main

import (
	"unicode/utf8"

	"github.com/GriffinCanCode/termfolio/backend/internal/domain/shell"
)

const esc = 0x1b

var arrows = map[byte]string{
	'A': shell.KeyArrowUp,
	'B': shell.KeyArrowDown,
	'C': shell.KeyArrowRight,
	'D': shell.KeyArrowLeft,
}

// decodeKeys turns raw TTY input into keystrokes. An incomplete UTF-8
// sequence at the end of buf is returned in rest for the next read.
func decodeKeys(buf []byte) (keys []shell.Key, rest []byte) {
	for i := 0; i < len(buf); {
		b := buf[i]
		switch {
		case b == '\r' || b == '\n':
			keys = append(keys, shell.Key{Key: "\r", Name: shell.KeyEnter})
			i++
		case b == 0x7f || b == 0x08:
			keys = append(keys, shell.Key{Key: string(rune(b)), Name: shell.KeyBackspace})
			i++
		case b == '\t':
			keys = append(keys, shell.Key{Key: "\t", Name: shell.KeyTab})
			i++
		case b == esc:
			key, n := decodeEscape(buf[i:])
			if key.Name != "" {
				keys = append(keys, key)
			}
			i += n
		case b >= 0x01 && b <= 0x1a:
			// Ctrl-A through Ctrl-Z
			letter := string(rune('a' + b - 1))
			keys = append(keys, shell.Key{Key: string(rune(b)), Name: letter, Ctrl: true})
			i++
		case b < 0x20:
			i++
		default:
			if !utf8.FullRune(buf[i:]) {
				return keys, buf[i:]
			}
			r, size := utf8.DecodeRune(buf[i:])
			if r != utf8.RuneError {
				keys = append(keys, shell.Key{Key: string(r), Name: string(r)})
			}
			i += size
		}
	}
	return keys, nil
}

// decodeEscape reads one escape sequence from the start of buf. Unknown
// CSI sequences are consumed and yield no key.
func decodeEscape(buf []byte) (shell.Key, int) {
	if len(buf) < 2 || (buf[1] != '[' && buf[1] != 'O') {
		return shell.Key{Key: "\x1b", Name: "Escape"}, 1
	}
	for n := 2; n < len(buf); n++ {
		final := buf[n]
		if final < 0x40 || final > 0x7e {
			continue
		}
		if name, ok := arrows[final]; ok && n == 2 {
			return shell.Key{Key: string(buf[:n+1]), Name: name}, n + 1
		}
		return shell.Key{}, n + 1
	}
	return shell.Key{}, len(buf)
}
