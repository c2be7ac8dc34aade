package filters

import (
	"bytes"
	"fmt"
)

// decodeASCII85 decodes base-85 data terminated by "~>", with the 'z'
// shorthand for a run of four zero bytes (7.4.3).
func decodeASCII85(encoded []byte) ([]byte, error) {
	// strip an optional terminator and any leading/trailing whitespace
	// producers sometimes add around it
	data := bytes.TrimSpace(encoded)
	data = bytes.TrimSuffix(data, []byte("~>"))

	var out []byte
	var group [5]byte
	n := 0
	for _, c := range data {
		switch {
		case c == 0, c == 9, c == 10, c == 12, c == 13, c == 32:
			continue
		case c == 'z' && n == 0:
			out = append(out, 0, 0, 0, 0)
			continue
		case c < '!' || c > 'u':
			return nil, fmt.Errorf("ASCII85Decode: invalid character %q", c)
		}
		group[n] = c - '!'
		n++
		if n == 5 {
			out = append(out, decode85Group(group, 4)...)
			n = 0
		}
	}
	if n > 0 {
		// pad the partial group with 'u' (84) as required by the spec,
		// then keep only n-1 decoded bytes
		for i := n; i < 5; i++ {
			group[i] = 84
		}
		out = append(out, decode85Group(group, n-1)...)
	}
	return out, nil
}

func decode85Group(group [5]byte, keep int) []byte {
	var v uint32
	for _, g := range group {
		v = v*85 + uint32(g)
	}
	b := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	return b[:keep]
}

// encodeASCII85 is the writer-side counterpart, emitting the 'z' shorthand
// for all-zero groups and the "~>" terminator.
func encodeASCII85(raw []byte) []byte {
	var out []byte
	for i := 0; i < len(raw); i += 4 {
		chunk := raw[i:min(i+4, len(raw))]
		var buf [4]byte
		copy(buf[:], chunk)
		v := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
		if len(chunk) == 4 && v == 0 {
			out = append(out, 'z')
			continue
		}
		var group [5]byte
		for j := 4; j >= 0; j-- {
			group[j] = byte('!' + v%85)
			v /= 85
		}
		out = append(out, group[:len(chunk)+1]...)
	}
	out = append(out, '~', '>')
	return out
}
