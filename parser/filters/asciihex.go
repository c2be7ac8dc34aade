package filters

import "fmt"

// decodeASCIIHex decodes pairs of hex digits, ignoring whitespace, stopping
// at the '>' EOD marker (or end of input in tolerant producers that forget
// it). An odd trailing digit is padded with a trailing '0' nibble.
func decodeASCIIHex(encoded []byte) ([]byte, error) {
	var out []byte
	hi, haveHi := byte(0), false
	for _, c := range encoded {
		if c == '>' {
			break
		}
		switch {
		case c == 0, c == 9, c == 10, c == 12, c == 13, c == 32:
			continue
		case c >= '0' && c <= '9':
			c -= '0'
		case c >= 'a' && c <= 'f':
			c = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			c = c - 'A' + 10
		default:
			return nil, fmt.Errorf("ASCIIHexDecode: invalid character %q", c)
		}
		if !haveHi {
			hi, haveHi = c, true
			continue
		}
		out = append(out, hi<<4|c)
		haveHi = false
	}
	if haveHi {
		out = append(out, hi<<4)
	}
	return out, nil
}

func encodeASCIIHex(raw []byte) []byte {
	const digits = "0123456789ABCDEF"
	out := make([]byte, 0, len(raw)*2+1)
	for _, b := range raw {
		out = append(out, digits[b>>4], digits[b&0xf])
	}
	out = append(out, '>')
	return out
}
