package model

import "fmt"

// EncryptionAlgorithm identifies the cipher an /Encrypt dictionary declares
// (7.6). This core only identifies the algorithm; deriving a key and
// attempting the empty-user-password unlock requires RC4/AES primitives
// that live in a separate subsystem, so an encrypted stream always surfaces
// as an Unsupported error rather than garbage bytes.
type EncryptionAlgorithm int

const (
	EncryptionNone EncryptionAlgorithm = iota
	EncryptionRC440
	EncryptionRC4128
	EncryptionAES128
	EncryptionAES256
	EncryptionUnknown
)

func (a EncryptionAlgorithm) String() string {
	switch a {
	case EncryptionNone:
		return "none"
	case EncryptionRC440:
		return "RC4-40"
	case EncryptionRC4128:
		return "RC4-128"
	case EncryptionAES128:
		return "AES-128"
	case EncryptionAES256:
		return "AES-256"
	default:
		return "unknown"
	}
}

// EncryptionInfo is the identification-only surface over an /Encrypt
// dictionary: enough to report why a document's streams can't be decoded,
// without this core carrying cipher implementations.
type EncryptionInfo struct {
	Filter    Name // normally "Standard"
	V         int  // algorithm version, /V
	R         int  // revision, /R
	Algorithm EncryptionAlgorithm
	KeyBits   int
}

// ParseEncryptionInfo identifies the algorithm of a resolved /Encrypt
// dictionary. It never attempts to derive a decryption key.
func ParseEncryptionInfo(r Resolver, d Dict) (EncryptionInfo, error) {
	var info EncryptionInfo
	if v, ok := d.Get("Filter"); ok {
		if n, ok, err := NameAt(r, v); err != nil {
			return info, err
		} else if ok {
			info.Filter = n
		}
	}
	if v, ok := d.Get("V"); ok {
		if n, ok, err := IntAt(r, v); err != nil {
			return info, err
		} else if ok {
			info.V = int(n)
		}
	}
	if v, ok := d.Get("R"); ok {
		if n, ok, err := IntAt(r, v); err != nil {
			return info, err
		} else if ok {
			info.R = int(n)
		}
	}
	if v, ok := d.Get("Length"); ok {
		if n, ok, err := IntAt(r, v); err != nil {
			return info, err
		} else if ok {
			info.KeyBits = int(n)
		}
	}

	switch {
	case info.V <= 1:
		info.Algorithm = EncryptionRC440
		info.KeyBits = 40
	case info.V == 2:
		info.Algorithm = EncryptionRC4128
		if info.KeyBits == 0 {
			info.KeyBits = 40
		}
	case info.V == 4:
		info.Algorithm = algorithmFromCryptFilter(r, d, EncryptionRC4128)
	case info.V == 5:
		info.Algorithm = EncryptionAES256
		info.KeyBits = 256
	default:
		info.Algorithm = EncryptionUnknown
	}
	return info, nil
}

// algorithmFromCryptFilter inspects /CF's default /StdCF sub-filter, which
// a /V 4 encryption dictionary uses to pick between RC4 and AES-128
// (7.6.5). Falls back to fallback if the crypt filter dictionary is
// missing or unrecognized.
func algorithmFromCryptFilter(r Resolver, d Dict, fallback EncryptionAlgorithm) EncryptionAlgorithm {
	cf, ok := d.Get("CF")
	if !ok {
		return fallback
	}
	cfDict, isDict, err := DictAt(r, cf)
	if err != nil || !isDict {
		return fallback
	}
	stdCF, ok := cfDict.Get("StdCF")
	if !ok {
		return fallback
	}
	stdCFDict, isDict, err := DictAt(r, stdCF)
	if err != nil || !isDict {
		return fallback
	}
	cfm, ok := stdCFDict.Get("CFM")
	if !ok {
		return fallback
	}
	name, ok, err := NameAt(r, cfm)
	if err != nil || !ok {
		return fallback
	}
	switch name {
	case "AESV2":
		return EncryptionAES128
	case "AESV3":
		return EncryptionAES256
	case "V2":
		return EncryptionRC4128
	default:
		return fallback
	}
}

// ErrEncrypted reports that a stream or string could not be decoded
// because the document is encrypted with an algorithm this core doesn't
// implement, letting callers distinguish "encrypted, unsupported" from a
// genuine parse failure.
func ErrEncrypted(info EncryptionInfo) error {
	return fmt.Errorf("document is encrypted with %s: decryption is not supported by this core", info.Algorithm)
}
