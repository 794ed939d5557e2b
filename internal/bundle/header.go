package bundle

import (
	"bytes"
	"encoding/binary"
)

// headerProbeSize is how many leading bytes the loader keeps for header sniffing.
const headerProbeSize = 128

// Known bundle container signatures.
var signatures = []string{"UnityFS", "UnityWeb", "UnityRaw", "UnityArchive"}

// Header is the leading container header of a bundle file.
type Header struct {
	Signature     string `json:"signature,omitempty"`
	FormatVersion uint32 `json:"formatVersion,omitempty"`
	PlayerVersion string `json:"playerVersion,omitempty"`
	EngineVersion string `json:"engineVersion,omitempty"`
}

// Known reports whether a recognised container signature was found.
func (h Header) Known() bool {
	return h.Signature != ""
}

// ParseHeader sniffs the container header from the first bytes of a bundle.
// Unrecognised data yields a zero Header; the bundle body stays opaque.
func ParseHeader(b []byte) Header {
	sig, rest, ok := cString(b)
	if !ok || !knownSignature(sig) {
		return Header{}
	}
	if len(rest) < 4 {
		return Header{Signature: sig}
	}

	h := Header{
		Signature:     sig,
		FormatVersion: binary.BigEndian.Uint32(rest[:4]),
	}
	rest = rest[4:]

	if h.PlayerVersion, rest, ok = cString(rest); !ok {
		return h
	}
	h.EngineVersion, _, _ = cString(rest)
	return h
}

func cString(b []byte) (string, []byte, bool) {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return "", b, false
	}
	return string(b[:i]), b[i+1:], true
}

func knownSignature(s string) bool {
	for _, sig := range signatures {
		if s == sig {
			return true
		}
	}
	return false
}
