package imf

import (
	"errors"
	"fmt"

	"github.com/scott-wilson/go-imf/internal/xdr"
)

// MagicNumber is the first four bytes of every OpenEXR file,
// little-endian.
const MagicNumber int32 = 20000630

// Version field flag bits. The low byte carries the format version;
// the flags describe how the rest of the file is laid out.
const (
	versionNumberMask  = 0x000000ff
	versionTiledBit    = 0x00000200
	versionLongNames   = 0x00000400
	versionNonImageBit = 0x00000800
	versionMultiPart   = 0x00001000
)

// CurrentVersion is the format version this package produces.
const CurrentVersion = 2

// File-level errors
var (
	ErrBadMagic           = errors.New("imf: not an OpenEXR file")
	ErrUnsupportedVersion = errors.New("imf: unsupported file version")
)

// VersionField is the 32-bit word following the magic number. It
// determines whether the file holds one scanline part, one tiled
// part, or a sequence of parts, before any header is parsed.
type VersionField int32

// Number returns the format version number.
func (v VersionField) Number() int {
	return int(v & versionNumberMask)
}

// IsTiled returns true if the single-part file is tiled.
func (v VersionField) IsTiled() bool {
	return v&versionTiledBit != 0
}

// HasLongNames returns true if attribute and channel names may exceed
// 31 bytes.
func (v VersionField) HasLongNames() bool {
	return v&versionLongNames != 0
}

// IsDeep returns true if the file contains deep data.
func (v VersionField) IsDeep() bool {
	return v&versionNonImageBit != 0
}

// IsMultiPart returns true if the file holds multiple parts.
func (v VersionField) IsMultiPart() bool {
	return v&versionMultiPart != 0
}

// DecodeHeaders parses the magic number, version field, and header
// block(s) at the start of an OpenEXR file. Multi-part files carry a
// sequence of headers terminated by an empty header; single-part
// files carry exactly one.
//
// Pixel chunk offsets and chunk data following the headers are not
// consumed.
func DecodeHeaders(data []byte) (VersionField, []*Header, error) {
	r := xdr.NewReader(data)

	magic, err := r.ReadInt32()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if magic != MagicNumber {
		return 0, nil, ErrBadMagic
	}

	raw, err := r.ReadInt32()
	if err != nil {
		return 0, nil, err
	}
	version := VersionField(raw)
	if version.Number() > CurrentVersion {
		return version, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version.Number())
	}

	if !version.IsMultiPart() {
		h, err := ReadHeaderFrom(r)
		if err != nil {
			return version, nil, err
		}
		return version, []*Header{h}, nil
	}

	var headers []*Header
	for {
		if b, err := r.Peek(); err != nil {
			return version, nil, err
		} else if b == 0 {
			// Empty header terminates the sequence.
			r.Skip(1)
			break
		}
		h, err := ReadHeaderFrom(r)
		if err != nil {
			return version, nil, err
		}
		headers = append(headers, h)
	}
	if len(headers) == 0 {
		return version, nil, fmt.Errorf("%w: multi-part file with no headers", ErrInvalidHeader)
	}
	return version, headers, nil
}

// EncodeHeaders serializes the magic number, version field, and the
// given header block(s). With more than one header the multi-part bit
// is forced on and the sequence is terminated by an empty header.
func EncodeHeaders(version VersionField, headers []*Header) ([]byte, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no headers to encode", ErrInvalidHeader)
	}
	if len(headers) > 1 {
		version |= versionMultiPart
	}

	w := xdr.NewBufferWriter(4096)
	w.WriteInt32(MagicNumber)
	w.WriteInt32(int32(version))
	for _, h := range headers {
		if err := h.WriteHeaderTo(w); err != nil {
			return nil, err
		}
	}
	if version.IsMultiPart() {
		w.WriteByte(0)
	}
	return w.Bytes(), nil
}
