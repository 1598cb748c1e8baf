package imf

import (
	"errors"
	"fmt"

	"github.com/scott-wilson/go-imf/internal/xdr"
)

// Compression identifies the codec used for pixel data. The numeric
// values are the on-disk codes and are never renumbered.
type Compression uint8

const (
	// CompressionNone stores uncompressed data.
	CompressionNone Compression = 0
	// CompressionRLE uses run-length encoding.
	CompressionRLE Compression = 1
	// CompressionZIPS uses zlib compression on single scanlines.
	CompressionZIPS Compression = 2
	// CompressionZIP uses zlib compression on 16 scanlines.
	CompressionZIP Compression = 3
	// CompressionPIZ uses wavelet compression.
	CompressionPIZ Compression = 4
	// CompressionPXR24 uses 24-bit float conversion with zlib.
	CompressionPXR24 Compression = 5
	// CompressionB44 uses 4x4 block lossy compression.
	CompressionB44 Compression = 6
	// CompressionB44A uses B44 with flat area detection.
	CompressionB44A Compression = 7
	// CompressionDWAA uses DCT-based lossy compression (32 scanlines).
	CompressionDWAA Compression = 8
	// CompressionDWAB uses DCT-based lossy compression (256 scanlines).
	CompressionDWAB Compression = 9
)

// String returns a string representation of the compression type.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionRLE:
		return "rle"
	case CompressionZIPS:
		return "zips"
	case CompressionZIP:
		return "zip"
	case CompressionPIZ:
		return "piz"
	case CompressionPXR24:
		return "pxr24"
	case CompressionB44:
		return "b44"
	case CompressionB44A:
		return "b44a"
	case CompressionDWAA:
		return "dwaa"
	case CompressionDWAB:
		return "dwab"
	default:
		return "unknown"
	}
}

// IsValid returns true if c is a recognized compression code.
func (c Compression) IsValid() bool {
	return c <= CompressionDWAB
}

// ScanlinesPerChunk returns the number of scanlines grouped together
// in one chunk for this compression type.
func (c Compression) ScanlinesPerChunk() int {
	switch c {
	case CompressionNone, CompressionRLE, CompressionZIPS:
		return 1
	case CompressionZIP, CompressionPXR24:
		return 16
	case CompressionPIZ, CompressionB44, CompressionB44A, CompressionDWAA:
		return 32
	case CompressionDWAB:
		return 256
	default:
		return 1
	}
}

// LineOrder defines the vertical order of scanlines in the file.
// The numeric values are the on-disk codes and are never renumbered.
type LineOrder uint8

const (
	// LineOrderIncreasingY stores scanlines from top to bottom.
	LineOrderIncreasingY LineOrder = 0
	// LineOrderDecreasingY stores scanlines from bottom to top.
	LineOrderDecreasingY LineOrder = 1
	// LineOrderRandomY allows chunks in any order. Legal only for
	// tiled storage.
	LineOrderRandomY LineOrder = 2
)

// String returns a string representation of the line order.
func (lo LineOrder) String() string {
	switch lo {
	case LineOrderIncreasingY:
		return "increasing_y"
	case LineOrderDecreasingY:
		return "decreasing_y"
	case LineOrderRandomY:
		return "random_y"
	default:
		return "unknown"
	}
}

// IsValid returns true if lo is a recognized line order code.
func (lo LineOrder) IsValid() bool {
	return lo <= LineOrderRandomY
}

// EnvMap defines environment map types.
type EnvMap uint8

const (
	// EnvMapLatLong is a latitude-longitude environment map.
	EnvMapLatLong EnvMap = 0
	// EnvMapCube is a cube map.
	EnvMapCube EnvMap = 1
)

// LevelMode defines how multi-resolution tile levels are stored.
type LevelMode uint8

const (
	// LevelModeOne stores a single resolution level.
	LevelModeOne LevelMode = 0
	// LevelModeMipmap stores power-of-2 mipmap levels.
	LevelModeMipmap LevelMode = 1
	// LevelModeRipmap stores independent X and Y resolution levels.
	LevelModeRipmap LevelMode = 2
)

// String returns a string representation of the level mode.
func (lm LevelMode) String() string {
	switch lm {
	case LevelModeOne:
		return "one_level"
	case LevelModeMipmap:
		return "mipmap"
	case LevelModeRipmap:
		return "ripmap"
	default:
		return "unknown"
	}
}

// LevelRoundingMode defines how level sizes are rounded.
type LevelRoundingMode uint8

const (
	// LevelRoundDown rounds level sizes down.
	LevelRoundDown LevelRoundingMode = 0
	// LevelRoundUp rounds level sizes up.
	LevelRoundUp LevelRoundingMode = 1
)

// TileDescription describes tile dimensions and level modes for
// tiled storage.
type TileDescription struct {
	XSize        uint32
	YSize        uint32
	Mode         LevelMode
	RoundingMode LevelRoundingMode
}

// Attribute errors
var (
	ErrUnknownAttributeType = errors.New("imf: unknown attribute type")
	ErrInvalidAttribute     = errors.New("imf: invalid attribute value")
)

// AttributeType identifies the declared type of an attribute. It is
// the type-name string stored on disk.
type AttributeType string

// Built-in attribute types
const (
	AttrTypeBox2i          AttributeType = "box2i"
	AttrTypeBox2f          AttributeType = "box2f"
	AttrTypeChlist         AttributeType = "chlist"
	AttrTypeChromaticities AttributeType = "chromaticities"
	AttrTypeCompression    AttributeType = "compression"
	AttrTypeDouble         AttributeType = "double"
	AttrTypeEnvmap         AttributeType = "envmap"
	AttrTypeFloat          AttributeType = "float"
	AttrTypeFloatVector    AttributeType = "floatvector"
	AttrTypeInt            AttributeType = "int"
	AttrTypeLineOrder      AttributeType = "lineOrder"
	AttrTypeM33f           AttributeType = "m33f"
	AttrTypeM44f           AttributeType = "m44f"
	AttrTypePreview        AttributeType = "preview"
	AttrTypeRational       AttributeType = "rational"
	AttrTypeString         AttributeType = "string"
	AttrTypeStringVector   AttributeType = "stringvector"
	AttrTypeTileDesc       AttributeType = "tiledesc"
	AttrTypeV2d            AttributeType = "v2d"
	AttrTypeV2f            AttributeType = "v2f"
	AttrTypeV2i            AttributeType = "v2i"
	AttrTypeV3f            AttributeType = "v3f"
	AttrTypeV3i            AttributeType = "v3i"
)

// Attribute is a single named, typed header entry.
//
// For the built-in types above, Value holds the corresponding Go
// value (Box2i, *ChannelList, float32, ...). For any other type name,
// Value holds the raw payload as []byte so that attributes written by
// newer tools survive a read/modify/write cycle untouched.
type Attribute struct {
	Name  string
	Type  AttributeType
	Value interface{}
}

// ReadAttribute reads a single attribute from the reader.
// Returns nil when the header terminator (empty name) is reached.
func ReadAttribute(r *xdr.Reader) (*Attribute, error) {
	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}

	// Empty name marks end of header.
	if name == "" {
		return nil, nil
	}

	typeName, err := r.ReadString()
	if err != nil {
		return nil, err
	}

	size, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: %q has negative size", ErrInvalidAttribute, name)
	}

	attr := &Attribute{
		Name: name,
		Type: AttributeType(typeName),
	}

	switch attr.Type {
	case AttrTypeBox2i:
		attr.Value, err = ReadBox2i(r)
	case AttrTypeBox2f:
		attr.Value, err = ReadBox2f(r)
	case AttrTypeChlist:
		attr.Value, err = ReadChannelList(r)
	case AttrTypeChromaticities:
		attr.Value, err = ReadChromaticities(r)
	case AttrTypeCompression:
		b, e := r.ReadByte()
		attr.Value, err = Compression(b), e
	case AttrTypeDouble:
		attr.Value, err = r.ReadFloat64()
	case AttrTypeEnvmap:
		b, e := r.ReadByte()
		attr.Value, err = EnvMap(b), e
	case AttrTypeFloat:
		attr.Value, err = r.ReadFloat32()
	case AttrTypeFloatVector:
		attr.Value, err = ReadFloatVector(r, int(size))
	case AttrTypeInt:
		attr.Value, err = r.ReadInt32()
	case AttrTypeLineOrder:
		b, e := r.ReadByte()
		attr.Value, err = LineOrder(b), e
	case AttrTypeM33f:
		attr.Value, err = ReadM33f(r)
	case AttrTypeM44f:
		attr.Value, err = ReadM44f(r)
	case AttrTypePreview:
		attr.Value, err = ReadPreview(r)
	case AttrTypeRational:
		attr.Value, err = ReadRational(r)
	case AttrTypeString:
		b, e := r.ReadBytes(int(size))
		if e == nil {
			attr.Value = string(b)
		}
		err = e
	case AttrTypeStringVector:
		attr.Value, err = readStringVector(r, int(size))
	case AttrTypeTileDesc:
		attr.Value, err = readTileDescription(r)
	case AttrTypeV2i:
		attr.Value, err = ReadV2i(r)
	case AttrTypeV2f:
		attr.Value, err = ReadV2f(r)
	case AttrTypeV2d:
		attr.Value, err = ReadV2d(r)
	case AttrTypeV3i:
		attr.Value, err = ReadV3i(r)
	case AttrTypeV3f:
		attr.Value, err = ReadV3f(r)
	default:
		// Unknown attribute type: preserve the raw payload.
		raw, e := r.ReadBytes(int(size))
		if e == nil {
			attr.Value = raw
		}
		err = e
	}

	if err != nil {
		return nil, err
	}

	return attr, nil
}

// WriteAttribute writes an attribute to the writer as
// name, type, size, payload.
func WriteAttribute(w *xdr.BufferWriter, attr *Attribute) error {
	w.WriteString(attr.Name)
	w.WriteString(string(attr.Type))

	// Write the payload to a scratch buffer to learn its size.
	valueWriter := xdr.NewBufferWriter(256)
	if err := writeAttributeValue(valueWriter, attr); err != nil {
		return err
	}

	w.WriteInt32(int32(valueWriter.Len()))
	w.WriteBytes(valueWriter.Bytes())

	return nil
}

// writeAttributeValue writes the payload portion of an attribute.
// The encoding is selected by the attribute's declared type.
func writeAttributeValue(w *xdr.BufferWriter, attr *Attribute) error {
	switch attr.Type {
	case AttrTypeBox2i:
		WriteBox2i(w, attr.Value.(Box2i))
	case AttrTypeBox2f:
		WriteBox2f(w, attr.Value.(Box2f))
	case AttrTypeChlist:
		WriteChannelList(w, attr.Value.(*ChannelList))
	case AttrTypeChromaticities:
		WriteChromaticities(w, attr.Value.(Chromaticities))
	case AttrTypeCompression:
		w.WriteByte(byte(attr.Value.(Compression)))
	case AttrTypeDouble:
		w.WriteFloat64(attr.Value.(float64))
	case AttrTypeEnvmap:
		w.WriteByte(byte(attr.Value.(EnvMap)))
	case AttrTypeFloat:
		w.WriteFloat32(attr.Value.(float32))
	case AttrTypeFloatVector:
		WriteFloatVector(w, attr.Value.(FloatVector))
	case AttrTypeInt:
		w.WriteInt32(attr.Value.(int32))
	case AttrTypeLineOrder:
		w.WriteByte(byte(attr.Value.(LineOrder)))
	case AttrTypeM33f:
		WriteM33f(w, attr.Value.(M33f))
	case AttrTypeM44f:
		WriteM44f(w, attr.Value.(M44f))
	case AttrTypePreview:
		WritePreview(w, attr.Value.(Preview))
	case AttrTypeRational:
		WriteRational(w, attr.Value.(Rational))
	case AttrTypeString:
		w.WriteBytes([]byte(attr.Value.(string)))
	case AttrTypeStringVector:
		writeStringVector(w, attr.Value.([]string))
	case AttrTypeTileDesc:
		writeTileDescription(w, attr.Value.(TileDescription))
	case AttrTypeV2i:
		WriteV2i(w, attr.Value.(V2i))
	case AttrTypeV2f:
		WriteV2f(w, attr.Value.(V2f))
	case AttrTypeV2d:
		WriteV2d(w, attr.Value.(V2d))
	case AttrTypeV3i:
		WriteV3i(w, attr.Value.(V3i))
	case AttrTypeV3f:
		WriteV3f(w, attr.Value.(V3f))
	default:
		// Raw payload for unknown types.
		if raw, ok := attr.Value.([]byte); ok {
			w.WriteBytes(raw)
		} else {
			return fmt.Errorf("%w: %s", ErrUnknownAttributeType, attr.Type)
		}
	}
	return nil
}

// readStringVector reads a string vector attribute occupying size
// bytes. Each string is a 4-byte length followed by the string bytes.
func readStringVector(r *xdr.Reader, size int) ([]string, error) {
	result := []string{}
	end := r.Pos() + size
	for r.Pos() < end {
		strLen, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		if strLen < 0 || r.Pos()+int(strLen) > end {
			return nil, fmt.Errorf("%w: stringvector entry overruns attribute", ErrInvalidAttribute)
		}
		strBytes, err := r.ReadBytes(int(strLen))
		if err != nil {
			return nil, err
		}
		result = append(result, string(strBytes))
	}
	return result, nil
}

// writeStringVector writes each string as a 4-byte length followed by
// the string bytes.
func writeStringVector(w *xdr.BufferWriter, strings []string) {
	for _, s := range strings {
		w.WriteInt32(int32(len(s)))
		w.WriteBytes([]byte(s))
	}
}

// readTileDescription reads a tile description:
// xSize (4), ySize (4), one mode byte packing level and rounding.
func readTileDescription(r *xdr.Reader) (TileDescription, error) {
	var td TileDescription
	var err error

	td.XSize, err = r.ReadUint32()
	if err != nil {
		return td, err
	}

	td.YSize, err = r.ReadUint32()
	if err != nil {
		return td, err
	}

	mode, err := r.ReadByte()
	if err != nil {
		return td, err
	}

	td.Mode = LevelMode(mode & 0x0F)
	td.RoundingMode = LevelRoundingMode((mode >> 4) & 0x0F)

	return td, nil
}

// writeTileDescription writes a tile description in the same layout.
func writeTileDescription(w *xdr.BufferWriter, td TileDescription) {
	w.WriteUint32(td.XSize)
	w.WriteUint32(td.YSize)
	mode := byte(td.Mode) | (byte(td.RoundingMode) << 4)
	w.WriteByte(mode)
}
