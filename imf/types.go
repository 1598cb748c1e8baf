// Package imf implements the OpenEXR header metadata model: typed
// attributes, the insertion-ordered attribute registry, the Header
// entity with its standard accessors, and the sanity checks a header
// must pass before any pixel I/O is attempted.
//
// The package covers everything about an image part except the pixel
// payload. Pixel chunk codecs are selected through the Compression
// value but never invoked here.
package imf

import (
	"errors"

	"github.com/scott-wilson/go-imf/internal/xdr"
)

// V2i represents a 2D integer vector.
type V2i struct {
	X, Y int32
}

// V2f represents a 2D float vector.
type V2f struct {
	X, Y float32
}

// V2d represents a 2D double-precision vector.
type V2d struct {
	X, Y float64
}

// V3i represents a 3D integer vector.
type V3i struct {
	X, Y, Z int32
}

// V3f represents a 3D float vector.
type V3f struct {
	X, Y, Z float32
}

// Box2i represents an axis-aligned 2D integer bounding box.
// Both corners are inclusive. A box with Min > Max on either axis is
// empty; empty boxes are a legal "no data" sentinel and are only
// rejected by SanityCheck.
type Box2i struct {
	Min, Max V2i
}

// Box2f represents an axis-aligned 2D float bounding box.
type Box2f struct {
	Min, Max V2f
}

// Width returns the width of the box.
func (b Box2i) Width() int32 {
	return b.Max.X - b.Min.X + 1
}

// Height returns the height of the box.
func (b Box2i) Height() int32 {
	return b.Max.Y - b.Min.Y + 1
}

// IsEmpty returns true if the box has no area.
func (b Box2i) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// Contains returns true if the point (x, y) is inside the box.
func (b Box2i) Contains(x, y int32) bool {
	return x >= b.Min.X && x <= b.Max.X && y >= b.Min.Y && y <= b.Max.Y
}

// Area returns the area of the box.
func (b Box2i) Area() int64 {
	if b.IsEmpty() {
		return 0
	}
	return int64(b.Width()) * int64(b.Height())
}

// IsEmpty returns true if the box has no area.
func (b Box2f) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// M33f represents a 3x3 float matrix stored in row-major order.
type M33f [9]float32

// M44f represents a 4x4 float matrix stored in row-major order.
type M44f [16]float32

// Identity33 returns the 3x3 identity matrix.
func Identity33() M33f {
	return M33f{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Identity44 returns the 4x4 identity matrix.
func Identity44() M44f {
	return M44f{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FloatVector represents a variable-length array of floats.
type FloatVector []float32

// Rational represents a rational number as numerator/denominator.
type Rational struct {
	Num   int32
	Denom uint32
}

// Float64 returns the rational as a float64.
func (r Rational) Float64() float64 {
	if r.Denom == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Denom)
}

// Chromaticities defines color primaries and white point using
// CIE xy chromaticity coordinates.
type Chromaticities struct {
	RedX, RedY     float32
	GreenX, GreenY float32
	BlueX, BlueY   float32
	WhiteX, WhiteY float32
}

// DefaultChromaticities returns the Rec. 709 chromaticities used when
// none are specified.
func DefaultChromaticities() Chromaticities {
	return Chromaticities{
		RedX: 0.6400, RedY: 0.3300,
		GreenX: 0.3000, GreenY: 0.6000,
		BlueX: 0.1500, BlueY: 0.0600,
		WhiteX: 0.3127, WhiteY: 0.3290,
	}
}

// Binary serialization

// ReadV2i reads a V2i from the reader.
func ReadV2i(r *xdr.Reader) (V2i, error) {
	var v V2i
	var err error
	v.X, err = r.ReadInt32()
	if err != nil {
		return v, err
	}
	v.Y, err = r.ReadInt32()
	return v, err
}

// WriteV2i writes a V2i to the writer.
func WriteV2i(w *xdr.BufferWriter, v V2i) {
	w.WriteInt32(v.X)
	w.WriteInt32(v.Y)
}

// ReadV2f reads a V2f from the reader.
func ReadV2f(r *xdr.Reader) (V2f, error) {
	var v V2f
	var err error
	v.X, err = r.ReadFloat32()
	if err != nil {
		return v, err
	}
	v.Y, err = r.ReadFloat32()
	return v, err
}

// WriteV2f writes a V2f to the writer.
func WriteV2f(w *xdr.BufferWriter, v V2f) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
}

// ReadV2d reads a V2d from the reader.
func ReadV2d(r *xdr.Reader) (V2d, error) {
	var v V2d
	var err error
	v.X, err = r.ReadFloat64()
	if err != nil {
		return v, err
	}
	v.Y, err = r.ReadFloat64()
	return v, err
}

// WriteV2d writes a V2d to the writer.
func WriteV2d(w *xdr.BufferWriter, v V2d) {
	w.WriteFloat64(v.X)
	w.WriteFloat64(v.Y)
}

// ReadV3i reads a V3i from the reader.
func ReadV3i(r *xdr.Reader) (V3i, error) {
	var v V3i
	var err error
	v.X, err = r.ReadInt32()
	if err != nil {
		return v, err
	}
	v.Y, err = r.ReadInt32()
	if err != nil {
		return v, err
	}
	v.Z, err = r.ReadInt32()
	return v, err
}

// WriteV3i writes a V3i to the writer.
func WriteV3i(w *xdr.BufferWriter, v V3i) {
	w.WriteInt32(v.X)
	w.WriteInt32(v.Y)
	w.WriteInt32(v.Z)
}

// ReadV3f reads a V3f from the reader.
func ReadV3f(r *xdr.Reader) (V3f, error) {
	var v V3f
	var err error
	v.X, err = r.ReadFloat32()
	if err != nil {
		return v, err
	}
	v.Y, err = r.ReadFloat32()
	if err != nil {
		return v, err
	}
	v.Z, err = r.ReadFloat32()
	return v, err
}

// WriteV3f writes a V3f to the writer.
func WriteV3f(w *xdr.BufferWriter, v V3f) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
	w.WriteFloat32(v.Z)
}

// ReadBox2i reads a Box2i from the reader.
func ReadBox2i(r *xdr.Reader) (Box2i, error) {
	var b Box2i
	var err error
	b.Min, err = ReadV2i(r)
	if err != nil {
		return b, err
	}
	b.Max, err = ReadV2i(r)
	return b, err
}

// WriteBox2i writes a Box2i to the writer.
func WriteBox2i(w *xdr.BufferWriter, b Box2i) {
	WriteV2i(w, b.Min)
	WriteV2i(w, b.Max)
}

// ReadBox2f reads a Box2f from the reader.
func ReadBox2f(r *xdr.Reader) (Box2f, error) {
	var b Box2f
	var err error
	b.Min, err = ReadV2f(r)
	if err != nil {
		return b, err
	}
	b.Max, err = ReadV2f(r)
	return b, err
}

// WriteBox2f writes a Box2f to the writer.
func WriteBox2f(w *xdr.BufferWriter, b Box2f) {
	WriteV2f(w, b.Min)
	WriteV2f(w, b.Max)
}

// ReadM33f reads a M33f from the reader.
func ReadM33f(r *xdr.Reader) (M33f, error) {
	var m M33f
	for i := 0; i < 9; i++ {
		var err error
		m[i], err = r.ReadFloat32()
		if err != nil {
			return m, err
		}
	}
	return m, nil
}

// WriteM33f writes a M33f to the writer.
func WriteM33f(w *xdr.BufferWriter, m M33f) {
	for i := 0; i < 9; i++ {
		w.WriteFloat32(m[i])
	}
}

// ReadM44f reads a M44f from the reader.
func ReadM44f(r *xdr.Reader) (M44f, error) {
	var m M44f
	for i := 0; i < 16; i++ {
		var err error
		m[i], err = r.ReadFloat32()
		if err != nil {
			return m, err
		}
	}
	return m, nil
}

// WriteM44f writes a M44f to the writer.
func WriteM44f(w *xdr.BufferWriter, m M44f) {
	for i := 0; i < 16; i++ {
		w.WriteFloat32(m[i])
	}
}

// ReadFloatVector reads a FloatVector occupying size bytes. The
// payload is packed float32 values; the count is size / 4.
func ReadFloatVector(r *xdr.Reader, size int) (FloatVector, error) {
	if size < 0 || size%4 != 0 {
		return nil, errors.New("imf: floatvector size is not a multiple of 4")
	}
	fv := make(FloatVector, size/4)
	var err error
	for i := range fv {
		fv[i], err = r.ReadFloat32()
		if err != nil {
			return nil, err
		}
	}
	return fv, nil
}

// WriteFloatVector writes a FloatVector to the writer.
func WriteFloatVector(w *xdr.BufferWriter, fv FloatVector) {
	for _, f := range fv {
		w.WriteFloat32(f)
	}
}

// ReadRational reads a Rational from the reader.
func ReadRational(r *xdr.Reader) (Rational, error) {
	var rat Rational
	var err error
	rat.Num, err = r.ReadInt32()
	if err != nil {
		return rat, err
	}
	rat.Denom, err = r.ReadUint32()
	return rat, err
}

// WriteRational writes a Rational to the writer.
func WriteRational(w *xdr.BufferWriter, r Rational) {
	w.WriteInt32(r.Num)
	w.WriteUint32(r.Denom)
}

// ReadChromaticities reads Chromaticities from the reader.
func ReadChromaticities(r *xdr.Reader) (Chromaticities, error) {
	var c Chromaticities
	fields := []*float32{
		&c.RedX, &c.RedY, &c.GreenX, &c.GreenY,
		&c.BlueX, &c.BlueY, &c.WhiteX, &c.WhiteY,
	}
	for _, f := range fields {
		v, err := r.ReadFloat32()
		if err != nil {
			return c, err
		}
		*f = v
	}
	return c, nil
}

// WriteChromaticities writes Chromaticities to the writer.
func WriteChromaticities(w *xdr.BufferWriter, c Chromaticities) {
	w.WriteFloat32(c.RedX)
	w.WriteFloat32(c.RedY)
	w.WriteFloat32(c.GreenX)
	w.WriteFloat32(c.GreenY)
	w.WriteFloat32(c.BlueX)
	w.WriteFloat32(c.BlueY)
	w.WriteFloat32(c.WhiteX)
	w.WriteFloat32(c.WhiteY)
}
