package imf

import (
	"errors"
	"fmt"

	"github.com/scott-wilson/go-imf/internal/xdr"
)

// Standard header attribute names
const (
	AttrNameChannels           = "channels"
	AttrNameCompression        = "compression"
	AttrNameDataWindow         = "dataWindow"
	AttrNameDisplayWindow      = "displayWindow"
	AttrNameLineOrder          = "lineOrder"
	AttrNamePixelAspectRatio   = "pixelAspectRatio"
	AttrNameScreenWindowCenter = "screenWindowCenter"
	AttrNameScreenWindowWidth  = "screenWindowWidth"
	AttrNameTiles              = "tiles"
	AttrNameName               = "name"
	AttrNameType               = "type"
	AttrNameView               = "view"
	AttrNameVersion            = "version"
	AttrNameChunkCount         = "chunkCount"
	AttrNamePreview            = "preview"
)

// Header errors
var (
	ErrInvalidHeader    = errors.New("imf: invalid header")
	ErrUnknownImageType = errors.New("imf: unknown image type")
	ErrNoPreview        = errors.New("imf: header has no preview image")
)

// ImageType identifies the storage kind of an image part. The on-disk
// representation is one of four exact, case-sensitive strings; the
// enum exists so unrecognized strings are rejected at the parse
// boundary instead of being carried as free text.
type ImageType uint8

const (
	// ImageTypeScanline is a flat, scanline-based part.
	ImageTypeScanline ImageType = iota
	// ImageTypeTiled is a flat, tiled part.
	ImageTypeTiled
	// ImageTypeDeepScanline is a deep, scanline-based part.
	ImageTypeDeepScanline
	// ImageTypeDeepTiled is a deep, tiled part.
	ImageTypeDeepTiled
)

// On-disk image type strings
const (
	imageTypeScanlineStr     = "scanlineimage"
	imageTypeTiledStr        = "tiledimage"
	imageTypeDeepScanlineStr = "deepscanline"
	imageTypeDeepTiledStr    = "deeptile"
)

// String returns the on-disk string for the image type.
func (it ImageType) String() string {
	switch it {
	case ImageTypeScanline:
		return imageTypeScanlineStr
	case ImageTypeTiled:
		return imageTypeTiledStr
	case ImageTypeDeepScanline:
		return imageTypeDeepScanlineStr
	case ImageTypeDeepTiled:
		return imageTypeDeepTiledStr
	default:
		return "unknown"
	}
}

// IsTiled returns true for the tiled image types.
func (it ImageType) IsTiled() bool {
	return it == ImageTypeTiled || it == ImageTypeDeepTiled
}

// IsDeep returns true for the deep image types.
func (it ImageType) IsDeep() bool {
	return it == ImageTypeDeepScanline || it == ImageTypeDeepTiled
}

// ParseImageType converts an on-disk type string to an ImageType.
// The match is exact and case-sensitive.
func ParseImageType(s string) (ImageType, error) {
	switch s {
	case imageTypeScanlineStr:
		return ImageTypeScanline, nil
	case imageTypeTiledStr:
		return ImageTypeTiled, nil
	case imageTypeDeepScanlineStr:
		return ImageTypeDeepScanline, nil
	case imageTypeDeepTiledStr:
		return ImageTypeDeepTiled, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownImageType, s)
	}
}

// Header describes everything about an image part except the pixel
// payload. All fields, standard and custom, live in one
// insertion-ordered attribute registry; the typed accessors below are
// convenience views over well-known entries.
//
// A Header is a plain in-memory value with no background activity.
// Concurrent reads are safe; mutation requires external exclusion.
type Header struct {
	attrs *AttributeRegistry
}

// NewHeader creates an empty header with no attributes.
func NewHeader() *Header {
	return &Header{attrs: NewAttributeRegistry()}
}

// NewHeaderWithWindows creates a header from explicit display and
// data windows plus the remaining mandatory attributes. No channel
// list is set; callers add one before validation.
func NewHeaderWithWindows(dataWindow, displayWindow Box2i, pixelAspectRatio float32,
	screenWindowCenter V2f, screenWindowWidth float32,
	lineOrder LineOrder, compression Compression) *Header {

	h := NewHeader()
	h.SetDisplayWindow(displayWindow)
	h.SetDataWindow(dataWindow)
	h.SetPixelAspectRatio(pixelAspectRatio)
	h.SetScreenWindowCenter(screenWindowCenter)
	h.SetScreenWindowWidth(screenWindowWidth)
	h.SetLineOrder(lineOrder)
	h.SetCompression(compression)
	return h
}

// NewHeaderWithDimensions creates a header whose display and data
// windows are both [(0,0), (width-1, height-1)].
func NewHeaderWithDimensions(width, height int32, pixelAspectRatio float32,
	screenWindowCenter V2f, screenWindowWidth float32,
	lineOrder LineOrder, compression Compression) *Header {

	window := Box2i{Min: V2i{0, 0}, Max: V2i{width - 1, height - 1}}
	return NewHeaderWithWindows(window, window, pixelAspectRatio,
		screenWindowCenter, screenWindowWidth, lineOrder, compression)
}

// DefaultHeader creates a header with the documented defaults: 64x64
// windows, pixel aspect ratio 1.0, screen window centered at (0,0)
// with width 1.0, increasing line order, ZIP compression, and RGB
// half channels.
func DefaultHeader() *Header {
	h := NewHeaderWithDimensions(64, 64, 1.0, V2f{0, 0}, 1.0,
		LineOrderIncreasingY, CompressionZIP)

	cl := NewChannelList()
	cl.Add(NewChannel("R", PixelTypeHalf))
	cl.Add(NewChannel("G", PixelTypeHalf))
	cl.Add(NewChannel("B", PixelTypeHalf))
	h.SetChannels(cl)

	return h
}

// Insert adds or overwrites an attribute. See AttributeRegistry.Insert
// for the name and type rules.
func (h *Header) Insert(attr *Attribute) error {
	return h.attrs.Insert(attr)
}

// Erase removes an attribute. Absent names are a no-op.
func (h *Header) Erase(name string) {
	h.attrs.Erase(name)
}

// Get returns an attribute by name, or nil if not found.
func (h *Header) Get(name string) *Attribute {
	return h.attrs.Get(name)
}

// Has returns true if the header has an attribute with the given name.
func (h *Header) Has(name string) bool {
	return h.attrs.Has(name)
}

// Registry exposes the underlying attribute registry.
func (h *Header) Registry() *AttributeRegistry {
	return h.attrs
}

// Attributes returns all attributes in insertion order.
func (h *Header) Attributes() []*Attribute {
	return h.attrs.Attributes()
}

// setStandard installs a well-known attribute, surfacing the type
// conflict when the name is already taken by a custom attribute of a
// different type.
func (h *Header) setStandard(name string, typ AttributeType, value interface{}) error {
	return h.attrs.Insert(&Attribute{Name: name, Type: typ, Value: value})
}

// Standard accessors.
//
// Reads on a header that is missing the attribute return the zero or
// conventional default; SanityCheck is the single enforcement point
// for mandatory presence.

// DisplayWindow returns the display window, the rectangle defining
// the logical visible image extent. It must match across all parts of
// a multi-part file.
func (h *Header) DisplayWindow() Box2i {
	v, _ := Find[Box2i](h.attrs, AttrNameDisplayWindow)
	return v
}

// SetDisplayWindow sets the display window.
func (h *Header) SetDisplayWindow(b Box2i) error {
	return h.setStandard(AttrNameDisplayWindow, AttrTypeBox2i, b)
}

// DataWindow returns the data window, the region for which pixel data
// is defined. It may differ from the display window for crop or
// overscan regions.
func (h *Header) DataWindow() Box2i {
	v, _ := Find[Box2i](h.attrs, AttrNameDataWindow)
	return v
}

// SetDataWindow sets the data window.
func (h *Header) SetDataWindow(b Box2i) error {
	return h.setStandard(AttrNameDataWindow, AttrTypeBox2i, b)
}

// SetDimensions sets both display and data windows to
// [(0,0), (width-1, height-1)]. Non-positive dimensions are not
// rejected here; they produce an empty window that only SanityCheck
// reports.
func (h *Header) SetDimensions(width, height int32) {
	window := Box2i{Min: V2i{0, 0}, Max: V2i{width - 1, height - 1}}
	h.SetDisplayWindow(window)
	h.SetDataWindow(window)
}

// PixelAspectRatio returns the pixel aspect ratio (width/height of a
// single pixel on the display; 2.0 for anamorphic). Defaults to 1.0.
func (h *Header) PixelAspectRatio() float32 {
	if v, ok := Find[float32](h.attrs, AttrNamePixelAspectRatio); ok {
		return v
	}
	return 1.0
}

// SetPixelAspectRatio sets the pixel aspect ratio.
func (h *Header) SetPixelAspectRatio(ratio float32) error {
	return h.setStandard(AttrNamePixelAspectRatio, AttrTypeFloat, ratio)
}

// ScreenWindowCenter returns the center of the projective-camera
// framing rectangle. (0,0) for images not generated by perspective
// projection.
func (h *Header) ScreenWindowCenter() V2f {
	v, _ := Find[V2f](h.attrs, AttrNameScreenWindowCenter)
	return v
}

// SetScreenWindowCenter sets the screen window center.
func (h *Header) SetScreenWindowCenter(center V2f) error {
	return h.setStandard(AttrNameScreenWindowCenter, AttrTypeV2f, center)
}

// ScreenWindowWidth returns the width of the screen window.
// Defaults to 1.0.
func (h *Header) ScreenWindowWidth() float32 {
	if v, ok := Find[float32](h.attrs, AttrNameScreenWindowWidth); ok {
		return v
	}
	return 1.0
}

// SetScreenWindowWidth sets the screen window width.
func (h *Header) SetScreenWindowWidth(width float32) error {
	return h.setStandard(AttrNameScreenWindowWidth, AttrTypeFloat, width)
}

// Channels returns the channel list, or nil if none is set.
func (h *Header) Channels() *ChannelList {
	v, _ := Find[*ChannelList](h.attrs, AttrNameChannels)
	return v
}

// SetChannels sets the channel list.
func (h *Header) SetChannels(cl *ChannelList) error {
	return h.setStandard(AttrNameChannels, AttrTypeChlist, cl)
}

// LineOrder returns the scanline storage order.
// Defaults to increasing Y.
func (h *Header) LineOrder() LineOrder {
	v, _ := Find[LineOrder](h.attrs, AttrNameLineOrder)
	return v
}

// SetLineOrder sets the scanline storage order.
func (h *Header) SetLineOrder(lo LineOrder) error {
	return h.setStandard(AttrNameLineOrder, AttrTypeLineOrder, lo)
}

// Compression returns the pixel compression scheme.
// Defaults to none.
func (h *Header) Compression() Compression {
	v, _ := Find[Compression](h.attrs, AttrNameCompression)
	return v
}

// SetCompression sets the pixel compression scheme.
func (h *Header) SetCompression(c Compression) error {
	return h.setStandard(AttrNameCompression, AttrTypeCompression, c)
}

// Width returns the width of the data window.
func (h *Header) Width() int {
	return int(h.DataWindow().Width())
}

// Height returns the height of the data window.
func (h *Header) Height() int {
	return int(h.DataWindow().Height())
}

// Multi-part attributes.
//
// Name, type, view, version and chunk count are mandatory for
// multi-part and deep files, optional otherwise. Presence is
// observable independently of the value: an unset attribute stays
// unset across a serialization round trip rather than collapsing to a
// sentinel value.

// Name returns the part name, or "" if unset. Part names must be
// unique within a multi-part file.
func (h *Header) Name() string {
	v, _ := Find[string](h.attrs, AttrNameName)
	return v
}

// SetName sets the part name.
func (h *Header) SetName(name string) error {
	return h.setStandard(AttrNameName, AttrTypeString, name)
}

// HasName returns true if the part name attribute is present.
func (h *Header) HasName() bool {
	return h.attrs.Has(AttrNameName)
}

// ImageType returns the part's image type. The second result is false
// if the attribute is absent or holds an unrecognized string.
func (h *Header) ImageType() (ImageType, bool) {
	s, ok := Find[string](h.attrs, AttrNameType)
	if !ok {
		return 0, false
	}
	it, err := ParseImageType(s)
	if err != nil {
		return 0, false
	}
	return it, true
}

// SetImageType sets the part's image type, stored as its on-disk
// string form.
func (h *Header) SetImageType(it ImageType) error {
	return h.setStandard(AttrNameType, AttrTypeString, it.String())
}

// HasImageType returns true if the type attribute is present.
func (h *Header) HasImageType() bool {
	return h.attrs.Has(AttrNameType)
}

// View returns the part's view name, or "" if unset. View names must
// be unique within a multi-part file.
func (h *Header) View() string {
	v, _ := Find[string](h.attrs, AttrNameView)
	return v
}

// SetView sets the part's view name.
func (h *Header) SetView(view string) error {
	return h.setStandard(AttrNameView, AttrTypeString, view)
}

// HasView returns true if the view attribute is present.
func (h *Header) HasView() bool {
	return h.attrs.Has(AttrNameView)
}

// Version returns the part's version, or 0 if unset.
func (h *Header) Version() int32 {
	v, _ := Find[int32](h.attrs, AttrNameVersion)
	return v
}

// SetVersion sets the part's version.
func (h *Header) SetVersion(v int32) error {
	return h.setStandard(AttrNameVersion, AttrTypeInt, v)
}

// HasVersion returns true if the version attribute is present.
func (h *Header) HasVersion() bool {
	return h.attrs.Has(AttrNameVersion)
}

// ChunkCount returns the stored chunk count, or 0 if unset. Writers
// normally compute the count with ChunksInFile and materialize this
// attribute only when writing a multi-part or deep file.
func (h *Header) ChunkCount() int32 {
	v, _ := Find[int32](h.attrs, AttrNameChunkCount)
	return v
}

// SetChunkCount sets the chunk count attribute.
func (h *Header) SetChunkCount(n int32) error {
	return h.setStandard(AttrNameChunkCount, AttrTypeInt, n)
}

// HasChunkCount returns true if the chunk count attribute is present.
func (h *Header) HasChunkCount() bool {
	return h.attrs.Has(AttrNameChunkCount)
}

// TileDescription returns the tile description, or nil for scanline
// storage.
func (h *Header) TileDescription() *TileDescription {
	if v, ok := Find[TileDescription](h.attrs, AttrNameTiles); ok {
		return &v
	}
	return nil
}

// SetTileDescription sets the tile description.
func (h *Header) SetTileDescription(td TileDescription) error {
	return h.setStandard(AttrNameTiles, AttrTypeTileDesc, td)
}

// HasTileDescription returns true if the tiles attribute is present.
func (h *Header) HasTileDescription() bool {
	return h.attrs.Has(AttrNameTiles)
}

// IsTiled returns true if this header describes tiled storage.
func (h *Header) IsTiled() bool {
	return h.attrs.Has(AttrNameTiles)
}

// Preview returns a copy of the preview image, or nil if none exists.
func (h *Header) Preview() *Preview {
	if v, ok := Find[Preview](h.attrs, AttrNamePreview); ok {
		pixels := make([]byte, len(v.Pixels))
		copy(pixels, v.Pixels)
		return &Preview{Width: v.Width, Height: v.Height, Pixels: pixels}
	}
	return nil
}

// SetPreview sets the preview image.
func (h *Header) SetPreview(p Preview) error {
	return h.setStandard(AttrNamePreview, AttrTypePreview, p)
}

// HasPreview returns true if the header has a preview image.
func (h *Header) HasPreview() bool {
	return h.attrs.Has(AttrNamePreview)
}

// UpdatePreviewPixels overwrites the preview's pixel payload in
// place, keeping its dimensions. Writers call this repeatedly while
// streaming pixel chunks. The pixel slice length must match the
// existing preview exactly.
func (h *Header) UpdatePreviewPixels(pixels []byte) error {
	existing, ok := Find[Preview](h.attrs, AttrNamePreview)
	if !ok {
		return ErrNoPreview
	}
	if len(pixels) != len(existing.Pixels) {
		return fmt.Errorf("%w: preview pixel buffer is %d bytes, got %d",
			ErrInvalidAttribute, len(existing.Pixels), len(pixels))
	}
	Mutate(h.attrs, AttrNamePreview, func(p *Preview) {
		copy(p.Pixels, pixels)
	})
	return nil
}

// Serialization

// ReadHeaderFrom reads attributes up to and including the empty-name
// terminator. Attributes are inserted in file order, so the
// registry's insertion order reproduces the on-disk order.
func ReadHeaderFrom(r *xdr.Reader) (*Header, error) {
	h := NewHeader()
	for {
		attr, err := ReadAttribute(r)
		if err != nil {
			return nil, err
		}
		if attr == nil {
			break
		}
		if err := h.Insert(attr); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
		}
	}
	return h, nil
}

// WriteHeaderTo writes all attributes in insertion order, followed by
// the empty-name terminator byte.
func (h *Header) WriteHeaderTo(w *xdr.BufferWriter) error {
	for i := 0; i < h.attrs.Len(); i++ {
		if err := WriteAttribute(w, h.attrs.At(i)); err != nil {
			return err
		}
	}
	w.WriteByte(0)
	return nil
}

// EncodeHeader serializes the header's attribute block to bytes.
func EncodeHeader(h *Header) ([]byte, error) {
	w := xdr.NewBufferWriter(4096)
	if err := h.WriteHeaderTo(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DecodeHeader parses an attribute block produced by EncodeHeader.
func DecodeHeader(data []byte) (*Header, error) {
	return ReadHeaderFrom(xdr.NewReader(data))
}
