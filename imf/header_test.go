package imf

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestDefaultHeader(t *testing.T) {
	h := DefaultHeader()

	want := Box2i{Min: V2i{0, 0}, Max: V2i{63, 63}}
	if h.DataWindow() != want || h.DisplayWindow() != want {
		t.Errorf("windows = %+v/%+v; want both %+v", h.DataWindow(), h.DisplayWindow(), want)
	}
	if h.PixelAspectRatio() != 1.0 {
		t.Errorf("PixelAspectRatio = %v; want 1.0", h.PixelAspectRatio())
	}
	if h.ScreenWindowCenter() != (V2f{0, 0}) {
		t.Errorf("ScreenWindowCenter = %v; want (0,0)", h.ScreenWindowCenter())
	}
	if h.ScreenWindowWidth() != 1.0 {
		t.Errorf("ScreenWindowWidth = %v; want 1.0", h.ScreenWindowWidth())
	}
	if h.LineOrder() != LineOrderIncreasingY {
		t.Errorf("LineOrder = %v; want increasing_y", h.LineOrder())
	}
	if h.Compression() != CompressionZIP {
		t.Errorf("Compression = %v; want zip", h.Compression())
	}
	if want := []string{"R", "G", "B"}; !reflect.DeepEqual(h.Channels().Names(), want) {
		t.Errorf("channels = %v; want %v", h.Channels().Names(), want)
	}
	if err := h.SanityCheck(false, false); err != nil {
		t.Errorf("SanityCheck on default header: %v", err)
	}
}

func TestSetDimensions(t *testing.T) {
	h := NewHeader()
	h.SetDimensions(1920, 1080)

	want := Box2i{Min: V2i{0, 0}, Max: V2i{1919, 1079}}
	if h.DataWindow() != want {
		t.Errorf("DataWindow = %+v; want %+v", h.DataWindow(), want)
	}
	if h.Width() != 1920 || h.Height() != 1080 {
		t.Errorf("size = %dx%d; want 1920x1080", h.Width(), h.Height())
	}

	// Non-positive dimensions produce an empty window but are not
	// rejected here.
	h.SetDimensions(0, 0)
	if !h.DataWindow().IsEmpty() {
		t.Error("zero dimensions did not produce an empty window")
	}
}

func TestAccessorDefaults(t *testing.T) {
	h := NewHeader()

	if h.PixelAspectRatio() != 1.0 {
		t.Errorf("missing pixelAspectRatio reads as %v; want 1.0", h.PixelAspectRatio())
	}
	if h.ScreenWindowWidth() != 1.0 {
		t.Errorf("missing screenWindowWidth reads as %v; want 1.0", h.ScreenWindowWidth())
	}
	if h.LineOrder() != LineOrderIncreasingY {
		t.Errorf("missing lineOrder reads as %v; want increasing_y", h.LineOrder())
	}
	if h.Compression() != CompressionNone {
		t.Errorf("missing compression reads as %v; want none", h.Compression())
	}
	if h.Channels() != nil {
		t.Error("missing channels reads as non-nil")
	}
}

func TestStandardAccessorTypeConflict(t *testing.T) {
	h := NewHeader()
	// A custom attribute squatting on a standard name with the wrong
	// type makes the standard setter fail instead of silently
	// re-typing the entry.
	h.Insert(&Attribute{Name: AttrNameDataWindow, Type: AttrTypeString, Value: "oops"})

	err := h.SetDataWindow(Box2i{Min: V2i{0, 0}, Max: V2i{1, 1}})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("SetDataWindow over string attribute = %v; want ErrTypeMismatch", err)
	}
}

func TestMultiPartAttributePresence(t *testing.T) {
	h := NewHeader()

	if h.HasName() || h.HasImageType() || h.HasView() || h.HasVersion() || h.HasChunkCount() {
		t.Error("fresh header reports optional attributes present")
	}
	if h.Name() != "" || h.View() != "" || h.Version() != 0 || h.ChunkCount() != 0 {
		t.Error("absent attributes do not read as zero values")
	}

	h.SetName("left.rgba")
	h.SetImageType(ImageTypeDeepTiled)
	h.SetView("left")
	h.SetVersion(1)
	h.SetChunkCount(42)

	if !h.HasName() || h.Name() != "left.rgba" {
		t.Errorf("Name = %q, present=%v", h.Name(), h.HasName())
	}
	it, ok := h.ImageType()
	if !ok || it != ImageTypeDeepTiled {
		t.Errorf("ImageType = %v, %v; want deeptile, true", it, ok)
	}
	if h.ChunkCount() != 42 {
		t.Errorf("ChunkCount = %d; want 42", h.ChunkCount())
	}
}

func TestImageTypeStrings(t *testing.T) {
	tests := []struct {
		it  ImageType
		str string
	}{
		{ImageTypeScanline, "scanlineimage"},
		{ImageTypeTiled, "tiledimage"},
		{ImageTypeDeepScanline, "deepscanline"},
		{ImageTypeDeepTiled, "deeptile"},
	}
	for _, tt := range tests {
		if tt.it.String() != tt.str {
			t.Errorf("String(%d) = %q; want %q", tt.it, tt.it.String(), tt.str)
		}
		got, err := ParseImageType(tt.str)
		if err != nil || got != tt.it {
			t.Errorf("ParseImageType(%q) = %v, %v; want %v, nil", tt.str, got, err, tt.it)
		}
	}

	// Matching is exact and case sensitive.
	for _, s := range []string{"", "ScanlineImage", "scanline", "tiledimage "} {
		if _, err := ParseImageType(s); !errors.Is(err, ErrUnknownImageType) {
			t.Errorf("ParseImageType(%q) = %v; want ErrUnknownImageType", s, err)
		}
	}
}

func TestImageTypeFlags(t *testing.T) {
	if ImageTypeScanline.IsTiled() || ImageTypeDeepScanline.IsTiled() {
		t.Error("scanline types report tiled")
	}
	if !ImageTypeTiled.IsTiled() || !ImageTypeDeepTiled.IsTiled() {
		t.Error("tiled types do not report tiled")
	}
	if !ImageTypeDeepScanline.IsDeep() || !ImageTypeDeepTiled.IsDeep() {
		t.Error("deep types do not report deep")
	}
	if ImageTypeScanline.IsDeep() || ImageTypeTiled.IsDeep() {
		t.Error("flat types report deep")
	}
}

func TestHeaderUnrecognizedImageType(t *testing.T) {
	h := NewHeader()
	h.Insert(&Attribute{Name: AttrNameType, Type: AttrTypeString, Value: "hologram"})

	if !h.HasImageType() {
		t.Error("type attribute not reported present")
	}
	if _, ok := h.ImageType(); ok {
		t.Error("unrecognized type string parsed successfully")
	}
}

func TestTileDescriptionAccessors(t *testing.T) {
	h := DefaultHeader()
	if h.IsTiled() || h.TileDescription() != nil {
		t.Error("scanline header reports tiling")
	}

	td := TileDescription{XSize: 32, YSize: 32, Mode: LevelModeOne}
	h.SetTileDescription(td)
	if !h.IsTiled() {
		t.Error("header with tiles attribute not reported tiled")
	}
	if got := h.TileDescription(); got == nil || *got != td {
		t.Errorf("TileDescription = %+v; want %+v", got, td)
	}
}

func TestPreviewAccessors(t *testing.T) {
	h := DefaultHeader()
	if h.HasPreview() || h.Preview() != nil {
		t.Error("fresh header reports a preview")
	}

	p := Preview{Width: 2, Height: 1, Pixels: []byte{1, 2, 3, 4, 5, 6, 7, 8}}
	h.SetPreview(p)
	got := h.Preview()
	if got == nil || got.Width != 2 || got.Height != 1 {
		t.Fatalf("Preview = %+v", got)
	}

	// The returned copy does not alias stored pixels.
	got.Pixels[0] = 99
	if h.Preview().Pixels[0] != 1 {
		t.Error("Preview copy aliases stored pixels")
	}
}

func TestUpdatePreviewPixels(t *testing.T) {
	h := DefaultHeader()

	if err := h.UpdatePreviewPixels([]byte{1, 2, 3, 4}); !errors.Is(err, ErrNoPreview) {
		t.Errorf("UpdatePreviewPixels without preview = %v; want ErrNoPreview", err)
	}

	h.SetPreview(Preview{Width: 1, Height: 1, Pixels: []byte{0, 0, 0, 0}})
	if err := h.UpdatePreviewPixels([]byte{9, 8, 7, 6}); err != nil {
		t.Fatalf("UpdatePreviewPixels: %v", err)
	}
	if !bytes.Equal(h.Preview().Pixels, []byte{9, 8, 7, 6}) {
		t.Errorf("pixels = %v; want [9 8 7 6]", h.Preview().Pixels)
	}

	// Mismatched length leaves the preview untouched.
	if err := h.UpdatePreviewPixels([]byte{1, 2}); err == nil {
		t.Error("UpdatePreviewPixels accepted short buffer")
	}
	if !bytes.Equal(h.Preview().Pixels, []byte{9, 8, 7, 6}) {
		t.Errorf("pixels after failed update = %v; want [9 8 7 6]", h.Preview().Pixels)
	}
}

func TestHeaderEraseAbsent(t *testing.T) {
	h := DefaultHeader()
	n := len(h.Attributes())
	h.Erase("doesNotExist")
	if len(h.Attributes()) != n {
		t.Error("erasing an absent attribute changed the header")
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := DefaultHeader()
	h.SetName("main")
	h.SetImageType(ImageTypeScanline)
	h.Insert(&Attribute{Name: "owner", Type: AttrTypeString, Value: "render farm"})
	h.Insert(&Attribute{Name: "customBlob", Type: AttributeType("secretsauce"), Value: []byte{1, 2, 3}})

	data, err := EncodeHeader(h)
	if err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	got, err := DecodeHeader(data)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}

	// Names, order, types, and values all survive.
	if !reflect.DeepEqual(got.Registry().Names(), h.Registry().Names()) {
		t.Errorf("attribute order = %v; want %v", got.Registry().Names(), h.Registry().Names())
	}
	for _, want := range h.Attributes() {
		gotAttr := got.Get(want.Name)
		if gotAttr == nil {
			t.Errorf("attribute %q missing after round trip", want.Name)
			continue
		}
		if gotAttr.Type != want.Type {
			t.Errorf("%q type = %s; want %s", want.Name, gotAttr.Type, want.Type)
		}
	}
	if got.DataWindow() != h.DataWindow() {
		t.Errorf("dataWindow = %+v; want %+v", got.DataWindow(), h.DataWindow())
	}
	if !got.HasName() || got.Name() != "main" {
		t.Errorf("name = %q; want main", got.Name())
	}
	if blob := got.Get("customBlob"); blob == nil || !bytes.Equal(blob.Value.([]byte), []byte{1, 2, 3}) {
		t.Errorf("customBlob = %+v; want raw [1 2 3]", blob)
	}

	// An unset optional attribute stays unset, it does not collapse to
	// a present zero value.
	if got.HasChunkCount() {
		t.Error("chunkCount appeared out of nowhere after round trip")
	}
}

func TestDecodeHeaderTruncated(t *testing.T) {
	data, err := EncodeHeader(DefaultHeader())
	if err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	for _, n := range []int{0, 1, 5, len(data) / 2, len(data) - 1} {
		if _, err := DecodeHeader(data[:n]); err == nil {
			t.Errorf("DecodeHeader accepted %d-byte truncation", n)
		}
	}
}
