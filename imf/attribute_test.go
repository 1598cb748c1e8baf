package imf

import (
	"reflect"
	"testing"

	"github.com/scott-wilson/go-imf/internal/xdr"
)

func roundTripAttribute(t *testing.T, attr *Attribute) *Attribute {
	t.Helper()
	w := xdr.NewBufferWriter(256)
	if err := WriteAttribute(w, attr); err != nil {
		t.Fatalf("WriteAttribute(%s): %v", attr.Name, err)
	}
	got, err := ReadAttribute(xdr.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadAttribute(%s): %v", attr.Name, err)
	}
	if got == nil {
		t.Fatalf("ReadAttribute(%s) hit terminator", attr.Name)
	}
	return got
}

func TestAttributeRoundTrip(t *testing.T) {
	tests := []*Attribute{
		{Name: "dataWindow", Type: AttrTypeBox2i,
			Value: Box2i{Min: V2i{0, 0}, Max: V2i{1919, 1079}}},
		{Name: "pixelAspectRatio", Type: AttrTypeFloat, Value: float32(1.0)},
		{Name: "chunkCount", Type: AttrTypeInt, Value: int32(17)},
		{Name: "gamma", Type: AttrTypeDouble, Value: 2.2},
		{Name: "comments", Type: AttrTypeString, Value: "rendered overnight"},
		{Name: "compression", Type: AttrTypeCompression, Value: CompressionPIZ},
		{Name: "lineOrder", Type: AttrTypeLineOrder, Value: LineOrderDecreasingY},
		{Name: "envmap", Type: AttrTypeEnvmap, Value: EnvMapCube},
		{Name: "center", Type: AttrTypeV2f, Value: V2f{0.5, -0.5}},
		{Name: "offset", Type: AttrTypeV2i, Value: V2i{3, 4}},
		{Name: "position", Type: AttrTypeV3f, Value: V3f{1, 2, 3}},
		{Name: "fps", Type: AttrTypeRational, Value: Rational{Num: 24000, Denom: 1001}},
		{Name: "multiView", Type: AttrTypeStringVector, Value: []string{"left", "right"}},
		{Name: "weights", Type: AttrTypeFloatVector, Value: FloatVector{0.25, 0.5, 0.25}},
		{Name: "tiles", Type: AttrTypeTileDesc,
			Value: TileDescription{XSize: 64, YSize: 64, Mode: LevelModeMipmap, RoundingMode: LevelRoundUp}},
		{Name: "chromaticities", Type: AttrTypeChromaticities, Value: DefaultChromaticities()},
		{Name: "worldToNDC", Type: AttrTypeM44f, Value: Identity44()},
	}
	for _, attr := range tests {
		t.Run(attr.Name, func(t *testing.T) {
			got := roundTripAttribute(t, attr)
			if got.Name != attr.Name || got.Type != attr.Type {
				t.Errorf("identity = %s/%s; want %s/%s", got.Name, got.Type, attr.Name, attr.Type)
			}
			if !reflect.DeepEqual(got.Value, attr.Value) {
				t.Errorf("value = %#v; want %#v", got.Value, attr.Value)
			}
		})
	}
}

func TestChannelListAttributeRoundTrip(t *testing.T) {
	cl := NewChannelList()
	cl.Add(NewChannel("R", PixelTypeHalf))
	cl.Add(NewChannel("G", PixelTypeHalf))
	cl.Add(Channel{Name: "Z", Type: PixelTypeFloat, XSampling: 2, YSampling: 2})

	got := roundTripAttribute(t, &Attribute{Name: "channels", Type: AttrTypeChlist, Value: cl})
	gotCL := got.Value.(*ChannelList)
	if !reflect.DeepEqual(gotCL.Channels(), cl.Channels()) {
		t.Errorf("channels = %+v; want %+v", gotCL.Channels(), cl.Channels())
	}
}

func TestUnknownTypePreserved(t *testing.T) {
	// Attributes of types this library does not know must survive a
	// read/write cycle byte for byte.
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x42}
	attr := &Attribute{Name: "futureAttr", Type: AttributeType("futuretype"), Value: payload}

	got := roundTripAttribute(t, attr)
	if got.Type != "futuretype" {
		t.Errorf("type = %s; want futuretype", got.Type)
	}
	if !reflect.DeepEqual(got.Value, payload) {
		t.Errorf("payload = %v; want %v", got.Value, payload)
	}
}

func TestReadAttributeTerminator(t *testing.T) {
	attr, err := ReadAttribute(xdr.NewReader([]byte{0}))
	if err != nil {
		t.Fatalf("ReadAttribute: %v", err)
	}
	if attr != nil {
		t.Errorf("ReadAttribute at terminator = %+v; want nil", attr)
	}
}

func TestReadAttributeNegativeSize(t *testing.T) {
	w := xdr.NewBufferWriter(32)
	w.WriteString("bad")
	w.WriteString("int")
	w.WriteInt32(-4)

	if _, err := ReadAttribute(xdr.NewReader(w.Bytes())); err == nil {
		t.Error("ReadAttribute accepted negative payload size")
	}
}

func TestTileDescriptionModeByte(t *testing.T) {
	// Level mode and rounding mode share one byte: mode in the low
	// nibble, rounding in the high nibble.
	w := xdr.NewBufferWriter(16)
	writeTileDescription(w, TileDescription{
		XSize: 32, YSize: 16, Mode: LevelModeRipmap, RoundingMode: LevelRoundUp,
	})

	data := w.Bytes()
	if len(data) != 9 {
		t.Fatalf("encoded size = %d; want 9", len(data))
	}
	if data[8] != 0x12 {
		t.Errorf("mode byte = %#x; want 0x12", data[8])
	}

	td, err := readTileDescription(xdr.NewReader(data))
	if err != nil {
		t.Fatalf("readTileDescription: %v", err)
	}
	if td.Mode != LevelModeRipmap || td.RoundingMode != LevelRoundUp {
		t.Errorf("decoded modes = %v/%v; want ripmap/round up", td.Mode, td.RoundingMode)
	}
}

func TestStringVectorOverrun(t *testing.T) {
	// A declared entry length that runs past the attribute payload is
	// rejected rather than read from the following attribute.
	w := xdr.NewBufferWriter(16)
	w.WriteInt32(100)
	w.WriteBytes([]byte("abc"))

	if _, err := readStringVector(xdr.NewReader(w.Bytes()), 7); err == nil {
		t.Error("readStringVector accepted overrunning entry")
	}
}
