package imf

import (
	"reflect"
	"testing"

	"github.com/scott-wilson/go-imf/internal/xdr"
)

func TestPixelTypeSize(t *testing.T) {
	tests := []struct {
		pt   PixelType
		want int
	}{
		{PixelTypeUint, 4},
		{PixelTypeHalf, 2},
		{PixelTypeFloat, 4},
		{PixelType(99), 0},
	}
	for _, tt := range tests {
		if got := tt.pt.Size(); got != tt.want {
			t.Errorf("%v.Size() = %d; want %d", tt.pt, got, tt.want)
		}
	}
}

func TestChannelListAdd(t *testing.T) {
	cl := NewChannelList()
	if !cl.Add(NewChannel("R", PixelTypeHalf)) {
		t.Fatal("Add(R) failed")
	}
	if cl.Add(NewChannel("R", PixelTypeFloat)) {
		t.Error("Add accepted duplicate channel name")
	}
	if cl.Len() != 1 {
		t.Errorf("Len = %d; want 1", cl.Len())
	}

	ch := cl.Get("R")
	if ch == nil {
		t.Fatal("Get(R) = nil")
	}
	if ch.Type != PixelTypeHalf || ch.XSampling != 1 || ch.YSampling != 1 {
		t.Errorf("channel = %+v; want half with 1x1 sampling", ch)
	}
	if cl.Get("G") != nil {
		t.Error("Get returned channel for absent name")
	}
}

func TestChannelLayers(t *testing.T) {
	cl := NewChannelList()
	cl.Add(NewChannel("R", PixelTypeHalf))
	cl.Add(NewChannel("diffuse.R", PixelTypeHalf))
	cl.Add(NewChannel("diffuse.G", PixelTypeHalf))
	cl.Add(NewChannel("specular.highlight.R", PixelTypeHalf))

	if want := []string{"diffuse", "specular.highlight"}; !reflect.DeepEqual(cl.Layers(), want) {
		t.Errorf("Layers = %v; want %v", cl.Layers(), want)
	}

	root := cl.ChannelsInLayer("")
	if len(root) != 1 || root[0].Name != "R" {
		t.Errorf("root layer = %+v; want [R]", root)
	}
	diffuse := cl.ChannelsInLayer("diffuse")
	if len(diffuse) != 2 {
		t.Errorf("diffuse layer has %d channels; want 2", len(diffuse))
	}

	c := Channel{Name: "specular.highlight.R"}
	if c.Layer() != "specular.highlight" || c.BaseName() != "R" {
		t.Errorf("Layer/BaseName = %q/%q; want specular.highlight/R", c.Layer(), c.BaseName())
	}
}

func TestChannelListSortByName(t *testing.T) {
	cl := NewChannelList()
	cl.Add(NewChannel("B", PixelTypeHalf))
	cl.Add(NewChannel("A", PixelTypeHalf))
	cl.Add(NewChannel("G", PixelTypeHalf))
	cl.Add(NewChannel("R", PixelTypeHalf))

	cl.SortByName()
	if want := []string{"A", "B", "G", "R"}; !reflect.DeepEqual(cl.Names(), want) {
		t.Errorf("Names after sort = %v; want %v", cl.Names(), want)
	}
}

func TestChannelListSizes(t *testing.T) {
	cl := NewChannelList()
	cl.Add(NewChannel("R", PixelTypeHalf))
	cl.Add(NewChannel("G", PixelTypeHalf))
	cl.Add(NewChannel("Z", PixelTypeFloat))

	if got := cl.BytesPerPixel(); got != 8 {
		t.Errorf("BytesPerPixel = %d; want 8", got)
	}
	if got := cl.BytesPerScanline(100); got != 800 {
		t.Errorf("BytesPerScanline(100) = %d; want 800", got)
	}

	sub := NewChannelList()
	sub.Add(Channel{Name: "BY", Type: PixelTypeHalf, XSampling: 2, YSampling: 2})
	if got := sub.BytesPerScanline(100); got != 100 {
		t.Errorf("subsampled BytesPerScanline(100) = %d; want 100", got)
	}
}

func TestChannelListWireRoundTrip(t *testing.T) {
	cl := NewChannelList()
	cl.Add(Channel{Name: "R", Type: PixelTypeHalf, XSampling: 1, YSampling: 1})
	cl.Add(Channel{Name: "Y", Type: PixelTypeHalf, XSampling: 1, YSampling: 1, PLinear: true})
	cl.Add(Channel{Name: "BY", Type: PixelTypeHalf, XSampling: 2, YSampling: 2})

	w := xdr.NewBufferWriter(128)
	WriteChannelList(w, cl)

	got, err := ReadChannelList(xdr.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("ReadChannelList: %v", err)
	}
	if !reflect.DeepEqual(got.Channels(), cl.Channels()) {
		t.Errorf("channels = %+v; want %+v", got.Channels(), cl.Channels())
	}
}

func TestReadChannelListRejectsDuplicates(t *testing.T) {
	// Encode two channels with the same name by hand.
	w := xdr.NewBufferWriter(64)
	for i := 0; i < 2; i++ {
		w.WriteString("R")
		w.WriteInt32(int32(PixelTypeHalf))
		w.WriteByte(0)
		w.WriteByte(0)
		w.WriteByte(0)
		w.WriteByte(0)
		w.WriteInt32(1)
		w.WriteInt32(1)
	}
	w.WriteByte(0)

	if _, err := ReadChannelList(xdr.NewReader(w.Bytes())); err == nil {
		t.Error("ReadChannelList accepted duplicate channel names")
	}
}
