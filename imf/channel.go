package imf

import (
	"errors"
	"sort"
	"strings"

	"github.com/scott-wilson/go-imf/internal/xdr"
)

// PixelType identifies the data format of a channel's samples.
// The numeric values are the on-disk codes.
type PixelType int32

const (
	// PixelTypeUint is a 32-bit unsigned integer.
	PixelTypeUint PixelType = 0
	// PixelTypeHalf is a 16-bit IEEE 754-2008 half-precision float.
	PixelTypeHalf PixelType = 1
	// PixelTypeFloat is a 32-bit IEEE 754 float.
	PixelTypeFloat PixelType = 2
)

// String returns a string representation of the pixel type.
func (pt PixelType) String() string {
	switch pt {
	case PixelTypeUint:
		return "uint"
	case PixelTypeHalf:
		return "half"
	case PixelTypeFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Size returns the size in bytes of one sample, or 0 for an
// unrecognized type.
func (pt PixelType) Size() int {
	switch pt {
	case PixelTypeUint, PixelTypeFloat:
		return 4
	case PixelTypeHalf:
		return 2
	default:
		return 0
	}
}

// Channel describes a single image channel.
type Channel struct {
	Name      string
	Type      PixelType
	XSampling int32
	YSampling int32
	PLinear   bool
}

// NewChannel creates a channel with 1x1 sampling.
func NewChannel(name string, pt PixelType) Channel {
	return Channel{
		Name:      name,
		Type:      pt,
		XSampling: 1,
		YSampling: 1,
	}
}

// Layer returns the layer portion of the channel name, or "" for a
// channel in the root layer. For "diffuse.R" the layer is "diffuse".
func (c Channel) Layer() string {
	i := strings.LastIndex(c.Name, ".")
	if i < 0 {
		return ""
	}
	return c.Name[:i]
}

// BaseName returns the channel name without its layer prefix.
func (c Channel) BaseName() string {
	i := strings.LastIndex(c.Name, ".")
	if i < 0 {
		return c.Name
	}
	return c.Name[i+1:]
}

// ChannelList is an ordered set of uniquely named channels.
type ChannelList struct {
	channels []Channel
}

// NewChannelList creates an empty channel list.
func NewChannelList() *ChannelList {
	return &ChannelList{}
}

// Add appends a channel. Returns false if a channel with the same
// name already exists.
func (cl *ChannelList) Add(c Channel) bool {
	if cl.Get(c.Name) != nil {
		return false
	}
	cl.channels = append(cl.channels, c)
	return true
}

// Get returns the channel with the given name, or nil.
func (cl *ChannelList) Get(name string) *Channel {
	for i := range cl.channels {
		if cl.channels[i].Name == name {
			return &cl.channels[i]
		}
	}
	return nil
}

// At returns the channel at index i.
func (cl *ChannelList) At(i int) Channel {
	return cl.channels[i]
}

// Len returns the number of channels.
func (cl *ChannelList) Len() int {
	return len(cl.channels)
}

// Names returns the channel names in list order.
func (cl *ChannelList) Names() []string {
	names := make([]string, len(cl.channels))
	for i, c := range cl.channels {
		names[i] = c.Name
	}
	return names
}

// Channels returns a copy of the channels in list order.
func (cl *ChannelList) Channels() []Channel {
	result := make([]Channel, len(cl.channels))
	copy(result, cl.channels)
	return result
}

// SortByName sorts the channels alphabetically, the order the file
// format stores them in.
func (cl *ChannelList) SortByName() {
	sort.Slice(cl.channels, func(i, j int) bool {
		return cl.channels[i].Name < cl.channels[j].Name
	})
}

// Layers returns the distinct non-root layer names.
func (cl *ChannelList) Layers() []string {
	seen := make(map[string]bool)
	layers := []string{}
	for _, c := range cl.channels {
		l := c.Layer()
		if l != "" && !seen[l] {
			seen[l] = true
			layers = append(layers, l)
		}
	}
	return layers
}

// ChannelsInLayer returns the channels whose layer equals layer.
// Pass "" for the root layer.
func (cl *ChannelList) ChannelsInLayer(layer string) []Channel {
	result := []Channel{}
	for _, c := range cl.channels {
		if c.Layer() == layer {
			result = append(result, c)
		}
	}
	return result
}

// BytesPerPixel returns the total sample size of all channels,
// ignoring subsampling.
func (cl *ChannelList) BytesPerPixel() int {
	total := 0
	for _, c := range cl.channels {
		total += c.Type.Size()
	}
	return total
}

// BytesPerScanline returns the storage size of one scanline of the
// given width, accounting for X subsampling.
func (cl *ChannelList) BytesPerScanline(width int) int {
	total := 0
	for _, c := range cl.channels {
		n := width
		if c.XSampling > 1 {
			n = width / int(c.XSampling)
		}
		total += n * c.Type.Size()
	}
	return total
}

// ReadChannelList reads a channel list from the reader. The list is
// terminated by an empty channel name.
func ReadChannelList(r *xdr.Reader) (*ChannelList, error) {
	cl := NewChannelList()
	for {
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		if name == "" {
			return cl, nil
		}

		var c Channel
		c.Name = name

		pt, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		c.Type = PixelType(pt)

		pLinear, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		c.PLinear = pLinear != 0

		// Three reserved bytes.
		if err := r.Skip(3); err != nil {
			return nil, err
		}

		c.XSampling, err = r.ReadInt32()
		if err != nil {
			return nil, err
		}
		c.YSampling, err = r.ReadInt32()
		if err != nil {
			return nil, err
		}

		if !cl.Add(c) {
			return nil, errors.New("imf: duplicate channel name " + name)
		}
	}
}

// WriteChannelList writes a channel list to the writer, terminated by
// an empty name.
func WriteChannelList(w *xdr.BufferWriter, cl *ChannelList) {
	for _, c := range cl.channels {
		w.WriteString(c.Name)
		w.WriteInt32(int32(c.Type))
		if c.PLinear {
			w.WriteByte(1)
		} else {
			w.WriteByte(0)
		}
		w.WriteByte(0)
		w.WriteByte(0)
		w.WriteByte(0)
		w.WriteInt32(c.XSampling)
		w.WriteInt32(c.YSampling)
	}
	w.WriteByte(0)
}
