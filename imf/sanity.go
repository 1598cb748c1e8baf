package imf

import (
	"fmt"
	"math"
)

// Limits holds ceilings on image and tile dimensions. A value of 0
// means unlimited. Limiting sizes bounds how much memory a reader
// will allocate for an untrusted, possibly corrupted file before any
// pixel data is touched.
type Limits struct {
	MaxImageWidth  int32
	MaxImageHeight int32
	MaxTileWidth   int32
	MaxTileHeight  int32
}

// defaultLimits is the process-wide limit configuration consulted by
// SanityCheck. Set it once at startup; the setters are not
// synchronized against concurrent checks.
var defaultLimits Limits

// SetMaxImageSize sets the process-wide maximum data window width and
// height for subsequent SanityCheck calls. Zero means unlimited.
func SetMaxImageSize(maxWidth, maxHeight int32) {
	defaultLimits.MaxImageWidth = maxWidth
	defaultLimits.MaxImageHeight = maxHeight
}

// SetMaxTileSize sets the process-wide maximum tile width and height
// for subsequent SanityCheck calls. Zero means unlimited.
func SetMaxTileSize(maxWidth, maxHeight int32) {
	defaultLimits.MaxTileWidth = maxWidth
	defaultLimits.MaxTileHeight = maxHeight
}

// DefaultLimits returns the current process-wide limit configuration.
func DefaultLimits() Limits {
	return defaultLimits
}

// ValidationError reports the first invariant a header violates.
// Collaborators that receive one must abort before touching pixel
// data and surface the reason verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "imf: invalid header: " + e.Reason
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// SanityCheck examines the header and returns a *ValidationError
// describing the first problem found, or nil if the header is usable.
// It must be called before handing a header to any writer. The check
// is read-only and safe to repeat.
//
// isTiled declares that the header should describe tiled storage;
// isMultiPart that it belongs to a multi-part file. The process-wide
// limits installed with SetMaxImageSize and SetMaxTileSize apply.
func (h *Header) SanityCheck(isTiled, isMultiPart bool) error {
	return h.SanityCheckWithLimits(defaultLimits, isTiled, isMultiPart)
}

// SanityCheckWithLimits is SanityCheck with an explicit limit
// configuration, for callers that need deterministic validation
// independent of process-wide state.
func (h *Header) SanityCheckWithLimits(lim Limits, isTiled, isMultiPart bool) error {
	// 1. Windows: present, internally consistent, within limits.
	if !h.Has(AttrNameDisplayWindow) {
		return validationErrorf("missing displayWindow attribute")
	}
	disp := h.DisplayWindow()
	if disp.IsEmpty() {
		return validationErrorf("invalid display window: min (%d, %d) exceeds max (%d, %d)",
			disp.Min.X, disp.Min.Y, disp.Max.X, disp.Max.Y)
	}
	if !h.Has(AttrNameDataWindow) {
		return validationErrorf("missing dataWindow attribute")
	}
	dw := h.DataWindow()
	if dw.IsEmpty() {
		return validationErrorf("invalid data window: min (%d, %d) exceeds max (%d, %d)",
			dw.Min.X, dw.Min.Y, dw.Max.X, dw.Max.Y)
	}
	width := int64(dw.Max.X) - int64(dw.Min.X) + 1
	height := int64(dw.Max.Y) - int64(dw.Min.Y) + 1
	if lim.MaxImageWidth > 0 && width > int64(lim.MaxImageWidth) {
		return validationErrorf("data window width %d exceeds maximum image width %d",
			width, lim.MaxImageWidth)
	}
	if lim.MaxImageHeight > 0 && height > int64(lim.MaxImageHeight) {
		return validationErrorf("data window height %d exceeds maximum image height %d",
			height, lim.MaxImageHeight)
	}

	// 2. Pixel aspect ratio: finite and positive.
	if !h.Has(AttrNamePixelAspectRatio) {
		return validationErrorf("missing pixelAspectRatio attribute")
	}
	par := float64(h.PixelAspectRatio())
	if math.IsNaN(par) || math.IsInf(par, 0) || par <= 0 {
		return validationErrorf("pixel aspect ratio %v is not finite and positive", par)
	}

	// 3. Screen window width: finite and non-negative.
	if !h.Has(AttrNameScreenWindowWidth) {
		return validationErrorf("missing screenWindowWidth attribute")
	}
	sww := float64(h.ScreenWindowWidth())
	if math.IsNaN(sww) || math.IsInf(sww, 0) || sww < 0 {
		return validationErrorf("screen window width %v is not finite and non-negative", sww)
	}

	// 4. Channels: non-empty, unique non-empty names, positive sampling.
	cl := h.Channels()
	if cl == nil || cl.Len() == 0 {
		return validationErrorf("header contains no channels")
	}
	seen := make(map[string]bool, cl.Len())
	for i := 0; i < cl.Len(); i++ {
		c := cl.At(i)
		if c.Name == "" {
			return validationErrorf("channel %d has an empty name", i)
		}
		if seen[c.Name] {
			return validationErrorf("duplicate channel name %q", c.Name)
		}
		seen[c.Name] = true
		if c.XSampling <= 0 || c.YSampling <= 0 {
			return validationErrorf("channel %q has non-positive sampling %dx%d",
				c.Name, c.XSampling, c.YSampling)
		}
	}

	// 5. Tiling parameters.
	if isTiled {
		td := h.TileDescription()
		if td == nil {
			return validationErrorf("tiled header has no tiles attribute")
		}
		if td.XSize == 0 || td.YSize == 0 {
			return validationErrorf("tile size %dx%d is not positive", td.XSize, td.YSize)
		}
		if lim.MaxTileWidth > 0 && td.XSize > uint32(lim.MaxTileWidth) {
			return validationErrorf("tile width %d exceeds maximum tile width %d",
				td.XSize, lim.MaxTileWidth)
		}
		if lim.MaxTileHeight > 0 && td.YSize > uint32(lim.MaxTileHeight) {
			return validationErrorf("tile height %d exceeds maximum tile height %d",
				td.YSize, lim.MaxTileHeight)
		}
		if td.Mode > LevelModeRipmap {
			return validationErrorf("unrecognized tile level mode %d", td.Mode)
		}
		if td.RoundingMode > LevelRoundUp {
			return validationErrorf("unrecognized tile rounding mode %d", td.RoundingMode)
		}
	}

	// 6. Multi-part identity.
	if isMultiPart {
		if !h.HasName() || h.Name() == "" {
			return validationErrorf("multi-part header has no part name")
		}
		if !h.HasImageType() {
			return validationErrorf("multi-part header has no type attribute")
		}
		typeStr, _ := Find[string](h.attrs, AttrNameType)
		it, err := ParseImageType(typeStr)
		if err != nil {
			return validationErrorf("unrecognized image type %q", typeStr)
		}
		if it.IsTiled() && !isTiled {
			return validationErrorf("image type %q requires tiled storage", typeStr)
		}
	}

	// 7. Line order.
	lo := h.LineOrder()
	if !lo.IsValid() {
		return validationErrorf("unrecognized line order %d", lo)
	}
	if lo == LineOrderRandomY && !isTiled {
		return validationErrorf("line order random_y is only valid for tiled storage")
	}
	if !h.Compression().IsValid() {
		return validationErrorf("unrecognized compression %d", h.Compression())
	}

	return nil
}
