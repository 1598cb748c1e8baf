package imf

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/scott-wilson/go-imf/internal/xdr"
)

// Preview is a small 8-bit RGBA preview of the image, stored as the
// "preview" attribute.
//
// The preview is the one attribute writers may rewrite in place while
// streaming pixel chunks; see Header.UpdatePreviewPixels. Callers
// must not read it concurrently with such updates.
type Preview struct {
	Width  uint32
	Height uint32
	Pixels []byte // RGBA, 8 bits per channel, length = Width * Height * 4
}

// GeneratePreview scales img to fit within maxWidth x maxHeight,
// preserving aspect ratio, and returns it as an 8-bit RGBA preview.
// Returns nil for an empty source or non-positive bounds.
func GeneratePreview(img image.Image, maxWidth, maxHeight int) *Preview {
	srcWidth := img.Bounds().Dx()
	srcHeight := img.Bounds().Dy()
	if srcWidth <= 0 || srcHeight <= 0 || maxWidth <= 0 || maxHeight <= 0 {
		return nil
	}

	w, h := previewSize(srcWidth, srcHeight, maxWidth, maxHeight)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	// NRGBA Pix layout matches the on-disk preview layout directly.
	pixels := make([]byte, w*h*4)
	copy(pixels, dst.Pix)

	return &Preview{
		Width:  uint32(w),
		Height: uint32(h),
		Pixels: pixels,
	}
}

// previewSize computes the preview dimensions preserving aspect
// ratio. Sources already within the bounds keep their size.
func previewSize(srcWidth, srcHeight, maxWidth, maxHeight int) (int, int) {
	if srcWidth <= maxWidth && srcHeight <= maxHeight {
		return srcWidth, srcHeight
	}

	scaleX := float64(maxWidth) / float64(srcWidth)
	scaleY := float64(maxHeight) / float64(srcHeight)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}

	w := int(float64(srcWidth) * scale)
	h := int(float64(srcHeight) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// ToImage converts the preview to an image.NRGBA for display.
// Returns nil for an empty preview.
func (p *Preview) ToImage() *image.NRGBA {
	if p == nil || p.Width == 0 || p.Height == 0 {
		return nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, int(p.Width), int(p.Height)))
	copy(img.Pix, p.Pixels)
	return img
}

// ReadPreview reads a Preview from the reader.
func ReadPreview(r *xdr.Reader) (Preview, error) {
	var p Preview
	var err error
	p.Width, err = r.ReadUint32()
	if err != nil {
		return p, err
	}
	p.Height, err = r.ReadUint32()
	if err != nil {
		return p, err
	}
	pixelSize := int(p.Width) * int(p.Height) * 4
	p.Pixels, err = r.ReadBytes(pixelSize)
	return p, err
}

// WritePreview writes a Preview to the writer.
func WritePreview(w *xdr.BufferWriter, p Preview) {
	w.WriteUint32(p.Width)
	w.WriteUint32(p.Height)
	w.WriteBytes(p.Pixels)
}
