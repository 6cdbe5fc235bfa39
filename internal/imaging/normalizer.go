package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MIMEJPEG is the canonical media type every normalized image carries.
const MIMEJPEG = "image/jpeg"

const (
	DefaultMaxDimension = 1600
	DefaultJPEGQuality  = 90
)

// RawImage is an uploaded photo exactly as the capture device handed it over:
// opaque bytes plus whatever media type and name the device declared.
type RawImage struct {
	Data     []byte
	MIME     string
	Filename string
}

// Options bounds the normalization output.
type Options struct {
	// MaxDimension caps the longest pixel side. Images already within the cap
	// are never upscaled.
	MaxDimension int
	// Quality is the JPEG encoder quality factor (1-100).
	Quality int
}

func (o Options) withDefaults() Options {
	if o.MaxDimension <= 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultJPEGQuality
	}
	return o
}

// Normalize decodes a raw photo, downscales it so the longest side fits
// opts.MaxDimension, and re-encodes it as JPEG regardless of the source
// format, so device-specific formats never reach the provider. The result is
// a data URL ready for transport.
//
// A photo that cannot be decoded is passed through unchanged under its
// declared media type: normalization degrades gracefully instead of blocking
// the upload.
func Normalize(raw RawImage, opts Options) string {
	opts = opts.withDefaults()

	src, _, err := image.Decode(bytes.NewReader(raw.Data))
	if err != nil {
		return FormatDataURL(raw.MIME, raw.Data)
	}

	src = downscale(src, opts.MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return FormatDataURL(raw.MIME, raw.Data)
	}
	return FormatDataURL(MIMEJPEG, buf.Bytes())
}

// NormalizeAll normalizes a batch in order; output order matches input order.
func NormalizeAll(raws []RawImage, opts Options) []string {
	out := make([]string, len(raws))
	for i, raw := range raws {
		out[i] = Normalize(raw, opts)
	}
	return out
}

func downscale(src image.Image, maxDim int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxDim {
		return src
	}
	scale := float64(maxDim) / float64(longest)
	tw := int(float64(w)*scale + 0.5)
	th := int(float64(h)*scale + 0.5)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
