package images

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	ico "github.com/sergeymakinen/go-ico"
)

// ImageFormat represents supported image formats
type ImageFormat string

const (
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatICO is the Windows icon container format.
	FormatICO ImageFormat = "ico"
)

// ErrUnsupportedFormat is returned when a path has no codec registered for its extension.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Codec pairs the decode and encode capability of one format.
type Codec struct {
	// Format is the format handled by this codec.
	Format ImageFormat
	// Decode reads an image from r.
	Decode func(r io.Reader) (image.Image, error)
	// Encode writes img to w.
	Encode func(w io.Writer, img image.Image) error
	// OutputExt is the extension enhanced copies of this format are written
	// with. Empty means the source extension is kept as-is.
	OutputExt string
}

// codecs is the closed set of formats the tool reads and writes.
var codecs = map[ImageFormat]Codec{
	FormatPNG: {
		Format:    FormatPNG,
		Decode:    decodeOriented,
		Encode:    encodePNG,
		OutputExt: ".png",
	},
	FormatJPEG: {
		Format: FormatJPEG,
		Decode: decodeOriented,
		// JPEG sources are re-encoded as PNG to keep the sharpened alpha.
		Encode:    encodePNG,
		OutputExt: ".png",
	},
	FormatICO: {
		Format: FormatICO,
		Decode: ico.Decode,
		Encode: ico.Encode,
	},
}

// extensions maps lowercase file extensions to their format.
var extensions = map[string]ImageFormat{
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".ico":  FormatICO,
}

func decodeOriented(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

func encodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
}

// FormatForPath returns the format registered for the extension of path.
// Matching is case-insensitive.
func FormatForPath(path string) (ImageFormat, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Extensions returns the recognised file extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// CodecFor returns the codec for a format.
func CodecFor(format ImageFormat) (Codec, error) {
	c, ok := codecs[format]
	if !ok {
		return Codec{}, errors.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}
	return c, nil
}

// OutputPath rewrites path so its extension matches what the codec writes.
// ICO keeps the original extension spelling, everything else becomes .png.
func (c Codec) OutputPath(path string) string {
	if c.OutputExt == "" {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + c.OutputExt
}

// Decode reads the image in data with the codec for format and normalises it
// to non-premultiplied RGBA.
//
// Arguments:
// - data: The raw bytes of the image file.
// - format: The format the bytes are expected to be in.
//
// Returns:
// - *image.NRGBA: The decoded four channel image.
// - error: Error if the format is unknown or decoding fails.
func Decode(data []byte, format ImageFormat) (*image.NRGBA, error) {
	c, err := CodecFor(format)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}
	img, err := c.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", format)
	}
	return ToNRGBA(img), nil
}

// Encode serialises img with the codec for format.
func Encode(img image.Image, format ImageFormat) ([]byte, error) {
	c, err := CodecFor(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := c.Encode(&buf, img); err != nil {
		return nil, errors.Wrapf(err, "encode %s", format)
	}
	return buf.Bytes(), nil
}
