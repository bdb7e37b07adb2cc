// Package codec converts between encoded image files and pixel buffers.
package codec

import (
	"bytes"
	"image"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/evanoberholster/imagemeta"
	"github.com/pkg/errors"

	// Register decoders for image.DecodeConfig and imaging.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	apperrors "github.com/anime-shed/photo-enhancer/internal/errors"
	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

// MIME types of the supported output encodings
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEWebP = "image/webp"
)

// Codec decodes and encodes images, refusing anything larger than maxPixels
type Codec struct {
	maxPixels int
}

// New creates a codec. maxPixels <= 0 disables the size ceiling.
func New(maxPixels int) *Codec {
	return &Codec{maxPixels: maxPixels}
}

// Decode parses data into a buffer, applying EXIF orientation, and captures
// the source metadata.
func (c *Codec) Decode(data []byte) (*pixbuf.Buffer, models.ImageMetadata, error) {
	var meta models.ImageMetadata
	if len(data) == 0 {
		return nil, meta, apperrors.NewDecodeError("decode failed", errors.New("empty input"))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, meta, apperrors.NewDecodeError("decode failed", errors.Wrap(err, "read image header"))
	}
	if c.maxPixels > 0 && cfg.Width*cfg.Height > c.maxPixels {
		return nil, meta, apperrors.NewAllocationError(
			"image exceeds pixel limit",
			errors.Errorf("%dx%d is more than %d pixels", cfg.Width, cfg.Height, c.maxPixels))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, meta, apperrors.NewDecodeError("decode failed", errors.Wrap(err, "decode pixels"))
	}
	buf := pixbuf.FromImage(img)

	meta = models.ImageMetadata{
		Width:    buf.Width,
		Height:   buf.Height,
		Format:   format,
		ByteSize: int64(len(data)),
	}
	readEXIF(data, &meta)

	return buf, meta, nil
}

// readEXIF fills camera fields when the data carries EXIF. Missing or
// unreadable EXIF is not an error.
func readEXIF(data []byte, meta *models.ImageMetadata) {
	exifData, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil {
		return
	}
	meta.CameraMake = strings.TrimSpace(exifData.Make)
	meta.CameraModel = strings.TrimSpace(exifData.Model)
	if taken := exifData.DateTimeOriginal(); !taken.IsZero() {
		meta.CapturedAt = &taken
	}
}

// ResolveFormat maps "original" to a concrete output format based on the
// source format. Sources without an encoder here fall back to PNG.
func ResolveFormat(format models.OutputFormat, originalFormat string) models.OutputFormat {
	if format != models.FormatOriginal && format != "" {
		return format
	}
	switch strings.ToLower(originalFormat) {
	case "jpeg", "jpg":
		return models.FormatJPEG
	case "webp":
		return models.FormatWebP
	default:
		return models.FormatPNG
	}
}

// Encode writes buf in the requested format and returns the bytes and MIME
// type. quality applies to JPEG and lossy WebP.
func (c *Codec) Encode(buf *pixbuf.Buffer, format models.OutputFormat, quality int, originalFormat string) ([]byte, string, error) {
	if buf.Empty() {
		return nil, "", apperrors.NewProcessingError("encode failed", pixbuf.ErrEmpty)
	}
	if quality < 0 || quality > 100 {
		return nil, "", apperrors.NewValidationError("encode failed", errors.Errorf("quality %d is outside 0..100", quality))
	}

	img := buf.NRGBA()
	var out bytes.Buffer

	switch resolved := ResolveFormat(format, originalFormat); resolved {
	case models.FormatJPEG:
		if err := imaging.Encode(&out, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, "", apperrors.NewProcessingError("encode failed", errors.Wrap(err, "encode jpeg"))
		}
		return out.Bytes(), MIMEJPEG, nil
	case models.FormatPNG:
		if err := imaging.Encode(&out, img, imaging.PNG); err != nil {
			return nil, "", apperrors.NewProcessingError("encode failed", errors.Wrap(err, "encode png"))
		}
		return out.Bytes(), MIMEPNG, nil
	case models.FormatWebP:
		if err := webp.Encode(&out, img, &webp.Options{Quality: float32(quality), Lossless: false}); err != nil {
			return nil, "", apperrors.NewProcessingError("encode failed", errors.Wrap(err, "encode webp"))
		}
		return out.Bytes(), MIMEWebP, nil
	default:
		return nil, "", apperrors.NewValidationError("encode failed", errors.Errorf("unsupported output format %q", resolved))
	}
}

// Extension returns the file extension for a MIME type
func Extension(mimeType string) string {
	switch mimeType {
	case MIMEJPEG:
		return ".jpg"
	case MIMEWebP:
		return ".webp"
	default:
		return ".png"
	}
}
