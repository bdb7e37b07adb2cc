package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	apperrors "github.com/anime-shed/photo-enhancer/internal/errors"
	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	data := pngBytes(t, 12, 7, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	buf, meta, err := New(0).Decode(data)
	require.NoError(t, err)

	assert.Equal(t, 12, buf.Width)
	assert.Equal(t, 7, buf.Height)
	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, int64(len(data)), meta.ByteSize)
	assert.Equal(t, 12, meta.Width)
	assert.Equal(t, []byte{10, 20, 30, 255}, buf.Pix[:4])
	assert.Empty(t, meta.CameraMake)
	assert.Nil(t, meta.CapturedAt)
}

func TestDecode_BMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 4))
	var data bytes.Buffer
	require.NoError(t, bmp.Encode(&data, img))

	buf, meta, err := New(0).Decode(data.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "bmp", meta.Format)
	assert.Equal(t, 5, buf.Width)
	assert.Equal(t, 4, buf.Height)
}

func TestDecode_Garbage(t *testing.T) {
	_, _, err := New(0).Decode([]byte("definitely not an image"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDecode))

	_, _, err = New(0).Decode(nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDecode))
}

func TestDecode_PixelLimit(t *testing.T) {
	data := pngBytes(t, 20, 20, color.NRGBA{A: 255})

	_, _, err := New(399).Decode(data)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeAllocation))

	_, _, err = New(400).Decode(data)
	assert.NoError(t, err)
}

func TestResolveFormat(t *testing.T) {
	assert.Equal(t, models.FormatJPEG, ResolveFormat(models.FormatOriginal, "jpeg"))
	assert.Equal(t, models.FormatWebP, ResolveFormat("", "webp"))
	assert.Equal(t, models.FormatPNG, ResolveFormat(models.FormatOriginal, "bmp"))
	assert.Equal(t, models.FormatPNG, ResolveFormat(models.FormatOriginal, "gif"))
	assert.Equal(t, models.FormatWebP, ResolveFormat(models.FormatWebP, "jpeg"))
}

func TestEncode_RoundTrip(t *testing.T) {
	src := pixbuf.Filled(16, 16, 200, 100, 50, 255)
	c := New(0)

	tests := []struct {
		format   models.OutputFormat
		mime     string
		decoded  string
		lossless bool
	}{
		{models.FormatPNG, MIMEPNG, "png", true},
		{models.FormatJPEG, MIMEJPEG, "jpeg", false},
		{models.FormatWebP, MIMEWebP, "webp", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			data, mime, err := c.Encode(src, tt.format, 90, "png")
			require.NoError(t, err)
			assert.Equal(t, tt.mime, mime)

			buf, meta, err := c.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.decoded, meta.Format)
			assert.Equal(t, src.Width, buf.Width)
			assert.Equal(t, src.Height, buf.Height)

			if tt.lossless {
				assert.Equal(t, src.Pix, buf.Pix)
				return
			}
			centre := buf.Offset(8, 8)
			assert.InDelta(t, 200, int(buf.Pix[centre]), 8)
			assert.InDelta(t, 100, int(buf.Pix[centre+1]), 8)
			assert.InDelta(t, 50, int(buf.Pix[centre+2]), 8)
		})
	}
}

func TestEncode_OriginalFollowsSource(t *testing.T) {
	_, mime, err := New(0).Encode(pixbuf.Filled(4, 4, 1, 2, 3, 255), models.FormatOriginal, 80, "jpeg")
	require.NoError(t, err)
	assert.Equal(t, MIMEJPEG, mime)
	assert.Equal(t, ".jpg", Extension(mime))
}

func TestEncode_Invalid(t *testing.T) {
	c := New(0)

	_, _, err := c.Encode(pixbuf.Filled(4, 4, 0, 0, 0, 255), models.FormatJPEG, 101, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, _, err = c.Encode(pixbuf.Filled(4, 4, 0, 0, 0, 255), "gif", 80, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, _, err = c.Encode(&pixbuf.Buffer{}, models.FormatPNG, 80, "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeProcessing))
}
