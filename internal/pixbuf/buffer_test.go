package pixbuf

import (
	"image"
	"image/color"
	"testing"
)

func TestNew(t *testing.T) {
	buf, err := New(3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buf.Pix) != 3*2*Channels {
		t.Errorf("Expected %d bytes, got %d", 3*2*Channels, len(buf.Pix))
	}
	if err := buf.Validate(); err != nil {
		t.Errorf("Expected valid buffer, got %v", err)
	}

	if _, err := New(-1, 2); err == nil {
		t.Error("Expected error for negative width")
	}
}

func TestFromPix_LengthMismatch(t *testing.T) {
	if _, err := FromPix(2, 2, make([]byte, 15)); err == nil {
		t.Error("Expected error for mismatched pixel slice")
	}
	if _, err := FromPix(2, 2, make([]byte, 16)); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestFromImage_RoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 14, 13))
	for y := 10; y < 13; y++ {
		for x := 10; x < 14; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 10), uint8(y * 10), 7, 255})
		}
	}

	buf := FromImage(img)
	if buf.Width != 4 || buf.Height != 3 {
		t.Fatalf("Expected 4x3, got %dx%d", buf.Width, buf.Height)
	}

	i := buf.Offset(0, 0)
	if buf.Pix[i] != 100 || buf.Pix[i+1] != 100 || buf.Pix[i+2] != 7 || buf.Pix[i+3] != 255 {
		t.Errorf("Unexpected first pixel %v", buf.Pix[i:i+4])
	}

	view := buf.NRGBA()
	c := view.NRGBAAt(3, 2)
	if c.R != 130 || c.G != 120 {
		t.Errorf("Unexpected view pixel %+v", c)
	}
}

func TestClone_Independent(t *testing.T) {
	buf := Filled(2, 2, 10, 20, 30, 255)
	clone := buf.Clone()
	clone.Pix[0] = 99
	if buf.Pix[0] != 10 {
		t.Error("Expected clone to be independent of the original")
	}
}

func TestClampedOffset(t *testing.T) {
	buf := Filled(3, 3, 0, 0, 0, 255)
	if buf.ClampedOffset(-5, -5) != buf.Offset(0, 0) {
		t.Error("Expected negative coordinates to clamp to origin")
	}
	if buf.ClampedOffset(10, 1) != buf.Offset(2, 1) {
		t.Error("Expected x to clamp to the right edge")
	}
	if buf.ClampedOffset(1, 10) != buf.Offset(1, 2) {
		t.Error("Expected y to clamp to the bottom edge")
	}
}

func TestLuminance(t *testing.T) {
	testCases := []struct {
		name     string
		r, g, b  uint8
		expected float64
	}{
		{"Black", 0, 0, 0, 0},
		{"White", 255, 255, 255, 255},
		{"Red", 255, 0, 0, 0.299 * 255},
		{"Green", 0, 255, 0, 0.587 * 255},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Luminance(tc.r, tc.g, tc.b)
			if diff := got - tc.expected; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Expected %f, got %f", tc.expected, got)
			}
		})
	}
}

func TestClampByte(t *testing.T) {
	if ClampByte(-3) != 0 {
		t.Error("Expected negative values to clamp to 0")
	}
	if ClampByte(300) != 255 {
		t.Error("Expected large values to clamp to 255")
	}
	if ClampByte(127.5) != 128 {
		t.Errorf("Expected 127.5 to round to 128, got %d", ClampByte(127.5))
	}
	if ClampByte(127.4) != 127 {
		t.Errorf("Expected 127.4 to round to 127, got %d", ClampByte(127.4))
	}
}
