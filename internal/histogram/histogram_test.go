package histogram

import (
	"testing"

	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
)

func TestLuminance_UniformGray(t *testing.T) {
	buf := pixbuf.Filled(10, 10, 128, 128, 128, 255)
	h := Luminance(buf)

	if h[128] != 100 {
		t.Errorf("Expected all 100 pixels in bin 128, got %d", h[128])
	}
	if h.Total() != 100 {
		t.Errorf("Expected total 100, got %d", h.Total())
	}
}

func TestOf_Channel(t *testing.T) {
	buf := pixbuf.Filled(4, 4, 200, 50, 10, 255)

	if h := Of(buf, Red); h[200] != 16 {
		t.Errorf("Expected red bin 200 to hold 16, got %d", h[200])
	}
	if h := Of(buf, Green); h[50] != 16 {
		t.Errorf("Expected green bin 50 to hold 16, got %d", h[50])
	}
	if h := Of(buf, Blue); h[10] != 16 {
		t.Errorf("Expected blue bin 10 to hold 16, got %d", h[10])
	}
}

func TestTrimmedRange(t *testing.T) {
	var h Histogram
	// One outlier at each extreme among 1000 pixels is below the 1% cut
	h[0] = 1
	h[255] = 1
	h[40] = 499
	h[210] = 499

	min, max := h.TrimmedRange(DefaultTrim)
	if min != 40 {
		t.Errorf("Expected trimmed min 40, got %d", min)
	}
	if max != 210 {
		t.Errorf("Expected trimmed max 210, got %d", max)
	}
}

func TestTrimmedRange_Flat(t *testing.T) {
	var h Histogram
	h[77] = 500

	min, max := h.TrimmedRange(DefaultTrim)
	if min != 77 || max != 77 {
		t.Errorf("Expected (77, 77), got (%d, %d)", min, max)
	}
	if Span(min, max) != 1 {
		t.Errorf("Expected flat span to be treated as 1, got %d", Span(min, max))
	}
}

func TestTrimmedRange_Empty(t *testing.T) {
	var h Histogram
	min, max := h.TrimmedRange(DefaultTrim)
	if min != 0 || max != 0 {
		t.Errorf("Expected (0, 0) for empty histogram, got (%d, %d)", min, max)
	}
}

func TestStretchTable(t *testing.T) {
	lut := StretchTable(50, 150)
	if lut[50] != 0 {
		t.Errorf("Expected min to map to 0, got %d", lut[50])
	}
	if lut[150] != 255 {
		t.Errorf("Expected max to map to 255, got %d", lut[150])
	}
	if lut[10] != 0 || lut[250] != 255 {
		t.Error("Expected values outside the range to clamp")
	}
	if lut[100] != 128 {
		t.Errorf("Expected midpoint to map to 128, got %d", lut[100])
	}
}

func TestStretchTable_IdentityCases(t *testing.T) {
	for _, r := range [][2]int{{0, 255}, {90, 90}, {120, 60}} {
		lut := StretchTable(r[0], r[1])
		for v := 0; v < Bins; v++ {
			if int(lut[v]) != v {
				t.Fatalf("range %v: expected identity at %d, got %d", r, v, lut[v])
			}
		}
	}
}
