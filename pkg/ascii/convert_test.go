package ascii

import (
	"strings"
	"testing"
	"time"

	"github.com/teslashibe/termcam/pkg/frame"
)

var testRamp = Ramp(" ░▒▓█")

func gridRows(t *testing.T, grid string, wantW, wantH int) []string {
	t.Helper()
	rows := strings.Split(grid, "\n")
	if len(rows) != wantH {
		t.Fatalf("grid has %d rows, want %d", len(rows), wantH)
	}
	for i, row := range rows {
		if n := len([]rune(row)); n != wantW {
			t.Fatalf("row %d has %d glyphs, want %d", i, n, wantW)
		}
	}
	return rows
}

func TestConvertRawFastPath(t *testing.T) {
	c := NewConverter()

	// 4x2 raw frame: one full dark row, one full bright row.
	f := frame.Frame{
		Bytes:          []byte{0, 0, 0, 0, 255, 255, 255, 255},
		Width:          4,
		Height:         2,
		Representation: frame.RawGrayscale,
		CapturedAt:     time.Now(),
	}

	rows := gridRows(t, c.Convert(f, 4, 2, testRamp), 4, 2)
	if rows[0] != "    " {
		t.Errorf("dark row = %q, want four spaces", rows[0])
	}
	if rows[1] != "████" {
		t.Errorf("bright row = %q, want four full blocks", rows[1])
	}
}

func TestConvertRawGradient(t *testing.T) {
	c := NewConverter()

	f := frame.Frame{
		Bytes:          []byte{0, 64, 128, 192, 255},
		Width:          5,
		Height:         1,
		Representation: frame.RawGrayscale,
	}

	got := c.Convert(f, 5, 1, testRamp)
	want := " ░▒▓█"
	if got != want {
		t.Errorf("gradient = %q, want %q", got, want)
	}
}

func TestConvertMalformedEncodedFrame(t *testing.T) {
	c := NewConverter()

	f := frame.Frame{
		Bytes:          []byte("definitely not a jpeg"),
		Width:          640,
		Height:         480,
		Representation: frame.EncodedImage,
	}

	grid := c.Convert(f, 20, 5, testRamp)
	gridRows(t, grid, 20, 5)
	if !strings.Contains(grid, "frame unavailable") {
		t.Error("placeholder should carry a readable error indicator")
	}
}

func TestConvertRawSizeMismatchFallsBack(t *testing.T) {
	c := NewConverter()

	// Raw bytes from a stale resolution must not be mapped directly;
	// they cannot decode either, so the placeholder shows up.
	f := frame.Frame{
		Bytes:          make([]byte, 100),
		Width:          10,
		Height:         10,
		Representation: frame.RawGrayscale,
	}

	grid := c.Convert(f, 8, 4, testRamp)
	gridRows(t, grid, 8, 4)
	if !strings.Contains(grid, "frame unavailable") {
		t.Error("mismatched raw frame should render the placeholder")
	}
}

func TestConvertDegenerateArgs(t *testing.T) {
	c := NewConverter()
	f := frame.Frame{Bytes: []byte{1}, Width: 1, Height: 1, Representation: frame.RawGrayscale}

	if got := c.Convert(f, 0, 5, testRamp); got != "" {
		t.Errorf("zero width should yield empty output, got %q", got)
	}
	if got := c.Convert(f, 5, 0, testRamp); got != "" {
		t.Errorf("zero height should yield empty output, got %q", got)
	}
	if got := c.Convert(f, 1, 1, Ramp("#")); got != "" {
		t.Errorf("degenerate ramp should yield empty output, got %q", got)
	}
}

func TestPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		msg  string
	}{
		{name: "roomy", w: 40, h: 10, msg: "frame unavailable"},
		{name: "tight", w: 5, h: 1, msg: "frame unavailable"},
		{name: "tall narrow", w: 3, h: 9, msg: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := Placeholder(tt.w, tt.h, tt.msg)
			rows := gridRows(t, grid, tt.w, tt.h)

			mid := rows[tt.h/2]
			if tt.w >= len(tt.msg)+4 && !strings.Contains(mid, tt.msg) {
				t.Errorf("middle row %q should contain %q", mid, tt.msg)
			}
		})
	}
}

func BenchmarkConvertRaw(b *testing.B) {
	c := NewConverter()
	w, h := 160, 48
	pixels := make([]byte, w*h)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	f := frame.Frame{Bytes: pixels, Width: w, Height: h, Representation: frame.RawGrayscale}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Convert(f, w, h, testRamp)
	}
}
