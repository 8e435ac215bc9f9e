package ascii

import "testing"

func TestRampGlyph(t *testing.T) {
	blocks := Ramp(" ░▒▓█") // length 5

	tests := []struct {
		name string
		b    byte
		want rune
	}{
		{name: "black", b: 0, want: ' '},
		{name: "white", b: 255, want: '█'},
		{name: "mid gray", b: 128, want: '▒'}, // floor(128/255*4) = 2
		{name: "low", b: 32, want: ' '},
		{name: "high", b: 250, want: '▓'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blocks.Glyph(tt.b); got != tt.want {
				t.Errorf("Glyph(%d) = %q, want %q", tt.b, got, tt.want)
			}
		})
	}
}

func TestRampGlyphMonotonic(t *testing.T) {
	ramp, _ := Preset("classic")

	idx := func(g rune) int {
		for i, r := range ramp {
			if r == g {
				return i
			}
		}
		return -1
	}

	prev := -1
	for b := 0; b <= 255; b++ {
		cur := idx(ramp.Glyph(byte(b)))
		if cur < prev {
			t.Fatalf("mapping not monotonic at b=%d: index %d after %d", b, cur, prev)
		}
		prev = cur
	}
	if last := idx(ramp.Glyph(255)); last != len(ramp)-1 {
		t.Errorf("Glyph(255) index = %d, want %d", last, len(ramp)-1)
	}
}

func TestRampValidate(t *testing.T) {
	tests := []struct {
		name    string
		ramp    Ramp
		wantErr bool
	}{
		{name: "two glyphs", ramp: Ramp(" #"), wantErr: false},
		{name: "single glyph", ramp: Ramp("#"), wantErr: true},
		{name: "empty", ramp: Ramp(""), wantErr: true},
		{name: "wide glyph", ramp: Ramp(" 全"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ramp.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames {
		t.Run(name, func(t *testing.T) {
			ramp, ok := Preset(name)
			if !ok {
				t.Fatalf("Preset(%q) not found", name)
			}
			if err := ramp.Validate(); err != nil {
				t.Errorf("preset %q invalid: %v", name, err)
			}
		})
	}

	if _, ok := Preset("nope"); ok {
		t.Error("Preset(nope) should not exist")
	}
}
