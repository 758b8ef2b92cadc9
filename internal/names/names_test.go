package names

import "testing"

func TestSplitDuplicate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		base    string
		suffix  string
	}{
		{"no suffix", "IMG_0001", "IMG_0001", ""},
		{"simple suffix", "IMG_0001(1)", "IMG_0001", "(1)"},
		{"multi digit", "IMG_0001(12)", "IMG_0001", "(12)"},
		{"trailing space before suffix", "IMG_0001 (2)", "IMG_0001", "(2)"},
		{"parens mid name", "holiday (2019) trip", "holiday (2019) trip", ""},
		{"nested counters keep inner", "a(1)(2)", "a(1)", "(2)"},
		{"empty parens not a counter", "shot()", "shot()", ""},
		{"empty string", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, suffix := SplitDuplicate(tt.input)
			if base != tt.base || suffix != tt.suffix {
				t.Errorf("SplitDuplicate(%q) = (%q, %q), want (%q, %q)", tt.input, base, suffix, tt.base, tt.suffix)
			}
		})
	}
}

func TestDuplicateIndex(t *testing.T) {
	tests := []struct {
		suffix string
		want   int
	}{
		{"", 0},
		{"(1)", 1},
		{"(42)", 42},
	}

	for _, tt := range tests {
		if got := DuplicateIndex(tt.suffix); got != tt.want {
			t.Errorf("DuplicateIndex(%q) = %d, want %d", tt.suffix, got, tt.want)
		}
	}
}

func TestIsMedia(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"IMG_0001.jpg", true},
		{"IMG_0001.JPG", true},
		{"clip.MOV", true},
		{"clip.mp4", true},
		{"scan.tiff", true},
		{"live.HEIC", true},
		{"IMG_0001.jpg.supplemental-metadata.json", false},
		{"notes.txt", false},
		{"archive.zip", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := IsMedia(tt.filename); got != tt.want {
			t.Errorf("IsMedia(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestIsSidecar(t *testing.T) {
	if !IsSidecar("IMG_0001.jpg.supplemental-metadata.json") {
		t.Error("expected sidecar for .json file")
	}
	if !IsSidecar("metadata.JSON") {
		t.Error("expected sidecar for upper-case extension")
	}
	if IsSidecar("IMG_0001.jpg") {
		t.Error("media file classified as sidecar")
	}
}

func TestCanonical(t *testing.T) {
	got := Canonical("IMG_0001", "(1)", ".jpg")
	want := "IMG_0001(1).jpg.supplemental-metadata.json"
	if got != want {
		t.Errorf("Canonical() = %q, want %q", got, want)
	}

	got = Canonical("IMG_0001", "", ".jpg")
	want = "IMG_0001.jpg.supplemental-metadata.json"
	if got != want {
		t.Errorf("Canonical() = %q, want %q", got, want)
	}
}
