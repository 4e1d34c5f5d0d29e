package pdfscan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindDOI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"plain doi",
			"Published online. doi 10.1093/molbev/msaa123 First page",
			"10.1093/molbev/msaa123",
		},
		{
			"trailing punctuation stripped",
			"See https://doi.org/10.1000/xyz.456. for details",
			"10.1000/xyz.456",
		},
		{
			"uppercase suffix canonicalized",
			"DOI: 10.1000/ABC",
			"10.1000/abc",
		},
		{"no doi", "An abstract with no identifiers at all", ""},
		{"bare prefix without suffix is rejected", "something 10.1234/ trailing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findDOI(tt.text); got != tt.want {
				t.Errorf("findDOI(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestScanDir_SkipsNonPDFs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("10.1000/not-scanned"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	dois, stats, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(dois) != 0 || stats.Files != 0 {
		t.Errorf("got %v papers from %d files, want none", dois, stats.Files)
	}
}

func TestScanDir_CountsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a real pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	dois, stats, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(dois) != 0 {
		t.Errorf("got %v, want no DOIs", dois)
	}
	if stats.Files != 1 || stats.Errors != 1 {
		t.Errorf("stats = %+v, want 1 file, 1 error", stats)
	}
}

func TestScanDir_MissingDirectory(t *testing.T) {
	if _, _, err := ScanDir(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
