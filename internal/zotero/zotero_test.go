package zotero

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDecodeItems(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"bare array", `[{"DOI":"10.1/a"},{"DOI":"10.1/b"}]`, 2, false},
		{"wrapper object", `{"items":[{"DOI":"10.1/a"}]}`, 1, false},
		{"single bare item", `{"DOI":"10.1/a"}`, 1, false},
		{"empty array", `[]`, 0, false},
		{"not json", `{{`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := DecodeItems([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeItems() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(items) != tt.want {
				t.Errorf("DecodeItems() returned %d items, want %d", len(items), tt.want)
			}
		})
	}
}

func TestExtractDOIs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			// Same DOI in URL form and nested bare form collapses to one.
			name:  "url and nested variants collapse",
			input: `[{"DOI":"https://doi.org/10.1/X"}, {"data":{"DOI":"10.1/X"}}]`,
			want:  []string{"10.1/x"},
		},
		{
			name:  "nested data preferred over top level",
			input: `[{"DOI":"10.1/top","data":{"DOI":"10.1/nested"}}]`,
			want:  []string{"10.1/nested"},
		},
		{
			name:  "items without doi skipped",
			input: `[{"DOI":"10.1/a"},{"title":"a note"},{"DOI":""}]`,
			want:  []string{"10.1/a"},
		},
		{
			name:  "lowercase doi key accepted",
			input: `[{"doi":"10.1/Lower"}]`,
			want:  []string{"10.1/lower"},
		},
		{
			name:  "sorted output",
			input: `[{"DOI":"10.2/b"},{"DOI":"10.1/a"},{"DOI":"10.10/c"}]`,
			want:  []string{"10.1/a", "10.10/c", "10.2/b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractDOIs([]byte(tt.input))
			if err != nil {
				t.Fatalf("ExtractDOIs() error = %v", err)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractDOIs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")
	if err := os.WriteFile(path, []byte(`{"items":[{"data":{"DOI":"doi:10.5/Q"}}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	want := []string{"10.5/q"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractFile() = %v, want %v", got, want)
	}

	if _, err := ExtractFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("ExtractFile() on missing file: expected error")
	}
}
