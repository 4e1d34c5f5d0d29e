package store

import (
	"fmt"
	"os"
	"strings"
)

// WriteDOIList writes the collection's canonical DOIs, one per line.
func WriteDOIList(path string, dois []string) error {
	content := strings.Join(dois, "\n")
	if len(dois) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadDOIList reads a DOI list written by WriteDOIList.
func ReadDOIList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var dois []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			dois = append(dois, line)
		}
	}
	return dois, nil
}
