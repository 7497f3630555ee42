package romloader

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// extractFromGzip handles both tar.gz bundles and a single gzipped ROM.
func extractFromGzip(path string, extensions []string) (ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return ROM{}, fmt.Errorf("failed to open gzip: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return ROM{}, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return extractFromTar(gr, extensions)
	}

	data, err := limitedRead(gr)
	if err != nil {
		return ROM{}, fmt.Errorf("failed to decompress gzip: %w", err)
	}
	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-3]
	}
	return ROM{Name: name, Data: data}, nil
}
