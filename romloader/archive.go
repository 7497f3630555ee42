package romloader

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

// indexedEntry is a member of an archive with a central directory.
type indexedEntry interface {
	FileInfo() fs.FileInfo
	Open() (io.ReadCloser, error)
}

// firstIndexedROM returns the first regular member whose name carries a
// ROM extension.
func firstIndexedROM[E indexedEntry](entries []E, extensions []string) (ROM, error) {
	for _, e := range entries {
		info := e.FileInfo()
		if !info.Mode().IsRegular() || !isROMFile(info.Name(), extensions) {
			continue
		}
		return readEntry(info.Name(), e.Open)
	}
	return ROM{}, ErrNoROMFile
}

// streamEntry describes the current member of a sequential archive.
type streamEntry struct {
	name    string
	regular bool
}

// firstStreamedROM walks a sequential archive. next advances to the
// following member and returns io.EOF after the last one; body reads the
// current member.
func firstStreamedROM(next func() (streamEntry, error), body io.Reader, extensions []string) (ROM, error) {
	for {
		entry, err := next()
		if errors.Is(err, io.EOF) {
			return ROM{}, ErrNoROMFile
		}
		if err != nil {
			return ROM{}, fmt.Errorf("failed to read archive entry: %w", err)
		}
		if !entry.regular || !isROMFile(entry.name, extensions) {
			continue
		}
		// The archive reader owns body; it is not closed per entry.
		return readEntry(entry.name, func() (io.ReadCloser, error) { return io.NopCloser(body), nil })
	}
}

func extractFromZIP(path string, extensions []string) (ROM, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return ROM{}, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()
	return firstIndexedROM(r.File, extensions)
}

func extractFrom7z(path string, extensions []string) (ROM, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return ROM{}, fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()
	return firstIndexedROM(r.File, extensions)
}

func extractFromRAR(path string, extensions []string) (ROM, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return ROM{}, fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	next := func() (streamEntry, error) {
		h, err := r.Next()
		if err != nil {
			return streamEntry{}, err
		}
		return streamEntry{name: h.Name, regular: !h.IsDir}, nil
	}
	return firstStreamedROM(next, r, extensions)
}

func extractFromTar(r io.Reader, extensions []string) (ROM, error) {
	tr := tar.NewReader(r)
	next := func() (streamEntry, error) {
		h, err := tr.Next()
		if err != nil {
			return streamEntry{}, err
		}
		return streamEntry{name: h.Name, regular: h.Typeflag == tar.TypeReg}, nil
	}
	return firstStreamedROM(next, tr, extensions)
}
