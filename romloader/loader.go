// Package romloader reads ROM images from plain files or from compressed
// archives (zip, 7z, gzip, tar.gz, rar).
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxROMSize is the largest image that fits the machine's memory above
// the zero page.
const MaxROMSize = 0x10000 - 0x100

// ErrNoROMFile is returned when an archive holds no file with a ROM extension.
var ErrNoROMFile = errors.New("no ROM file found in archive")

// ErrUnsupportedFormat is returned for files that are neither a known
// archive nor carry a ROM extension.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when the ROM exceeds MaxROMSize.
var ErrFileTooLarge = errors.New("file exceeds maximum ROM size")

// ROM is a loaded image and the base name it was found under.
type ROM struct {
	Name string
	Data []byte
}

type archiveKind int

const (
	kindUnknown archiveKind = iota
	kindRaw
	kindZIP
	kind7z
	kindGzip
	kindRAR
)

// archiveFormat ties an archive kind to its signatures and extractor.
type archiveFormat struct {
	kind       archiveKind
	magic      [][]byte
	extensions []string
	extract    func(path string, extensions []string) (ROM, error)
}

var archiveFormats = []archiveFormat{
	{
		kind:       kindZIP,
		magic:      [][]byte{{0x50, 0x4B, 0x03, 0x04}, {0x50, 0x4B, 0x05, 0x06}},
		extensions: []string{".zip"},
		extract:    extractFromZIP,
	},
	{
		kind:       kindRAR,
		magic:      [][]byte{[]byte("Rar!")},
		extensions: []string{".rar"},
		extract:    extractFromRAR,
	},
	{
		kind:       kind7z,
		magic:      [][]byte{{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}},
		extensions: []string{".7z"},
		extract:    extractFrom7z,
	},
	{
		kind:       kindGzip,
		magic:      [][]byte{{0x1F, 0x8B}},
		extensions: []string{".gz", ".tgz"},
		extract:    extractFromGzip,
	},
}

// Load reads the ROM at path. Archives are detected by signature first and
// by extension second; the first entry matching one of extensions is
// returned. Plain files must carry one of extensions.
func Load(path string, extensions []string) (ROM, error) {
	header, err := readHeader(path)
	if err != nil {
		return ROM{}, err
	}

	kind := detectKind(header, path, extensions)
	if kind == kindRaw {
		f, err := os.Open(path)
		if err != nil {
			return ROM{}, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()

		data, err := limitedRead(f)
		if err != nil {
			return ROM{}, fmt.Errorf("failed to read ROM: %w", err)
		}
		return ROM{Name: filepath.Base(path), Data: data}, nil
	}

	for _, af := range archiveFormats {
		if af.kind == kind {
			return af.extract(path, extensions)
		}
	}
	return ROM{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	return header[:n], nil
}

// detectKind prefers signatures over extensions. A file that matches
// neither an archive nor a ROM extension is kindUnknown.
func detectKind(header []byte, path string, extensions []string) archiveKind {
	for _, af := range archiveFormats {
		for _, m := range af.magic {
			if bytes.HasPrefix(header, m) {
				return af.kind
			}
		}
	}

	lower := strings.ToLower(path)
	for _, af := range archiveFormats {
		for _, ext := range af.extensions {
			if strings.HasSuffix(lower, ext) {
				return af.kind
			}
		}
	}

	if isROMFile(path, extensions) {
		return kindRaw
	}
	return kindUnknown
}

// isROMFile reports whether name ends in one of extensions, ignoring case.
func isROMFile(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// limitedRead reads all of r, failing once MaxROMSize is exceeded.
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// readEntry opens one archive member and reads it as a ROM.
func readEntry(name string, open func() (io.ReadCloser, error)) (ROM, error) {
	rc, err := open()
	if err != nil {
		return ROM{}, fmt.Errorf("failed to open %s in archive: %w", name, err)
	}
	defer rc.Close()

	data, err := limitedRead(rc)
	if err != nil {
		return ROM{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return ROM{Name: filepath.Base(name), Data: data}, nil
}
