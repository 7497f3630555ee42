package romloader

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var testExtensions = []string{".rom"}

func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func zipBytes(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("Failed to write to zip: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Failed to write to gzip: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}
	return buf.Bytes()
}

func tarBytes(t *testing.T, name string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := tar.NewWriter(&buf)
	hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(data)), Typeflag: tar.TypeReg}
	if err := w.WriteHeader(hdr); err != nil {
		t.Fatalf("Failed to write tar header: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("Failed to write tar data: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close tar: %v", err)
	}
	return buf.Bytes()
}

func TestLoad_RawROM(t *testing.T) {
	data := []byte{0xa0, 0x01, 0x02, 0x80}
	path := writeTestFile(t, "demo.rom", data)

	rom, err := Load(path, testExtensions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rom.Name != "demo.rom" {
		t.Errorf("expected name demo.rom, got %q", rom.Name)
	}
	if !bytes.Equal(rom.Data, data) {
		t.Errorf("data mismatch: got %v", rom.Data)
	}
}

func TestLoad_RawROMExtensionCase(t *testing.T) {
	path := writeTestFile(t, "DEMO.ROM", []byte{1})
	if _, err := Load(path, testExtensions); err != nil {
		t.Fatalf("upper-case extension should load: %v", err)
	}
}

func TestLoad_ZipArchive(t *testing.T) {
	data := []byte{1, 2, 3}
	path := writeTestFile(t, "bundle.zip", zipBytes(t, map[string][]byte{
		"README.txt":    []byte("not a rom"),
		"roms/orca.rom": data,
	}))

	rom, err := Load(path, testExtensions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rom.Name != "orca.rom" {
		t.Errorf("expected name orca.rom, got %q", rom.Name)
	}
	if !bytes.Equal(rom.Data, data) {
		t.Errorf("data mismatch: got %v", rom.Data)
	}
}

func TestLoad_ZipWithoutROM(t *testing.T) {
	path := writeTestFile(t, "bundle.zip", zipBytes(t, map[string][]byte{
		"README.txt": []byte("nothing here"),
	}))

	_, err := Load(path, testExtensions)
	if !errors.Is(err, ErrNoROMFile) {
		t.Fatalf("expected ErrNoROMFile, got %v", err)
	}
}

func TestLoad_GzipFile(t *testing.T) {
	data := []byte{9, 8, 7}
	path := writeTestFile(t, "left.rom.gz", gzipBytes(t, data))

	rom, err := Load(path, testExtensions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rom.Name != "left.rom" {
		t.Errorf("expected name left.rom, got %q", rom.Name)
	}
	if !bytes.Equal(rom.Data, data) {
		t.Errorf("data mismatch: got %v", rom.Data)
	}
}

func TestLoad_TarGz(t *testing.T) {
	data := []byte{4, 5, 6}
	path := writeTestFile(t, "bundle.tar.gz", gzipBytes(t, tarBytes(t, "bin/noodle.rom", data)))

	rom, err := Load(path, testExtensions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rom.Name != "noodle.rom" {
		t.Errorf("expected name noodle.rom, got %q", rom.Name)
	}
	if !bytes.Equal(rom.Data, data) {
		t.Errorf("data mismatch: got %v", rom.Data)
	}
}

func TestLoad_FileTooLarge(t *testing.T) {
	path := writeTestFile(t, "huge.rom", make([]byte, MaxROMSize+1))
	_, err := Load(path, testExtensions)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestLoad_MaxSizeAccepted(t *testing.T) {
	path := writeTestFile(t, "full.rom", make([]byte, MaxROMSize))
	rom, err := Load(path, testExtensions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(rom.Data) != MaxROMSize {
		t.Fatalf("expected %d bytes, got %d", MaxROMSize, len(rom.Data))
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/path/test.rom", testExtensions); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeTestFile(t, "notes.txt", []byte("hello"))
	_, err := Load(path, testExtensions)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoad_EmptyROM(t *testing.T) {
	path := writeTestFile(t, "empty.rom", nil)
	rom, err := Load(path, testExtensions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(rom.Data) != 0 {
		t.Fatalf("expected empty data, got %d bytes", len(rom.Data))
	}
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		path   string
		want   archiveKind
	}{
		{"zip magic", []byte{0x50, 0x4B, 0x03, 0x04, 0}, "file.bin", kindZIP},
		{"empty zip magic", []byte{0x50, 0x4B, 0x05, 0x06}, "file.bin", kindZIP},
		{"rar magic", []byte("Rar!\x1a\x07"), "file.bin", kindRAR},
		{"7z magic", []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C, 0}, "file.bin", kind7z},
		{"gzip magic", []byte{0x1F, 0x8B, 0x08}, "file.bin", kindGzip},
		{"zip extension", nil, "file.ZIP", kindZIP},
		{"7z extension", nil, "file.7z", kind7z},
		{"tgz extension", nil, "file.tgz", kindGzip},
		{"rar extension", nil, "file.rar", kindRAR},
		{"magic beats rom extension", []byte{0x1F, 0x8B}, "file.rom", kindGzip},
		{"raw rom", []byte{0xa0, 0x01}, "file.rom", kindRaw},
		{"unknown", []byte{0, 1, 2, 3}, "file.txt", kindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectKind(tt.header, tt.path, testExtensions); got != tt.want {
				t.Errorf("detectKind(%v, %q) = %v, want %v", tt.header, tt.path, got, tt.want)
			}
		})
	}
}

func TestIsROMFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"game.rom", true},
		{"GAME.ROM", true},
		{"dir/game.rom", true},
		{"game.rom.txt", false},
		{"game", false},
	}
	for _, tt := range tests {
		if got := isROMFile(tt.name, testExtensions); got != tt.want {
			t.Errorf("isROMFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestExtractInvalidArchives(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		extract func(string, []string) (ROM, error)
	}{
		{"7z", "fake.7z", extractFrom7z},
		{"rar", "fake.rar", extractFromRAR},
		{"zip", "fake.zip", extractFromZIP},
		{"gzip", "fake.gz", extractFromGzip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestFile(t, tt.file, []byte("not an archive"))
			if _, err := tt.extract(path, testExtensions); err == nil {
				t.Errorf("expected error for invalid %s archive", tt.name)
			}
		})
	}
}

func TestExtractMissingArchives(t *testing.T) {
	for _, extract := range []func(string, []string) (ROM, error){extractFrom7z, extractFromRAR, extractFromZIP, extractFromGzip} {
		if _, err := extract("/nonexistent/archive", testExtensions); err == nil {
			t.Error("expected error for missing archive")
		}
	}
}
