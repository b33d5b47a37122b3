package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	fixzip "github.com/hidez8891/zip"
)

func makeZip(t *testing.T, files ...string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.odp")

	out, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer out.Close()

	w := zip.NewWriter(out)
	for i := 0; i+1 < len(files); i += 2 {
		fw, err := w.Create(files[i])
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", files[i], err)
		}
		if _, err := fw.Write([]byte(files[i+1])); err != nil {
			t.Fatalf("Failed to write content for %s: %v", files[i], err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize zip: %v", err)
	}
	return zipPath
}

func TestPackage(t *testing.T) {
	zipPath := makeZip(t,
		"mimetype", "application/vnd.oasis.opendocument.presentation",
		"content.xml", "<content/>",
		"Pictures/b.png", "png",
		"Pictures/a.svm", "svm",
		"Thumbnails/thumbnail.png", "thumb",
	)

	p, err := Open(zipPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer p.Close()

	if p.Path() != zipPath {
		t.Errorf("Path() = %s, want %s", p.Path(), zipPath)
	}
	if !p.Has("content.xml") || p.Has("styles.xml") {
		t.Error("Has() reports wrong entries")
	}

	data, err := p.Read("content.xml")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != "<content/>" {
		t.Errorf("Read() = %q", data)
	}

	if _, err := p.Read("meta.xml"); !errors.Is(err, ErrMissingEntry) {
		t.Errorf("expected ErrMissingEntry, got %v", err)
	}

	var visited []string
	err = p.Walk("Pictures/", func(f *fixzip.File) error {
		visited = append(visited, f.Name)
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
	if len(visited) != 2 || visited[0] != "Pictures/b.png" || visited[1] != "Pictures/a.svm" {
		t.Errorf("Walk() visited %v", visited)
	}

	stop := errors.New("stop")
	count := 0
	err = p.Walk("", func(*fixzip.File) error {
		count++
		return stop
	})
	if !errors.Is(err, stop) || count != 1 {
		t.Errorf("Walk() should stop on first error, got %v after %d calls", err, count)
	}
}

func TestOpenUnsafe(t *testing.T) {
	zipPath := makeZip(t, "../evil.xml", "x")
	if _, err := Open(zipPath); err == nil {
		t.Error("expected error for unsafe entry")
	}
}

func TestOpenNotZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.odp")
	if err := os.WriteFile(path, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected error for non zip file")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.odp")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIsSafePath(t *testing.T) {
	tests := map[string]bool{
		"content.xml":      true,
		"Pictures/a.png":   true,
		"a..b/c":           true,
		"/etc/passwd":      false,
		`\windows\system`:  false,
		"Pictures/../../x": false,
		"..":               false,
	}
	for name, want := range tests {
		if got := isSafePath(name); got != want {
			t.Errorf("isSafePath(%q) = %v, want %v", name, got, want)
		}
	}
}
