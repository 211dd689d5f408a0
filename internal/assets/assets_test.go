package assets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestClean(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"./assets/air/air.gltf", "assets/air/air.gltf", true},
		{"/assets/air/air.gltf", "assets/air/air.gltf", true},
		{"assets/air.bin?v=2", "assets/air.bin", true},
		{"../../etc/passwd", "etc/passwd", true},
		{"", "", false},
		{"./", "", false},
	}
	for _, tt := range tests {
		got, err := Clean(tt.url)
		if (err == nil) != tt.ok {
			t.Errorf("Clean(%q) error = %v, want ok=%v", tt.url, err, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestLoadCaches(t *testing.T) {
	m := NewManagerFS(fstest.MapFS{
		"assets/overlays.html": {Data: []byte("<div></div>")},
	})

	for i := 0; i < 2; i++ {
		data, err := m.Load("./assets/overlays.html")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if string(data) != "<div></div>" {
			t.Errorf("Load() = %q", data)
		}
	}

	hits, misses := m.Cache().Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = (%d, %d), want (1, 1)", hits, misses)
	}
}

func TestLoadMissing(t *testing.T) {
	m := NewManagerFS(fstest.MapFS{})
	_, err := m.Load("/missing.gltf")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "audio"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "audio", "track.wav"), []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(dir)
	data, err := m.Load("./audio/track.wav")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != "RIFF" {
		t.Errorf("Load() = %q, want RIFF", data)
	}

	m.Close()
	if hits, misses := m.Cache().Stats(); hits != 0 || misses != 0 {
		t.Errorf("Stats() after Close = (%d, %d)", hits, misses)
	}
}

func TestManagerIsFS(t *testing.T) {
	m := NewManagerFS(fstest.MapFS{
		"assets/air/air.bin": {Data: []byte{1, 2, 3}},
	})
	sub, err := fs.Sub(m, "assets/air")
	if err != nil {
		t.Fatal(err)
	}
	data, err := fs.ReadFile(sub, "air.bin")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) != 3 {
		t.Errorf("ReadFile() = %v", data)
	}
}
