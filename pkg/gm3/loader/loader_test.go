package loader

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/clusterball-3gm/pkg/gm3"
)

// writeTestModel creates a minimal decodable 3GM file on disk.
func writeTestModel(t *testing.T, dir, name string) string {
	t.Helper()

	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, 0x02000100) // version-only header

	var chunk [8]byte
	binary.LittleEndian.PutUint32(chunk[0:], uint32(gm3.ChunkDot2))
	binary.LittleEndian.PutUint32(chunk[4:], 8+12)
	data = append(data, chunk[:]...)
	payload := make([]byte, 8+12)
	binary.LittleEndian.PutUint32(payload[8:], gm3.ComplexSwap32(1))
	binary.LittleEndian.PutUint32(payload[12:], gm3.ComplexSwap32(2))
	binary.LittleEndian.PutUint32(payload[16:], gm3.ComplexSwap32(3))
	data = append(data, payload...)

	binary.LittleEndian.PutUint32(chunk[0:], uint32(gm3.ChunkEnd))
	binary.LittleEndian.PutUint32(chunk[4:], 0)
	data = append(data, chunk[:]...)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing test model: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestModel(t, t.TempDir(), "test.3GM")

	shape, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if shape.VertexCount != 1 {
		t.Errorf("vertex count = %d, want 1", shape.VertexCount)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.3GM")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	path := writeTestModel(t, dir, "cached.3GM")

	cache, err := NewCache(4)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if first != second {
		t.Error("cache should return the same shape instance")
	}
	if cache.Len() != 1 {
		t.Errorf("cache length = %d, want 1", cache.Len())
	}

	cache.Purge()
	if cache.Len() != 0 {
		t.Errorf("cache length after purge = %d, want 0", cache.Len())
	}
}

func TestCache_Eviction(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(2)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}

	for _, name := range []string{"a.3GM", "b.3GM", "c.3GM"} {
		path := writeTestModel(t, dir, name)
		if _, err := cache.Load(path); err != nil {
			t.Fatalf("Load(%s) failed: %v", name, err)
		}
	}
	if cache.Len() != 2 {
		t.Errorf("cache length = %d, want 2 after eviction", cache.Len())
	}
}
