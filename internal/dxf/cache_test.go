package dxf

import (
	"os"
	"sync"
	"testing"
)

func TestDocumentCache_Load(t *testing.T) {
	path := writeTempDXF(t, buildDXF(circleTags(0, 0, 5)))
	defer os.Remove(path)

	cache := NewDocumentCache()

	doc1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	if len(doc1.Entities) != 1 {
		t.Errorf("entities: got %d, want 1", len(doc1.Entities))
	}

	// The second load must return the cached document.
	doc2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if doc1 != doc2 {
		t.Error("second Load returned a different document, want cached instance")
	}

	cache.mu.RLock()
	cached := len(cache.docs)
	cache.mu.RUnlock()
	if cached != 1 {
		t.Errorf("cached documents: got %d, want 1", cached)
	}
}

func TestDocumentCache_LoadNonExistent(t *testing.T) {
	cache := NewDocumentCache()
	if _, err := cache.Load("/nonexistent/drawing.dxf"); err == nil {
		t.Error("Load of nonexistent file should fail")
	}
}

func TestDocumentCache_LoadInvalid(t *testing.T) {
	path := writeTempDXF(t, "not a drawing\n")
	defer os.Remove(path)

	cache := NewDocumentCache()
	if _, err := cache.Load(path); err == nil {
		t.Error("Load of invalid file should fail")
	}

	// Failed loads must not populate the cache.
	cache.mu.RLock()
	cached := len(cache.docs)
	cache.mu.RUnlock()
	if cached != 0 {
		t.Errorf("cached documents after failure: got %d, want 0", cached)
	}
}

func TestDocumentCache_Clear(t *testing.T) {
	path := writeTempDXF(t, buildDXF(circleTags(0, 0, 5)))
	defer os.Remove(path)

	cache := NewDocumentCache()
	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("Len before Clear: got %d, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len after Clear: got %d, want 0", cache.Len())
	}
}

func TestDocumentCache_Evict(t *testing.T) {
	path1 := writeTempDXF(t, buildDXF(circleTags(0, 0, 5)))
	defer os.Remove(path1)
	path2 := writeTempDXF(t, buildDXF(lineTags(0, 0, 1, 1)))
	defer os.Remove(path2)

	cache := NewDocumentCache()
	if _, err := cache.Load(path1); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := cache.Load(path2); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Evict(path1)
	if cache.Len() != 1 {
		t.Errorf("Len after Evict: got %d, want 1", cache.Len())
	}

	// The evicted path reloads; the other stays cached.
	if _, err := cache.Load(path1); err != nil {
		t.Errorf("reload after Evict failed: %v", err)
	}
}

func TestDocumentCache_ConcurrentAccess(t *testing.T) {
	path := writeTempDXF(t, buildDXF(circleTags(0, 0, 5)))
	defer os.Remove(path)

	cache := NewDocumentCache()

	var wg sync.WaitGroup
	errCh := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("concurrent Load failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("cached documents: got %d, want 1", cache.Len())
	}
}

func TestLoadInfo(t *testing.T) {
	content := "0\nSECTION\n2\nHEADER\n9\n$ACADVER\n1\nAC1032\n0\nENDSEC\n" +
		buildDXF(circleTags(0, 0, 10), lineTags(-5, -5, 5, 5), "0\nINSERT\n2\nB\n10\n0\n20\n0\n")
	path := writeTempDXF(t, content)
	defer os.Remove(path)

	cache := NewDocumentCache()
	info, err := LoadInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadInfo failed: %v", err)
	}

	if info.Version != "AC1032" {
		t.Errorf("Version: got %q, want %q", info.Version, "AC1032")
	}
	if info.VersionName != "R2018" {
		t.Errorf("VersionName: got %q, want %q", info.VersionName, "R2018")
	}
	if info.EntityCount != 2 {
		t.Errorf("EntityCount: got %d, want 2", info.EntityCount)
	}
	if info.Counts["INSERT"] != 1 {
		t.Errorf("INSERT count: got %d, want 1", info.Counts["INSERT"])
	}
	if !info.HasBounds {
		t.Fatal("HasBounds: got false, want true")
	}
	if info.MinX != -10 || info.MaxX != 10 {
		t.Errorf("X extents: got %g..%g, want -10..10", info.MinX, info.MaxX)
	}
	if info.FileSizeBytes == 0 {
		t.Error("FileSizeBytes: got 0, want file size")
	}
}

func TestLoadInfo_NoGeometry(t *testing.T) {
	path := writeTempDXF(t, buildDXF())
	defer os.Remove(path)

	info, err := LoadInfo(NewDocumentCache(), path)
	if err != nil {
		t.Fatalf("LoadInfo failed: %v", err)
	}
	if info.HasBounds {
		t.Error("HasBounds: got true, want false for empty drawing")
	}
	if info.EntityCount != 0 {
		t.Errorf("EntityCount: got %d, want 0", info.EntityCount)
	}
}
