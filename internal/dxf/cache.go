package dxf

import (
	"fmt"
	"os"
	"sync"
)

// DocumentCache provides thread-safe caching of parsed DXF documents to
// avoid redundant parsing work.
//
// The cache stores Document values keyed by their file path. Once a file
// is parsed, subsequent Load() calls for the same path return the cached
// document without disk I/O. Documents are immutable, so sharing one
// across callers is safe.
//
// DocumentCache is safe for concurrent use by multiple goroutines. All
// methods use appropriate locking to prevent data races.
//
// # Memory Management
//
// Cached documents remain in memory until explicitly removed via Evict()
// or Clear(). For long-running processes handling many files, consider
// periodic cleanup to prevent unbounded memory growth.
//
// # Example Usage
//
//	cache := dxf.NewDocumentCache()
//	doc, err := cache.Load("/path/to/part.dxf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Use doc...
//	cache.Evict("/path/to/part.dxf") // Optional: free memory
type DocumentCache struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentCache creates and initializes a new empty document cache.
//
// The returned cache is ready for immediate use and is safe for
// concurrent access.
func NewDocumentCache() *DocumentCache {
	return &DocumentCache{
		docs: make(map[string]*Document),
	}
}

// Load retrieves a document from the cache or parses it from disk if not
// cached.
//
// Parameters:
//   - path: Absolute or relative file path to the DXF file.
//
// Returns:
//   - *Document: The parsed document.
//   - error: Non-nil if the file cannot be read or is not valid DXF;
//     parse failures are *ParseError values.
//
// The document is cached using the exact path string provided. Different
// paths to the same file (e.g., relative vs absolute) result in separate
// cache entries.
func (c *DocumentCache) Load(path string) (*Document, error) {
	c.mu.RLock()
	if doc, ok := c.docs[path]; ok {
		c.mu.RUnlock()
		return doc, nil
	}
	c.mu.RUnlock()

	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.docs[path] = doc
	c.mu.Unlock()

	return doc, nil
}

// Clear removes all documents from the cache, freeing the associated
// memory. After Clear(), all files must be reparsed on subsequent Load()
// calls.
func (c *DocumentCache) Clear() {
	c.mu.Lock()
	c.docs = make(map[string]*Document)
	c.mu.Unlock()
}

// Evict removes a specific document from the cache by its path.
//
// If the path is not in the cache, this method does nothing. After
// eviction, the next Load() call for this path will reparse the file.
func (c *DocumentCache) Evict(path string) {
	c.mu.Lock()
	delete(c.docs, path)
	c.mu.Unlock()
}

// Len returns the number of cached documents.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// DocumentInfo contains metadata about a parsed DXF file.
//
// This struct summarizes a document for reporting without exposing the
// entity values themselves.
type DocumentInfo struct {
	// Version is the raw $ACADVER value, e.g. "AC1027".
	Version string `json:"version"`

	// VersionName is the release name for Version, e.g. "R2013".
	VersionName string `json:"version_name"`

	// EntityCount is the number of supported entities that were decoded.
	EntityCount int `json:"entity_count"`

	// Counts maps every entity kind seen in the file to its number of
	// occurrences, including kinds that were counted but not decoded.
	Counts map[string]int `json:"counts"`

	// Layers lists the LAYER table entries.
	Layers []Layer `json:"layers,omitempty"`

	// MinX, MinY, MaxX, MaxY are the drawing extents computed from the
	// entity geometry. All four are zero when HasBounds is false.
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`

	// HasBounds reports whether the document contained any geometry to
	// compute extents from.
	HasBounds bool `json:"has_bounds"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadInfo parses a file (through the cache) and returns summary metadata
// about it: format version, entity counts by kind, layer table, drawing
// extents, and file size.
func LoadInfo(cache *DocumentCache, path string) (*DocumentInfo, error) {
	doc, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	info := &DocumentInfo{
		Version:       doc.Version,
		VersionName:   doc.VersionName(),
		EntityCount:   len(doc.Entities),
		Counts:        doc.Counts,
		Layers:        doc.Layers,
		FileSizeBytes: stat.Size(),
	}
	if ext := doc.Bounds(); ext.Valid() {
		info.MinX, info.MinY = ext.MinX, ext.MinY
		info.MaxX, info.MaxY = ext.MaxX, ext.MaxY
		info.HasBounds = true
	}
	return info, nil
}
