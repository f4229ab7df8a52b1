// Package cache persists decoded activities between runs. An entry is
// reused only while the source file is provably unchanged: inode, size
// and modification time must match, and for recently touched files the
// content fingerprint as well. Correctness never depends on the cache;
// a miss simply means decoding again.
package cache

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
	"github.com/jindracerny/gpx-plot-on-map/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNoFingerprint
	MissReasonNotFound
)

func (r CacheMissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonInode:
		return "inode"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonFingerprint:
		return "fingerprint"
	case MissReasonNoFingerprint:
		return "no-fingerprint"
	case MissReasonNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// CachedActivity is the persisted form of one decoded source file.
type CachedActivity struct {
	Activity           model.Activity `json:"activity"`
	SourcePath         string         `json:"source_path"`
	LastModified       int64          `json:"last_modified"`
	FileSize           int64          `json:"file_size"`
	Inode              uint64         `json:"inode"`
	ContentFingerprint string         `json:"content_fingerprint"`
}

type CacheResult struct {
	Entry      *CachedActivity
	Found      bool
	MissReason CacheMissReason
}

// FileCache keeps decoded activities in memory and mirrors them to one
// JSON file per source path under baseDir.
type FileCache struct {
	baseDir     string
	mu          sync.Mutex
	memoryCache map[string]*CachedActivity
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*CachedActivity),
	}, nil
}

// cacheKey derives the cache file name for a source path. Source paths
// are not unique by basename, so the full path is hashed.
func cacheKey(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("%016x", h.Sum64())
}

// Get returns the cached activity for a source path if the file on disk
// still matches the recorded identity.
func (c *FileCache) Get(path string) CacheResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(path)
	if entry, exists := c.memoryCache[key]; exists {
		if ret := c.validateEntry(entry); ret.cached {
			return CacheResult{Entry: entry, Found: true, MissReason: MissReasonNone}
		}
		delete(c.memoryCache, key)
	}

	return c.getFromFile(key)
}

func (c *FileCache) getFromFile(key string) CacheResult {
	cachePath := filepath.Join(c.baseDir, key+".json")

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return CacheResult{Found: false, MissReason: MissReasonNotFound}
	}

	var entry CachedActivity
	if err := sonic.Unmarshal(data, &entry); err != nil {
		return CacheResult{Found: false, MissReason: MissReasonError}
	}

	if ret := c.validateEntry(&entry); !ret.cached {
		return CacheResult{Found: false, MissReason: ret.reason}
	}

	c.memoryCache[key] = &entry
	return CacheResult{Entry: &entry, Found: true, MissReason: MissReasonNone}
}

type validateResult struct {
	cached bool
	reason CacheMissReason
}

func (c *FileCache) validateEntry(entry *CachedActivity) validateResult {
	currentInfo, err := util.GetFileInfo(entry.SourcePath)
	if err != nil {
		util.LogDebugf("Cache validation failed for %s: unable to get file info: %v", entry.SourcePath, err)
		return validateResult{cached: false, reason: MissReasonError}
	}

	if currentInfo.Inode != entry.Inode {
		util.LogDebugf("Cache invalidated for %s: inode changed (cached: %d, current: %d)",
			entry.SourcePath, entry.Inode, currentInfo.Inode)
		return validateResult{cached: false, reason: MissReasonInode}
	}
	if currentInfo.Size != entry.FileSize {
		util.LogDebugf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			entry.SourcePath, entry.FileSize, currentInfo.Size)
		return validateResult{cached: false, reason: MissReasonSize}
	}
	if currentInfo.ModTime != entry.LastModified {
		util.LogDebugf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			entry.SourcePath, entry.LastModified, currentInfo.ModTime)
		return validateResult{cached: false, reason: MissReasonModTime}
	}

	// Old recordings never change; skip the fingerprint read for them.
	modTime := time.Unix(currentInfo.ModTime, 0)
	if time.Since(modTime) > 48*time.Hour {
		return validateResult{cached: true, reason: MissReasonNone}
	}

	if entry.ContentFingerprint == "" {
		return validateResult{cached: false, reason: MissReasonNoFingerprint}
	}

	fingerprint, err := util.CalculateFileFingerprint(entry.SourcePath)
	if err != nil {
		return validateResult{cached: false, reason: MissReasonNoFingerprint}
	}

	if fingerprint != entry.ContentFingerprint {
		util.LogDebugf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
			entry.SourcePath, entry.ContentFingerprint, fingerprint)
		return validateResult{cached: false, reason: MissReasonFingerprint}
	}
	return validateResult{cached: true, reason: MissReasonNone}
}

// Set records the decoded activity for a source path together with the
// file identity observed now.
func (c *FileCache) Set(path string, activity model.Activity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fileInfo, err := util.GetFileInfo(path)
	if err != nil {
		return err
	}

	entry := &CachedActivity{
		Activity:     activity,
		SourcePath:   path,
		LastModified: fileInfo.ModTime,
		FileSize:     fileInfo.Size,
		Inode:        fileInfo.Inode,
	}

	if fingerprint, err := util.CalculateFileFingerprint(path); err == nil {
		entry.ContentFingerprint = fingerprint
	}

	data, err := sonic.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	// Write to a temporary file, then rename into place so a concurrent
	// reader never sees a torn entry.
	key := cacheKey(path)
	cachePath := filepath.Join(c.baseDir, key+".json")
	tmpPath := cachePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, cachePath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	c.memoryCache[key] = entry
	return nil
}

// Clear drops the memory cache and removes all persisted entries.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*CachedActivity)

	return filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".json" {
			os.Remove(path)
		}
		return nil
	})
}

// Preload loads all valid persisted entries into memory. Invalid and
// unreadable entries are counted and skipped.
func (c *FileCache) Preload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var cacheFiles []string
	err := filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(path), ".json") {
			cacheFiles = append(cacheFiles, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan cache directory: %w", err)
	}

	loaded := 0
	invalid := 0
	for _, cachePath := range cacheFiles {
		data, err := os.ReadFile(cachePath)
		if err != nil {
			invalid++
			continue
		}

		var entry CachedActivity
		if err := sonic.Unmarshal(data, &entry); err != nil {
			invalid++
			continue
		}

		if c.validateEntry(&entry).cached {
			c.memoryCache[cacheKey(entry.SourcePath)] = &entry
			loaded++
		} else {
			invalid++
		}
	}

	util.LogDebugf("Cache preload complete: %d loaded, %d invalid (total %d)",
		loaded, invalid, len(cacheFiles))
	return nil
}

// Stats returns the number of entries in memory and on disk.
func (c *FileCache) Stats() (memoryCount, fileCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	memoryCount = len(c.memoryCache)

	filepath.Walk(c.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(path), ".json") {
			fileCount++
		}
		return nil
	})

	return memoryCount, fileCount
}
