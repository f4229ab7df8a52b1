package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jindracerny/gpx-plot-on-map/internal/core/model"
	"github.com/jindracerny/gpx-plot-on-map/internal/util"
)

// FileScanner discovers activity files under a directory tree
type FileScanner struct {
	baseDir string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
	}
}

// Classify maps a file path to its format and compression flag based on
// its suffix, case-insensitively. The third return is false for paths
// that are not activity files.
func Classify(path string) (model.Format, bool, bool) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, model.ExtFITGz):
		return model.FormatFIT, true, true
	case strings.HasSuffix(lower, model.ExtFIT):
		return model.FormatFIT, false, true
	case strings.HasSuffix(lower, model.ExtGPXGz):
		return model.FormatGPX, true, true
	case strings.HasSuffix(lower, model.ExtGPX):
		return model.FormatGPX, false, true
	}
	return 0, false, false
}

// Scan walks the directory tree and returns all activity files, sorted
// lexicographically by full path. Repeated scans of an unchanged tree
// return identical results. Unreadable entries are skipped.
func (s *FileScanner) Scan() ([]model.SourceFile, error) {
	start := time.Now()
	var files []model.SourceFile
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip entry (error): %s - %v", path, err))
			return nil
		}

		if info.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if format, compressed, ok := Classify(path); ok {
			files = append(files, model.SourceFile{
				Path:       path,
				Format:     format,
				Compressed: compressed,
			})
		}

		return nil
	})

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	duration := time.Since(start)
	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d activity files",
		duration, dirCount, totalCount, len(files)))

	return files, err
}
