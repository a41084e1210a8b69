package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// TickerFile is a workbook whose name identifies a ticker
type TickerFile struct {
	Ticker string
	FileInfo
	// Suffix is the file name suffix the ticker was derived from
	Suffix string
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	// If dir is already absolute, use it directly
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindExcelFiles finds the .xlsx workbooks in dir, skipping Office lock
// files, sorted by name
func (d *Discovery) FindExcelFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") || !strings.HasSuffix(strings.ToLower(name), ".xlsx") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// FindTickerFiles maps the workbooks in dir to tickers by stripping the first
// matching suffix. Suffixes are tried in order, so when both
// "^NSEI_data.xlsx" and "^NSEI.xlsx" exist the earlier suffix wins.
func (d *Discovery) FindTickerFiles(dir string, suffixes ...string) (map[string]TickerFile, error) {
	files, err := d.FindExcelFiles(dir)
	if err != nil {
		return nil, err
	}

	found := make(map[string]TickerFile, len(files))
	rank := make(map[string]int, len(files))
	for _, f := range files {
		for i, suffix := range suffixes {
			if suffix == "" || !strings.HasSuffix(f.Name, suffix) {
				continue
			}
			ticker := strings.TrimSuffix(f.Name, suffix)
			if ticker == "" {
				break
			}
			if prev, ok := rank[ticker]; !ok || i < prev {
				found[ticker] = TickerFile{Ticker: ticker, FileInfo: f, Suffix: suffix}
				rank[ticker] = i
			}
			break
		}
	}
	return found, nil
}
