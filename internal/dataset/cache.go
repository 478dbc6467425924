package dataset

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	cacheVersion    = "v1"
	defaultCacheDir = ".cache"
)

func (l *Loader) snapshotPath() string {
	name := strings.ReplaceAll(filepath.Clean(l.dir), string(filepath.Separator), "_")
	return filepath.Join(l.cacheDir, fmt.Sprintf("dataset_%s_%s.gob", name, cacheVersion))
}

// newestSourceModTime returns the most recent mtime across the source
// tables, so a snapshot can be invalidated when any file changes.
func (l *Loader) newestSourceModTime() (newest int64) {
	files := []string{
		ordersFile, itemsFile, paymentsFile, reviewsFile, customersFile,
		sellersFile, productsFile, geolocationFile, translationsFile,
	}
	for _, f := range files {
		info, err := os.Stat(filepath.Join(l.dir, f))
		if err != nil {
			continue
		}
		if t := info.ModTime().UnixNano(); t > newest {
			newest = t
		}
	}
	return newest
}

func (l *Loader) saveSnapshot(result *Result) error {
	if err := os.MkdirAll(l.cacheDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(l.snapshotPath())
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(result)
}

func (l *Loader) loadSnapshot() (*Result, error) {
	path := l.snapshotPath()
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.ModTime().UnixNano() < l.newestSourceModTime() {
		return nil, fmt.Errorf("snapshot older than dataset")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var result Result
	if err := gob.NewDecoder(file).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
