package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

func EnsureSubdDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ReadLimited reads the file at path, refusing files larger than maxSize
// bytes. Used to sanity-check model payloads before they are uploaded.
func ReadLimited(path string, maxSize int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.Size() > maxSize {
		return nil, fmt.Errorf("file %s is %d bytes, limit is %d", path, info.Size(), maxSize)
	}

	return os.ReadFile(path)
}
