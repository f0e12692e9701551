// Package storage persists uploaded files (payment receipts, product images)
// on the local disk under a server-controlled root. Stored names are random
// keys plus the sanitized original extension, so client filenames can never
// collide or escape the upload directory.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore is what services depend on; Disk is the production driver.
type FileStore interface {
	Save(dir, originalName string, r io.Reader) (string, error)
}

type Disk struct {
	root string
}

func NewDisk(root string) *Disk {
	if !filepath.IsAbs(root) {
		cwd, _ := os.Getwd()
		root = filepath.Join(cwd, root)
	}
	return &Disk{root: root}
}

// Save writes the content under dir and returns the generated storage key.
func (d *Disk) Save(dir, originalName string, r io.Reader) (string, error) {
	key := uuid.New().String() + SanitizeExt(originalName)

	full := filepath.Join(d.root, dir, key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", key, err)
	}
	return key, nil
}

// SanitizeExt extracts a safe lowercase extension from a client filename.
// Anything but letters and digits is dropped; an unusable extension yields "".
func SanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if ext == "" || ext == "." {
		return ""
	}

	var b strings.Builder
	for _, r := range ext[1:] {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 || b.Len() > 10 {
		return ""
	}
	return "." + b.String()
}
