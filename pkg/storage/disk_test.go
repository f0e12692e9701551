package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeExt(t *testing.T) {
	cases := map[string]string{
		"resit.png":            ".png",
		"RESIT.PNG":            ".png",
		"foto.JPeG":            ".jpeg",
		"no-extension":         "",
		"trailingdot.":         "",
		"../../../etc/passwd":  "",
		"weird.p!n@g":          ".png",
		"archive.tar.gz":       ".gz",
		"x." + strings.Repeat("a", 20): "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeExt(in), "input %q", in)
	}
}

func TestSaveUsesGeneratedKey(t *testing.T) {
	root := t.TempDir()
	disk := NewDisk(root)

	key, err := disk.Save("receipts", "resit bayaran.PNG", strings.NewReader("receipt-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotContains(t, key, "resit")
	assert.NotContains(t, key, " ")

	content, err := os.ReadFile(filepath.Join(root, "receipts", key))
	require.NoError(t, err)
	assert.Equal(t, "receipt-bytes", string(content))
}

func TestSaveTwiceNeverCollides(t *testing.T) {
	disk := NewDisk(t.TempDir())

	first, err := disk.Save("receipts", "resit.png", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := disk.Save("receipts", "resit.png", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "same client filename must map to distinct keys")
}
