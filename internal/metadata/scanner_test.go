package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("not really mp3"), 0644))
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Blue Train", "02 - Moment's Notice.mp3"))
	writeFile(t, filepath.Join(root, "Blue Train", "01 - Blue Train.mp3"))
	writeFile(t, filepath.Join(root, "Blue Train", "cover.jpg"))
	writeFile(t, filepath.Join(root, "Blue Train", "notes.txt"))
	writeFile(t, filepath.Join(root, "Ágætis byrjun", "Svefn-g-englar.MP3"))

	c, err := NewExtractor().ScanDir(root)
	require.NoError(t, err)
	require.Len(t, c.Albums, 2)

	blue := c.Albums[0]
	assert.Equal(t, "Blue Train", blue.Title)
	assert.Equal(t, "blue-train", blue.Slug)
	assert.Equal(t, filepath.Join(root, "Blue Train", "cover.jpg"), blue.AlbumCover)
	require.Len(t, blue.Songs, 2)
	// Без номеров треков порядок определяется именем файла
	assert.Equal(t, "Blue Train", blue.Songs[0].Title)
	assert.Equal(t, "Moment's Notice", blue.Songs[1].Title)
	assert.Equal(t, filepath.Join(root, "Blue Train", "01 - Blue Train.mp3"), blue.Songs[0].AudioSrc)
	// Длительность неизвестна для неразборчивого файла
	assert.Zero(t, blue.Songs[0].Duration)
	// Имя "01 - Blue Train" разбирается как "Artist - Title"
	assert.Equal(t, "01", blue.Artist)

	sigur := c.Albums[1]
	assert.Equal(t, "agætis-byrjun", sigur.Slug)
	require.Len(t, sigur.Songs, 1)
	assert.Equal(t, "Svefn-g-englar", sigur.Songs[0].Title)
	assert.Empty(t, sigur.Artist)
	assert.Empty(t, sigur.AlbumCover)
}

func TestScanDirEmpty(t *testing.T) {
	c, err := NewExtractor().ScanDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, c.Albums)
}

func TestScanDirMissing(t *testing.T) {
	_, err := NewExtractor().ScanDir("/non/existent/music")
	assert.Error(t, err)
}
