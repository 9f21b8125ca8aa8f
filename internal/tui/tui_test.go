package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazadus/go-turntable/internal/catalog"
	"github.com/hazadus/go-turntable/internal/tui/app"
)

func TestNewApp(t *testing.T) {
	c := &catalog.Catalog{}
	tuiApp := NewApp(c, "/tmp/albums.yaml", app.Options{InitialAlbum: "kind-of-blue"})

	assert.Same(t, c, tuiApp.catalog)
	assert.Equal(t, "/tmp/albums.yaml", tuiApp.catalogPath)
	assert.Equal(t, "kind-of-blue", tuiApp.opts.InitialAlbum)
}

func TestWatchCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albums.yaml")
	require.NoError(t, os.WriteFile(path, []byte("albums: []\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tuiApp := NewApp(&catalog.Catalog{}, path, app.Options{})
	updates := tuiApp.watchCatalog(ctx)

	content := []byte(`albums:
  - slug: kind-of-blue
    title: Kind of Blue
    songs:
      - title: So What
        audio_src: /music/01.mp3
        duration: 545
`)

	// Наблюдатель запускается асинхронно, поэтому пишем, пока не придет обновление
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case c, ok := <-updates:
			require.True(t, ok, "канал обновлений закрыт раньше времени")
			if len(c.Albums) == 1 {
				assert.Equal(t, "kind-of-blue", c.Albums[0].Slug)
				return
			}
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, content, 0644))
		case <-deadline:
			t.Fatal("обновление каталога не получено")
		}
	}
}

func TestWatchCatalogClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albums.yaml")
	require.NoError(t, os.WriteFile(path, []byte("albums: []\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	tuiApp := NewApp(&catalog.Catalog{}, path, app.Options{})
	updates := tuiApp.watchCatalog(ctx)
	cancel()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("канал обновлений не закрыт после отмены контекста")
		}
	}
}
