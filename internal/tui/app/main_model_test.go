package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazadus/go-turntable/internal/audio"
	"github.com/hazadus/go-turntable/internal/audio/audiotest"
	"github.com/hazadus/go-turntable/internal/catalog"
	"github.com/hazadus/go-turntable/internal/playback"
	"github.com/hazadus/go-turntable/internal/tui/album"
	"github.com/hazadus/go-turntable/internal/tui/albumlist"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Albums: []catalog.Album{
			{
				Slug:   "kind-of-blue",
				Title:  "Kind of Blue",
				Artist: "Miles Davis",
				Songs: []catalog.Song{
					{Title: "So What", AudioSrc: "/music/01.mp3", Duration: 545},
					{Title: "Freddie Freeloader", AudioSrc: "/music/02.mp3", Duration: 586},
				},
			},
		},
	}
}

// newTestModel создает модель с фейковыми примитивами и запоминает их
func newTestModel(t *testing.T, opts Options) (*MainModel, *[]*audiotest.Element) {
	t.Helper()
	var elements []*audiotest.Element
	opts.NewElement = func() audio.Element {
		el := audiotest.New()
		elements = append(elements, el)
		return el
	}
	m := NewMainModel(testCatalog(), opts)
	t.Cleanup(m.Close)
	return m, &elements
}

func TestMainModelRouting(t *testing.T) {
	model, elements := newTestModel(t, Options{})

	assert.Equal(t, AlbumsScreen, model.Screen())
	assert.Nil(t, model.albumModel)

	updated, cmd := model.Update(albumlist.AlbumSelectedMsg{Slug: "kind-of-blue"})
	model = updated.(*MainModel)
	assert.NotNil(t, cmd)
	assert.Equal(t, AlbumScreen, model.Screen())
	require.NotNil(t, model.albumModel)
	require.Len(t, *elements, 1)
	assert.Equal(t, "/music/01.mp3", (*elements)[0].Source())

	// q на экране альбома освобождает контроллер и возвращает к списку
	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.IsType(t, album.GoBackMsg{}, msg)
	assert.True(t, (*elements)[0].Closed())

	updated, _ = model.Update(msg)
	model = updated.(*MainModel)
	assert.Equal(t, AlbumsScreen, model.Screen())
	assert.Nil(t, model.albumModel)
}

func TestMainModelUnknownAlbum(t *testing.T) {
	model, elements := newTestModel(t, Options{})

	_, cmd := model.Update(albumlist.AlbumSelectedMsg{Slug: "missing"})
	assert.Nil(t, cmd)
	assert.Equal(t, AlbumsScreen, model.Screen())
	assert.Empty(t, *elements)
	require.Error(t, model.err)
	assert.True(t, errors.Is(model.err, catalog.ErrAlbumNotFound))
	assert.Contains(t, model.View(), "альбом не найден")
}

func TestMainModelCtrlCDisposes(t *testing.T) {
	model, elements := newTestModel(t, Options{})
	model.Update(albumlist.AlbumSelectedMsg{Slug: "kind-of-blue"})

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.True(t, (*elements)[0].Closed())
}

func TestMainModelInitialAlbum(t *testing.T) {
	model, _ := newTestModel(t, Options{InitialAlbum: "kind-of-blue"})

	// Init возвращает выбор альбома отдельно или в пакете команд
	var msgs []tea.Msg
	switch msg := model.Init()().(type) {
	case tea.BatchMsg:
		for _, cmd := range msg {
			if cmd != nil {
				msgs = append(msgs, cmd())
			}
		}
	default:
		msgs = append(msgs, msg)
	}

	var selected bool
	for _, msg := range msgs {
		if sel, ok := msg.(albumlist.AlbumSelectedMsg); ok {
			assert.Equal(t, "kind-of-blue", sel.Slug)
			selected = true
		}
	}
	assert.True(t, selected)
}

func TestMainModelControllerOptions(t *testing.T) {
	model, elements := newTestModel(t, Options{
		Controller: []playback.Option{playback.WithInitialVolume(0.8)},
	})
	model.Update(albumlist.AlbumSelectedMsg{Slug: "kind-of-blue"})

	assert.InDelta(t, 0.8, (*elements)[0].Volume(), 1e-9)
}

func TestMainModelCatalogChanged(t *testing.T) {
	updates := make(chan *catalog.Catalog, 1)
	model, _ := newTestModel(t, Options{CatalogUpdates: updates})

	fresh := testCatalog()
	fresh.Albums = append(fresh.Albums, catalog.Album{
		Slug:  "blue-train",
		Title: "Blue Train",
		Songs: []catalog.Song{{Title: "Blue Train", AudioSrc: "/music/03.mp3"}},
	})
	updates <- fresh

	msg := model.listenForCatalog()()
	changed, ok := msg.(CatalogChangedMsg)
	require.True(t, ok)

	_, cmd := model.Update(changed)
	assert.NotNil(t, cmd)
	assert.Equal(t, 2, model.albumListModel.Len())

	// Новый альбом доступен для открытия
	model.Update(albumlist.AlbumSelectedMsg{Slug: "blue-train"})
	assert.Equal(t, AlbumScreen, model.Screen())
}

func TestMainModelCatalogUpdatesClosed(t *testing.T) {
	updates := make(chan *catalog.Catalog)
	model, _ := newTestModel(t, Options{CatalogUpdates: updates})
	close(updates)

	assert.Nil(t, model.listenForCatalog()())
}

func TestMainModelView(t *testing.T) {
	model, _ := newTestModel(t, Options{})

	assert.NotEmpty(t, model.View())

	model.Update(albumlist.AlbumSelectedMsg{Slug: "kind-of-blue"})
	assert.Contains(t, model.View(), "Kind of Blue")

	model.currentScreen = ScreenType(999)
	assert.Equal(t, "Неизвестный экран", model.View())
}

func TestMainModelWindowSizeReachesAlbum(t *testing.T) {
	model, _ := newTestModel(t, Options{})
	model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	_, cmd := model.Update(albumlist.AlbumSelectedMsg{Slug: "kind-of-blue"})
	assert.NotNil(t, cmd)
	require.NotNil(t, model.lastSize)
	assert.Equal(t, 100, model.lastSize.Width)
}
