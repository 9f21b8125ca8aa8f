// Package app содержит основную логику TUI приложения
package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zlog "github.com/rs/zerolog/log"

	"github.com/hazadus/go-turntable/internal/audio"
	"github.com/hazadus/go-turntable/internal/catalog"
	"github.com/hazadus/go-turntable/internal/playback"
	"github.com/hazadus/go-turntable/internal/tui/album"
	"github.com/hazadus/go-turntable/internal/tui/albumlist"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// AlbumsScreen - экран списка альбомов
	AlbumsScreen ScreenType = iota
	// AlbumScreen - экран альбома
	AlbumScreen
)

var errorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#ff0000")).
	Bold(true).
	MarginLeft(2)

// CatalogChangedMsg отправляется, когда файл каталога изменился
type CatalogChangedMsg struct {
	Catalog *catalog.Catalog
}

// Options настройки главной модели
type Options struct {
	// NewElement создает примитив воспроизведения для каждого открытого альбома
	NewElement func() audio.Element
	// Controller опции контроллера воспроизведения
	Controller []playback.Option
	// InitialAlbum slug альбома, который открывается сразу
	InitialAlbum string
	// CatalogUpdates поставляет обновленный каталог
	CatalogUpdates <-chan *catalog.Catalog
}

// MainModel представляет главную модель TUI
type MainModel struct {
	catalog        *catalog.Catalog
	opts           Options
	currentScreen  ScreenType
	albumListModel *albumlist.Model
	albumModel     *album.Model
	err            error
	lastSize       *tea.WindowSizeMsg
}

// NewMainModel создает новую главную модель
func NewMainModel(c *catalog.Catalog, opts Options) *MainModel {
	if opts.NewElement == nil {
		opts.NewElement = func() audio.Element { return audio.NewBeepElement() }
	}
	if c == nil {
		c = &catalog.Catalog{}
	}

	return &MainModel{
		catalog:        c,
		opts:           opts,
		currentScreen:  AlbumsScreen,
		albumListModel: albumlist.NewModel(c),
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.albumListModel.Init(), m.listenForCatalog()}
	if slug := m.opts.InitialAlbum; slug != "" {
		cmds = append(cmds, func() tea.Msg {
			return albumlist.AlbumSelectedMsg{Slug: slug}
		})
	}
	return tea.Batch(cmds...)
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Глобальные горячие клавиши
		if msg.String() == "ctrl+c" {
			m.Close()
			return m, tea.Quit
		}
		m.err = nil

	case albumlist.AlbumSelectedMsg:
		return m, m.openAlbum(msg.Slug)

	case album.GoBackMsg:
		m.currentScreen = AlbumsScreen
		m.albumModel = nil
		return m, nil

	case CatalogChangedMsg:
		m.catalog = msg.Catalog
		return m, tea.Batch(m.albumListModel.SetCatalog(msg.Catalog), m.listenForCatalog())

	case tea.WindowSizeMsg:
		size := msg
		m.lastSize = &size
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.albumListModel, cmd = m.albumListModel.Update(msg)
		cmds = append(cmds, cmd)
		if m.albumModel != nil {
			_, cmd = m.albumModel.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	// Передаем сообщение активной модели
	var cmd tea.Cmd
	switch m.currentScreen {
	case AlbumsScreen:
		m.albumListModel, cmd = m.albumListModel.Update(msg)

	case AlbumScreen:
		if m.albumModel != nil {
			_, cmd = m.albumModel.Update(msg)
		}
	}

	return m, cmd
}

// View отображает интерфейс
func (m *MainModel) View() string {
	var view string
	switch m.currentScreen {
	case AlbumsScreen:
		view = m.albumListModel.View()

	case AlbumScreen:
		if m.albumModel == nil {
			return "Ошибка: модель альбома не инициализирована"
		}
		view = m.albumModel.View()

	default:
		return "Неизвестный экран"
	}

	if m.err != nil {
		view += "\n" + errorStyle.Render("❌ "+m.err.Error())
	}
	return view
}

// Close освобождает контроллер открытого альбома
func (m *MainModel) Close() {
	if m.albumModel != nil {
		m.albumModel.Close()
	}
}

// Screen возвращает текущий экран
func (m *MainModel) Screen() ScreenType {
	return m.currentScreen
}

// openAlbum создает контроллер и экран для альбома
func (m *MainModel) openAlbum(slug string) tea.Cmd {
	a, err := m.catalog.SelectAlbum(slug)
	if err != nil {
		zlog.Warn().Err(err).Str("slug", slug).Msg("альбом не найден")
		m.err = err
		return nil
	}

	element := m.opts.NewElement()
	controller, err := playback.NewController(element, a, m.opts.Controller...)
	if err != nil {
		_ = element.Close()
		zlog.Error().Err(err).Str("slug", slug).Msg("не удалось открыть альбом")
		m.err = err
		return nil
	}

	if m.albumModel != nil {
		m.albumModel.Close()
	}
	m.albumModel = album.NewModel(controller)
	m.currentScreen = AlbumScreen
	m.err = nil
	zlog.Info().Str("slug", slug).Msg("альбом открыт")

	cmds := []tea.Cmd{m.albumModel.Init()}
	if m.lastSize != nil {
		_, cmd := m.albumModel.Update(*m.lastSize)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// listenForCatalog ждет обновления каталога
func (m *MainModel) listenForCatalog() tea.Cmd {
	updates := m.opts.CatalogUpdates
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-updates
		if !ok {
			return nil
		}
		return CatalogChangedMsg{Catalog: c}
	}
}
