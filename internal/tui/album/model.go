// Package album содержит экран альбома: список треков и панель воспроизведения
package album

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zlog "github.com/rs/zerolog/log"

	"github.com/hazadus/go-turntable/internal/catalog"
	"github.com/hazadus/go-turntable/internal/playback"
	"github.com/hazadus/go-turntable/internal/tui/playerbar"
	"github.com/hazadus/go-turntable/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff"))

	artistStyle = lipgloss.NewStyle().
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginBottom(1)

	rowStyle      = lipgloss.NewStyle().PaddingLeft(2)
	hoveredStyle  = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	currentStyle  = lipgloss.NewStyle().PaddingLeft(2).Bold(true)
	barStyle      = lipgloss.NewStyle().MarginTop(1)
	controlsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

// Значки в колонке номера трека
const (
	pauseIcon = "⏸"
	playIcon  = "▶"
)

// GoBackMsg отправляется для возврата к списку альбомов
type GoBackMsg struct{}

// StateMsg содержит новое состояние воспроизведения
type StateMsg struct {
	State playback.State
}

// Model экран альбома. Состоянием владеет контроллер, модель лишь
// показывает его последний снимок.
type Model struct {
	controller  *playback.Controller
	album       *catalog.Album
	state       playback.State
	bar         *playerbar.Model
	states      chan playback.State
	done        chan struct{}
	unsubscribe func()
	err         error
	width       int
	height      int
	closed      bool
}

// NewModel создает экран для контроллера альбома
func NewModel(controller *playback.Controller) *Model {
	m := &Model{
		controller: controller,
		album:      controller.Album(),
		state:      controller.State(),
		states:     make(chan playback.State, 1),
		done:       make(chan struct{}),
	}
	m.bar = playerbar.New(m.barProps())
	m.unsubscribe = controller.Subscribe(m.publish)
	return m
}

// Init запускает прослушивание изменений состояния
func (m *Model) Init() tea.Cmd {
	return m.listenForState()
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.SetWidth(msg.Width)
		return m, nil

	case StateMsg:
		m.state = msg.State
		m.bar.SetProps(m.barProps())
		return m, m.listenForState()

	case playerbar.ErrorMsg:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "esc":
			m.Close()
			return m, func() tea.Msg {
				return GoBackMsg{}
			}

		case "up", "k":
			m.moveCursor(-1)
			return m, nil

		case "down", "j":
			m.moveCursor(1)
			return m, nil

		case "enter":
			index := m.cursor()
			if index == playback.NoSong {
				index = 0
			}
			m.err = nil
			return m, func() tea.Msg {
				if err := m.controller.HandleSongClick(index); err != nil {
					return playerbar.ErrorMsg{Err: err}
				}
				return nil
			}
		}

		if playerbar.Handles(key) {
			m.err = nil
			var cmd tea.Cmd
			m.bar, cmd = m.bar.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View отображает экран альбома
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("💿 " + m.album.Title))
	b.WriteString("\n")
	if m.album.Artist != "" {
		b.WriteString(artistStyle.Render(m.album.Artist))
		b.WriteString("\n")
	}
	info := []string{}
	if m.album.ReleaseInfo != "" {
		info = append(info, m.album.ReleaseInfo)
	}
	if m.album.AlbumCover != "" {
		info = append(info, "обложка: "+m.album.AlbumCover)
	}
	b.WriteString(infoStyle.Render(strings.Join(info, " • ")))
	b.WriteString("\n")

	for i, song := range m.album.Songs {
		row := fmt.Sprintf("%-3s %-50s %s",
			m.showIcon(i),
			utils.TruncateString(song.Title, 50),
			m.controller.FormatTime(song.Duration),
		)
		switch {
		case i == m.state.HoveredIndex:
			b.WriteString(hoveredStyle.Render(row))
		case i == m.state.CurrentIndex:
			b.WriteString(currentStyle.Render(row))
		default:
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	b.WriteString(barStyle.Render(m.bar.View()))
	b.WriteString("\n")

	if err := m.displayError(); err != nil {
		b.WriteString(errorStyle.Render("❌ " + err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(controlsStyle.Render("↑/↓: выбор • Enter: воспроизвести • q/esc: назад к альбомам"))
	return b.String()
}

// Close освобождает контроллер и прекращает прослушивание состояния
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.unsubscribe()
	close(m.done)
	if err := m.controller.Dispose(); err != nil {
		zlog.Warn().Err(err).Str("album", m.album.Slug).Msg("ошибка освобождения контроллера")
	}
}

// State возвращает последнее показанное состояние
func (m *Model) State() playback.State {
	return m.state
}

// showIcon значок в колонке номера: пауза у играющего трека,
// воспроизведение у трека под курсором, иначе номер
func (m *Model) showIcon(i int) string {
	switch {
	case i == m.state.CurrentIndex && m.state.IsPlaying:
		return pauseIcon
	case i == m.state.HoveredIndex:
		return playIcon
	default:
		return fmt.Sprintf("%d", i+1)
	}
}

func (m *Model) cursor() int {
	return m.state.HoveredIndex
}

// moveCursor двигает курсор; курсор и есть трек под указателем
func (m *Model) moveCursor(delta int) {
	next := m.cursor()
	if next == playback.NoSong {
		next = m.state.CurrentIndex
	} else {
		next += delta
	}
	next = max(0, min(len(m.album.Songs)-1, next))

	m.controller.Hover(next)
	m.state.HoveredIndex = next
}

func (m *Model) displayError() error {
	if m.err != nil {
		return m.err
	}
	return m.state.Err
}

func (m *Model) barProps() playerbar.Props {
	c := m.controller
	return playerbar.Props{
		IsPlaying:   m.state.IsPlaying,
		CurrentSong: m.state.CurrentSong,
		CurrentTime: m.state.CurrentTime,
		Duration:    m.state.Duration,
		Volume:      m.state.Volume,

		HandleSongClick: func() error {
			return c.HandleSongClick(c.State().CurrentIndex)
		},
		HandlePrevClick:    c.HandlePrevClick,
		HandleNextClick:    c.HandleNextClick,
		HandleTimeChange:   c.HandleTimeChange,
		HandleVolumeChange: c.HandleVolumeChange,
		FormatTime:         c.FormatTime,
	}
}

// publish кладет в канал только последнее состояние
func (m *Model) publish(s playback.State) {
	for {
		select {
		case m.states <- s:
			return
		default:
		}
		select {
		case <-m.states:
		default:
		}
	}
}

// listenForState ждет следующего состояния от контроллера
func (m *Model) listenForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.states:
			return StateMsg{State: s}
		case <-m.done:
			return nil
		}
	}
}
