// Package playerbar содержит панель управления воспроизведением для TUI
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-turntable/internal/catalog"
	"github.com/hazadus/go-turntable/internal/utils"
)

// Шаги перемотки и громкости для клавиш
const (
	SeekStep   = 0.05
	VolumeStep = 0.1
)

var (
	songStyle = lipgloss.NewStyle().
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

// ErrorMsg отправляется, если обработчик вернул ошибку
type ErrorMsg struct {
	Err error
}

// Props данные и обработчики, которые панель получает от экрана альбома
type Props struct {
	IsPlaying   bool
	CurrentSong catalog.Song
	CurrentTime time.Duration
	Duration    time.Duration
	Volume      float64

	HandleSongClick    func() error
	HandlePrevClick    func() error
	HandleNextClick    func() error
	HandleTimeChange   func(fraction float64) error
	HandleVolumeChange func(volume float64) error
	FormatTime         func(seconds float64) string
}

// Model панель воспроизведения. Сама состояние не меняет:
// все действия уходят в обработчики из Props.
type Model struct {
	props       Props
	progressBar progress.Model
	width       int
}

// New создает панель
func New(props Props) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40
	prog.ShowPercentage = false

	return &Model{
		props:       props,
		progressBar: prog,
	}
}

// SetProps обновляет данные панели
func (m *Model) SetProps(props Props) {
	m.props = props
}

// Props возвращает текущие данные панели
func (m *Model) Props() Props {
	return m.props
}

// SetWidth подгоняет ширину полосы прогресса под окно
func (m *Model) SetWidth(width int) {
	m.width = width
	m.progressBar.Width = max(10, min(60, width-20))
}

// Update обрабатывает клавиши управления. Обработчики вызываются
// в команде, чтобы открытие удаленного трека не блокировало интерфейс.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	p := m.props
	switch key.String() {
	case " ":
		return m, call(p.HandleSongClick)
	case "p":
		return m, call(p.HandlePrevClick)
	case "n":
		return m, call(p.HandleNextClick)
	case "left":
		return m, callWith(p.HandleTimeChange, m.progress()-SeekStep)
	case "right":
		return m, callWith(p.HandleTimeChange, m.progress()+SeekStep)
	case "-":
		return m, callWith(p.HandleVolumeChange, p.Volume-VolumeStep)
	case "+", "=":
		return m, callWith(p.HandleVolumeChange, p.Volume+VolumeStep)
	}
	return m, nil
}

// Handles сообщает, обрабатывает ли панель клавишу
func Handles(key string) bool {
	switch key {
	case " ", "p", "n", "left", "right", "-", "+", "=":
		return true
	}
	return false
}

// View отображает панель
func (m *Model) View() string {
	p := m.props
	format := p.FormatTime
	if format == nil {
		format = utils.FormatTime
	}

	status := "⏸ Пауза"
	if p.IsPlaying {
		status = "▶ Играет"
	}

	title := p.CurrentSong.Title
	if title == "" {
		title = "нет трека"
	}

	timeText := timeStyle.Render(fmt.Sprintf("%s / %s",
		format(p.CurrentTime.Seconds()),
		format(p.Duration.Seconds()),
	))

	var b strings.Builder
	b.WriteString(statusStyle.Render(status))
	b.WriteString("  ")
	b.WriteString(songStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.progressBar.ViewAs(m.progress()))
	b.WriteString(" ")
	b.WriteString(timeText)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("🔊 %s", utils.FormatVolume(p.Volume)))
	b.WriteString("\n")
	b.WriteString(controlsStyle.Render("Пробел: пауза/воспроизведение • p/n: пред./след. • ←/→: перемотка • -/+: громкость"))
	return b.String()
}

// progress доля проигранного трека
func (m *Model) progress() float64 {
	if m.props.Duration <= 0 {
		return 0
	}
	return min(1, max(0, float64(m.props.CurrentTime)/float64(m.props.Duration)))
}

func call(fn func() error) tea.Cmd {
	if fn == nil {
		return nil
	}
	return func() tea.Msg {
		if err := fn(); err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
}

func callWith(fn func(float64) error, v float64) tea.Cmd {
	if fn == nil {
		return nil
	}
	v = min(1, max(0, v))
	return func() tea.Msg {
		if err := fn(v); err != nil {
			return ErrorMsg{Err: err}
		}
		return nil
	}
}
