// Package albumlist содержит модель экрана списка альбомов для TUI
package albumlist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-turntable/internal/catalog"
	"github.com/hazadus/go-turntable/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	quitTextStyle     = lipgloss.NewStyle().Margin(1, 0, 2, 4)
)

// AlbumSelectedMsg отправляется при выборе альбома
type AlbumSelectedMsg struct {
	Slug string
}

// albumItem реализует интерфейс list.Item для альбома
type albumItem struct {
	album catalog.Album
}

func (i albumItem) FilterValue() string {
	return fmt.Sprintf("%s %s", i.album.Artist, i.album.Title)
}

// albumItemDelegate реализует отображение элементов списка
type albumItemDelegate struct{}

func (d albumItemDelegate) Height() int                             { return 1 }
func (d albumItemDelegate) Spacing() int                            { return 0 }
func (d albumItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d albumItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(albumItem)
	if !ok {
		return
	}

	// Альбом | Исполнитель | Релиз | Треков | Общая длительность
	str := fmt.Sprintf("%-35s %-20s %-16s %3d тр. %s",
		utils.TruncateString(i.album.Title, 35),
		utils.TruncateString(i.album.Artist, 20),
		utils.TruncateString(i.album.ReleaseInfo, 16),
		len(i.album.Songs),
		utils.FormatDuration(i.album.TotalLength()))

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель экрана списка альбомов
type Model struct {
	list     list.Model
	quitting bool
}

// NewModel создает модель списка альбомов каталога
func NewModel(c *catalog.Catalog) *Model {
	l := list.New(items(c), albumItemDelegate{}, 0, 0)
	l.Title = "Альбомы"
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	return &Model{list: l}
}

func items(c *catalog.Catalog) []list.Item {
	if c == nil {
		return nil
	}
	result := make([]list.Item, len(c.Albums))
	for i, a := range c.Albums {
		result[i] = albumItem{album: a}
	}
	return result
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// SetCatalog заменяет альбомы без пересоздания модели
func (m *Model) SetCatalog(c *catalog.Catalog) tea.Cmd {
	return m.list.SetItems(items(c))
}

// Len возвращает количество альбомов в списке
func (m *Model) Len() int {
	return len(m.list.Items())
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		// Во время ввода фильтра клавиши принадлежат списку
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if item, ok := m.list.SelectedItem().(albumItem); ok {
				slug := item.album.Slug
				return m, func() tea.Msg {
					return AlbumSelectedMsg{Slug: slug}
				}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	if m.quitting {
		return quitTextStyle.Render("До свидания!")
	}

	view := m.list.View()
	extraHelp := helpStyle.Render("Enter: открыть альбом • /: поиск • q: выход")
	return view + "\n" + extraHelp
}
