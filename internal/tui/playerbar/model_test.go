package playerbar

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazadus/go-turntable/internal/catalog"
)

type recorder struct {
	calls  []string
	values []float64
	err    error
}

func (r *recorder) props() Props {
	return Props{
		IsPlaying:   true,
		CurrentSong: catalog.Song{Title: "So What", Duration: 545},
		CurrentTime: 30 * time.Second,
		Duration:    60 * time.Second,
		Volume:      0.3,
		HandleSongClick: func() error {
			r.calls = append(r.calls, "song")
			return r.err
		},
		HandlePrevClick: func() error {
			r.calls = append(r.calls, "prev")
			return r.err
		},
		HandleNextClick: func() error {
			r.calls = append(r.calls, "next")
			return r.err
		},
		HandleTimeChange: func(f float64) error {
			r.calls = append(r.calls, "time")
			r.values = append(r.values, f)
			return r.err
		},
		HandleVolumeChange: func(v float64) error {
			r.calls = append(r.calls, "volume")
			r.values = append(r.values, v)
			return r.err
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *Model, s string) tea.Msg {
	t.Helper()
	_, cmd := m.Update(key(s))
	require.NotNil(t, cmd, "клавиша %q должна вернуть команду", s)
	return cmd()
}

func TestKeysCallHandlers(t *testing.T) {
	r := &recorder{}
	m := New(r.props())

	for _, k := range []string{" ", "p", "n", "left", "right", "-", "+"} {
		assert.Nil(t, press(t, m, k))
	}

	assert.Equal(t, []string{"song", "prev", "next", "time", "time", "volume", "volume"}, r.calls)
	assert.InDeltaSlice(t, []float64{0.45, 0.55, 0.2, 0.4}, r.values, 1e-9)
}

func TestValuesAreClamped(t *testing.T) {
	r := &recorder{}
	props := r.props()
	props.CurrentTime = 0
	props.Volume = 1
	m := New(props)

	press(t, m, "left")
	press(t, m, "+")

	assert.Equal(t, []float64{0, 1}, r.values)
}

func TestHandlerErrorBecomesMsg(t *testing.T) {
	r := &recorder{err: errors.New("нет источника")}
	m := New(r.props())

	msg := press(t, m, "n")
	errMsg, ok := msg.(ErrorMsg)
	require.True(t, ok)
	assert.EqualError(t, errMsg.Err, "нет источника")
}

func TestUnknownKeyAndMissingHandler(t *testing.T) {
	m := New(Props{})

	_, cmd := m.Update(key("x"))
	assert.Nil(t, cmd)

	_, cmd = m.Update(key(" "))
	assert.Nil(t, cmd)

	_, cmd = m.Update(tea.WindowSizeMsg{Width: 80})
	assert.Nil(t, cmd)
}

func TestHandles(t *testing.T) {
	for _, k := range []string{" ", "p", "n", "left", "right", "-", "+", "="} {
		assert.True(t, Handles(k), k)
	}
	assert.False(t, Handles("q"))
	assert.False(t, Handles("enter"))
}

func TestView(t *testing.T) {
	r := &recorder{}
	m := New(r.props())
	m.SetWidth(100)

	view := m.View()
	assert.Contains(t, view, "So What")
	assert.Contains(t, view, "Играет")
	assert.Contains(t, view, "0:30 / 1:00")
	assert.Contains(t, view, "30%")

	props := m.Props()
	props.IsPlaying = false
	props.Duration = 0
	props.FormatTime = func(float64) string { return "??" }
	m.SetProps(props)

	view = m.View()
	assert.Contains(t, view, "Пауза")
	assert.True(t, strings.Contains(view, "?? / ??"))
}
