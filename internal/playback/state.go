package playback

import (
	"time"

	"github.com/hazadus/go-turntable/internal/catalog"
)

// NoSong означает отсутствие трека под курсором
const NoSong = -1

// State снимок состояния воспроизведения альбома
type State struct {
	CurrentIndex int          // Индекс текущего трека в альбоме
	CurrentSong  catalog.Song // Текущий трек
	CurrentTime  time.Duration
	Duration     time.Duration
	Volume       float64 // 0.0–1.0
	IsPlaying    bool
	HoveredIndex int    // Трек под курсором или NoSong
	Err          error  // Последняя ошибка примитива, только для отображения
	Version      uint64 // Растет с каждым изменением
}

// Status возвращает одно из двух состояний автомата
func (s State) Status() Status {
	if s.IsPlaying {
		return StatusPlaying
	}
	return StatusStopped
}

// Progress возвращает долю проигранного трека от 0 до 1
func (s State) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := float64(s.CurrentTime) / float64(s.Duration)
	return clamp01(p)
}

// Status состояние автомата воспроизведения
type Status int

const (
	// StatusStopped воспроизведение остановлено
	StatusStopped Status = iota
	// StatusPlaying трек играет
	StatusPlaying
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "Stopped"
	case StatusPlaying:
		return "Playing"
	default:
		return "Unknown"
	}
}
