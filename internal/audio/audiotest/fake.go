// Package audiotest содержит управляемый примитив воспроизведения для тестов
package audiotest

import (
	"sync"
	"time"

	"github.com/hazadus/go-turntable/internal/audio"
)

// Element имитирует примитив воспроизведения: запоминает вызовы и
// позволяет тестам сдвигать время и сообщать длительность
type Element struct {
	audio.Emitter

	mu          sync.Mutex
	src         string
	playing     bool
	currentTime time.Duration
	duration    time.Duration
	volume      float64
	closed      bool

	// FailSources источники, открытие которых завершается ошибкой
	FailSources map[string]error
	// PlayErr возвращается из Play, если задан
	PlayErr error
	// Durations длительности, о которых сообщается после смены источника
	Durations map[string]time.Duration

	Calls []string
}

var _ audio.Element = (*Element)(nil)

// New создает фейковый примитив
func New() *Element {
	return &Element{
		volume:      1,
		FailSources: make(map[string]error),
		Durations:   make(map[string]time.Duration),
	}
}

func (e *Element) record(call string) {
	e.Calls = append(e.Calls, call)
}

// SetSource запоминает источник и, как браузерный элемент, сбрасывает время
func (e *Element) SetSource(src string) error {
	e.mu.Lock()
	e.record("SetSource " + src)
	e.src = src
	e.playing = false
	e.currentTime = 0
	e.duration = 0
	if err, ok := e.FailSources[src]; ok {
		e.mu.Unlock()
		return err
	}
	d, known := e.Durations[src]
	e.duration = d
	e.mu.Unlock()

	if known && d > 0 {
		e.Emit(audio.EventDurationChange)
	}
	e.Emit(audio.EventTimeUpdate)
	return nil
}

// Source возвращает текущий источник
func (e *Element) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src
}

// Play имитирует запуск воспроизведения
func (e *Element) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("Play")
	if e.PlayErr != nil {
		return e.PlayErr
	}
	if e.src == "" {
		return audio.ErrNoSource
	}
	e.playing = true
	return nil
}

// Pause имитирует паузу
func (e *Element) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("Pause")
	e.playing = false
}

// Playing сообщает, считает ли примитив себя играющим
func (e *Element) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// SetCurrentTime перематывает и уведомляет подписчиков
func (e *Element) SetCurrentTime(d time.Duration) {
	e.mu.Lock()
	e.record("SetCurrentTime")
	e.currentTime = d
	e.mu.Unlock()
	e.Emit(audio.EventTimeUpdate)
}

// CurrentTime возвращает позицию
func (e *Element) CurrentTime() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentTime
}

// Duration возвращает длительность
func (e *Element) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// SetVolume запоминает громкость
func (e *Element) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = v
}

// Volume возвращает громкость
func (e *Element) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Close закрывает примитив
func (e *Element) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("Close")
	e.closed = true
	return nil
}

// Closed сообщает, был ли вызван Close
func (e *Element) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Advance сдвигает время воспроизведения, как это делал бы играющий трек
func (e *Element) Advance(d time.Duration) {
	e.mu.Lock()
	e.currentTime += d
	e.mu.Unlock()
	e.Emit(audio.EventTimeUpdate)
}

// ReportDuration сообщает длительность источника
func (e *Element) ReportDuration(d time.Duration) {
	e.mu.Lock()
	e.duration = d
	e.mu.Unlock()
	e.Emit(audio.EventDurationChange)
}

// End имитирует окончание трека
func (e *Element) End() {
	e.mu.Lock()
	e.playing = false
	e.currentTime = e.duration
	e.mu.Unlock()
	e.Emit(audio.EventTimeUpdate)
	e.Emit(audio.EventEnded)
}
