// Package audio описывает примитив воспроизведения, которым владеет
// контроллер альбома, и его реализацию поверх beep
package audio

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNoSource возвращается при попытке воспроизведения без источника
var ErrNoSource = errors.New("источник аудио не задан")

// Event тип уведомления от примитива
type Event int

const (
	// EventTimeUpdate позиция воспроизведения продвинулась
	EventTimeUpdate Event = iota
	// EventDurationChange стала известна длительность источника
	EventDurationChange
	// EventEnded воспроизведение дошло до конца источника
	EventEnded
)

func (e Event) String() string {
	switch e {
	case EventTimeUpdate:
		return "timeupdate"
	case EventDurationChange:
		return "durationchange"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Element минимальный контракт примитива воспроизведения
type Element interface {
	// SetSource меняет источник; пустая строка очищает его
	SetSource(src string) error
	Source() string
	Play() error
	Pause()
	SetCurrentTime(d time.Duration)
	CurrentTime() time.Duration
	// Duration возвращает 0, пока длительность неизвестна
	Duration() time.Duration
	SetVolume(v float64)
	Volume() float64
	// Subscribe подписывает fn на событие и возвращает функцию отписки
	Subscribe(ev Event, fn func()) (unsubscribe func())
	Close() error
}

// Emitter хранит подписчиков на события примитива.
// Обработчики вызываются вне блокировки, поэтому могут обращаться к примитиву.
type Emitter struct {
	mu        sync.Mutex
	nextID    int
	listeners map[Event]map[int]func()
}

// Subscribe регистрирует обработчик события
func (em *Emitter) Subscribe(ev Event, fn func()) func() {
	em.mu.Lock()
	defer em.mu.Unlock()

	if em.listeners == nil {
		em.listeners = make(map[Event]map[int]func())
	}
	if em.listeners[ev] == nil {
		em.listeners[ev] = make(map[int]func())
	}
	id := em.nextID
	em.nextID++
	em.listeners[ev][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			em.mu.Lock()
			defer em.mu.Unlock()
			delete(em.listeners[ev], id)
		})
	}
}

// Emit вызывает всех подписчиков события
func (em *Emitter) Emit(ev Event) {
	em.mu.Lock()
	fns := make([]func(), 0, len(em.listeners[ev]))
	for _, fn := range em.listeners[ev] {
		fns = append(fns, fn)
	}
	em.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ListenerCount возвращает число подписчиков события
func (em *Emitter) ListenerCount(ev Event) int {
	em.mu.Lock()
	defer em.mu.Unlock()
	return len(em.listeners[ev])
}
