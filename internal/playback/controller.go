// Package playback содержит автомат воспроизведения альбома
package playback

import (
	"math"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/hazadus/go-turntable/internal/audio"
	"github.com/hazadus/go-turntable/internal/catalog"
	"github.com/hazadus/go-turntable/internal/utils"
)

// DefaultVolume громкость нового контроллера
const DefaultVolume = 0.3

// Ошибки контроллера
var (
	ErrDisposed   = errors.New("контроллер уже освобожден")
	ErrEmptyAlbum = errors.New("в альбоме нет треков")
)

// Option настраивает Controller
type Option func(*Controller)

// WithInitialVolume задает начальную громкость
func WithInitialVolume(v float64) Option {
	return func(c *Controller) {
		if !math.IsNaN(v) {
			c.initialVolume = clamp01(v)
		}
	}
}

// Controller владеет состоянием воспроизведения альбома и единственным
// примитивом воспроизведения. Все переходы проходят через него.
//
// opMu упорядочивает пользовательские операции, mu защищает состояние.
// Обработчики событий примитива берут только mu, поэтому примитив может
// вызывать их синхронно изнутри SetSource или SetCurrentTime.
// notifyMu держится от снимка до рассылки: подписчики получают снимки
// в порядке возрастания State.Version.
type Controller struct {
	opMu     sync.Mutex
	notifyMu sync.Mutex

	mu          sync.Mutex
	element     audio.Element
	album       *catalog.Album
	state       State
	subscribers map[int]func(State)
	nextSubID   int
	unbind      []func()
	disposed    bool

	initialVolume float64
}

// NewController создает контроллер для альбома: выбирает первый трек,
// выставляет громкость и подписывается на события примитива.
// Ошибка открытия первого трека не фатальна и попадает в State.Err.
func NewController(element audio.Element, album *catalog.Album, opts ...Option) (*Controller, error) {
	if album == nil || len(album.Songs) == 0 {
		return nil, ErrEmptyAlbum
	}

	c := &Controller{
		element:       element,
		album:         album,
		subscribers:   make(map[int]func(State)),
		initialVolume: DefaultVolume,
	}
	for _, opt := range opts {
		opt(c)
	}

	first := album.Songs[0]
	c.state = State{
		CurrentIndex: 0,
		CurrentSong:  first,
		Duration:     first.Length(),
		Volume:       c.initialVolume,
		HoveredIndex: NoSong,
	}

	if err := element.SetSource(first.AudioSrc); err != nil {
		zlog.Warn().Err(err).Str("album", album.Slug).Msg("не удалось открыть первый трек")
		c.state.Err = err
	}
	element.SetVolume(c.state.Volume)

	c.unbind = []func(){
		element.Subscribe(audio.EventTimeUpdate, c.onTimeUpdate),
		element.Subscribe(audio.EventDurationChange, c.onDurationChange),
		element.Subscribe(audio.EventEnded, c.onEnded),
	}
	return c, nil
}

// Album возвращает альбом контроллера
func (c *Controller) Album() *catalog.Album {
	return c.album
}

// State возвращает снимок текущего состояния
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe подписывает fn на изменения состояния и возвращает функцию отписки.
// fn вызывается вне блокировки состояния, в горутине, которая изменила
// состояние, и не должен вызывать изменяющие операции контроллера.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Play запускает воспроизведение текущего трека
func (c *Controller) Play() error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.isDisposed() {
		return ErrDisposed
	}
	return c.play()
}

// Pause останавливает воспроизведение
func (c *Controller) Pause() error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.isDisposed() {
		return ErrDisposed
	}
	c.pause()
	return nil
}

// SetSong переключает источник на трек с индексом i, не меняя IsPlaying.
// Индекс вне альбома игнорируется.
func (c *Controller) SetSong(i int) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.isDisposed() {
		return ErrDisposed
	}
	if !c.validIndex(i) {
		return nil
	}
	return c.setSong(i)
}

// HandleSongClick: повторный клик по играющему треку ставит паузу,
// клик по другому треку переключает на него и запускает воспроизведение,
// клик по текущему остановленному треку продолжает воспроизведение
func (c *Controller) HandleSongClick(i int) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.isDisposed() {
		return ErrDisposed
	}
	if !c.validIndex(i) {
		return nil
	}

	st := c.State()
	isSameSong := st.CurrentIndex == i
	if st.IsPlaying && isSameSong {
		c.pause()
		return nil
	}
	if !isSameSong {
		if err := c.setSong(i); err != nil {
			return err
		}
	}
	return c.play()
}

// HandlePrevClick переходит к предыдущему треку. Ничего не делает, если
// воспроизведение остановлено или текущий трек первый.
func (c *Controller) HandlePrevClick() error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.isDisposed() {
		return ErrDisposed
	}

	st := c.State()
	if !st.IsPlaying || st.CurrentIndex == 0 {
		return nil
	}
	if err := c.setSong(max(0, st.CurrentIndex-1)); err != nil {
		return err
	}
	return c.play()
}

// HandleNextClick переходит к следующему треку. Ничего не делает, если
// воспроизведение остановлено или следующего трека нет.
func (c *Controller) HandleNextClick() error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.isDisposed() {
		return ErrDisposed
	}

	st := c.State()
	if !st.IsPlaying {
		return nil
	}
	// Граница намеренно равна длине альбома: с последнего трека индекс
	// уходит за конец, трека там нет, и переход не выполняется
	next := min(len(c.album.Songs), st.CurrentIndex+1)
	if !c.validIndex(next) {
		return nil
	}
	if err := c.setSong(next); err != nil {
		return err
	}
	return c.play()
}

// HandleTimeChange перематывает на долю fraction от длительности трека.
// Доля ограничивается отрезком [0, 1], NaN игнорируется.
func (c *Controller) HandleTimeChange(fraction float64) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.isDisposed() {
		return ErrDisposed
	}
	if math.IsNaN(fraction) {
		return nil
	}

	duration := c.element.Duration()
	if duration <= 0 {
		duration = c.State().Duration
	}
	newTime := time.Duration(float64(duration) * clamp01(fraction))

	c.element.SetCurrentTime(newTime)
	c.update(func(s *State) {
		s.CurrentTime = newTime
	})
	return nil
}

// HandleVolumeChange задает громкость, ограниченную отрезком [0, 1]
func (c *Controller) HandleVolumeChange(v float64) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.isDisposed() {
		return ErrDisposed
	}
	if math.IsNaN(v) {
		return nil
	}

	v = clamp01(v)
	c.element.SetVolume(v)
	c.update(func(s *State) {
		s.Volume = v
	})
	return nil
}

// Hover отмечает трек под курсором
func (c *Controller) Hover(i int) {
	if !c.validIndex(i) {
		i = NoSong
	}
	c.update(func(s *State) {
		s.HoveredIndex = i
	})
}

// Unhover снимает отметку с трека под курсором
func (c *Controller) Unhover() {
	c.Hover(NoSong)
}

// FormatTime форматирует секунды для отображения в списке и плеере
func (c *Controller) FormatTime(seconds float64) string {
	return utils.FormatTime(seconds)
}

// Dispose очищает источник, отписывается от примитива и закрывает его.
// После вызова все операции возвращают ErrDisposed.
func (c *Controller) Dispose() error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil
	}
	c.disposed = true
	unbind := c.unbind
	c.unbind = nil
	c.subscribers = make(map[int]func(State))
	c.mu.Unlock()

	for _, fn := range unbind {
		fn()
	}

	var err error
	if srcErr := c.element.SetSource(""); srcErr != nil {
		err = errors.CombineErrors(err, srcErr)
	}
	if closeErr := c.element.Close(); closeErr != nil {
		err = errors.CombineErrors(err, closeErr)
	}

	zlog.Debug().Str("album", c.album.Slug).Msg("контроллер освобожден")
	return err
}

// play вызывается под opMu
func (c *Controller) play() error {
	if err := c.element.Play(); err != nil {
		zlog.Warn().Err(err).Str("album", c.album.Slug).Msg("не удалось запустить воспроизведение")
		c.update(func(s *State) {
			s.IsPlaying = false
			s.Err = err
		})
		return err
	}
	c.update(func(s *State) {
		s.IsPlaying = true
		s.Err = nil
	})
	return nil
}

// pause вызывается под opMu
func (c *Controller) pause() {
	c.element.Pause()
	c.update(func(s *State) {
		s.IsPlaying = false
	})
}

// setSong вызывается под opMu. Текущим становится трек, на который
// переключен источник, даже если открыть его не удалось.
func (c *Controller) setSong(i int) error {
	song := c.album.Songs[i]
	c.update(func(s *State) {
		s.CurrentIndex = i
		s.CurrentSong = song
		s.CurrentTime = 0
		s.Duration = song.Length()
	})

	err := c.element.SetSource(song.AudioSrc)
	c.update(func(s *State) {
		s.Err = err
	})
	if err != nil {
		zlog.Warn().Err(err).Str("album", c.album.Slug).Str("song", song.Title).Msg("не удалось переключить трек")
		return err
	}

	zlog.Debug().Str("album", c.album.Slug).Int("index", i).Str("song", song.Title).Msg("трек выбран")
	return nil
}

func (c *Controller) onTimeUpdate() {
	t := c.element.CurrentTime()
	c.update(func(s *State) {
		s.CurrentTime = t
	})
}

func (c *Controller) onDurationChange() {
	d := c.element.Duration()
	if d <= 0 {
		return
	}
	c.update(func(s *State) {
		s.Duration = d
	})
}

func (c *Controller) onEnded() {
	c.update(func(s *State) {
		s.IsPlaying = false
	})
}

// update изменяет состояние и уведомляет подписчиков вне блокировки mu
func (c *Controller) update(fn func(*State)) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	fn(&c.state)
	c.state.Version++
	snapshot := c.state
	subs := make([]func(State), 0, len(c.subscribers))
	for _, sub := range c.subscribers {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

func (c *Controller) isDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

func (c *Controller) validIndex(i int) bool {
	return i >= 0 && i < len(c.album.Songs)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
