package audio

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	zlog "github.com/rs/zerolog/log"

	"github.com/hazadus/go-turntable/internal/streaming"
)

// DefaultTickInterval период уведомлений EventTimeUpdate во время воспроизведения
const DefaultTickInterval = 250 * time.Millisecond

// Динамики инициализируются один раз на процесс; все треки
// пересэмплируются к частоте первого из них
var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerRate        beep.SampleRate
)

func ensureSpeaker(format beep.Format) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()

	if !speakerInitialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			return 0, errors.Wrap(err, "ошибка инициализации динамиков")
		}
		speakerInitialized = true
		speakerRate = format.SampleRate
	}
	return speakerRate, nil
}

// BeepOption настраивает BeepElement
type BeepOption func(*BeepElement)

// WithTickInterval задает период уведомлений о продвижении времени
func WithTickInterval(d time.Duration) BeepOption {
	return func(e *BeepElement) {
		if d > 0 {
			e.tick = d
		}
	}
}

// WithBufferSize задает размер буфера потокового чтения
func WithBufferSize(size int) BeepOption {
	return func(e *BeepElement) {
		if size > 0 {
			e.bufferSize = size
		}
	}
}

// BeepElement реализует Element поверх gopxl/beep
type BeepElement struct {
	Emitter

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	tick       time.Duration
	bufferSize int
	src        string
	level      float64

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	ended    bool
	gen      int // Увеличивается при каждой смене источника
	closed   bool
}

var _ Element = (*BeepElement)(nil)

// NewBeepElement создает примитив и запускает мониторинг прогресса
func NewBeepElement(opts ...BeepOption) *BeepElement {
	ctx, cancel := context.WithCancel(context.Background())
	e := &BeepElement{
		ctx:        ctx,
		cancel:     cancel,
		tick:       DefaultTickInterval,
		bufferSize: streaming.DefaultBufferSize,
		level:      1,
	}
	for _, opt := range opts {
		opt(e)
	}

	go e.monitorProgress()
	return e
}

// SetSource останавливает текущий трек и открывает новый источник
func (e *BeepElement) SetSource(src string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return errors.New("примитив закрыт")
	}

	e.releaseLocked()
	e.src = src

	if src == "" {
		e.mu.Unlock()
		return nil
	}

	rc, err := streaming.Open(e.ctx, src, e.bufferSize)
	if err != nil {
		e.mu.Unlock()
		return errors.Wrapf(err, "ошибка открытия источника %s", src)
	}

	streamer, format, err := mp3.Decode(rc)
	if err != nil {
		rc.Close()
		e.mu.Unlock()
		return errors.Wrapf(err, "ошибка декодирования MP3 %s", src)
	}
	e.streamer = streamer
	e.format = format
	known := e.durationLocked() > 0
	e.mu.Unlock()

	zlog.Debug().Str("src", src).Bool("duration_known", known).Msg("источник загружен")

	if known {
		e.Emit(EventDurationChange)
	}
	e.Emit(EventTimeUpdate)
	return nil
}

// Source возвращает текущий источник
func (e *BeepElement) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src
}

// Play запускает или возобновляет воспроизведение
func (e *BeepElement) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return ErrNoSource
	}

	if e.ctrl != nil {
		speaker.Lock()
		e.ctrl.Paused = false
		speaker.Unlock()
		return nil
	}

	rate, err := ensureSpeaker(e.format)
	if err != nil {
		return err
	}

	// После окончания трека повторный запуск начинается сначала
	if e.ended {
		if err := e.streamer.Seek(0); err != nil {
			zlog.Warn().Err(err).Str("src", e.src).Msg("не удалось перемотать трек в начало")
		}
		e.ended = false
	}

	var s beep.Streamer = e.streamer
	if e.format.SampleRate != rate {
		s = beep.Resample(4, e.format.SampleRate, rate, s)
	}
	e.volume = &effects.Volume{Streamer: s, Base: 2}
	e.applyVolumeLocked()
	e.ctrl = &beep.Ctrl{Streamer: e.volume}

	gen := e.gen
	speaker.Play(beep.Seq(e.ctrl, beep.Callback(func() {
		// Колбэк вызывается под блокировкой динамиков
		go e.handleEnded(gen)
	})))
	return nil
}

// Pause приостанавливает воспроизведение
func (e *BeepElement) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctrl != nil {
		speaker.Lock()
		e.ctrl.Paused = true
		speaker.Unlock()
	}
}

// SetCurrentTime перематывает трек. Потоковые источники перемотку не поддерживают.
func (e *BeepElement) SetCurrentTime(d time.Duration) {
	e.mu.Lock()
	if e.streamer == nil {
		e.mu.Unlock()
		return
	}

	pos := e.format.SampleRate.N(d)
	if pos < 0 {
		pos = 0
	}
	if n := e.streamer.Len(); n > 0 && pos > n {
		pos = n
	}

	speaker.Lock()
	err := e.streamer.Seek(pos)
	speaker.Unlock()
	if err == nil {
		e.ended = false
	}
	src := e.src
	e.mu.Unlock()

	if err != nil {
		zlog.Warn().Err(err).Str("src", src).Dur("position", d).Msg("перемотка не поддерживается источником")
		return
	}
	e.Emit(EventTimeUpdate)
}

// CurrentTime возвращает текущую позицию воспроизведения
func (e *BeepElement) CurrentTime() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := e.streamer.Position()
	speaker.Unlock()
	return e.format.SampleRate.D(pos)
}

// Duration возвращает длительность трека или 0, если она неизвестна
func (e *BeepElement) Duration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.durationLocked()
}

// SetVolume задает громкость в линейной шкале, 1 соответствует исходному уровню
func (e *BeepElement) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.level = v
	if e.volume != nil {
		speaker.Lock()
		e.applyVolumeLocked()
		speaker.Unlock()
	}
}

// Volume возвращает громкость в линейной шкале
func (e *BeepElement) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

// Close останавливает воспроизведение и мониторинг
func (e *BeepElement) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.cancel()
	e.releaseLocked()
	e.src = ""
	return nil
}

// releaseLocked снимает трек с динамиков и закрывает декодер (под мьютексом)
func (e *BeepElement) releaseLocked() {
	if e.ctrl != nil {
		speaker.Clear()
		e.ctrl = nil
		e.volume = nil
	}
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	e.ended = false
	e.gen++
}

func (e *BeepElement) durationLocked() time.Duration {
	if e.streamer == nil {
		return 0
	}
	n := e.streamer.Len()
	if n <= 0 {
		return 0
	}
	return e.format.SampleRate.D(n)
}

func (e *BeepElement) applyVolumeLocked() {
	e.volume.Volume, e.volume.Silent = gain(e.level)
}

// gain переводит линейную громкость в параметры effects.Volume с основанием 2
func gain(level float64) (volume float64, silent bool) {
	if level <= 0 || math.IsNaN(level) {
		return 0, true
	}
	return math.Log2(level), false
}

func (e *BeepElement) handleEnded(gen int) {
	e.mu.Lock()
	if gen != e.gen || e.ctrl == nil {
		e.mu.Unlock()
		return
	}
	e.ctrl = nil
	e.volume = nil
	e.ended = true
	src := e.src
	e.mu.Unlock()

	zlog.Debug().Str("src", src).Msg("трек закончился")
	e.Emit(EventTimeUpdate)
	e.Emit(EventEnded)
}

// monitorProgress периодически сообщает о продвижении времени, пока трек играет
func (e *BeepElement) monitorProgress() {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()
			playing := e.ctrl != nil
			if playing {
				speaker.Lock()
				playing = !e.ctrl.Paused
				speaker.Unlock()
			}
			e.mu.Unlock()

			if playing {
				e.Emit(EventTimeUpdate)
			}
		}
	}
}
