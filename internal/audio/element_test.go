package audio

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterSubscribeAndEmit(t *testing.T) {
	var em Emitter

	var timeUpdates, durationChanges int
	unsubscribe := em.Subscribe(EventTimeUpdate, func() { timeUpdates++ })
	em.Subscribe(EventDurationChange, func() { durationChanges++ })

	em.Emit(EventTimeUpdate)
	em.Emit(EventTimeUpdate)
	em.Emit(EventDurationChange)
	em.Emit(EventEnded)

	assert.Equal(t, 2, timeUpdates)
	assert.Equal(t, 1, durationChanges)

	unsubscribe()
	unsubscribe() // Повторная отписка безопасна
	em.Emit(EventTimeUpdate)

	assert.Equal(t, 2, timeUpdates)
	assert.Equal(t, 0, em.ListenerCount(EventTimeUpdate))
	assert.Equal(t, 1, em.ListenerCount(EventDurationChange))
}

func TestEmitterListenerMaySubscribe(t *testing.T) {
	var em Emitter

	// Обработчик вызывается вне блокировки и может менять подписки
	calls := 0
	em.Subscribe(EventEnded, func() {
		calls++
		em.Subscribe(EventEnded, func() {})
	})
	em.Emit(EventEnded)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, em.ListenerCount(EventEnded))
}

func TestEmitterConcurrentAccess(t *testing.T) {
	var em Emitter
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsubscribe := em.Subscribe(EventTimeUpdate, func() {})
			unsubscribe()
		}()
		go func() {
			defer wg.Done()
			em.Emit(EventTimeUpdate)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, em.ListenerCount(EventTimeUpdate))
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "timeupdate", EventTimeUpdate.String())
	assert.Equal(t, "durationchange", EventDurationChange.String())
	assert.Equal(t, "ended", EventEnded.String())
	assert.Equal(t, "unknown", Event(42).String())
}

func TestGain(t *testing.T) {
	volume, silent := gain(1)
	assert.False(t, silent)
	assert.InDelta(t, 0, volume, 1e-9)

	volume, silent = gain(0.5)
	assert.False(t, silent)
	assert.InDelta(t, -1, volume, 1e-9)

	_, silent = gain(0)
	assert.True(t, silent)

	_, silent = gain(math.NaN())
	assert.True(t, silent)
}

func TestBeepElementWithoutSource(t *testing.T) {
	e := NewBeepElement(WithTickInterval(10 * time.Millisecond))
	defer e.Close()

	assert.Equal(t, "", e.Source())
	assert.Equal(t, time.Duration(0), e.CurrentTime())
	assert.Equal(t, time.Duration(0), e.Duration())

	err := e.Play()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSource))

	// Без источника пауза и перемотка ничего не делают
	e.Pause()
	e.SetCurrentTime(10 * time.Second)
	assert.Equal(t, time.Duration(0), e.CurrentTime())
}

func TestBeepElementVolume(t *testing.T) {
	e := NewBeepElement()
	defer e.Close()

	assert.Equal(t, 1.0, e.Volume())
	e.SetVolume(0.3)
	assert.Equal(t, 0.3, e.Volume())
}

func TestBeepElementMissingFile(t *testing.T) {
	e := NewBeepElement()
	defer e.Close()

	src := filepath.Join(t.TempDir(), "missing.mp3")
	err := e.SetSource(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка открытия источника")

	// Источник запоминается даже при ошибке, как у браузерного элемента
	assert.Equal(t, src, e.Source())
	assert.True(t, errors.Is(e.Play(), ErrNoSource))
}

func TestBeepElementCorruptedFile(t *testing.T) {
	e := NewBeepElement()
	defer e.Close()

	src := filepath.Join(t.TempDir(), "corrupted.mp3")
	require.NoError(t, os.WriteFile(src, []byte{0x00, 0x01, 0x02, 0x03}, 0644))

	durationChanged := false
	e.Subscribe(EventDurationChange, func() { durationChanged = true })

	err := e.SetSource(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка декодирования MP3")
	assert.False(t, durationChanged)
}

func TestBeepElementClearSource(t *testing.T) {
	e := NewBeepElement()
	defer e.Close()

	_ = e.SetSource(filepath.Join(t.TempDir(), "missing.mp3"))
	require.NoError(t, e.SetSource(""))
	assert.Equal(t, "", e.Source())
}

func TestBeepElementClose(t *testing.T) {
	e := NewBeepElement()

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	assert.Error(t, e.SetSource("/tmp/any.mp3"))
}
