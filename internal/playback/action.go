package playback

import "github.com/cockroachdb/errors"

// ActionType тип действия пользователя
type ActionType int

// Действия, которые принимает Dispatch
const (
	ActionPlay ActionType = iota
	ActionPause
	ActionSelect
	ActionSeek
	ActionSetVolume
	ActionPrev
	ActionNext
)

func (t ActionType) String() string {
	switch t {
	case ActionPlay:
		return "Play"
	case ActionPause:
		return "Pause"
	case ActionSelect:
		return "Select"
	case ActionSeek:
		return "Seek"
	case ActionSetVolume:
		return "SetVolume"
	case ActionPrev:
		return "Prev"
	case ActionNext:
		return "Next"
	default:
		return "Unknown"
	}
}

// Action действие над контроллером. Index используется в Select,
// Value в Seek (доля трека) и SetVolume.
type Action struct {
	Type  ActionType
	Index int
	Value float64
}

// Dispatch применяет действие к контроллеру
func (c *Controller) Dispatch(a Action) error {
	switch a.Type {
	case ActionPlay:
		return c.Play()
	case ActionPause:
		return c.Pause()
	case ActionSelect:
		return c.HandleSongClick(a.Index)
	case ActionSeek:
		return c.HandleTimeChange(a.Value)
	case ActionSetVolume:
		return c.HandleVolumeChange(a.Value)
	case ActionPrev:
		return c.HandlePrevClick()
	case ActionNext:
		return c.HandleNextClick()
	default:
		return errors.Newf("неизвестное действие %d", int(a.Type))
	}
}
