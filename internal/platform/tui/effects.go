package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/fejd/internal/core"
	"github.com/vovakirdan/fejd/internal/engine"
	"github.com/vovakirdan/fejd/internal/render"
)

// Effect durations, in frames.
const (
	flashFrames   = 6
	messageFrames = 90
)

// effects turns simulation cues and engine notices into short-lived screen
// decoration. It is an engine.Handler, so it runs inside Engine.Frame.
type effects struct {
	cues *engine.CueHandler

	flash       core.Color
	flashLeft   int
	message     string
	messageLeft int
	stalled     bool
}

func newEffects() *effects {
	fx := &effects{}
	fx.cues = engine.NewCueHandler(fx.play)
	return fx
}

func (fx *effects) play(c engine.Cue) {
	switch c {
	case engine.CueHit:
		fx.setFlash(core.ColorRed, flashFrames)
	case engine.CueExplosion:
		fx.setFlash(core.ColorOrange, 2*flashFrames)
	case engine.CueRespawn:
		fx.setFlash(core.ColorCyan, flashFrames)
	}
}

// setFlash keeps the longer of the running and the new flash.
func (fx *effects) setFlash(c core.Color, frames int) {
	if frames >= fx.flashLeft {
		fx.flash = c
		fx.flashLeft = frames
	}
}

func (fx *effects) say(msg string) {
	fx.message = msg
	fx.messageLeft = messageFrames
}

// HandleStep forwards the tick's events to the cue handler.
func (fx *effects) HandleStep(s engine.Step) {
	fx.stalled = false
	fx.cues.HandleStep(s)
}

// HandleNotice shows engine notices as messages.
func (fx *effects) HandleNotice(n engine.Notice) {
	switch n := n.(type) {
	case engine.TickRateChanged:
		fx.say(fmt.Sprintf("%d ticks/s", n.TicksPerSecond))
	case engine.DebugChanged:
		if n.On {
			fx.say("hulls on")
		} else {
			fx.say("hulls off")
		}
	case engine.Stalled:
		fx.stalled = true
		fx.say(fmt.Sprintf("waiting for %s", slotList(n.Missing)))
	}
}

// decay advances the effect timers by one frame.
func (fx *effects) decay() {
	if fx.flashLeft > 0 {
		fx.flashLeft--
	}
	if fx.messageLeft > 0 && !fx.stalled {
		fx.messageLeft--
	}
}

func (fx *effects) overlay() render.Overlay {
	var ov render.Overlay
	if fx.flashLeft > 0 {
		ov.Flash = fx.flash
	}
	if fx.messageLeft > 0 {
		ov.Message = fx.message
	}
	return ov
}

func slotList(slots []int) string {
	names := make([]string, len(slots))
	for i, slot := range slots {
		names[i] = fmt.Sprintf("P%d", slot+1)
	}
	return strings.Join(names, ", ")
}
