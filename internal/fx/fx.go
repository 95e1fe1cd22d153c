// Package fx describes fire-and-forget visual effect requests.
//
// The simulation never renders anything itself: it emits declarative Effects
// through an Emitter and never observes a result.
package fx

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/combatsim/internal/model"
)

// Kind is the visual effect type.
type Kind uint8

const (
	KindImpact Kind = iota + 1
	KindExplosion
	KindMuzzle
	KindTelegraph
	KindBeam
	KindStatus
	KindShieldBreak
	KindShockwave
	KindCoverDestroyed
	KindDeflect
	KindSpawn
)

var kindNames = [...]string{
	KindImpact:         "impact",
	KindExplosion:      "explosion",
	KindMuzzle:         "muzzle",
	KindTelegraph:      "telegraph",
	KindBeam:           "beam",
	KindStatus:         "status",
	KindShieldBreak:    "shield_break",
	KindShockwave:      "shockwave",
	KindCoverDestroyed: "cover_destroyed",
	KindDeflect:        "deflect",
	KindSpawn:          "spawn",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Color is packed 0xRRGGBBAA.
type Color uint32

const (
	ColorWhite  Color = 0xffffffff
	ColorRed    Color = 0xff3030ff
	ColorOrange Color = 0xff8c1aff
	ColorGreen  Color = 0x5cd65cff
	ColorYellow Color = 0xffe14dff
	ColorCyan   Color = 0x33ccffff
	ColorViolet Color = 0xa64dffff
)

// Effect is a single declarative visual request.
// End is used by line-shaped effects (telegraphs, beams).
type Effect struct {
	Kind     Kind
	Pos      model.Vec2
	End      model.Vec2
	Radius   float64
	Color    Color
	Duration time.Duration

	// Actor attaches the effect to an actor (status indicators).
	Actor  model.ActorID
	Status model.StatusKind
}

// Emitter accepts visual effect requests.
type Emitter interface {
	Emit(e Effect)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(e Effect)

func (f EmitterFunc) Emit(e Effect) { f(e) }

// Discard drops every effect.
var Discard Emitter = EmitterFunc(func(Effect) {})

// StatusColor returns the indicator color for a status kind.
func StatusColor(kind model.StatusKind) Color {
	switch kind {
	case model.StatusIgnite:
		return ColorOrange
	case model.StatusToxin:
		return ColorGreen
	case model.StatusStun:
		return ColorYellow
	default:
		return ColorWhite
	}
}

// LogEmitter writes effects to slog at Debug level.
// Used by the headless runner in place of a renderer.
type LogEmitter struct {
	Logger *slog.Logger
}

func (l LogEmitter) Emit(e Effect) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []any{
		"kind", e.Kind.String(),
		"x", e.Pos.X,
		"y", e.Pos.Y,
	}
	if e.Radius > 0 {
		attrs = append(attrs, "radius", e.Radius)
	}
	if e.Actor != model.NoActor {
		attrs = append(attrs, "actor", e.Actor)
	}
	if e.Status != model.StatusNone {
		attrs = append(attrs, "status", e.Status.String())
	}
	logger.Debug("fx", attrs...)
}

// Recorder keeps every emitted effect in order. Not goroutine-safe.
type Recorder struct {
	Effects []Effect
}

func (r *Recorder) Emit(e Effect) {
	r.Effects = append(r.Effects, e)
}

// Count returns how many effects of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	n := 0
	for _, e := range r.Effects {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets recorded effects.
func (r *Recorder) Reset() {
	r.Effects = r.Effects[:0]
}
