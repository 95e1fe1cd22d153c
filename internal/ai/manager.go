package ai

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/udisondev/combatsim/internal/model"
)

// Wander tuning of the disoriented override.
const (
	WanderSpeedScale = 0.6
	WanderTurnEvery  = 600 * time.Millisecond
)

// Order is the decision of one actor for the current tick.
type Order struct {
	Actor    model.ActorID
	Decision Decision
}

type wander struct {
	dir    model.Vec2
	nextAt time.Duration
}

// Manager runs registered controllers in registration order, applying the
// override layers Stunned > Knockback > Disoriented before archetype logic.
// Not goroutine-safe: driven by the simulation goroutine.
type Manager struct {
	controllers map[model.ActorID]Controller
	order       []model.ActorID

	stunnedAt map[model.ActorID]time.Duration
	wanders   map[model.ActorID]*wander
}

// NewManager creates an empty AI manager.
func NewManager() *Manager {
	return &Manager{
		controllers: make(map[model.ActorID]Controller),
		stunnedAt:   make(map[model.ActorID]time.Duration),
		wanders:     make(map[model.ActorID]*wander),
	}
}

// Register registers a controller for actor id, replacing any previous one.
func (m *Manager) Register(id model.ActorID, c Controller) {
	if _, ok := m.controllers[id]; !ok {
		m.order = append(m.order, id)
	}
	m.controllers[id] = c

	if IsDebugEnabled() {
		slog.Debug("AI controller registered", "actor", id)
	}
}

// Unregister drops the controller and all override state of id.
func (m *Manager) Unregister(id model.ActorID) {
	if _, ok := m.controllers[id]; !ok {
		return
	}
	delete(m.controllers, id)
	delete(m.stunnedAt, id)
	delete(m.wanders, id)
	m.order = slices.DeleteFunc(m.order, func(x model.ActorID) bool { return x == id })

	if IsDebugEnabled() {
		slog.Debug("AI controller unregistered", "actor", id)
	}
}

// Count returns number of registered controllers.
func (m *Manager) Count() int {
	return len(m.order)
}

// GetController returns the controller of actor id.
func (m *Manager) GetController(id model.ActorID) (Controller, error) {
	c, ok := m.controllers[id]
	if !ok {
		return nil, fmt.Errorf("controller not found for actor %d", id)
	}
	return c, nil
}

// Think evaluates every living registered actor and returns their orders.
func (m *Manager) Think(env Env) []Order {
	out := make([]Order, 0, len(m.order))
	for _, id := range m.order {
		self := env.Actor(id)
		if self == nil || self.IsDead() {
			continue
		}
		out = append(out, Order{Actor: id, Decision: m.think(env, self, m.controllers[id])})
	}
	return out
}

func (m *Manager) think(env Env, self *model.Actor, c Controller) Decision {
	now := env.Now()

	var d Decision
	if b, ok := c.(Background); ok {
		d = b.Background(env, self)
	}

	if env.Stunned(self.ID) {
		if _, already := m.stunnedAt[self.ID]; !already {
			m.stunnedAt[self.ID] = now
			c.Interrupt(now, self)
		}
		// Оглушённый стоит на месте.
		return d
	}
	m.resume(self, now)

	if vel, ok := self.Knockback(now); ok {
		d.Move = vel
		return d
	}
	if env.Disoriented(self.ID) && !self.IsBoss() && !self.IsPlayer() {
		d.Move = m.wander(env, self)
		return d
	}
	delete(m.wanders, self.ID)

	arch := c.Think(env, self)
	arch.merge(d)
	return arch
}

// resume shifts suspended timers by the stun duration once the stun ends.
func (m *Manager) resume(self *model.Actor, now time.Duration) {
	at, ok := m.stunnedAt[self.ID]
	if !ok {
		return
	}
	delete(m.stunnedAt, self.ID)
	self.AI.Shift(now - at)
	if IsDebugEnabled() {
		slog.Debug("AI resumed after stun",
			"actor", self.ID,
			"suspended", now-at)
	}
}

func (m *Manager) wander(env Env, self *model.Actor) model.Vec2 {
	now := env.Now()
	w, ok := m.wanders[self.ID]
	if !ok {
		w = &wander{}
		m.wanders[self.ID] = w
	}
	if w.dir.IsZero() || now >= w.nextAt {
		w.dir = model.FromAngle(env.Rand().Float64() * 2 * math.Pi)
		w.nextAt = now + WanderTurnEvery
	}
	self.Facing = w.dir.Angle()
	return w.dir.Scale(self.Speed * WanderSpeedScale)
}
