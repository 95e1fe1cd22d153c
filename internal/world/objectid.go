package world

import (
	"sync/atomic"

	"github.com/udisondev/combatsim/internal/model"
)

// ObjectIDGenerator hands out stable ids for actors and cover.
// Ids start at 1; zero is the "none" handle of both kinds and ids are never reused.
type ObjectIDGenerator struct {
	nextActorID atomic.Uint32
	nextCoverID atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	return &ObjectIDGenerator{}
}

// NextActorID generates next unique actor ID.
func (g *ObjectIDGenerator) NextActorID() model.ActorID {
	return model.ActorID(g.nextActorID.Add(1))
}

// NextCoverID generates next unique cover ID.
func (g *ObjectIDGenerator) NextCoverID() model.CoverID {
	return model.CoverID(g.nextCoverID.Add(1))
}
