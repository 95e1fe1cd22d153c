package world

import (
	"slices"

	"github.com/udisondev/combatsim/internal/model"
)

// CoverSet holds destructible cover in insertion order. Not goroutine-safe.
type CoverSet struct {
	ids   *ObjectIDGenerator
	byID  map[model.CoverID]*model.Cover
	order []*model.Cover
}

// NewCoverSet creates an empty set. A nil generator gets a private one.
func NewCoverSet(ids *ObjectIDGenerator) *CoverSet {
	if ids == nil {
		ids = NewObjectIDGenerator()
	}
	return &CoverSet{
		ids:  ids,
		byID: make(map[model.CoverID]*model.Cover),
	}
}

// Add inserts c and assigns its id.
func (s *CoverSet) Add(c *model.Cover) model.CoverID {
	c.ID = s.ids.NextCoverID()
	s.byID[c.ID] = c
	s.order = append(s.order, c)
	return c.ID
}

// Cover returns the cover with id, or nil.
func (s *CoverSet) Cover(id model.CoverID) *model.Cover {
	return s.byID[id]
}

// Each iterates cover in insertion order until fn returns false.
func (s *CoverSet) Each(fn func(c *model.Cover) bool) {
	for _, c := range s.order {
		if !fn(c) {
			return
		}
	}
}

// Len returns the number of cover pieces still in the set.
func (s *CoverSet) Len() int { return len(s.order) }

// RemoveDestroyed drops cover at zero health and returns the removed ids.
func (s *CoverSet) RemoveDestroyed() []model.CoverID {
	var removed []model.CoverID
	s.order = slices.DeleteFunc(s.order, func(c *model.Cover) bool {
		if !c.Destroyed() {
			return false
		}
		delete(s.byID, c.ID)
		removed = append(removed, c.ID)
		return true
	})
	return removed
}
