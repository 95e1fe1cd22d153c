package loadout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/udisondev/combatsim/internal/data"
)

var (
	// ErrUnknownWeapon is returned for weapon ids missing from data.WeaponTable.
	ErrUnknownWeapon = errors.New("unknown weapon")
	// ErrSlotOutOfRange is returned for modifier slots outside [0, SlotCount).
	ErrSlotOutOfRange = errors.New("modifier slot out of range")
	// ErrLocked is returned when equipping a weapon that is not unlocked.
	ErrLocked = errors.New("weapon is locked")
)

// DefaultWeapon is unlocked for every fresh profile.
const DefaultWeapon = "blaster"

// Store persists weapon builds and the unlocked weapon set.
type Store interface {
	LoadBuilds(ctx context.Context) ([]WeaponBuild, error)
	SaveBuild(ctx context.Context, b WeaponBuild) error
	LoadUnlocked(ctx context.Context) ([]string, error)
	SaveUnlocked(ctx context.Context, ids []string) error
}

// Loadout owns the player's weapon builds and unlocked weapons.
// Mutations are sanitized immediately and marked dirty until Flush.
// Thread-safe: the simulation reads builds while the flusher persists them.
type Loadout struct {
	store Store

	mu            sync.Mutex
	builds        map[string]WeaponBuild
	unlocked      map[string]struct{}
	dirty         map[string]struct{}
	unlockedDirty bool

	// buildChanged вызывается после каждого изменения билда (вне мьютекса).
	buildChanged func(b WeaponBuild)
}

// New creates a loadout backed by store. store may be nil for a purely
// in-memory loadout.
func New(store Store) *Loadout {
	return &Loadout{
		store:    store,
		builds:   make(map[string]WeaponBuild),
		unlocked: map[string]struct{}{DefaultWeapon: {}},
		dirty:    make(map[string]struct{}),
	}
}

// SetBuildChangedCallback sets the notification hook fired on every build change.
func (l *Loadout) SetBuildChangedCallback(fn func(b WeaponBuild)) {
	l.mu.Lock()
	l.buildChanged = fn
	l.mu.Unlock()
}

// Load replaces in-memory state with the store's contents.
// Builds are sanitized on load; stale entries are dropped silently.
func (l *Loadout) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}

	builds, err := l.store.LoadBuilds(ctx)
	if err != nil {
		return fmt.Errorf("loading weapon builds: %w", err)
	}
	unlocked, err := l.store.LoadUnlocked(ctx)
	if err != nil {
		return fmt.Errorf("loading unlocked weapons: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.builds = make(map[string]WeaponBuild, len(builds))
	for _, b := range builds {
		if data.GetWeapon(b.WeaponID) == nil {
			slog.Warn("dropping build for unknown weapon", "weapon", b.WeaponID)
			continue
		}
		l.builds[b.WeaponID] = b.Sanitize()
	}

	l.unlocked = map[string]struct{}{DefaultWeapon: {}}
	for _, id := range unlocked {
		if data.GetWeapon(id) != nil {
			l.unlocked[id] = struct{}{}
		}
	}

	slog.Info("loadout loaded", "builds", len(l.builds), "unlocked", len(l.unlocked))
	return nil
}

// Build returns the build for weaponID; an empty build when none is stored.
func (l *Loadout) Build(weaponID string) WeaponBuild {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buildLocked(weaponID)
}

func (l *Loadout) buildLocked(weaponID string) WeaponBuild {
	if b, ok := l.builds[weaponID]; ok {
		return b
	}
	return WeaponBuild{WeaponID: weaponID}
}

// SetModifier puts modID into slot (empty modID clears the slot).
// Returns false when the selection is rejected: the id already sits in
// another slot, sanitize would drop it or another installed modifier
// (second magazine-class modifier, unknown id), or its preconditions fail
// for this weapon. Rejected selections leave the build untouched.
func (l *Loadout) SetModifier(weaponID string, slot int, modID string) (bool, error) {
	if slot < 0 || slot >= SlotCount {
		return false, fmt.Errorf("slot %d: %w", slot, ErrSlotOutOfRange)
	}
	base := data.GetWeapon(weaponID)
	if base == nil {
		return false, fmt.Errorf("%q: %w", weaponID, ErrUnknownWeapon)
	}
	if modID != "" {
		def, ok := Modifier(modID)
		if !ok || !def.Applies(base) {
			return false, nil
		}
	}

	l.mu.Lock()
	cur := l.buildLocked(weaponID)
	for i, m := range cur.Mods {
		if modID != "" && m == modID && i != slot {
			l.mu.Unlock()
			return false, nil
		}
	}
	raw := cur
	raw.Mods[slot] = modID
	next := raw.Sanitize()
	// Selection must not push any other installed modifier out of the build.
	for _, m := range raw.Mods {
		if m != "" && !next.HasModifier(m) {
			l.mu.Unlock()
			return false, nil
		}
	}
	if next == cur {
		l.mu.Unlock()
		return true, nil
	}
	l.builds[weaponID] = next
	l.dirty[weaponID] = struct{}{}
	notify := l.buildChanged
	l.mu.Unlock()

	if notify != nil {
		notify(next)
	}
	return true, nil
}

// SetCore sets the core slot. An empty id clears it.
func (l *Loadout) SetCore(weaponID, coreID string) (bool, error) {
	base := data.GetWeapon(weaponID)
	if base == nil {
		return false, fmt.Errorf("%q: %w", weaponID, ErrUnknownWeapon)
	}
	if coreID != "" {
		def, ok := Core(coreID)
		if !ok || !def.Applies(base) {
			return false, nil
		}
	}

	l.mu.Lock()
	cur := l.buildLocked(weaponID)
	if cur.Core == coreID {
		l.mu.Unlock()
		return true, nil
	}
	next := cur
	next.Core = coreID
	l.builds[weaponID] = next
	l.dirty[weaponID] = struct{}{}
	notify := l.buildChanged
	l.mu.Unlock()

	if notify != nil {
		notify(next)
	}
	return true, nil
}

// Effective composes the current build of weaponID.
// Recomputed on every call; never cached.
func (l *Loadout) Effective(weaponID string) (Stats, error) {
	base := data.GetWeapon(weaponID)
	if base == nil {
		return Stats{}, fmt.Errorf("%q: %w", weaponID, ErrUnknownWeapon)
	}
	b := l.Build(weaponID)
	return Compose(base, b.Mods, b.Core), nil
}

// Equip returns the effective stats of an unlocked weapon.
func (l *Loadout) Equip(weaponID string) (Stats, error) {
	if !l.IsUnlocked(weaponID) {
		return Stats{}, fmt.Errorf("%q: %w", weaponID, ErrLocked)
	}
	return l.Effective(weaponID)
}

// Unlock adds weaponID to the unlocked set.
func (l *Loadout) Unlock(weaponID string) error {
	if data.GetWeapon(weaponID) == nil {
		return fmt.Errorf("%q: %w", weaponID, ErrUnknownWeapon)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.unlocked[weaponID]; ok {
		return nil
	}
	l.unlocked[weaponID] = struct{}{}
	l.unlockedDirty = true
	return nil
}

// IsUnlocked reports whether weaponID may be equipped.
func (l *Loadout) IsUnlocked(weaponID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.unlocked[weaponID]
	return ok
}

// Unlocked returns unlocked weapon ids sorted.
func (l *Loadout) Unlocked() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Sorted(maps.Keys(l.unlocked))
}

// Dirty reports whether there are unsaved changes.
func (l *Loadout) Dirty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.dirty) > 0 || l.unlockedDirty
}

// Flush persists changed builds and the unlocked set.
// On error the remaining entries stay dirty and are retried next time.
func (l *Loadout) Flush(ctx context.Context) error {
	if l.store == nil {
		return nil
	}

	l.mu.Lock()
	pending := make([]WeaponBuild, 0, len(l.dirty))
	for _, id := range slices.Sorted(maps.Keys(l.dirty)) {
		pending = append(pending, l.builds[id])
	}
	var unlocked []string
	if l.unlockedDirty {
		unlocked = slices.Sorted(maps.Keys(l.unlocked))
	}
	l.mu.Unlock()

	for _, b := range pending {
		if err := l.store.SaveBuild(ctx, b); err != nil {
			return fmt.Errorf("saving build %s: %w", b.WeaponID, err)
		}
		l.mu.Lock()
		// Билд мог измениться во время сохранения — тогда оставляем dirty.
		if l.builds[b.WeaponID] == b {
			delete(l.dirty, b.WeaponID)
		}
		l.mu.Unlock()
	}

	if unlocked != nil {
		if err := l.store.SaveUnlocked(ctx, unlocked); err != nil {
			return fmt.Errorf("saving unlocked weapons: %w", err)
		}
		l.mu.Lock()
		if len(l.unlocked) == len(unlocked) {
			l.unlockedDirty = false
		}
		l.mu.Unlock()
	}
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu       sync.Mutex
	builds   map[string]WeaponBuild
	unlocked []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{builds: make(map[string]WeaponBuild)}
}

func (s *MemoryStore) LoadBuilds(_ context.Context) ([]WeaponBuild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WeaponBuild, 0, len(s.builds))
	for _, id := range slices.Sorted(maps.Keys(s.builds)) {
		out = append(out, s.builds[id])
	}
	return out, nil
}

func (s *MemoryStore) SaveBuild(_ context.Context, b WeaponBuild) error {
	s.mu.Lock()
	s.builds[b.WeaponID] = b
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadUnlocked(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.unlocked), nil
}

func (s *MemoryStore) SaveUnlocked(_ context.Context, ids []string) error {
	s.mu.Lock()
	s.unlocked = slices.Clone(ids)
	s.mu.Unlock()
	return nil
}
