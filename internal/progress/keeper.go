package progress

import (
	"sync"
)

// Keeper owns the live UserProgress. It reads storage once and writes back
// after every mutation; all mutations are serialized.
type Keeper struct {
	mu      sync.Mutex
	repo    *Repository
	current UserProgress
	loaded  bool
}

func NewKeeper(repo *Repository) *Keeper {
	return &Keeper{repo: repo}
}

func (k *Keeper) load() {
	if !k.loaded {
		k.current = k.repo.Load()
		k.loaded = true
	}
}

// Progress returns a copy of the current progress.
func (k *Keeper) Progress() UserProgress {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.load()
	return k.current.Clone()
}

// Check applies obs and persists the result. The in-memory state advances
// even when the write fails; the error is returned for the caller to report.
func (k *Keeper) Check(obs Observation) (UserProgress, []Achievement, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.load()
	next, unlocked := ApplyObservation(k.current, obs)
	k.current = next
	return next.Clone(), unlocked, k.repo.Save(next)
}

// SetTempUnit changes the display unit preference.
func (k *Keeper) SetTempUnit(unit TempUnit) (UserProgress, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.load()
	next, err := SetTempUnit(k.current, unit)
	if err != nil {
		return k.current.Clone(), err
	}
	k.current = next
	return next.Clone(), k.repo.Save(next)
}

// Reset drops all progress.
func (k *Keeper) Reset() (UserProgress, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.current = DefaultProgress()
	k.loaded = true
	return k.current.Clone(), k.repo.Reset()
}
