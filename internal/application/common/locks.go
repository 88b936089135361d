package common

import "sync"

// GameLockRegistry serializes writers per game code. Handlers hold the
// lock for the read-modify-write-publish span of one operation; games
// never contend with each other.
//
// Entries are never evicted; a lock is two words and games are bounded
// by matchmaking volume.
type GameLockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGameLockRegistry creates an empty registry.
func NewGameLockRegistry() *GameLockRegistry {
	return &GameLockRegistry{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the per-game lock and returns its unlock function.
func (r *GameLockRegistry) Lock(gameCode string) func() {
	r.mu.Lock()
	lock, ok := r.locks[gameCode]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[gameCode] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
