package expenses_bot

import (
	"sync"
)

// Users maps platform user ids to canonical display names. An unmapped
// user's platform handle is used verbatim. Registration is in-memory
// only and never persisted.
type Users struct {
	mu    sync.RWMutex
	names map[int64]string
}

func NewUsers(seed map[int64]string) *Users {
	names := make(map[int64]string, len(seed))
	for id, name := range seed {
		names[id] = name
	}
	return &Users{names: names}
}

// DisplayName resolves the spender name for a user, falling back to
// the given platform handle.
func (u *Users) DisplayName(id int64, handle string) string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if name, ok := u.names[id]; ok {
		return name
	}
	return handle
}

func (u *Users) Register(id int64, name string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.names[id] = name
}
