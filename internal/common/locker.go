package common

import (
	"sync"

	"github.com/puzpuzpuz/xsync"
)

// UserLocker serializes writes per user. The document store overwrites whole
// rows, so concurrent merges, progress updates, or redemptions for one user
// would otherwise race last-writer-wins.
type UserLocker struct {
	mutexes *xsync.MapOf[string, *sync.Mutex]
}

func NewUserLocker() *UserLocker {
	return &UserLocker{mutexes: xsync.NewMapOf[*sync.Mutex]()}
}

// Lock acquires the mutex of the given user and returns its unlock function.
func (l *UserLocker) Lock(userID string) func() {
	mutex, _ := l.mutexes.LoadOrStore(userID, &sync.Mutex{})
	mutex.Lock()
	return mutex.Unlock
}
