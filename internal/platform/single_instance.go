package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another process already owns the timer.
var ErrAlreadyRunning = errors.New("instance already running")

// OwnerLock marks this process as the single owner of the persisted timer
// state. It is held for as long as a loopback port derived from the app
// name stays bound.
type OwnerLock struct {
	listener net.Listener
}

// AcquireOwnerLock binds the app's loopback port or fails with
// ErrAlreadyRunning.
func AcquireOwnerLock(appName string) (*OwnerLock, error) {
	listener, err := net.Listen("tcp", lockAddress(appName))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAlreadyRunning, err)
	}
	return &OwnerLock{listener: listener}, nil
}

// Release frees the lock.
func (lock *OwnerLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	return lock.listener.Close()
}

func lockAddress(appName string) string {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return fmt.Sprintf("127.0.0.1:%d", minPort+int(hash.Sum32()%uint32(rangeSize)))
}
