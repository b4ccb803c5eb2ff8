//go:build unix

package flock

import "syscall"

// Exclusive takes an exclusive flock(2) lock on fd or fails immediately.
// The workspace manager holds it on .git/goa.lock for the agent's lifetime,
// so a second agent pointed at the same --target-path fails fast instead of
// racing the first one's merges.
func Exclusive(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_EX|syscall.LOCK_NB)
}

// Unlock releases the lock on fd. Closing the workspace calls it.
func Unlock(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_UN)
}
