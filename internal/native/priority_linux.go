//go:build linux

package native

import "golang.org/x/sys/unix"

// backgroundNice is the niceness applied to background parse threads.
const backgroundNice = 10

// setBackgroundPriority lowers the scheduling priority of the calling OS
// thread. The caller must have locked the goroutine to its thread.
func setBackgroundPriority() error {
	return unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), backgroundNice)
}
