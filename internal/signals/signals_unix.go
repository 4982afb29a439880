//go:build unix

package signals

import (
	"golang.org/x/sys/unix"
)

// Notifications returns the termination signals watched on unix systems.
// SIGTERM is what process managers send; SIGINT is Ctrl-C.
func Notifications() []Notification {
	return []Notification{
		{Signal: unix.SIGTERM, Name: "SIGTERM"},
		{Signal: unix.SIGINT, Name: "SIGINT"},
	}
}
