//go:build !unix && !windows

package signals

import "os"

func Notifications() []Notification {
	return []Notification{
		{Signal: os.Interrupt, Name: "SIGINT"},
	}
}
