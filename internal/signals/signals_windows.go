//go:build windows

package signals

import (
	"os"
	"syscall"
)

// Notifications returns the console control events watched on Windows.
// The runtime delivers CTRL_C_EVENT and CTRL_BREAK_EVENT as os.Interrupt,
// and CTRL_CLOSE_EVENT, CTRL_LOGOFF_EVENT and CTRL_SHUTDOWN_EVENT as
// syscall.SIGTERM.
func Notifications() []Notification {
	return []Notification{
		{Signal: os.Interrupt, Name: "CTRL_C/CTRL_BREAK"},
		{Signal: syscall.SIGTERM, Name: "CTRL_CLOSE/CTRL_SHUTDOWN"},
	}
}
