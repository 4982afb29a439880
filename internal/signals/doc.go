// Package signals bridges OS termination requests into the shared
// cancellation token.
//
// The set of notifications is platform specific:
//
//   - unix: SIGTERM and SIGINT
//   - windows: CTRL_C/CTRL_BREAK (os.Interrupt) and CTRL_CLOSE/CTRL_SHUTDOWN
//     (syscall.SIGTERM, as translated by the Go runtime)
//
// The listener is one-shot: the first notification cancels the token and
// later ones are ignored.
package signals
