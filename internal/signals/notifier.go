package signals

import (
	"os"
	"os/signal"
)

// Notifier registers and releases signal channels.
type Notifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

// OSNotifier delivers real process signals through os/signal.
type OSNotifier struct{}

func NewOSNotifier() *OSNotifier {
	return &OSNotifier{}
}

func (n *OSNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (n *OSNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}
