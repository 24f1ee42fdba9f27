package notification

import (
	"context"
	"log"
	"sync"
)

// DispatchResult records the outcome for one channel.
type DispatchResult struct {
	Channel string
	Err     error
}

// Dispatcher fans a message out to every configured channel. A failure on
// one channel never stops delivery to the others.
type Dispatcher struct {
	notifiers []Notifier
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers}
}

// Channels returns the number of configured channels.
func (d *Dispatcher) Channels() int {
	return len(d.notifiers)
}

// Dispatch sends the message to all channels concurrently and returns one
// result per channel, in configuration order.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) []DispatchResult {
	results := make([]DispatchResult, len(d.notifiers))

	var wg sync.WaitGroup
	for i, n := range d.notifiers {
		wg.Add(1)
		go func(i int, n Notifier) {
			defer wg.Done()
			err := n.Send(ctx, message)
			if err != nil {
				log.Printf("[dispatch] %s: send failed: %v", n.Name(), err)
			}
			results[i] = DispatchResult{Channel: n.Name(), Err: err}
		}(i, n)
	}
	wg.Wait()

	return results
}

// Tally counts successes and failures in a result set.
func Tally(results []DispatchResult) (sent, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			sent++
		}
	}
	return sent, failed
}
