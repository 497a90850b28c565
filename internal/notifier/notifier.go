package notifier

import (
	"log"
	"sync"

	"internship-platform/internal/mailer"
)

// Notifier drains queued email through a Mailer on a background goroutine.
// Enqueue never blocks the caller: a full queue drops the message with a log
// line. Delivery failures are logged, never surfaced.
type Notifier struct {
	mailer mailer.Mailer
	queue  chan mailer.Message
	wg     sync.WaitGroup
	once   sync.Once
}

// New creates a Notifier with the given queue capacity and starts its worker
func New(m mailer.Mailer, capacity int) *Notifier {
	n := &Notifier{
		mailer: m,
		queue:  make(chan mailer.Message, capacity),
	}

	n.wg.Add(1)
	go n.run()

	return n
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for msg := range n.queue {
		if err := n.mailer.Send(msg); err != nil {
			log.Printf("Failed to send email to %s: %v", msg.To, err)
		}
	}
}

// Enqueue schedules a message for delivery without blocking
func (n *Notifier) Enqueue(msg mailer.Message) {
	select {
	case n.queue <- msg:
	default:
		log.Printf("Notification queue full, dropping email to %s (%s)", msg.To, msg.Subject)
	}
}

// Close stops accepting messages and waits for the queue to drain
func (n *Notifier) Close() {
	n.once.Do(func() {
		close(n.queue)
	})
	n.wg.Wait()
}
