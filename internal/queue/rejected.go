package queue

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/ayo6706/payment-batch/internal/domain"
	"github.com/ayo6706/payment-batch/internal/models"
)

var ErrNotRejected = errors.New("payment is not rejected")

// Rejected is a FIFO of payments that failed validation. It is not safe for
// concurrent use: exactly one stage owns it at any time.
type Rejected struct {
	items []*models.Payment
}

func NewRejected() *Rejected {
	return &Rejected{items: make([]*models.Payment, 0)}
}

// Push appends p to the tail. p must be INVALID and carry an error message.
func (q *Rejected) Push(p *models.Payment) error {
	if p.ValidationStatus != domain.ValidationStatusInvalid || p.ErrorMessage == "" {
		return fmt.Errorf("push payment %d: %w", p.ID, ErrNotRejected)
	}
	q.items = append(q.items, p)
	return nil
}

// Pop removes and returns the head; ok is false once the queue is empty.
func (q *Rejected) Pop() (p *models.Payment, ok bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	p = q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return p, true
}

func (q *Rejected) Len() int {
	return len(q.items)
}

// Drain yields payments in insertion order, popping each one. Once drained
// the sequence is empty. Stopping early, or ctx being done, leaves the rest
// queued; ctx is checked before each pop.
func (q *Rejected) Drain(ctx context.Context) iter.Seq[*models.Payment] {
	return func(yield func(*models.Payment) bool) {
		for ctx.Err() == nil {
			p, ok := q.Pop()
			if !ok || !yield(p) {
				return
			}
		}
	}
}
