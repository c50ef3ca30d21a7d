package services

import (
	"context"
	"errors"
	"fmt"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"github.com/maxaizer/jobs-alert/internal/metrics"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

var ErrDelivery = errors.New("delivery failed")

type Sender interface {
	Send(ctx context.Context, recipient entities.RecipientID, text string, markdown bool) error
}

type DeliveryResult struct {
	Recipient entities.RecipientID
	// Delivered counts messages accepted before a failure, header and completion mark included.
	Delivered int
	Err       error
}

type FanoutReport struct {
	Results []DeliveryResult
}

func (r FanoutReport) Succeeded() []entities.RecipientID {
	return lo.FilterMap(r.Results, func(res DeliveryResult, _ int) (entities.RecipientID, bool) {
		return res.Recipient, res.Err == nil
	})
}

func (r FanoutReport) Failed() []DeliveryResult {
	return lo.Filter(r.Results, func(res DeliveryResult, _ int) bool { return res.Err != nil })
}

type Notifier struct {
	sender  Sender
	limiter *rate.Limiter
}

func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// SetRateLimit paces every single send across all recipients, zero disables pacing.
func (n *Notifier) SetRateLimit(messagesPerSecond float32) {
	if messagesPerSecond <= 0 {
		n.limiter = nil
		return
	}
	n.limiter = rate.NewLimiter(rate.Limit(messagesPerSecond), 1)
}

// NotifyAll delivers the header, every message and the completion mark to each recipient in turn.
// A failing recipient is recorded and skipped, the rest of the batch still goes out. Nothing is retried.
func (n *Notifier) NotifyAll(ctx context.Context, recipients []entities.RecipientID,
	messages []entities.Message) FanoutReport {

	report := FanoutReport{}
	if len(messages) == 0 {
		return report
	}

	batch := make([]entities.Message, 0, len(messages)+2)
	batch = append(batch, entities.PlainMessage(newJobsHeader))
	batch = append(batch, messages...)
	batch = append(batch, entities.PlainMessage(completionMark))

	for _, recipient := range lo.Uniq(recipients) {
		delivered, err := n.deliver(ctx, recipient, batch)
		result := DeliveryResult{Recipient: recipient, Delivered: delivered}
		if err != nil {
			result.Err = fmt.Errorf("%w to %d: %w", ErrDelivery, recipient, err)
			metrics.DeliveriesCounter.WithLabelValues("failed").Inc()
		} else {
			metrics.DeliveriesCounter.WithLabelValues("delivered").Inc()
		}
		report.Results = append(report.Results, result)
	}

	return report
}

func (n *Notifier) deliver(ctx context.Context, recipient entities.RecipientID, batch []entities.Message) (int, error) {
	for i, message := range batch {
		if n.limiter != nil {
			if err := n.limiter.Wait(ctx); err != nil {
				return i, err
			}
		}
		if err := n.sender.Send(ctx, recipient, message.Text, message.Markdown); err != nil {
			return i, err
		}
	}
	return len(batch), nil
}
