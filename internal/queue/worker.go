package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/schemas"
)

// Worker consumes render jobs, generates the documents and publishes
// status updates. Deliveries are acknowledged once handled; malformed and
// failed jobs are not requeued.
type Worker struct {
	ch        Channel
	queue     string
	exchange  string
	assembler *pipeline.Assembler
	history   pipeline.HistoryStore
	log       *zap.Logger
	now       func() time.Time
}

// NewWorker creates a Worker. history may be nil.
func NewWorker(ch Channel, queue, exchange string, assembler *pipeline.Assembler, history pipeline.HistoryStore, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		ch:        ch,
		queue:     queue,
		exchange:  exchange,
		assembler: assembler,
		history:   history,
		log:       log,
		now:       time.Now,
	}
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (w *Worker) Run(ctx context.Context) error {
	if err := Declare(w.ch, w.queue, w.exchange); err != nil {
		return err
	}
	if err := w.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}
	msgs, err := w.ch.Consume(
		w.queue, // queue name
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("error consuming from %s: %w", w.queue, err)
	}

	w.log.Info("worker started", zap.String("queue", w.queue), zap.String("exchange", w.exchange))
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			w.Handle(ctx, msg)
		}
	}
}

// Handle processes a single delivery and acknowledges it.
func (w *Worker) Handle(ctx context.Context, msg amqp.Delivery) {
	if err := w.process(ctx, msg.Body); err != nil {
		w.log.Warn("job failed", zap.Error(err))
	}
	if err := msg.Ack(false); err != nil {
		w.log.Warn("failed to ack delivery", zap.Uint64("tag", msg.DeliveryTag), zap.Error(err))
	}
}

func (w *Worker) process(ctx context.Context, body []byte) error {
	if err := schemas.ValidateRenderJob(body); err != nil {
		var probe struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &probe)
		w.publish(Update{ID: probe.ID, Status: StatusFailed, Error: err.Error()})
		return fmt.Errorf("invalid job: %w", err)
	}

	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		w.publish(Update{Status: StatusFailed, Error: err.Error()})
		return fmt.Errorf("error unmarshalling job: %w", err)
	}
	id := job.ID.String()
	w.log.Info("processing job", zap.String("id", id), zap.String("template", job.Template))
	w.publish(Update{ID: id, Status: StatusProcessing, Template: job.Template})

	res, err := w.assembler.Generate(ctx, pipeline.Request{
		ID:            job.ID,
		Text:          job.Text,
		Template:      job.Template,
		CandidateName: job.CandidateName,
	})
	if err != nil {
		w.publish(Update{ID: id, Status: StatusFailed, Template: job.Template, Error: err.Error()})
		return fmt.Errorf("job %s: %w", id, err)
	}
	if w.history != nil {
		err := retry(3, func() error {
			return w.history.SaveGeneration(ctx, &db.Generation{
				ID:           res.ID,
				Template:     res.Template,
				Filename:     res.Filename,
				Pages:        res.Pages,
				Candidate:    res.Candidate,
				TailoredText: job.Text,
				Location:     res.Location,
				PDF:          res.Data,
			})
		})
		if err != nil {
			w.log.Warn("failed to save generation", zap.String("id", id), zap.Error(err))
		}
	}

	w.publish(Update{ID: id, Status: StatusCompleted, Template: res.Template, Pages: res.Pages, Location: res.Location})
	return nil
}

func (w *Worker) publish(u Update) {
	u.Timestamp = w.now()
	if err := publishJSON(w.ch, w.exchange, RoutingKey(u.ID), u); err != nil {
		w.log.Warn("failed to publish update", zap.String("id", u.ID), zap.String("status", u.Status), zap.Error(err))
	}
}

var retryBackoff = 500 * time.Millisecond

// retry calls fn up to attempts times with a linear backoff.
func retry(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(retryBackoff * time.Duration(i+1))
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
