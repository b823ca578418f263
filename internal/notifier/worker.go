package notifier

import (
	"context"
	"encoding/json"
	"log/slog"

	"playgrounds/internal/lib/logger/sl"
)

// Worker consumes queued notifications and delivers them by mail.
type Worker struct {
	log    *slog.Logger
	client *Client
	mailer *Mailer
	done   chan struct{}
	cancel context.CancelFunc
}

func NewWorker(log *slog.Logger, client *Client, mailer *Mailer) *Worker {
	return &Worker{
		log:    log,
		client: client,
		mailer: mailer,
		done:   make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.log.Info("notification worker started")

	go func() {
		defer close(w.done)

		handler := func(body []byte) error {
			var msg Message
			if err := json.Unmarshal(body, &msg); err != nil {
				w.log.Error("failed to unmarshal notification", sl.Err(err))
				// Не возвращаем ошибку: такое сообщение нельзя обработать повторно
				return nil
			}

			if err := w.mailer.Send(msg); err != nil {
				w.log.Warn("failed to send notification mail",
					slog.String("kind", msg.Kind),
					slog.Int64("event_id", msg.EventID),
					sl.Err(err),
				)
				return nil
			}

			w.log.Info("notification delivered",
				slog.String("kind", msg.Kind),
				slog.Int64("event_id", msg.EventID),
				slog.Int("recipients", len(msg.Recipients)),
			)
			return nil
		}

		if err := w.client.Consume(handler); err != nil {
			w.log.Error("failed to start consuming notifications", sl.Err(err))
			return
		}

		<-cctx.Done()
		w.log.Info("notification worker stopped")
	}()
}

func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}
