package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/taskly/backend/internal/metrics"
)

// Mailer is the notification gateway the account flow depends on.
// Implementations send over SMTP; tests substitute a fake.
type Mailer interface {
	SendConfirmation(ctx context.Context, email, name, code string) error
	SendPasswordReset(ctx context.Context, email, name, code string) error
}

const mailTimeout = 15 * time.Second

// dispatchMail runs send in its own goroutine, detached from the request.
// Delivery failure is logged and counted but never propagated: the flow that
// requested the email has already committed its own state.
func dispatchMail(log *slog.Logger, kind string, send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := send(ctx); err != nil {
			metrics.EmailTotal.WithLabelValues(kind, "error").Inc()
			log.Error("failed to send email", "kind", kind, "error", err)
			return
		}
		metrics.EmailTotal.WithLabelValues(kind, "ok").Inc()
	}()
}
