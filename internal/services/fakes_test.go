package services

import (
	"context"
	"fmt"
	"sync"
)

type sentMail struct {
	kind  string
	email string
	code  string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeMailer) SendConfirmation(_ context.Context, email, _, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{kind: "confirmation", email: email, code: code})
	return nil
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, email, _, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{kind: "password_reset", email: email, code: code})
	return nil
}

func (f *fakeMailer) countKind(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.sent {
		if m.kind == kind {
			n++
		}
	}
	return n
}

// failingMailer always errors; used to show delivery failure never blocks
// the calling flow.
type failingMailer struct{}

func (failingMailer) SendConfirmation(context.Context, string, string, string) error {
	return fmt.Errorf("smtp unavailable")
}

func (failingMailer) SendPasswordReset(context.Context, string, string, string) error {
	return fmt.Errorf("smtp unavailable")
}
