package service

import (
	"context"
	"fmt"

	"github.com/shivamgupta1990/hostel-grievance-api/internal/models"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/mailer"
)

// MailNotifier informs the filing student about status transitions via
// the configured SMTP mailer.
type MailNotifier struct {
	mailer *mailer.Mailer
}

// NewMailNotifier wraps a mailer as a status notifier. Returns nil when
// the mailer is not configured to send, so callers can skip wiring.
func NewMailNotifier(m *mailer.Mailer) *MailNotifier {
	if m == nil || !m.Enabled() {
		return nil
	}
	return &MailNotifier{mailer: m}
}

// NotifyStatusChange mails the student whose grievance changed status.
func (n *MailNotifier) NotifyStatusChange(_ context.Context, student *models.Student, grievance *models.Grievance) error {
	subject := fmt.Sprintf("Grievance %q is now %s", grievance.Title, grievance.Status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour grievance %q (hostel %s) has moved to status %q.\n\nHostel Administration",
		student.Name, grievance.Title, grievance.HostelName, grievance.Status,
	)
	return n.mailer.Send(student.PersonalEmail, subject, body)
}
