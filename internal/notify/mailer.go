package notify

import (
	"fmt"
	"time"

	"backoffice/internal/model"

	"github.com/avast/retry-go"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/gomail.v2"
)

// Notifier sends the rating invitation that follows a meeting creation. The
// send is best-effort: callers log a returned error and move on, because the
// meeting itself has already been persisted.
type Notifier interface {
	SendRatingInvitation(meeting *model.Meeting, emails []string) error
}

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

var _ Notifier = (*Mailer)(nil)

func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendRatingInvitation mails every address, retrying transient failures per
// recipient. Failed recipients are collected rather than stopping the loop.
func (m *Mailer) SendRatingInvitation(meeting *model.Meeting, emails []string) error {
	var errs *multierror.Error

	for _, addr := range emails {
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.from)
		msg.SetHeader("To", addr)
		msg.SetHeader("Subject", fmt.Sprintf("Rating invitation: %s", meeting.Title))
		msg.SetBody("text/html", invitationBody(meeting))

		err := retry.Do(
			func() error { return m.dialer.DialAndSend(msg) },
			retry.Attempts(3),
			retry.Delay(2*time.Second),
		)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("send to %s: %w", addr, err))
		}
	}

	return errs.ErrorOrNil()
}

func invitationBody(meeting *model.Meeting) string {
	return fmt.Sprintf(
		"<p>You were a participant of the meeting <b>%s</b> on %s.</p>"+
			"<p>Please take a moment to rate the meeting.</p>",
		meeting.Title, meeting.StartDate.Format("2 January 2006"),
	)
}
