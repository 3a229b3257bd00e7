// Package notify sends transactional email for admin decisions.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"

	"investment_platform/internal/domain"
	"investment_platform/internal/ledger"
)

var declineHTML = template.Must(template.New("decline").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>{{.Title}}</h2>
  <p>Hello {{.Name}},</p>
  <p>We regret to inform you that your {{.Noun}} of <strong>${{.Amount}}</strong> has been declined.</p>
  <p>Please contact support for more details.</p>
  <p>Best regards,<br>Support Team</p>
</body>
</html>`))

// DeclineNotice emails the owner of a declined request.
type DeclineNotice struct {
	Mailer Mailer
}

// AfterCommit implements ledger.Hook.
func (n DeclineNotice) AfterCommit(ctx context.Context, ev ledger.Event) error {
	if ev.Owner == nil || ev.Owner.Email == "" {
		return fmt.Errorf("no email address for %s %d", ev.Kind, ev.Request.RequestID())
	}
	msg, err := declineMessage(ev)
	if err != nil {
		return err
	}
	if err := n.Mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send decline notice to %s: %w", ev.Owner.Email, err)
	}
	return nil
}

func declineMessage(ev ledger.Event) (Message, error) {
	noun := "deposit"
	if ev.Kind == domain.KindWithdrawal {
		noun = "withdrawal"
	}
	title := "Deposit Declined"
	if noun == "withdrawal" {
		title = "Withdrawal Declined"
	}
	amount := strconv.FormatFloat(ev.Request.RequestAmount(), 'f', -1, 64)

	var html bytes.Buffer
	err := declineHTML.Execute(&html, map[string]string{
		"Title":  title,
		"Name":   displayName(ev.Owner),
		"Noun":   noun,
		"Amount": amount,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      ev.Owner.Email,
		Subject: title,
		Text:    fmt.Sprintf("Your %s of $%s has been declined.", noun, amount),
		HTML:    html.String(),
	}, nil
}

func displayName(u *domain.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.UserName
}
