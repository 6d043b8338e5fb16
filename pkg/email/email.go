// Package email mirrors audit notices to a mailbox.
//
// AuditMailer hides the provider (Dependency Inversion): the dispatcher only
// knows the interface. The current implementation uses the Resend API.
// When RESEND_API_KEY is empty main.go passes nil and mail is skipped.
package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v3"

	"github.com/akinalp/mqvi-modbot/models"
)

// AuditMailer, sends a copy of a log-channel notice.
type AuditMailer interface {
	SendAuditNotice(ctx context.Context, serverID string, notice *models.Notice) error
}

// resendMailer, AuditMailer backed by Resend.
type resendMailer struct {
	client    *resend.Client
	fromEmail string   // verified sender, e.g. modbot@mqvi.app
	toEmails  []string // audit recipients
}

// NewResendMailer, creates an AuditMailer.
//
// apiKey: Resend API key (re_xxxxxxxx).
// fromEmail: must belong to a domain verified in Resend.
// toEmails: one or more recipients.
func NewResendMailer(apiKey, fromEmail string, toEmails []string) AuditMailer {
	return &resendMailer{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		toEmails:  toEmails,
	}
}

// SendAuditNotice, mails the notice as a small HTML table plus a plain-text part.
func (m *resendMailer) SendAuditNotice(ctx context.Context, serverID string, notice *models.Notice) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("mqvi modbot <%s>", m.fromEmail),
		To:      m.toEmails,
		Subject: Subject(serverID, notice),
		Html:    RenderHTML(serverID, notice),
		Text:    notice.Render(),
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send audit email: %w", err)
	}

	return nil
}

// Subject, "[modbot] 🚨 Infraction Issued (server s1)".
func Subject(serverID string, notice *models.Notice) string {
	return fmt.Sprintf("[modbot] %s (server %s)", notice.Title, serverID)
}

// RenderHTML, the HTML body of an audit email. Every value is escaped.
func RenderHTML(serverID string, notice *models.Notice) string {
	var rows strings.Builder
	for _, f := range notice.Fields {
		fmt.Fprintf(&rows,
			`<tr><td style="color:#94a3b8;padding:4px 12px 4px 0;">%s</td><td style="color:#e2e8f0;padding:4px 0;">%s</td></tr>`,
			html.EscapeString(f.Name), html.EscapeString(f.Value))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:24px;background-color:#1a1a2e;font-family:Arial,Helvetica,sans-serif;">
  <div style="background-color:#16213e;border-left:4px solid %s;border-radius:6px;padding:24px;max-width:480px;">
    <h2 style="color:#e2e8f0;font-size:18px;margin:0 0 4px 0;">%s</h2>
    <p style="color:#64748b;font-size:13px;margin:0 0 16px 0;">server %s</p>
    <table cellpadding="0" cellspacing="0">%s</table>
  </div>
</body>
</html>`,
		html.EscapeString(string(notice.Color)),
		html.EscapeString(notice.Title),
		html.EscapeString(serverID),
		rows.String())
}
