package mail

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff"
	gomail "github.com/wneessen/go-mail"

	"github.com/UzairFarooq1/NXS-jobcard/internal/model"
	"github.com/UzairFarooq1/NXS-jobcard/pkg/uid"
)

// Sender dispatches a completed job card to the admin recipient.
type Sender interface {
	// SendJobCard emails the job card with the rendered PDF attached and
	// returns the message id.
	SendJobCard(ctx context.Context, card model.JobCard, pdfData []byte) (string, error)
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	AdminTo   string
	SendRetry uint64
}

// SMTPSender sends job card emails over authenticated SMTP. Transient
// delivery failures are retried with exponential backoff a bounded number
// of times before the submission is failed.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates an SMTP-backed sender.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.SendRetry == 0 {
		cfg.SendRetry = 2
	}
	return &SMTPSender{cfg: cfg}
}

// SendJobCard renders the HTML body and sends it with the PDF report
// attached.
func (s *SMTPSender) SendJobCard(ctx context.Context, card model.JobCard, pdfData []byte) (string, error) {
	html, err := renderHTML(card)
	if err != nil {
		return "", err
	}

	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return "", fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(s.cfg.AdminTo); err != nil {
		return "", fmt.Errorf("invalid admin recipient: %w", err)
	}

	messageID := uid.New()
	msg.SetMessageIDWithValue(messageID)
	msg.Subject(fmt.Sprintf("Job Card: %s - %s", card.ClientCompany, card.MachineName))
	msg.SetBodyString(gomail.TypeTextHTML, html)

	attachmentName := fmt.Sprintf("jobcard-%d.pdf", time.Now().UnixMilli())
	if err := msg.AttachReader(attachmentName, bytes.NewReader(pdfData)); err != nil {
		return "", fmt.Errorf("failed to attach pdf: %w", err)
	}

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create smtp client: %w", err)
	}

	send := func() error {
		return client.DialAndSendWithContext(ctx, msg)
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.cfg.SendRetry), ctx)
	if err := backoff.Retry(send, policy); err != nil {
		return "", fmt.Errorf("failed to send job card email: %w", err)
	}

	log.Printf("[SMTPSender] Job card %s emailed to %s (message %s)", card.ID, s.cfg.AdminTo, messageID)
	return messageID, nil
}

var _ Sender = (*SMTPSender)(nil)
