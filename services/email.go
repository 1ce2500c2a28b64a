package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"lead_funnel_go/config"
	"log"
	"strings"
	texttemplate "text/template"

	"github.com/gophish/gomail"
	"github.com/resend/resend-go/v2"
)

//go:embed templates/emails/*
var emailTemplates embed.FS

// ErrMailerNotConfigured means no transport has credentials
var ErrMailerNotConfigured = errors.New("no email transport configured (set RESEND_API_KEY, SMTP_HOST or GMAIL_USER)")

// Email represents an email message
type Email struct {
	To       []string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}

func (e *Email) validate() error {
	if len(e.To) == 0 || strings.TrimSpace(e.To[0]) == "" {
		return errors.New("email has no recipient")
	}
	if e.HTMLBody == "" && e.TextBody == "" {
		return errors.New("email must have either HTMLBody or TextBody")
	}
	return nil
}

// Mailer delivers a single email
type Mailer interface {
	Name() string
	Send(ctx context.Context, email *Email) error
}

// NewMailer picks a transport from cfg. Test mode always logs to the console;
// otherwise Resend, then SMTP, then Gmail are tried in that order.
func NewMailer(cfg *config.Config) (Mailer, error) {
	switch {
	case cfg.EmailTestMode:
		return ConsoleMailer{}, nil
	case cfg.ResendAPIKey != "":
		return NewResendMailer(cfg.ResendAPIKey, formatFrom(cfg.EmailFromName, cfg.NotificationSender(), "onboarding@resend.dev")), nil
	case cfg.SMTPHost != "" && cfg.SMTPUser != "" && cfg.SMTPPass != "":
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFromName, cfg.NotificationSender()), nil
	case cfg.GmailUser != "" && cfg.GmailAppPassword != "":
		return NewGmailMailer(cfg.GmailUser, cfg.GmailAppPassword, cfg.EmailFromName), nil
	default:
		return nil, ErrMailerNotConfigured
	}
}

func formatFrom(name, address, fallback string) string {
	if address == "" {
		address = fallback
	}
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

// ResendMailer sends through the Resend HTTP API
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (m *ResendMailer) Name() string { return "resend" }

func (m *ResendMailer) Send(ctx context.Context, email *Email) error {
	if err := email.validate(); err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}
	if email.ReplyTo != "" {
		params.ReplyTo = email.ReplyTo
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("[mailer] Email sent via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// smtpSender is the part of gomail.Dialer the SMTP mailer needs
type smtpSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends through an SMTP relay. Port 465 uses implicit TLS,
// other ports upgrade with STARTTLS.
type SMTPMailer struct {
	dialer   smtpSender
	name     string
	fromName string
	fromAddr string
}

func NewSMTPMailer(host string, port int, user, pass, fromName, fromAddr string) *SMTPMailer {
	d := gomail.NewDialer(host, port, user, pass)
	d.SSL = port == 465
	if fromAddr == "" {
		fromAddr = user
	}
	return &SMTPMailer{dialer: d, name: "smtp", fromName: fromName, fromAddr: fromAddr}
}

// NewGmailMailer sends as a Gmail account using an app password
func NewGmailMailer(user, appPassword, fromName string) *SMTPMailer {
	m := NewSMTPMailer("smtp.gmail.com", 587, user, appPassword, fromName, user)
	m.name = "gmail"
	return m
}

func (m *SMTPMailer) Name() string { return m.name }

// Send builds a multipart message. gomail has no context support, so the
// dial runs in its own goroutine and Send returns when ctx is done. A send
// abandoned that way may still complete on the relay.
func (m *SMTPMailer) Send(ctx context.Context, email *Email) error {
	if err := email.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := m.buildMessage(email)
	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email via %s: %w", m.name, err)
		}
	case <-ctx.Done():
		return fmt.Errorf("email via %s abandoned: %w", m.name, ctx.Err())
	}

	log.Printf("[mailer] Email sent via %s to: %v", m.name, email.To)
	return nil
}

func (m *SMTPMailer) buildMessage(email *Email) *gomail.Message {
	msg := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	msg.SetAddressHeader("From", m.fromAddr, m.fromName)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	if email.ReplyTo != "" {
		msg.SetHeader("Reply-To", email.ReplyTo)
	}

	switch {
	case email.TextBody != "" && email.HTMLBody != "":
		msg.SetBody("text/plain", email.TextBody)
		msg.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		msg.SetBody("text/html", email.HTMLBody)
	default:
		msg.SetBody("text/plain", email.TextBody)
	}
	return msg
}

// ConsoleMailer logs emails instead of sending them (EMAIL_TEST_MODE)
type ConsoleMailer struct{}

func (ConsoleMailer) Name() string { return "console" }

func (ConsoleMailer) Send(ctx context.Context, email *Email) error {
	if err := email.validate(); err != nil {
		return err
	}
	logEmailToConsole(email)
	log.Printf("[mailer] Email logged (test mode - not actually sent)")
	return nil
}

func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\n📧 EMAIL (Test Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	log.Printf("%s\n", separator)
}

// truncate shortens s to at most maxLen bytes without splitting a rune
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}

// renderTemplate renders templates/emails/<name>_<lang>.{html,txt}, falling back
// to <name>.{html,txt}. HTML output is escaped; text output is not.
func renderTemplate(name, lang string, data interface{}) (html string, text string, err error) {
	read := func(ext string) (string, []byte, error) {
		path := fmt.Sprintf("templates/emails/%s_%s%s", name, lang, ext)
		content, err := emailTemplates.ReadFile(path)
		if err == nil {
			return path, content, nil
		}
		path = "templates/emails/" + name + ext
		content, err = emailTemplates.ReadFile(path)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read template %s: %w", path, err)
		}
		return path, content, nil
	}

	path, content, err := read(".html")
	if err != nil {
		return "", "", err
	}
	htmlTmpl, err := htmltemplate.New(path).Parse(string(content))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", path, err)
	}

	path, content, err = read(".txt")
	if err != nil {
		return "", "", err
	}
	textTmpl, err := texttemplate.New(path).Parse(string(content))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", path, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}
