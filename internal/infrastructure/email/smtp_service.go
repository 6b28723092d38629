package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"launchsignal-backend/internal/config"
)

type EmailService interface {
	SendContactEmail(ctx context.Context, data ContactEmailData) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	inbox    string
	auth     smtp.Auth
	send     sendFunc
}

func NewSMTPEmailService(cfg config.SMTPConfig) EmailService {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &smtpEmailService{
		smtpAddr: cfg.Host + ":" + cfg.Port,
		smtpFrom: cfg.From,
		inbox:    cfg.ContactInbox,
		auth:     auth,
		send:     smtp.SendMail,
	}
}

var contactTemplate = template.Must(template.New("contact").Parse(`<h2>New contact message</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p style="white-space: pre-wrap">{{.Message}}</p>
`))

// RenderContactEmail renders the HTML body; user input is escaped.
func RenderContactEmail(data ContactEmailData) (string, error) {
	var buf bytes.Buffer
	if err := contactTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render contact email: %w", err)
	}
	return buf.String(), nil
}

func (s *smtpEmailService) SendContactEmail(ctx context.Context, data ContactEmailData) error {
	body, err := RenderContactEmail(data)
	if err != nil {
		return err
	}

	return s.deliver(EmailRequest{
		To:      []string{s.inbox},
		ReplyTo: data.Email,
		Subject: "New Contact Form Submission: " + data.Subject,
		Body:    body,
		IsHTML:  true,
	})
}

func (s *smtpEmailService) deliver(req EmailRequest) error {
	msg := buildMessage(s.smtpFrom, req)
	if err := s.send(s.smtpAddr, s.auth, s.smtpFrom, req.To, msg); err != nil {
		log.Error().Err(err).Strs("to", req.To).Str("smtp_addr", s.smtpAddr).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func buildMessage(from string, req EmailRequest) []byte {
	contentType := "text/plain"
	if req.IsHTML {
		contentType = "text/html"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(req.To, ", "))
	if req.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", sanitizeHeader(req.ReplyTo))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", sanitizeHeader(req.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"UTF-8\"\r\n\r\n", contentType)
	b.WriteString(req.Body)
	return []byte(b.String())
}

// sanitizeHeader strips CR/LF so user input cannot inject headers.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
