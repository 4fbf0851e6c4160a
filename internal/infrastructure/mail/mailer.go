package mail

import (
	"crypto/tls"
	"fmt"
	"html"
	"strings"

	"github.com/webgarden/platform/internal/domain/inquiry"
	"github.com/webgarden/platform/internal/infrastructure/config"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Sender delivers a composed message. Satisfied by gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends transactional email for a site.
// When disabled, every send is a logged no-op.
type Mailer struct {
	sender    Sender
	logger    *zap.Logger
	enabled   bool
	from      string
	siteName  string
	adminAddr string
}

// New creates a Mailer backed by an SMTP dialer
func New(cfg config.MailConfig, site config.SiteConfig, logger *zap.Logger) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.UseTLS {
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host}
	}

	return &Mailer{
		sender:    dialer,
		logger:    logger.Named("mail"),
		enabled:   cfg.Enabled,
		from:      cfg.From,
		siteName:  site.Name,
		adminAddr: site.ContactEmail,
	}
}

// NewWithSender creates a Mailer with a custom sender, used in tests
func NewWithSender(sender Sender, from, siteName, adminAddr string, logger *zap.Logger) *Mailer {
	return &Mailer{
		sender:    sender,
		logger:    logger.Named("mail"),
		enabled:   true,
		from:      from,
		siteName:  siteName,
		adminAddr: adminAddr,
	}
}

// SendInquiryNotification notifies the site inbox about a new inquiry.
// Returns false when delivery fails; the failure is logged, never fatal.
func (m *Mailer) SendInquiryNotification(inq *inquiry.Inquiry) bool {
	if !m.enabled {
		m.logger.Debug("Mail disabled, skipping inquiry notification")
		return false
	}
	if m.adminAddr == "" {
		m.logger.Warn("No contact email configured, skipping inquiry notification")
		return false
	}

	phone := inq.Phone
	if phone == "" {
		phone = "Not provided"
	}

	subject := fmt.Sprintf("New Contact Form Submission - %s", m.siteName)

	text := fmt.Sprintf(`New contact form submission received:

Name: %s
Email: %s
Phone: %s

Message:
%s

Submitted at: %s
`, inq.Name, inq.Email, phone, inq.Message, inq.SubmittedAt.UTC().Format("2006-01-02 15:04:05 UTC"))

	var b strings.Builder
	b.WriteString("<h2>New Contact Form Submission</h2>")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(inq.Name))
	fmt.Fprintf(&b, `<p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>`,
		html.EscapeString(inq.Email), html.EscapeString(inq.Email))
	fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>", html.EscapeString(phone))
	fmt.Fprintf(&b, "<blockquote>%s</blockquote>", html.EscapeString(inq.Message))
	fmt.Fprintf(&b, "<p><em>Submitted at %s</em></p>", inq.SubmittedAt.UTC().Format("2006-01-02 15:04:05 UTC"))

	return m.send(m.adminAddr, subject, text, b.String())
}

// SendInquiryConfirmation thanks the visitor for reaching out.
// Returns false when delivery fails; the failure is logged, never fatal.
func (m *Mailer) SendInquiryConfirmation(inq *inquiry.Inquiry) bool {
	if !m.enabled {
		m.logger.Debug("Mail disabled, skipping inquiry confirmation")
		return false
	}

	subject := fmt.Sprintf("Thank you for contacting %s", m.siteName)

	text := fmt.Sprintf(`Dear %s,

Thank you for reaching out to us. We have received your message and will respond as soon as possible.

Your message:
%s

Best regards,
%s Team
`, inq.Name, inq.Message, m.siteName)

	var b strings.Builder
	b.WriteString("<h2>Thank You for Contacting Us</h2>")
	fmt.Fprintf(&b, "<p>Dear %s,</p>", html.EscapeString(inq.Name))
	b.WriteString("<p>Thank you for reaching out to us. We have received your message and will respond as soon as possible.</p>")
	fmt.Fprintf(&b, "<blockquote>%s</blockquote>", html.EscapeString(inq.Message))
	fmt.Fprintf(&b, "<p>Best regards,<br>%s Team</p>", html.EscapeString(m.siteName))
	b.WriteString("<p><em>This is an automated confirmation email.</em></p>")

	return m.send(inq.Email, subject, text, b.String())
}

func (m *Mailer) send(to, subject, text, htmlBody string) bool {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", htmlBody)

	if err := m.sender.DialAndSend(msg); err != nil {
		m.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return false
	}

	m.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return true
}
