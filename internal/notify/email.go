// Package notify sends the summary email after a scheduled enrichment run.
// It is a thin collaborator: unconfigured email is a no-op, and a send
// failure never fails the run that produced the summary.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/mealdex/enrich/internal/enrich"
)

// Config holds SMTP settings
type Config struct {
	SMTPHost    string
	SMTPPort    int
	Username    string
	Password    string
	FromAddress string
	ToAddress   string
}

// Mailer sends run summaries over SMTP
type Mailer struct {
	config Config
	logger *zap.Logger
	send   func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates a mailer; when the host or recipient is empty the
// mailer is disabled and SendSummary does nothing
func NewMailer(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{
		config: cfg,
		logger: logger.Named("mailer"),
		send:   smtp.SendMail,
	}
}

// Enabled reports whether the mailer is configured
func (m *Mailer) Enabled() bool {
	return m.config.SMTPHost != "" && m.config.ToAddress != ""
}

// SendSummary emails a digest of a batch run
func (m *Mailer) SendSummary(results []*enrich.Result, stats *enrich.Stats) error {
	if !m.Enabled() {
		return nil
	}

	subject := fmt.Sprintf("Recipe enrichment: %d recipes, %d suggestions",
		stats.TotalRecipes, stats.TotalSuggestions)

	var body strings.Builder
	fmt.Fprintf(&body, "Processed %d recipes (%d failed).\n", stats.TotalRecipes, stats.Failed)
	fmt.Fprintf(&body, "Suggestions: %d, images found: %d, average confidence: %.2f\n\n",
		stats.TotalSuggestions, stats.ImagesFound, stats.AverageConfidence)
	for _, r := range results {
		fmt.Fprintf(&body, "- %s: %d suggested changes\n", r.Recipe.Title, r.Changes.SuggestionCount())
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.config.FromAddress, m.config.ToAddress, subject, body.String())

	addr := fmt.Sprintf("%s:%d", m.config.SMTPHost, m.config.SMTPPort)
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.SMTPHost)
	}

	if err := m.send(addr, auth, m.config.FromAddress, []string{m.config.ToAddress}, []byte(msg)); err != nil {
		m.logger.Warn("summary email failed", zap.Error(err))
		return err
	}

	m.logger.Info("summary email sent", zap.String("to", m.config.ToAddress))
	return nil
}
