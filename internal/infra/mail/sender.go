package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/bizdev-chatbot/internal/entity"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var ErrNoRecipients = errors.New("no recipients configured")

func NewEmailSender(cfg SMTPConfig, routes map[entity.Category]Route, logger *zap.Logger) (*EmailSender, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	t, err := template.New("summary").
		Funcs(template.FuncMap{"value": orNotProvided}).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	s := &EmailSender{
		Config:    cfg,
		Routes:    routes,
		templates: t,
		logger:    logger,
	}
	s.dial = func() (gomail.SendCloser, error) {
		// gomail upgrades to STARTTLS when the relay offers it.
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
		return d.Dial()
	}
	return s, nil
}

// Render builds the plain-text summary of a record.
func (s *EmailSender) Render(r *entity.Record) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, string(r.Category)+".tmpl", r); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return body.String(), nil
}

// Notify sends the conversation summary to the category's distribution list.
func (s *EmailSender) Notify(ctx context.Context, r *entity.Record) error {
	route, ok := s.Routes[r.Category]
	if !ok || len(route.To) == 0 {
		return fmt.Errorf("%w for %s", ErrNoRecipients, r.Category)
	}

	body, err := s.Render(r)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.Config.Sender, s.Config.FromName)
	m.SetHeader("To", route.To...)
	if len(route.CC) > 0 {
		m.SetHeader("Cc", route.CC...)
	}
	m.SetHeader("Subject", route.Subject)
	m.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		sc, err := s.dial()
		if err != nil {
			done <- fmt.Errorf("failed to connect to SMTP relay: %w", err)
			return
		}
		err = gomail.Send(sc, m)
		sc.Close()
		done <- err
	}()

	select {
	case <-ctx.Done():
		s.logger.Error("smtp send abandoned", zap.String("category", string(r.Category)), zap.Int64("row_id", r.ID), zap.Error(ctx.Err()))
		return fmt.Errorf("smtp send abandoned: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.logger.Error("smtp send failed", zap.String("category", string(r.Category)), zap.Int64("row_id", r.ID), zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	s.logger.Info("conversation summary emailed",
		zap.String("category", string(r.Category)),
		zap.Int64("row_id", r.ID),
		zap.Strings("to", route.To),
		zap.Strings("cc", route.CC),
	)
	return nil
}

func orNotProvided(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Not provided"
	}
	return v
}
