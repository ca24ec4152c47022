package mail

import (
	"text/template"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/bizdev-chatbot/internal/entity"
)

// Route is where the summary of one category goes.
type Route struct {
	To      []string
	CC      []string
	Subject string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Sender   string
	FromName string
}

type EmailSender struct {
	Config    SMTPConfig
	Routes    map[entity.Category]Route
	templates *template.Template
	dial      func() (gomail.SendCloser, error)
	logger    *zap.Logger
}
