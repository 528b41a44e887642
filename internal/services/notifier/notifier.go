// Package notifier отправляет участникам тендеров письма
// о решениях по их предложениям.
package notifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/tender-procurement/internal/lib/sl"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/smtp"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// Service обрабатывает события решений по предложениям и рассылает письма.
type Service struct {
	transport Transport
	log       *slog.Logger
}

// Transport интерфейс SMTP транспорта.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// New создает новый экземпляр Service.
func New(transport Transport, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendBidDecision отправляет участнику письмо о принятом решении по его предложению.
func (s *Service) SendBidDecision(body []byte) error {
	var event models.BidDecisionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("Failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{event.BidderEmail}

	var subject, bodyText string
	switch event.Decision {
	case string(models.BidAccepted):
		subject = fmt.Sprintf("Ваше предложение по тендеру «%s» принято", event.TenderTitle)
		bodyText = fmt.Sprintf("Здравствуйте!\n\nВаше предложение на сумму %.2f по тендеру «%s» принято заказчиком.\n\nОжидайте дальнейших инструкций по заключению договора.",
			event.Amount, event.TenderTitle)
	case string(models.BidRejected):
		subject = fmt.Sprintf("Решение по тендеру «%s»", event.TenderTitle)
		bodyText = fmt.Sprintf("Здравствуйте!\n\nК сожалению, ваше предложение на сумму %.2f по тендеру «%s» отклонено.\n\nВы можете участвовать в других тендерах на площадке.",
			event.Amount, event.TenderTitle)
	default:
		return fmt.Errorf("unknown bid decision: %s", event.Decision)
	}

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("Failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("Failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
