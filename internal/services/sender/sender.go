// Package sender contiene el worker que consume los eventos de apertura
// de cápsula: crea los avisos en la bandeja de cada interesado y envía
// los correos correspondientes.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/lib/smtp"
	"github.com/lromnav497/pardespue/internal/models"
)

// Repository define los métodos de almacenamiento que usa el worker.
type Repository interface {
	CreateNotification(ctx context.Context, n models.Notification) (int, error)
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
}

// Service procesa los eventos de apertura.
type Service struct {
	repo      Repository
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New crea un Service del sender.
func New(repo Repository, transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{repo: repo, transport: transport, log: log}
}

// HandleCapsuleOpened procesa un evento de apertura: guarda el aviso del
// creador y de cada destinatario y envía los correos. Un fallo de
// deserialización descarta el mensaje; un fallo al avisar al creador lo
// reencola.
func (s *Service) HandleCapsuleOpened(body []byte) error {
	var event models.CapsuleOpenedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	ctx := context.Background()

	capsuleID := event.CapsuleID
	if _, err := s.repo.CreateNotification(ctx, models.Notification{
		UserUID:   event.OwnerUID,
		CapsuleID: &capsuleID,
		Message:   fmt.Sprintf("Tu cápsula «%s» ya está abierta.", event.Title),
	}); err != nil {
		s.log.Error("failed to create owner notification",
			"capsule_id", event.CapsuleID, sl.Err(err))
		return err
	}

	if err := s.sendOpenedMail(event.OwnerEmail, event.OwnerName, event.Title); err != nil {
		s.log.Error("failed to send owner email",
			"capsule_id", event.CapsuleID, sl.Err(err))
		return err
	}

	// Los avisos a destinatarios no reencolan el mensaje: el correo del
	// creador ya salió y repetirlo duplicaría avisos.
	for _, uid := range event.RecipientUIDs {
		if _, err := s.repo.CreateNotification(ctx, models.Notification{
			UserUID:   uid,
			CapsuleID: &capsuleID,
			Message:   fmt.Sprintf("La cápsula «%s» compartida contigo ya está abierta.", event.Title),
		}); err != nil {
			s.log.Error("failed to create recipient notification",
				"capsule_id", event.CapsuleID, "user_uid", uid, sl.Err(err))
			continue
		}

		user, err := s.repo.GetUserByUID(ctx, uid)
		if err != nil {
			s.log.Error("failed to load recipient",
				"user_uid", uid, sl.Err(err))
			continue
		}
		if err := s.sendOpenedMail(user.Email, user.Username, event.Title); err != nil {
			s.log.Error("failed to send recipient email",
				"user_uid", uid, sl.Err(err))
		}
	}

	s.log.Info("capsule opened event processed",
		"capsule_id", event.CapsuleID, "recipients", len(event.RecipientUIDs))
	return nil
}

func (s *Service) sendOpenedMail(email, name, title string) error {
	subject := "Tu cápsula del tiempo ya está abierta"
	bodyText := fmt.Sprintf(`Hola, %s:

La cápsula «%s» ha alcanzado su fecha de apertura y ya puedes verla en ParDespué.

Entra cuando quieras para revivir lo que guardaste.`, name, title)

	return s.sendEmail([]string{email}, subject, bodyText)
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
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", "to", to)
	return nil
}
