package services

import (
	"context"
	"fmt"
	"log"

	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/adapters/persistence/repositories"
)

// NotificationService records outbound message intents and hands delivery to
// the email transport. Recording always happens first; delivery runs in the
// background and a delivery failure never rolls back workflow state.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
	sender           EmailSender
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo *repositories.NotificationRepository, sender EmailSender) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		sender:           sender,
	}
}

// record appends the write-once notification row and fires delivery
func (s *NotificationService) record(ctx context.Context, transferID uint, notifyType, recipient, subject, body string, senderID *uint) error {
	n := &models.TransferNotification{
		TransferID: transferID,
		Type:       notifyType,
		Recipient:  recipient,
		Subject:    subject,
		SenderID:   senderID,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}

	if s.sender != nil {
		go func() {
			if err := s.sender.Send(recipient, subject, body); err != nil {
				log.Printf("⚠️ Notification delivery failed for transfer #%d (%s): %v", transferID, notifyType, err)
			}
		}()
	}

	return nil
}

// SendInvitation notifies the homeowner that a transfer link awaits them
func (s *NotificationService) SendInvitation(ctx context.Context, transfer *models.Transfer, site *models.Site, staffID uint) {
	subject := "Action needed: confirm your solar installation ownership"
	body := fmt.Sprintf("A transfer of the solar installation records at %s has been started. Use your personal link to submit your details before %s.",
		site.Address, transfer.TokenExpiresAt.Format("2 January 2006"))

	if err := s.record(ctx, transfer.ID, models.NotifyInvitation, transfer.HomeownerEmail, subject, body, &staffID); err != nil {
		log.Printf("⚠️ Failed to record invitation for transfer #%d: %v", transfer.ID, err)
	}
}

// SendWelcome notifies the homeowner their account is ready. Returns an
// error only when the intent itself could not be recorded.
func (s *NotificationService) SendWelcome(ctx context.Context, transfer *models.Transfer, staffID uint) error {
	subject := "Welcome to your solar monitoring account"
	body := "Your ownership transfer has been approved and your monitoring account is ready."
	return s.record(ctx, transfer.ID, models.NotifyWelcome, transfer.HomeownerEmail, subject, body, &staffID)
}

// SendRejection notifies the homeowner of a rejection
func (s *NotificationService) SendRejection(ctx context.Context, transfer *models.Transfer, staffID uint) {
	subject := "Your ownership transfer could not be approved"
	body := fmt.Sprintf("Unfortunately your submission could not be approved (%s). Please contact us to resolve this.", transfer.RejectionReason)

	if err := s.record(ctx, transfer.ID, models.NotifyRejection, transfer.HomeownerEmail, subject, body, &staffID); err != nil {
		log.Printf("⚠️ Failed to record rejection notice for transfer #%d: %v", transfer.ID, err)
	}
}

// SendInfoRequest notifies the homeowner that more information is needed
func (s *NotificationService) SendInfoRequest(ctx context.Context, transfer *models.Transfer, request *models.InfoRequest, staffID uint) {
	subject := "More information needed for your ownership transfer"
	body := fmt.Sprintf("We need more information to process your transfer: %s. Please respond by %s.",
		request.Reason, request.Deadline.Format("2 January 2006"))

	recipient := transfer.FormEmail
	if recipient == "" {
		recipient = transfer.HomeownerEmail
	}
	if err := s.record(ctx, transfer.ID, models.NotifyInfoRequest, recipient, subject, body, &staffID); err != nil {
		log.Printf("⚠️ Failed to record info request notice for transfer #%d: %v", transfer.ID, err)
	}
}

// logEmailSender is the default EmailSender until the mail transport is
// configured; it only logs what would be sent.
type logEmailSender struct{}

// NewLogEmailSender creates the default email sender
func NewLogEmailSender() EmailSender {
	return &logEmailSender{}
}

// Send logs the outbound message
func (s *logEmailSender) Send(recipient, subject, _ string) error {
	log.Printf("📧 [email] to=%s subject=%q", recipient, subject)
	return nil
}
