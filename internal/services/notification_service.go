package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"bookstore/internal/models"
)

// Notifier sends customer-facing notifications. Implementations only
// enqueue work; delivery happens in a background consumer.
type Notifier interface {
	SendOrderInvoice(order *models.Order) error
	SendVerificationEmail(email, name, token string) error
	SendPasswordResetEmail(email, name, token string) error
}

// QueuePublisher publishes a message onto the notification queue.
type QueuePublisher interface {
	Publish(body []byte) error
}

// EmailJob is the wire format of one queued email.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NotificationService builds email content and publishes it as jobs on
// a durable queue. A crash between enqueue and delivery loses nothing;
// unacked jobs are redelivered.
type NotificationService struct {
	publisher QueuePublisher
	userRepo  UserEmailLookup
	apiHost   string
}

// UserEmailLookup is the slice of the user repository the notifier
// needs to resolve an order's recipient.
type UserEmailLookup interface {
	GetByID(id string) (*models.User, error)
}

// NewNotificationService creates a new NotificationService. apiHost is
// the externally reachable base URL used in email links.
func NewNotificationService(publisher QueuePublisher, userRepo UserEmailLookup, apiHost string) *NotificationService {
	return &NotificationService{
		publisher: publisher,
		userRepo:  userRepo,
		apiHost:   strings.TrimRight(apiHost, "/"),
	}
}

func (s *NotificationService) enqueue(job EmailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode email job: %w", err)
	}
	if err := s.publisher.Publish(body); err != nil {
		return fmt.Errorf("failed to publish email job: %w", err)
	}
	return nil
}

// SendOrderInvoice queues the invoice email for an order.
func (s *NotificationService) SendOrderInvoice(order *models.Order) error {
	user, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve invoice recipient: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", user.Name)
	fmt.Fprintf(&b, "Thank you for your order %s.\n\n", order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %d x %s @ %s = %s\n",
			item.Quantity, item.BookID, FormatCents(item.UnitPriceCents), FormatCents(item.PriceCents))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", FormatCents(order.TotalAmountCents))
	fmt.Fprintf(&b, "Payment method: %s\n", order.PaymentMethod)
	fmt.Fprintf(&b, "Status: %s\n", order.Status)

	return s.enqueue(EmailJob{
		To:      user.Email,
		Subject: fmt.Sprintf("Your order %s", order.ID),
		Body:    b.String(),
	})
}

// SendVerificationEmail queues the account verification email.
func (s *NotificationService) SendVerificationEmail(email, name, token string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nPlease verify your email address by visiting:\n\n%s/api/v1/auth/verify-email?token=%s\n\nThe link expires in 24 hours.\n",
		name, s.apiHost, token)
	return s.enqueue(EmailJob{
		To:      email,
		Subject: "Verify your email address",
		Body:    body,
	})
}

// SendPasswordResetEmail queues the password reset email.
func (s *NotificationService) SendPasswordResetEmail(email, name, token string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nUse the token below to reset your password:\n\n%s\n\nThe token expires in 1 hour. If you did not request a reset, ignore this email.\n",
		name, token)
	return s.enqueue(EmailJob{
		To:      email,
		Subject: "Password reset requested",
		Body:    body,
	})
}

// FormatCents renders integer cents as a dollar string, e.g. 1550 ->
// "$15.50". Arithmetic stays in cents; this is presentation only.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
