package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/harentsoaR/doctors-portal/internal/models"
)

// NotificationService sends booking confirmations by SMS through Textbelt.
type NotificationService struct {
	apiKey string
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewNotificationService(apiKey, url string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// SendBookingConfirmation fires the SMS in the background so the booking
// response is never held up by the SMS provider.
func (s *NotificationService) SendBookingConfirmation(booking models.Booking) {
	if booking.Phone == "" {
		s.logger.Debug("SMS not sent: booking has no phone number", zap.String("patient", booking.Patient))
		return
	}
	if s.apiKey == "" {
		s.logger.Debug("SMS not sent: TEXTBELT_API_KEY is not set")
		return
	}

	message := BookingConfirmationMessage(booking)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.SendSMS(ctx, booking.Phone, message); err != nil {
			s.logger.Warn("failed to send booking confirmation SMS", zap.String("phone", booking.Phone), zap.Error(err))
			return
		}
		s.logger.Info("booking confirmation SMS sent", zap.String("phone", booking.Phone))
	}()
}

func BookingConfirmationMessage(b models.Booking) string {
	name := b.PatientName
	if name == "" {
		name = b.Patient
	}
	return fmt.Sprintf("Appointment Confirmed: %s for %s on %s at %s.", b.Treatment, name, b.Date, b.Slot)
}

type textbeltResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SendSMS posts one message to the Textbelt endpoint and reports its verdict.
func (s *NotificationService) SendSMS(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})
	if err != nil {
		return fmt.Errorf("encode sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms request: %w", err)
	}
	defer resp.Body.Close()

	var result textbeltResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode sms response (status %d): %w", resp.StatusCode, err)
	}
	if !result.Success {
		if result.Error == "" {
			return errors.New("sms provider rejected the message")
		}
		return fmt.Errorf("sms provider rejected the message: %s", result.Error)
	}
	return nil
}
