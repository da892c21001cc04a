package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/harentsoaR/doctors-portal/internal/models"
)

func TestSendSMS(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	svc := NewNotificationService("key-123", srv.URL, zap.NewNop())
	if err := svc.SendSMS(context.Background(), "+15550100", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["phone"] != "+15550100" || got["message"] != "hello" || got["key"] != "key-123" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestSendSMS_ProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "Out of quota"}`))
	}))
	defer srv.Close()

	svc := NewNotificationService("key-123", srv.URL, zap.NewNop())
	if err := svc.SendSMS(context.Background(), "+15550100", "hello"); err == nil {
		t.Fatal("expected error when provider rejects the message")
	}
}

func TestBookingConfirmationMessage(t *testing.T) {
	b := models.Booking{Treatment: "Cleaning", Date: "June 1, 2024", Slot: "10am", Patient: "ann@example.com"}
	want := "Appointment Confirmed: Cleaning for ann@example.com on June 1, 2024 at 10am."
	if got := BookingConfirmationMessage(b); got != want {
		t.Errorf("want %q, got %q", want, got)
	}

	b.PatientName = "Ann"
	want = "Appointment Confirmed: Cleaning for Ann on June 1, 2024 at 10am."
	if got := BookingConfirmationMessage(b); got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}
