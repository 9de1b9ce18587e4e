package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleRequest struct {
	PeriodID string   `json:"period_id" validate:"required"`
	Amount   string   `json:"amount" validate:"required,decimal_gt0"`
	Fee      string   `json:"fee,omitempty" validate:"omitempty,decimal_gte0"`
	Date     string   `json:"date,omitempty" validate:"omitempty,date"`
	Status   string   `json:"status" validate:"omitempty,oneof=pending paid overdue"`
	Month    int      `json:"month" validate:"gte=1,lte=12"`
	Name     string   `json:"name" validate:"max=5"`
	IDs      []string `json:"player_ids" validate:"min=1,dive,required"`
}

func valid() sampleRequest {
	return sampleRequest{
		PeriodID: "p1",
		Amount:   "10.50",
		Month:    3,
		IDs:      []string{"a"},
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *sampleRequest)
		field   string
		message string
	}{
		{"valid", func(r *sampleRequest) {}, "", ""},
		{"zero fee allowed", func(r *sampleRequest) { r.Fee = "0" }, "", ""},
		{"missing period", func(r *sampleRequest) { r.PeriodID = "" }, "period_id", "period_id is required"},
		{"zero amount", func(r *sampleRequest) { r.Amount = "0" }, "amount", "amount must be a decimal number greater than 0"},
		{"garbage amount", func(r *sampleRequest) { r.Amount = "ten" }, "amount", "amount must be a decimal number greater than 0"},
		{"negative fee", func(r *sampleRequest) { r.Fee = "-1" }, "fee", "fee must be a decimal number greater than or equal to 0"},
		{"bad date", func(r *sampleRequest) { r.Date = "03/02/2024" }, "date", "date must be a date in YYYY-MM-DD format"},
		{"bad status", func(r *sampleRequest) { r.Status = "refunded" }, "status", "status must be one of: pending paid overdue"},
		{"month out of range", func(r *sampleRequest) { r.Month = 13 }, "month", "month must be less than or equal to 12"},
		{"long name", func(r *sampleRequest) { r.Name = "abcdefg" }, "name", "name must be at most 5 characters"},
		{"no ids", func(r *sampleRequest) { r.IDs = nil }, "player_ids", "player_ids must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := ValidateStruct(&r)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var ve *RequestValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected RequestValidationError, got %v", err)
			}
			if ve.Field() != tt.field {
				t.Errorf("field = %q, want %q", ve.Field(), tt.field)
			}
			if ve.Error() != tt.message {
				t.Errorf("message = %q, want %q", ve.Error(), tt.message)
			}
		})
	}
}

func TestMultipleErrorsAreJoined(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Month: 1, IDs: []string{"a"}})
	var ve *RequestValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected RequestValidationError, got %v", err)
	}
	if len(ve.Errors()) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(ve.Errors()), err)
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("messages not joined: %q", err.Error())
	}
}

func TestKoanfTagNames(t *testing.T) {
	type section struct {
		Port int `koanf:"port" validate:"gte=1"`
	}
	err := ValidateStruct(&section{})
	var ve *RequestValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected RequestValidationError, got %v", err)
	}
	if ve.Field() != "port" {
		t.Errorf("field = %q, want port", ve.Field())
	}
}
