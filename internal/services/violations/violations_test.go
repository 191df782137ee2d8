package violations

import (
	"context"
	"errors"
	"testing"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
)

func TestReportValidation(t *testing.T) {
	s := &Service{}

	tests := []struct {
		name string
		req  domain.ReportViolationRequest
	}{
		{"empty drone id", domain.ReportViolationRequest{Position: "46.07,11.12"}},
		{"blank drone id", domain.ReportViolationRequest{DroneID: "   ", Position: "46.07,11.12"}},
		{"empty position", domain.ReportViolationRequest{DroneID: "drone-1"}},
		{"blank position", domain.ReportViolationRequest{DroneID: "drone-1", Position: " "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Report(context.Background(), tt.req)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestByDroneValidation(t *testing.T) {
	s := &Service{}
	_, err := s.ByDrone(context.Background(), "  ")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
