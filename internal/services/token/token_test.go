package token

import (
	"context"
	"errors"
	"testing"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
)

const goodAddr = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func TestTransferValidation(t *testing.T) {
	s := &Service{}
	var verr *domain.ValidationError

	tests := []struct {
		name string
		call func() error
	}{
		{"mint bad address", func() error { _, err := s.Mint(context.Background(), "bad", "1"); return err }},
		{"mint zero amount", func() error { _, err := s.Mint(context.Background(), goodAddr, "0"); return err }},
		{"burn negative amount", func() error { _, err := s.Burn(context.Background(), goodAddr, "-1"); return err }},
		{"transfer junk amount", func() error { _, err := s.Transfer(context.Background(), goodAddr, "abc"); return err }},
		{"transferFrom bad from", func() error {
			_, err := s.TransferFrom(context.Background(), "bad", goodAddr, "1")
			return err
		}},
		{"approve empty amount", func() error { _, err := s.Approve(context.Background(), goodAddr, ""); return err }},
		{"too many decimals", func() error {
			_, err := s.Transfer(context.Background(), goodAddr, "1.0000000000000000001")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestBalanceOfValidation(t *testing.T) {
	s := &Service{}
	var verr *domain.ValidationError

	_, err := s.BalanceOf(context.Background(), "nope")
	if !errors.As(err, &verr) {
		t.Errorf("BalanceOf: expected ValidationError, got %v", err)
	}
	_, err = s.Allowance(context.Background(), goodAddr, "nope")
	if !errors.As(err, &verr) {
		t.Errorf("Allowance: expected ValidationError, got %v", err)
	}
}

func TestParseTransferArgs(t *testing.T) {
	_, value, err := parseTransferArgs(goodAddr, "1.5")
	if err != nil {
		t.Fatalf("parseTransferArgs: %v", err)
	}
	if value.String() != "1500000000000000000" {
		t.Errorf("value = %s, want 1500000000000000000", value)
	}
}
