package operators

import (
	"context"
	"errors"
	"testing"

	"github.com/blockchain-unitn/skyledger-backend/internal/domain"
)

func TestAddressValidation(t *testing.T) {
	s := &Service{}
	ctx := context.Background()
	var verr *domain.ValidationError

	if _, err := s.Get(ctx, "bad"); !errors.As(err, &verr) {
		t.Errorf("Get: expected ValidationError, got %v", err)
	}
	if _, err := s.Register(ctx, "bad"); !errors.As(err, &verr) {
		t.Errorf("Register: expected ValidationError, got %v", err)
	}
	if _, err := s.Penalize(ctx, "bad", "1"); !errors.As(err, &verr) {
		t.Errorf("Penalize: expected ValidationError, got %v", err)
	}
	if _, err := s.AddAdmin(ctx, "bad"); !errors.As(err, &verr) {
		t.Errorf("AddAdmin: expected ValidationError, got %v", err)
	}
	if _, err := s.RemoveAdmin(ctx, "bad"); !errors.As(err, &verr) {
		t.Errorf("RemoveAdmin: expected ValidationError, got %v", err)
	}
	if _, err := s.Reputation(ctx, "bad"); !errors.As(err, &verr) {
		t.Errorf("Reputation: expected ValidationError, got %v", err)
	}
}

func TestSpendTokensValidation(t *testing.T) {
	s := &Service{}
	ctx := context.Background()
	var verr *domain.ValidationError

	for _, amount := range []string{"", "abc", "0", "-2"} {
		if _, err := s.SpendTokens(ctx, amount); !errors.As(err, &verr) {
			t.Errorf("SpendTokens(%q): expected ValidationError, got %v", amount, err)
		}
	}
}
