package store

import (
	"testing"
)

// Compile-time checks that the interface is importable and usable.
func TestMarketStoreInterfaceExists(t *testing.T) {
	// This test simply validates that the MarketStore interface compiles
	// and the sentinel errors are accessible.
	_ = ErrDuplicateTransaction
	_ = ErrConcurrentModification
	_ = ErrNotFound
	_ = ErrNoSession
	_ = ErrInvalidTransition
	_ = CreateUserParams{}
	_ = WalletTransactionParams{}

	// Ensure the interface is non-nil type.
	var _ MarketStore
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "username", Reason: "must not be empty"}
	expected := "invalid username: must not be empty"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
}
