package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agrolink/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound               = errors.New("record not found")
	ErrNoSession              = errors.New("no active session")
	ErrUserExists             = errors.New("user already exists")
	ErrAlreadyOwned           = errors.New("catalog entry already owned")
	ErrInvalidTransition      = errors.New("invalid offer status transition")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrDuplicateTransaction   = errors.New("duplicate transaction")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// ValidationError reports malformed user input. It is surfaced verbatim to
// the user; nothing retries it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CreateUserParams contains the parameters for storing a directory entry.
type CreateUserParams struct {
	Username string
	Password string
	Role     models.Role
	FarmId   int64
}

// WalletTransactionParams captures one wallet ledger mutation. Amount is
// signed: credits positive, debits negative.
type WalletTransactionParams struct {
	Account         string
	TransactionType string
	Amount          decimal.Decimal
	ExternalTxId    string
	Reference       string
	// AllowNegative permits the resulting balance to go below zero.
	// Withdrawals never set it; opening-balance reversals would.
	AllowNegative bool
}

// MarketStore defines the contract the marketplace backend must satisfy.
type MarketStore interface {
	// --- Users ---
	CreateUser(ctx context.Context, params CreateUserParams) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)

	// --- Session ---
	SaveSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context) (*models.Session, error)
	ClearSession(ctx context.Context) error

	// --- Catalog ---
	SeedCatalog(ctx context.Context, entries []models.CatalogEntry) error
	GetCatalog(ctx context.Context) ([]models.CatalogEntry, error)
	GetCatalogByFarm(ctx context.Context, farmId int64) ([]models.CatalogEntry, error)
	GetCatalogEntry(ctx context.Context, id int64) (*models.CatalogEntry, error)
	MarkEntryOwned(ctx context.Context, id int64) error
	CountOwnedEntries(ctx context.Context) (int, error)

	// --- Offers ---
	AppendOffer(ctx context.Context, offer models.Offer) error
	GetOffer(ctx context.Context, id string) (*models.Offer, error)
	GetOffersByBuyer(ctx context.Context, buyer string) ([]models.Offer, error)
	GetOffersByFarm(ctx context.Context, farmId int64) ([]models.Offer, error)
	AcceptOffer(ctx context.Context, id string) (*models.Offer, error)
	DeclineOffer(ctx context.Context, id string) (*models.Offer, error)
	ShipOffer(ctx context.Context, id string) (*models.Offer, error)

	// --- Wallet ledger ---
	GetAccountBalance(ctx context.Context, account string) (decimal.Decimal, error)
	ProcessWalletTransaction(ctx context.Context, params WalletTransactionParams) (*models.WalletTransaction, error)
	GetWalletHistory(ctx context.Context, account string, limit, offset int) ([]models.WalletTransaction, error)

	// --- Payouts ---
	AppendPayout(ctx context.Context, payout models.Payout) error
	GetPayouts(ctx context.Context) ([]models.Payout, error)

	// --- Fiat withdrawals ---
	AppendWithdrawal(ctx context.Context, withdrawal models.FiatWithdrawal) error
	GetWithdrawals(ctx context.Context) ([]models.FiatWithdrawal, error)
	SettleWithdrawalsDue(ctx context.Context, now time.Time) (int, error)

	// --- Lifecycle ---
	Close()
}
