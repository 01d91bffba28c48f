package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role distinguishes the two account types the marketplace knows about.
type Role string

const (
	RoleFactory  Role = "factory"
	RoleInvestor Role = "investor"
)

// User represents an entry in the persisted user directory.
// Passwords are stored in plaintext; this is a demo marketplace with no
// backing service to protect.
type User struct {
	Username  string    `db:"username"`
	Password  string    `db:"password"`
	Role      Role      `db:"role"`
	FarmId    int64     `db:"farm_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Session is the single current session record.
type Session struct {
	Username  string    `db:"username"`
	Role      Role      `db:"role"`
	FarmId    int64     `db:"farm_id"`
	CreatedAt time.Time `db:"created_at"`
}

// CatalogEntry is one purchasable product batch, tied to a farm and a
// product type. Ids are sequential and immutable; the owned flag only ever
// transitions false to true.
type CatalogEntry struct {
	Id       int64           `db:"id"`
	Name     string          `db:"name"`
	PriceSOL decimal.Decimal `db:"price_sol"`
	Image    string          `db:"image"`
	Caption  string          `db:"caption"`
	FarmId   int64           `db:"farm_id"`
	Owned    bool            `db:"owned"`
}

// OfferStatus is the offer lifecycle state.
type OfferStatus string

const (
	OfferPending   OfferStatus = "pending"
	OfferCountered OfferStatus = "countered"
	OfferAccepted  OfferStatus = "accepted"
	OfferDeclined  OfferStatus = "declined"
	OfferShipped   OfferStatus = "shipped"
)

// Offer is a buyer-proposed price against a catalog entry.
// Valid transitions: pending -> accepted | declined; accepted -> shipped.
// Declined and shipped are terminal. Countered exists for stored data
// compatibility but nothing transitions into it.
type Offer struct {
	Id        string          `db:"id"`
	EntryId   int64           `db:"entry_id"`
	Buyer     string          `db:"buyer"`
	PriceSOL  decimal.Decimal `db:"price_sol"`
	Status    OfferStatus     `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
}

// Payout is one appended royalty distribution record. Never mutated.
type Payout struct {
	Id     string          `db:"id"`
	Date   string          `db:"date"` // YYYY-MM-DD
	Amount decimal.Decimal `db:"amount"`
}

// WithdrawalStatus is the fiat withdrawal lifecycle state.
type WithdrawalStatus string

const (
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalPaid       WithdrawalStatus = "paid"
)

// FiatWithdrawal is a request to convert wallet balance to a bank transfer.
type FiatWithdrawal struct {
	Id            string           `db:"id"`
	Amount        decimal.Decimal  `db:"amount"`
	Eta           string           `db:"eta"` // YYYY-MM-DD
	Status        WithdrawalStatus `db:"status"`
	AccountMasked string           `db:"account_masked"`
	Beneficiary   string           `db:"beneficiary"`
	CreatedAt     time.Time        `db:"created_at"`
}

// Wallet ledger account names. Every balance mutation goes through the
// wallet ledger so there is an audit trail behind both numbers the UI shows.
const (
	AccountWallet  = "wallet"
	AccountRoyalty = "royalty"
)

// AccountBalance is the current state of one wallet ledger account.
type AccountBalance struct {
	Id                string          `db:"id"`
	Account           string          `db:"account"`
	Balance           decimal.Decimal `db:"balance"`
	LastTransactionId string          `db:"last_transaction_id"`
	Version           int64           `db:"version"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// WalletTransaction is one immutable wallet ledger row.
type WalletTransaction struct {
	Id                    string          `db:"id"`
	Account               string          `db:"account"`
	TransactionType       string          `db:"transaction_type"`
	Amount                decimal.Decimal `db:"amount"`
	BalanceBefore         decimal.Decimal `db:"balance_before"`
	BalanceAfter          decimal.Decimal `db:"balance_after"`
	ExternalTransactionId string          `db:"external_transaction_id"`
	Reference             string          `db:"reference"`
	CreatedAt             time.Time       `db:"created_at"`
}

// Batch describes a factory's batch collection to mint.
type Batch struct {
	Title            string
	Cover            string
	Products         []string
	FactorySharePct  int
	InvestorSharePct int
}
