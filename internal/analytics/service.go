package analytics

import (
	"context"
	"strings"

	"agrolink/internal/models"
	"agrolink/internal/store"

	"github.com/shopspring/decimal"
)

// Plan and fee are fixed for every farm on the demo tier.
const (
	PlatformFeePct = 2
	Plan           = "Standard"
)

// Conversion thresholds for the pricing recommendation.
var (
	lowConversion  = decimal.NewFromFloat(0.3)
	highConversion = decimal.NewFromFloat(0.7)
)

// Funnel counts offers per lifecycle stage.
type Funnel struct {
	Pending  int
	Accepted int
	Shipped  int
}

// FarmReport aggregates sales performance for one farm.
type FarmReport struct {
	FarmId           int64
	TotalEntries     int
	Sold             int
	Raised           decimal.Decimal
	Conversion       decimal.Decimal
	AvgAcceptedPrice decimal.Decimal
	SoldByProduct    map[string]int
	Funnel           Funnel
	Recommendation   string
	PaidToInvestors  decimal.Decimal
	PlatformFeePct   int
	Plan             string
}

// Service computes read-only reports over the catalog, offer, and payout
// ledgers. It never writes.
type Service struct {
	store store.MarketStore
}

func NewService(marketStore store.MarketStore) *Service {
	return &Service{store: marketStore}
}

// FarmReport builds the analytics dashboard numbers for a farm.
func (s *Service) FarmReport(ctx context.Context, farmId int64) (*FarmReport, error) {
	entries, err := s.store.GetCatalogByFarm(ctx, farmId)
	if err != nil {
		return nil, err
	}
	offers, err := s.store.GetOffersByFarm(ctx, farmId)
	if err != nil {
		return nil, err
	}
	payouts, err := s.store.GetPayouts(ctx)
	if err != nil {
		return nil, err
	}

	report := &FarmReport{
		FarmId:         farmId,
		TotalEntries:   len(entries),
		SoldByProduct:  make(map[string]int),
		PlatformFeePct: PlatformFeePct,
		Plan:           Plan,
	}

	for _, entry := range entries {
		if !entry.Owned {
			continue
		}
		report.Sold++
		report.Raised = report.Raised.Add(entry.PriceSOL)
		report.SoldByProduct[productName(entry.Name)]++
	}

	if report.TotalEntries > 0 {
		report.Conversion = decimal.NewFromInt(int64(report.Sold)).
			Div(decimal.NewFromInt(int64(report.TotalEntries))).Round(4)
	}

	acceptedSum := decimal.Zero
	acceptedCount := 0
	for _, offer := range offers {
		switch offer.Status {
		case models.OfferPending:
			report.Funnel.Pending++
		case models.OfferAccepted:
			report.Funnel.Accepted++
		case models.OfferShipped:
			report.Funnel.Shipped++
		}
		if offer.Status == models.OfferAccepted || offer.Status == models.OfferShipped {
			acceptedSum = acceptedSum.Add(offer.PriceSOL)
			acceptedCount++
		}
	}
	if acceptedCount > 0 {
		report.AvgAcceptedPrice = acceptedSum.Div(decimal.NewFromInt(int64(acceptedCount))).Round(4)
	}

	for _, payout := range payouts {
		report.PaidToInvestors = report.PaidToInvestors.Add(payout.Amount)
	}

	report.Recommendation = recommend(report.Conversion)
	return report, nil
}

func recommend(conversion decimal.Decimal) string {
	switch {
	case conversion.LessThan(lowConversion):
		return "Demand is weak. Consider lowering batch prices or improving listings."
	case conversion.GreaterThan(highConversion):
		return "Batches are selling fast. Consider raising prices on the next mint."
	default:
		return "Conversion is healthy. Keep current pricing."
	}
}

// productName strips the farm suffix from a catalog entry name, so entries
// named "Drumstick — Farm" group under "Drumstick".
func productName(name string) string {
	if idx := strings.Index(name, " — "); idx >= 0 {
		return name[:idx]
	}
	return name
}
