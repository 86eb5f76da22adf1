package prices

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote is one price observation from an upstream source.
type Quote struct {
	Symbol       string          `json:"symbol"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currency_code"`
	Provider     string          `json:"provider"`
}

// QuoteProvider fetches current prices for a batch of symbols. One provider
// typically covers one asset class (equities vs crypto); a failure from one
// must never abort the refresh for the others. FetchQuotes must honor ctx
// cancellation — it is the only blocking call in the refresh cycle.
type QuoteProvider interface {
	Name() string
	FetchQuotes(ctx context.Context, symbols []string) ([]Quote, error)
}
