package prices

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"nestegg-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RefreshInterval is the staleness gate: an asset is refreshable when its
// latest snapshot is older than this (or it has none). The gate only controls
// whether the refresh cycle writes; valuation always uses the latest snapshot
// no matter how old.
const RefreshInterval = time.Hour

// AssetClassCrypto routes assets whose type contains "crypto" to the crypto
// provider; every other type, ETFs included, goes to the stock provider.
const (
	AssetClassStock  = "stock"
	AssetClassCrypto = "crypto"
)

// Service is the append-only price snapshot store plus the refresh cycle
// against external quote providers. Quotes are cached in Redis best-effort;
// cache failures never affect correctness.
type Service struct {
	DB        *gorm.DB
	Rdb       *redis.Client
	CacheTTL  time.Duration
	Providers map[string]QuoteProvider // asset class -> provider
}

// WithDB returns a copy of the service bound to db, typically a transaction
// handle, so reads participate in the caller's transaction.
func (s *Service) WithDB(db *gorm.DB) *Service {
	return &Service{DB: db, Rdb: s.Rdb, CacheTTL: s.CacheTTL, Providers: s.Providers}
}

// RefreshReport summarizes one refresh cycle. Partial success is normal: a
// failing provider shows up in FailedProviders while the others' snapshots
// are still written.
type RefreshReport struct {
	Written         int      `json:"written"`
	SkippedFresh    int      `json:"skipped_fresh"`
	FailedProviders []string `json:"failed_providers"`
}

// AssetClass classifies an asset type string for provider routing.
func AssetClass(assetType string) string {
	if strings.Contains(strings.ToLower(assetType), "crypto") {
		return AssetClassCrypto
	}
	return AssetClassStock
}

// Record appends one price snapshot. Nothing ever updates or deletes
// snapshots, so history stays complete.
func (s *Service) Record(ctx context.Context, assetID uuid.UUID, quote Quote, fetchedAt time.Time) (*domain.PriceSnapshot, error) {
	payload, _ := json.Marshal(quote)
	snap := domain.PriceSnapshot{
		AssetID:      assetID,
		Price:        quote.Price,
		CurrencyCode: strings.ToUpper(quote.CurrencyCode),
		Provider:     quote.Provider,
		Payload:      datatypes.JSON(payload),
		FetchedAt:    fetchedAt,
	}
	if err := s.DB.WithContext(ctx).Create(&snap).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}

// Latest returns the most recent snapshot for an asset, or nil when none
// exists. Ordering is fetched_at, then created_at, then snapshot_id, all
// descending — equal timestamps resolve deterministically so valuations are
// reproducible.
func (s *Service) Latest(ctx context.Context, assetID uuid.UUID) (*domain.PriceSnapshot, error) {
	var snap domain.PriceSnapshot
	err := s.DB.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("fetched_at DESC, created_at DESC, snapshot_id DESC").
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

// Refreshable reports whether the asset's latest snapshot is missing or
// older than RefreshInterval as of now.
func (s *Service) Refreshable(ctx context.Context, assetID uuid.UUID, now time.Time) (bool, error) {
	latest, err := s.Latest(ctx, assetID)
	if err != nil {
		return false, err
	}
	if latest == nil {
		return true, nil
	}
	return now.Sub(latest.FetchedAt) > RefreshInterval, nil
}

// RefreshAll runs one refresh cycle: group refreshable assets by asset
// class, fetch quotes from that class's provider (network first, no locks
// held), then write snapshots. One provider failing is isolated to its
// class; writes for other classes proceed.
func (s *Service) RefreshAll(ctx context.Context, now time.Time) (RefreshReport, error) {
	report := RefreshReport{FailedProviders: []string{}}

	var assets []domain.InvestmentAsset
	if err := s.DB.WithContext(ctx).Find(&assets).Error; err != nil {
		return report, err
	}

	// class -> symbol -> assets (several assets may share a symbol)
	due := map[string]map[string][]domain.InvestmentAsset{}
	for _, asset := range assets {
		refreshable, err := s.Refreshable(ctx, asset.AssetID, now)
		if err != nil {
			log.Warn().Err(err).Str("symbol", asset.Symbol).Msg("staleness check failed, skipping asset")
			continue
		}
		if !refreshable {
			report.SkippedFresh++
			continue
		}
		class := AssetClass(asset.AssetType)
		if due[class] == nil {
			due[class] = map[string][]domain.InvestmentAsset{}
		}
		due[class][asset.Symbol] = append(due[class][asset.Symbol], asset)
	}

	for class, bySymbol := range due {
		provider, ok := s.Providers[class]
		if !ok {
			log.Warn().Str("class", class).Msg("no quote provider registered for asset class")
			continue
		}

		symbols := make([]string, 0, len(bySymbol))
		for symbol := range bySymbol {
			symbols = append(symbols, symbol)
		}

		quotes, missing := s.cachedQuotes(ctx, provider.Name(), symbols)
		if len(missing) > 0 {
			fetched, err := provider.FetchQuotes(ctx, missing)
			if err != nil {
				log.Error().Err(err).Str("provider", provider.Name()).Msg("quote fetch failed")
				report.FailedProviders = append(report.FailedProviders, provider.Name())
				// Cached quotes for this class are still usable.
				if len(quotes) == 0 {
					continue
				}
			} else {
				s.cacheQuotes(ctx, fetched)
				quotes = append(quotes, fetched...)
			}
		}

		for _, quote := range quotes {
			for _, asset := range bySymbol[quote.Symbol] {
				if _, err := s.Record(ctx, asset.AssetID, quote, now); err != nil {
					log.Error().Err(err).Str("symbol", quote.Symbol).Msg("snapshot write failed")
					continue
				}
				report.Written++
			}
		}
	}

	return report, nil
}

func quoteCacheKey(provider, symbol string) string {
	return "quote:" + provider + ":" + symbol
}

// cachedQuotes splits symbols into already-cached quotes and the remainder
// that needs a provider hit. Cache errors degrade to "not cached".
func (s *Service) cachedQuotes(ctx context.Context, provider string, symbols []string) ([]Quote, []string) {
	if s.Rdb == nil {
		return nil, symbols
	}
	var hits []Quote
	var missing []string
	for _, symbol := range symbols {
		raw, err := s.Rdb.Get(ctx, quoteCacheKey(provider, symbol)).Result()
		if err != nil {
			missing = append(missing, symbol)
			continue
		}
		var q Quote
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			missing = append(missing, symbol)
			continue
		}
		hits = append(hits, q)
	}
	return hits, missing
}

func (s *Service) cacheQuotes(ctx context.Context, quotes []Quote) {
	if s.Rdb == nil {
		return
	}
	for _, q := range quotes {
		b, _ := json.Marshal(q)
		if err := s.Rdb.Set(ctx, quoteCacheKey(q.Provider, q.Symbol), b, s.CacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("symbol", q.Symbol).Msg("quote cache write failed")
		}
	}
}
