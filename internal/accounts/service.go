package accounts

import (
	"context"

	"nestegg-backend/internal/domain"

	"gorm.io/gorm"
)

// Service maintains the read model the valuation engine aggregates over:
// wallets, manual assets and manual liabilities.
type Service struct {
	DB *gorm.DB
}

func (s *Service) CreateWallet(ctx context.Context, wallet *domain.Wallet) error {
	return s.DB.WithContext(ctx).Create(wallet).Error
}

func (s *Service) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&wallets).Error
	return wallets, err
}

func (s *Service) CreateAsset(ctx context.Context, asset *domain.ManualAsset) error {
	return s.DB.WithContext(ctx).Create(asset).Error
}

func (s *Service) ListAssets(ctx context.Context) ([]domain.ManualAsset, error) {
	var assets []domain.ManualAsset
	err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&assets).Error
	return assets, err
}

func (s *Service) CreateLiability(ctx context.Context, liability *domain.ManualLiability) error {
	return s.DB.WithContext(ctx).Create(liability).Error
}

func (s *Service) ListLiabilities(ctx context.Context) ([]domain.ManualLiability, error) {
	var liabilities []domain.ManualLiability
	err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&liabilities).Error
	return liabilities, err
}
