package ledger

import (
	"context"
	"strings"

	"rwa-backend/internal/application/access"
	"rwa-backend/internal/application/events"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewAsset is the issuance request for a tokenised property.
type NewAsset struct {
	Symbol                string
	Name                  string
	PropertyDescriptor    string
	Valuation             int64
	TotalShares           int64
	HolderCap             int64
	MaxBalancePerInvestor int64
}

// CreateAsset issues a new asset with zero supply. Caller must be an agent.
func (s *Service) CreateAsset(ctx context.Context, caller domain.Account, in NewAsset) (*domain.Asset, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	name := strings.TrimSpace(in.Name)
	if symbol == "" || len(symbol) > 16 {
		return nil, ErrInvalidSymbol
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if in.TotalShares <= 0 {
		return nil, ErrNonPositiveShares
	}
	if in.Valuation < 0 {
		return nil, ErrNegativeValuation
	}

	asset := &domain.Asset{
		Symbol:             symbol,
		Name:               name,
		PropertyDescriptor: strings.TrimSpace(in.PropertyDescriptor),
		Valuation:          in.Valuation,
		TotalShares:        in.TotalShares,
		CreatedBy:          caller,
	}
	err := s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		if err := access.Require(tx, caller, constants.Agent); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&domain.Asset{}).Where("symbol = ?", symbol).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSymbolTaken
		}
		if err := tx.Create(asset).Error; err != nil {
			return err
		}
		if err := s.Gate.Configure(tx, asset.AssetID, in.HolderCap, in.MaxBalancePerInvestor); err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventAssetCreated,
			Actor:   caller,
			Subject: asset.AssetID.String(),
			Amount:  asset.TotalShares,
			AssetID: &asset.AssetID,
			Data: events.Data(map[string]interface{}{
				"symbol":    asset.Symbol,
				"valuation": asset.Valuation,
			}),
		})
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// UpdateValuation records a new appraisal of the underlying property.
func (s *Service) UpdateValuation(ctx context.Context, caller domain.Account, assetID uuid.UUID, valuation int64) error {
	if valuation < 0 {
		return ErrNegativeValuation
	}
	return s.commit(ctx, func(tx *gorm.DB, batch *events.Batch) error {
		if err := access.Require(tx, caller, constants.Agent); err != nil {
			return err
		}
		asset, err := requireAsset(tx, assetID)
		if err != nil {
			return err
		}
		if asset.Valuation == valuation {
			return ErrValuationUnchanged
		}
		if err := tx.Model(asset).Update("valuation", valuation).Error; err != nil {
			return err
		}
		return batch.Record(tx, domain.AuditEvent{
			Kind:    domain.EventValuationUpdated,
			Actor:   caller,
			Subject: assetID.String(),
			Amount:  valuation,
			AssetID: &assetID,
			Data:    events.Data(map[string]int64{"previous": asset.Valuation}),
		})
	})
}

func (s *Service) GetAsset(ctx context.Context, assetID uuid.UUID) (*domain.Asset, error) {
	return requireAsset(s.DB.WithContext(ctx), assetID)
}

func (s *Service) ListAssets(ctx context.Context) ([]domain.Asset, error) {
	assets := []domain.Asset{}
	err := s.DB.WithContext(ctx).Order("symbol ASC").Find(&assets).Error
	return assets, err
}
