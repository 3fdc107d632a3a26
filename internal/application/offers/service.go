package offers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"energy-market-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const offerIDCounter = "energy_offer_id"

type Service struct {
	DB    *gorm.DB
	Cache *LeaderboardCache // optional
	Now   func() time.Time  // defaults to time.Now
}

type CreateOfferInput struct {
	Producer      string
	PriceInWei    string
	EnergyAmount  float64
	DurationHours int
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateOffer persists a new active offer. The id comes from an atomic counter
// so concurrent listings never share one.
func (s *Service) CreateOffer(ctx context.Context, in CreateOfferInput) (*domain.EnergyOffer, error) {
	producer := strings.TrimSpace(in.Producer)
	price := strings.TrimSpace(in.PriceInWei)
	if producer == "" || price == "" || in.EnergyAmount == 0 {
		return nil, ErrMissingFields
	}
	if in.EnergyAmount < 0 {
		return nil, ErrInvalidAmount
	}
	duration := in.DurationHours
	if duration <= 0 {
		duration = domain.DefaultDurationHours
	}

	now := s.now()
	offer := &domain.EnergyOffer{
		Producer:     producer,
		PriceInWei:   price,
		EnergyAmount: in.EnergyAmount,
		Duration:     duration,
		ExpiresAt:    now.Add(time.Duration(duration) * time.Hour),
		Status:       domain.OfferStatusActive,
		Transactions: datatypes.JSONSlice[domain.EnergyTransaction]{},
		Timestamp:    now,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextOfferID(tx)
		if err != nil {
			return err
		}
		offer.OfferID = id
		return tx.Create(offer).Error
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to create offer: %w", err)
	}

	s.Cache.Invalidate(ctx)
	return offer, nil
}

// nextOfferID bumps the offer counter inside tx. The first call seeds the
// counter from the highest existing offer id.
func nextOfferID(tx *gorm.DB) (int64, error) {
	var maxID int64
	if err := tx.Model(&domain.EnergyOffer{}).Select("COALESCE(MAX(offer_id), 0)").Scan(&maxID).Error; err != nil {
		return 0, err
	}
	seed := domain.Counter{Name: offerIDCounter, Value: maxID + 1}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": gorm.Expr("counters.value + 1")}),
	}).Create(&seed).Error; err != nil {
		return 0, err
	}
	var counter domain.Counter
	if err := tx.Where("name = ?", offerIDCounter).First(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// ListActiveOffers returns active, unexpired offers, newest first.
func (s *Service) ListActiveOffers(ctx context.Context) ([]domain.EnergyOffer, error) {
	offers := []domain.EnergyOffer{}
	if err := s.DB.WithContext(ctx).
		Where("status = ? AND expires_at > ?", domain.OfferStatusActive, s.now()).
		Order("created_at DESC").Order("offer_id DESC").
		Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("Error fetching offers: %w", err)
	}
	return offers, nil
}

// GetOffer returns an offer in any status.
func (s *Service) GetOffer(ctx context.Context, offerID int64) (*domain.EnergyOffer, error) {
	var offer domain.EnergyOffer
	if err := s.DB.WithContext(ctx).Where("offer_id = ?", offerID).First(&offer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("Error fetching offer: %w", err)
	}
	return &offer, nil
}

// ListProducerOffers returns every offer a producer has listed, newest first.
func (s *Service) ListProducerOffers(ctx context.Context, producer string) ([]domain.EnergyOffer, error) {
	offers := []domain.EnergyOffer{}
	if err := s.DB.WithContext(ctx).
		Where("producer = ?", producer).
		Order("created_at DESC").Order("offer_id DESC").
		Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("Error fetching offers: %w", err)
	}
	return offers, nil
}

// Purchase records a buyer's claim against an offer's remaining energy.
// Payment is settled by the buyer's wallet before this call and is not
// verified here: the purchase is recorded as claimed.
func (s *Service) Purchase(ctx context.Context, offerID int64, amount float64, buyer string) (*domain.EnergyOffer, error) {
	buyer = strings.TrimSpace(buyer)
	if offerID <= 0 || buyer == "" || amount == 0 {
		return nil, ErrMissingFields
	}
	if amount < 0 {
		return nil, ErrInvalidAmount
	}

	now := s.now()
	var offer domain.EnergyOffer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Single conditional decrement; the sufficiency check and the write
		// cannot interleave with another purchase.
		res := tx.Model(&domain.EnergyOffer{}).
			Where("offer_id = ? AND status = ? AND expires_at > ? AND energy_amount >= ?",
				offerID, domain.OfferStatusActive, now, amount).
			Updates(map[string]interface{}{
				"energy_amount": gorm.Expr("energy_amount - ?", amount),
				"updated_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current domain.EnergyOffer
			err := tx.Where("offer_id = ? AND status = ? AND expires_at > ?",
				offerID, domain.OfferStatusActive, now).First(&current).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOfferNotFound
			}
			if err != nil {
				return err
			}
			return ErrInsufficientQuantity
		}

		if err := tx.Where("offer_id = ?", offerID).First(&offer).Error; err != nil {
			return err
		}
		offer.Transactions = append(offer.Transactions, domain.EnergyTransaction{
			Buyer:     buyer,
			Amount:    amount,
			Timestamp: now,
		})
		if offer.EnergyAmount == 0 {
			offer.Status = domain.OfferStatusSold
		}
		if err := tx.Model(&domain.EnergyOffer{}).Where("offer_id = ?", offerID).
			Updates(map[string]interface{}{
				"transactions": offer.Transactions,
				"status":       offer.Status,
			}).Error; err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "producer"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"energy_sold": gorm.Expr("producer_stats.energy_sold + ?", amount),
				"updated_at":  now,
			}),
		}).Create(&domain.ProducerStat{Producer: offer.Producer, EnergySold: amount, UpdatedAt: now}).Error
	})
	if err != nil {
		if errors.Is(err, ErrOfferNotFound) || errors.Is(err, ErrInsufficientQuantity) {
			return nil, err
		}
		return nil, fmt.Errorf("Purchase failed: %w", err)
	}

	s.Cache.Invalidate(ctx)
	log.Info().Int64("offer_id", offerID).Str("buyer", buyer).Float64("amount", amount).
		Str("status", offer.Status).Msg("energy purchase recorded")
	return &offer, nil
}

// ExpireStale marks active offers whose expiry has passed as expired and
// returns how many were changed.
func (s *Service) ExpireStale(ctx context.Context) (int64, error) {
	now := s.now()
	res := s.DB.WithContext(ctx).Model(&domain.EnergyOffer{}).
		Where("status = ? AND expires_at <= ?", domain.OfferStatusActive, now).
		Updates(map[string]interface{}{
			"status":     domain.OfferStatusExpired,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("Failed to expire offers: %w", res.Error)
	}
	return res.RowsAffected, nil
}
