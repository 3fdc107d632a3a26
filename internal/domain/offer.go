package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Offer statuses. Expired is set only by the expiry sweeper.
const (
	OfferStatusActive  = "active"
	OfferStatusExpired = "expired"
	OfferStatusSold    = "sold"
)

// DefaultDurationHours is applied when a listing request omits duration.
const DefaultDurationHours = 24

// EnergyTransaction is one recorded purchase against an offer.
type EnergyTransaction struct {
	Buyer     string    `json:"buyer"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// EnergyOffer is a producer's standing sale listing. Transactions are kept
// inline as a JSON array, in insertion (chronological) order.
type EnergyOffer struct {
	OfferID      int64                                  `gorm:"column:offer_id;primaryKey;autoIncrement:false" json:"offerId"`
	Producer     string                                 `gorm:"column:producer;not null;index" json:"producer"`
	PriceInWei   string                                 `gorm:"column:price_in_wei;not null" json:"priceInWei"`
	EnergyAmount float64                                `gorm:"column:energy_amount;not null;check:energy_amount >= 0" json:"energyAmount"`
	Duration     int                                    `gorm:"column:duration;not null;default:24" json:"duration"`
	ExpiresAt    time.Time                              `gorm:"column:expires_at;not null;index" json:"expiresAt"`
	Status       string                                 `gorm:"column:status;type:varchar(10);not null;default:'active';index" json:"status"`
	Transactions datatypes.JSONSlice[EnergyTransaction] `gorm:"column:transactions" json:"transactions"`
	Timestamp    time.Time                              `gorm:"column:created_at;not null;index" json:"timestamp"`
	UpdatedAt    time.Time                              `gorm:"column:updated_at" json:"updatedAt"`
}

func (EnergyOffer) TableName() string {
	return "energy_offers"
}

// Purchasable reports whether the offer can still take purchases at now.
func (o *EnergyOffer) Purchasable(now time.Time) bool {
	return o.Status == OfferStatusActive && now.Before(o.ExpiresAt)
}

// TotalPurchased sums the recorded transaction amounts.
func (o *EnergyOffer) TotalPurchased() float64 {
	var total float64
	for _, t := range o.Transactions {
		total += t.Amount
	}
	return total
}
