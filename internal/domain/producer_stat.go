package domain

import "time"

// ProducerStat accumulates the energy a producer has sold across all offers.
type ProducerStat struct {
	Producer   string    `gorm:"column:producer;primaryKey;size:128" json:"producer"`
	EnergySold float64   `gorm:"column:energy_sold;not null;default:0" json:"energySold"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (ProducerStat) TableName() string {
	return "producer_stats"
}
