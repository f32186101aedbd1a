package models

import "time"

// Supply assigns a machine to a distributor for a sell-by window. The
// machine side of the link lives on machines.supply_id; this row can only
// be detached again by the direct-sale reversal.
type Supply struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	DistributorID uint        `json:"-" gorm:"not null;index"`
	Distributor   Distributor `json:"distributor" gorm:"foreignKey:DistributorID"`
	SupplyDate    time.Time   `json:"supply_date" gorm:"not null"`
	SellBy        time.Time   `json:"sell_by" gorm:"not null"`
	Notes         string      `json:"notes"`
	CreatedAt     time.Time   `json:"created_at"`
}
