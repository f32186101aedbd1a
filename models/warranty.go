package models

import "time"

// WarrantyCertificate is the proof-of-registration record for a sold
// machine. Immutable once created; there is no update or delete path.
type WarrantyCertificate struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Address      string    `json:"address" gorm:"not null"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zip_code"`
	Country      string    `json:"country" gorm:"default:India"`
	RegisteredAt time.Time `json:"registered_at"`
}
