package models

import "time"

// Return records a machine coming back from its distributor. It can only
// exist while the machine has a Supply, and only once.
type Return struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ReturnDate time.Time `json:"return_date" gorm:"not null"`
	Reason     string    `json:"reason" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}
