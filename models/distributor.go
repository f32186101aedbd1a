package models

// Distributor is a sales partner holding supplied machines. The
// direct-to-consumer channel is the distributor whose name matches the
// configured channel name (see database.D2CChannelName).
type Distributor struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"not null;unique"`
	City  string `json:"city"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Engineer is a field-service engineer assignable to service visits.
type Engineer struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"not null"`
	Phone string `json:"phone"`
}
