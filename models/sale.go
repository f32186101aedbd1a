package models

import "time"

// Sale is the transfer of a machine to an end customer, either through a
// distributor's retail channel or direct-to-consumer.
type Sale struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	SaleDate       time.Time `json:"sale_date" gorm:"not null"`
	CustomerName   string    `json:"customer_name" gorm:"not null"`
	Phone          string    `json:"phone" gorm:"not null"`
	Address        string    `json:"address" gorm:"not null"`
	Email          string    `json:"email"`
	WhatsApp       string    `json:"whatsapp"`
	ReminderOptOut bool      `json:"reminder_opt_out"`
	CreatedAt      time.Time `json:"created_at"`
}
