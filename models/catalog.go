package models

type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;unique"`
}

type MachineModel struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	Name       string   `json:"name" gorm:"not null;unique"`
	CategoryID uint     `json:"-" gorm:"not null"`
	Category   Category `json:"category" gorm:"foreignKey:CategoryID"`
}
