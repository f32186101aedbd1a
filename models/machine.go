package models

import (
	"time"

	"gorm.io/datatypes"
)

// Machine is a single physical unit coming out of quality testing. It owns
// at most one Supply, Return, Sale and WarrantyCertificate for its whole
// life; the nullable FK columns carry unique indexes so the one-per-machine
// rule is enforced by the store, not by prior reads.
type Machine struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	SerialNumber      string         `json:"serial_number" gorm:"size:64;uniqueIndex;not null"`
	ModelID           uint           `json:"-" gorm:"not null;index"`
	Model             MachineModel   `json:"model" gorm:"foreignKey:ModelID"`
	ManufacturingDate time.Time      `json:"manufacturing_date"`
	TestResults       datatypes.JSON `json:"test_results"`
	TestNotes         string         `json:"test_notes"`

	SupplyID *uint   `json:"-" gorm:"uniqueIndex"`
	Supply   *Supply `json:"supply,omitempty" gorm:"foreignKey:SupplyID"`

	ReturnID *uint   `json:"-" gorm:"uniqueIndex"`
	Return   *Return `json:"return,omitempty" gorm:"foreignKey:ReturnID"`

	SaleID *uint `json:"-" gorm:"uniqueIndex"`
	Sale   *Sale `json:"sale,omitempty" gorm:"foreignKey:SaleID"`

	CertificateID *uint                `json:"-" gorm:"uniqueIndex"`
	Certificate   *WarrantyCertificate `json:"warranty_certificate,omitempty" gorm:"foreignKey:CertificateID"`

	ServiceRequests []ServiceRequest `json:"service_requests,omitempty" gorm:"foreignKey:MachineID"`

	CreatedAt time.Time `json:"created_at"`
}

// TestResult is one entry of the quality-testing payload stored in
// Machine.TestResults, keyed by test name.
type TestResult struct {
	Condition string   `json:"condition"`
	Passed    bool     `json:"passed"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}
