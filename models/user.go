package models

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Roles known to the capability table (see middlewares.Allowed).
const (
	RoleAdmin       = "admin"
	RoleQuality     = "quality"
	RoleDispatch    = "dispatch"
	RoleDistributor = "distributor"
	RoleService     = "service"
)

type User struct {
	Id        string `json:"id" gorm:"primaryKey"`
	FirstName string `json:"first_name" gorm:"not null"`
	LastName  string `json:"last_name" gorm:"not null"`
	Password  []byte `json:"-" gorm:"not null"`
	Email     string `json:"email" gorm:"unique;not null"`
	Role      string `json:"role" gorm:"size:20;not null"`

	// Set for distributor-scoped users; the acting distributor for
	// inventory and sale operations comes from here via the JWT claims.
	DistributorID *uint        `json:"distributor_id,omitempty"`
	Distributor   *Distributor `json:"distributor,omitempty" gorm:"foreignKey:DistributorID"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	user.Id = uuid.NewString()
	return
}

func (user *User) SetPassword(password string) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	user.Password = hashedPassword
}

func (user *User) ComparePassword(password string) error {
	return bcrypt.CompareHashAndPassword(user.Password, []byte(password))
}
