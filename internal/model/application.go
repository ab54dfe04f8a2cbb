package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus represents the status of an application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Application links an intern to an offer they applied for.
// At most one application exists per (offer, intern) pair.
type Application struct {
	ID        uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	OfferID   uuid.UUID         `json:"offerId" gorm:"type:char(36);not null;uniqueIndex:idx_offer_intern"`
	InternID  uuid.UUID         `json:"internId" gorm:"type:char(36);not null;uniqueIndex:idx_offer_intern;index"`
	CompanyID uuid.UUID         `json:"companyId" gorm:"type:char(36);not null;index"`
	Status    ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`

	// Relations
	Offer   *Offer `json:"offer,omitempty" gorm:"foreignKey:OfferID"`
	Intern  *User  `json:"intern,omitempty" gorm:"foreignKey:InternID"`
	Company *User  `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Terminal reports whether the status can no longer change.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	return s == ApplicationStatusPending || s.Terminal()
}
