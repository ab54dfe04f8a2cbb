package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WorkType is where the internship takes place.
type WorkType string

const (
	WorkTypeRemote   WorkType = "remote"
	WorkTypeHybrid   WorkType = "hybrid"
	WorkTypeInOffice WorkType = "in-office"
)

// PaymentKind tells whether an internship is paid.
type PaymentKind string

const (
	PaymentPaid   PaymentKind = "paid"
	PaymentUnpaid PaymentKind = "unpaid"
)

// DurationBucket groups free-text durations for filtering.
type DurationBucket string

const (
	Duration3Months     DurationBucket = "3"
	Duration6Months     DurationBucket = "6"
	DurationYear        DurationBucket = "year"
	DurationUndisclosed DurationBucket = "undisclosed"
)

// Offer is an internship posting created by a company.
type Offer struct {
	ID             uuid.UUID           `json:"id" gorm:"type:char(36);primaryKey"`
	Title          string              `json:"title" gorm:"size:255;not null"`
	Location       string              `json:"location" gorm:"size:255;index"`
	Duration       string              `json:"duration" gorm:"size:128"`
	Type           WorkType            `json:"type" gorm:"type:varchar(20);index"`
	Payment        string              `json:"payment" gorm:"size:255"`
	PaymentKind    PaymentKind         `json:"paymentKind" gorm:"type:varchar(20);index"`
	DurationBucket DurationBucket      `json:"durationBucket" gorm:"type:varchar(20);index"`
	Stipend        decimal.NullDecimal `json:"stipend" gorm:"type:decimal(20,2)"`
	Description    string              `json:"description" gorm:"type:text"`
	CompanyID      uuid.UUID           `json:"companyId" gorm:"type:char(36);not null;index"`
	CreatedAt      time.Time           `json:"createdAt" gorm:"index"`
	UpdatedAt      time.Time           `json:"updatedAt"`

	// Relations
	Company      *User         `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:OfferID"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Valid reports whether t is a known work type.
func (t WorkType) Valid() bool {
	switch t {
	case WorkTypeRemote, WorkTypeHybrid, WorkTypeInOffice:
		return true
	}
	return false
}

// Valid reports whether k is a known payment kind.
func (k PaymentKind) Valid() bool {
	return k == PaymentPaid || k == PaymentUnpaid
}

// Valid reports whether b is a known duration bucket.
func (b DurationBucket) Valid() bool {
	switch b {
	case Duration3Months, Duration6Months, DurationYear, DurationUndisclosed:
		return true
	}
	return false
}
