package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies which side of the marketplace a user is on.
type Role string

const (
	RoleIntern     Role = "intern"
	RoleEntreprise Role = "entreprise"
	RoleAdmin      Role = "admin"
)

// User represents an intern, a company or an administrator.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Lastname     string    `json:"lastname" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Phone        string    `json:"phonenumber" gorm:"size:50;not null"`
	Address      string    `json:"address,omitempty" gorm:"size:255"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'intern';index"`
	Industry     string    `json:"industry,omitempty" gorm:"size:255"`
	Website      string    `json:"website,omitempty" gorm:"size:255"`
	Linkedin     string    `json:"linkedin,omitempty" gorm:"size:255"`
	Github       string    `json:"github,omitempty" gorm:"size:255"`
	Skills       []string  `json:"skills" gorm:"serializer:json;type:text"`
	Description  string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	Education     []Education    `json:"education" gorm:"foreignKey:UserID"`
	Projects      []Project      `json:"projects" gorm:"foreignKey:UserID"`
	AppliedOffers []AppliedOffer `json:"appliedOffers" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CanManage reports whether the user may edit resources owned by ownerID.
func (u *User) CanManage(ownerID uuid.UUID) bool {
	return u != nil && (u.ID == ownerID || u.Role == RoleAdmin)
}

// Education is an entry of an intern's education history.
type Education struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	Diploma    string    `json:"diploma" gorm:"size:255"`
	University string    `json:"university" gorm:"size:255"`
	Location   string    `json:"location" gorm:"size:255"`
	Date       string    `json:"date" gorm:"size:64"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Education) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Project is a portfolio item shown on an intern's profile.
type Project struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	Title       string    `json:"title" gorm:"size:255"`
	Image       string    `json:"image" gorm:"size:512"`
	Description string    `json:"description" gorm:"type:text"`
	LiveDemo    string    `json:"liveDemo" gorm:"size:512"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// AppliedOffer records that an intern has applied to an offer.
type AppliedOffer struct {
	UserID    uuid.UUID `json:"-" gorm:"type:char(36);primaryKey"`
	OfferID   uuid.UUID `json:"offerId" gorm:"type:char(36);primaryKey;index"`
	CreatedAt time.Time `json:"-"`
}
