package models

import (
	"time"
)

// Country is a registered country. Companies and people reference it by
// name (denormalized string match), not by foreign key, so renaming a
// country does not cascade to dependent records.
type Country struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"unique;not null" json:"name"`
	Code       string    `gorm:"unique;not null" json:"code"` // ISO code, stored upper-case, 2-3 chars
	Region     string    `json:"region"`
	Continent  string    `json:"continent"`
	Capital    string    `json:"capital"`
	Population int64     `gorm:"default:0" json:"population"`
	Currency   string    `json:"currency"`
	Language   string    `json:"language"`
	IsActive   bool      `gorm:"default:true" json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Company is a registered company. Country is free text matched against
// Country.Name at query time. Duplicate company names are allowed.
type Company struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`
	Country     string    `gorm:"index" json:"country"`
	Industry    string    `json:"industry"`
	Website     string    `json:"website"`
	FoundedYear int       `gorm:"default:0" json:"foundedYear"`
	Domains     []string  `gorm:"serializer:json" json:"domains"`
	Subdomains  []string  `gorm:"serializer:json" json:"subdomains"`
	IPAddresses []string  `gorm:"serializer:json" json:"ipAddresses"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Person is a registered person. Company and Country are free-text names.
type Person struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FirstName  string    `gorm:"not null" json:"firstName"`
	LastName   string    `gorm:"not null;index" json:"lastName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	Company    string    `gorm:"index" json:"company"`
	Country    string    `gorm:"index" json:"country"`
	City       string    `json:"city"`
	IsActive   bool      `gorm:"default:true" json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
