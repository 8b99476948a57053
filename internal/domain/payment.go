package domain

import (
	"time"

	"github.com/shopspring/decimal" // Exact decimal amounts
)

// PaymentStatusQueued is the only status a payment ever has
const PaymentStatusQueued = "QUEUED"

// PaymentIDPrefix marks payment identifiers
const PaymentIDPrefix = "pm_"

// Payment Model
type Payment struct {
	ID              string          `gorm:"primaryKey;size:32"`                                            // Opaque random id, pm_<hex>
	UserID          uint            `gorm:"not null;index:idx_payments_user_created,priority:1"`           // Owning user
	User            User            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`                 // Foreign key to users
	BeneficiaryName string          `gorm:"size:255;not null"`                                             // Beneficiary display name
	Swift           string          `gorm:"size:11;not null"`                                              // SWIFT/BIC, uppercase
	IBAN            string          `gorm:"column:iban;size:34;not null"`                                  // IBAN, uppercase
	Amount          decimal.Decimal `gorm:"type:text;not null"`                                            // Exact decimal text, any number of digits
	Currency        string          `gorm:"size:3;not null"`                                               // ISO-style 3 letter code
	Reference       *string         `gorm:"size:50"`                                                       // Optional reference, NULL when empty
	Status          string          `gorm:"size:16;not null"`                                              // Always QUEUED
	CreatedAt       time.Time       `gorm:"not null;index:idx_payments_user_created,priority:2,sort:desc"` // Timestamp of creation
}
