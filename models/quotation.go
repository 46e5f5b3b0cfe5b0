package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quotation is a draft quotation created in the order system from a
// submitted quote session.
type Quotation struct {
	ID              uint            `gorm:"primaryKey" json:"-"`
	Name            string          `gorm:"uniqueIndex;not null" json:"name"`
	Status          string          `gorm:"not null" json:"status"`
	QuotationTo     string          `gorm:"not null" json:"quotationTo"`
	PartyName       string          `gorm:"not null" json:"partyName"`
	CustomerName    string          `gorm:"not null" json:"customerName"`
	Company         string          `json:"company,omitempty"`
	ContactEmail    string          `json:"contactEmail,omitempty"`
	ContactMobile   string          `json:"contactMobile,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Currency        string          `gorm:"not null" json:"currency"`
	TransactionDate time.Time       `gorm:"type:date;not null" json:"transactionDate"`
	NetTotal        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"netTotal"`
	TotalTaxes      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalTaxes"`
	GrandTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"grandTotal"`
	Lines           []QuotationLine `gorm:"foreignKey:QuotationID" json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func (q *Quotation) TableName() string {
	return "quotations"
}

// QuotationLine is one priced configuration on a quotation.
type QuotationLine struct {
	ID           uint            `gorm:"primaryKey" json:"-"`
	QuotationID  uint            `gorm:"not null;index" json:"-"`
	Position     int             `gorm:"not null" json:"idx"`
	ItemCode     string          `gorm:"not null" json:"itemCode"`
	ItemName     string          `gorm:"not null" json:"itemName"`
	Description  string          `json:"description"`
	CatalogRowID string          `json:"catalogRowId"`
	Qty          int             `gorm:"not null" json:"qty"`
	UOM          string          `gorm:"not null" json:"uom"`
	Rate         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
}

func (l *QuotationLine) TableName() string {
	return "quotation_lines"
}
