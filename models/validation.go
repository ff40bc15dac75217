package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type IssueReason string

const (
	IssueVariantMissing    IssueReason = "variant_missing"
	IssueUnavailable       IssueReason = "unavailable"
	IssueOutOfStock        IssueReason = "out_of_stock"
	IssueInsufficientStock IssueReason = "insufficient_stock"
	IssuePriceChanged      IssueReason = "price_changed"
)

// ValidationIssue describes one reason a cart line cannot be checked out as it stands.
type ValidationIssue struct {
	ItemID       uuid.UUID        `json:"itemId"`
	VariantID    uuid.UUID        `json:"variantId"`
	ProductType  ProductType      `json:"productType"`
	ProductName  string           `json:"productName"`
	Reason       IssueReason      `json:"reason"`
	Quantity     int              `json:"quantity"`
	Available    *int             `json:"available,omitempty"`
	CartPrice    decimal.Decimal  `json:"cartPrice"`
	CurrentPrice *decimal.Decimal `json:"currentPrice,omitempty"`
}

type ValidationReport struct {
	Valid     bool              `json:"valid"`
	Issues    []ValidationIssue `json:"issues"`
	CheckedAt time.Time         `json:"checkedAt"`
}

// HasIssue reports whether the line identified by itemID has an issue with the given reason.
func (r *ValidationReport) HasIssue(itemID uuid.UUID, reason IssueReason) bool {
	for _, issue := range r.Issues {
		if issue.ItemID == itemID && issue.Reason == reason {
			return true
		}
	}
	return false
}
