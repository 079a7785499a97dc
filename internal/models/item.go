package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID        int             `json:"id"`
	BranchID  int             `json:"branch_id"`
	Name      string          `json:"name"`
	Size      string          `json:"size"`
	Stock     int             `json:"stock"`
	Price     decimal.Decimal `json:"price"`
	MinStock  int             `json:"min_stock"`
	Weight    string          `json:"weight"` // free text unit weight, e.g. "4.5kg"
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// IsLow reports whether stock has fallen to the reorder threshold
func (i *Item) IsLow() bool {
	return i.Stock <= i.MinStock
}

type CreateItemRequest struct {
	Name     string          `json:"name" validate:"required,max=150"`
	Size     string          `json:"size" validate:"max=50"`
	Stock    int             `json:"stock"`
	Price    decimal.Decimal `json:"price"`
	MinStock int             `json:"min_stock" validate:"gte=0"`
	Weight   string          `json:"weight" validate:"max=50"`
}

// UpdateItemRequest edits master data. Stock only moves through the ledger.
type UpdateItemRequest struct {
	Name     string          `json:"name" validate:"required,max=150"`
	Size     string          `json:"size" validate:"max=50"`
	Price    decimal.Decimal `json:"price"`
	MinStock int             `json:"min_stock" validate:"gte=0"`
	Weight   string          `json:"weight" validate:"max=50"`
}
