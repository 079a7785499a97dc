package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "Pending"
	OrderStatusDispatched = "Dispatched"
)

type Order struct {
	ID        int         `json:"id"`
	BranchID  int         `json:"branch_id"`
	PartyName string      `json:"party_name"`
	Contact   string      `json:"contact"`
	Reference string      `json:"reference"`
	Remark    string      `json:"remark"`
	OrderDate time.Time   `json:"order_date"`
	Status    string      `json:"status"`
	CreatedBy int         `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

type OrderItem struct {
	ID                 int             `json:"id"`
	OrderID            int             `json:"order_id"`
	ItemID             int             `json:"item_id"`
	ItemName           string          `json:"item_name,omitempty"`
	OrderedQuantity    int             `json:"ordered_quantity"`
	DispatchedQuantity int             `json:"dispatched_quantity"`
	TotalWeight        decimal.Decimal `json:"total_weight"`
}

type DispatchLine struct {
	OrderItemID        int `json:"order_item_id" validate:"required,gt=0"`
	DispatchedQuantity int `json:"dispatched_quantity" validate:"gte=0"`
}

// DispatchRequest sets the cumulative dispatched quantity for each listed line
type DispatchRequest struct {
	Lines []DispatchLine `json:"lines" validate:"required,min=1,dive"`
}

// FullyDispatched reports whether every line has shipped at least what was ordered
func FullyDispatched(items []OrderItem) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if it.DispatchedQuantity < it.OrderedQuantity {
			return false
		}
	}
	return true
}
