package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Enquiry struct {
	ID          int           `json:"id"`
	BranchID    int           `json:"branch_id"`
	PartyName   string        `json:"party_name"`
	Contact     string        `json:"contact"`
	Reference   string        `json:"reference"`
	Remark      string        `json:"remark"`
	EnquiryDate *time.Time    `json:"enquiry_date,omitempty"`
	CreatedBy   int           `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	Items       []EnquiryItem `json:"items"`
}

type EnquiryItem struct {
	ID          int             `json:"id"`
	EnquiryID   int             `json:"enquiry_id"`
	ItemID      int             `json:"item_id"`
	ItemName    string          `json:"item_name,omitempty"`
	Quantity    int             `json:"quantity"`
	TotalWeight decimal.Decimal `json:"total_weight"`
}

type EnquiryLineRequest struct {
	ItemID   int `json:"item_id" validate:"required,gt=0"`
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// EnquiryRequest is used for create and update; on update the lines replace the old ones
type EnquiryRequest struct {
	PartyName   string               `json:"party_name" validate:"required,max=150"`
	Contact     string               `json:"contact" validate:"max=30"`
	Reference   string               `json:"reference" validate:"max=150"`
	Remark      string               `json:"remark" validate:"max=500"`
	EnquiryDate string               `json:"enquiry_date" validate:"omitempty,datetime=2006-01-02"`
	Items       []EnquiryLineRequest `json:"items" validate:"required,min=1,dive"`
}

type ConfirmEnquiryResponse struct {
	OrderID int `json:"order_id"`
}
