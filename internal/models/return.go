package models

import "time"

type Return struct {
	ID        int       `json:"id"`
	BranchID  int       `json:"branch_id"`
	OrderID   *int      `json:"order_id,omitempty"`
	ItemID    int       `json:"item_id"`
	ItemName  string    `json:"item_name,omitempty"`
	Quantity  int       `json:"quantity"`
	ChallanNo string    `json:"challan_no"`
	Remark    string    `json:"remark"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ReturnRequest is used for create and update
type ReturnRequest struct {
	OrderID   *int   `json:"order_id" validate:"omitempty,gt=0"`
	ItemID    int    `json:"item_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	ChallanNo string `json:"challan_no" validate:"max=50"`
	Remark    string `json:"remark" validate:"max=500"`
}
