package models

import "time"

const (
	StockActionAdd  = "ADD"
	StockActionLoss = "LOSS"
)

// StockLog justifies an explicit add-stock or loss adjustment
type StockLog struct {
	ID        int       `json:"id"`
	BranchID  int       `json:"branch_id"`
	ItemID    int       `json:"item_id"`
	Action    string    `json:"action"`
	Quantity  int       `json:"quantity"`
	Remark    string    `json:"remark"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type StockAdjustRequest struct {
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Remark   string `json:"remark" validate:"max=500"`
}

// Delta is the signed stock change for the action
func (l *StockLog) Delta() int {
	if l.Action == StockActionLoss {
		return -l.Quantity
	}
	return l.Quantity
}

// StockChangeResponse reports the written log and the item's stock after it
type StockChangeResponse struct {
	Log   *StockLog `json:"log"`
	Stock int       `json:"stock"`
}
