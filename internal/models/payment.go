package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	PaymentStatusPending    = "PENDING"
	PaymentStatusPartial    = "PARTIAL"
	PaymentStatusPaid       = "PAID"
	PaymentStatusNoResponse = "NO_RESPONSE"
	PaymentStatusCloseParty = "CLOSE_PARTY"
)

// ValidPaymentStatus reports whether s is one of the known statuses
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid,
		PaymentStatusNoResponse, PaymentStatusCloseParty:
		return true
	}
	return false
}

// Payment is a collection follow-up for one party in a month bucket.
// MergedIntoID is set when the record has been absorbed into another payment.
type Payment struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	PartyName    string    `json:"party_name"`
	Contact      string    `json:"contact"`
	Status       string    `json:"status"`
	Month        string    `json:"month"`
	Year         int       `json:"year"`
	MergedIntoID *int      `json:"merged_into_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Payment) IsMerged() bool {
	return p.MergedIntoID != nil
}

type PaymentTracking struct {
	ID           int       `json:"id"`
	PaymentID    int       `json:"payment_id"`
	TrackingDate time.Time `json:"tracking_date"`
	Remark       string    `json:"remark"`
	CreatedAt    time.Time `json:"created_at"`
}

// PaymentDetail is a payment with its tracking history and the root of its merge chain
type PaymentDetail struct {
	Payment
	CanonicalID int               `json:"canonical_id"`
	Tracking    []PaymentTracking `json:"tracking"`
}

type CreatePaymentRequest struct {
	PartyName string `json:"party_name" validate:"required,max=150"`
	Contact   string `json:"contact" validate:"max=30"`
	Status    string `json:"status" validate:"omitempty,oneof=PENDING PARTIAL PAID NO_RESPONSE CLOSE_PARTY"`
	Month     string `json:"month" validate:"required"`
	Year      int    `json:"year" validate:"required,gte=2000,lte=2100"`
}

type UpdatePaymentRequest struct {
	Contact string `json:"contact" validate:"max=30"`
	Status  string `json:"status" validate:"required,oneof=PENDING PARTIAL PAID NO_RESPONSE CLOSE_PARTY"`
}

type TrackingRequest struct {
	TrackingDate string `json:"tracking_date" validate:"omitempty,datetime=2006-01-02"`
	Remark       string `json:"remark" validate:"required,max=1000"`
}

// FlexibleID decodes from a JSON number or a numeric string
type FlexibleID int

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid id %s", string(data))
	}
	*f = FlexibleID(n)
	return nil
}

type MergeRequest struct {
	TargetID  FlexibleID   `json:"target_id"`
	SourceIDs []FlexibleID `json:"source_ids"`
}

// ImportRow is one party parsed from an uploaded workbook
type ImportRow struct {
	PartyName string
	Contact   string
}

type ImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}
