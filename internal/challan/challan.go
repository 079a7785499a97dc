// Package challan renders the dispatch challan (delivery note) of an order as PDF.
package challan

import (
	"fmt"
	"io"

	"branchdesk-backend/internal/models"
	"branchdesk-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"
)

// Render writes the challan for order. Only lines with a dispatched quantity are listed.
func Render(w io.Writer, order *models.Order) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Dispatch Challan %d", order.ID), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Dispatch Challan", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.FormatIST(timeutil.Now(), "02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(190, 8, "Order Details", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, fmt.Sprintf("Order No: %d", order.ID), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", timeutil.FormatIST(order.OrderDate, timeutil.DisplayLayout)), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Party: %s", order.PartyName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Contact: %s", order.Contact), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Reference: %s", order.Reference), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", order.Status), "RB", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(15, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(85, 7, "Item", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Ordered", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Dispatched", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Weight", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	totalQty := 0
	totalWeight := decimal.Zero
	n := 0
	for _, it := range order.Items {
		if it.DispatchedQuantity == 0 {
			continue
		}
		n++
		weight := dispatchedWeight(it)
		totalQty += it.DispatchedQuantity
		totalWeight = totalWeight.Add(weight)

		pdf.CellFormat(15, 6, fmt.Sprintf("%d", n), "1", 0, "C", false, 0, "")
		pdf.CellFormat(85, 6, it.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", it.OrderedQuantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", it.DispatchedQuantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, weight.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(130, 7, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, fmt.Sprintf("%d", totalQty), "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, totalWeight.StringFixed(2), "1", 1, "R", true, 0, "")

	pdf.Ln(20)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, "Receiver's Signature", "T", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Authorised Signatory", "T", 1, "R", false, 0, "")

	return pdf.Output(w)
}

// dispatchedWeight prorates the line weight to the dispatched quantity
func dispatchedWeight(it models.OrderItem) decimal.Decimal {
	if it.OrderedQuantity == 0 {
		return decimal.Zero
	}
	return it.TotalWeight.
		Mul(decimal.NewFromInt(int64(it.DispatchedQuantity))).
		Div(decimal.NewFromInt(int64(it.OrderedQuantity)))
}
