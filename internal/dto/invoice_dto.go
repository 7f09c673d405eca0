package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Emission paths reported back to the caller.
const (
	PathQueued        = "queued"
	PathLocalFallback = "local_fallback"
)

type InvoiceResponse struct {
	ID             uint            `json:"id"`
	ServiceOrderID uint            `json:"service_order_id"`
	ClientName     string          `json:"client_name"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	AccessKey      string          `json:"access_key"`
	IssuedAt       time.Time       `json:"issued_at"`
	PDFPath        *string         `json:"pdf_path"`
}

type EmissionResponse struct {
	OrderID uint             `json:"order_id"`
	Status  string           `json:"status"` // processing | authorized
	Path    string           `json:"path"`
	Invoice *InvoiceResponse `json:"invoice,omitempty"`
}

type PendingOrderResponse struct {
	OrderID    uint            `json:"order_id"`
	Number     string          `json:"number"`
	ClientName string          `json:"client_name"`
	Total      decimal.Decimal `json:"total"`
	InFlight   bool            `json:"in_flight"`
}
