package dto

import "github.com/shopspring/decimal"

type PartRequest struct {
	Code     string          `json:"code"     validate:"required,max=40"`
	Name     string          `json:"name"     validate:"required,min=2"`
	Price    decimal.Decimal `json:"price"    validate:"min=0"`
	Quantity int             `json:"quantity" validate:"min=0"`
}

type PartResponse struct {
	ID       uint            `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}
