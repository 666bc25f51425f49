package app

import "github.com/shopspring/decimal"

// CreateSaleRequest is the input for registering a new sale.
type CreateSaleRequest struct {
	Customer string          `json:"customer"`
	Branch   string          `json:"branch"`
	Lines    []SaleLineInput `json:"items"`
}

// SaleLineInput is a single product line within a CreateSaleRequest.
type SaleLineInput struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdateSaleRequest replaces a sale's updatable fields. Setting IsCancelled
// cancels the sale through the update path.
type UpdateSaleRequest struct {
	Customer    string `json:"customer"`
	Branch      string `json:"branch"`
	IsCancelled bool   `json:"is_cancelled"`
}

// AddSaleItemRequest adds units of a product to an existing sale.
type AddSaleItemRequest struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdateSaleItemRequest rewrites one sale item's quantity and price.
type UpdateSaleItemRequest struct {
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	IsCancelled bool            `json:"is_cancelled"`
}

// ListSalesRequest filters and pages the sales listing. Zero Page or
// PageSize returns all matching sales.
type ListSalesRequest struct {
	SaleNumber  string
	IsCancelled *bool
	Branch      string
	Customer    string
	DateFrom    string // YYYY-MM-DD, optional
	DateTo      string // YYYY-MM-DD, optional
	Page        int
	PageSize    int
	SortBy      string
	Descending  bool
}
