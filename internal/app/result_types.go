package app

import "sales-service/internal/core"

// SaleResult is returned by single-sale operations.
type SaleResult struct {
	Sale *core.Sale
}

// SaleListResult is one page of a sales listing.
type SaleListResult struct {
	Sales      []*core.Sale
	Page       int
	PageSize   int
	TotalCount int
}

// SaleItemResult is returned by item-scoped operations.
type SaleItemResult struct {
	Item *core.SaleItem
}

// DeleteResult reports whether the target existed.
type DeleteResult struct {
	Deleted bool
}
