package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListSalesFilter narrows and pages a sales listing. Page=0 or PageSize=0
// means "return all matching rows unpaginated"; otherwise pages are 1-based.
// SortBy names a sale field (sale_number, date, total_amount, customer,
// branch); empty means the repository's natural order.
type ListSalesFilter struct {
	SaleNumber  *string
	IsCancelled *bool
	Branch      *Branch
	Customer    *Customer
	DateFrom    *time.Time
	DateTo      *time.Time
	Page        int
	PageSize    int
	SortBy      string
	Descending  bool
}

// SalePage is one page of a sales listing.
type SalePage struct {
	Sales      []*Sale
	Page       int
	PageSize   int
	TotalCount int
}

// SaleRepository is the persistence port for the Sale aggregate and, for the
// item-scoped use cases, individual SaleItems.
//
// UpdateSale and UpdateSaleItem are conditioned on the Version loaded with
// the entity and return a *ConflictError when another writer got there
// first; on success they increment the in-memory Version to match the store.
type SaleRepository interface {
	CreateSale(ctx context.Context, sale *Sale) error
	GetSaleByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	GetSaleBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error)
	ListSales(ctx context.Context, filter ListSalesFilter) (*SalePage, error)
	UpdateSale(ctx context.Context, sale *Sale) error
	DeleteSale(ctx context.Context, id uuid.UUID) (bool, error)

	GetSaleItemByID(ctx context.Context, id uuid.UUID) (*SaleItem, error)
	UpdateSaleItem(ctx context.Context, item *SaleItem) error
	DeleteSaleItem(ctx context.Context, id uuid.UUID) (bool, error)
}
