package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sales-service/internal/core"
)

// ApplicationService is the single interface transport adapters call. It
// performs input-shape checks (required fields, date formats) and delegates
// business rules to the sale service; it contains no display logic.
type ApplicationService interface {
	CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResult, error)
	GetSale(ctx context.Context, id uuid.UUID) (*SaleResult, error)
	GetSaleBySaleNumber(ctx context.Context, saleNumber string) (*SaleResult, error)
	ListSales(ctx context.Context, req ListSalesRequest) (*SaleListResult, error)
	UpdateSale(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*SaleResult, error)
	CancelSale(ctx context.Context, id uuid.UUID) (*SaleResult, error)
	DeleteSale(ctx context.Context, id uuid.UUID) (*DeleteResult, error)

	AddSaleItem(ctx context.Context, saleID uuid.UUID, req AddSaleItemRequest) (*SaleResult, error)
	CancelSaleItem(ctx context.Context, saleID uuid.UUID, product string) (*SaleResult, error)
	UpdateSaleItem(ctx context.Context, itemID uuid.UUID, req UpdateSaleItemRequest) (*SaleItemResult, error)
	DeleteSaleItem(ctx context.Context, itemID uuid.UUID) (*DeleteResult, error)
}

type appService struct {
	sales core.SaleService
}

func NewAppService(sales core.SaleService) ApplicationService {
	return &appService{sales: sales}
}

func (a *appService) CreateSale(ctx context.Context, req CreateSaleRequest) (*SaleResult, error) {
	var violations []string
	if req.Customer == "" {
		violations = append(violations, "customer is required")
	}
	if req.Branch == "" {
		violations = append(violations, "branch is required")
	}
	for i, line := range req.Lines {
		if line.Product == "" {
			violations = append(violations, fmt.Sprintf("item %d: product is required", i+1))
		}
	}
	if len(violations) > 0 {
		return nil, &core.ValidationError{Violations: violations}
	}

	lines := make([]core.SaleLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, core.SaleLineInput{
			Product:   core.Product(line.Product),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	sale, err := a.sales.CreateSale(ctx, core.Customer(req.Customer), core.Branch(req.Branch), lines)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (a *appService) GetSale(ctx context.Context, id uuid.UUID) (*SaleResult, error) {
	sale, err := a.sales.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (a *appService) GetSaleBySaleNumber(ctx context.Context, saleNumber string) (*SaleResult, error) {
	if saleNumber == "" {
		return nil, &core.ValidationError{Violations: []string{"sale number is required"}}
	}
	sale, err := a.sales.GetSaleBySaleNumber(ctx, saleNumber)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (a *appService) ListSales(ctx context.Context, req ListSalesRequest) (*SaleListResult, error) {
	filter := core.ListSalesFilter{
		IsCancelled: req.IsCancelled,
		Page:        req.Page,
		PageSize:    req.PageSize,
		SortBy:      req.SortBy,
		Descending:  req.Descending,
	}
	if req.SaleNumber != "" {
		filter.SaleNumber = &req.SaleNumber
	}
	if req.Branch != "" {
		branch := core.Branch(req.Branch)
		filter.Branch = &branch
	}
	if req.Customer != "" {
		customer := core.Customer(req.Customer)
		filter.Customer = &customer
	}

	var violations []string
	if req.DateFrom != "" {
		from, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			violations = append(violations, fmt.Sprintf("invalid date_from %q, want YYYY-MM-DD", req.DateFrom))
		} else {
			filter.DateFrom = &from
		}
	}
	if req.DateTo != "" {
		to, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			violations = append(violations, fmt.Sprintf("invalid date_to %q, want YYYY-MM-DD", req.DateTo))
		} else {
			// Inclusive upper bound: the whole given day.
			to = to.Add(24*time.Hour - time.Nanosecond)
			filter.DateTo = &to
		}
	}
	if len(violations) > 0 {
		return nil, &core.ValidationError{Violations: violations}
	}

	page, err := a.sales.ListSales(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{
		Sales:      page.Sales,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
	}, nil
}

func (a *appService) UpdateSale(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*SaleResult, error) {
	var violations []string
	if req.Customer == "" {
		violations = append(violations, "customer is required")
	}
	if req.Branch == "" {
		violations = append(violations, "branch is required")
	}
	if len(violations) > 0 {
		return nil, &core.ValidationError{Violations: violations}
	}

	sale, err := a.sales.UpdateSale(ctx, id, core.Customer(req.Customer), core.Branch(req.Branch), req.IsCancelled)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (a *appService) CancelSale(ctx context.Context, id uuid.UUID) (*SaleResult, error) {
	sale, err := a.sales.CancelSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (a *appService) DeleteSale(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	deleted, err := a.sales.DeleteSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Deleted: deleted}, nil
}

func (a *appService) AddSaleItem(ctx context.Context, saleID uuid.UUID, req AddSaleItemRequest) (*SaleResult, error) {
	if req.Product == "" {
		return nil, &core.ValidationError{Violations: []string{"product is required"}}
	}

	sale, err := a.sales.AddSaleItem(ctx, saleID, core.Product(req.Product), req.Quantity, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (a *appService) CancelSaleItem(ctx context.Context, saleID uuid.UUID, product string) (*SaleResult, error) {
	if product == "" {
		return nil, &core.ValidationError{Violations: []string{"product is required"}}
	}

	sale, err := a.sales.CancelSaleItem(ctx, saleID, core.Product(product))
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (a *appService) UpdateSaleItem(ctx context.Context, itemID uuid.UUID, req UpdateSaleItemRequest) (*SaleItemResult, error) {
	item, err := a.sales.UpdateSaleItem(ctx, itemID, req.Quantity, req.UnitPrice, req.IsCancelled)
	if err != nil {
		return nil, err
	}
	return &SaleItemResult{Item: item}, nil
}

func (a *appService) DeleteSaleItem(ctx context.Context, itemID uuid.UUID) (*DeleteResult, error) {
	deleted, err := a.sales.DeleteSaleItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Deleted: deleted}, nil
}
