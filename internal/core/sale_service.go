package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLineInput is one product line supplied when creating a sale.
type SaleLineInput struct {
	Product   Product
	Quantity  int
	UnitPrice decimal.Decimal
}

// SaleService coordinates each sale use case: load the aggregate through the
// repository, mutate it through its own methods, persist, then publish one
// event per externally observable state change.
//
// Publication happens after the persistence write and is not part of the
// same unit of work. When the broker is down the state change has already
// committed; the returned error marks a delivery gap, not a rollback.
type SaleService interface {
	CreateSale(ctx context.Context, customer Customer, branch Branch, lines []SaleLineInput) (*Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	GetSaleBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error)
	ListSales(ctx context.Context, filter ListSalesFilter) (*SalePage, error)

	// UpdateSale replaces customer, branch and the cancelled flag. A
	// cancelling update publishes SaleCancelledEvent first, then
	// SaleModifiedEvent; the order is part of the contract.
	UpdateSale(ctx context.Context, id uuid.UUID, customer Customer, branch Branch, isCancelled bool) (*Sale, error)

	// CancelSale is idempotent: the first call persists the transition and
	// publishes SaleCancelledEvent once; later calls are no-ops.
	CancelSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	DeleteSale(ctx context.Context, id uuid.UUID) (bool, error)

	AddSaleItem(ctx context.Context, saleID uuid.UUID, product Product, quantity int, unitPrice decimal.Decimal) (*Sale, error)
	CancelSaleItem(ctx context.Context, saleID uuid.UUID, product Product) (*Sale, error)

	// UpdateSaleItem is item-scoped: the item is loaded and stored without
	// its owning sale. A cancelling update publishes SaleItemModifiedEvent
	// first, then SaleItemCancelledEvent.
	UpdateSaleItem(ctx context.Context, itemID uuid.UUID, quantity int, unitPrice decimal.Decimal, isCancelled bool) (*SaleItem, error)
	DeleteSaleItem(ctx context.Context, id uuid.UUID) (bool, error)
}

type saleService struct {
	repo      SaleRepository
	publisher EventPublisher
}

func NewSaleService(repo SaleRepository, publisher EventPublisher) SaleService {
	return &saleService{repo: repo, publisher: publisher}
}

func (s *saleService) CreateSale(ctx context.Context, customer Customer, branch Branch, lines []SaleLineInput) (*Sale, error) {
	sale, err := NewSale(customer, branch)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if _, err := sale.AddItem(line.Product, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	if err := s.publisher.Publish(ctx, NewSaleCreatedEvent(sale)); err != nil {
		return nil, fmt.Errorf("sale %s persisted, but publishing SaleCreatedEvent failed: %w", sale.SaleNumber, err)
	}
	return sale, nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.repo.GetSaleByID(ctx, id)
}

func (s *saleService) GetSaleBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error) {
	return s.repo.GetSaleBySaleNumber(ctx, saleNumber)
}

func (s *saleService) ListSales(ctx context.Context, filter ListSalesFilter) (*SalePage, error) {
	return s.repo.ListSales(ctx, filter)
}

func (s *saleService) UpdateSale(ctx context.Context, id uuid.UUID, customer Customer, branch Branch, isCancelled bool) (*Sale, error) {
	sale, err := s.repo.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sale.UpdateFields(customer, branch, isCancelled); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to update sale %s: %w", sale.SaleNumber, err)
	}

	if isCancelled {
		if err := s.publisher.Publish(ctx, NewSaleCancelledEvent(sale)); err != nil {
			return nil, fmt.Errorf("sale %s persisted, but publishing SaleCancelledEvent failed: %w", sale.SaleNumber, err)
		}
	}
	if err := s.publisher.Publish(ctx, NewSaleModifiedEvent(sale)); err != nil {
		return nil, fmt.Errorf("sale %s persisted, but publishing SaleModifiedEvent failed: %w", sale.SaleNumber, err)
	}
	return sale, nil
}

func (s *saleService) CancelSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	sale, err := s.repo.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !sale.CancelSale() {
		// Already cancelled: terminal state reached, nothing to persist.
		return sale, nil
	}

	if err := s.repo.UpdateSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to cancel sale %s: %w", sale.SaleNumber, err)
	}

	if err := s.publisher.Publish(ctx, NewSaleCancelledEvent(sale)); err != nil {
		return nil, fmt.Errorf("sale %s persisted, but publishing SaleCancelledEvent failed: %w", sale.SaleNumber, err)
	}
	return sale, nil
}

func (s *saleService) DeleteSale(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.DeleteSale(ctx, id)
}

func (s *saleService) AddSaleItem(ctx context.Context, saleID uuid.UUID, product Product, quantity int, unitPrice decimal.Decimal) (*Sale, error) {
	sale, err := s.repo.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if _, err := sale.AddItem(product, quantity, unitPrice); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to store item for sale %s: %w", sale.SaleNumber, err)
	}

	if err := s.publisher.Publish(ctx, NewSaleModifiedEvent(sale)); err != nil {
		return nil, fmt.Errorf("sale %s persisted, but publishing SaleModifiedEvent failed: %w", sale.SaleNumber, err)
	}
	return sale, nil
}

func (s *saleService) CancelSaleItem(ctx context.Context, saleID uuid.UUID, product Product) (*Sale, error) {
	sale, err := s.repo.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	item, err := sale.CancelItem(product)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to cancel item for sale %s: %w", sale.SaleNumber, err)
	}

	if err := s.publisher.Publish(ctx, NewSaleItemCancelledEvent(item)); err != nil {
		return nil, fmt.Errorf("sale %s persisted, but publishing SaleItemCancelledEvent failed: %w", sale.SaleNumber, err)
	}
	if err := s.publisher.Publish(ctx, NewSaleModifiedEvent(sale)); err != nil {
		return nil, fmt.Errorf("sale %s persisted, but publishing SaleModifiedEvent failed: %w", sale.SaleNumber, err)
	}
	return sale, nil
}

func (s *saleService) UpdateSaleItem(ctx context.Context, itemID uuid.UUID, quantity int, unitPrice decimal.Decimal, isCancelled bool) (*SaleItem, error) {
	item, err := s.repo.GetSaleItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.UpdateQuantity(quantity); err != nil {
		return nil, err
	}
	if err := item.UpdateUnitPrice(unitPrice); err != nil {
		return nil, err
	}
	item.Recalculate()
	if isCancelled {
		item.Cancel()
	}

	if err := s.repo.UpdateSaleItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update sale item %s: %w", item.ID, err)
	}

	if err := s.publisher.Publish(ctx, NewSaleItemModifiedEvent(item)); err != nil {
		return nil, fmt.Errorf("sale item %s persisted, but publishing SaleItemModifiedEvent failed: %w", item.ID, err)
	}
	if isCancelled {
		if err := s.publisher.Publish(ctx, NewSaleItemCancelledEvent(item)); err != nil {
			return nil, fmt.Errorf("sale item %s persisted, but publishing SaleItemCancelledEvent failed: %w", item.ID, err)
		}
	}
	return item, nil
}

func (s *saleService) DeleteSaleItem(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.DeleteSaleItem(ctx, id)
}
