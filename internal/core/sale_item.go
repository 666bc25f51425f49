package core

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// SaleItem is one product line within a Sale. It is owned by its Sale and is
// only created through Sale.AddItem; the item-scoped update use case may load
// it independently by ID, but derived fields are always recomputed through
// Recalculate, never set by callers.
type SaleItem struct {
	ID                 uuid.UUID       `json:"id"`
	SaleID             uuid.UUID       `json:"sale_id"`
	Product            Product         `json:"product"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	Total              decimal.Decimal `json:"total"`
	IsCancelled        bool            `json:"is_cancelled"`
	Version            int64           `json:"version"`
}

// newSaleItem validates quantity bounds and price sign, then derives the
// discount and total. Invalid state is never observable: construction fails
// before the item exists.
func newSaleItem(saleID uuid.UUID, product Product, quantity int, unitPrice decimal.Decimal) (*SaleItem, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, invalidOperation("unit price must not be negative")
	}

	item := &SaleItem{
		ID:        uuid.New(),
		SaleID:    saleID,
		Product:   product,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Version:   1,
	}
	item.Recalculate()
	return item, nil
}

// UpdateQuantity changes the quantity within [1, 20]. The owner is
// responsible for recomputing derived fields afterwards.
func (i *SaleItem) UpdateQuantity(newQuantity int) error {
	if i.IsCancelled {
		return invalidOperation("cannot update a cancelled sale item")
	}
	if err := checkQuantity(newQuantity); err != nil {
		return err
	}
	i.Quantity = newQuantity
	return nil
}

// UpdateUnitPrice changes the unit price. The owner recomputes derived fields.
func (i *SaleItem) UpdateUnitPrice(unitPrice decimal.Decimal) error {
	if i.IsCancelled {
		return invalidOperation("cannot update a cancelled sale item")
	}
	if unitPrice.IsNegative() {
		return invalidOperation("unit price must not be negative")
	}
	i.UnitPrice = unitPrice
	return nil
}

// Cancel marks the item as cancelled. The transition is one-way; cancelling
// an already-cancelled item is a no-op, not an error.
func (i *SaleItem) Cancel() {
	i.IsCancelled = true
}

// Recalculate derives DiscountPercentage, DiscountAmount and Total from the
// current quantity and unit price.
func (i *SaleItem) Recalculate() {
	rate := DiscountRate(i.Quantity)
	qty := decimal.NewFromInt(int64(i.Quantity))
	i.DiscountPercentage = rate.Mul(oneHundred)
	i.DiscountAmount = i.UnitPrice.Mul(qty).Mul(rate)
	i.Total = i.UnitPrice.Mul(qty).Sub(i.DiscountAmount)
}

// PayableTotal is the item's contribution to the sale total. Cancelled items
// contribute zero regardless of their recorded Total.
func (i *SaleItem) PayableTotal() decimal.Decimal {
	if i.IsCancelled {
		return decimal.Zero
	}
	return i.Total
}

func checkQuantity(quantity int) error {
	if quantity < MinUnitsPerProduct {
		return invalidOperation("quantity must be at least %d", MinUnitsPerProduct)
	}
	if quantity > MaxUnitsPerProduct {
		return invalidOperation("cannot sell more than %d units of the same product", MaxUnitsPerProduct)
	}
	return nil
}
