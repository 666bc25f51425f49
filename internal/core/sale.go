package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the aggregate root for a retail sales transaction. All
// consistency-bearing mutations of its items flow through it, and
// TotalAmount is recomputed after every structural change.
//
// Cancellation is terminal: a cancelled sale rejects item additions and
// field updates. Cancelling the sale does not cascade to its items; each
// item keeps its own cancelled/active state.
type Sale struct {
	ID          uuid.UUID       `json:"id"`
	SaleNumber  string          `json:"sale_number"`
	Date        time.Time       `json:"date"`
	Customer    Customer        `json:"customer"`
	Branch      Branch          `json:"branch"`
	Items       []*SaleItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	IsCancelled bool            `json:"is_cancelled"`
	Version     int64           `json:"version"`
}

// NewSale creates an active sale with a generated ID and sale number.
// Customer and branch must be members of their closed sets; all violations
// are reported together.
func NewSale(customer Customer, branch Branch) (*Sale, error) {
	var violations []string
	if !customer.Valid() {
		violations = append(violations, fmt.Sprintf("unknown customer %q", customer))
	}
	if !branch.Valid() {
		violations = append(violations, fmt.Sprintf("unknown branch %q", branch))
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	now := time.Now().UTC()
	return &Sale{
		ID:          uuid.New(),
		SaleNumber:  newSaleNumber(now),
		Date:        now,
		Customer:    customer,
		Branch:      branch,
		TotalAmount: decimal.Zero,
		Version:     1,
	}, nil
}

// newSaleNumber builds a date-prefixed number with a random suffix, e.g.
// SALE-20260901-1A2B3C4D. The suffix is collision-resistant enough for a
// unique-constrained column.
func newSaleNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("SALE-%s-%s", now.Format("20060102"), suffix)
}

// AddItem adds quantity units of product at unitPrice. If an active line for
// the same product already exists the quantities are merged; the 20-unit cap
// applies to the merged total, and a failed merge leaves the existing line
// untouched. Returns the created or merged item.
func (s *Sale) AddItem(product Product, quantity int, unitPrice decimal.Decimal) (*SaleItem, error) {
	if s.IsCancelled {
		return nil, invalidOperation("cannot modify a cancelled sale")
	}
	if !product.Valid() {
		return nil, &ValidationError{Violations: []string{fmt.Sprintf("unknown product %q", product)}}
	}
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	if existing := s.findActiveItem(product); existing != nil {
		merged := existing.Quantity + quantity
		if err := checkQuantity(merged); err != nil {
			return nil, err
		}
		if err := existing.UpdateQuantity(merged); err != nil {
			return nil, err
		}
		existing.Recalculate()
		s.RecalculateTotal()
		return existing, nil
	}

	item, err := newSaleItem(s.ID, product, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	s.Items = append(s.Items, item)
	s.RecalculateTotal()
	return item, nil
}

// CancelItem cancels the line for the given product and recomputes the total.
func (s *Sale) CancelItem(product Product) (*SaleItem, error) {
	item := s.findItem(product)
	if item == nil {
		return nil, &NotFoundError{Kind: "sale item", Ref: string(product)}
	}
	item.Cancel()
	s.RecalculateTotal()
	return item, nil
}

// CancelSale transitions the sale to its terminal cancelled state. It
/// reports whether the transition happened: a second call is a no-op and
// returns false, so callers can publish the cancellation event exactly once.
// Items are not cascaded.
func (s *Sale) CancelSale() bool {
	if s.IsCancelled {
		return false
	}
	s.IsCancelled = true
	return true
}

// UpdateFields replaces customer, branch and the cancelled flag as given.
// A sale that is already cancelled rejects the update before any field is
// touched. Setting isCancelled=true here is the update use case's way of
// cancelling a sale.
func (s *Sale) UpdateFields(customer Customer, branch Branch, isCancelled bool) error {
	if s.IsCancelled {
		return invalidOperation("cannot update a cancelled sale")
	}

	var violations []string
	if !customer.Valid() {
		violations = append(violations, fmt.Sprintf("unknown customer %q", customer))
	}
	if !branch.Valid() {
		violations = append(violations, fmt.Sprintf("unknown branch %q", branch))
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	s.Customer = customer
	s.Branch = branch
	s.IsCancelled = isCancelled
	return nil
}

// RecalculateTotal sets TotalAmount to the sum of all items' payable totals.
func (s *Sale) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.PayableTotal())
	}
	s.TotalAmount = total
}

func (s *Sale) findActiveItem(product Product) *SaleItem {
	for _, item := range s.Items {
		if item.Product == product && !item.IsCancelled {
			return item
		}
	}
	return nil
}

func (s *Sale) findItem(product Product) *SaleItem {
	for _, item := range s.Items {
		if item.Product == product {
			return item
		}
	}
	return nil
}
