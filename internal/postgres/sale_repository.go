package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sales-service/internal/core"
)

// saleColumns and itemColumns are the scan order used by every query below.
const (
	saleColumns = "id, sale_number, sale_date, customer, branch, total_amount, is_cancelled, version"
	itemColumns = "id, sale_id, product, quantity, unit_price, discount_percentage, discount_amount, total, is_cancelled, version"
)

// sortColumns is the allow-list for ListSales sorting. Anything else falls
// back to the natural order (sale_date descending).
var sortColumns = map[string]string{
	"sale_number":  "sale_number",
	"date":         "sale_date",
	"customer":     "customer",
	"branch":       "branch",
	"total_amount": "total_amount",
}

// SaleRepository implements core.SaleRepository on PostgreSQL.
type SaleRepository struct {
	pool *pgxpool.Pool
}

func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

func (r *SaleRepository) CreateSale(ctx context.Context, sale *core.Sale) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO sales (id, sale_number, sale_date, customer, branch, total_amount, is_cancelled, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sale.ID, sale.SaleNumber, sale.Date, sale.Customer, sale.Branch, sale.TotalAmount, sale.IsCancelled, sale.Version)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	for pos, item := range sale.Items {
		if err := insertItem(ctx, tx, item, pos); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sale creation: %w", err)
	}
	return nil
}

func (r *SaleRepository) GetSaleByID(ctx context.Context, id uuid.UUID) (*core.Sale, error) {
	var s core.Sale
	err := r.pool.QueryRow(ctx,
		"SELECT "+saleColumns+" FROM sales WHERE id = $1", id,
	).Scan(&s.ID, &s.SaleNumber, &s.Date, &s.Customer, &s.Branch, &s.TotalAmount, &s.IsCancelled, &s.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Kind: "sale", Ref: id.String()}
		}
		return nil, fmt.Errorf("failed to fetch sale %s: %w", id, err)
	}

	items, err := r.fetchItems(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *SaleRepository) GetSaleBySaleNumber(ctx context.Context, saleNumber string) (*core.Sale, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		"SELECT id FROM sales WHERE sale_number = $1", saleNumber,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Kind: "sale", Ref: saleNumber}
		}
		return nil, fmt.Errorf("failed to lookup sale by number %s: %w", saleNumber, err)
	}
	return r.GetSaleByID(ctx, id)
}

func (r *SaleRepository) ListSales(ctx context.Context, filter core.ListSalesFilter) (*core.SalePage, error) {
	where := " WHERE 1=1"
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}

	if filter.SaleNumber != nil {
		add(" AND sale_number = $%d", *filter.SaleNumber)
	}
	if filter.IsCancelled != nil {
		add(" AND is_cancelled = $%d", *filter.IsCancelled)
	}
	if filter.Branch != nil {
		add(" AND branch = $%d", *filter.Branch)
	}
	if filter.Customer != nil {
		add(" AND customer = $%d", *filter.Customer)
	}
	if filter.DateFrom != nil {
		add(" AND sale_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add(" AND sale_date <= $%d", *filter.DateTo)
	}

	var totalCount int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM sales"+where, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	orderBy := " ORDER BY sale_date DESC"
	if col, ok := sortColumns[filter.SortBy]; ok {
		dir := "ASC"
		if filter.Descending {
			dir = "DESC"
		}
		orderBy = fmt.Sprintf(" ORDER BY %s %s", col, dir)
	}

	query := "SELECT " + saleColumns + " FROM sales" + where + orderBy
	// Page 0 or page size 0 means "all matching rows"; otherwise 1-based skip/take.
	if filter.Page > 0 && filter.PageSize > 0 {
		args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []*core.Sale
	var ids []uuid.UUID
	for rows.Next() {
		var s core.Sale
		if err := rows.Scan(&s.ID, &s.SaleNumber, &s.Date, &s.Customer, &s.Branch, &s.TotalAmount, &s.IsCancelled, &s.Version); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, &s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sales: %w", err)
	}

	if err := r.attachItems(ctx, sales, ids); err != nil {
		return nil, err
	}

	return &core.SalePage{
		Sales:      sales,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: totalCount,
	}, nil
}

func (r *SaleRepository) UpdateSale(ctx context.Context, sale *core.Sale) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The write is conditioned on the version read at load time; a stale
	// snapshot loses with a conflict instead of silently overwriting.
	tag, err := tx.Exec(ctx, `
		UPDATE sales
		SET customer = $1, branch = $2, total_amount = $3, is_cancelled = $4, version = version + 1
		WHERE id = $5 AND version = $6
	`, sale.Customer, sale.Branch, sale.TotalAmount, sale.IsCancelled, sale.ID, sale.Version)
	if err != nil {
		return fmt.Errorf("failed to update sale %s: %w", sale.ID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM sales WHERE id = $1)", sale.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check sale %s: %w", sale.ID, err)
		}
		if !exists {
			return &core.NotFoundError{Kind: "sale", Ref: sale.ID.String()}
		}
		return &core.ConflictError{Kind: "sale", Ref: sale.ID.String()}
	}

	for pos, item := range sale.Items {
		if err := upsertItem(ctx, tx, item, pos); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sale update: %w", err)
	}
	sale.Version++
	return nil
}

func (r *SaleRepository) DeleteSale(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM sales WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete sale %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SaleRepository) GetSaleItemByID(ctx context.Context, id uuid.UUID) (*core.SaleItem, error) {
	var it core.SaleItem
	err := r.pool.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM sale_items WHERE id = $1", id,
	).Scan(&it.ID, &it.SaleID, &it.Product, &it.Quantity, &it.UnitPrice,
		&it.DiscountPercentage, &it.DiscountAmount, &it.Total, &it.IsCancelled, &it.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Kind: "sale item", Ref: id.String()}
		}
		return nil, fmt.Errorf("failed to fetch sale item %s: %w", id, err)
	}
	return &it, nil
}

func (r *SaleRepository) UpdateSaleItem(ctx context.Context, item *core.SaleItem) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sale_items
		SET quantity = $1, unit_price = $2, discount_percentage = $3, discount_amount = $4,
		    total = $5, is_cancelled = $6, version = version + 1
		WHERE id = $7 AND version = $8
	`, item.Quantity, item.UnitPrice, item.DiscountPercentage, item.DiscountAmount,
		item.Total, item.IsCancelled, item.ID, item.Version)
	if err != nil {
		return fmt.Errorf("failed to update sale item %s: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM sale_items WHERE id = $1)", item.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check sale item %s: %w", item.ID, err)
		}
		if !exists {
			return &core.NotFoundError{Kind: "sale item", Ref: item.ID.String()}
		}
		return &core.ConflictError{Kind: "sale item", Ref: item.ID.String()}
	}
	item.Version++
	return nil
}

func (r *SaleRepository) DeleteSaleItem(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM sale_items WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete sale item %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SaleRepository) fetchItems(ctx context.Context, saleID uuid.UUID) ([]*core.SaleItem, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+itemColumns+" FROM sale_items WHERE sale_id = $1 ORDER BY position", saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// attachItems loads the items of every listed sale in one query.
func (r *SaleRepository) attachItems(ctx context.Context, sales []*core.Sale, ids []uuid.UUID) error {
	if len(sales) == 0 {
		return nil
	}

	rows, err := r.pool.Query(ctx,
		"SELECT "+itemColumns+" FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, position", ids)
	if err != nil {
		return fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return err
	}

	bySale := make(map[uuid.UUID][]*core.SaleItem, len(sales))
	for _, item := range items {
		bySale[item.SaleID] = append(bySale[item.SaleID], item)
	}
	for _, s := range sales {
		s.Items = bySale[s.ID]
	}
	return nil
}

func scanItems(rows pgx.Rows) ([]*core.SaleItem, error) {
	var items []*core.SaleItem
	for rows.Next() {
		var it core.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.Product, &it.Quantity, &it.UnitPrice,
			&it.DiscountPercentage, &it.DiscountAmount, &it.Total, &it.IsCancelled, &it.Version); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sale items: %w", err)
	}
	return items, nil
}

func insertItem(ctx context.Context, tx pgx.Tx, item *core.SaleItem, pos int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO sale_items (id, sale_id, product, quantity, unit_price, discount_percentage, discount_amount, total, is_cancelled, position, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, item.ID, item.SaleID, item.Product, item.Quantity, item.UnitPrice,
		item.DiscountPercentage, item.DiscountAmount, item.Total, item.IsCancelled, pos, item.Version)
	if err != nil {
		return fmt.Errorf("failed to insert sale item %s: %w", item.ID, err)
	}
	return nil
}

// upsertItem writes one aggregate-owned item during a sale update. Items are
// guarded by the sale's version check in UpdateSale, so the per-item version
// is bumped unconditionally here.
func upsertItem(ctx context.Context, tx pgx.Tx, item *core.SaleItem, pos int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO sale_items (id, sale_id, product, quantity, unit_price, discount_percentage, discount_amount, total, is_cancelled, position, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE
		SET quantity = EXCLUDED.quantity, unit_price = EXCLUDED.unit_price,
		    discount_percentage = EXCLUDED.discount_percentage, discount_amount = EXCLUDED.discount_amount,
		    total = EXCLUDED.total, is_cancelled = EXCLUDED.is_cancelled,
		    position = EXCLUDED.position, version = sale_items.version + 1
	`, item.ID, item.SaleID, item.Product, item.Quantity, item.UnitPrice,
		item.DiscountPercentage, item.DiscountAmount, item.Total, item.IsCancelled, pos, item.Version)
	if err != nil {
		return fmt.Errorf("failed to upsert sale item %s: %w", item.ID, err)
	}
	return nil
}
