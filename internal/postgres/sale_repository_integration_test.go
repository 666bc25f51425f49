package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"sales-service/internal/core"
	"sales-service/internal/postgres"
)

func setupSaleTestDB(t *testing.T) (*pgxpool.Pool, *postgres.SaleRepository, context.Context) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	schema, err := os.ReadFile("../../migrations/001_sales.sql")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE TABLE sale_items, sales CASCADE`); err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool, postgres.NewSaleRepository(pool), ctx
}

func mustNewSale(t *testing.T, customer core.Customer, branch core.Branch) *core.Sale {
	t.Helper()
	sale, err := core.NewSale(customer, branch)
	if err != nil {
		t.Fatalf("NewSale failed: %v", err)
	}
	return sale
}

func mustAddItem(t *testing.T, sale *core.Sale, product core.Product, quantity int, unitPrice string) {
	t.Helper()
	if _, err := sale.AddItem(product, quantity, decimal.RequireFromString(unitPrice)); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
}

func TestSaleRepository_CreateAndGetRoundTrip(t *testing.T) {
	pool, repo, ctx := setupSaleTestDB(t)
	defer pool.Close()

	sale := mustNewSale(t, core.CustomerRetail, core.BranchDowntown)
	mustAddItem(t, sale, core.ProductLagerCase, 5, "100")
	mustAddItem(t, sale, core.ProductStoutCase, 10, "40")

	if err := repo.CreateSale(ctx, sale); err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	loaded, err := repo.GetSaleByID(ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetSaleByID failed: %v", err)
	}
	if loaded.SaleNumber != sale.SaleNumber {
		t.Errorf("sale number = %q, want %q", loaded.SaleNumber, sale.SaleNumber)
	}
	if loaded.Customer != core.CustomerRetail || loaded.Branch != core.BranchDowntown {
		t.Errorf("customer/branch = %s/%s, want Retail/Downtown", loaded.Customer, loaded.Branch)
	}
	// 5x100 with 10% off = 450; 10x40 with 20% off = 320.
	if !loaded.TotalAmount.Equal(decimal.RequireFromString("770")) {
		t.Errorf("total = %s, want 770", loaded.TotalAmount)
	}
	if loaded.Version != 1 {
		t.Errorf("fresh sale version = %d, want 1", loaded.Version)
	}

	// Items come back in insertion order with computed fields intact.
	if len(loaded.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(loaded.Items))
	}
	if loaded.Items[0].Product != core.ProductLagerCase || loaded.Items[1].Product != core.ProductStoutCase {
		t.Errorf("item order = %s, %s", loaded.Items[0].Product, loaded.Items[1].Product)
	}
	if !loaded.Items[0].DiscountAmount.Equal(decimal.RequireFromString("50")) {
		t.Errorf("item discount = %s, want 50", loaded.Items[0].DiscountAmount)
	}

	bySaleNumber, err := repo.GetSaleBySaleNumber(ctx, sale.SaleNumber)
	if err != nil {
		t.Fatalf("GetSaleBySaleNumber failed: %v", err)
	}
	if bySaleNumber.ID != sale.ID {
		t.Errorf("lookup by sale number returned %s, want %s", bySaleNumber.ID, sale.ID)
	}
}

func TestSaleRepository_GetMissingReturnsNotFound(t *testing.T) {
	pool, repo, ctx := setupSaleTestDB(t)
	defer pool.Close()

	missing := mustNewSale(t, core.CustomerRetail, core.BranchDowntown)

	_, err := repo.GetSaleByID(ctx, missing.ID)
	var notFound *core.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	_, err = repo.GetSaleBySaleNumber(ctx, "SALE-19700101-DEADBEEF")
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for unknown sale number, got %v", err)
	}
}

func TestSaleRepository_UpdatePersistsItemChanges(t *testing.T) {
	pool, repo, ctx := setupSaleTestDB(t)
	defer pool.Close()

	sale := mustNewSale(t, core.CustomerRetail, core.BranchDowntown)
	mustAddItem(t, sale, core.ProductLagerCase, 5, "100")
	if err := repo.CreateSale(ctx, sale); err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	loaded, err := repo.GetSaleByID(ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetSaleByID failed: %v", err)
	}
	mustAddItem(t, loaded, core.ProductWaterCase, 2, "15")
	if _, err := loaded.CancelItem(core.ProductLagerCase); err != nil {
		t.Fatalf("CancelItem failed: %v", err)
	}

	if err := repo.UpdateSale(ctx, loaded); err != nil {
		t.Fatalf("UpdateSale failed: %v", err)
	}
	if loaded.Version != 2 {
		t.Errorf("version after update = %d, want 2", loaded.Version)
	}

	reloaded, err := repo.GetSaleByID(ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetSaleByID failed: %v", err)
	}
	if !reloaded.TotalAmount.Equal(decimal.RequireFromString("30")) {
		t.Errorf("total = %s, want 30 (cancelled item contributes nothing)", reloaded.TotalAmount)
	}
	if len(reloaded.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(reloaded.Items))
	}
	if !reloaded.Items[0].IsCancelled {
		t.Error("first item should be cancelled")
	}
}

func TestSaleRepository_StaleVersionConflicts(t *testing.T) {
	pool, repo, ctx := setupSaleTestDB(t)
	defer pool.Close()

	sale := mustNewSale(t, core.CustomerRetail, core.BranchDowntown)
	if err := repo.CreateSale(ctx, sale); err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	first, err := repo.GetSaleByID(ctx, sale.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	second, err := repo.GetSaleByID(ctx, sale.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	mustAddItem(t, first, core.ProductLagerCase, 1, "10")
	if err := repo.UpdateSale(ctx, first); err != nil {
		t.Fatalf("first write should win: %v", err)
	}

	mustAddItem(t, second, core.ProductStoutCase, 1, "10")
	err = repo.UpdateSale(ctx, second)
	var conflict *core.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError for stale snapshot, got %v", err)
	}
}

func TestSaleRepository_UpdateMissingSaleReturnsNotFound(t *testing.T) {
	pool, repo, ctx := setupSaleTestDB(t)
	defer pool.Close()

	ghost := mustNewSale(t, core.CustomerRetail, core.BranchDowntown)
	err := repo.UpdateSale(ctx, ghost)
	var notFound *core.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestSaleRepository_ListFiltersAndPagination(t *testing.T) {
	pool, repo, ctx := setupSaleTestDB(t)
	defer pool.Close()

	branches := []core.Branch{core.BranchDowntown, core.BranchDowntown, core.BranchHarbor, core.BranchAirport, core.BranchNorthSide}
	for _, branch := range branches {
		sale := mustNewSale(t, core.CustomerRetail, branch)
		if err := repo.CreateSale(ctx, sale); err != nil {
			t.Fatalf("CreateSale failed: %v", err)
		}
	}

	// Zero page / page size means no pagination: all rows.
	page, err := repo.ListSales(ctx, core.ListSalesFilter{})
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if page.TotalCount != 5 || len(page.Sales) != 5 {
		t.Errorf("unpaginated list: total=%d rows=%d, want 5/5", page.TotalCount, len(page.Sales))
	}

	downtown := core.BranchDowntown
	page, err = repo.ListSales(ctx, core.ListSalesFilter{Branch: &downtown})
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if page.TotalCount != 2 {
		t.Errorf("branch filter: total=%d, want 2", page.TotalCount)
	}

	page, err = repo.ListSales(ctx, core.ListSalesFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if page.TotalCount != 5 {
		t.Errorf("paginated total=%d, want 5", page.TotalCount)
	}
	if len(page.Sales) != 2 {
		t.Errorf("page 2 of size 2 returned %d rows, want 2", len(page.Sales))
	}

	notCancelled := false
	page, err = repo.ListSales(ctx, core.ListSalesFilter{IsCancelled: &notCancelled, SortBy: "sale_number"})
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if page.TotalCount != 5 {
		t.Errorf("is_cancelled=false total=%d, want 5", page.TotalCount)
	}
	for i := 1; i < len(page.Sales); i++ {
		if page.Sales[i-1].SaleNumber > page.Sales[i].SaleNumber {
			t.Errorf("sales not sorted by sale_number ascending")
			break
		}
	}
}

func TestSaleRepository_DeleteSale(t *testing.T) {
	pool, repo, ctx := setupSaleTestDB(t)
	defer pool.Close()

	sale := mustNewSale(t, core.CustomerRetail, core.BranchDowntown)
	mustAddItem(t, sale, core.ProductLagerCase, 1, "10")
	if err := repo.CreateSale(ctx, sale); err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	deleted, err := repo.DeleteSale(ctx, sale.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteSale = (%v, %v), want (true, nil)", deleted, err)
	}

	// Items go with the sale.
	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM sale_items WHERE sale_id = $1`, sale.ID).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("%d orphaned items after delete, want 0", count)
	}

	deleted, err = repo.DeleteSale(ctx, sale.ID)
	if err != nil || deleted {
		t.Fatalf("repeat DeleteSale = (%v, %v), want (false, nil)", deleted, err)
	}
}

func TestSaleRepository_SaleItemLifecycle(t *testing.T) {
	pool, repo, ctx := setupSaleTestDB(t)
	defer pool.Close()

	sale := mustNewSale(t, core.CustomerRetail, core.BranchDowntown)
	mustAddItem(t, sale, core.ProductLagerCase, 5, "100")
	if err := repo.CreateSale(ctx, sale); err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}
	itemID := sale.Items[0].ID

	item, err := repo.GetSaleItemByID(ctx, itemID)
	if err != nil {
		t.Fatalf("GetSaleItemByID failed: %v", err)
	}
	if item.SaleID != sale.ID || item.Quantity != 5 {
		t.Errorf("loaded item = sale %s qty %d", item.SaleID, item.Quantity)
	}

	if err := item.UpdateQuantity(10); err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}
	item.Recalculate()
	if err := repo.UpdateSaleItem(ctx, item); err != nil {
		t.Fatalf("UpdateSaleItem failed: %v", err)
	}
	if item.Version != 2 {
		t.Errorf("item version after update = %d, want 2", item.Version)
	}

	// A stale copy still holding version 1 must be refused.
	stale := *item
	stale.Version = 1
	err = repo.UpdateSaleItem(ctx, &stale)
	var conflict *core.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError for stale item, got %v", err)
	}

	reloaded, err := repo.GetSaleItemByID(ctx, itemID)
	if err != nil {
		t.Fatalf("GetSaleItemByID failed: %v", err)
	}
	if !reloaded.Total.Equal(decimal.RequireFromString("800")) {
		t.Errorf("item total = %s, want 800", reloaded.Total)
	}

	deleted, err := repo.DeleteSaleItem(ctx, itemID)
	if err != nil || !deleted {
		t.Fatalf("DeleteSaleItem = (%v, %v), want (true, nil)", deleted, err)
	}
	deleted, err = repo.DeleteSaleItem(ctx, itemID)
	if err != nil || deleted {
		t.Fatalf("repeat DeleteSaleItem = (%v, %v), want (false, nil)", deleted, err)
	}
}
