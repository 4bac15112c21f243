package services

import (
	"testing"
	"time"

	"minimarket/internal/pagination"
	"minimarket/internal/testutil"
)

func TestCreateProduct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, 48*time.Hour)
		author := testutil.CreateTestUser(t, db, "0.00")
		category := testutil.CreateTestCategory(t, db)

		product, err := svc.CreateProduct(author.ID, ProductInput{
			Title:      "Rubber Duck",
			CategoryID: category.ID,
			Price:      testutil.Dec(t, "25.00"),
			MinPrice:   testutil.Dec(t, "5.00"),
			MaxPrice:   testutil.Dec(t, "50.00"),
			Stock:      20,
		})
		testutil.AssertNoError(t, err)

		if product.ID == 0 {
			t.Fatal("expected non-zero product ID")
		}
		if product.AuthorID == nil || *product.AuthorID != author.ID {
			t.Error("expected author to be the submitting user")
		}
		testutil.AssertDecimal(t, product.Price, "25.00", "price")
		if product.Stock != 20 {
			t.Errorf("expected stock 20, got %d", product.Stock)
		}

		// the first tick only becomes possible one interval from now
		if product.NextChangeAt.Before(time.Now().Add(47 * time.Hour)) {
			t.Error("expected next_change_at roughly one interval in the future")
		}
	})

	t.Run("applies_catalog_defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, 48*time.Hour)
		author := testutil.CreateTestUser(t, db, "0.00")
		category := testutil.CreateTestCategory(t, db)

		product, err := svc.CreateProduct(author.ID, ProductInput{
			Title:      "Bare Minimum",
			CategoryID: category.ID,
		})
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, product.Price, "10.00", "default price")
		testutil.AssertDecimal(t, product.MinPrice, "1.00", "default min price")
		testutil.AssertDecimal(t, product.MaxPrice, "10000.00", "default max price")
		if product.Stock != 100 {
			t.Errorf("expected default stock 100, got %d", product.Stock)
		}
	})

	t.Run("missing_title", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, 48*time.Hour)
		author := testutil.CreateTestUser(t, db, "0.00")
		category := testutil.CreateTestCategory(t, db)

		_, err := svc.CreateProduct(author.ID, ProductInput{CategoryID: category.ID})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, 48*time.Hour)
		author := testutil.CreateTestUser(t, db, "0.00")

		_, err := svc.CreateProduct(author.ID, ProductInput{Title: "Ghost", CategoryID: 99999})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("price_outside_bounds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, 48*time.Hour)
		author := testutil.CreateTestUser(t, db, "0.00")
		category := testutil.CreateTestCategory(t, db)

		_, err := svc.CreateProduct(author.ID, ProductInput{
			Title:      "Mispriced",
			CategoryID: category.ID,
			Price:      testutil.Dec(t, "100.00"),
			MinPrice:   testutil.Dec(t, "1.00"),
			MaxPrice:   testutil.Dec(t, "50.00"),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListProducts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProductService(db, 48*time.Hour)

	first := testutil.CreateTestProduct(t, db, nil, "10.00", 10)
	testutil.CreateTestProduct(t, db, nil, "20.00", 10)

	all, err := svc.ListProducts(nil, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if all.TotalItems != 2 {
		t.Errorf("expected 2 products, got %d", all.TotalItems)
	}

	filtered, err := svc.ListProducts(&first.CategoryID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if filtered.TotalItems != 1 {
		t.Errorf("expected 1 product in category, got %d", filtered.TotalItems)
	}
}

func TestDeleteCategory(t *testing.T) {
	t.Run("empty_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, 48*time.Hour)
		category := testutil.CreateTestCategory(t, db)

		testutil.AssertNoError(t, svc.DeleteCategory(category.ID))
	})

	t.Run("category_in_use", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, 48*time.Hour)
		product := testutil.CreateTestProduct(t, db, nil, "10.00", 10)

		testutil.AssertAppError(t, svc.DeleteCategory(product.CategoryID), "CATEGORY_IN_USE")
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, 48*time.Hour)

		testutil.AssertAppError(t, svc.DeleteCategory(99999), "CATEGORY_NOT_FOUND")
	})
}

func TestGetPriceHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	productSvc := NewProductService(db, 48*time.Hour)
	pricingSvc := NewPricingService(db, tickConfig(10, 10), testRNG())
	product := testutil.CreateTestProduct(t, db, nil, "100.00", 10)

	if _, err := pricingSvc.RunPriceTick(time.Now()); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	history, err := productSvc.GetPriceHistory(product.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if history.TotalItems != 1 {
		t.Errorf("expected 1 history entry, got %d", history.TotalItems)
	}

	_, err = productSvc.GetPriceHistory(99999, pagination.PageRequest{})
	testutil.AssertAppError(t, err, "PRODUCT_NOT_FOUND")
}
