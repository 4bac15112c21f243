package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"minimarket/internal/handlers"
	"minimarket/internal/logger"
	"minimarket/internal/middleware"
	"minimarket/internal/models"
	"minimarket/internal/services"
	"minimarket/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Product{},
		&models.Holding{},
		&models.Transaction{},
		&models.PriceHistory{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	feeRate := decimal.RequireFromString("0.10")
	startingBalance := decimal.RequireFromString("1000.00")
	interval := 48 * time.Hour

	// Services
	userService := services.NewUserService(db, startingBalance)
	productService := services.NewProductService(db, interval)
	tradingService := services.NewTradingService(db, feeRate)
	pricingService := services.NewPricingService(db, services.PricingConfig{
		MinPercent: 10,
		MaxPercent: 10,
		Interval:   interval,
	}, nil)
	backfillService := services.NewBackfillService(db, feeRate)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	tradeHandler := handlers.NewTradeHandler(tradingService)
	adminHandler := handlers.NewAdminHandler(pricingService, backfillService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	v1.GET("/products", productHandler.ListProducts)
	v1.GET("/products/:id", productHandler.GetProduct)
	v1.GET("/products/:id/history", productHandler.GetPriceHistory)
	v1.GET("/categories", productHandler.ListCategories)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.Auth())

	protected.GET("/profile", authHandler.GetProfile)

	protected.POST("/categories", productHandler.CreateCategory)
	protected.DELETE("/categories/:id", productHandler.DeleteCategory)
	protected.POST("/products", productHandler.CreateProduct)

	trades := protected.Group("/trades")
	trades.POST("/buy", tradeHandler.Buy)
	trades.POST("/sell", tradeHandler.Sell)
	protected.GET("/holdings", tradeHandler.GetHoldings)
	protected.GET("/transactions", tradeHandler.GetTransactions)

	admin := protected.Group("/admin")
	admin.POST("/price-tick", adminHandler.RunPriceTick)
	admin.POST("/backfill", adminHandler.RunBackfill)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"display_name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// createCategory creates a category through the API and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, name string) float64 {
	t.Helper()
	rec := app.request("POST", "/api/v1/categories", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	category := result["category"].(map[string]interface{})
	return category["id"].(float64)
}

// createProduct lists a product through the API and returns its ID.
func (app *testApp) createProduct(t *testing.T, token string, categoryID float64, title, price string, stock int) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"title":%q,"category_id":%.0f,"price":%q,"min_price":"1.00","max_price":"10000.00","stock":%d}`,
		title, categoryID, price, stock)
	rec := app.request("POST", "/api/v1/products", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	product := result["product"].(map[string]interface{})
	return product["id"].(float64)
}

// balance fetches the authenticated user's balance as a decimal.
func (app *testApp) balance(t *testing.T, token string) decimal.Decimal {
	t.Helper()
	rec := app.request("GET", "/api/v1/profile", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get profile failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	profile := result["profile"].(map[string]interface{})
	return parseMoney(t, profile["balance"])
}

// itoa renders a JSON numeric ID as a path segment.
func itoa(id float64) string {
	return strconv.FormatUint(uint64(id), 10)
}

// parseMoney converts a JSON money value (string or number) into a decimal.
func parseMoney(t *testing.T, raw interface{}) decimal.Decimal {
	t.Helper()
	switch v := raw.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			t.Fatalf("invalid money value %q: %v", v, err)
		}
		return d
	case float64:
		return decimal.NewFromFloat(v)
	default:
		t.Fatalf("unexpected money type %T", raw)
		return decimal.Zero
	}
}

// assertMoney fails if got does not equal the expected decimal string.
func assertMoney(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s, got %s", want, got)
	}
}
