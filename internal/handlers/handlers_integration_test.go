package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookstore/internal/handlers"
	"bookstore/internal/middleware"
	"bookstore/internal/models"
	"bookstore/internal/repositories"
	"bookstore/internal/services"
	"bookstore/internal/tokens"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// captureNotifier records emailed tokens so tests can complete the
// verification flow without a mail server.
type captureNotifier struct {
	verifyTokens []string
	resetTokens  []string
	invoices     int
}

func (n *captureNotifier) SendOrderInvoice(order *models.Order) error {
	n.invoices++
	return nil
}

func (n *captureNotifier) SendVerificationEmail(email, name, token string) error {
	n.verifyTokens = append(n.verifyTokens, token)
	return nil
}

func (n *captureNotifier) SendPasswordResetEmail(email, name, token string) error {
	n.resetTokens = append(n.resetTokens, token)
	return nil
}

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	notifier *captureNotifier
}

// setupApp wires the whole API against in-memory SQLite and miniredis.
func setupApp(t *testing.T, dbName string) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Author{}, &models.BookCategory{}, &models.Book{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.OrderStatusChangeLog{},
	))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })
	tokenStore := tokens.NewStore(redisClient)

	userRepo := repositories.NewGORMUserRepository(db)
	authorRepo := repositories.NewGORMAuthorRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	bookRepo := repositories.NewGORMBookRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	analyticsRepo := repositories.NewGORMAnalyticsRepository(db)
	txm := repositories.NewGormTxManager(db)

	notifier := &captureNotifier{}
	authService := services.NewAuthService(userRepo, tokenStore, notifier,
		"test_jwt_secret", "test_refresh_secret", time.Hour, 24*time.Hour)
	googleService := services.NewGoogleAuthService(userRepo, authService, "", "", "")
	bookService := services.NewBookService(bookRepo, categoryRepo, authorRepo)
	categoryService := services.NewCategoryService(categoryRepo, bookRepo)
	authorService := services.NewAuthorService(authorRepo)
	cartService := services.NewCartService(cartRepo, bookRepo, txm)
	orderService := services.NewOrderService(orderRepo, cartRepo, bookRepo, txm, notifier)
	analyticsService := services.NewAnalyticsService(analyticsRepo)

	authHandler := handlers.NewAuthHandler(authService, googleService)
	bookHandler := handlers.NewBookHandler(bookService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	authorHandler := handlers.NewAuthorHandler(authorService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)
	bookHandler.RegisterRoutes(apiV1)
	categoryHandler.RegisterRoutes(apiV1)
	authorHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	admin := apiV1.Group("/admin", middleware.AuthRequired(authService), middleware.RequireRole(models.RoleAdmin))
	bookHandler.RegisterAdminRoutes(admin)
	categoryHandler.RegisterAdminRoutes(admin)
	authorHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	analyticsHandler.RegisterAdminRoutes(admin)

	return &testEnv{app: app, db: db, notifier: notifier}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

// seedAdmin creates a verified admin directly in the database.
func (e *testEnv) seedAdmin(t *testing.T) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("admin-password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := models.User{
		Username: "admin", Name: "Admin", Email: "admin@example.com",
		Password: string(hashed), Role: models.RoleAdmin, IsVerified: true, IsActive: true,
	}
	require.NoError(t, repositories.NewGORMUserRepository(e.db).Create(&admin))
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, body := e.request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login body: %v", body)
	data := body["data"].(map[string]interface{})
	pair := data["tokens"].(map[string]interface{})
	return pair["access_token"].(string)
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "missing data envelope: %v", body)
	return d
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	env := setupApp(t, "handlers_authflow")

	resp, body := env.request(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username": "reader", "name": "Avid Reader",
		"email": "reader@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register body: %v", body)
	assert.Equal(t, "success", body["status"])

	// Unverified accounts cannot log in.
	resp, _ = env.request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "reader@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The first email got lost, so ask for another.
	require.Len(t, env.notifier.verifyTokens, 1)
	resp, _ = env.request(t, http.MethodPost, "/api/v1/auth/resend-verification", "", fiber.Map{
		"email": "reader@example.com",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, env.notifier.verifyTokens, 2)

	// Redeem the resent token.
	resp, _ = env.request(t, http.MethodGet,
		"/api/v1/auth/verify-email?token="+env.notifier.verifyTokens[1], "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A verified account gets no further verification emails.
	resp, _ = env.request(t, http.MethodPost, "/api/v1/auth/resend-verification", "", fiber.Map{
		"email": "reader@example.com",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, env.notifier.verifyTokens, 2)

	token := env.login(t, "reader@example.com", "password123")

	resp, body = env.request(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := data(t, body)["user"].(map[string]interface{})
	assert.Equal(t, "reader", user["username"])

	// Duplicate registration is a conflict.
	resp, _ = env.request(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username": "reader", "name": "Copycat",
		"email": "other@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	env := setupApp(t, "handlers_authz")
	env.seedAdmin(t)

	resp, _ := env.request(t, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/api/v1/cart", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// A customer cannot reach admin routes.
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	customer := models.User{
		Username: "customer", Name: "Customer", Email: "customer@example.com",
		Password: string(hashed), Role: models.RoleCustomer, IsVerified: true, IsActive: true,
	}
	require.NoError(t, repositories.NewGORMUserRepository(env.db).Create(&customer))
	customerToken := env.login(t, "customer@example.com", "password123")

	resp, _ = env.request(t, http.MethodPost, "/api/v1/admin/book-categories", customerToken, fiber.Map{"name": "Sneaky"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCatalogAndShoppingFlow(t *testing.T) {
	env := setupApp(t, "handlers_shopflow")
	env.seedAdmin(t)
	adminToken := env.login(t, "admin@example.com", "admin-password")

	// Admin sets up the catalog.
	resp, body := env.request(t, http.MethodPost, "/api/v1/admin/book-categories", adminToken, fiber.Map{"name": "Fiction"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "category body: %v", body)
	categoryID := data(t, body)["category"].(map[string]interface{})["id"].(string)

	resp, body = env.request(t, http.MethodPost, "/api/v1/admin/authors", adminToken, fiber.Map{"name": "N. K. Jemisin"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	authorID := data(t, body)["author"].(map[string]interface{})["id"].(string)

	resp, body = env.request(t, http.MethodPost, "/api/v1/admin/books", adminToken, fiber.Map{
		"title": "The Fifth Season", "isbn": "9780316229296",
		"price_cents": 1599, "stock_quantity": 4,
		"category_id": categoryID, "author_id": authorID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "book body: %v", body)
	bookID := data(t, body)["book"].(map[string]interface{})["id"].(string)

	// Duplicate ISBN is a conflict.
	resp, _ = env.request(t, http.MethodPost, "/api/v1/admin/books", adminToken, fiber.Map{
		"title": "Copy", "isbn": "9780316229296", "price_cents": 1, "category_id": categoryID,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The catalog is public.
	resp, body = env.request(t, http.MethodGet, "/api/v1/books?search=fifth", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), data(t, body)["total"])

	// A customer shops.
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	customer := models.User{
		Username: "shopper", Name: "Shopper", Email: "shopper@example.com",
		Password: string(hashed), Role: models.RoleCustomer, IsVerified: true, IsActive: true,
	}
	require.NoError(t, repositories.NewGORMUserRepository(env.db).Create(&customer))
	token := env.login(t, "shopper@example.com", "password123")

	// No cart yet.
	resp, _ = env.request(t, http.MethodGet, "/api/v1/cart", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.request(t, http.MethodPost, "/api/v1/cart/items", token, fiber.Map{
		"book_id": bookID, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "add item body: %v", body)
	cart := data(t, body)["cart"].(map[string]interface{})
	assert.Equal(t, float64(3198), cart["total_price_cents"])
	cartID := cart["id"].(string)

	// More than the shelf holds.
	resp, _ = env.request(t, http.MethodPost, "/api/v1/cart/items", token, fiber.Map{
		"book_id": bookID, "quantity": 3,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Checkout.
	resp, body = env.request(t, http.MethodPost, "/api/v1/orders", token, fiber.Map{
		"cart_id": cartID, "payment_method": "stripe",
		"billing":  fiber.Map{"name": "Shopper", "city": "Kampala"},
		"shipping": fiber.Map{"name": "Shopper", "city": "Kampala"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "order body: %v", body)
	order := data(t, body)["order"].(map[string]interface{})
	orderID := order["id"].(string)
	assert.Equal(t, float64(3198), order["total_amount_cents"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, 1, env.notifier.invoices)

	// Pay.
	resp, body = env.request(t, http.MethodPost, "/api/v1/orders/"+orderID+"/pay", token, fiber.Map{
		"payment_transaction_id": "txn-42",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "paid", data(t, body)["order"].(map[string]interface{})["status"])

	// Paying again is rejected.
	resp, _ = env.request(t, http.MethodPost, "/api/v1/orders/"+orderID+"/pay", token, fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Another customer cannot see this order.
	other := models.User{
		Username: "other", Name: "Other", Email: "other@example.com",
		Password: string(hashed), Role: models.RoleCustomer, IsVerified: true, IsActive: true,
	}
	require.NoError(t, repositories.NewGORMUserRepository(env.db).Create(&other))
	otherToken := env.login(t, "other@example.com", "password123")
	resp, _ = env.request(t, http.MethodGet, "/api/v1/orders/"+orderID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Admin ships it, with an audit trail.
	resp, body = env.request(t, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", adminToken, fiber.Map{
		"status": "shipped", "reason": "left the warehouse",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "status body: %v", body)
	var logs []models.OrderStatusChangeLog
	require.NoError(t, env.db.Where("order_id = ?", orderID).Find(&logs).Error)
	assert.Len(t, logs, 1)

	// An illegal jump is rejected.
	resp, _ = env.request(t, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status", adminToken, fiber.Map{
		"status": "pending",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The sales report sees the order.
	resp, body = env.request(t, http.MethodGet, "/api/v1/admin/analytics/sales", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	analytics := data(t, body)["analytics"].(map[string]interface{})
	assert.Equal(t, float64(1), analytics["total_orders"])
	assert.Equal(t, float64(3198), analytics["total_revenue_cents"])
}

func TestCategoryDeleteGuard(t *testing.T) {
	env := setupApp(t, "handlers_catguard")
	env.seedAdmin(t)
	adminToken := env.login(t, "admin@example.com", "admin-password")

	_, body := env.request(t, http.MethodPost, "/api/v1/admin/book-categories", adminToken, fiber.Map{"name": "Poetry"})
	categoryID := data(t, body)["category"].(map[string]interface{})["id"].(string)

	_, body = env.request(t, http.MethodPost, "/api/v1/admin/books", adminToken, fiber.Map{
		"title": "Leaves", "isbn": "9780000000058", "price_cents": 900, "stock_quantity": 1,
		"category_id": categoryID,
	})
	bookID := data(t, body)["book"].(map[string]interface{})["id"].(string)

	resp, _ := env.request(t, http.MethodDelete, "/api/v1/admin/book-categories/"+categoryID, adminToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.request(t, http.MethodDelete, "/api/v1/admin/books/"+bookID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, http.MethodDelete, "/api/v1/admin/book-categories/"+categoryID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPasswordResetFlow(t *testing.T) {
	env := setupApp(t, "handlers_reset")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
	user := models.User{
		Username: "forgetful", Name: "Forgetful", Email: "forgetful@example.com",
		Password: string(hashed), Role: models.RoleCustomer, IsVerified: true, IsActive: true,
	}
	require.NoError(t, repositories.NewGORMUserRepository(env.db).Create(&user))

	// The response never says whether the address exists.
	resp, _ := env.request(t, http.MethodPost, "/api/v1/auth/forgot-password", "", fiber.Map{
		"email": "unknown@example.com",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, env.notifier.resetTokens)

	resp, _ = env.request(t, http.MethodPost, "/api/v1/auth/forgot-password", "", fiber.Map{
		"email": "forgetful@example.com",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, env.notifier.resetTokens, 1)

	resp, _ = env.request(t, http.MethodPost, "/api/v1/auth/reset-password", "", fiber.Map{
		"token": env.notifier.resetTokens[0], "new_password": "new-password",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Old password is gone, new one works.
	resp, _ = env.request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "forgetful@example.com", "password": "old-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	env.login(t, "forgetful@example.com", "new-password")
}
