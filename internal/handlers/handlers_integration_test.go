package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"foodfusion/internal/handlers"
	"foodfusion/internal/middleware"
	"foodfusion/internal/models"
	"foodfusion/internal/repositories"
	"foodfusion/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite for users
// and in-memory repositories for the rest.
func setupApp() (*fiber.App, *repositories.MockOrderRepository, error) {
	// Configure Viper for testing
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// Initialize in-memory SQLite database
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(&models.User{}, &models.Favorite{}, &models.OrderRef{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Initialize Repositories
	userRepo := repositories.NewGORMUserRepository(db)
	restaurantRepo := repositories.NewMockRestaurantRepository()
	orderRepo := repositories.NewMockOrderRepository()

	seedRestaurantsForTest(restaurantRepo)

	// Initialize Services
	authService := services.NewAuthService(userRepo, jwtSecret)
	restaurantService := services.NewRestaurantService(restaurantRepo)
	orderService := services.NewOrderService(orderRepo, restaurantRepo, repositories.NewMockIdempotencyStore(), nil, 50)
	userService := services.NewUserService(userRepo, restaurantRepo, orderRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService)
	orderHandler := handlers.NewOrderHandler(orderService)
	userHandler := handlers.NewUserHandler(userService)

	app := fiber.New()

	// API Routes
	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	restaurantHandler.RegisterPublicRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	restaurantHandler.RegisterProtectedRoutes(protectedRoutes)
	orderHandler.RegisterRoutes(protectedRoutes)
	userHandler.RegisterRoutes(protectedRoutes)

	return app, orderRepo, nil
}

// seedRestaurantsForTest populates the restaurant repository for tests.
func seedRestaurantsForTest(repo repositories.RestaurantRepository) {
	restaurants := []models.Restaurant{
		{
			ID:       "rest-1",
			Name:     "Spice Garden",
			Cuisine:  []string{"Indian"},
			Address:  models.DeliveryAddress{Street: "12 MG Road", City: "Bengaluru", State: "KA", ZipCode: "560001"},
			IsActive: true,
			Featured: true,
			Menu: []models.MenuItem{
				{ID: "item-1", Name: "Paneer Tikka", Price: 100},
				{ID: "item-2", Name: "Garlic Naan", Price: 50},
			},
		},
		{
			ID:       "rest-2",
			Name:     "Leaf & Ladle",
			Cuisine:  []string{"Healthy"},
			Address:  models.DeliveryAddress{Street: "8 Residency Road", City: "Bengaluru", State: "KA", ZipCode: "560025"},
			IsVeg:    true,
			IsActive: true,
		},
	}
	for i := range restaurants {
		if err := repo.Create(&restaurants[i]); err != nil {
			log.Printf("Failed to seed restaurant %s: %v", restaurants[i].Name, err)
		}
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

// registerAndLogin creates a fresh user and returns a bearer token.
func registerAndLogin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	body, _ = json.Marshal(map[string]string{
		"email":    email,
		"password": "password123",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	assert.NotEmpty(t, loginResp.Token)
	resp.Body.Close()
	return loginResp.Token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	body, _ := json.Marshal(map[string]string{
		"name":     "Auth Flow",
		"email":    "authflow@example.com",
		"password": "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Duplicate registration conflicts on email
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Wrong password is rejected
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "authflow@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "authflow@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	assert.NotEmpty(t, loginResp["token"])
	resp.Body.Close()
}

func TestRestaurantBrowsingIsPublic(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/restaurants/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var restaurants []models.Restaurant
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&restaurants))
	assert.Len(t, restaurants, 2)
	resp.Body.Close()

	// Veg filter narrows the listing
	resp = doJSON(t, app, http.MethodGet, "/api/v1/restaurants/?veg=true", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&restaurants))
	assert.Len(t, restaurants, 1)
	assert.Equal(t, "Leaf & Ladle", restaurants[0].Name)
	resp.Body.Close()

	// Featured listing
	resp = doJSON(t, app, http.MethodGet, "/api/v1/restaurants/featured", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&restaurants))
	assert.Len(t, restaurants, 1)
	assert.Equal(t, "Spice Garden", restaurants[0].Name)
	resp.Body.Close()

	// Detail with menu
	resp = doJSON(t, app, http.MethodGet, "/api/v1/restaurants/rest-1", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var restaurant models.Restaurant
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&restaurant))
	assert.Len(t, restaurant.Menu, 2)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/restaurants/rest-404", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	app, orderRepo, err := setupApp()
	assert.NoError(t, err)
	token := registerAndLogin(t, app, "orders@example.com")

	orderPayload := map[string]interface{}{
		"restaurant_id": "rest-1",
		"items": []map[string]interface{}{
			{"item_id": "item-1", "quantity": 2},
			{"item_id": "item-2", "quantity": 1},
		},
		"delivery_address": map[string]string{
			"street": "1 Main St", "city": "Bengaluru", "state": "KA", "zip_code": "560001",
		},
		"payment_method": "card",
	}

	// Orders require a login
	resp := doJSON(t, app, http.MethodPost, "/api/v1/orders/", "", orderPayload)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders/", token, orderPayload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 300.0, order.TotalAmount) // 2*100 + 50 + 50 delivery fee
	resp.Body.Close()

	// Listing returns the order
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.Order
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&orders))
	assert.Len(t, orders, 1)
	resp.Body.Close()

	// Another user cannot read it
	otherToken := registerAndLogin(t, app, "snooper@example.com")
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+order.ID, otherToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Cancel while pending
	resp = doJSON(t, app, http.MethodPut, "/api/v1/orders/"+order.ID+"/cancel", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cancelled models.Order
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&cancelled))
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	resp.Body.Close()

	// Cancelling again conflicts
	resp = doJSON(t, app, http.MethodPut, "/api/v1/orders/"+order.ID+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Rating a delivered order
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders/", token, orderPayload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var second models.Order
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	resp.Body.Close()

	assert.NoError(t, orderRepo.AdvanceStatus(second.ID, models.OrderStatusPending, models.OrderStatusPreparing, false))
	assert.NoError(t, orderRepo.AdvanceStatus(second.ID, models.OrderStatusPreparing, models.OrderStatusReady, false))
	assert.NoError(t, orderRepo.AdvanceStatus(second.ID, models.OrderStatusReady, models.OrderStatusOutForDelivery, false))
	assert.NoError(t, orderRepo.AdvanceStatus(second.ID, models.OrderStatusOutForDelivery, models.OrderStatusDelivered, true))

	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders/"+second.ID+"/rate", token, map[string]int{"rating": 5})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var rated models.Order
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&rated))
	assert.Equal(t, 5, *rated.Rating)
	resp.Body.Close()

	// Delete removes the order
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/orders/"+second.ID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+second.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestFavoritesOverHTTP(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)
	token := registerAndLogin(t, app, "favorites@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/v1/users/favorites/rest-1", token, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Favoriting a missing restaurant is a 404
	resp = doJSON(t, app, http.MethodPost, "/api/v1/users/favorites/rest-404", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/users/favorites", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var favorites []models.Restaurant
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&favorites))
	assert.Len(t, favorites, 1)
	assert.Equal(t, "Spice Garden", favorites[0].Name)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/users/favorites/rest-1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/v1/users/favorites", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&favorites))
	assert.Empty(t, favorites)
	resp.Body.Close()
}

func TestProfileOverHTTP(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)
	token := registerAndLogin(t, app, "profile@example.com")

	resp := doJSON(t, app, http.MethodGet, "/api/v1/users/profile", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var user models.User
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "profile@example.com", user.Email)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPut, "/api/v1/users/profile", token, map[string]string{
		"name":  "Renamed User",
		"phone": "+91-99999-00000",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "Renamed User", user.Name)
	assert.Equal(t, "+91-99999-00000", user.Phone)
	resp.Body.Close()
}
