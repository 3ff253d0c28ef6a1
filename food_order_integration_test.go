package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/router"
	"github.com/yeremiapane/food-order-app/services"
	"github.com/yeremiapane/food-order-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the main flow:
// 0. Seed catalog + accounts, login both roles
// 1. Customer fills the cart and applies a coupon
// 2. Checkout -> pending order, cart cleared
// 3. Admin advances the order to delivered
// 4. Customer rates the delivered order
func TestEndToEndIntegration(t *testing.T) {
	db := setupTestDB()
	r := router.SetupRouter(db, services.DefaultPricingConfig())

	customerToken := loginTest(t, r, "customer@example.com", "secret123")
	adminToken := loginTest(t, r, "admin@example.com", "secret123")

	// Fill the cart: 2x $5.00 + 1x $10.00.
	postJSON(t, r, "/cart/items", customerToken, map[string]interface{}{"menu_id": 1, "quantity": 2}, http.StatusOK)
	postJSON(t, r, "/cart/items", customerToken, map[string]interface{}{"menu_id": 2, "quantity": 1}, http.StatusOK)
	postJSON(t, r, "/cart/coupon", customerToken, map[string]interface{}{"code": "SAVE10"}, http.StatusOK)

	// Checkout.
	body := postJSON(t, r, "/orders", customerToken, map[string]interface{}{
		"delivery_address": "1 Main St, Springfield",
		"payment_method":   "card",
		"contact_phone":    "+15550100",
	}, http.StatusCreated)

	var order models.Order
	decodeEnvelope(t, body, &order)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.True(t, order.GrandTotal.Equal(decimal.RequireFromString("22.60")), "grand %s", order.GrandTotal)

	var cart models.Cart
	assert.NoError(t, db.Preload("Items").Where("owner_id = ?", 1).First(&cart).Error)
	assert.Empty(t, cart.Items)

	// Admin drives the order through to delivered.
	for _, status := range []string{"confirmed", "preparing", "ready", "delivered"} {
		req := jsonRequest(t, "PATCH", fmt.Sprintf("/admin/orders/%d/status", order.ID), adminToken, map[string]interface{}{"status": status})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "advance to %s: %s", status, w.Body.String())
	}

	// Customer rates it.
	postJSON(t, r, fmt.Sprintf("/orders/%d/rating", order.ID), customerToken, map[string]interface{}{
		"stars":  5,
		"review": "arrived hot",
	}, http.StatusOK)

	var stored models.Order
	assert.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.StatusDelivered, stored.Status)
	assert.Equal(t, 5, *stored.RatingStars)
}

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.Coupon{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{Name: "Test Customer", Email: "customer@example.com", Password: string(hashed), Role: models.RoleCustomer})
	db.Create(&models.User{Name: "Test Admin", Email: "admin@example.com", Password: string(hashed), Role: models.RoleAdmin})

	db.Create(&models.Restaurant{Name: "Pizza Place", Address: "1 Main St", IsOpen: true})
	db.Create(&models.MenuCategory{Name: "Mains"})
	db.Create(&models.Menu{RestaurantID: 1, CategoryID: 1, Name: "Margherita", Price: decimal.RequireFromString("5.00"), IsAvailable: true})
	db.Create(&models.Menu{RestaurantID: 1, CategoryID: 1, Name: "Calzone", Price: decimal.RequireFromString("10.00"), IsAvailable: true})
	db.Create(&models.Coupon{Code: "SAVE10", DiscountType: models.DiscountPercent, DiscountValue: decimal.RequireFromString("10"), Active: true})

	return db
}

func loginTest(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	body := postJSON(t, r, "/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	}, http.StatusOK)

	var data struct {
		Token string `json:"token"`
	}
	decodeEnvelope(t, body, &data)
	assert.NotEmpty(t, data.Token)
	return data.Token
}

func jsonRequest(t *testing.T, method, path, token string, payload interface{}) *http.Request {
	t.Helper()
	var buf *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		buf = bytes.NewBuffer(raw)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func postJSON(t *testing.T, r *gin.Engine, path, token string, payload interface{}, wantCode int) []byte {
	t.Helper()
	req := jsonRequest(t, "POST", path, token, payload)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, wantCode, w.Code, "POST %s: %s", path, w.Body.String())
	return w.Body.Bytes()
}

func decodeEnvelope(t *testing.T, body []byte, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(body, &envelope))
	assert.NoError(t, json.Unmarshal(envelope.Data, out))
}
