package Controllers_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-order-app/controllers"
	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/services"
)

type cartPayload struct {
	Cart   models.Cart         `json:"cart"`
	Totals models.PricedTotals `json:"totals"`
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	db.Create(&models.Restaurant{Name: "Pizza Place", Address: "1 Main St", IsOpen: true})
	db.Create(&models.Restaurant{Name: "Noodle Bar", Address: "2 Side St", IsOpen: true})
	db.Create(&models.MenuCategory{Name: "Mains"})
	db.Create(&models.Menu{RestaurantID: 1, CategoryID: 1, Name: "Margherita", Price: decimal.RequireFromString("5.00"), IsAvailable: true})
	db.Create(&models.Menu{RestaurantID: 1, CategoryID: 1, Name: "Calzone", Price: decimal.RequireFromString("10.00"), IsAvailable: true})
	db.Create(&models.Menu{RestaurantID: 2, CategoryID: 1, Name: "Ramen", Price: decimal.RequireFromString("12.00"), IsAvailable: true})
	db.Create(&models.User{Name: "Test Customer", Email: "cust@example.com", Password: "x", Role: models.RoleCustomer})
}

func setupCartRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()
	cartCtrl := controllers.NewCartController(db, services.DefaultPricingConfig())
	authed := r.Group("/", authAs(1, models.RoleCustomer))
	authed.GET("/cart", cartCtrl.GetCart)
	authed.POST("/cart/items", cartCtrl.AddItem)
	authed.PATCH("/cart/items/:item_id", cartCtrl.UpdateItem)
	authed.DELETE("/cart/items/:item_id", cartCtrl.RemoveItem)
	authed.DELETE("/cart", cartCtrl.ClearCart)
	authed.POST("/cart/coupon", cartCtrl.ApplyCoupon)
	authed.DELETE("/cart/coupon", cartCtrl.RemoveCoupon)
	return r
}

func TestCartAddAndTotals(t *testing.T) {
	db := openTestDB(t, "cartctl_add")
	seedCatalog(t, db)
	r := setupCartRouter(db)

	w := doJSON(t, r, "POST", "/cart/items", map[string]interface{}{
		"menu_id":  1,
		"quantity": 2,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", "/cart/items", map[string]interface{}{
		"menu_id":  2,
		"quantity": 1,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var payload cartPayload
	decodeData(t, w, &payload)
	assert.Len(t, payload.Cart.Items, 2)
	assert.True(t, payload.Totals.Subtotal.Equal(decimal.RequireFromString("20.00")), "subtotal %s", payload.Totals.Subtotal)
	assert.True(t, payload.Totals.TaxAmount.Equal(decimal.RequireFromString("1.60")), "tax %s", payload.Totals.TaxAmount)
	assert.True(t, payload.Totals.DeliveryFee.Equal(decimal.RequireFromString("3.00")), "fee %s", payload.Totals.DeliveryFee)
	assert.True(t, payload.Totals.GrandTotal.Equal(decimal.RequireFromString("24.60")), "grand %s", payload.Totals.GrandTotal)

	// The cart is persisted.
	var stored models.Cart
	assert.NoError(t, db.Preload("Items").Where("owner_id = ?", 1).First(&stored).Error)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, uint(1), *stored.RestaurantID)
}

func TestCartAddMergesLines(t *testing.T) {
	db := openTestDB(t, "cartctl_merge")
	seedCatalog(t, db)
	r := setupCartRouter(db)

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, "POST", "/cart/items", map[string]interface{}{
			"menu_id":       1,
			"quantity":      1,
			"customization": map[string]string{"size": "large"},
		})
		assert.Equal(t, http.StatusOK, w.Code)
	}

	var stored models.Cart
	assert.NoError(t, db.Preload("Items").Where("owner_id = ?", 1).First(&stored).Error)
	assert.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

func TestCartConcurrentAddsBothKept(t *testing.T) {
	db := openTestDB(t, "cartctl_race")
	seedCatalog(t, db)
	r := setupCartRouter(db)

	// A single connection makes sqlite queue the writers the way the
	// row lock on the cart queues them under mysql.
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	w := doJSON(t, r, "POST", "/cart/items", map[string]interface{}{"menu_id": 1, "quantity": 1})
	assert.Equal(t, http.StatusOK, w.Code)

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i, menuID := range []uint{1, 2} {
		wg.Add(1)
		go func(i int, menuID uint) {
			defer wg.Done()
			w := doJSON(t, r, "POST", "/cart/items", map[string]interface{}{"menu_id": menuID, "quantity": 1})
			codes[i] = w.Code
		}(i, menuID)
	}
	wg.Wait()

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])

	// Neither write was lost: the merged line and the new line both
	// survive.
	var stored models.Cart
	assert.NoError(t, db.Preload("Items").Where("owner_id = ?", 1).First(&stored).Error)
	assert.Len(t, stored.Items, 2)
	for _, item := range stored.Items {
		if item.MenuID == 1 {
			assert.Equal(t, 2, item.Quantity)
		}
	}
}

func TestCartCrossRestaurantConflict(t *testing.T) {
	db := openTestDB(t, "cartctl_cross")
	seedCatalog(t, db)
	r := setupCartRouter(db)

	w := doJSON(t, r, "POST", "/cart/items", map[string]interface{}{
		"menu_id":  1,
		"quantity": 1,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", "/cart/items", map[string]interface{}{
		"menu_id":  3, // belongs to the other restaurant
		"quantity": 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Cart unchanged.
	var stored models.Cart
	assert.NoError(t, db.Preload("Items").Where("owner_id = ?", 1).First(&stored).Error)
	assert.Len(t, stored.Items, 1)
}

func TestCartUpdateAndRemoveItem(t *testing.T) {
	db := openTestDB(t, "cartctl_update")
	seedCatalog(t, db)
	r := setupCartRouter(db)

	w := doJSON(t, r, "POST", "/cart/items", map[string]interface{}{
		"menu_id":  1,
		"quantity": 1,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Cart
	assert.NoError(t, db.Preload("Items").Where("owner_id = ?", 1).First(&stored).Error)
	itemID := stored.Items[0].ID

	w = doJSON(t, r, "PATCH", fmt.Sprintf("/cart/items/%d", itemID), map[string]interface{}{
		"quantity": 3,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var payload cartPayload
	decodeData(t, w, &payload)
	assert.Equal(t, 3, payload.Cart.Items[0].Quantity)

	w = doJSON(t, r, "DELETE", fmt.Sprintf("/cart/items/%d", itemID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	decodeData(t, w, &payload)
	assert.Empty(t, payload.Cart.Items)
	assert.Nil(t, payload.Cart.RestaurantID)

	// Removing again is a 404.
	w = doJSON(t, r, "DELETE", fmt.Sprintf("/cart/items/%d", itemID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartCouponLifecycle(t *testing.T) {
	db := openTestDB(t, "cartctl_coupon")
	seedCatalog(t, db)
	db.Create(&models.Coupon{Code: "SAVE10", DiscountType: models.DiscountPercent, DiscountValue: decimal.RequireFromString("10"), Active: true})
	r := setupCartRouter(db)

	w := doJSON(t, r, "POST", "/cart/items", map[string]interface{}{"menu_id": 1, "quantity": 2})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, "POST", "/cart/items", map[string]interface{}{"menu_id": 2, "quantity": 1})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", "/cart/coupon", map[string]interface{}{"code": "save10"})
	assert.Equal(t, http.StatusOK, w.Code)

	var payload cartPayload
	decodeData(t, w, &payload)
	assert.True(t, payload.Totals.DiscountAmount.Equal(decimal.RequireFromString("2.00")), "discount %s", payload.Totals.DiscountAmount)
	assert.True(t, payload.Totals.GrandTotal.Equal(decimal.RequireFromString("22.60")), "grand %s", payload.Totals.GrandTotal)

	w = doJSON(t, r, "POST", "/cart/coupon", map[string]interface{}{"code": "BOGUS99"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "DELETE", "/cart/coupon", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &payload)
	assert.True(t, payload.Totals.DiscountAmount.IsZero())
}
