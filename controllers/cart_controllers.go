package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/services"
	"github.com/yeremiapane/food-order-app/utils"
)

type CartController struct {
	DB      *gorm.DB
	Service *services.CartService
}

func NewCartController(db *gorm.DB, pricing services.PricingConfig) *CartController {
	return &CartController{
		DB:      db,
		Service: services.NewCartService(NewMenuLookup(db), NewCouponLookup(db), pricing),
	}
}

type cartResponse struct {
	Cart   models.Cart         `json:"cart"`
	Totals models.PricedTotals `json:"totals"`
}

// loadOrCreateCart fetches the owner's cart with items, creating an empty
// one on first use. The row lock serializes concurrent writers on the same
// cart; the sqlite test driver ignores the clause.
func loadOrCreateCart(db *gorm.DB, ownerID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").Where("owner_id = ?", ownerID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{OwnerID: ownerID}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// saveCart persists the mutated aggregate: line items are replaced
// wholesale inside the caller's transaction so the stored cart always
// matches the snapshot the service priced.
func saveCart(tx *gorm.DB, cart *models.Cart) error {
	if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	for i := range cart.Items {
		cart.Items[i].CartID = cart.ID
	}
	if len(cart.Items) > 0 {
		if err := tx.Create(&cart.Items).Error; err != nil {
			return err
		}
	}
	return tx.Omit(clause.Associations).Save(cart).Error
}

// GetCart -> current cart with recomputed totals
func (cc *CartController) GetCart(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	cart, err := loadOrCreateCart(cc.DB, userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart detail", cartResponse{
		Cart:   *cart,
		Totals: cc.Service.ComputeTotals(cart),
	})
}

// AddItem -> add or merge a line item into the cart
func (cc *CartController) AddItem(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	type reqBody struct {
		MenuID        uint              `json:"menu_id" binding:"required"`
		Quantity      int               `json:"quantity" binding:"required"`
		Customization map[string]string `json:"customization"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tx := cc.DB.Begin()
	cart, err := loadOrCreateCart(tx, userID)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	totals, err := cc.Service.AddItem(cart, body.MenuID, body.Quantity, body.Customization)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, statusForServiceError(err), err)
		return
	}

	if err := saveCart(tx, cart); err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	tx.Commit()

	utils.RespondJSON(c, http.StatusOK, "Item added to cart", cartResponse{Cart: *cart, Totals: totals})
}

// UpdateItem -> change a line's quantity (0 removes it)
func (cc *CartController) UpdateItem(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	type reqBody struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tx := cc.DB.Begin()
	cart, err := loadOrCreateCart(tx, userID)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	totals, err := cc.Service.UpdateItemQuantity(cart, uint(itemID), *body.Quantity)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, statusForServiceError(err), err)
		return
	}

	if err := saveCart(tx, cart); err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	tx.Commit()

	utils.RespondJSON(c, http.StatusOK, "Cart item updated", cartResponse{Cart: *cart, Totals: totals})
}

// RemoveItem -> delete one line item
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	tx := cc.DB.Begin()
	cart, err := loadOrCreateCart(tx, userID)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	totals, err := cc.Service.RemoveItem(cart, uint(itemID))
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, statusForServiceError(err), err)
		return
	}

	if err := saveCart(tx, cart); err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	tx.Commit()

	utils.RespondJSON(c, http.StatusOK, "Cart item removed", cartResponse{Cart: *cart, Totals: totals})
}

// ClearCart -> empty the cart and drop the coupon
func (cc *CartController) ClearCart(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	tx := cc.DB.Begin()
	cart, err := loadOrCreateCart(tx, userID)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cc.Service.Clear(cart)

	if err := saveCart(tx, cart); err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	tx.Commit()

	utils.RespondJSON(c, http.StatusOK, "Cart cleared", cartResponse{
		Cart:   *cart,
		Totals: cc.Service.ComputeTotals(cart),
	})
}

// ApplyCoupon -> validate a code and snapshot its discount on the cart
func (cc *CartController) ApplyCoupon(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	type reqBody struct {
		Code string `json:"code" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tx := cc.DB.Begin()
	cart, err := loadOrCreateCart(tx, userID)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	totals, err := cc.Service.ApplyCoupon(cart, body.Code)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, statusForServiceError(err), err)
		return
	}

	if err := saveCart(tx, cart); err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	tx.Commit()

	utils.RespondJSON(c, http.StatusOK, "Coupon applied", cartResponse{Cart: *cart, Totals: totals})
}

// RemoveCoupon -> drop the applied coupon
func (cc *CartController) RemoveCoupon(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	tx := cc.DB.Begin()
	cart, err := loadOrCreateCart(tx, userID)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	totals := cc.Service.RemoveCoupon(cart)

	if err := saveCart(tx, cart); err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	tx.Commit()

	utils.RespondJSON(c, http.StatusOK, "Coupon removed", cartResponse{Cart: *cart, Totals: totals})
}
