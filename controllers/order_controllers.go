package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/food-order-app/events"
	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/services"
	"github.com/yeremiapane/food-order-app/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Carts  *services.CartService
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB, pricing services.PricingConfig) *OrderController {
	menus := NewMenuLookup(db)
	return &OrderController{
		DB:     db,
		Carts:  services.NewCartService(menus, NewCouponLookup(db), pricing),
		Orders: services.NewOrderService(menus, pricing),
	}
}

// Checkout -> freeze the priced cart into a pending order, then clear the
// cart. Both steps run inside one transaction so a failed clear never
// leaves a placed order next to a still-full cart.
func (oc *OrderController) Checkout(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	type reqBody struct {
		DeliveryAddress string `json:"delivery_address" binding:"required"`
		PaymentMethod   string `json:"payment_method" binding:"required"`
		ContactPhone    string `json:"contact_phone"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tx := oc.DB.Begin()
	cart, err := loadOrCreateCart(tx, userID)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	order, err := oc.Orders.PlaceOrder(cart, body.DeliveryAddress, body.PaymentMethod, body.ContactPhone)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, statusForServiceError(err), err)
		return
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.Carts.Clear(cart)
	if err := saveCart(tx, cart); err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	notif := models.Notification{
		UserID:  userID,
		OrderID: &order.ID,
		Title:   "Order placed",
		Message: fmt.Sprintf("Order %s placed, total %s", order.OrderNumber, utils.FormatCurrency(order.GrandTotal)),
	}
	if err := tx.Create(&notif).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	tx.Commit()

	events.BroadcastOrderCreated(*order)
	utils.InfoLogger.Printf("Order %s placed by user %d (%s)", order.OrderNumber, userID, utils.FormatCurrency(order.GrandTotal))

	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// GetMyOrders -> the customer's order history, newest first
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var orders []models.Order
	if err := oc.DB.Preload("Items").Preload("Restaurant").
		Where("customer_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail of one order; customers only see their own
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, role, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	order, ok := oc.findOrder(c)
	if !ok {
		return
	}

	if role != models.RoleAdmin && order.CustomerID != userID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CancelOrder -> customer backs out of an order that has not started
// preparing; admins may cancel anything non-terminal via the admin route.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	userID, role, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	type reqBody struct {
		Reason string `json:"reason"`
	}
	// body is optional; an empty payload cancels without a reason
	var body reqBody
	_ = c.ShouldBindJSON(&body)

	tx := oc.DB.Begin()
	order, ok := oc.findOrderForUpdate(c, tx)
	if !ok {
		tx.Rollback()
		return
	}

	if role != models.RoleAdmin && order.CustomerID != userID {
		tx.Rollback()
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	if err := oc.Orders.Cancel(order, role, body.Reason); err != nil {
		tx.Rollback()
		utils.RespondError(c, statusForServiceError(err), err)
		return
	}

	if err := tx.Save(order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	message := fmt.Sprintf("Order %s was cancelled", order.OrderNumber)
	if body.Reason != "" {
		message = fmt.Sprintf("Order %s was cancelled: %s", order.OrderNumber, body.Reason)
	}
	notif := models.Notification{
		UserID:  order.CustomerID,
		OrderID: &order.ID,
		Title:   "Order cancelled",
		Message: message,
	}
	if err := tx.Create(&notif).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	tx.Commit()

	events.BroadcastOrderCancelled(*order)
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// RateOrder -> attach a one-time star rating to a delivered order
func (oc *OrderController) RateOrder(c *gin.Context) {
	userID, role, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	type reqBody struct {
		Stars  int     `json:"stars" binding:"required"`
		Review *string `json:"review"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tx := oc.DB.Begin()
	order, ok := oc.findOrderForUpdate(c, tx)
	if !ok {
		tx.Rollback()
		return
	}

	if role != models.RoleAdmin && order.CustomerID != userID {
		tx.Rollback()
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	if err := oc.Orders.AttachRating(order, body.Stars, body.Review); err != nil {
		tx.Rollback()
		utils.RespondError(c, statusForServiceError(err), err)
		return
	}

	if err := tx.Save(order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	tx.Commit()

	events.BroadcastOrderRated(*order)
	utils.RespondJSON(c, http.StatusOK, "Order rated", order)
}

// Reorder -> rebuild the cart from a past order at current menu prices
func (oc *OrderController) Reorder(c *gin.Context) {
	userID, role, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	order, ok := oc.findOrder(c)
	if !ok {
		return
	}

	if role != models.RoleAdmin && order.CustomerID != userID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	fresh, err := oc.Orders.Reorder(order)
	if err != nil {
		utils.RespondError(c, statusForServiceError(err), err)
		return
	}

	tx := oc.DB.Begin()
	cart, err := loadOrCreateCart(tx, userID)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Reorder replaces whatever the cart held before.
	cart.Items = fresh.Items
	cart.RestaurantID = fresh.RestaurantID
	cart.CouponCode = nil
	cart.CouponType = nil
	cart.CouponValue = nil

	if err := saveCart(tx, cart); err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	tx.Commit()

	utils.RespondJSON(c, http.StatusOK, "Cart rebuilt from order", cartResponse{
		Cart:   *cart,
		Totals: oc.Carts.ComputeTotals(cart),
	})
}

/*
========================================
 ADMIN ORDER MANAGEMENT
========================================
*/

// GetAllOrders -> admin list, optionally filtered by status
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Preload("Items").Preload("Restaurant")
	if status := c.Query("status"); status != "" {
		if !models.ValidStatus(models.OrderStatus(status)) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown order status"))
			return
		}
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// UpdateOrderStatus -> admin advances the order one stage
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	_, role, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	type reqBody struct {
		Status string `json:"status" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tx := oc.DB.Begin()
	order, ok := oc.findOrderForUpdate(c, tx)
	if !ok {
		tx.Rollback()
		return
	}

	if err := oc.Orders.AdvanceStatus(order, models.OrderStatus(body.Status), role); err != nil {
		tx.Rollback()
		utils.RespondError(c, statusForServiceError(err), err)
		return
	}

	if err := tx.Save(order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	notif := models.Notification{
		UserID:  order.CustomerID,
		OrderID: &order.ID,
		Title:   "Order update",
		Message: fmt.Sprintf("Order %s is now %s", order.OrderNumber, order.Status),
	}
	if err := tx.Create(&notif).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	tx.Commit()

	events.BroadcastOrderStatus(*order)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// findOrder loads the order in the path, responding 404/400 itself.
func (oc *OrderController) findOrder(c *gin.Context) (*models.Order, bool) {
	id, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return nil, false
	}

	var order models.Order
	if err := oc.DB.Preload("Items").Preload("Restaurant").First(&order, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}
	return &order, true
}

// findOrderForUpdate is the mutating variant: it loads the order inside
// the caller's transaction holding a row lock, so two writers racing on
// one order serialize. sqlite ignores the locking clause in tests.
func (oc *OrderController) findOrderForUpdate(c *gin.Context, tx *gorm.DB) (*models.Order, bool) {
	id, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return nil, false
	}

	var order models.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").Preload("Restaurant").First(&order, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return nil, false
	}
	return &order, true
}
