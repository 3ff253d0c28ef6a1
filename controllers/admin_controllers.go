package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats -> order counts per status, delivered revenue and the
// best-selling items
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var stats struct {
		OrdersByStatus []struct {
			Status string `json:"status"`
			Count  int64  `json:"count"`
		} `json:"orders_by_status"`
		Revenue  float64 `json:"revenue"`
		TopItems []struct {
			MenuID   uint    `json:"menu_id"`
			MenuName string  `json:"menu_name"`
			Count    int64   `json:"count"`
			Revenue  float64 `json:"revenue"`
		} `json:"top_items"`
		Customers int64 `json:"customers"`
	}

	if err := ac.DB.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&stats.OrdersByStatus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Revenue counts delivered orders only.
	ac.DB.Model(&models.Order{}).
		Where("status = ?", models.StatusDelivered).
		Select("COALESCE(SUM(grand_total), 0)").
		Row().Scan(&stats.Revenue)

	ac.DB.Raw(`
		SELECT oi.menu_id as menu_id, oi.name as menu_name,
		SUM(oi.quantity) as count, SUM(oi.unit_price * oi.quantity) as revenue
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.status != 'cancelled'
		GROUP BY oi.menu_id, oi.name
		ORDER BY count DESC
		LIMIT 10
	`).Scan(&stats.TopItems)

	ac.DB.Model(&models.User{}).
		Where("role = ?", models.RoleCustomer).
		Count(&stats.Customers)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
