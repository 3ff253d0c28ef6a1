package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/utils"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetMyNotifications -> the authenticated user's notifications, newest first
func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var notifs []models.Notification
	if err := nc.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", notifs)
}

// MarkRead
func (nc *NotificationController) MarkRead(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	id, err := strconv.ParseUint(c.Param("notif_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification id"))
		return
	}

	var notif models.Notification
	if err := nc.DB.Where("id = ? AND user_id = ?", uint(id), userID).First(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	notif.IsRead = true
	if err := nc.DB.Save(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked read", notif)
}
