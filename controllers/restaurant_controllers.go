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

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

// GetAllRestaurants
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := rc.DB.Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

// GetRestaurantByID
func (rc *RestaurantController) GetRestaurantByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("restaurant_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// GetRestaurantMenus -> the restaurant's menu, available items only
func (rc *RestaurantController) GetRestaurantMenus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("restaurant_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}

	var menus []models.Menu
	if err := rc.DB.Preload("Category").
		Where("restaurant_id = ? AND is_available = ?", uint(id), true).
		Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant menus", menus)
}

// CreateRestaurant (admin)
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	type reqBody struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Address     string  `json:"address" binding:"required"`
		Phone       string  `json:"phone"`
		ImageUrl    *string `json:"image_url"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant := models.Restaurant{
		Name:        body.Name,
		Description: body.Description,
		Address:     body.Address,
		Phone:       body.Phone,
		ImageUrl:    body.ImageUrl,
		IsOpen:      true,
	}
	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// UpdateRestaurant (admin)
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("restaurant_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type reqBody struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Address     *string `json:"address"`
		Phone       *string `json:"phone"`
		ImageUrl    *string `json:"image_url"`
		IsOpen      *bool   `json:"is_open"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		restaurant.Name = *body.Name
	}
	if body.Description != nil {
		restaurant.Description = *body.Description
	}
	if body.Address != nil {
		restaurant.Address = *body.Address
	}
	if body.Phone != nil {
		restaurant.Phone = *body.Phone
	}
	if body.ImageUrl != nil {
		restaurant.ImageUrl = body.ImageUrl
	}
	if body.IsOpen != nil {
		restaurant.IsOpen = *body.IsOpen
	}

	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

// DeleteRestaurant (admin)
func (rc *RestaurantController) DeleteRestaurant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("restaurant_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}

	if err := rc.DB.Delete(&models.Restaurant{}, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", gin.H{"restaurant_id": id})
}
