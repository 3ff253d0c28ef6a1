package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenus -> optionally filtered by restaurant_id / category_id
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	query := mc.DB.Preload("Category")

	if restaurantID := c.Query("restaurant_id"); restaurantID != "" {
		query = query.Where("restaurant_id = ?", restaurantID)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var menus []models.Menu
	if err := query.Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByID
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu id"))
		return
	}

	var menu models.Menu
	if err := mc.DB.Preload("Category").First(&menu, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// CreateMenu (admin)
func (mc *MenuController) CreateMenu(c *gin.Context) {
	type reqBody struct {
		RestaurantID uint            `json:"restaurant_id" binding:"required"`
		CategoryID   uint            `json:"category_id" binding:"required"`
		Name         string          `json:"name" binding:"required"`
		Price        decimal.Decimal `json:"price" binding:"required"`
		Description  string          `json:"description"`
		ImageUrl     *string         `json:"image_url"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Price.IsNegative() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price must not be negative"))
		return
	}

	menu := models.Menu{
		RestaurantID: body.RestaurantID,
		CategoryID:   body.CategoryID,
		Name:         body.Name,
		Price:        body.Price,
		Description:  body.Description,
		ImageUrl:     body.ImageUrl,
		IsAvailable:  true,
	}
	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// UpdateMenu (admin)
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu id"))
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type reqBody struct {
		CategoryID  *uint            `json:"category_id"`
		Name        *string          `json:"name"`
		Price       *decimal.Decimal `json:"price"`
		Description *string          `json:"description"`
		ImageUrl    *string          `json:"image_url"`
		IsAvailable *bool            `json:"is_available"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.CategoryID != nil {
		menu.CategoryID = *body.CategoryID
	}
	if body.Name != nil {
		menu.Name = *body.Name
	}
	if body.Price != nil {
		if body.Price.IsNegative() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must not be negative"))
			return
		}
		menu.Price = *body.Price
	}
	if body.Description != nil {
		menu.Description = *body.Description
	}
	if body.ImageUrl != nil {
		menu.ImageUrl = body.ImageUrl
	}
	if body.IsAvailable != nil {
		menu.IsAvailable = *body.IsAvailable
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// DeleteMenu (admin)
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu id"))
		return
	}

	if err := mc.DB.Delete(&models.Menu{}, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": id})
}
