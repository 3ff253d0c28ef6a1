package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/utils"
)

type CouponController struct {
	DB *gorm.DB
}

func NewCouponController(db *gorm.DB) *CouponController {
	return &CouponController{DB: db}
}

// GetAllCoupons (admin)
func (cc *CouponController) GetAllCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := cc.DB.Find(&coupons).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of coupons", coupons)
}

// CreateCoupon (admin)
func (cc *CouponController) CreateCoupon(c *gin.Context) {
	type reqBody struct {
		Code          string           `json:"code" binding:"required,min=3,max=20"`
		DiscountType  string           `json:"discount_type" binding:"required"`
		DiscountValue decimal.Decimal  `json:"discount_value" binding:"required"`
		MinSubtotal   *decimal.Decimal `json:"min_subtotal"`
		ExpiresAt     *time.Time       `json:"expires_at"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.DiscountType != models.DiscountPercent && body.DiscountType != models.DiscountFlat {
		utils.RespondError(c, http.StatusBadRequest, errors.New("discount_type must be percent or flat"))
		return
	}
	if !body.DiscountValue.IsPositive() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("discount_value must be positive"))
		return
	}
	if body.DiscountType == models.DiscountPercent && body.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("percent discount cannot exceed 100"))
		return
	}

	coupon := models.Coupon{
		Code:          strings.ToUpper(body.Code),
		DiscountType:  body.DiscountType,
		DiscountValue: body.DiscountValue,
		ExpiresAt:     body.ExpiresAt,
		Active:        true,
	}
	if body.MinSubtotal != nil {
		coupon.MinSubtotal = *body.MinSubtotal
	}

	if err := cc.DB.Create(&coupon).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Coupon created", coupon)
}

// UpdateCoupon (admin) -> activate/deactivate or move the expiry
func (cc *CouponController) UpdateCoupon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("coupon_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid coupon id"))
		return
	}

	var coupon models.Coupon
	if err := cc.DB.First(&coupon, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type reqBody struct {
		Active    *bool      `json:"active"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Active != nil {
		coupon.Active = *body.Active
	}
	if body.ExpiresAt != nil {
		coupon.ExpiresAt = body.ExpiresAt
	}

	if err := cc.DB.Save(&coupon).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Coupon updated", coupon)
}

// DeleteCoupon (admin)
func (cc *CouponController) DeleteCoupon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("coupon_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid coupon id"))
		return
	}

	if err := cc.DB.Delete(&models.Coupon{}, uint(id)).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Coupon deleted", gin.H{"coupon_id": id})
}
