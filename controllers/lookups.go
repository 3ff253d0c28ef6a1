package controllers

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yeremiapane/food-order-app/models"
	"github.com/yeremiapane/food-order-app/services"
)

// gormMenuLookup adapts the database to the services.MenuLookup port.
type gormMenuLookup struct {
	db *gorm.DB
}

func NewMenuLookup(db *gorm.DB) services.MenuLookup {
	return gormMenuLookup{db: db}
}

func (l gormMenuLookup) GetMenuItem(id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := l.db.First(&menu, id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

// gormCouponLookup adapts the database to the services.CouponLookup port.
// Unknown codes come back as (nil, nil); the service treats that as an
// invalid coupon.
type gormCouponLookup struct {
	db *gorm.DB
}

func NewCouponLookup(db *gorm.DB) services.CouponLookup {
	return gormCouponLookup{db: db}
}

func (l gormCouponLookup) GetCoupon(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := l.db.Where("code = ?", strings.ToUpper(code)).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}
