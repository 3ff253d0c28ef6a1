package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-order-app/controllers"
	"github.com/yeremiapane/food-order-app/middlewares"
	"github.com/yeremiapane/food-order-app/services"
)

func SetupRouter(db *gorm.DB, pricing services.PricingConfig) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Global per-IP limit, registered before any route so it wraps them all.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	cartCtrl := controllers.NewCartController(db, pricing)
	orderCtrl := controllers.NewOrderController(db, pricing)
	couponCtrl := controllers.NewCouponController(db)
	notificationCtrl := controllers.NewNotificationController(db)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter for login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Browsing needs no account
	r.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	r.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurantByID)
	r.GET("/restaurants/:restaurant_id/menus", restaurantCtrl.GetRestaurantMenus)
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuByID)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)
		auth.POST("/logout", userCtrl.Logout)

		// CART
		auth.GET("/cart", cartCtrl.GetCart)
		auth.POST("/cart/items", cartCtrl.AddItem)
		auth.PATCH("/cart/items/:item_id", cartCtrl.UpdateItem)
		auth.DELETE("/cart/items/:item_id", cartCtrl.RemoveItem)
		auth.DELETE("/cart", cartCtrl.ClearCart)
		auth.POST("/cart/coupon", cartCtrl.ApplyCoupon)
		auth.DELETE("/cart/coupon", cartCtrl.RemoveCoupon)

		// ORDERS
		auth.POST("/orders", orderCtrl.Checkout)
		auth.GET("/orders", orderCtrl.GetMyOrders)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)
		auth.POST("/orders/:order_id/rating", orderCtrl.RateOrder)
		auth.POST("/orders/:order_id/reorder", orderCtrl.Reorder)

		// NOTIFICATIONS
		auth.GET("/notifications", notificationCtrl.GetMyNotifications)
		auth.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkRead)

		// Live order status updates
		auth.GET("/ws/orders", controllers.OrderEventsHandler)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireAdmin())
	{
		admin.GET("/users", userCtrl.GetAllUsers)

		// RESTAURANTS
		admin.POST("/restaurants", restaurantCtrl.CreateRestaurant)
		admin.PATCH("/restaurants/:restaurant_id", restaurantCtrl.UpdateRestaurant)
		admin.DELETE("/restaurants/:restaurant_id", restaurantCtrl.DeleteRestaurant)

		// MENU CATEGORIES
		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		// MENUS
		admin.POST("/menus", menuCtrl.CreateMenu)
		admin.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
		admin.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

		// COUPONS
		admin.GET("/coupons", couponCtrl.GetAllCoupons)
		admin.POST("/coupons", couponCtrl.CreateCoupon)
		admin.PATCH("/coupons/:coupon_id", couponCtrl.UpdateCoupon)
		admin.DELETE("/coupons/:coupon_id", couponCtrl.DeleteCoupon)

		// ORDERS
		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		admin.POST("/orders/:order_id/cancel", orderCtrl.CancelOrder)

		// DASHBOARD
		admin.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
	}

	return r
}
