package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/food-order-app/controllers"
	"github.com/yeremiapane/food-order-app/models"
)

func setupUserRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()
	userCtrl := controllers.NewUserController(db)
	r.POST("/register", userCtrl.Register)
	r.POST("/login", userCtrl.Login)
	r.GET("/profile", authAs(1, models.RoleCustomer), userCtrl.GetProfile)
	return r
}

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB(t, "userctl")
	r := setupUserRouter(db)

	w := doJSON(t, r, "POST", "/register", map[string]interface{}{
		"name":     "Alice Tester",
		"email":    "Alice@Example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Registration always creates customers, email is normalized.
	var user models.User
	assert.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, "supersecret", user.Password)

	w = doJSON(t, r, "POST", "/login", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Token    string `json:"token"`
		UserRole string `json:"user_role"`
	}
	decodeData(t, w, &data)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, models.RoleCustomer, data.UserRole)
}

func TestLoginWrongPassword(t *testing.T) {
	db := openTestDB(t, "userctl_badpw")
	r := setupUserRouter(db)

	w := doJSON(t, r, "POST", "/register", map[string]interface{}{
		"name":     "Bob Tester",
		"email":    "bob@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "POST", "/login", map[string]interface{}{
		"email":    "bob@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	db := openTestDB(t, "userctl_shortpw")
	r := setupUserRouter(db)

	w := doJSON(t, r, "POST", "/register", map[string]interface{}{
		"name":     "Carol Tester",
		"email":    "carol@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
