// users.go - Administrator user management

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"go-devicetrust-backend/database"
	"go-devicetrust-backend/middleware"
	"go-devicetrust-backend/models"
)

// ListUsers returns all accounts ordered by username.
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Order("username ASC").Find(&users).Error; err != nil {
		storeError(c, "list users failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUserInput provisions a new account.
type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// CreateUser provisions an account. Usernames are unique case-insensitively,
// so "Nurse1" cannot coexist with "nurse1".
func CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := models.ParseRole(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var count int64
	if err := database.DB.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", input.Username).
		Count(&count).Error; err != nil {
		storeError(c, "user lookup failed", err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		storeError(c, "password hash failed", err)
		return
	}

	user := models.User{Username: input.Username, PasswordHash: string(hash), Role: role}
	if err := database.DB.Create(&user).Error; err != nil {
		storeError(c, "user create failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user created", "user": user})
}

// DeleteUser removes an account. An administrator may not delete their own
// account, which keeps the system from locking every admin out at once.
func DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	caller, _ := middleware.CurrentUser(c)
	if caller.ID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	res := database.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		storeError(c, "user delete failed", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
