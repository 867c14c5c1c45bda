// users_test.go - Tests for administrator user management

package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-devicetrust-backend/database"
	"go-devicetrust-backend/models"
)

func TestCreateUserValidation(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()
	createTestUser(t, "admin", "adminpass", models.RoleAdministrator)
	adminToken := loginToken(t, router, "admin", "adminpass", "admin-console")

	// Happy path.
	w := doJSON(router, "POST", "/api/admin/users", adminToken, CreateUserInput{
		Username: "nurse1", Password: "nursepass", Role: "standard",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Usernames collide case-insensitively.
	w = doJSON(router, "POST", "/api/admin/users", adminToken, CreateUserInput{
		Username: "NURSE1", Password: "other", Role: "standard",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Roles come from the closed enumeration, with label normalization.
	w = doJSON(router, "POST", "/api/admin/users", adminToken, CreateUserInput{
		Username: "nurse2", Password: "pw", Role: "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "POST", "/api/admin/users", adminToken, CreateUserInput{
		Username: "nurse2", Password: "pw", Role: " Administrator ",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.User
	require.NoError(t, database.DB.Where("username = ?", "nurse2").First(&created).Error)
	assert.Equal(t, models.RoleAdministrator, created.Role)

	// The created account can log in (admin role bypasses the device check).
	token := loginToken(t, router, "nurse2", "pw", "F1")
	assert.NotEmpty(t, token)
}

func TestDeleteUserGuards(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()
	admin := createTestUser(t, "admin", "adminpass", models.RoleAdministrator)
	nurse := createTestUser(t, "nurse1", "nursepass", models.RoleStandard)
	adminToken := loginToken(t, router, "admin", "adminpass", "admin-console")

	// Self-deletion is refused.
	w := doJSON(router, "DELETE", fmt.Sprintf("/api/admin/users/%d", admin.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot delete your own account")

	// Deleting someone else works, and their credentials stop verifying.
	w = doJSON(router, "DELETE", fmt.Sprintf("/api/admin/users/%d", nurse.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/login", "", LoginInput{Username: "nurse1", Password: "nursepass", Fingerprint: "F1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown ids are a reported no-op.
	w = doJSON(router, "DELETE", "/api/admin/users/9999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUsersOrdered(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()
	createTestUser(t, "zoe", "pw", models.RoleStandard)
	createTestUser(t, "admin", "adminpass", models.RoleAdministrator)
	adminToken := loginToken(t, router, "admin", "adminpass", "admin-console")

	w := doJSON(router, "GET", "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "zoe")
	// Password hashes never leave the server.
	assert.NotContains(t, w.Body.String(), "PasswordHash")
	assert.NotContains(t, w.Body.String(), "password_hash")
}
