// auth_test.go - Tests for the login endpoint and session lifecycle
// Run with: go test ./...

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-devicetrust-backend/database"
	"go-devicetrust-backend/middleware"
	"go-devicetrust-backend/models"
)

// setupTestDB points the global connection at a fresh throwaway database.
func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.Connect(filepath.Join(t.TempDir(), "test.db")))
}

// setupRouter mirrors the route wiring in main.go.
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/login", Login)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("/logout", Logout)
		api.GET("/me", Me)
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/requests/pending", ListPendingRequests)
		admin.GET("/requests/count", PendingRequestCount)
		admin.GET("/requests", RequestHistory)
		admin.POST("/requests/:id/approve", ApproveRequest)
		admin.POST("/requests/:id/reject", RejectRequest)
		admin.DELETE("/requests/:id", PurgeRequest)

		admin.GET("/devices", ListDevices)
		admin.POST("/devices", AddDevice)
		admin.DELETE("/devices/:id", RevokeDevice)

		admin.GET("/users", ListUsers)
		admin.POST("/users", CreateUser)
		admin.DELETE("/users/:id", DeleteUser)

		admin.GET("/dashboard", DashboardData)
	}
	return r
}

func createTestUser(t *testing.T, username, password string, role models.Role) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{Username: username, PasswordHash: string(hash), Role: role}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

// doJSON performs one request and returns the recorder.
func doJSON(router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent/1.0")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, router *gin.Engine, username, password, fingerprint string) string {
	t.Helper()
	w := doJSON(router, "POST", "/login", "", LoginInput{
		Username: username, Password: password, Fingerprint: fingerprint,
	})
	require.Equal(t, http.StatusOK, w.Code, "login response: %s", w.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["token"].(string)
}

func TestLoginOutcomes(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()
	nurse := createTestUser(t, "nurse1", "nursepass", models.RoleStandard)

	// Unknown user: deny, generic message.
	w := doJSON(router, "POST", "/login", "", LoginInput{Username: "ghost", Password: "x", Fingerprint: "F1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid username or password")

	// Wrong password: same deny, same message.
	w = doJSON(router, "POST", "/login", "", LoginInput{Username: "nurse1", Password: "x", Fingerprint: "F1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid username or password")

	// Missing fingerprint: rejected before the gate runs.
	w = doJSON(router, "POST", "/login", "", map[string]string{"username": "nurse1", "password": "nursepass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Untrusted device: pending.
	w = doJSON(router, "POST", "/login", "", LoginInput{Username: "nurse1", Password: "nursepass", Fingerprint: "F1"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "device not recognized")

	// Trusted device: allow.
	require.NoError(t, database.DB.Create(&models.AuthorizedDevice{
		UserID: nurse.ID, Fingerprint: "F9", Label: "ward laptop",
	}).Error)
	token := loginToken(t, router, "nurse1", "nursepass", "F9")
	assert.NotEmpty(t, token)
}

func TestAdminLoginBypassesDeviceCheck(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()
	createTestUser(t, "admin", "adminpass", models.RoleAdministrator)

	token := loginToken(t, router, "admin", "adminpass", "brand-new-device")

	w := doJSON(router, "GET", "/api/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "administrator")
}

func TestLogoutEndsSession(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()
	createTestUser(t, "admin", "adminpass", models.RoleAdministrator)
	token := loginToken(t, router, "admin", "adminpass", "F1")

	w := doJSON(router, "GET", "/api/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The token is dead server-side even though the JWT has not expired.
	w = doJSON(router, "GET", "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()

	w := doJSON(router, "GET", "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, "GET", "/api/me", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
