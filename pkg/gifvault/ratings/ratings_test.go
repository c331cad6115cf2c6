package ratings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gifvault/gifvault/pkg/gifvault/auth"
	"github.com/gifvault/gifvault/pkg/gifvault/models"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	api := r.Group("/api")
	api.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(api)

	return r
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestGif(t *testing.T, db *gorm.DB, giphyID string, ownerID uint) models.Gif {
	gif := models.Gif{
		GiphyID:     giphyID,
		CreatedByID: &ownerID,
		Title:       "Test GIF",
		Type:        "gif",
		Rating:      "g",
	}
	if err := db.Create(&gif).Error; err != nil {
		t.Fatalf("Failed to create test gif: %v", err)
	}
	return gif
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Email)
	return "Bearer " + token
}

func doRequest(router *gin.Engine, method, path, body, authHeader string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateRating(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	createTestGif(t, db, "abc123", user.ID)

	resp := doRequest(router, "POST", "/api/ratings", `{"gif_id": "abc123", "rating": 4}`, getAuthHeader(user))

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var rating models.Rating
	json.Unmarshal(resp.Body.Bytes(), &rating)
	if rating.Rating != 4 || rating.GifID != "abc123" {
		t.Errorf("Unexpected rating response: %+v", rating)
	}
	if rating.UserID != user.ID {
		t.Errorf("Expected user_id %d, got %d", user.ID, rating.UserID)
	}
}

func TestCreateRatingUpsert(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	createTestGif(t, db, "abc123", user.ID)

	resp := doRequest(router, "POST", "/api/ratings", `{"gif_id": "abc123", "rating": 3}`, getAuthHeader(user))
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.Code)
	}

	// Rating the same GIF again replaces the value, never adds a row
	resp = doRequest(router, "POST", "/api/ratings", `{"gif_id": "abc123", "rating": 5}`, getAuthHeader(user))
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201 on re-rate, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.Rating{}).Where("user_id = ? AND gif_id = ?", user.ID, "abc123").Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 rating row, got %d", count)
	}

	var stored models.Rating
	db.Where("user_id = ? AND gif_id = ?", user.ID, "abc123").First(&stored)
	if stored.Rating != 5 {
		t.Errorf("Expected rating 5 after re-rate, got %d", stored.Rating)
	}
}

func TestCreateRatingOutOfRange(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	createTestGif(t, db, "abc123", user.ID)

	for _, body := range []string{
		`{"gif_id": "abc123", "rating": 0}`,
		`{"gif_id": "abc123", "rating": 6}`,
		`{"gif_id": "abc123"}`,
		`{"rating": 3}`,
	} {
		resp := doRequest(router, "POST", "/api/ratings", body, getAuthHeader(user))
		if resp.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for %s, got %d", body, resp.Code)
		}
	}

	var count int64
	db.Model(&models.Rating{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no ratings stored, got %d", count)
	}
}

func TestListRatings(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")
	createTestGif(t, db, "abc123", user.ID)

	db.Create(&models.Rating{UserID: user.ID, GifID: "abc123", Rating: 5})
	db.Create(&models.Rating{UserID: other.ID, GifID: "abc123", Rating: 2})

	resp := doRequest(router, "GET", "/api/ratings", "", getAuthHeader(user))
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	var ratings []models.Rating
	json.Unmarshal(resp.Body.Bytes(), &ratings)
	if len(ratings) != 1 {
		t.Fatalf("Expected only own ratings, got %d", len(ratings))
	}
	if ratings[0].Rating != 5 {
		t.Errorf("Expected rating 5, got %d", ratings[0].Rating)
	}
}

func TestShowRating(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	createTestGif(t, db, "abc123", user.ID)

	rating := models.Rating{UserID: user.ID, GifID: "abc123", Rating: 4}
	db.Create(&rating)

	resp := doRequest(router, "GET", fmt.Sprintf("/api/ratings/%d", rating.ID), "", getAuthHeader(user))
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	var got models.Rating
	json.Unmarshal(resp.Body.Bytes(), &got)
	if got.Rating != 4 {
		t.Errorf("Expected rating 4, got %d", got.Rating)
	}
}

func TestShowRatingNotOwner(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")
	createTestGif(t, db, "abc123", user.ID)

	rating := models.Rating{UserID: user.ID, GifID: "abc123", Rating: 4}
	db.Create(&rating)

	resp := doRequest(router, "GET", fmt.Sprintf("/api/ratings/%d", rating.ID), "", getAuthHeader(other))
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.Code)
	}
}

func TestShowRatingNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	resp := doRequest(router, "GET", "/api/ratings/9999", "", getAuthHeader(user))
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestUpdateRating(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	createTestGif(t, db, "abc123", user.ID)

	rating := models.Rating{UserID: user.ID, GifID: "abc123", Rating: 2}
	db.Create(&rating)

	resp := doRequest(router, "PUT", fmt.Sprintf("/api/ratings/%d", rating.ID), `{"rating": 5}`, getAuthHeader(user))
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var stored models.Rating
	db.First(&stored, rating.ID)
	if stored.Rating != 5 {
		t.Errorf("Expected rating 5 after update, got %d", stored.Rating)
	}
}

func TestUpdateRatingNotOwner(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")
	createTestGif(t, db, "abc123", user.ID)

	rating := models.Rating{UserID: user.ID, GifID: "abc123", Rating: 2}
	db.Create(&rating)

	resp := doRequest(router, "PUT", fmt.Sprintf("/api/ratings/%d", rating.ID), `{"rating": 5}`, getAuthHeader(other))
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.Code)
	}

	var stored models.Rating
	db.First(&stored, rating.ID)
	if stored.Rating != 2 {
		t.Errorf("Expected rating to survive foreign update, got %d", stored.Rating)
	}
}

func TestDeleteRating(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	createTestGif(t, db, "abc123", user.ID)

	rating := models.Rating{UserID: user.ID, GifID: "abc123", Rating: 3}
	db.Create(&rating)

	resp := doRequest(router, "DELETE", fmt.Sprintf("/api/ratings/%d", rating.ID), "", getAuthHeader(user))
	if resp.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", resp.Code)
	}

	var count int64
	db.Model(&models.Rating{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected rating to be deleted, %d rows remain", count)
	}
}

func TestDeleteRatingNotOwner(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")
	createTestGif(t, db, "abc123", user.ID)

	rating := models.Rating{UserID: user.ID, GifID: "abc123", Rating: 3}
	db.Create(&rating)

	resp := doRequest(router, "DELETE", fmt.Sprintf("/api/ratings/%d", rating.ID), "", getAuthHeader(other))
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.Code)
	}

	var count int64
	db.Model(&models.Rating{}).Count(&count)
	if count != 1 {
		t.Error("Expected rating to survive foreign delete attempt")
	}
}
