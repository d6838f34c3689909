package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/huiyeony/yogiyum/cache"
	"github.com/huiyeony/yogiyum/config"
	"github.com/huiyeony/yogiyum/handlers"
	"github.com/huiyeony/yogiyum/models"
	"github.com/huiyeony/yogiyum/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	config.DB = db
	config.App.PageSize = 20
	config.JWTSecret = []byte("test-secret")
	handlers.LikedCache = cache.NewLikedSetCache(cache.NewMockClient())

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func seedRestaurants(t *testing.T) {
	t.Helper()
	restaurants := []models.Restaurant{
		{Name: "가마솥 국밥", Category: models.CategoryKorean},
		{Name: "다방 커피", Category: models.CategoryCafe},
		{Name: "라멘 공방", Category: models.CategoryJapanese},
	}
	require.NoError(t, config.DB.Create(&restaurants).Error)
}

func do(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func registerUser(t *testing.T, r *gin.Engine, nickname, email string) string {
	t.Helper()
	rr := do(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"nickname": nickname,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode(t, rr)["token"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupRouter(t)

	registerUser(t, r, "수아", "sua@example.com")

	// Duplicate email is rejected
	rr := do(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"nickname": "수아2",
		"email":    "sua@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "sua@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, decode(t, rr)["token"])

	rr = do(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "sua@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListRestaurants_SortedBySearchAndPaged(t *testing.T) {
	r := setupRouter(t)
	seedRestaurants(t)

	rr := do(r, http.MethodGet, "/api/restaurants?sort=name", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.EqualValues(t, 3, body["count"])
	assert.EqualValues(t, 1, body["max_page"])

	rr = do(r, http.MethodGet, "/api/restaurants?search=국밥", "", nil)
	body = decode(t, rr)
	assert.EqualValues(t, 1, body["count"])
}

func TestListRestaurants_CategoryNarrowing(t *testing.T) {
	r := setupRouter(t)
	seedRestaurants(t)

	rr := do(r, http.MethodGet, "/api/restaurants?categories=한식,카페", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 2, decode(t, rr)["count"])
}

func TestToggleLike_RoundTripThroughAPI(t *testing.T) {
	r := setupRouter(t)
	seedRestaurants(t)
	token := registerUser(t, r, "수아", "sua@example.com")

	rr := do(r, http.MethodPost, "/api/restaurants/1/like", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decode(t, rr)
	assert.Equal(t, true, body["liked"])
	assert.EqualValues(t, 1, body["liked_count"])
	assert.Equal(t, false, body["popular"])

	rr = do(r, http.MethodPost, "/api/restaurants/1/like", token, nil)
	body = decode(t, rr)
	assert.Equal(t, false, body["liked"])
	assert.EqualValues(t, 0, body["liked_count"])
}

func TestToggleLike_RequiresAuth(t *testing.T) {
	r := setupRouter(t)
	seedRestaurants(t)

	rr := do(r, http.MethodPost, "/api/restaurants/1/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestToggleLike_UnknownRestaurant(t *testing.T) {
	r := setupRouter(t)
	seedRestaurants(t)
	token := registerUser(t, r, "수아", "sua@example.com")

	rr := do(r, http.MethodPost, "/api/restaurants/999/like", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLikedList_ReflectsToggles(t *testing.T) {
	r := setupRouter(t)
	seedRestaurants(t)
	token := registerUser(t, r, "수아", "sua@example.com")

	do(r, http.MethodPost, "/api/restaurants/1/like", token, nil)
	do(r, http.MethodPost, "/api/restaurants/3/like", token, nil)

	rr := do(r, http.MethodGet, "/api/liked", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.EqualValues(t, 2, body["count"])

	// Unliking drops the row; the cache invalidation must be visible.
	do(r, http.MethodPost, "/api/restaurants/1/like", token, nil)
	rr = do(r, http.MethodGet, "/api/liked", token, nil)
	assert.EqualValues(t, 1, decode(t, rr)["count"])
}

func TestListRestaurants_MarksLikedRows(t *testing.T) {
	r := setupRouter(t)
	seedRestaurants(t)
	token := registerUser(t, r, "수아", "sua@example.com")
	do(r, http.MethodPost, "/api/restaurants/2/like", token, nil)

	rr := do(r, http.MethodGet, "/api/restaurants?sort=name", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	likedByID := map[float64]bool{}
	for _, raw := range decode(t, rr)["restaurants"].([]interface{}) {
		row := raw.(map[string]interface{})
		likedByID[row["id"].(float64)] = row["is_liked"].(bool)
	}
	assert.True(t, likedByID[2])
	assert.False(t, likedByID[1])
	assert.False(t, likedByID[3])
}

func TestReviewLifecycle(t *testing.T) {
	r := setupRouter(t)
	seedRestaurants(t)
	author := registerUser(t, r, "수아", "sua@example.com")
	other := registerUser(t, r, "민준", "minjun@example.com")

	// Invalid rating is rejected
	rr := do(r, http.MethodPost, "/api/restaurants/1/reviews", author, gin.H{
		"content": "별로예요", "rating": 6,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(r, http.MethodPost, "/api/restaurants/1/reviews", author, gin.H{
		"content": "너무 맛있었어요!", "rating": 5,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	// Listed with the author's nickname
	rr = do(r, http.MethodGet, "/api/restaurants/1/reviews", "", nil)
	body := decode(t, rr)
	require.EqualValues(t, 1, body["count"])
	review := body["reviews"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "수아", review["nickname"])

	// Only the author may edit or delete
	rr = do(r, http.MethodPut, "/api/reviews/1", other, gin.H{"content": "수정", "rating": 1})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(r, http.MethodPut, "/api/reviews/1", author, gin.H{"content": "수정했어요", "rating": 4})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(r, http.MethodDelete, "/api/reviews/1", other, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(r, http.MethodDelete, "/api/reviews/1", author, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(r, http.MethodGet, "/api/restaurants/1/reviews", "", nil)
	assert.EqualValues(t, 0, decode(t, rr)["count"])
}

func TestProfileLifecycle(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r, "수아", "sua@example.com")

	rr := do(r, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	user := decode(t, rr)["user"].(map[string]interface{})
	assert.Equal(t, "수아", user["nickname"])

	rr = do(r, http.MethodPut, "/api/profile", token, gin.H{"nickname": "전수아"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(r, http.MethodGet, "/api/profile", token, nil)
	user = decode(t, rr)["user"].(map[string]interface{})
	assert.Equal(t, "전수아", user["nickname"])

	rr = do(r, http.MethodDelete, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(r, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetRestaurant_DetailAndNotFound(t *testing.T) {
	r := setupRouter(t)
	seedRestaurants(t)

	rr := do(r, http.MethodGet, "/api/restaurants/1", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	restaurant := decode(t, rr)["restaurant"].(map[string]interface{})
	assert.Equal(t, "가마솥 국밥", restaurant["name"])

	rr = do(r, http.MethodGet, "/api/restaurants/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
