package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdulra7ma/social-media-app/internal/domain"
	"github.com/abdulra7ma/social-media-app/internal/handler"
	"github.com/abdulra7ma/social-media-app/internal/migration"
	"github.com/abdulra7ma/social-media-app/internal/repository"
	"github.com/abdulra7ma/social-media-app/internal/routes"
	"github.com/abdulra7ma/social-media-app/internal/service"
	"github.com/abdulra7ma/social-media-app/pkg/auth"
	"github.com/abdulra7ma/social-media-app/pkg/cache"
	"github.com/abdulra7ma/social-media-app/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// memCounter is an in-memory stand-in for the Redis counter cache
type memCounter struct {
	counts map[string]int64
	sets   map[string]map[uint]bool
}

func newMemCounter() *memCounter {
	return &memCounter{
		counts: make(map[string]int64),
		sets:   make(map[string]map[uint]bool),
	}
}

func (m *memCounter) set(key string) map[uint]bool {
	s, ok := m.sets[key]
	if !ok {
		s = make(map[uint]bool)
		m.sets[key] = s
	}
	return s
}

func (m *memCounter) Count(ctx context.Context, postID uint, kind cache.Kind) (int64, error) {
	return m.counts[cache.CountKey(postID, kind)], nil
}

func (m *memCounter) Increment(ctx context.Context, postID uint, kind cache.Kind) error {
	m.counts[cache.CountKey(postID, kind)]++
	return nil
}

func (m *memCounter) Decrement(ctx context.Context, postID uint, kind cache.Kind) error {
	key := cache.CountKey(postID, kind)
	if m.counts[key] > 0 {
		m.counts[key]--
	}
	return nil
}

func (m *memCounter) SetCount(ctx context.Context, postID uint, kind cache.Kind, n int64) error {
	m.counts[cache.CountKey(postID, kind)] = n
	return nil
}

func (m *memCounter) AddMember(ctx context.Context, postID uint, kind cache.Kind, userID uint) error {
	m.set(cache.MembersKey(postID, kind))[userID] = true
	return nil
}

func (m *memCounter) RemoveMember(ctx context.Context, postID uint, kind cache.Kind, userID uint) error {
	delete(m.set(cache.MembersKey(postID, kind)), userID)
	return nil
}

func (m *memCounter) HasMember(ctx context.Context, postID uint, kind cache.Kind, userID uint) (bool, error) {
	return m.set(cache.MembersKey(postID, kind))[userID], nil
}

func (m *memCounter) Members(ctx context.Context, postID uint, kind cache.Kind) ([]uint, error) {
	var out []uint
	for id := range m.set(cache.MembersKey(postID, kind)) {
		out = append(out, id)
	}
	return out, nil
}

func (m *memCounter) ReplaceMembers(ctx context.Context, postID uint, kind cache.Kind, userIDs []uint) error {
	s := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		s[id] = true
	}
	m.sets[cache.MembersKey(postID, kind)] = s
	return nil
}

func (m *memCounter) DeletePost(ctx context.Context, postID uint) error {
	delete(m.counts, cache.CountKey(postID, cache.KindLikes))
	delete(m.counts, cache.CountKey(postID, cache.KindDislikes))
	delete(m.sets, cache.MembersKey(postID, cache.KindLikes))
	delete(m.sets, cache.MembersKey(postID, cache.KindDislikes))
	return nil
}

func (m *memCounter) Ping(ctx context.Context) error { return nil }

// APISuite drives the full HTTP surface against sqlite and the
// in-memory counter
type APISuite struct {
	suite.Suite
	db         *gorm.DB
	router     *gin.Engine
	jwtManager *jwt.Manager
	counter    *memCounter

	author      *domain.User
	reader      *domain.User
	authorToken string
	readerToken string
	postID      uint
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)
	s.Require().NoError(migration.Run(db))
	s.db = db

	s.jwtManager = jwt.NewManager("integration-test-secret", 15, 60)
	s.counter = newMemCounter()

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	authHandler := handler.NewAuthHandler(service.NewAuthService(userRepo, s.jwtManager))
	postHandler := handler.NewPostHandler(service.NewPostService(postRepo, reactionRepo, s.counter))
	reactionHandler := handler.NewReactionHandler(service.NewReactionService(postRepo, reactionRepo, s.counter))

	s.router = gin.New()
	routes.Setup(s.router, authHandler, postHandler, reactionHandler, s.jwtManager)

	s.seedTestData()
}

func (s *APISuite) seedTestData() {
	hashed, err := auth.HashPassword("password123")
	s.Require().NoError(err)

	s.author = &domain.User{Username: "author", Email: "author@example.com", Password: hashed}
	s.Require().NoError(s.db.Create(s.author).Error)
	s.reader = &domain.User{Username: "reader", Email: "reader@example.com", Password: hashed}
	s.Require().NoError(s.db.Create(s.reader).Error)

	s.authorToken, err = s.jwtManager.GenerateAccessToken(s.author.ID, s.author.Username)
	s.Require().NoError(err)
	s.readerToken, err = s.jwtManager.GenerateAccessToken(s.reader.ID, s.reader.Username)
	s.Require().NoError(err)

	post := &domain.Post{AuthorID: s.author.ID, Content: "first post"}
	s.Require().NoError(s.db.Create(post).Error)
	s.postID = post.ID
}

func (s *APISuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APISuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Auth ---

func (s *APISuite) TestSignupAndSignin() {
	w := s.request(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	// Duplicate username conflicts
	w = s.request(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "password123",
	})
	assert.Equal(s.T(), http.StatusConflict, w.Code)

	w = s.request(http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"username": "alice",
		"password": "password123",
	})
	assert.Equal(s.T(), http.StatusOK, w.Code)

	data := s.decode(w)["data"].(map[string]interface{})
	assert.NotEmpty(s.T(), data["access_token"])
	assert.NotNil(s.T(), data["user"])

	// Refresh token travels only as an httpOnly cookie
	cookies := w.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "refresh_token" {
			found = c.HttpOnly && c.Value != ""
		}
	}
	assert.True(s.T(), found)
}

func (s *APISuite) TestSigninWrongPassword() {
	w := s.request(http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"username": "author",
		"password": "wrongpassword",
	})
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *APISuite) TestMe() {
	w := s.request(http.MethodGet, "/api/v1/auth/me", s.readerToken, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	data := s.decode(w)["data"].(map[string]interface{})
	assert.Equal(s.T(), "reader", data["username"])

	w = s.request(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

// --- Posts ---

func (s *APISuite) TestCreateAndGetPost() {
	w := s.request(http.MethodPost, "/api/v1/post", s.readerToken, map[string]string{
		"content": "hello world",
	})
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	data := s.decode(w)["data"].(map[string]interface{})
	id := uint(data["id"].(float64))

	w = s.request(http.MethodGet, fmt.Sprintf("/api/v1/post/%d", id), "", nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	detail := s.decode(w)["data"].(map[string]interface{})
	assert.Equal(s.T(), float64(0), detail["likes"])
	assert.Equal(s.T(), float64(0), detail["dislikes"])
}

func (s *APISuite) TestCreatePostRequiresAuth() {
	w := s.request(http.MethodPost, "/api/v1/post", "", map[string]string{
		"content": "anonymous",
	})
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *APISuite) TestUpdatePostAuthorOnly() {
	path := fmt.Sprintf("/api/v1/post/%d", s.postID)

	w := s.request(http.MethodPut, path, s.readerToken, map[string]string{"content": "hacked"})
	assert.Equal(s.T(), http.StatusForbidden, w.Code)

	w = s.request(http.MethodPut, path, s.authorToken, map[string]string{"content": "edited"})
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *APISuite) TestDeletePostCascades() {
	// Build up reaction state first
	w := s.request(http.MethodPost, fmt.Sprintf("/api/v1/post/%d/like", s.postID), s.readerToken, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	w = s.request(http.MethodDelete, fmt.Sprintf("/api/v1/post/%d", s.postID), s.authorToken, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	w = s.request(http.MethodGet, fmt.Sprintf("/api/v1/post/%d", s.postID), "", nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)

	var likes int64
	s.Require().NoError(s.db.Model(&domain.Like{}).Where("post_id = ?", s.postID).Count(&likes).Error)
	assert.Zero(s.T(), likes)
	assert.Empty(s.T(), s.counter.counts)
}

// --- Reactions ---

func (s *APISuite) TestLikeFlow() {
	path := fmt.Sprintf("/api/v1/post/%d/like", s.postID)

	w := s.request(http.MethodPost, path, s.readerToken, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	data := s.decode(w)["data"].(map[string]interface{})
	assert.Equal(s.T(), float64(1), data["likes"])
	assert.Equal(s.T(), float64(0), data["dislikes"])
	assert.Equal(s.T(), true, data["user_liked"])
	assert.Equal(s.T(), false, data["user_disliked"])

	// Repeat like is a client error, not a second count
	w = s.request(http.MethodPost, path, s.readerToken, nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	w = s.request(http.MethodDelete, fmt.Sprintf("/api/v1/post/%d/unlike", s.postID), s.readerToken, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	data = s.decode(w)["data"].(map[string]interface{})
	assert.Equal(s.T(), float64(0), data["likes"])
	assert.Equal(s.T(), false, data["user_liked"])
}

func (s *APISuite) TestLikeOwnPostRejected() {
	w := s.request(http.MethodPost, fmt.Sprintf("/api/v1/post/%d/like", s.postID), s.authorToken, nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *APISuite) TestLikeMissingPost() {
	w := s.request(http.MethodPost, "/api/v1/post/99999/like", s.readerToken, nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *APISuite) TestReactionRequiresAuth() {
	w := s.request(http.MethodPost, fmt.Sprintf("/api/v1/post/%d/like", s.postID), "", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *APISuite) TestDislikeReplacesLike() {
	likePath := fmt.Sprintf("/api/v1/post/%d/like", s.postID)
	dislikePath := fmt.Sprintf("/api/v1/post/%d/dislike", s.postID)

	w := s.request(http.MethodPost, likePath, s.readerToken, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	w = s.request(http.MethodPost, dislikePath, s.readerToken, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	data := s.decode(w)["data"].(map[string]interface{})
	assert.Equal(s.T(), float64(0), data["likes"])
	assert.Equal(s.T(), float64(1), data["dislikes"])
	assert.Equal(s.T(), false, data["user_liked"])
	assert.Equal(s.T(), true, data["user_disliked"])

	// Unlike no longer applies once the like was replaced
	w = s.request(http.MethodDelete, fmt.Sprintf("/api/v1/post/%d/unlike", s.postID), s.readerToken, nil)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	w = s.request(http.MethodDelete, fmt.Sprintf("/api/v1/post/%d/undislike", s.postID), s.readerToken, nil)
	assert.Equal(s.T(), http.StatusOK, w.Code)

	data = s.decode(w)["data"].(map[string]interface{})
	assert.Equal(s.T(), float64(0), data["dislikes"])
	assert.Equal(s.T(), false, data["user_disliked"])
}
