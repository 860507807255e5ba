package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"discussx/internal/config"
	handlers "discussx/internal/handler"
	"discussx/internal/models"
	"discussx/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = &models.AuthenticatedUser{
	ID:          "user-1",
	Username:    "alice",
	DisplayName: "Alice",
	Email:       "alice@example.com",
}

type testMocks struct {
	auth    *MockAuthService
	users   *MockUserService
	posts   *MockPostService
	queries *MockQueryService
	chatbot *MockChatbotService
}

func (m *testMocks) assertExpectations(t *testing.T) {
	m.auth.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.posts.AssertExpectations(t)
	m.queries.AssertExpectations(t)
	m.chatbot.AssertExpectations(t)
}

func createTestHandler() (*handlers.Handlers, *testMocks) {
	mocks := &testMocks{
		auth:    new(MockAuthService),
		users:   new(MockUserService),
		posts:   new(MockPostService),
		queries: new(MockQueryService),
		chatbot: new(MockChatbotService),
	}

	cfg := &config.Config{
		JWTSecretKey:  "test-secret-key",
		ServerPort:    8080,
		MaxUploadSize: 1024 * 1024,
	}

	return &handlers.Handlers{
		UserService:    mocks.users,
		AuthService:    mocks.auth,
		PostService:    mocks.posts,
		QueryService:   mocks.queries,
		ChatbotService: mocks.chatbot,
		Cfg:            cfg,
		Validate:       validator.New(),
	}, mocks
}

// serve routes req through the full router, optionally as an authenticated caller.
func serve(h *handlers.Handlers, req *http.Request, actor *models.AuthenticatedUser) *httptest.ResponseRecorder {
	if actor != nil {
		req = req.WithContext(models.WithAuthenticatedUser(req.Context(), actor))
	}
	rr := httptest.NewRecorder()
	handlers.NewRouter(h).ServeHTTP(rr, req)
	return rr
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}

// assertJSONError checks the failure envelope.
func assertJSONError(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], expectedMessage)
}

func TestNewHandlers(t *testing.T) {
	services := &service.Service{
		User:    new(MockUserService),
		Post:    new(MockPostService),
		Auth:    new(MockAuthService),
		Query:   new(MockQueryService),
		Chatbot: new(MockChatbotService),
	}
	cfg := &config.Config{}

	handler := handlers.NewHandlers(services, cfg)

	assert.NotNil(t, handler.UserService)
	assert.NotNil(t, handler.AuthService)
	assert.NotNil(t, handler.PostService)
	assert.NotNil(t, handler.QueryService)
	assert.NotNil(t, handler.ChatbotService)
	assert.Same(t, cfg, handler.Cfg)
	assert.NotNil(t, handler.Validate)
}

func TestRouter_HomeAndHealth(t *testing.T) {
	handler, _ := createTestHandler()

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "DiscussX API", decodeBody(t, rr)["message"])

	rr = serve(handler, httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decodeBody(t, rr)["status"])
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	handler, _ := createTestHandler()

	rr := serve(handler, httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil), nil)
	assertJSONError(t, rr, http.StatusNotFound, "Not found")

	rr = serve(handler, httptest.NewRequest(http.MethodPatch, "/api/posts", nil), nil)
	assertJSONError(t, rr, http.StatusMethodNotAllowed, "Method not allowed")
}

func TestChatbot(t *testing.T) {
	handler, mocks := createTestHandler()

	mocks.chatbot.On("Reply", "hello there").Return(models.ChatMessage{
		ID:    "m1",
		Text:  "Hi! How can I help?",
		IsBot: true,
	})

	rr := serve(handler, jsonRequest(t, http.MethodPost, "/api/chatbot", map[string]string{"message": "hello there"}), nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	reply := body["reply"].(map[string]interface{})
	assert.Equal(t, "Hi! How can I help?", reply["text"])
	assert.Equal(t, true, reply["isBot"])
	mocks.assertExpectations(t)
}

func TestChatbot_EmptyMessage(t *testing.T) {
	handler, mocks := createTestHandler()

	rr := serve(handler, jsonRequest(t, http.MethodPost, "/api/chatbot", map[string]string{"message": ""}), nil)

	assertJSONError(t, rr, http.StatusBadRequest, "Message")
	mocks.chatbot.AssertNotCalled(t, "Reply", "")
}
