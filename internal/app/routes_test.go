package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todoapi/internal/config"
	dom "todoapi/internal/domain"
	"todoapi/internal/logging"
	"todoapi/internal/metrics"
	"todoapi/internal/repo"
	"todoapi/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	users  *repo.MemoryUserRepo
	todos  *repo.MemoryTodoRepo
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		App:  config.AppConfig{Env: "dev", Version: "test"},
		Auth: config.AuthConfig{Secret: "abc123", BcryptCost: 4},
	}
	ts := &testServer{users: repo.NewMemoryUserRepo(), todos: repo.NewMemoryTodoRepo()}
	ts.router = newRouter(cfg, Deps{
		Users:   ts.users,
		Todos:   ts.todos,
		Log:     logging.NewWithWriter(io.Discard, "test", "error"),
		Metrics: metrics.New(),
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("x-auth", token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// register returns the new user's id and session token.
func (ts *testServer) register(t *testing.T, email, password string) (string, string) {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/users", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		ID    string `json:"_id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	token := w.Header().Get("x-auth")
	require.NotEmpty(t, token)
	return body.ID, token
}

type todoBody struct {
	ID          string `json:"_id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completedAt"`
	OwnerID     string `json:"ownerId"`
}

func decodeTodo(t *testing.T, w *httptest.ResponseRecorder) todoBody {
	t.Helper()
	var env struct {
		Todo todoBody `json:"todo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Todo
}

func (ts *testServer) createTodo(t *testing.T, token, text string) todoBody {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/todos", token, gin.H{"text": text})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var todo todoBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &todo))
	return todo
}

func TestRegisterThenMe(t *testing.T) {
	ts := setupTestServer(t)
	id, token := ts.register(t, "a@example.com", "password1")

	w := ts.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"_id":"`+id+`","email":"a@example.com"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "tokens")
}

func TestRegisterValidation(t *testing.T) {
	ts := setupTestServer(t)

	for _, body := range []gin.H{
		{"email": "not-an-email", "password": "password1"},
		{"email": "a@example.com", "password": "123"},
		{},
	} {
		w := ts.do(t, http.MethodPost, "/users", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Empty(t, w.Header().Get("x-auth"))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "a@example.com", "password1")

	for _, email := range []string{"a@example.com", " A@Example.com "} {
		w := ts.do(t, http.MethodPost, "/users", "", gin.H{"email": email, "password": "password1"})
		assert.Equal(t, http.StatusBadRequest, w.Code, email)
	}
}

func TestMeRequiresToken(t *testing.T) {
	ts := setupTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/users/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/users/me", "garbage", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodDelete, "/users/me/token", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/todos", "", nil).Code)
}

func TestLogin(t *testing.T) {
	ts := setupTestServer(t)
	id, _ := ts.register(t, "a@example.com", "password1")

	w := ts.do(t, http.MethodPost, "/users/login", "", gin.H{"email": "A@example.com", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get("x-auth")
	require.NotEmpty(t, token)

	u, err := ts.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, u.Tokens, 2)
	assert.Equal(t, dom.Token{Purpose: dom.PurposeAuth, Value: token}, u.Tokens[1])

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/users/me", token, nil).Code)
}

func TestLoginWrongPasswordAddsNoToken(t *testing.T) {
	ts := setupTestServer(t)
	id, _ := ts.register(t, "a@example.com", "password1")

	w := ts.do(t, http.MethodPost, "/users/login", "", gin.H{"email": "a@example.com", "password": "password2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("x-auth"))

	unknown := ts.do(t, http.MethodPost, "/users/login", "", gin.H{"email": "b@example.com", "password": "password1"})
	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, w.Body.String(), unknown.Body.String())

	u, err := ts.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, u.Tokens, 1)
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := setupTestServer(t)
	_, token := ts.register(t, "a@example.com", "password1")

	w := ts.do(t, http.MethodDelete, "/users/me/token", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/users/me", token, nil).Code)
}

func TestChangePassword(t *testing.T) {
	ts := setupTestServer(t)
	_, token := ts.register(t, "a@example.com", "password1")

	w := ts.do(t, http.MethodPatch, "/users/me/password", token, gin.H{"currentPassword": "nope", "password": "password2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPatch, "/users/me/password", token, gin.H{"currentPassword": "password1", "password": "password2"})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/users/login", "", gin.H{"email": "a@example.com", "password": "password2"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateTodo(t *testing.T) {
	ts := setupTestServer(t)
	userID, token := ts.register(t, "a@example.com", "password1")

	todo := ts.createTodo(t, token, "This is some text. Look at it!")
	assert.Equal(t, "This is some text. Look at it!", todo.Text)
	assert.False(t, todo.Completed)
	assert.Nil(t, todo.CompletedAt)
	assert.Equal(t, userID, todo.OwnerID)
	assert.True(t, utils.IsObjectID(todo.ID))
}

func TestCreateTodoInvalidBody(t *testing.T) {
	ts := setupTestServer(t)
	userID, token := ts.register(t, "a@example.com", "password1")
	ts.createTodo(t, token, "first test todo")

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/todos", token, gin.H{}).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/todos", token, gin.H{"text": "   "}).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/todos", token, gin.H{"text": 42}).Code)

	list, err := ts.todos.ListByOwner(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListTodosScopedToCaller(t *testing.T) {
	ts := setupTestServer(t)
	_, tokenA := ts.register(t, "a@example.com", "password1")
	_, tokenB := ts.register(t, "b@example.com", "password2")
	ts.createTodo(t, tokenA, "first test todo")
	ts.createTodo(t, tokenA, "second test todo")

	var body struct {
		Todos []todoBody `json:"todos"`
	}
	w := ts.do(t, http.MethodGet, "/todos", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Todos, 2)

	w = ts.do(t, http.MethodGet, "/todos", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"todos":[]}`, w.Body.String())
}

func TestTodoByIDOwnership(t *testing.T) {
	ts := setupTestServer(t)
	_, tokenA := ts.register(t, "a@example.com", "password1")
	_, tokenB := ts.register(t, "b@example.com", "password2")
	todo := ts.createTodo(t, tokenA, "buy milk")
	path := "/todos/" + todo.ID

	w := ts.do(t, http.MethodGet, path, tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, todo, decodeTodo(t, w))

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, path, tokenB, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPatch, path, tokenB, gin.H{"completed": true}).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodDelete, path, tokenB, nil).Code)

	// Still intact for the owner.
	w = ts.do(t, http.MethodGet, path, tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeTodo(t, w).Completed)
}

func TestTodoByIDNotFound(t *testing.T) {
	ts := setupTestServer(t)
	_, token := ts.register(t, "a@example.com", "password1")
	missing := "/todos/" + utils.NewID()

	for _, method := range []string{http.MethodGet, http.MethodDelete, http.MethodPatch} {
		assert.Equal(t, http.StatusNotFound, ts.do(t, method, "/todos/123", token, nil).Code, method)
		assert.Equal(t, http.StatusNotFound, ts.do(t, method, missing, token, nil).Code, method)
	}
}

func TestDeleteTodo(t *testing.T) {
	ts := setupTestServer(t)
	_, token := ts.register(t, "a@example.com", "password1")
	todo := ts.createTodo(t, token, "second test todo")
	path := "/todos/" + todo.ID

	w := ts.do(t, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, todo.ID, decodeTodo(t, w).ID)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, path, token, nil).Code)
}

func TestPatchTodoCompletionRoundTrip(t *testing.T) {
	ts := setupTestServer(t)
	_, token := ts.register(t, "a@example.com", "password1")
	todo := ts.createTodo(t, token, "first test todo")
	path := "/todos/" + todo.ID

	w := ts.do(t, http.MethodPatch, path, token, gin.H{"text": "new text", "completed": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeTodo(t, w)
	assert.Equal(t, "new text", got.Text)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.Positive(t, *got.CompletedAt)

	w = ts.do(t, http.MethodPatch, path, token, gin.H{"text": "newer text", "completed": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "completedAt")
	got = decodeTodo(t, w)
	assert.Equal(t, "newer text", got.Text)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
}

func TestPatchTodoEmptyTextRejected(t *testing.T) {
	ts := setupTestServer(t)
	_, token := ts.register(t, "a@example.com", "password1")
	todo := ts.createTodo(t, token, "first test todo")

	w := ts.do(t, http.MethodPatch, "/todos/"+todo.ID, token, gin.H{"text": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServiceEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.JSONEq(t, `{"version":"test"}`, ts.do(t, http.MethodGet, "/version", "", nil).Body.String())

	w := ts.do(t, http.MethodGet, "/swagger-doc.json", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/users/me/token"`)

	ts.do(t, http.MethodGet, "/health", "", nil)
	w = ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/health"`)
}

func TestCORSExposesAuthHeader(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader([]byte(`{"email":"a@example.com","password":"password1"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Expose-Headers")), "x-auth")
}

func TestLongPasswords(t *testing.T) {
	ts := setupTestServer(t)
	long := strings.Repeat("p", 80)
	_, token := ts.register(t, "a@example.com", long)

	w := ts.do(t, http.MethodPost, "/users/login", "", gin.H{"email": "a@example.com", "password": long})
	assert.Equal(t, http.StatusOK, w.Code)

	longer := strings.Repeat("q", 100)
	w = ts.do(t, http.MethodPatch, "/users/me/password", token, gin.H{"currentPassword": long, "password": longer})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/users/login", "", gin.H{"email": "a@example.com", "password": longer})
	assert.Equal(t, http.StatusOK, w.Code)
}
