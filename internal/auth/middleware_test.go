package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	dom "todoapi/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAuthenticator struct {
	users map[string]dom.User
	err   error
}

func (f fakeAuthenticator) FindByToken(_ context.Context, token string) (dom.User, error) {
	if f.err != nil {
		return dom.User{}, f.err
	}
	u, ok := f.users[token]
	if !ok {
		return dom.User{}, ErrInvalidToken
	}
	return u, nil
}

func newTestEngine(a Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireToken(a), func(c *gin.Context) {
		u, ok := UserFromContext(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "token": TokenFromContext(c)})
	})
	return r
}

func TestRequireTokenMissingHeader(t *testing.T) {
	r := newTestEngine(fakeAuthenticator{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireTokenUnknownToken(t *testing.T) {
	r := newTestEngine(fakeAuthenticator{users: map[string]dom.User{}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderName, "nope")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireTokenStoreFailure(t *testing.T) {
	r := newTestEngine(fakeAuthenticator{err: errors.New("connection reset")})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderName, "tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireTokenValid(t *testing.T) {
	r := newTestEngine(fakeAuthenticator{users: map[string]dom.User{"tok": {ID: "u1"}}})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderName, "tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u1","token":"tok"}`, w.Body.String())
}
