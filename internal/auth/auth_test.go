package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanchonete/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute)

	token, err := tm.Issue(domain.User{ID: 42, Email: "owner@example.com", IsOwner: true})
	require.NoError(t, err)

	id, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, "owner@example.com", id.Email)
	assert.True(t, id.IsOwner)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Minute).Issue(domain.User{ID: 1})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Minute).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	tm := NewTokenManager("secret", -time.Minute)
	token, err := tm.Issue(domain.User{ID: 1})
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword("hunter2", hash))
	assert.False(t, CheckPassword("hunter3", hash))
}

func TestMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	token, err := tm.Issue(domain.User{ID: 7, Email: "c@example.com"})
	require.NoError(t, err)

	var got Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromContext(r.Context())
		require.True(t, ok)
		got = id
	})
	handler := Middleware(tm)(next)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	assert.Equal(t, int64(7), got.UserID)
}
