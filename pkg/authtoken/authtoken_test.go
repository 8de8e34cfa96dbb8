package authtoken_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopkit-dev/shopkit/pkg/authtoken"
)

func TestStaticValidator(t *testing.T) {
	t.Parallel()

	v := authtoken.NewStaticValidator("abcd12345")

	assert.True(t, v.Validate("abcd12345"))
	assert.False(t, v.Validate("wrong"))
	assert.False(t, v.Validate(""))

	empty := authtoken.NewStaticValidator("")
	assert.False(t, empty.Validate(""), "an empty secret must not match an empty token")
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	protected := authtoken.Middleware(authtoken.NewStaticValidator("abcd12345"))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", authHeader: "Bearer abcd12345", wantStatus: http.StatusOK},
		{name: "lowercase scheme", authHeader: "bearer abcd12345", wantStatus: http.StatusOK},
		{name: "wrong token", authHeader: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", authHeader: "Basic abcd12345", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
