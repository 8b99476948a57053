package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"securepay/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(sessions *utils.SessionIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(sessions), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "email": c.GetString(ContextEmail)})
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	sessions := utils.NewSessionIssuer("secret")
	valid, err := sessions.Issue(5, "alice@example.com")
	require.NoError(t, err)
	expired, err := sessions.WithClock(func() time.Time { return time.Now().Add(-3 * time.Hour) }).Issue(5, "alice@example.com")
	require.NoError(t, err)
	forged, err := utils.NewSessionIssuer("other").Issue(5, "alice@example.com")
	require.NoError(t, err)

	tests := []struct {
		name     string
		cookie   string
		want     int
		wantBody string
	}{
		{"valid session", valid, http.StatusOK, `{"id":5,"email":"alice@example.com"}`},
		{"no cookie", "", http.StatusUnauthorized, `{"error":"Unauthenticated"}`},
		{"expired", expired, http.StatusUnauthorized, `{"error":"Invalid or expired session"}`},
		{"wrong signature", forged, http.StatusUnauthorized, `{"error":"Invalid or expired session"}`},
		{"garbage", "not-a-token", http.StatusUnauthorized, `{"error":"Invalid or expired session"}`},
	}
	r := newAuthTestRouter(sessions)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestSessionCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetSessionCookie(c, "tok", 7200)
	ck := cookieNamed(w.Result().Cookies(), SessionCookieName)
	require.NotNil(t, ck)
	assert.Equal(t, "tok", ck.Value)
	assert.Equal(t, 7200, ck.MaxAge)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	ClearSessionCookie(c)
	ck = cookieNamed(w.Result().Cookies(), SessionCookieName)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.Equal(t, -1, ck.MaxAge)
}
