package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetix/cinetix/internal/model"
	"github.com/cinetix/cinetix/internal/utils"
)

const testSecret = "test-secret"

func protectedEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		id, _ := c.Get("user_id").(uint64)
		role, _ := c.Get("role").(string)
		return c.JSON(http.StatusOK, echo.Map{"id": id, "role": role})
	}, mw...)
	return e
}

func doGet(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))

	tok, err := utils.NewAccessToken(testSecret, 42, model.RoleUser, 5)
	require.NoError(t, err)

	rec := doGet(e, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":42,"role":"user"}`, rec.Body.String())
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))

	assert.Equal(t, http.StatusUnauthorized, doGet(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(e, "Bearer not-a-jwt").Code)

	// Token signed with a different secret.
	tok, err := utils.NewAccessToken("other-secret", 42, model.RoleUser, 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(e, "Bearer "+tok.Token).Code)
}

func TestRequireRole(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret), RequireRole(model.RoleStaff, model.RoleAdmin))

	staff, err := utils.NewAccessToken(testSecret, 1, model.RoleStaff, 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doGet(e, "Bearer "+staff.Token).Code)

	user, err := utils.NewAccessToken(testSecret, 2, model.RoleUser, 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doGet(e, "Bearer "+user.Token).Code)
}
