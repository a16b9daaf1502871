package handler

import (
	"Inkwell/config"
	"Inkwell/pkg/jwt"
	"Inkwell/pkg/response"
	"Inkwell/service"
	"Inkwell/types"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakePaywall struct {
	viewer  uint64
	confirm bool
	err     error
}

func (f *fakePaywall) Evaluate(_ context.Context, viewerID, articleID uint64, confirm bool, _ time.Time) (*types.ArticleAccess, error) {
	f.viewer, f.confirm = viewerID, confirm
	if f.err != nil {
		return nil, f.err
	}
	access := types.AccessFull
	if viewerID == 0 {
		access = types.AccessDeniedAnonymous
	}
	return &types.ArticleAccess{ArticleID: articleID, Access: access, RequiredPoints: 50}, nil
}

func testConfig() *config.Config {
	return &config.Config{Jwt: &config.Jwt{Secret: testSecret}}
}

func bearer(t *testing.T, uid uint64) string {
	t.Helper()
	token, err := jwt.GenerateToken([]byte(testSecret), uid, jwt.TypeAccess, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func newArticleRouter(pw service.IPaywallService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	(&Article{Config: testConfig(), PaywallService: pw}).RegisterRouter(r.Group("/api"))
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) response.Response {
	t.Helper()
	resp := response.Response{Data: data}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestArticleAccess_Anonymous(t *testing.T) {
	pw := &fakePaywall{}
	r := newArticleRouter(pw)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/articles/7/access", nil))

	var access types.ArticleAccess
	resp := decode(t, w, &access)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, types.AccessDeniedAnonymous, access.Access)
	assert.Zero(t, pw.viewer)
	assert.False(t, pw.confirm)
}

func TestArticleAccess_InvalidTokenTreatedAsAnonymous(t *testing.T) {
	pw := &fakePaywall{}
	r := newArticleRouter(pw)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles/7/access", nil)
	req.Header.Set("Authorization", "Bearer broken")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, pw.viewer)
}

func TestArticleUnlock(t *testing.T) {
	pw := &fakePaywall{}
	r := newArticleRouter(pw)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/7/unlock", nil)
	req.Header.Set("Authorization", bearer(t, 42))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var access types.ArticleAccess
	decode(t, w, &access)
	assert.Equal(t, types.AccessFull, access.Access)
	assert.Equal(t, uint64(42), pw.viewer)
	assert.True(t, pw.confirm)
}

func TestArticleUnlock_RequiresAuth(t *testing.T) {
	r := newArticleRouter(&fakePaywall{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/articles/7/unlock", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestArticleAccess_Errors(t *testing.T) {
	r := newArticleRouter(&fakePaywall{err: service.ErrArticleNotFound})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/articles/7/access", nil))
	assert.Equal(t, response.CodeNotFound, decode(t, w, nil).Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/articles/abc/access", nil))
	assert.Equal(t, response.CodeInvalidParams, decode(t, w, nil).Code)
}
