package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
	"github.com/aneslog/aneslog-backend/internal/requestdata"
)

func testRouter(t *testing.T) (*gin.Engine, *IdentityMiddleware) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	im := NewIdentityMiddleware(log)
	r := gin.New()
	r.Use(im.Attach())
	return r, im
}

func TestIdentity_AttachParsesHeaders(t *testing.T) {
	r, _ := testRouter(t)

	var got *requestdata.RequestData
	r.GET("/probe", func(c *gin.Context) {
		got = requestdata.GetRequestData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-ID", userID.String())
	req.Header.Set("X-User-Role", "senior")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got == nil {
		t.Fatalf("expected identity in context")
	}
	if got.UserID != userID || got.Role != domain.RoleSenior {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestIdentity_RequireAuthRejectsMissingIdentity(t *testing.T) {
	r, im := testRouter(t)
	r.GET("/protected", im.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"no headers", nil, http.StatusUnauthorized},
		{"bad uuid", map[string]string{"X-User-ID": "not-a-uuid", "X-User-Role": "resident"}, http.StatusUnauthorized},
		{"bad role", map[string]string{"X-User-ID": uuid.NewString(), "X-User-Role": "admin"}, http.StatusUnauthorized},
		{"valid", map[string]string{"X-User-ID": uuid.NewString(), "X-User-Role": "resident"}, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		for k, v := range tc.headers {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: got=%d want=%d", tc.name, rec.Code, tc.want)
		}
	}
}

func TestIdentity_RequireSeniorRejectsResidents(t *testing.T) {
	r, im := testRouter(t)
	r.GET("/senior", im.RequireSenior(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/senior", nil)
	req.Header.Set("X-User-ID", uuid.NewString())
	req.Header.Set("X-User-Role", "resident")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("resident on senior route: got=%d want=%d", rec.Code, http.StatusForbidden)
	}

	req = httptest.NewRequest(http.MethodGet, "/senior", nil)
	req.Header.Set("X-User-ID", uuid.NewString())
	req.Header.Set("X-User-Role", "senior")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("senior on senior route: got=%d want=%d", rec.Code, http.StatusOK)
	}
}
