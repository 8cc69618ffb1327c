package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pitangasoft/compras_backend/utils"
	"github.com/sirupsen/logrus"
)

func TestTenantMiddlewarePopulatesContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(tenantMiddleware())
	r.GET("/whoami", func(c *gin.Context) {
		ctx := c.Request.Context()
		businessId, _ := utils.GetBusinessIdFromContext(ctx)
		branchId, _ := utils.GetBranchIdFromContext(ctx)
		userId, _ := utils.GetUserIdFromContext(ctx)
		userName, _ := utils.GetUserNameFromContext(ctx)
		c.String(http.StatusOK, "%s|%d|%d|%s", businessId, branchId, userId, userName)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Business-Id", "biz-1")
	req.Header.Set("X-Branch-Id", "3")
	req.Header.Set("X-User-Id", "7")
	req.Header.Set("X-User-Name", "Ana")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "biz-1|3|7|Ana" {
		t.Fatalf("context not populated from headers: %q", w.Body.String())
	}
}

func TestTenantMiddlewareRequiresBusinessId(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(tenantMiddleware())
	r.GET("/whoami", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestErrorLoggerCarriesCorrelationIdAndUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), "cid-123")
		ctx = utils.SetUserNameInContext(ctx, "Ana")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(customErrorLogger(logger))
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("exploded"))
		c.Status(http.StatusBadRequest)
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	logged := buf.String()
	if !strings.Contains(logged, "cid-123") {
		t.Fatalf("log line is missing the correlation id: %s", logged)
	}
	if !strings.Contains(logged, "Ana") {
		t.Fatalf("log line is missing the user: %s", logged)
	}
	if !strings.Contains(logged, "exploded") {
		t.Fatalf("log line is missing the error: %s", logged)
	}
}
