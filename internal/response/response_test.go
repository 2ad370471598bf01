package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestFailCarriesMessage(t *testing.T) {
	w := serve(t, func(c *gin.Context) {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"email": "email is required"})
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Message)
	assert.Equal(t, ErrValidation, body.Code)
	assert.Equal(t, "email is required", body.Fields["email"])
	assert.Equal(t, w.Header().Get("X-Request-ID"), body.RequestID)
}

func TestSuccessShapes(t *testing.T) {
	w := serve(t, func(c *gin.Context) { Success(c, http.StatusOK, []int{1}) })
	assert.JSONEq(t, `{"success":true,"data":[1]}`, w.Body.String())

	w = serve(t, func(c *gin.Context) { Keyed(c, http.StatusCreated, "task", gin.H{"id": "t1"}) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"task":{"id":"t1"}}`, w.Body.String())

	w = serve(t, func(c *gin.Context) { NoContent(c) })
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestUnknownCodeFallsBack(t *testing.T) {
	assert.Equal(t, "Internal server error", GetMessage(ErrCode("NOPE")))
}
