package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The portal backend does not use a single envelope: some collections come
// back as {success, data}, others under a typed key, and errors as
// {message}. These helpers produce each shape.

// Envelope is the {success, data} wrapper.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorBody is the body of every failed response.
type ErrorBody struct {
	Message   string            `json:"message"`
	Code      ErrCode           `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success sends data wrapped as {success: true, data}.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Envelope{Success: true, Data: data})
}

// Keyed sends data under a single named key, e.g. {"tasks": [...]}.
func Keyed(c *gin.Context, statusCode int, key string, data interface{}) {
	c.JSON(statusCode, gin.H{key: data})
}

// NoContent sends 204 with an empty body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail sends an error response with an error code and no field-level details.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, errorBody(c, code, nil))
}

// FailWithFields sends an error response with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, errorBody(c, code, fields))
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, errorBody(c, code, nil))
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

func errorBody(c *gin.Context, code ErrCode, fields map[string]string) ErrorBody {
	id, _ := c.Get(ContextKeyRequestID)
	reqID, _ := id.(string)
	return ErrorBody{
		Message:   GetMessage(code),
		Code:      code,
		Fields:    fields,
		RequestID: reqID,
	}
}
