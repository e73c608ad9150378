package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the per-request id.
const RequestIDKey = "requestID"

// ResponseData represents the structure of a standard API response.
type ResponseData struct {
	Status    int         `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func respond(c *gin.Context, statusCode int, body ResponseData) {
	body.Status = statusCode
	body.RequestID = c.GetString(RequestIDKey)
	c.JSON(statusCode, body)
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusOK, ResponseData{Message: message, Data: data})
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusCreated, ResponseData{Message: message, Data: data})
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	respond(c, statusCode, ResponseData{Message: "An error occurred", Error: errorMessage})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, errorMessage)
}

// Unauthorized sends a 401 Unauthorized error response.
func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, errorMessage)
}

// Forbidden sends a 403 Forbidden error response.
func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, errorMessage)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, errorMessage)
}
