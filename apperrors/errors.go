package apperrors

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Stable machine-readable error codes surfaced in the errorCode field.
const (
	CodeUserNotFound            = 1001
	CodeUserAlreadyExists       = 1002
	CodeIncorrectPassword       = 1003
	CodeUnauthorized            = 2001
	CodeForbidden               = 2002
	CodeProductNotFound         = 3001
	CodeAddressNotFound         = 4001
	CodeAddressNotConfigured    = 4002
	CodeCartItemNotFound        = 5001
	CodeInvalidQuantity         = 5002
	CodeOrderNotFound           = 6001
	CodeInvalidStatusTransition = 6002
	CodeCheckoutConflict        = 6003
	CodeTransitionConflict      = 6004
	CodeValidationFailed        = 7001
	CodeInternal                = 9001
)

// Error is a typed application failure carrying the HTTP status it should be
// rendered with and the stable code clients switch on.
type Error struct {
	Status  int         `json:"-"`
	Code    int         `json:"errorCode"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// WithDetails attaches structured detail (e.g. validation output) to a copy of e.
func (e *Error) WithDetails(details interface{}) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: e.Message, Errors: details}
}

func New(status, code int, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func BadRequest(code int, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

func Unauthorized(code int, message string) *Error {
	return New(http.StatusUnauthorized, code, message)
}

func Forbidden(code int, message string) *Error {
	return New(http.StatusForbidden, code, message)
}

func NotFound(code int, message string) *Error {
	return New(http.StatusNotFound, code, message)
}

func Unprocessable(code int, message string) *Error {
	return New(http.StatusUnprocessableEntity, code, message)
}

// Respond translates any error into the uniform response shape, once, at the
// boundary. Unanticipated errors are logged and downgraded to a generic 500 so
// driver details never reach clients.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, appErr)
		return
	}
	log.Printf("❌ Unhandled error: %v", err)
	c.JSON(http.StatusInternalServerError, &Error{
		Code:    CodeInternal,
		Message: "Something went wrong",
	})
}
