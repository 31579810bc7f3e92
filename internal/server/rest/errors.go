package rest

import (
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrParentNotFound),
		errors.Is(err, common.ErrParentNotAFolder),
		errors.Is(err, common.ErrAlreadyExists),
		errors.Is(err, common.ErrFolderHasNoContent):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage is the client-facing text of err. Unexpected errors are not
// described beyond their class.
func errorMessage(err error) string {
	var msg string
	switch {
	case errors.Is(err, common.ErrValidation):
		msg = strings.TrimPrefix(err.Error(), common.ErrValidation.Error()+": ")
	case errors.Is(err, common.ErrUnknownMimeType):
		msg = common.ErrUnknownMimeType.Error()
	case statusFor(err) == http.StatusInternalServerError:
		msg = "internal server error"
	default:
		msg = err.Error()
	}
	return capitalize(msg)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": errorMessage(err)})
}
