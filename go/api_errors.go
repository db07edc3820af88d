package bookstoreserver

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/go-gin-bookstore/internal/shared/errors"
)

var responder = apierrors.DefaultResponder

// SetResponder replaces the responder used by every handler, typically to inject the process logger.
func SetResponder(r *apierrors.Responder) {
	if r != nil {
		responder = r
	}
}

func respondError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}
