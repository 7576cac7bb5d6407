package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chronicle-dev/chronicle/internal/apperr"
)

// RespondError renders a typed service error as the JSON error envelope.
// Anything that is not an apperr is treated as an internal failure.
func RespondError(ctx *gin.Context, err error) {
	var appErr *apperr.Error

	if errors.As(err, &appErr) {
		if appErr.Kind == apperr.KindInternal {
			log.Printf("internal error on %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, errors.Unwrap(appErr))
		}
		ctx.JSON(appErr.Status(), gin.H{"success": false, "message": appErr.Message})
		return
	}

	log.Printf("unexpected error on %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal Server Error"})
}
