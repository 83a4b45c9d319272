package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ynab-recon-engine/internal/apperr"
	"ynab-recon-engine/pkg/response"
)

// respondErr maps an apperr.Kind to an HTTP status and writes the
// envelope, falling back to 500 for unclassified errors.
func respondErr(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		response.InternalError(c, "unexpected error", err.Error())
		return
	}

	switch appErr.Kind {
	case apperr.KindInvalidArgument, apperr.KindParseError:
		response.BadRequest(c, appErr.Message, appErr.Error())
	case apperr.KindNotFound:
		response.NotFound(c, appErr.Message)
	case apperr.KindConflict:
		response.Error(c, http.StatusConflict, string(appErr.Kind), appErr.Message, appErr.Error())
	case apperr.KindPreconditionFailed:
		response.Error(c, http.StatusPreconditionFailed, string(appErr.Kind), appErr.Message, appErr.Error())
	case apperr.KindLedgerError, apperr.KindStoreError:
		response.Error(c, http.StatusBadGateway, string(appErr.Kind), appErr.Message, appErr.Error())
	default:
		response.InternalError(c, appErr.Message, appErr.Error())
	}
}
