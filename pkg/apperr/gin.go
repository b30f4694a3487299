package apperr

import (
	"github.com/gin-gonic/gin"

	"github.com/bscit-05-39008695/gamehub/pkg/logger"
)

type errorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Abort writes the structured error response for err and stops the
// handler chain. Internal causes are logged, never returned to the
// caller.
func Abort(c *gin.Context, err error) {
	e := From(err)
	if e.Code == CodeInternal {
		logger.Error(c.Request.Context()).Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(HTTPStatus(e.Code), gin.H{
		"error": errorBody{Code: e.Code, Message: e.Message},
	})
}
