// internal/handlers/common.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/services"
	"github.com/AkhlaqurRahmanOmi/lottery-system-backend-sub003/internal/utils"
)

// respondServiceError maps a service-layer error onto the HTTP surface.
// NOT_FOUND becomes 404, CONFLICT 409, INVALID_STATE 422; anything
// untyped is a 500 with the detail kept out of the response body.
func respondServiceError(c *gin.Context, err error) {
	kind, ok := services.KindOf(err)
	if !ok {
		utils.InternalErrorResponse(c, "")
		return
	}

	switch kind {
	case services.KindNotFound:
		utils.NotFoundResponse(c, err.Error())
	case services.KindConflict:
		utils.ConflictResponse(c, err.Error())
	case services.KindInvalidState:
		utils.InvalidStateResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, "")
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}
