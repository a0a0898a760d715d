package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/middleware"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
	"github.com/BruksfildServices01/tutor-scheduler/internal/timezone"
	"github.com/BruksfildServices01/tutor-scheduler/internal/validators"
)

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.BadRequest(c, "invalid_request", validators.Describe(err))
		return false
	}
	return true
}

func principal(c *gin.Context) (session.Principal, bool) {
	p := middleware.Principal(c)
	if p == nil {
		httperr.Write(c, http.StatusUnauthorized, "unauthorized", "Not authorized")
		return nil, false
	}
	return p, true
}

// periodQuery reads optional from/to dates (inclusive) in the default
// timezone.
func periodQuery(c *gin.Context) (*booking.Period, bool) {
	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr == "" && toStr == "" {
		return nil, true
	}

	loc := timezone.Location(timezone.Default())
	p := &booking.Period{}

	if fromStr != "" {
		from, err := booking.ParseDate(fromStr, loc)
		if err != nil {
			httperr.Respond(c, err)
			return nil, false
		}
		p.From = from
	}
	if toStr != "" {
		to, err := booking.ParseDate(toStr, loc)
		if err != nil {
			httperr.Respond(c, err)
			return nil, false
		}
		p.To = to.Add(24 * time.Hour)
	}
	return p, true
}
