package api

import (
	"net/http"

	"github.com/charles-oliveira/web-2/models"
	"github.com/gin-gonic/gin"
)

// GetSummary godoc
// @Summary Financial summary
// @Description Totals, balance, per-category totals and the five most recent transactions. Without dates the current month is used.
// @Tags summary
// @Produce json
// @Param start_date query string false "Inclusive start (YYYY-MM-DD), requires end_date"
// @Param end_date query string false "Inclusive end (YYYY-MM-DD), requires start_date"
// @Success 200 {object} models.SummaryResponse
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /summary [get]
func (h *Handler) GetSummary(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	r, err := closedRange(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	summary, err := scope.Summary(c.Request.Context(), r)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewSummaryResponse(summary))
}
