package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alpinetrail/tracks-backend-go/internal/service"
	"github.com/alpinetrail/tracks-backend-go/pkg/response"
)

// StatsHandler handles HTTP requests for cross-track statistics
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetAggregated handles GET /api/v1/statistics/aggregated
func (h *StatsHandler) GetAggregated(c *gin.Context) {
	summaries, err := h.statsService.AggregatedByActivity()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, summaries)
}

// GetSkiingDuration handles GET /api/v1/statistics/skiing-duration.
// An optional date query (YYYY-MM-DD) selects the calendar date;
// absent, the rollup covers "today" on the server clock.
func (h *StatsHandler) GetSkiingDuration(c *gin.Context) {
	dateStr := c.Query("date")

	var (
		total time.Duration
		err   error
	)
	if dateStr == "" {
		total, err = h.statsService.TotalSkiingDurationToday()
	} else {
		var date time.Time
		date, err = time.ParseInLocation("2006-01-02", dateStr, h.statsService.Location())
		if err != nil {
			response.BadRequest(c, "Invalid date parameter, expected YYYY-MM-DD")
			return
		}
		total, err = h.statsService.TotalSkiingDurationOn(date)
	}
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"skiing_duration_seconds": total.Seconds()})
}
