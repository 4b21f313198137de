package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alpinetrail/tracks-backend-go/internal/models"
	"github.com/alpinetrail/tracks-backend-go/internal/service"
	"github.com/alpinetrail/tracks-backend-go/pkg/response"
)

// TrackHandler handles HTTP requests for tracks
type TrackHandler struct {
	trackService *service.TrackService
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(trackService *service.TrackService) *TrackHandler {
	return &TrackHandler{
		trackService: trackService,
	}
}

// CreateTrack handles POST /api/v1/tracks
func (h *TrackHandler) CreateTrack(c *gin.Context) {
	var in models.TrackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid track payload: "+err.Error())
		return
	}

	track, err := h.trackService.CreateTrack(in)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Created(c, track)
}

// ListTracks handles GET /api/v1/tracks
func (h *TrackHandler) ListTracks(c *gin.Context) {
	response.Success(c, h.trackService.ListTracks())
}

// GetTrack handles GET /api/v1/tracks/:id
func (h *TrackHandler) GetTrack(c *gin.Context) {
	id, ok := trackID(c)
	if !ok {
		return
	}

	track, err := h.trackService.GetTrack(id)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, track)
}

// AppendPoints handles POST /api/v1/tracks/:id/points
func (h *TrackHandler) AppendPoints(c *gin.Context) {
	id, ok := trackID(c)
	if !ok {
		return
	}

	var inputs []models.TrackPointInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		response.BadRequest(c, "Invalid points payload: "+err.Error())
		return
	}
	if len(inputs) == 0 {
		response.BadRequest(c, "Empty points payload")
		return
	}

	n, err := h.trackService.AppendPoints(id, inputs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrackNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrTrackFinished):
			response.Conflict(c, err.Error())
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.Success(c, gin.H{"appended": n})
}

// FinishTrack handles POST /api/v1/tracks/:id/finish
func (h *TrackHandler) FinishTrack(c *gin.Context) {
	id, ok := trackID(c)
	if !ok {
		return
	}

	track, err := h.trackService.FinishTrack(id)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, track)
}

// GetStatistics handles GET /api/v1/tracks/:id/statistics
func (h *TrackHandler) GetStatistics(c *gin.Context) {
	id, ok := trackID(c)
	if !ok {
		return
	}

	summary, err := h.trackService.Statistics(id)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, summary)
}

func trackID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid track id")
		return 0, false
	}
	return id, true
}
