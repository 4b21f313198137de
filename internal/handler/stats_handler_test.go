package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpinetrail/tracks-backend-go/internal/models"
	"github.com/alpinetrail/tracks-backend-go/internal/service"
)

func fp(v float64) *float64 { return &v }

func testRouter(trackSvc *service.TrackService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	statsSvc := service.NewStatsService(trackSvc)
	trackHandler := NewTrackHandler(trackSvc)
	statsHandler := NewStatsHandler(statsSvc)

	r := gin.New()
	r.POST("/tracks", trackHandler.CreateTrack)
	r.GET("/tracks", trackHandler.ListTracks)
	r.GET("/tracks/:id", trackHandler.GetTrack)
	r.POST("/tracks/:id/points", trackHandler.AppendPoints)
	r.POST("/tracks/:id/finish", trackHandler.FinishTrack)
	r.GET("/tracks/:id/statistics", trackHandler.GetStatistics)
	r.GET("/statistics/aggregated", statsHandler.GetAggregated)
	r.GET("/statistics/skiing-duration", statsHandler.GetSkiingDuration)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, url, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

func seedSkiTrack(t *testing.T, svc *service.TrackService, start time.Time) models.Track {
	t.Helper()

	track, err := svc.CreateTrack(models.TrackInput{Name: "Ski day", Activity: models.ActivitySki})
	require.NoError(t, err)
	_, err = svc.AppendPoints(track.ID, []models.TrackPointInput{
		{Time: start, Altitude: fp(2200), Speed: fp(10)},
		{Time: start.Add(4 * time.Minute), Altitude: fp(2050), Speed: fp(10)},
	})
	require.NoError(t, err)
	return track
}

func TestTrackEndpoints(t *testing.T) {
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return day.Add(20 * time.Hour) }

	t.Run("create and fetch a track", func(t *testing.T) {
		svc := service.NewTrackService(time.UTC, clock)
		r := testRouter(svc)

		w, envelope := doJSON(t, r, http.MethodPost, "/tracks", `{"name":"Ski day","activity":"SKI"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "Ski day", data["name"])
		assert.Equal(t, "SKI", data["activity"])

		w, envelope = doJSON(t, r, http.MethodGet, "/tracks/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		data = envelope["data"].(map[string]any)
		assert.Equal(t, float64(1), data["id"])
	})

	t.Run("create rejects bad payloads", func(t *testing.T) {
		svc := service.NewTrackService(time.UTC, clock)
		r := testRouter(svc)

		w, _ := doJSON(t, r, http.MethodPost, "/tracks", `{"activity":"SKI"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = doJSON(t, r, http.MethodPost, "/tracks", `{"name":"x","activity":"SWIM"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("append points and read statistics", func(t *testing.T) {
		svc := service.NewTrackService(time.UTC, clock)
		r := testRouter(svc)
		seedSkiTrack(t, svc, day.Add(9*time.Hour))

		w, envelope := doJSON(t, r, http.MethodGet, "/tracks/1/statistics", "")
		require.Equal(t, http.StatusOK, w.Code)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, 240.0, data["total_time_seconds"])
		assert.Equal(t, 150.0, data["altitude_loss_meters"])
	})

	t.Run("appending to unknown track is 404", func(t *testing.T) {
		svc := service.NewTrackService(time.UTC, clock)
		r := testRouter(svc)

		w, _ := doJSON(t, r, http.MethodPost, "/tracks/7/points", `[{"time":"2026-01-15T09:00:00Z"}]`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("appending to finished track is 409", func(t *testing.T) {
		svc := service.NewTrackService(time.UTC, clock)
		r := testRouter(svc)
		seedSkiTrack(t, svc, day.Add(9*time.Hour))

		w, _ := doJSON(t, r, http.MethodPost, "/tracks/1/finish", "")
		require.Equal(t, http.StatusOK, w.Code)

		w, _ = doJSON(t, r, http.MethodPost, "/tracks/1/points", `[{"time":"2026-01-15T10:00:00Z"}]`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid track id is 400", func(t *testing.T) {
		svc := service.NewTrackService(time.UTC, clock)
		r := testRouter(svc)

		w, _ := doJSON(t, r, http.MethodGet, "/tracks/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStatsEndpoints(t *testing.T) {
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return day.Add(20 * time.Hour) }

	t.Run("aggregated statistics by activity", func(t *testing.T) {
		svc := service.NewTrackService(time.UTC, clock)
		r := testRouter(svc)
		seedSkiTrack(t, svc, day.Add(9*time.Hour))
		seedSkiTrack(t, svc, day.Add(11*time.Hour))

		w, envelope := doJSON(t, r, http.MethodGet, "/statistics/aggregated", "")
		require.Equal(t, http.StatusOK, w.Code)

		data := envelope["data"].([]any)
		require.Len(t, data, 1)
		skiing := data[0].(map[string]any)
		assert.Equal(t, "SKI", skiing["activity"])
		assert.Equal(t, float64(2), skiing["track_count"])
		stats := skiing["stats"].(map[string]any)
		assert.Equal(t, 480.0, stats["total_time_seconds"])
	})

	t.Run("skiing duration for an explicit date", func(t *testing.T) {
		svc := service.NewTrackService(time.UTC, clock)
		r := testRouter(svc)
		seedSkiTrack(t, svc, day.Add(9*time.Hour))

		w, envelope := doJSON(t, r, http.MethodGet, "/statistics/skiing-duration?date=2026-01-15", "")
		require.Equal(t, http.StatusOK, w.Code)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, 240.0, data["skiing_duration_seconds"])
	})

	t.Run("skiing duration defaults to today on the service clock", func(t *testing.T) {
		svc := service.NewTrackService(time.UTC, clock)
		r := testRouter(svc)
		seedSkiTrack(t, svc, day.Add(9*time.Hour))

		w, envelope := doJSON(t, r, http.MethodGet, "/statistics/skiing-duration", "")
		require.Equal(t, http.StatusOK, w.Code)
		data := envelope["data"].(map[string]any)
		assert.Equal(t, 240.0, data["skiing_duration_seconds"])
	})

	t.Run("malformed date is 400", func(t *testing.T) {
		svc := service.NewTrackService(time.UTC, clock)
		r := testRouter(svc)

		w, _ := doJSON(t, r, http.MethodGet, "/statistics/skiing-duration?date=15-01-2026", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
