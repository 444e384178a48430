package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	httpctrl "github.com/enishi-chat/enishi/pkg/controller/http"
	"github.com/enishi-chat/enishi/pkg/usecase"
)

type stubStats struct {
	stats *usecase.Stats
	err   error
}

func (s *stubStats) GetStats(ctx context.Context) (*usecase.Stats, error) {
	return s.stats, s.err
}

type stubWS struct{}

func (stubWS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusSwitchingProtocols)
}

func TestHealthEndpoint(t *testing.T) {
	srv := httpctrl.New(stubWS{}, &stubStats{stats: &usecase.Stats{}})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	gt.Number(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains(`"status":"ok"`)
}

func TestStatsEndpoint(t *testing.T) {
	srv := httpctrl.New(stubWS{}, &stubStats{
		stats: &usecase.Stats{Online: 4, Queueing: 2, Rooms: 1},
	})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	gt.Number(t, rec.Code).Equal(http.StatusOK)

	var stats usecase.Stats
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	gt.Number(t, stats.Online).Equal(4)
	gt.Number(t, stats.Queueing).Equal(2)
	gt.Number(t, stats.Rooms).Equal(1)
}

func TestStatsEndpointError(t *testing.T) {
	srv := httpctrl.New(stubWS{}, &stubStats{err: goerr.New("backend down")})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	gt.Number(t, rec.Code).Equal(http.StatusInternalServerError)
}

func TestWebsocketRouting(t *testing.T) {
	srv := httpctrl.New(stubWS{}, &stubStats{stats: &usecase.Stats{}})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws?id=u1", nil))

	gt.Number(t, rec.Code).Equal(http.StatusSwitchingProtocols)
}
