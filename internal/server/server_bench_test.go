package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/and161185/gamestate-exporter/internal/server/testutils"
	"github.com/and161185/gamestate-exporter/model"
)

func BenchmarkMetricsHandler(b *testing.B) {
	srv, store := testutils.NewTestServer()
	store.Update(&model.GameState{NumConnectedPlayers: 12, TechTier: 3, TotalGameDuration: 7200, AverageTickRate: 59.8})
	r := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
	}
}

func BenchmarkMetricsHandlerGzip(b *testing.B) {
	srv, store := testutils.NewTestServer()
	store.Update(&model.GameState{NumConnectedPlayers: 12, TechTier: 3, TotalGameDuration: 7200, AverageTickRate: 59.8})
	r := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
	}
}
