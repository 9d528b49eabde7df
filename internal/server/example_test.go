package server_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/and161185/gamestate-exporter/internal/server/testutils"
	"github.com/and161185/gamestate-exporter/model"
)

func ExampleServer_MetricsHandler() {
	srv, store := testutils.NewTestServer()
	store.Update(&model.GameState{NumConnectedPlayers: 12, TechTier: 3, TotalGameDuration: 7200, AverageTickRate: 59.8})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	fmt.Println(w.Code)
	fmt.Print(w.Body.String())
	// Output:
	// 200
	// # HELP average_tick_rate Average tick rate
	// # TYPE average_tick_rate gauge
	// average_tick_rate 59.8
	// # HELP num_connected_players Number of connected players
	// # TYPE num_connected_players gauge
	// num_connected_players 12
	// # HELP tech_tier Current tech tier
	// # TYPE tech_tier gauge
	// tech_tier 3
	// # HELP total_game_duration Total game duration
	// # TYPE total_game_duration gauge
	// total_game_duration 7200
}
