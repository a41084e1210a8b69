package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/config"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/shared/testutil"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/events"
)

// DashboardFlowSuite drives a full application over real HTTP and
// WebSocket connections.
type DashboardFlowSuite struct {
	suite.Suite
	app    *Application
	server *httptest.Server
}

func TestDashboardFlowSuite(t *testing.T) {
	suite.Run(t, new(DashboardFlowSuite))
}

func (s *DashboardFlowSuite) SetupTest() {
	dir := s.T().TempDir()
	testutil.WriteSeries(s.T(), dir, "^NSEI",
		testutil.Point{Date: "2022-01-03", Close: 17625.7},
		testutil.Point{Date: "2022-01-04", Close: 17805.25},
		testutil.Point{Date: "2022-01-05", Close: 17925.25},
	)
	testutil.WriteSeries(s.T(), dir, "^NSEBANK",
		testutil.Point{Date: "2022-01-03", Close: 36421.9},
		testutil.Point{Date: "2022-01-05", Close: 37695.9},
	)

	cfg := config.Default()
	cfg.Data.Dir = dir
	cfg.Security.RateLimit.Enabled = false

	app, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(s.T(), err)
	s.app = app
	s.server = httptest.NewServer(app.Router)
}

func (s *DashboardFlowSuite) TearDownTest() {
	if s.app != nil {
		_ = s.app.Stop(context.Background())
	}
	if s.server != nil {
		s.server.Close()
	}
}

func (s *DashboardFlowSuite) get(path string) *http.Response {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	return resp
}

func (s *DashboardFlowSuite) TestCatalogListsAvailableTickers() {
	resp := s.get("/api/tickers?available=true")
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Tickers []api.TickerInfo `json:"tickers"`
		Count   int              `json:"count"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))

	symbols := make([]string, 0, len(body.Tickers))
	for _, ti := range body.Tickers {
		s.True(ti.Available, ti.Symbol)
		symbols = append(symbols, ti.Symbol)
	}
	s.ElementsMatch([]string{"^NSEI", "^NSEBANK"}, symbols)
	s.Equal(len(body.Tickers), body.Count)
}

func (s *DashboardFlowSuite) TestHealthReportsDataFiles() {
	resp := s.get("/api/health")
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var health api.HealthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&health))
	s.Equal("healthy", health.Status)
	s.Equal(2, health.DataFiles)
	s.NotEmpty(health.Uptime)
}

func (s *DashboardFlowSuite) TestDashboardRendersComparison() {
	resp := s.get("/?tickers=%5ENSEI&tickers=%5ENSEBANK&start=2022-01-03&end=2022-01-05&normalize=on")
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	html := string(body)
	s.Contains(html, "/api/comparison/chart.png?")
	s.Contains(html, "heatmap.xlsx")
	s.NotContains(html, "No valid data")
}

func (s *DashboardFlowSuite) TestWebSocketSnapshotRoundTrip() {
	wsURL := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().NoError(err)
	defer conn.Close()

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(10 * time.Second)))

	var connect events.BaseMessage
	s.Require().NoError(conn.ReadJSON(&connect))
	s.Equal(events.MessageTypeConnect, connect.Type)
	s.NotEmpty(connect.SessionID)

	s.Require().NoError(conn.WriteJSON(events.InputSnapshot{
		Type:     events.MessageTypeInput,
		Sequence: 3,
		Request: api.ComparisonRequest{
			Tickers:   []string{"^NSEI", "^NSEBANK"},
			StartDate: "2022-01-03",
			EndDate:   "2022-01-05",
			Normalize: true,
		},
	}))

	for {
		var raw json.RawMessage
		s.Require().NoError(conn.ReadJSON(&raw))

		var base events.BaseMessage
		s.Require().NoError(json.Unmarshal(raw, &base))
		if base.Type != events.MessageTypeRunResult {
			s.Require().Equal(events.MessageTypeRunStarted, base.Type, string(raw))
			continue
		}

		var result events.RunResult
		s.Require().NoError(json.Unmarshal(raw, &result))
		s.Equal(int64(3), result.Sequence)
		s.Require().NotNil(result.Result)
		s.Equal("success", result.Result.Status)
		s.Equal([]string{"^NSEI", "^NSEBANK"}, result.Result.Tickers)
		s.Require().NotNil(result.Result.Chart)
		s.Equal(3, result.Result.Chart.Len())
		break
	}

	s.Eventually(func() bool { return s.app.WebSocketHub.GetClientCount() == 1 },
		time.Second, 10*time.Millisecond)
}
