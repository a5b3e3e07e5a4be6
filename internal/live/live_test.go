package live

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ising/pkg/sims/ising"
)

func TestCurvesEndpoint(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(NewServer(hub, nil, nil).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/curves")
	require.NoError(t, err)
	var empty []CurvePoint
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&empty))
	resp.Body.Close()
	assert.Empty(t, empty)

	require.NoError(t, hub.RecordCurves(map[float64]float64{4: 0.1, 1: 0.9}, map[float64]float64{4: 0.2, 1: 0.8}))
	resp, err = http.Get(srv.URL + "/curves")
	require.NoError(t, err)
	defer resp.Body.Close()
	var got []CurvePoint
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, []CurvePoint{{Temperature: 1, Avg: 0.9, Final: 0.8}, {Temperature: 4, Avg: 0.1, Final: 0.2}}, got)

	metricsResp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	metricsResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, metricsResp.StatusCode)
}

func TestWebsocketReceivesEvents(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(NewServer(hub, nil, nil).Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.RecordProgression(2, []float64{0.5, 0.25}))
	require.NoError(t, hub.RecordScatter(ising.ScatterFinal, []ising.Point{{Temperature: 2, Magnetization: -0.5}}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventProgression, ev.Type)
	assert.Equal(t, 2.0, ev.Temperature)
	assert.Equal(t, []float64{0.5, 0.25}, ev.Series)

	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventScatter, ev.Type)
	assert.Equal(t, "final", ev.Kind)
	assert.Equal(t, []ising.Point{{Temperature: 2, Magnetization: -0.5}}, ev.Points)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer(NewHub(nil), nil, nil).Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
