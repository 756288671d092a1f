package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/normanking/thalamus/internal/bus"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// startObserverOn brings up an observer on an ephemeral port against
// an existing bus and tears it down with the test.
func startObserverOn(t *testing.T, b *bus.Bus, mutate func(*Config)) *Observer {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	if mutate != nil {
		mutate(&cfg)
	}

	o := New(b, cfg)
	if err := o.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		if err := o.Stop(); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	})

	return o
}

func startObserver(t *testing.T, mutate func(*Config)) (*Observer, *bus.Bus) {
	t.Helper()

	b := bus.NewWithHistory(100)
	t.Cleanup(func() { b.Close() })

	return startObserverOn(t, b, mutate), b
}

// dial connects a WebSocket client to the observer's events endpoint.
func dial(t *testing.T, o *Observer, query string, header http.Header) *websocket.Conn {
	t.Helper()

	url := "ws://" + o.Addr() + WebSocketEndpoint + query
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Dial %s failed: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// readEvents reads frames until n events have arrived. The write pump
// batches queued events into newline-delimited frames.
func readEvents(t *testing.T, conn *websocket.Conn, n int) []bus.Event {
	t.Helper()

	var events []bus.Event
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	for len(events) < n {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage failed after %d of %d events: %v", len(events), n, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line == "" {
				continue
			}
			var e bus.Event
			if err := json.Unmarshal([]byte(line), &e); err != nil {
				t.Fatalf("Unmarshal %q failed: %v", line, err)
			}
			events = append(events, e)
		}
	}

	return events
}

// httpGet fetches a URL with a throwaway client so no idle connections
// outlive the test.
func httpGet(t *testing.T, url string) *http.Response {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	t.Cleanup(func() { client.CloseIdleConnections() })

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

// waitForClients polls until the observer reports n connected clients.
func waitForClients(t *testing.T, o *Observer, n int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if o.ClientCount() == n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", o.ClientCount(), n)
}

func TestObserverBroadcast(t *testing.T) {
	o, b := startObserver(t, nil)

	conn := dial(t, o, "?replay=false", nil)

	// Registration is asynchronous
	waitForClients(t, o, 1)

	event := bus.NewDecisionEvent("play the beatles", "play_music", 0.98, "play + artist", nil, false, time.Millisecond)
	if err := b.Publish(event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	events := readEvents(t, conn, 1)
	if events[0].Type != bus.EventDecisionMade {
		t.Errorf("event type = %q, want %q", events[0].Type, bus.EventDecisionMade)
	}
	if events[0].Tool != "play_music" {
		t.Errorf("event tool = %q, want play_music", events[0].Tool)
	}
}

func TestObserverReplay(t *testing.T) {
	b := bus.NewWithHistory(100)
	t.Cleanup(func() { b.Close() })

	// Published before the observer subscribes, so replay is the only
	// path to the client.
	tools := []string{"play_music", "read_gmail", "control_lights", "web_search", "create_timer"}
	for _, tool := range tools {
		b.Publish(bus.NewDecisionEvent("msg", tool, 0.9, "test", nil, false, 0))
	}

	o := startObserverOn(t, b, nil)
	conn := dial(t, o, "?count=2", nil)

	events := readEvents(t, conn, 2)
	if events[0].Tool != "web_search" {
		t.Errorf("first replayed tool = %q, want web_search", events[0].Tool)
	}
	if events[1].Tool != "create_timer" {
		t.Errorf("second replayed tool = %q, want create_timer", events[1].Tool)
	}
}

func TestObserverReplayDisabled(t *testing.T) {
	b := bus.NewWithHistory(100)
	t.Cleanup(func() { b.Close() })

	b.Publish(bus.NewDecisionEvent("old", "play_music", 0.9, "test", nil, false, 0))

	o := startObserverOn(t, b, nil)
	conn := dial(t, o, "?replay=false", nil)
	waitForClients(t, o, 1)

	// Only the event published after connect should arrive
	b.Publish(bus.NewSkipEvent("hello"))

	events := readEvents(t, conn, 1)
	if events[0].Type != bus.EventDecisionSkip {
		t.Errorf("event type = %q, want %q", events[0].Type, bus.EventDecisionSkip)
	}
}

func TestObserverAuth(t *testing.T) {
	hash, err := HashToken("sesame")
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}

	o, _ := startObserver(t, func(cfg *Config) {
		cfg.TokenHash = hash
	})

	t.Run("missing token rejected", func(t *testing.T) {
		url := "ws://" + o.Addr() + WebSocketEndpoint
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			t.Fatal("Dial succeeded without token")
		}
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 response, got %+v", resp)
		}
		if resp != nil {
			resp.Body.Close()
		}
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		url := "ws://" + o.Addr() + WebSocketEndpoint + "?token=mellon"
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			t.Fatal("Dial succeeded with wrong token")
		}
		if resp != nil {
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", resp.StatusCode)
			}
			resp.Body.Close()
		}
	})

	t.Run("query token accepted", func(t *testing.T) {
		conn := dial(t, o, "?replay=false&token=sesame", nil)
		conn.Close()
	})

	t.Run("bearer header accepted", func(t *testing.T) {
		header := http.Header{"Authorization": []string{"Bearer sesame"}}
		conn := dial(t, o, "?replay=false", header)
		conn.Close()
	})

	t.Run("health stays open", func(t *testing.T) {
		resp := httpGet(t, "http://"+o.Addr()+HealthEndpoint)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health status = %d, want 200", resp.StatusCode)
		}
	})
}

func TestHashToken(t *testing.T) {
	hash, err := HashToken("sesame")
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}
	if hash == "sesame" {
		t.Error("hash equals plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("sesame")); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("mellon")); err == nil {
		t.Error("wrong token verified")
	}
}

func TestObserverHealth(t *testing.T) {
	o, b := startObserver(t, nil)

	b.Publish(bus.NewEvent(bus.EventDecisionMade))

	resp := httpGet(t, "http://"+o.Addr()+HealthEndpoint)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var health struct {
		Status      string `json:"status"`
		Service     string `json:"service"`
		HistorySize int    `json:"history_size"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
	if health.Service != "thalamus-observer" {
		t.Errorf("service = %q", health.Service)
	}
	if health.HistorySize != 1 {
		t.Errorf("history_size = %d, want 1", health.HistorySize)
	}
}

func TestObserverIndex(t *testing.T) {
	o, _ := startObserver(t, nil)

	resp := httpGet(t, "http://"+o.Addr()+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var info struct {
		Name         string   `json:"name"`
		WebSocket    string   `json:"websocket_endpoint"`
		AuthRequired bool     `json:"auth_required"`
		EventTypes   []string `json:"event_types"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if info.WebSocket != WebSocketEndpoint {
		t.Errorf("websocket_endpoint = %q, want %q", info.WebSocket, WebSocketEndpoint)
	}
	if info.AuthRequired {
		t.Error("auth_required = true without a token hash")
	}
	if len(info.EventTypes) != 6 {
		t.Errorf("event_types = %v, want 6 entries", info.EventTypes)
	}
}

func TestObserverIndexUnknownPath(t *testing.T) {
	o, _ := startObserver(t, nil)

	resp := httpGet(t, "http://"+o.Addr()+"/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestObserverStartTwice(t *testing.T) {
	o, _ := startObserver(t, nil)

	if err := o.Start(); err == nil {
		t.Error("second Start did not fail")
	}
	if !o.IsRunning() {
		t.Error("observer stopped running after failed Start")
	}
}

func TestObserverStopIdempotent(t *testing.T) {
	b := bus.New()
	defer b.Close()

	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	o := New(b, cfg)
	if err := o.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := o.Stop(); err != nil {
		t.Fatalf("first Stop failed: %v", err)
	}
	if o.IsRunning() {
		t.Error("observer still running after Stop")
	}
	if err := o.Stop(); err != nil {
		t.Errorf("second Stop failed: %v", err)
	}
}

func TestObserverClientCount(t *testing.T) {
	o, _ := startObserver(t, nil)

	if got := o.ClientCount(); got != 0 {
		t.Errorf("initial client count = %d, want 0", got)
	}

	first := dial(t, o, "?replay=false", nil)
	dial(t, o, "?replay=false", nil)
	waitForClients(t, o, 2)

	first.Close()
	waitForClients(t, o, 1)
}

func TestObserverDefaultConfigFill(t *testing.T) {
	b := bus.New()
	defer b.Close()

	o := New(b, Config{})
	if o.cfg.Addr != DefaultConfig().Addr {
		t.Errorf("addr = %q, want default", o.cfg.Addr)
	}
	if o.cfg.HistoryCount != DefaultConfig().HistoryCount {
		t.Errorf("history count = %d, want default", o.cfg.HistoryCount)
	}
	if o.cfg.ShutdownTimeout != DefaultConfig().ShutdownTimeout {
		t.Errorf("shutdown timeout = %v, want default", o.cfg.ShutdownTimeout)
	}

	// Never started, so Stop is a no-op
	if err := o.Stop(); err != nil {
		t.Errorf("Stop on unstarted observer failed: %v", err)
	}
}
