// Package server streams the engine's decision events to external
// clients over WebSocket. It subscribes to the bus and forwards every
// event to connected observers, with optional history replay on connect
// and optional bearer-token auth.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/normanking/thalamus/internal/bus"
)

const (
	// WebSocketEndpoint is the path for WebSocket connections.
	WebSocketEndpoint = "/events"

	// HealthEndpoint is the path for health checks.
	HealthEndpoint = "/health"

	// WriteWait is the timeout for writing to a WebSocket.
	WriteWait = 10 * time.Second

	// PongWait is the timeout for pong responses.
	PongWait = 60 * time.Second

	// PingPeriod is how often to send ping frames.
	PingPeriod = (PongWait * 9) / 10

	// MaxMessageSize caps inbound messages; the feed is one-way, so
	// clients have no business sending anything large.
	MaxMessageSize = 512

	// sendBuffer is the per-client outbound queue length.
	sendBuffer = 256
)

// ErrUnauthorized is returned when a client fails the token check.
var ErrUnauthorized = errors.New("unauthorized")

// Config configures the observer server.
type Config struct {
	// Addr is the listen address, e.g. "127.0.0.1:8781".
	Addr string

	// TokenHash is a bcrypt hash of the access token. Empty disables
	// auth.
	TokenHash string

	// HistoryCount is the default number of events replayed to a new
	// client.
	HistoryCount int

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the default observer configuration.
func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:8781",
		HistoryCount:    100,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Observer is a WebSocket server that forwards bus events to connected
// clients.
type Observer struct {
	bus      *bus.Bus
	cfg      Config
	upgrader websocket.Upgrader
	server   *http.Server
	listener net.Listener
	subID    bus.SubscriptionID

	// Client management
	clients    map[*Client]bool
	clientsMu  sync.RWMutex
	register   chan *Client
	unregister chan *Client

	// Control
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	running   bool
	runningMu sync.RWMutex
}

// Client represents a single WebSocket connection.
type Client struct {
	conn *websocket.Conn
	send chan []byte

	replayHistory bool
	historyCount  int
}

// New creates an observer attached to the given bus.
func New(b *bus.Bus, cfg Config) *Observer {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.HistoryCount <= 0 {
		cfg.HistoryCount = def.HistoryCount
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Observer{
		bus: b,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The feed is read-only; cross-origin dashboards are the
			// expected consumers.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start begins listening and forwarding events. The returned error
// covers listen failures; serve errors after startup are logged.
func (o *Observer) Start() error {
	o.runningMu.Lock()
	if o.running {
		o.runningMu.Unlock()
		return fmt.Errorf("observer already running")
	}
	o.running = true
	o.runningMu.Unlock()

	ln, err := net.Listen("tcp", o.cfg.Addr)
	if err != nil {
		o.runningMu.Lock()
		o.running = false
		o.runningMu.Unlock()
		return fmt.Errorf("listen on %s: %w", o.cfg.Addr, err)
	}
	o.listener = ln

	// Forward every bus event
	o.subID = o.bus.Subscribe(bus.EventType(""), o.broadcast)

	o.wg.Add(1)
	go o.runClientManager()

	mux := http.NewServeMux()
	mux.HandleFunc(WebSocketEndpoint, o.handleWebSocket)
	mux.HandleFunc(HealthEndpoint, o.handleHealth)
	mux.HandleFunc("/", o.handleIndex)

	o.server = &http.Server{
		Addr:    o.cfg.Addr,
		Handler: withCORS(mux),
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		log.Info().Str("addr", o.Addr()).Msg("observer listening")
		if err := o.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("observer serve failed")
		}
	}()

	return nil
}

// Stop gracefully shuts down the observer. Safe to call twice.
func (o *Observer) Stop() error {
	o.runningMu.Lock()
	if !o.running {
		o.runningMu.Unlock()
		return nil
	}
	o.running = false
	o.runningMu.Unlock()

	// Stop receiving bus events
	o.bus.Unsubscribe(o.subID)

	o.cancel()

	// Closing the connections unblocks every readPump
	o.clientsMu.Lock()
	for client := range o.clients {
		client.conn.Close()
		delete(o.clients, client)
	}
	o.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.ShutdownTimeout)
	defer cancel()

	if err := o.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	o.wg.Wait()

	log.Info().Msg("observer stopped")
	return nil
}

// IsRunning reports whether the observer is currently serving.
func (o *Observer) IsRunning() bool {
	o.runningMu.RLock()
	defer o.runningMu.RUnlock()
	return o.running
}

// ClientCount returns the number of connected WebSocket clients.
func (o *Observer) ClientCount() int {
	o.clientsMu.RLock()
	defer o.clientsMu.RUnlock()
	return len(o.clients)
}

// Addr returns the bound listen address. Useful when the configured
// address used port 0.
func (o *Observer) Addr() string {
	if o.listener == nil {
		return o.cfg.Addr
	}
	return o.listener.Addr().String()
}

// HashToken returns the bcrypt hash of a plaintext token, suitable for
// the server.token_hash config field.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}
	return string(hash), nil
}

// authorize checks the client's token against the configured bcrypt
// hash. An empty hash disables auth.
func (o *Observer) authorize(r *http.Request) error {
	if o.cfg.TokenHash == "" {
		return nil
	}

	// Browser WebSocket clients cannot set request headers, so the
	// token may also ride a query parameter.
	token := r.URL.Query().Get("token")
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	}
	if token == "" {
		return ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(o.cfg.TokenHash), []byte(token)); err != nil {
		return ErrUnauthorized
	}

	return nil
}

// runClientManager serializes client registration and removal.
func (o *Observer) runClientManager() {
	defer o.wg.Done()

	for {
		select {
		case client := <-o.register:
			o.clientsMu.Lock()
			o.clients[client] = true
			total := len(o.clients)
			o.clientsMu.Unlock()
			log.Debug().Int("clients", total).Msg("observer client connected")

			if client.replayHistory {
				o.replay(client)
			}

		case client := <-o.unregister:
			o.clientsMu.Lock()
			if _, ok := o.clients[client]; ok {
				delete(o.clients, client)
				close(client.send)
				client.conn.Close()
			}
			total := len(o.clients)
			o.clientsMu.Unlock()
			log.Debug().Int("clients", total).Msg("observer client disconnected")

		case <-o.ctx.Done():
			return
		}
	}
}

// replay queues recent history for a newly connected client.
func (o *Observer) replay(client *Client) {
	for _, event := range o.bus.LastN(client.historyCount) {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}

		select {
		case client.send <- data:
		default:
			// Queue full, drop the rest of the replay
			return
		}
	}
}

// handleWebSocket upgrades HTTP connections to WebSocket. Query
// parameters: replay=false skips history, count=N bounds the replay.
func (o *Observer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if err := o.authorize(r); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	replay := r.URL.Query().Get("replay") != "false"
	count := o.cfg.HistoryCount
	if v := r.URL.Query().Get("count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			count = n
		}
	}

	conn, err := o.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		conn:          conn,
		send:          make(chan []byte, sendBuffer),
		replayHistory: replay,
		historyCount:  count,
	}

	select {
	case o.register <- client:
	case <-o.ctx.Done():
		conn.Close()
		return
	}

	o.wg.Add(2)
	go o.writePump(client)
	go o.readPump(client)
}

// writePump drains the client's queue, batching whatever has
// accumulated into one newline-delimited frame.
func (o *Observer) writePump(client *Client) {
	defer o.wg.Done()
	defer client.conn.Close()

	ticker := time.NewTicker(PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := client.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(client.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-client.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-o.ctx.Done():
			return
		}
	}
}

// readPump consumes control frames until the peer goes away. Inbound
// data messages are ignored; the feed is one-way.
func (o *Observer) readPump(client *Client) {
	defer o.wg.Done()
	defer func() {
		select {
		case o.unregister <- client:
		case <-o.ctx.Done():
			client.conn.Close()
		}
	}()

	client.conn.SetReadLimit(MaxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(PongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("websocket read ended")
			}
			break
		}
	}
}

// broadcast fans one bus event out to every connected client. Slow
// clients are disconnected rather than allowed to stall the feed.
func (o *Observer) broadcast(event bus.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Warn().Err(err).Msg("marshal event failed")
		return
	}

	var full []*Client
	o.clientsMu.RLock()
	for client := range o.clients {
		select {
		case client.send <- data:
		default:
			full = append(full, client)
		}
	}
	o.clientsMu.RUnlock()

	for _, client := range full {
		select {
		case o.unregister <- client:
		case <-o.ctx.Done():
			return
		}
	}
}

// handleHealth responds to health check requests.
func (o *Observer) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := struct {
		Status      string `json:"status"`
		Service     string `json:"service"`
		Addr        string `json:"addr"`
		Clients     int    `json:"clients"`
		BusSubs     int    `json:"bus_subscriptions"`
		HistorySize int    `json:"history_size"`
	}{
		Status:      "healthy",
		Service:     "thalamus-observer",
		Addr:        o.Addr(),
		Clients:     o.ClientCount(),
		BusSubs:     o.bus.SubscriptionsCount(),
		HistorySize: len(o.bus.History()),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleIndex describes the feed at the root endpoint.
func (o *Observer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	info := struct {
		Name         string   `json:"name"`
		WebSocket    string   `json:"websocket_endpoint"`
		Health       string   `json:"health_endpoint"`
		AuthRequired bool     `json:"auth_required"`
		EventTypes   []string `json:"event_types"`
	}{
		Name:         "Thalamus Decision Event Feed",
		WebSocket:    WebSocketEndpoint,
		Health:       HealthEndpoint,
		AuthRequired: o.cfg.TokenHash != "",
		EventTypes: []string{
			string(bus.EventDecisionMade),
			string(bus.EventDecisionSkip),
			string(bus.EventDecisionNone),
			string(bus.EventDisambiguation),
			string(bus.EventDetectorFault),
			string(bus.EventUsageRecorded),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// withCORS allows cross-origin dashboards to reach the JSON endpoints.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
