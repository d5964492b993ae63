package evomarket

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WSHub manages WebSocket connections and broadcasts
type WSHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan WSMessage
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Time int64       `json:"time"` // Unix timestamp
}

var wsHub *WSHub
var webDashboardEnabled = false

// WSMessage type constants
const (
	MsgTypeMarket     = "market"
	MsgTypeGeneration = "generation"
	MsgTypeStatus     = "status"
	MsgTypeError      = "error"
)

// InitWebDashboard initializes the WebSocket hub and marks broadcasting
// enabled.
func InitWebDashboard() {
	wsHub = &WSHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
	webDashboardEnabled = true
	go wsHub.run()
}

// StartWebDashboard starts the HTTP/WebSocket server. Blocks, so callers run
// it in a goroutine.
func StartWebDashboard(port int) error {
	InitWebDashboard()

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "dashboard.html")
	})
	http.HandleFunc("/ws", wsHub.handleWebSocket)

	handler := corsMiddleware(http.DefaultServeMux)

	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("\nDashboard running at http://localhost%s\n", addr)
	return http.ListenAndServe(addr, handler)
}

// handleWebSocket handles WebSocket connections
func (hub *WSHub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Upgrade(w, r, nil, 0, 0)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	hub.register <- ws
	defer func() {
		hub.unregister <- ws
		ws.Close()
	}()

	hub.sendHello(ws)

	// Drain client messages; clients only ping
	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			break
		}
	}
}

// run processes messages in the hub
func (hub *WSHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.mutex.Lock()
			hub.clients[client] = true
			hub.mutex.Unlock()

		case client := <-hub.unregister:
			hub.mutex.Lock()
			delete(hub.clients, client)
			hub.mutex.Unlock()

		case message := <-hub.broadcast:
			hub.mutex.RLock()
			for client := range hub.clients {
				if err := client.WriteJSON(message); err != nil {
					// Client disconnected, cleaned up by unregister
					continue
				}
			}
			hub.mutex.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected clients. Messages are dropped
// when the channel is full (backpressure protection).
func Broadcast(msgType string, data interface{}) {
	if !webDashboardEnabled || wsHub == nil {
		return
	}

	msg := WSMessage{
		Type: msgType,
		Data: data,
		Time: time.Now().Unix(),
	}

	select {
	case wsHub.broadcast <- msg:
	default:
	}
}

// sendHello greets a new connection with the current status.
func (hub *WSHub) sendHello(ws *websocket.Conn) {
	ws.WriteJSON(WSMessage{
		Type: MsgTypeStatus,
		Data: map[string]interface{}{
			"status": "running",
			"msg":    "Dashboard connected",
		},
		Time: time.Now().Unix(),
	})
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort finds an available port starting from startPort
func FindAvailablePort(startPort int) int {
	for port := startPort; port < 9000; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			ln.Close()
			return port
		}
	}
	return startPort // fallback
}

// Message structures for WebSocket payloads

// SecurityData is one security's state in a market snapshot.
type SecurityData struct {
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	MarketCap         float64 `json:"market_cap"`
	SharesOutstanding int64   `json:"shares_outstanding"`
}

// InvestorData is one investor's state in a market snapshot.
type InvestorData struct {
	ID             int            `json:"id"`
	Strategy       string         `json:"strategy"`
	Cash           float64        `json:"cash"`
	PortfolioValue float64        `json:"portfolio_value"`
	Holdings       []HoldingEntry `json:"holdings"`
}

// MarketSnapshot is the per-step payload for the dashboard.
type MarketSnapshot struct {
	Step       int            `json:"step"`
	Generation int            `json:"generation"`
	Securities []SecurityData `json:"securities"`
	Investors  []InvestorData `json:"investors"`
}

// Snapshot captures the model's externally visible state for reporting.
func Snapshot(m *MarketModel) MarketSnapshot {
	snap := MarketSnapshot{
		Step:       m.Steps,
		Generation: m.Generation,
	}
	for _, sec := range m.Securities {
		snap.Securities = append(snap.Securities, SecurityData{
			Name:              sec.Name,
			Price:             sec.Price,
			MarketCap:         sec.MarketCap(),
			SharesOutstanding: sec.SharesOutstanding,
		})
	}
	for _, inv := range m.Investors {
		snap.Investors = append(snap.Investors, InvestorData{
			ID:             inv.ID,
			Strategy:       StrategyName(inv.Strategy),
			Cash:           inv.Cash,
			PortfolioValue: inv.PortfolioValue(),
			Holdings:       inv.Holdings(),
		})
	}
	return snap
}

// Helper functions for sending specific message types

func SendMarketSnapshot(m *MarketModel) {
	Broadcast(MsgTypeMarket, Snapshot(m))
}

func SendGeneration(rec GenerationLog) {
	Broadcast(MsgTypeGeneration, rec)
}

func SendStatus(status, msg string) {
	Broadcast(MsgTypeStatus, map[string]interface{}{
		"status": status,
		"msg":    msg,
	})
}

func SendError(msg string) {
	Broadcast(MsgTypeError, msg)
}
