// maestro/pkg/runtime/dashboard.go

package runtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"maestro/pkg/logging"
)

// Dashboard serves run statistics over HTTP and pushes them to
// connected websocket clients on a fixed interval.
type Dashboard struct {
	executor       *Executor
	port           int
	clients        map[*websocket.Conn]bool
	clientsMutex   sync.Mutex
	updateInterval time.Duration
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Tighten before exposing beyond localhost.
	},
}

func NewDashboard(executor *Executor, port int, updateInterval time.Duration) *Dashboard {
	return &Dashboard{
		executor:       executor,
		port:           port,
		clients:        make(map[*websocket.Conn]bool),
		updateInterval: updateInterval,
	}
}

// Start serves until ListenAndServe fails; run it in a goroutine.
func (d *Dashboard) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", d.handleHealth)
	mux.HandleFunc("/api/stats", d.handleStats)
	mux.HandleFunc("/events", d.handleWebSocket)

	go d.broadcastUpdates()

	addr := fmt.Sprintf(":%d", d.port)
	logging.Logger.Info().Str("addr", addr).Msg("Dashboard starting")
	return http.ListenAndServe(addr, mux)
}

func (d *Dashboard) handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Server is running")
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(d.executor.GetStats()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger.Error().Err(err).Msg("Error upgrading to WebSocket")
		return
	}
	defer conn.Close()

	logging.Logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("Dashboard client connected")

	d.clientsMutex.Lock()
	d.clients[conn] = true
	d.clientsMutex.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	d.clientsMutex.Lock()
	delete(d.clients, conn)
	d.clientsMutex.Unlock()

	logging.Logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("Dashboard client disconnected")
}

func (d *Dashboard) broadcastUpdates() {
	ticker := time.NewTicker(d.updateInterval)
	defer ticker.Stop()

	for range ticker.C {
		stats := d.executor.GetStats()
		message, err := json.Marshal(stats)
		if err != nil {
			logging.Logger.Error().Err(err).Msg("Error marshaling stats")
			continue
		}

		d.clientsMutex.Lock()
		for client := range d.clients {
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				logging.Logger.Warn().Err(err).Msg("Error sending message to client")
				client.Close()
				delete(d.clients, client)
			}
		}
		d.clientsMutex.Unlock()
	}
}
