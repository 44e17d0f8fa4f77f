package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"cutsnake-server/game"
)

// ipRateLimiter tracks last connection time per IP to prevent abuse
type ipRateLimiter struct {
	mu    sync.Mutex
	times map[string]time.Time
	now   func() time.Time
}

func newIPRateLimiter() *ipRateLimiter {
	return &ipRateLimiter{times: make(map[string]time.Time), now: time.Now}
}

// run drops stale entries every minute until ctx is cancelled
func (rl *ipRateLimiter) run(ctx context.Context) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.prune()
		}
	}
}

func (rl *ipRateLimiter) prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-time.Duration(IPCooldownSec) * time.Second)
	for ip, t := range rl.times {
		if t.Before(cutoff) {
			delete(rl.times, ip)
		}
	}
}

// allow returns true if this IP can connect, and records the attempt
func (rl *ipRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	if last, ok := rl.times[ip]; ok {
		if now.Sub(last) < time.Duration(IPCooldownSec)*time.Second {
			return false
		}
	}
	rl.times[ip] = now
	return true
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development; tighten in production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// sendErrorAndClose sends an error message via WebSocket then closes the connection
func sendErrorAndClose(ws *websocket.Conn, enc Encoding, msg string) {
	if kind, data, err := enc.Marshal(ErrorMsg{Type: MsgError, Message: msg}); err == nil {
		_ = ws.WriteMessage(kind, data)
	}
	ws.Close()
}

// clientIP extracts the client IP (handles X-Forwarded-For for reverse proxies)
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// wsHandler upgrades a request into a player session
func wsHandler(loop *GameLoop, conns *ConnManager, limiter *ipRateLimiter, cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enc, err := ParseEncoding(r.URL.Query().Get("enc"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ws upgrade error: %v", err)
			return
		}

		// Check limits after upgrade so client can receive error messages
		if conns.Count() >= cfg.MaxPlayers {
			sendErrorAndClose(ws, enc, "Server full. Please try again later.")
			return
		}
		if !limiter.allow(clientIP(r)) {
			sendErrorAndClose(ws, enc, "Too many connections. Please wait a few seconds.")
			return
		}

		conn := NewConn(ws, loop.NextPlayerID(), enc)
		conns.Add(conn)
		log.Printf("player connected: %s (player %d, %s)", conn.ID, conn.PlayerID, enc)

		_ = conn.Send(WelcomeMsg{
			Type:      MsgWelcome,
			Session:   conn.ID,
			PlayerID:  conn.PlayerID,
			WorldSize: game.WorldSize,
			Colors:    game.NumColors,
		})

		onJoin := func(c *Conn, name string) {
			if err := loop.AddPlayer(c.PlayerID, name); err != nil {
				log.Printf("join failed for %s: %v", c.ID, err)
				return
			}
			log.Printf("snake joined: %s (player %d)", name, c.PlayerID)
		}

		onDisconnect := func(c *Conn) {
			conns.Remove(c.ID)
			loop.RemovePlayer(c.PlayerID)
			log.Printf("player disconnected: %s", c.ID)
		}

		// Blocking read loop, runs until client disconnects
		conn.ReadLoop(onJoin, onDisconnect)
	}
}

// stateHandler serves the current snapshot as JSON
func stateHandler(loop *GameLoop) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(loop.Snapshot()); err != nil {
			log.Printf("state encode error: %v", err)
		}
	}
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := game.NewGameState(rand.New(rand.NewSource(cfg.Seed)))
	bots := NewBotManager(rand.New(rand.NewSource(cfg.Seed + 1)))
	conns := NewConnManager()
	loop, err := NewGameLoop(state, conns, bots, cfg)
	if err != nil {
		log.Fatalf("game loop: %v", err)
	}
	limiter := newIPRateLimiter()

	mux := http.NewServeMux()
	mux.HandleFunc(WebSocketPath, wsHandler(loop, conns, limiter, cfg))
	mux.HandleFunc("/state", stateHandler(loop))
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go limiter.run(ctx)
	go loop.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		for _, c := range conns.Snapshot() {
			c.Close()
		}
	}()

	log.Printf("server listening on %s (world %.0f, %d bots)", cfg.Addr, game.WorldSize, bots.Count())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
