package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Server defaults; every one of them can be overridden from the environment
// or a .env file, see LoadConfig.
const (
	DefaultAddr      = ":8080"
	DefaultStaticDir = "../client"
	WebSocketPath    = "/ws"

	// One snapshot per BroadcastEvery simulation ticks (100 Hz tick -> 20 Hz)
	DefaultBroadcastEvery = 5

	DefaultMaxPlayers = 32
	DefaultBots       = 4
	IPCooldownSec     = 3 // seconds between two connections from one IP

	MaxNameLength = 16

	// Bot AI
	BotSeekRadius  = 250.0 // food closer than this is targeted
	BotSteerGain   = 2.0   // steer = clamp(angle error * gain)
	BotWanderTicks = 120   // ticks between new wander headings
	GridCellSize   = 100.0 // food index cell, divides the world evenly
	BotNamePrefix  = "bot-"
	BotIDBase      = 1 << 32 // bot player ids start here

	// WebSocket
	WriteWait      = 2 * time.Second
	ReadLimitBytes = 4096
)

// Config is the runtime configuration of the server
type Config struct {
	Addr           string
	StaticDir      string
	Bots           int
	MaxPlayers     int
	BroadcastEvery int
	Seed           int64
}

// LoadConfig reads .env (when present) and the SNAKE_* environment variables
// on top of the defaults.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Addr:           DefaultAddr,
		StaticDir:      DefaultStaticDir,
		Bots:           DefaultBots,
		MaxPlayers:     DefaultMaxPlayers,
		BroadcastEvery: DefaultBroadcastEvery,
		Seed:           time.Now().UnixNano(),
	}
	if v := os.Getenv("SNAKE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("SNAKE_STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"SNAKE_BOTS", &cfg.Bots},
		{"SNAKE_MAX_PLAYERS", &cfg.MaxPlayers},
		{"SNAKE_BROADCAST_EVERY", &cfg.BroadcastEvery},
	}
	for _, e := range ints {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s: want a non-negative integer, got %q", e.env, v)
		}
		*e.dst = n
	}
	if cfg.BroadcastEvery == 0 {
		cfg.BroadcastEvery = 1
	}

	if v := os.Getenv("SNAKE_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("SNAKE_SEED: %w", err)
		}
		cfg.Seed = seed
		log.Printf("using fixed seed %d", seed)
	}
	return cfg, nil
}
