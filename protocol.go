package main

// Protocol uses single-character keys to keep frames small. Clients choose the
// encoding on connect: JSON text frames by default, msgpack binary frames with
// ?enc=msgpack. The server decodes by frame type, so a client may send either.
//
// Message type constants (value of "t" field):
//   Client → Server:
//     "j" = join  {"t":"j","n":"PlayerName"}
//     "i" = input {"t":"i","s":-0.5,"a":1,"g":0,"c":0}
//           s=steer [-1,1], a=throttle [-1,1], g=request start, c=request color change
//   Server → Client:
//     "w" = welcome {"t":"w","i":"session","p":7,"r":800,"k":13}
//     "s" = state   {"t":"s","g":"running","m":4.2,"p":[players],"f":[food],"l":[ids],"e":["eat"]}
//     "x" = error   {"t":"x","m":"Server full."}
//
// PlayerDTO: {"i":7,"n":"name","c":3,"v":100,"g":0,"d":20,"u":[steer,throttle,start,color],
//             "s":[[x,y,angle,cuttable],...]}
// FoodDTO:   {"x":1,"y":2,"vx":3,"vy":4,"k":"normal","v":10}

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"cutsnake-server/game"
)

const (
	MsgJoin    = "j"
	MsgInput   = "i"
	MsgWelcome = "w"
	MsgState   = "s"
	MsgError   = "x"
)

// ClientMessage is any message sent by a client
type ClientMessage struct {
	Type     string  `json:"t" msgpack:"t"`
	Name     string  `json:"n,omitempty" msgpack:"n,omitempty"`
	Steer    float64 `json:"s,omitempty" msgpack:"s,omitempty"`
	Throttle float64 `json:"a,omitempty" msgpack:"a,omitempty"`
	Start    int     `json:"g,omitempty" msgpack:"g,omitempty"` // 0 or 1
	Color    int     `json:"c,omitempty" msgpack:"c,omitempty"` // 0 or 1
}

// Input converts an input message into the simulation's input record
func (m ClientMessage) Input() game.Input {
	return game.Input{
		Steer:              m.Steer,
		Throttle:           m.Throttle,
		RequestStart:       m.Start == 1,
		RequestColorChange: m.Color == 1,
	}
}

// WelcomeMsg is sent right after the websocket upgrade
type WelcomeMsg struct {
	Type      string  `json:"t" msgpack:"t"`
	Session   string  `json:"i" msgpack:"i"`
	PlayerID  uint64  `json:"p" msgpack:"p"`
	WorldSize float64 `json:"r" msgpack:"r"`
	Colors    int     `json:"k" msgpack:"k"`
}

// ErrorMsg is sent before the server closes a connection it refuses
type ErrorMsg struct {
	Type    string `json:"t" msgpack:"t"`
	Message string `json:"m" msgpack:"m"`
}

// SegmentDTO is [x, y, angle, cuttable(0/1)]
type SegmentDTO [4]float64

// PlayerDTO carries every field of a player
type PlayerDTO struct {
	ID         uint64       `json:"i" msgpack:"i"`
	Name       string       `json:"n" msgpack:"n"`
	Color      int          `json:"c" msgpack:"c"`
	Speed      float64      `json:"v" msgpack:"v"`
	EatGrace   int          `json:"g" msgpack:"g"`
	ArmorDecay int          `json:"d" msgpack:"d"`
	Input      [4]float64   `json:"u" msgpack:"u"`
	Segments   []SegmentDTO `json:"s" msgpack:"s"`
}

// FoodDTO carries every field of a food item
type FoodDTO struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	VX     float64 `json:"vx" msgpack:"vx"`
	VY     float64 `json:"vy" msgpack:"vy"`
	Kind   string  `json:"k" msgpack:"k"`
	Amount uint    `json:"v" msgpack:"v"`
}

// StateMsg is a full snapshot of the game plus the sound effects produced
// since the previous snapshot.
type StateMsg struct {
	Type        string      `json:"t" msgpack:"t"`
	Stage       string      `json:"g" msgpack:"g"`
	Timer       float64     `json:"m" msgpack:"m"`
	Players     []PlayerDTO `json:"p" msgpack:"p"`
	Food        []FoodDTO   `json:"f" msgpack:"f"`
	Leaderboard []uint64    `json:"l" msgpack:"l"`
	Sounds      []string    `json:"e,omitempty" msgpack:"e,omitempty"`
}

// NewStateMsg captures s. The caller must hold whatever lock guards s.
func NewStateMsg(s *game.GameState, sounds []game.SoundEffect) StateMsg {
	msg := StateMsg{
		Type:        MsgState,
		Stage:       s.Stage.String(),
		Timer:       s.Timer,
		Players:     make([]PlayerDTO, len(s.Players)),
		Food:        make([]FoodDTO, len(s.Food)),
		Leaderboard: append([]uint64{}, s.Leaderboard...),
	}
	for i, p := range s.Players {
		msg.Players[i] = playerToDTO(p)
	}
	for i := range s.Food {
		msg.Food[i] = foodToDTO(&s.Food[i])
	}
	for _, e := range sounds {
		msg.Sounds = append(msg.Sounds, e.String())
	}
	return msg
}

func playerToDTO(p *game.Player) PlayerDTO {
	segs := make([]SegmentDTO, len(p.Snake.Segments))
	for i, seg := range p.Snake.Segments {
		segs[i] = SegmentDTO{seg.Position.X, seg.Position.Y, seg.Angle, boolToFloat(seg.Cuttable)}
	}
	return PlayerDTO{
		ID:         p.ID,
		Name:       p.Name,
		Color:      p.Color,
		Speed:      p.Speed,
		EatGrace:   p.EatGrace,
		ArmorDecay: p.Snake.ArmorDecay,
		Input: [4]float64{
			p.Input.Steer,
			p.Input.Throttle,
			boolToFloat(p.Input.RequestStart),
			boolToFloat(p.Input.RequestColorChange),
		},
		Segments: segs,
	}
}

func foodToDTO(f *game.Food) FoodDTO {
	kind, amount := f.Kind()
	return FoodDTO{
		X:      f.Position.X,
		Y:      f.Position.Y,
		VX:     f.Velocity.X,
		VY:     f.Velocity.Y,
		Kind:   kind,
		Amount: amount,
	}
}

// Restore rebuilds the game state the snapshot was taken from
func (m StateMsg) Restore(rng game.Rand) (*game.GameState, error) {
	stage, err := parseStage(m.Stage)
	if err != nil {
		return nil, err
	}

	players := make([]*game.Player, len(m.Players))
	for i, dto := range m.Players {
		p := &game.Player{
			ID:       dto.ID,
			Name:     dto.Name,
			Color:    dto.Color,
			Speed:    dto.Speed,
			EatGrace: dto.EatGrace,
			Input: game.Input{
				Steer:              dto.Input[0],
				Throttle:           dto.Input[1],
				RequestStart:       dto.Input[2] != 0,
				RequestColorChange: dto.Input[3] != 0,
			},
			Snake: game.Snake{
				Segments:   make([]game.Segment, len(dto.Segments)),
				ArmorDecay: dto.ArmorDecay,
			},
		}
		for j, seg := range dto.Segments {
			p.Snake.Segments[j] = game.Segment{
				Position: game.V(seg[0], seg[1]),
				Angle:    seg[2],
				Cuttable: seg[3] != 0,
			}
		}
		players[i] = p
	}

	food := make([]game.Food, len(m.Food))
	for i, dto := range m.Food {
		t, err := game.ParseFoodType(dto.Kind, dto.Amount)
		if err != nil {
			return nil, fmt.Errorf("food %d: %w", i, err)
		}
		food[i] = game.Food{
			Position: game.V(dto.X, dto.Y),
			Velocity: game.V(dto.VX, dto.VY),
			Type:     t,
		}
	}

	return game.Restore(players, food, stage, m.Timer, append([]uint64{}, m.Leaderboard...), rng)
}

func parseStage(s string) (game.Stage, error) {
	for _, st := range []game.Stage{game.StageLobby, game.StageRunning, game.StageEnded} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", s)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Encoding selects how server messages are framed
type Encoding uint8

const (
	EncodingJSON Encoding = iota
	EncodingMsgpack
)

// ParseEncoding maps the ?enc= query value to an Encoding
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "json":
		return EncodingJSON, nil
	case "msgpack":
		return EncodingMsgpack, nil
	}
	return 0, fmt.Errorf("unsupported encoding %q", s)
}

func (e Encoding) String() string {
	if e == EncodingMsgpack {
		return "msgpack"
	}
	return "json"
}

// Marshal encodes msg and returns the websocket frame type to send it with
func (e Encoding) Marshal(msg any) (int, []byte, error) {
	if e == EncodingMsgpack {
		data, err := msgpack.Marshal(msg)
		return websocket.BinaryMessage, data, err
	}
	data, err := json.Marshal(msg)
	return websocket.TextMessage, data, err
}

// DecodeClientMessage parses a client frame: binary frames are msgpack,
// text frames are JSON.
func DecodeClientMessage(frameType int, raw []byte) (ClientMessage, error) {
	var msg ClientMessage
	var err error
	switch frameType {
	case websocket.BinaryMessage:
		err = msgpack.Unmarshal(raw, &msg)
	case websocket.TextMessage:
		err = json.Unmarshal(raw, &msg)
	default:
		return msg, fmt.Errorf("unexpected frame type %d", frameType)
	}
	if err != nil {
		return msg, fmt.Errorf("decode client message: %w", err)
	}
	return msg, nil
}
