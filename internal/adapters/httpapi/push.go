package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

// maxDecodeErrorsPerConn drops peers that keep sending garbage.
const maxDecodeErrorsPerConn = 8

type pushPeer struct {
	id string

	mu      sync.Mutex
	encoder *json.Encoder
}

func (p *pushPeer) writeFrame(f pushchannel.Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(f)
}

// Hub tracks which connections joined which rooms. A room is named by a user id.
type Hub struct {
	log logr.Logger

	mu    sync.Mutex
	rooms map[string]map[*pushPeer]struct{}
}

func NewHub(log logr.Logger) *Hub {
	return &Hub{log: log, rooms: make(map[string]map[*pushPeer]struct{})}
}

func (h *Hub) join(room string, p *pushPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*pushPeer]struct{})
		h.rooms[room] = members
	}
	members[p] = struct{}{}
}

func (h *Hub) leave(room string, p *pushPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, p)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) drop(p *pushPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, members := range h.rooms {
		delete(members, p)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Members reports how many connections are in room.
func (h *Hub) Members(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

// Broadcast sends event to every connection in room and returns how many received it.
func (h *Hub) Broadcast(room, event string, payload any) int {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error(err, "encode push payload", "event", event)
		return 0
	}
	h.mu.Lock()
	peers := make([]*pushPeer, 0, len(h.rooms[room]))
	for p := range h.rooms[room] {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	n := 0
	for _, p := range peers {
		if err := p.writeFrame(pushchannel.Frame{Event: event, Data: data}); err != nil {
			h.log.V(1).Info("push write failed", "peer", p.id, "err", err.Error())
			continue
		}
		n++
	}
	return n
}

// Handler serves the push endpoint.
func (h *Hub) Handler() websocket.Handler {
	return websocket.Handler(h.serve)
}

func (h *Hub) serve(conn *websocket.Conn) {
	peer := &pushPeer{id: uuid.NewString(), encoder: json.NewEncoder(conn)}
	log := h.log.WithValues("peer", peer.id)
	defer func() {
		h.drop(peer)
		_ = conn.Close()
		log.V(1).Info("push peer disconnected")
	}()
	log.V(1).Info("push peer connected")

	decodeErrors := 0
	for {
		var raw []byte
		if err := websocket.Message.Receive(conn, &raw); err != nil {
			if !errors.Is(err, io.EOF) {
				log.V(1).Info("push read failed", "err", err.Error())
			}
			return
		}
		var f pushchannel.Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			decodeErrors++
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		switch f.Event {
		case pushchannel.EventJoin, pushchannel.EventLeave:
			var room string
			if err := json.Unmarshal(f.Data, &room); err != nil || strings.TrimSpace(room) == "" {
				log.Info("ignoring malformed membership frame", "event", f.Event)
				continue
			}
			if f.Event == pushchannel.EventJoin {
				h.join(room, peer)
			} else {
				h.leave(room, peer)
			}
			log.V(1).Info("push membership", "event", f.Event, "room", room)
		case pushchannel.EventDonationMade:
			var d pushchannel.DonationMade
			if err := json.Unmarshal(f.Data, &d); err != nil {
				log.Info("ignoring malformed donation frame")
				continue
			}
			log.Info("donation announced", "campaignId", d.CampaignID, "amount", d.Amount)
		default:
			log.V(1).Info("ignoring unknown push event", "event", f.Event)
		}
	}
}
