package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/qrcodesmart/qr-services/internal/comm"
)

// Ws tracks dashboard sockets and which owner's scan feed each one follows.
type Ws struct {
	connMap  sync.Map // socketId -> *websocket.Conn
	ownerMap sync.Map // socketId -> ownerId
}

func NewWs() *Ws {
	return &Ws{}
}

// SocketMessage handles a frame from a dashboard client.
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case "subscribe":
		s.handleSubscribe(socketId, message)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

func (s *Ws) handleSubscribe(socketId string, msg *comm.WSMessage) {
	var payload comm.FeedSubscription
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("Error: malformed subscribe payload %s", err)
		return
	}

	if payload.OwnerId == "" {
		log.Error("Invalid subscribe payload: missing owner id")
		return
	}

	s.StoreOwner(socketId, payload.OwnerId)
	log.Infof("socket %s subscribed to scans of owner %s", socketId, payload.OwnerId)
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, conn)
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	conn, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return conn.(*websocket.Conn), true
}

func (s *Ws) StoreOwner(socketId string, ownerId string) {
	s.ownerMap.Store(socketId, ownerId)
}

// GetOwnerSockets returns every socket following the given owner's feed.
func (s *Ws) GetOwnerSockets(ownerId string) ([]string, bool) {
	var sockets []string
	found := false

	s.ownerMap.Range(func(key, value interface{}) bool {
		if value.(string) == ownerId {
			sockets = append(sockets, key.(string))
			found = true
		}
		return true // continue iterating
	})

	return sockets, found
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.ownerMap.Delete(socketId)
}
