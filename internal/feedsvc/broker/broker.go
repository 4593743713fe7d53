package broker

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/qrcodesmart/qr-services/internal/comm"
)

// Broker consumes scan events from NATS and fans them out to the websocket
// connections following the record owner's feed.
type Broker struct {
	Conn            *nats.Conn
	GetConnection   func(string) (*websocket.Conn, bool)
	GetOwnerSockets func(string) ([]string, bool)
}

func NewBroker(conn *nats.Conn, fncGetConnection func(string) (*websocket.Conn, bool),
	fncGetOwnerSockets func(string) ([]string, bool)) *Broker {
	return &Broker{
		Conn:            conn,
		GetConnection:   fncGetConnection,
		GetOwnerSockets: fncGetOwnerSockets,
	}
}

// SubscribeScanEvents consumes the scan event stream from scansvc.
func (b *Broker) SubscribeScanEvents(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleScanEvent)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) handleScanEvent(msgNats *nats.Msg) {
	event := &comm.ScanEvent{}
	if err := json.Unmarshal(msgNats.Data, event); err != nil {
		log.Errorf("Error unmarshaling scan event %s", err)
		return
	}

	if event.OwnerId == "" {
		// unresolvable scans have no feed to land on
		return
	}

	sockets, ok := b.GetOwnerSockets(event.OwnerId)
	if !ok {
		return
	}

	frame := comm.WSMessage{Type: "scan", Data: msgNats.Data}
	data, err := json.Marshal(frame)
	if err != nil {
		log.Errorf("Failed to marshal feed frame: %v", err)
		return
	}

	for _, socketId := range sockets {
		conn, ok := b.GetConnection(socketId)
		if !ok {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Errorf("Failed to push scan event to socket %s: %v", socketId, err)
		}
	}
}
