package mesh

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hpavl/meshbot/pkg/bus"
	"github.com/hpavl/meshbot/pkg/logger"
)

// frame is the envelope the meshd bridge speaks in both directions.
type frame struct {
	Type     string    `json:"type"`
	ID       string    `json:"id,omitempty"`
	Channel  int       `json:"channel,omitempty"`
	Text     string    `json:"text,omitempty"`
	From     uint32    `json:"from,omitempty"`
	FromID   string    `json:"from_id,omitempty"`
	RxSNR    *float64  `json:"rx_snr,omitempty"`
	RxRSSI   *int      `json:"rx_rssi,omitempty"`
	HopLimit *int      `json:"hop_limit,omitempty"`
	HopsAway *int      `json:"hops_away,omitempty"`
	Node     *nodeInfo `json:"node,omitempty"`
	NodeNum  uint32    `json:"node_num,omitempty"`
}

type nodeInfo struct {
	ID            string         `json:"id"`
	ShortName     string         `json:"short_name,omitempty"`
	LongName      string         `json:"long_name,omitempty"`
	DeviceMetrics *DeviceMetrics `json:"device_metrics,omitempty"`
	LastHeard     int64          `json:"last_heard,omitempty"`
}

// Client connects to the meshd websocket bridge fronting the radio. It
// maintains the live node directory, publishes decoded packets to the
// bus and drains replies back to the radio.
type Client struct {
	url         string
	maxReplyLen int
	broker      bus.Broker
	table       *Table

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewClient(url string, maxReplyLen int, broker bus.Broker) *Client {
	return &Client{
		url:         url,
		maxReplyLen: maxReplyLen,
		broker:      broker,
		table:       NewTable(),
	}
}

// Directory exposes the live node table.
func (c *Client) Directory() *Table {
	return c.table
}

// Run dials the bridge and blocks until ctx is done, reconnecting with
// backoff when the connection drops.
func (c *Client) Run(ctx context.Context) error {
	logger.InfoCF("mesh", "Connecting to meshd bridge", map[string]interface{}{
		"url": c.url,
	})

	go c.pumpReplies(ctx)

	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := c.dial(ctx); err != nil {
			logger.ErrorCF("mesh", "Bridge dial failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			backoff = time.Second
			c.readLoop(ctx)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Client) dial(ctx context.Context) error {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial meshd bridge: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	logger.InfoC("mesh", "Bridge connected")
	return nil
}

func (c *Client) readLoop(ctx context.Context) {
	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logger.WarnCF("mesh", "Bridge read error, reconnecting", map[string]interface{}{
					"error": err.Error(),
				})
			}
			c.closeConn()
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			// Malformed frames never reach the gateway.
			logger.DebugCF("mesh", "Dropping undecodable frame", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}

		c.handleFrame(f)
	}
}

func (c *Client) handleFrame(f frame) {
	switch f.Type {
	case "packet":
		c.broker.PublishPacket(bus.PacketEvent{
			ID:       f.ID,
			Channel:  f.Channel,
			From:     f.From,
			FromID:   f.FromID,
			Text:     f.Text,
			SNR:      f.RxSNR,
			RSSI:     f.RxRSSI,
			HopLimit: f.HopLimit,
			HopsAway: f.HopsAway,
			RxTime:   time.Now(),
		})
	case "nodeinfo":
		if f.Node == nil {
			return
		}
		key, ok := NormalizeKey(f.Node.ID)
		if !ok {
			logger.DebugCF("mesh", "Dropping nodeinfo with malformed id", map[string]interface{}{
				"id": f.Node.ID,
			})
			return
		}
		c.table.Upsert(NodeInfo{
			Key:       key,
			ShortName: f.Node.ShortName,
			LongName:  f.Node.LongName,
			Metrics:   f.Node.DeviceMetrics,
			LastHeard: time.Unix(f.Node.LastHeard, 0),
		})
	case "my_info":
		c.table.SetLocalKey(CanonicalKey(f.NodeNum))
	default:
		logger.DebugCF("mesh", "Unknown frame type", map[string]interface{}{
			"type": f.Type,
		})
	}
}

// SendText broadcasts text on a channel, clamped to the configured
// maximum payload length.
func (c *Client) SendText(ctx context.Context, channel int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("bridge connection not established")
	}

	data, err := json.Marshal(frame{
		Type:    "send",
		ID:      uuid.NewString(),
		Channel: channel,
		Text:    Clamp(text, c.maxReplyLen),
	})
	if err != nil {
		return fmt.Errorf("marshal send frame: %w", err)
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write send frame: %w", err)
	}
	return nil
}

func (c *Client) pumpReplies(ctx context.Context) {
	for {
		r, ok := c.broker.ConsumeReply(ctx)
		if !ok {
			return
		}
		if err := c.SendText(ctx, r.Channel, r.Text); err != nil {
			logger.ErrorCF("mesh", "Failed to send reply", map[string]interface{}{
				"channel": r.Channel,
				"error":   err.Error(),
			})
		}
	}
}

func (c *Client) closeConn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
