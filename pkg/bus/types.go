package bus

import "time"

// PacketEvent is one decoded packet from the radio bridge. The bridge
// adapter normalizes whatever the transport exposes; consumers never
// branch on wire shape.
type PacketEvent struct {
	ID       string    `json:"id"`
	Channel  int       `json:"channel"`
	From     uint32    `json:"from"`
	FromID   string    `json:"from_id,omitempty"`
	Text     string    `json:"text,omitempty"`
	SNR      *float64  `json:"rx_snr,omitempty"`
	RSSI     *int      `json:"rx_rssi,omitempty"`
	HopLimit *int      `json:"hop_limit,omitempty"`
	HopsAway *int      `json:"hops_away,omitempty"`
	RxTime   time.Time `json:"rx_time"`
}

// Reply is outbound text destined for one broadcast channel.
type Reply struct {
	Channel int    `json:"channel"`
	Text    string `json:"text"`
}
