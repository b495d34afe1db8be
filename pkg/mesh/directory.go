package mesh

import (
	"sort"
	"sync"
	"time"
)

// DeviceMetrics is the normalized shape of whatever telemetry the
// transport exposes. Fields are optional; absence means the node has not
// reported that metric yet.
type DeviceMetrics struct {
	AirUtilTx          *float64 `json:"air_util_tx,omitempty"`
	AirUtilRx          *float64 `json:"air_util_rx,omitempty"`
	ChannelUtilization *float64 `json:"channel_utilization,omitempty"`
}

// NodeInfo is one entry of the live node directory.
type NodeInfo struct {
	Key       string         `json:"id"`
	ShortName string         `json:"short_name,omitempty"`
	LongName  string         `json:"long_name,omitempty"`
	Metrics   *DeviceMetrics `json:"device_metrics,omitempty"`
	LastHeard time.Time      `json:"-"`
}

// Directory is the read-only view over the known-node table.
type Directory interface {
	// Nodes returns all entries in deterministic order (sorted by key).
	Nodes() []NodeInfo
	Node(key string) (NodeInfo, bool)
	Len() int
}

// MetricsSource reports telemetry for the node the bot itself runs on.
type MetricsSource interface {
	LocalMetrics() (DeviceMetrics, bool)
}

// Table is the live directory maintained by the bridge client. The
// directory is advisory: entries appear, go stale and get overwritten as
// nodeinfo packets arrive.
type Table struct {
	mu       sync.RWMutex
	nodes    map[string]NodeInfo
	localKey string
}

func NewTable() *Table {
	return &Table{nodes: make(map[string]NodeInfo)}
}

func (t *Table) Upsert(n NodeInfo) {
	if n.Key == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes[n.Key] = n
}

func (t *Table) SetLocalKey(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.localKey = key
}

func (t *Table) Nodes() []NodeInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]NodeInfo, 0, len(t.nodes))
	for _, n := range t.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (t *Table) Node(key string) (NodeInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[key]
	return n, ok
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// LocalMetrics returns the device metrics of the local node, if the
// bridge has identified it and it has reported telemetry.
func (t *Table) LocalMetrics() (DeviceMetrics, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.localKey == "" {
		return DeviceMetrics{}, false
	}
	n, ok := t.nodes[t.localKey]
	if !ok || n.Metrics == nil {
		return DeviceMetrics{}, false
	}
	return *n.Metrics, true
}
