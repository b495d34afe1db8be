package bus

import (
	"context"
	"sync"
)

// PacketBus decouples the radio bridge from the gateway: the bridge
// publishes inbound packets and drains replies, the gateway does the
// opposite.
type PacketBus struct {
	packets chan PacketEvent
	replies chan Reply
	closed  bool
	mu      sync.RWMutex
}

func NewPacketBus() *PacketBus {
	return &PacketBus{
		packets: make(chan PacketEvent, 100),
		replies: make(chan Reply, 100),
	}
}

func (pb *PacketBus) PublishPacket(ev PacketEvent) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	if pb.closed {
		return
	}
	pb.packets <- ev
}

func (pb *PacketBus) ConsumePacket(ctx context.Context) (PacketEvent, bool) {
	select {
	case ev, ok := <-pb.packets:
		if !ok {
			return PacketEvent{}, false
		}
		return ev, true
	case <-ctx.Done():
		return PacketEvent{}, false
	}
}

func (pb *PacketBus) PublishReply(r Reply) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	if pb.closed {
		return
	}
	pb.replies <- r
}

func (pb *PacketBus) ConsumeReply(ctx context.Context) (Reply, bool) {
	select {
	case r, ok := <-pb.replies:
		if !ok {
			return Reply{}, false
		}
		return r, true
	case <-ctx.Done():
		return Reply{}, false
	}
}

func (pb *PacketBus) Close() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if pb.closed {
		return
	}
	pb.closed = true
	close(pb.packets)
	close(pb.replies)
}
