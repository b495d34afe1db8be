package bus

import "context"

type Publisher interface {
	PublishPacket(PacketEvent)
	PublishReply(Reply)
}

type Subscriber interface {
	ConsumePacket(context.Context) (PacketEvent, bool)
	ConsumeReply(context.Context) (Reply, bool)
}

type Broker interface {
	Publisher
	Subscriber
	Close()
}
