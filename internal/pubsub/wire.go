package pubsub

// Frame ops exchanged between relay client and server.
const (
	opSubscribe   = "sub"
	opUnsubscribe = "unsub"
	opPublish     = "pub"
	opMessage     = "msg"
	opDiscover    = "discover"
)

// frame is the wire format on a relay websocket. Data carries the opaque
// payload for pub/msg frames and is empty otherwise.
type frame struct {
	Op    string `json:"op"`
	Topic string `json:"topic,omitempty"`
	From  string `json:"from,omitempty"`
	Data  []byte `json:"data,omitempty"`
}

// subscriptionBuffer is the per-subscription channel depth. A subscriber
// that falls this far behind starts losing messages; the identity protocol
// self-corrects on the next broadcast tick.
const subscriptionBuffer = 64
