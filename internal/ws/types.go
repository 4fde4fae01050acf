package ws

const (
	// server - client
	MsgReady = "ready"
)

// readyMessage is queued on connect so subscribers know the feed is live.
var readyMessage = []byte(`{"type":"` + MsgReady + `"}`)
