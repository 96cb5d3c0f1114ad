package bot

// LambdaEvent is what a serverless bot gets invoked with. The move goes
// back over NATS on ReplyChannel, if there is one.
type LambdaEvent struct {
	Position     string `json:"position"`
	GameID       string `json:"gameID"`
	Depth        int    `json:"depth"`
	ReplyChannel string `json:"replyChannel"`
}

// Request converts the event into the bot's request payload.
func (e LambdaEvent) Request() Request {
	return Request{Position: e.Position, Depth: e.Depth, GameID: e.GameID}
}
