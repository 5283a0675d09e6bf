package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/dice-backend/internal/presenter"
)

const (
	ActionDiceCount    = "dice:count"
	ActionRollStart    = "roll:start"
	ActionRollStop     = "roll:stop"
	ActionHistoryReset = "history:reset"
	ActionState        = "state"
	ActionError        = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type DiceCountPayload struct {
	Count *int `json:"count"`
}

// StatePayload carries the view both as data and as the rendered board fragment.
type StatePayload struct {
	View presenter.View `json:"view"`
	HTML string         `json:"html"`
}

type ErrorPayload struct {
	Action string `json:"action,omitempty"`
	Error  string `json:"error"`
}

func newMessage(action string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	return Message{Action: action, Payload: raw}, nil
}
