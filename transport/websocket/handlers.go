package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errCountRequired = errors.New("count is required")

func (that *Server) handleDiceCount(client *connection, message *Message) error {
	var payload DiceCountPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.Count == nil {
		return errCountRequired
	}

	client.session.SetDiceCount(*payload.Count)

	return nil
}

func (that *Server) handleRollStart(client *connection, _ *Message) error {
	client.session.StartRoll()
	return nil
}

func (that *Server) handleRollStop(client *connection, _ *Message) error {
	client.session.StopRoll()
	return nil
}

func (that *Server) handleHistoryReset(client *connection, _ *Message) error {
	client.session.ResetHistory()
	return nil
}

func (that *Server) handleState(client *connection, _ *Message) error {
	client.refresh()
	return nil
}
