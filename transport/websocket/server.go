package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/dice-backend/internal/presenter"
	"github.com/rocketscienceinc/dice-backend/internal/usecase"
	"github.com/rocketscienceinc/dice-backend/transport/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1 << 10
	repliesBuffer  = 8
)

var errUnknownAction = errors.New("unknown action")

type handler func(client *connection, message *Message) error

// Server pushes the board of a session to every socket opened for it.
type Server struct {
	logger   *slog.Logger
	sessions session.Manager
	opts     presenter.Options
	upgrader websocket.Upgrader

	handlers map[string]handler
}

func New(logger *slog.Logger, sessions session.Manager, opts presenter.Options) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		opts:     opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},

		handlers: make(map[string]handler),
	}

	server.handlers[ActionDiceCount] = server.handleDiceCount
	server.handlers[ActionRollStart] = server.handleRollStart
	server.handlers[ActionRollStop] = server.handleRollStop
	server.handlers[ActionHistoryReset] = server.handleHistoryReset
	server.handlers[ActionState] = server.handleState

	return server
}

// connection has exactly one writer goroutine; everything else hands messages to it.
type connection struct {
	conn    *websocket.Conn
	session *usecase.Session
	wake    chan struct{}
	replies chan Message
}

func (that *connection) refresh() {
	select {
	case that.wake <- struct{}{}:
	default:
	}
}

func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	current, cookie := session.Resolve(r, that.sessions)

	header := http.Header{}
	if cookie != nil {
		header.Add("Set-Cookie", cookie.String())
	}

	conn, err := that.upgrader.Upgrade(w, r, header)
	if err != nil {
		log.Debug("websocket upgrade failed", "error", err)
		return
	}

	log.Info("websocket connection established", "session", current.ID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := &connection{
		conn:    conn,
		session: current,
		wake:    make(chan struct{}, 1),
		replies: make(chan Message, repliesBuffer),
	}

	unsubscribe := current.Subscribe(client.refresh)
	defer unsubscribe()

	client.refresh()

	done := make(chan struct{})
	go func() {
		defer close(done)
		that.writeLoop(ctx, client)
	}()

	that.readLoop(client)

	cancel()
	<-done

	log.Info("websocket connection closed", "session", current.ID)
}

func (that *Server) readLoop(client *connection) {
	log := that.logger.With("method", "readLoop")

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("websocket read failed", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			that.reply(client, "", "malformed message")
			continue
		}

		handle, ok := that.handlers[message.Action]
		if !ok {
			that.reply(client, message.Action, errUnknownAction.Error())
			continue
		}

		if err = handle(client, &message); err != nil {
			log.Debug("error processing message", "action", message.Action, "error", err)
			that.reply(client, message.Action, err.Error())
		}
	}
}

func (that *Server) writeLoop(ctx context.Context, client *connection) {
	log := that.logger.With("method", "writeLoop")

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = client.conn.Close()
	}()

	for {
		var err error

		select {
		case <-ctx.Done():
			_ = client.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return
		case <-client.wake:
			err = that.writeState(client)
		case message := <-client.replies:
			err = that.write(client, message)
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = client.conn.WriteMessage(websocket.PingMessage, nil)
		}

		if err != nil {
			log.Debug("websocket write failed", "error", err)
			return
		}
	}
}

func (that *Server) writeState(client *connection) error {
	message, err := that.stateMessage(client.session)
	if err != nil {
		return err
	}

	return that.write(client, message)
}

func (that *Server) write(client *connection, message Message) error {
	if err := client.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := client.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) stateMessage(current *usecase.Session) (Message, error) {
	snapshot := current.Snapshot()
	view := presenter.Present(snapshot.State, snapshot.Narration, that.opts)

	var board bytes.Buffer
	if err := presenter.Board(view).Render(context.Background(), &board); err != nil {
		return Message{}, fmt.Errorf("failed to render board: %w", err)
	}

	message, err := newMessage(ActionState, StatePayload{View: view, HTML: board.String()})
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal state: %w", err)
	}

	return message, nil
}

func (that *Server) reply(client *connection, action, reason string) {
	message, err := newMessage(ActionError, ErrorPayload{Action: action, Error: reason})
	if err != nil {
		return
	}

	select {
	case client.replies <- message:
	default:
		that.logger.Debug("reply dropped, client is not reading", "action", action)
	}
}
