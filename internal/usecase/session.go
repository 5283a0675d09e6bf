package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/dice-backend/internal/dice"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
)

type narrator interface {
	Narrate(ctx context.Context, request entity.NarrationRequest) entity.Narration
}

// Snapshot is everything a client needs to draw the table.
type Snapshot struct {
	State     entity.RollState
	Narration *entity.Narration
}

type sessionListener struct {
	id uint64
	fn func()
}

// Session is one browser's dice table. Operations return false when the request
// did not apply in the current state.
type Session struct {
	ID string

	logger     *slog.Logger
	controller *dice.Controller
	narrator   narrator
	clock      dice.Clock

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	narration *entity.Narration
	turn      uint64
	lastSeen  time.Time
	listeners []sessionListener
	lastID    uint64
	closed    bool
}

func newSession(id string, logger *slog.Logger, narrator narrator, roller *dice.Roller, clock dice.Clock, autoStop time.Duration) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	session := &Session{
		ID:       id,
		logger:   logger.With("session", id),
		narrator: narrator,
		clock:    clock,
		ctx:      ctx,
		cancel:   cancel,
		lastSeen: clock.Now(),
	}

	session.controller = dice.NewController(session.logger, roller,
		dice.WithClock(clock),
		dice.WithAutoStopDelay(autoStop),
		dice.WithTurnHook(session.onTurn),
	)
	session.controller.Subscribe(func(entity.RollState) {
		session.notify()
	})

	return session
}

func (that *Session) SetDiceCount(count int) bool {
	that.touch()
	return that.controller.SetDiceCount(count)
}

func (that *Session) StartRoll() bool {
	that.touch()
	return that.controller.StartRoll()
}

func (that *Session) StopRoll() bool {
	that.touch()

	_, ok := that.controller.StopRoll()

	return ok
}

// ResetHistory clears the table and drops the narration, including one still in flight.
func (that *Session) ResetHistory() {
	that.touch()
	that.dropNarration()

	that.controller.ResetHistory()

	// a turn may have been committed between the two calls
	if that.dropNarration() {
		that.notify()
	}
}

func (that *Session) dropNarration() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.turn++
	dropped := that.narration != nil
	that.narration = nil

	return dropped
}

func (that *Session) Snapshot() Snapshot {
	state := that.controller.State()

	that.mu.Lock()
	defer that.mu.Unlock()

	snapshot := Snapshot{State: state}
	if that.narration != nil {
		narration := *that.narration
		snapshot.Narration = &narration
	}

	return snapshot
}

// Subscribe registers fn to be called after every change. fn must not block; it is
// meant to wake a consumer that then reads Snapshot.
func (that *Session) Subscribe(fn func()) func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.lastID++
	id := that.lastID
	that.listeners = append(that.listeners, sessionListener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			that.mu.Lock()
			defer that.mu.Unlock()

			for i, l := range that.listeners {
				if l.id == id {
					that.listeners = append(that.listeners[:i:i], that.listeners[i+1:]...)
					break
				}
			}

			that.lastSeen = that.clock.Now()
		})
	}
}

// Close stops the timer, aborts pending narration and waits for it to return.
func (that *Session) Close() {
	that.mu.Lock()
	if that.closed {
		that.mu.Unlock()
		return
	}
	that.closed = true
	that.listeners = nil
	that.mu.Unlock()

	that.controller.Close()
	that.cancel()
	that.wg.Wait()
}

func (that *Session) expired(now time.Time, idle time.Duration) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.listeners) == 0 && now.Sub(that.lastSeen) > idle
}

func (that *Session) touch() {
	that.mu.Lock()
	that.lastSeen = that.clock.Now()
	that.mu.Unlock()
}

// onTurn runs under the controller lock, so the model call is handed to its own goroutine.
func (that *Session) onTurn(turn entity.Turn, previousScore int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.turn++
	that.narration = nil

	current := that.turn
	request := entity.NewNarrationRequest(turn, previousScore)

	that.wg.Add(1)
	go func() {
		defer that.wg.Done()
		that.narrate(current, request)
	}()
}

func (that *Session) narrate(turn uint64, request entity.NarrationRequest) {
	log := that.logger.With("method", "narrate")

	narration := that.narrator.Narrate(that.ctx, request)

	that.mu.Lock()
	if that.closed || turn != that.turn {
		that.mu.Unlock()
		log.Debug("narration discarded, turn was superseded", "total", request.RollTotal)
		return
	}
	that.narration = &narration
	that.mu.Unlock()

	that.notify()
}

func (that *Session) notify() {
	that.mu.Lock()
	listeners := make([]sessionListener, len(that.listeners))
	copy(listeners, that.listeners)
	that.mu.Unlock()

	for _, l := range listeners {
		l.fn()
	}
}
