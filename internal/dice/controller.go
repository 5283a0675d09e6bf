package dice

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rocketscienceinc/dice-backend/internal/entity"
)

// AutoStopDelay is how long the dice spin before they stop on their own.
const AutoStopDelay = 3 * time.Second

type roller interface {
	Roll(count int) []int
}

// TurnHook receives every committed turn together with the score before it, just before
// the new state is published. It runs while the controller is locked and must not call
// back into the Controller.
type TurnHook func(turn entity.Turn, previousScore int)

type Option func(*Controller)

func WithClock(clock Clock) Option {
	return func(that *Controller) {
		that.clock = clock
	}
}

func WithAutoStopDelay(delay time.Duration) Option {
	return func(that *Controller) {
		if delay > 0 {
			that.autoStop = delay
		}
	}
}

func WithTurnHook(hook TurnHook) Option {
	return func(that *Controller) {
		that.onTurn = hook
	}
}

type listener struct {
	id uint64
	fn func(entity.RollState)
}

// Controller owns the roll state machine of one dice table and its auto-stop timer.
//
// Transitions are serialized by mu and publish a fresh immutable RollState, so State
// never observes a half-applied transition. Requests that are not valid in the current
// state are dropped without an error.
type Controller struct {
	logger   *slog.Logger
	roller   roller
	clock    Clock
	autoStop time.Duration
	onTurn   TurnHook

	state atomic.Pointer[entity.RollState]

	mu        sync.Mutex
	timer     Timer
	epoch     uint64
	closed    bool
	listeners []listener
	lastID    uint64
}

func NewController(logger *slog.Logger, roller roller, opts ...Option) *Controller {
	controller := &Controller{
		logger:   logger.With("component", "dice"),
		roller:   roller,
		clock:    SystemClock(),
		autoStop: AutoStopDelay,
	}

	for _, opt := range opts {
		opt(controller)
	}

	initial := entity.NewRollState()
	controller.state.Store(&initial)

	return controller
}

// State returns a copy of the current snapshot.
func (that *Controller) State() entity.RollState {
	return that.state.Load().Clone()
}

// Subscribe registers fn for every snapshot published after an applied transition.
// fn runs while the controller is locked and must not call back into the Controller.
func (that *Controller) Subscribe(fn func(entity.RollState)) func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.lastID++
	id := that.lastID
	that.listeners = append(that.listeners, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			that.mu.Lock()
			defer that.mu.Unlock()

			for i, l := range that.listeners {
				if l.id == id {
					that.listeners = append(that.listeners[:i:i], that.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (that *Controller) SetDiceCount(count int) bool {
	log := that.logger.With("method", "SetDiceCount")

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return false
	}

	next, err := that.current().WithDiceCount(count)
	if err != nil {
		log.Debug("dice count change ignored", "count", count, "error", err)
		return false
	}

	that.publish(next)

	return true
}

// StartRoll sets the dice spinning and arms the auto-stop timer.
func (that *Controller) StartRoll() bool {
	log := that.logger.With("method", "StartRoll")

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return false
	}

	next, err := that.current().Started()
	if err != nil {
		log.Debug("start ignored", "error", err)
		return false
	}

	that.epoch++
	epoch := that.epoch
	that.timer = that.clock.AfterFunc(that.autoStop, func() {
		that.autoStopFired(epoch)
	})

	that.publish(next)

	return true
}

// StopRoll settles the dice and commits a Turn. It reports false when nothing was rolling.
func (that *Controller) StopRoll() (entity.Turn, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.stop("manual")
}

// ResetHistory clears the history and force-stops a roll without producing a result.
func (that *Controller) ResetHistory() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.disarm()
	that.publish(that.current().Reset())
}

// Close cancels the pending timer. Every later call and any late timer fire is a no-op.
func (that *Controller) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.disarm()
	that.closed = true
	that.listeners = nil
}

func (that *Controller) autoStopFired(epoch uint64) {
	log := that.logger.With("method", "autoStopFired")

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed || epoch != that.epoch {
		log.Debug("stale auto-stop ignored", "epoch", epoch)
		return
	}

	that.stop("auto")
}

func (that *Controller) stop(trigger string) (entity.Turn, bool) {
	log := that.logger.With("method", "stop", "trigger", trigger)

	if that.closed {
		return entity.Turn{}, false
	}

	state := that.current()
	if !state.IsRolling {
		log.Debug("stop ignored, dice are not rolling")
		return entity.Turn{}, false
	}

	that.disarm()

	roll := that.roller.Roll(state.DiceCount)

	next, turn, err := state.Stopped(roll, that.clock.Now())
	if err != nil {
		log.Error("roller produced an invalid roll", "roll", roll, "error", err)

		halted := state.Clone()
		halted.IsRolling = false
		that.publish(halted)

		return entity.Turn{}, false
	}

	log.Debug("roll committed", "total", turn.Total, "dice", turn.DiceCount)

	if that.onTurn != nil {
		that.onTurn(turn, state.Score)
	}

	that.publish(next)

	return turn, true
}

// disarm cancels the pending timer and invalidates any fire already in flight.
func (that *Controller) disarm() {
	if that.timer != nil {
		that.timer.Stop()
		that.timer = nil
	}

	that.epoch++
}

func (that *Controller) current() entity.RollState {
	return *that.state.Load()
}

func (that *Controller) publish(next entity.RollState) {
	that.state.Store(&next)

	for _, l := range that.listeners {
		l.fn(next.Clone())
	}
}
