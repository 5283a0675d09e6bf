package dice

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rocketscienceinc/dice-backend/internal/entity"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (that *fakeTimer) Stop() bool {
	that.clock.mu.Lock()
	defer that.clock.mu.Unlock()

	if that.stopped || that.fired {
		return false
	}

	that.stopped = true

	return true
}

// fireLate runs the callback even if the timer was stopped, like a fire racing a Stop.
func (that *fakeTimer) fireLate() {
	that.fn()
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)}
}

func (that *fakeClock) Now() time.Time {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.now
}

func (that *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	that.mu.Lock()
	defer that.mu.Unlock()

	timer := &fakeTimer{clock: that, at: that.now.Add(d), fn: f}
	that.timers = append(that.timers, timer)

	return timer
}

func (that *fakeClock) Advance(d time.Duration) {
	that.mu.Lock()
	that.now = that.now.Add(d)

	var due []*fakeTimer
	for _, timer := range that.timers {
		if !timer.stopped && !timer.fired && !timer.at.After(that.now) {
			timer.fired = true
			due = append(due, timer)
		}
	}
	that.mu.Unlock()

	for _, timer := range due {
		timer.fn()
	}
}

func (that *fakeClock) Armed() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	armed := 0
	for _, timer := range that.timers {
		if !timer.stopped && !timer.fired {
			armed++
		}
	}

	return armed
}

func (that *fakeClock) Last() *fakeTimer {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.timers[len(that.timers)-1]
}

// sequenceSource replays faces (1..6) in order, wrapping around.
type sequenceSource struct {
	faces []int
	next  int
}

func (that *sequenceSource) Intn(int) int {
	face := that.faces[that.next%len(that.faces)]
	that.next++

	return face - 1
}

func newTestController(clock Clock, faces ...int) *Controller {
	return NewController(
		slog.New(slog.DiscardHandler),
		NewRoller(&sequenceSource{faces: faces}),
		WithClock(clock),
	)
}

func TestController_SetDiceCount(t *testing.T) {
	t.Run("Changes the count and resets the shown faces", func(t *testing.T) {
		// Given: An idle controller
		controller := newTestController(newFakeClock(), 4)
		defer controller.Close()

		// When: Choosing three dice
		applied := controller.SetDiceCount(3)

		// Then: The faces show three ones
		require.True(t, applied)
		state := controller.State()
		assert.Equal(t, 3, state.DiceCount)
		assert.Equal(t, []int{1, 1, 1}, state.LastRoll)
	})

	t.Run("Ignores counts out of range", func(t *testing.T) {
		// Given: An idle controller
		controller := newTestController(newFakeClock(), 4)
		defer controller.Close()

		// When: Choosing zero and four dice
		// Then: Nothing changes
		assert.False(t, controller.SetDiceCount(0))
		assert.False(t, controller.SetDiceCount(4))
		assert.Equal(t, entity.NewRollState(), controller.State())
	})

	t.Run("Ignores changes while rolling", func(t *testing.T) {
		// Given: A rolling controller
		controller := newTestController(newFakeClock(), 4)
		defer controller.Close()
		require.True(t, controller.StartRoll())

		// When: Choosing two dice
		applied := controller.SetDiceCount(2)

		// Then: The count stays at one
		assert.False(t, applied)
		assert.Equal(t, 1, controller.State().DiceCount)
	})
}

func TestController_StartRoll(t *testing.T) {
	t.Run("Starts rolling and arms a single timer", func(t *testing.T) {
		// Given: An idle controller
		clock := newFakeClock()
		controller := newTestController(clock, 4)
		defer controller.Close()

		// When: Starting twice
		first := controller.StartRoll()
		second := controller.StartRoll()

		// Then: Only the first start is applied
		assert.True(t, first)
		assert.False(t, second)
		assert.True(t, controller.State().IsRolling)
		assert.Equal(t, 1, clock.Armed())
	})
}

func TestController_StopRoll(t *testing.T) {
	t.Run("Commits the roll and cancels the timer", func(t *testing.T) {
		// Given: Two dice rolling
		clock := newFakeClock()
		controller := newTestController(clock, 3, 5)
		defer controller.Close()
		require.True(t, controller.SetDiceCount(2))
		require.True(t, controller.StartRoll())

		// When: Stopping manually
		turn, ok := controller.StopRoll()

		// Then: A turn is recorded and nothing stays armed
		require.True(t, ok)
		assert.Equal(t, []int{3, 5}, turn.Roll)
		assert.Equal(t, 8, turn.Total)
		assert.Equal(t, 2, turn.DiceCount)
		assert.Equal(t, clock.Now(), turn.Timestamp)
		assert.Equal(t, 0, clock.Armed())

		state := controller.State()
		assert.False(t, state.IsRolling)
		assert.Equal(t, []int{3, 5}, state.LastRoll)
		assert.Equal(t, 8, state.Score)
		require.Len(t, state.History, 1)
		assert.Equal(t, turn, state.History[0])
	})

	t.Run("Is a no-op when idle", func(t *testing.T) {
		// Given: An idle controller
		controller := newTestController(newFakeClock(), 4)
		defer controller.Close()

		// When: Stopping
		_, ok := controller.StopRoll()

		// Then: Nothing is recorded
		assert.False(t, ok)
		assert.Empty(t, controller.State().History)
	})

	t.Run("Second stop of the same roll is ignored", func(t *testing.T) {
		// Given: A roll stopped once
		controller := newTestController(newFakeClock(), 6)
		defer controller.Close()
		require.True(t, controller.StartRoll())
		_, ok := controller.StopRoll()
		require.True(t, ok)

		// When: Stopping again
		_, ok = controller.StopRoll()

		// Then: Still a single turn
		assert.False(t, ok)
		assert.Len(t, controller.State().History, 1)
	})
}

func TestController_AutoStop(t *testing.T) {
	t.Run("Stops on its own after the delay", func(t *testing.T) {
		// Given: A rolling controller
		clock := newFakeClock()
		controller := newTestController(clock, 2)
		defer controller.Close()
		require.True(t, controller.StartRoll())

		// When: Almost the whole delay passes
		clock.Advance(AutoStopDelay - time.Millisecond)

		// Then: Still rolling
		assert.True(t, controller.State().IsRolling)

		// When: The delay elapses
		clock.Advance(time.Millisecond)

		// Then: The roll is committed
		state := controller.State()
		assert.False(t, state.IsRolling)
		require.Len(t, state.History, 1)
		assert.Equal(t, 2, state.History[0].Total)
	})

	t.Run("A late fire from a stopped roll does not stop the next one", func(t *testing.T) {
		// Given: A roll stopped manually, then a new roll started
		clock := newFakeClock()
		controller := newTestController(clock, 1, 2, 3)
		defer controller.Close()
		require.True(t, controller.StartRoll())
		stale := clock.Last()
		_, ok := controller.StopRoll()
		require.True(t, ok)
		require.True(t, controller.StartRoll())

		// When: The first timer fires anyway
		stale.fireLate()

		// Then: The second roll keeps spinning
		state := controller.State()
		assert.True(t, state.IsRolling)
		assert.Len(t, state.History, 1)
	})

	t.Run("A late fire after a reset is ignored", func(t *testing.T) {
		// Given: A roll cancelled by a reset
		clock := newFakeClock()
		controller := newTestController(clock, 5)
		defer controller.Close()
		require.True(t, controller.StartRoll())
		stale := clock.Last()
		controller.ResetHistory()

		// When: The cancelled timer fires anyway
		stale.fireLate()

		// Then: Nothing is recorded
		assert.Equal(t, 0, clock.Armed())
		assert.Empty(t, controller.State().History)
		assert.False(t, controller.State().IsRolling)
	})

	t.Run("Fires with the real clock", func(t *testing.T) {
		// Given: A controller on the system clock with a short delay
		controller := NewController(
			slog.New(slog.DiscardHandler),
			NewSeededRoller(1),
			WithAutoStopDelay(20*time.Millisecond),
		)
		defer controller.Close()

		// When: Starting a roll
		require.True(t, controller.StartRoll())

		// Then: It settles without a stop request
		require.Eventually(t, func() bool {
			return !controller.State().IsRolling
		}, time.Second, 5*time.Millisecond)
		assert.Len(t, controller.State().History, 1)
	})
}

func TestController_History(t *testing.T) {
	t.Run("Keeps the ten newest turns first", func(t *testing.T) {
		// Given: A controller rolling faces 1..6 repeatedly
		controller := newTestController(newFakeClock(), 1, 2, 3, 4, 5, 6)
		defer controller.Close()

		// When: Rolling eleven times
		totals := 0
		for range 11 {
			require.True(t, controller.StartRoll())
			turn, ok := controller.StopRoll()
			require.True(t, ok)
			totals += turn.Total
		}

		// Then: The history is capped and newest first, the score counts every turn
		state := controller.State()
		require.Len(t, state.History, entity.HistoryLimit)
		assert.Equal(t, 5, state.History[0].Total)
		assert.Equal(t, 4, state.History[1].Total)
		assert.Equal(t, 2, state.History[9].Total)
		assert.Equal(t, totals, state.Score)
	})

	t.Run("Reset clears history and score but keeps the dice count", func(t *testing.T) {
		// Given: Two turns with two dice
		controller := newTestController(newFakeClock(), 6)
		defer controller.Close()
		require.True(t, controller.SetDiceCount(2))
		for range 2 {
			require.True(t, controller.StartRoll())
			_, ok := controller.StopRoll()
			require.True(t, ok)
		}

		// When: Resetting
		controller.ResetHistory()

		// Then: Only the dice count survives
		state := controller.State()
		assert.Empty(t, state.History)
		assert.Zero(t, state.Score)
		assert.Equal(t, 2, state.DiceCount)
		assert.Equal(t, []int{1, 1}, state.LastRoll)
	})

	t.Run("Snapshots do not share memory with the controller", func(t *testing.T) {
		// Given: A committed turn
		controller := newTestController(newFakeClock(), 4)
		defer controller.Close()
		require.True(t, controller.StartRoll())
		_, ok := controller.StopRoll()
		require.True(t, ok)

		// When: Mutating a snapshot
		state := controller.State()
		state.LastRoll[0] = 6
		state.History[0].Roll[0] = 6

		// Then: The controller is unaffected
		fresh := controller.State()
		assert.Equal(t, []int{4}, fresh.LastRoll)
		assert.Equal(t, []int{4}, fresh.History[0].Roll)
	})
}

func TestController_Subscribe(t *testing.T) {
	t.Run("Notifies every applied transition", func(t *testing.T) {
		// Given: A subscribed listener
		controller := newTestController(newFakeClock(), 3)
		defer controller.Close()

		var seen []entity.RollState
		unsubscribe := controller.Subscribe(func(state entity.RollState) {
			seen = append(seen, state)
		})

		// When: Starting, an ignored start, then stopping
		controller.StartRoll()
		controller.StartRoll()
		controller.StopRoll()
		unsubscribe()
		controller.ResetHistory()

		// Then: Two snapshots arrived before unsubscribing
		require.Len(t, seen, 2)
		assert.True(t, seen[0].IsRolling)
		assert.False(t, seen[1].IsRolling)
		assert.Equal(t, 3, seen[1].Score)
	})
}

func TestController_TurnHook(t *testing.T) {
	t.Run("Receives each turn with the score before it", func(t *testing.T) {
		// Given: A controller with a turn hook
		type call struct {
			total         int
			previousScore int
		}
		var calls []call

		controller := NewController(
			slog.New(slog.DiscardHandler),
			NewRoller(&sequenceSource{faces: []int{2, 5}}),
			WithClock(newFakeClock()),
			WithTurnHook(func(turn entity.Turn, previousScore int) {
				calls = append(calls, call{total: turn.Total, previousScore: previousScore})
			}),
		)
		defer controller.Close()

		// When: Rolling twice
		for range 2 {
			require.True(t, controller.StartRoll())
			controller.StopRoll()
		}

		// Then: The hook saw both turns
		assert.Equal(t, []call{{total: 2, previousScore: 0}, {total: 5, previousScore: 2}}, calls)
	})
}

func TestController_Close(t *testing.T) {
	t.Run("Cancels the timer and ignores later calls", func(t *testing.T) {
		// Given: A rolling controller
		clock := newFakeClock()
		controller := newTestController(clock, 4)
		require.True(t, controller.StartRoll())
		pending := clock.Last()

		// When: Closing twice
		controller.Close()
		controller.Close()
		pending.fireLate()

		// Then: The timer is cancelled and operations are no-ops
		assert.Equal(t, 0, clock.Armed())
		assert.False(t, controller.StartRoll())
		assert.False(t, controller.SetDiceCount(2))
		_, ok := controller.StopRoll()
		assert.False(t, ok)
		assert.Empty(t, controller.State().History)
	})
}

func TestController_Concurrent(t *testing.T) {
	t.Run("Concurrent requests never corrupt the state", func(t *testing.T) {
		// Given: A controller on the system clock
		controller := NewController(slog.New(slog.DiscardHandler), NewSeededRoller(7), WithAutoStopDelay(time.Millisecond))
		defer controller.Close()

		// When: Hammering it from several goroutines
		var wg sync.WaitGroup
		for worker := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 50 {
					switch (worker + i) % 4 {
					case 0:
						controller.StartRoll()
					case 1:
						controller.StopRoll()
					case 2:
						controller.SetDiceCount(i%3 + 1)
					default:
						_ = controller.State()
					}
				}
			}()
		}
		wg.Wait()

		// Then: Every recorded turn is consistent
		state := controller.State()
		assert.LessOrEqual(t, len(state.History), entity.HistoryLimit)
		for _, turn := range state.History {
			assert.Len(t, turn.Roll, turn.DiceCount)
		}
	})
}
