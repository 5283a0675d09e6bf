package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/dice-backend/internal/apperror"
)

const (
	MinDiceCount     = 1
	MaxDiceCount     = 3
	DefaultDiceCount = 1

	DieFaces = 6

	HistoryLimit = 10
)

// Turn is one completed roll recorded in history.
type Turn struct {
	Timestamp time.Time `json:"timestamp"`
	Roll      []int     `json:"roll"`
	Total     int       `json:"total"`
	DiceCount int       `json:"dice_count"`
}

// IsVictory reports whether every die of the turn landed on its highest face.
func (that Turn) IsVictory() bool {
	if len(that.Roll) == 0 {
		return false
	}

	return that.Total == len(that.Roll)*DieFaces
}

// RollState is the whole state of one dice table. Transitions never modify the receiver,
// they return a new value, so a published RollState can be read without locking.
type RollState struct {
	DiceCount int    `json:"dice_count"`
	LastRoll  []int  `json:"last_roll"`
	IsRolling bool   `json:"is_rolling"`
	History   []Turn `json:"history"`
	Score     int    `json:"score"`
}

func NewRollState() RollState {
	return RollState{
		DiceCount: DefaultDiceCount,
		LastRoll:  restingRoll(DefaultDiceCount),
		History:   []Turn{},
	}
}

func (that RollState) WithDiceCount(count int) (RollState, error) {
	if count < MinDiceCount || count > MaxDiceCount {
		return that, fmt.Errorf("%w: %d", apperror.ErrInvalidDiceCount, count)
	}

	if that.IsRolling {
		return that, apperror.ErrRollInProgress
	}

	next := that.Clone()
	next.DiceCount = count
	next.LastRoll = restingRoll(count)

	return next, nil
}

func (that RollState) Started() (RollState, error) {
	if that.IsRolling {
		return that, apperror.ErrRollInProgress
	}

	next := that.Clone()
	next.IsRolling = true

	return next, nil
}

// Stopped commits roll as a new Turn at the front of the history.
func (that RollState) Stopped(roll []int, now time.Time) (RollState, Turn, error) {
	if !that.IsRolling {
		return that, Turn{}, apperror.ErrNotRolling
	}

	if len(roll) != that.DiceCount {
		return that, Turn{}, fmt.Errorf("%w: got %d dice, want %d", apperror.ErrInvalidRoll, len(roll), that.DiceCount)
	}

	total := 0
	for _, value := range roll {
		if value < 1 || value > DieFaces {
			return that, Turn{}, fmt.Errorf("%w: die value %d", apperror.ErrInvalidRoll, value)
		}
		total += value
	}

	turn := Turn{
		Timestamp: now,
		Roll:      append([]int(nil), roll...),
		Total:     total,
		DiceCount: that.DiceCount,
	}

	history := make([]Turn, 0, HistoryLimit)
	history = append(history, turn)
	history = append(history, that.History...)
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}

	next := RollState{
		DiceCount: that.DiceCount,
		LastRoll:  append([]int(nil), roll...),
		IsRolling: false,
		History:   cloneHistory(history),
		Score:     that.Score + total,
	}

	return next, turn.clone(), nil
}

// Reset drops the history and the running score and force-stops a roll without a result.
func (that RollState) Reset() RollState {
	return RollState{
		DiceCount: that.DiceCount,
		LastRoll:  restingRoll(that.DiceCount),
		History:   []Turn{},
	}
}

func (that RollState) Clone() RollState {
	return RollState{
		DiceCount: that.DiceCount,
		LastRoll:  append([]int(nil), that.LastRoll...),
		IsRolling: that.IsRolling,
		History:   cloneHistory(that.History),
		Score:     that.Score,
	}
}

func (that Turn) clone() Turn {
	that.Roll = append([]int(nil), that.Roll...)
	return that
}

func cloneHistory(history []Turn) []Turn {
	cloned := make([]Turn, len(history))
	for i, turn := range history {
		cloned[i] = turn.clone()
	}

	return cloned
}

// restingRoll is the all-ones face shown before any roll of the given size.
func restingRoll(count int) []int {
	roll := make([]int, count)
	for i := range roll {
		roll[i] = 1
	}

	return roll
}
