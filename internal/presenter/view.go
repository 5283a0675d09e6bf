package presenter

import (
	"time"

	"github.com/rocketscienceinc/dice-backend/internal/dice"
	"github.com/rocketscienceinc/dice-backend/internal/entity"
	"github.com/rocketscienceinc/dice-backend/internal/i18n"
)

const (
	ActionStart = "start"
	ActionStop  = "stop"

	timeOfDay = "15:04:05"
)

var faceTransforms = map[int]string{
	1: "rotateX(0deg) rotateY(0deg)",
	2: "rotateX(0deg) rotateY(180deg)",
	3: "rotateX(0deg) rotateY(-90deg)",
	4: "rotateX(0deg) rotateY(90deg)",
	5: "rotateX(-90deg) rotateY(0deg)",
	6: "rotateX(90deg) rotateY(0deg)",
}

type Options struct {
	Language string
	Location *time.Location
	AutoStop time.Duration
}

type Labels struct {
	Title        string `json:"title"`
	Reset        string `json:"reset"`
	DiceCount    string `json:"dice_count"`
	History      string `json:"history"`
	HistoryEmpty string `json:"history_empty"`
	Activity     string `json:"activity"`
	Total        string `json:"total"`
	Score        string `json:"score"`
	Narration    string `json:"narration"`
	Footer       string `json:"footer"`
}

type CountOption struct {
	Count    int  `json:"count"`
	Selected bool `json:"selected"`
	Disabled bool `json:"disabled"`
}

// Die is one cube on the table. A spinning die exposes no value.
type Die struct {
	Value    int    `json:"value,omitempty"`
	Face     string `json:"face,omitempty"`
	Spinning bool   `json:"spinning"`
}

type Action struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Hint  string `json:"hint,omitempty"`
}

type HistoryEntry struct {
	Total int    `json:"total"`
	Roll  []int  `json:"roll"`
	Time  string `json:"time"`
}

type NarrationView struct {
	Message   string      `json:"message"`
	Mood      entity.Mood `json:"mood"`
	MoodLabel string      `json:"mood_label"`
	Fallback  bool        `json:"fallback,omitempty"`
}

type View struct {
	Lang      string         `json:"lang"`
	Labels    Labels         `json:"labels"`
	Rolling   bool           `json:"rolling"`
	Counts    []CountOption  `json:"counts"`
	Dice      []Die          `json:"dice"`
	Action    Action         `json:"action"`
	History   []HistoryEntry `json:"history"`
	Score     int            `json:"score"`
	Narration *NarrationView `json:"narration,omitempty"`
}

// Present maps a snapshot onto everything the page draws. It has no side effects.
func Present(state entity.RollState, narration *entity.Narration, opts Options) View {
	lang := i18n.Tag(opts.Language).String()
	printer := i18n.Printer(opts.Language)

	location := opts.Location
	if location == nil {
		location = time.Local
	}

	autoStop := opts.AutoStop
	if autoStop <= 0 {
		autoStop = dice.AutoStopDelay
	}
	seconds := int(autoStop.Round(time.Second) / time.Second)

	view := View{
		Lang: lang,
		Labels: Labels{
			Title:        printer.Sprintf(i18n.KeyTitle),
			Reset:        printer.Sprintf(i18n.KeyReset),
			DiceCount:    printer.Sprintf(i18n.KeyDiceCount),
			History:      printer.Sprintf(i18n.KeyHistory),
			HistoryEmpty: printer.Sprintf(i18n.KeyHistoryEmpty),
			Activity:     printer.Sprintf(i18n.KeyActivityBadge),
			Total:        printer.Sprintf(i18n.KeyTotal),
			Score:        printer.Sprintf(i18n.KeyScore),
			Narration:    printer.Sprintf(i18n.KeyNarrationTitle),
			Footer:       printer.Sprintf(i18n.KeyFooter, seconds),
		},
		Rolling: state.IsRolling,
		Counts:  make([]CountOption, 0, entity.MaxDiceCount),
		Dice:    make([]Die, 0, len(state.LastRoll)),
		History: make([]HistoryEntry, 0, len(state.History)),
		Score:   state.Score,
	}

	for count := entity.MinDiceCount; count <= entity.MaxDiceCount; count++ {
		view.Counts = append(view.Counts, CountOption{
			Count:    count,
			Selected: count == state.DiceCount,
			Disabled: state.IsRolling,
		})
	}

	for _, value := range state.LastRoll {
		if state.IsRolling {
			view.Dice = append(view.Dice, Die{Spinning: true})
			continue
		}

		view.Dice = append(view.Dice, Die{Value: value, Face: faceTransforms[value]})
	}

	if state.IsRolling {
		view.Action = Action{
			Kind:  ActionStop,
			Label: printer.Sprintf(i18n.KeyStop),
			Hint:  printer.Sprintf(i18n.KeyAutoStopHint, seconds),
		}
	} else {
		view.Action = Action{Kind: ActionStart, Label: printer.Sprintf(i18n.KeyStart)}
	}

	for _, turn := range state.History {
		view.History = append(view.History, HistoryEntry{
			Total: turn.Total,
			Roll:  append([]int(nil), turn.Roll...),
			Time:  turn.Timestamp.In(location).Format(timeOfDay),
		})
	}

	if narration != nil {
		view.Narration = &NarrationView{
			Message:   narration.Message,
			Mood:      narration.Mood,
			MoodLabel: printer.Sprintf(moodKey(narration.Mood)),
			Fallback:  narration.Fallback,
		}
	}

	return view
}

func moodKey(mood entity.Mood) string {
	switch mood {
	case entity.MoodHappy:
		return i18n.KeyMoodHappy
	case entity.MoodTaunting:
		return i18n.KeyMoodTaunting
	case entity.MoodImpressed:
		return i18n.KeyMoodImpressed
	default:
		return i18n.KeyMoodNeutral
	}
}
