package entity

type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodTaunting  Mood = "taunting"
	MoodImpressed Mood = "impressed"
	MoodNeutral   Mood = "neutral"
)

var Moods = []Mood{MoodHappy, MoodTaunting, MoodImpressed, MoodNeutral}

func (that Mood) IsValid() bool {
	for _, mood := range Moods {
		if that == mood {
			return true
		}
	}

	return false
}

// Narration is the decorative commentary shown next to a finished roll.
type Narration struct {
	Message  string `json:"message"`
	Mood     Mood   `json:"mood"`
	Fallback bool   `json:"fallback,omitempty"`
}

type NarrationRequest struct {
	RollTotal     int  `json:"roll_total"`
	DiceCount     int  `json:"dice_count"`
	PreviousScore int  `json:"previous_score"`
	IsVictory     bool `json:"is_victory"`
}

func NewNarrationRequest(turn Turn, previousScore int) NarrationRequest {
	return NarrationRequest{
		RollTotal:     turn.Total,
		DiceCount:     turn.DiceCount,
		PreviousScore: previousScore,
		IsVictory:     turn.IsVictory(),
	}
}
