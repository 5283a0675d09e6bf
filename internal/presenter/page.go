package presenter

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// BoardID is the element the page swaps when a new board fragment arrives.
const BoardID = "board"

type htmlWriter struct {
	w   io.Writer
	err error
}

func (that *htmlWriter) raw(parts ...string) {
	for _, part := range parts {
		if that.err != nil {
			return
		}
		_, that.err = io.WriteString(that.w, part)
	}
}

func (that *htmlWriter) text(s string) {
	that.raw(templ.EscapeString(s))
}

func (that *htmlWriter) number(n int) {
	that.raw(strconv.Itoa(n))
}

// Page renders the whole document around the board.
func Page(view View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}

		out.raw(`<!DOCTYPE html><html lang="`)
		out.text(view.Lang)
		out.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		out.text(view.Labels.Title)
		out.raw(`</title><style>`, pageStyle, `</style></head><body>`)
		if out.err != nil {
			return out.err
		}

		if err := Board(view).Render(ctx, w); err != nil {
			return err
		}

		out.raw(`<footer>`)
		out.text(view.Labels.Footer)
		out.raw(`</footer><script>`, pageScript, `</script></body></html>`)

		return out.err
	})
}

// Board renders the swappable fragment with everything that changes during play.
func Board(view View) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}

		out.raw(`<div id="`, BoardID, `" class="board`)
		if view.Rolling {
			out.raw(` rolling`)
		}
		out.raw(`">`)

		out.raw(`<header><h1>`)
		out.text(view.Labels.Title)
		out.raw(`</h1><button class="reset" data-action="history:reset">`)
		out.text(view.Labels.Reset)
		out.raw(`</button></header><main><section class="table">`)

		renderCounts(out, view)
		renderDice(out, view)
		renderAction(out, view)
		renderNarration(out, view)

		out.raw(`</section>`)

		renderHistory(out, view)

		out.raw(`</main></div>`)

		return out.err
	})
}

func renderCounts(out *htmlWriter, view View) {
	out.raw(`<div class="counts"><span class="caption">`)
	out.text(view.Labels.DiceCount)
	out.raw(`</span><div class="count-options">`)

	for _, option := range view.Counts {
		out.raw(`<button data-action="dice:count" data-count="`)
		out.number(option.Count)
		out.raw(`"`)
		if option.Selected {
			out.raw(` class="selected"`)
		}
		if option.Disabled {
			out.raw(` disabled`)
		}
		out.raw(`>`)
		out.number(option.Count)
		out.raw(`</button>`)
	}

	out.raw(`</div></div>`)
}

func renderDice(out *htmlWriter, view View) {
	out.raw(`<div class="dice">`)

	for _, die := range view.Dice {
		out.raw(`<div class="die-box"><div class="die`)
		if die.Spinning {
			out.raw(` spinning"`)
		} else {
			out.raw(`" data-value="`)
			out.number(die.Value)
			out.raw(`" style="transform: `)
			out.text(die.Face)
			out.raw(`"`)
		}
		out.raw(`>`)

		for face := 1; face <= 6; face++ {
			out.raw(`<div class="face face-`)
			out.number(face)
			out.raw(`">`, strings.Repeat(`<span class="pip"></span>`, face), `</div>`)
		}

		out.raw(`</div></div>`)
	}

	out.raw(`</div>`)
}

func renderAction(out *htmlWriter, view View) {
	out.raw(`<div class="action"><button class="primary `)
	out.text(view.Action.Kind)
	out.raw(`" data-action="roll:`)
	out.text(view.Action.Kind)
	out.raw(`">`)
	out.text(view.Action.Label)
	out.raw(`</button>`)

	if view.Action.Hint != "" {
		out.raw(`<p class="hint">`)
		out.text(view.Action.Hint)
		out.raw(`</p>`)
	}

	out.raw(`</div>`)
}

func renderNarration(out *htmlWriter, view View) {
	if view.Narration == nil {
		return
	}

	out.raw(`<aside class="narration mood-`)
	out.text(string(view.Narration.Mood))
	out.raw(`"><h2>`)
	out.text(view.Labels.Narration)
	out.raw(`</h2><p>`)
	out.text(view.Narration.Message)
	out.raw(`</p><span class="mood">`)
	out.text(view.Narration.MoodLabel)
	out.raw(`</span></aside>`)
}

func renderHistory(out *htmlWriter, view View) {
	out.raw(`<section class="history"><div class="history-head"><h2>`)
	out.text(view.Labels.History)
	out.raw(`</h2><span class="badge">`)
	out.text(view.Labels.Activity)
	out.raw(`</span></div><p class="score">`)
	out.text(view.Labels.Score)
	out.raw(` <strong>`)
	out.number(view.Score)
	out.raw(`</strong></p>`)

	if len(view.History) == 0 {
		out.raw(`<p class="empty">`)
		out.text(view.Labels.HistoryEmpty)
		out.raw(`</p></section>`)
		return
	}

	out.raw(`<ol>`)
	for _, entry := range view.History {
		out.raw(`<li><div class="turn-total"><strong>`)
		out.number(entry.Total)
		out.raw(`</strong><span>`)
		out.text(view.Labels.Total)
		out.raw(`</span></div><div class="turn-roll">`)
		for _, value := range entry.Roll {
			out.raw(`<span>`)
			out.number(value)
			out.raw(`</span>`)
		}
		out.raw(`</div><time>`)
		out.text(entry.Time)
		out.raw(`</time></li>`)
	}
	out.raw(`</ol></section>`)
}
