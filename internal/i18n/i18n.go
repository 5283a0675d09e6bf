// Package i18n holds the user-facing copy of the dice table and the narration prompt.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{
	language.Chinese,
	language.English,
}

var matcher = language.NewMatcher(supported)

// Tag resolves a configured language name to one of the supported tags.
// Unknown or empty names resolve to Chinese.
func Tag(lang string) language.Tag {
	requested, err := language.Parse(lang)
	if err != nil {
		return supported[0]
	}

	_, index, confidence := matcher.Match(requested)
	if confidence == language.No {
		return supported[0]
	}

	return supported[index]
}

func Printer(lang string) *message.Printer {
	return message.NewPrinter(Tag(lang))
}
