package yunheiscot

import (
	"regexp"
)

// mentionRegex matches slack user mentions, with or without a display label (<@U123> or <@U123|jane>)
var mentionRegex = regexp.MustCompile(`<@([A-Za-z0-9]+)(?:\|[^>]*)?>`)

// ExtractMentions returns the ids of users mentioned in text, in order of appearance
func ExtractMentions(text string) (mentions []string) {
	mentions = make([]string, 0)

	for _, match := range mentionRegex.FindAllStringSubmatch(text, -1) {
		mentions = append(mentions, match[1])
	}

	return mentions
}
