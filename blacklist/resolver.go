package blacklist

import (
	"regexp"
	"strings"
)

var mentionToken = regexp.MustCompile(`^<@([^>|]+)(?:\|[^>]*)?>$`)

// ResolveInput holds everything known about who a lookup could be about
type ResolveInput struct {
	// Mentions are the identifiers mentioned in the message, in order of appearance
	Mentions []string

	// Argument is the explicit command argument, if any
	Argument string

	SenderID string
	SelfID   string
}

// Resolve returns the identifier to look up. The first mention that isn't the bot wins, then the
// explicit argument (unless it designates the bot) and finally the sender
func Resolve(in ResolveInput) string {
	for _, m := range in.Mentions {
		if m != "" && m != in.SelfID {
			return m
		}
	}

	if arg := unwrapMention(strings.TrimSpace(in.Argument)); arg != "" && arg != in.SelfID {
		return arg
	}

	return in.SenderID
}

// unwrapMention returns the identifier of a mention token such as <@U1234> or <@U1234|jane>.
// Anything else is returned unchanged
func unwrapMention(s string) string {
	if m := mentionToken.FindStringSubmatch(s); m != nil {
		return m[1]
	}

	return s
}
