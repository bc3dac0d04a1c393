/*
Package actions provides a fluent API for creating yunheiscot plugin actions. Typical usages
will also involve using the plugin fluent API from github.com/furryhm/yunheiscot/plugin.

A quick example could look like:

	import (
		"github.com/furryhm/yunheiscot"
		"github.com/furryhm/yunheiscot/actions"
		"github.com/furryhm/yunheiscot/plugin"
	)

	var lookupRegex = regexp.MustCompile(`^lookup(?:\s+(\S+))?\s*$`)

	func newPlugin() (p *yunheiscot.Plugin) {
		p = plugin.New("lookup").
			WithCommand(actions.NewCommand().
				MatchingPattern(lookupRegex).
				WithUsage("lookup [<id>]").
				WithDescription("Look up `<id>` or yourself").
				WithAnswerer(func(m *yunheiscot.IncomingMessage) *yunheiscot.Answer {
					return &yunheiscot.Answer{Text: "✅ found it"}
				}).
				Build()).
			Build()
		return p
	}
*/
package actions

import (
	"fmt"
	"regexp"

	"github.com/furryhm/yunheiscot"
)

// ActionBuilder holds the action to build
type ActionBuilder struct {
	action yunheiscot.ActionDefinition
}

var (
	// Default to always match. The Answerer can still decline by returning nil
	defaultMatcher = func(m *yunheiscot.IncomingMessage) bool {
		return true
	}

	// Default to always return nil. This is not a default you want to use in most cases
	defaultAnswerer = func(m *yunheiscot.IncomingMessage) *yunheiscot.Answer {
		return nil
	}
)

// newAction creates a new action and returns the ActionBuilder to set various attributes
// of the action. When done with the setup, the caller is expected to call Build() to get
// the action
func newAction() (ab *ActionBuilder) {
	ab = new(ActionBuilder)
	ab.action = yunheiscot.ActionDefinition{Hidden: false}

	ab.action.Match = defaultMatcher
	ab.action.Answer = defaultAnswerer

	return ab
}

// NewCommand returns a new ActionBuilder to build a new command
func NewCommand() (ab *ActionBuilder) {
	return newAction()
}

// NewHearAction returns a new ActionBuilder to build a new hear action
func NewHearAction() (ab *ActionBuilder) {
	return newAction()
}

// WithMatcher sets the action's matcher function
func (ab *ActionBuilder) WithMatcher(matcher yunheiscot.Matcher) *ActionBuilder {
	ab.action.Match = matcher
	return ab
}

// MatchingPattern sets the action's matcher to match messages whose normalized text matches pattern
func (ab *ActionBuilder) MatchingPattern(pattern *regexp.Regexp) *ActionBuilder {
	ab.action.Match = func(m *yunheiscot.IncomingMessage) bool {
		return pattern.MatchString(m.NormalizedText)
	}
	return ab
}

// WithUsage sets the action usage
func (ab *ActionBuilder) WithUsage(usage string) *ActionBuilder {
	ab.action.Usage = usage
	return ab
}

// WithDescription sets the action description
func (ab *ActionBuilder) WithDescription(description string) *ActionBuilder {
	ab.action.Description = description
	return ab
}

// WithDescriptionf sets the action description delegating format and arguments to fmt.Sprintf
func (ab *ActionBuilder) WithDescriptionf(format string, a ...interface{}) *ActionBuilder {
	ab.action.Description = fmt.Sprintf(format, a...)
	return ab
}

// WithAnswerer sets the action's answerer function
func (ab *ActionBuilder) WithAnswerer(answerer yunheiscot.Answerer) *ActionBuilder {
	ab.action.Answer = answerer
	return ab
}

// Hidden sets the action to hidden
func (ab *ActionBuilder) Hidden() *ActionBuilder {
	ab.action.Hidden = true
	return ab
}

// Build returns the ActionDefinition
func (ab *ActionBuilder) Build() yunheiscot.ActionDefinition {
	return ab.action
}
