// Package assertaction provides testing functions for validation a plugin action's behavior
package assertaction

import (
	"github.com/furryhm/yunheiscot"
	"github.com/stretchr/testify/assert"
)

// AnswerValidator is a function to do further validation of an action's answer. The return value is meant to be true if validation
// is successful and false otherwise (following the testify convention)
type AnswerValidator func(t assert.TestingT, a *yunheiscot.Answer) bool

// MatchesAndAnswers asserts that the action.Match is true and gets the action's answer to be further validated by AnswerValidator
func MatchesAndAnswers(t assert.TestingT, action yunheiscot.ActionDefinition, m *yunheiscot.IncomingMessage, validateAnswer AnswerValidator) bool {
	if !assert.Truef(t, action.Match(m), "Message [%s] expected to match but action.Match returned false", m.NormalizedText) {
		return false
	}

	return validateAnswer(t, action.Answer(m))
}

// NotMatch asserts that action.Match is false
func NotMatch(t assert.TestingT, action yunheiscot.ActionDefinition, m *yunheiscot.IncomingMessage) bool {
	return assert.Falsef(t, action.Match(m), "Message [%s] should not be a match but action.Match returned true", m.NormalizedText)
}
