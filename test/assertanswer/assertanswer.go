// Package assertanswer provides testing functions to validate a plugin's answer
package assertanswer

import (
	"github.com/furryhm/yunheiscot"
	"github.com/stretchr/testify/assert"
)

// ResolvedAnswerOption holds a pair of Key/Value representing the physical AnswerOption
type ResolvedAnswerOption struct {
	Key   string
	Value string
}

// HasText asserts that the answer's text is the expected text
func HasText(t assert.TestingT, answer *yunheiscot.Answer, text string) bool {
	if assert.NotNil(t, answer) {
		return assert.Equalf(t, text, answer.Text, "Answer text expected to be [%s] but was [%s]", text, answer.Text)
	}
	return false
}

// HasTextContaining asserts that the answer's text contains the expected subString
func HasTextContaining(t assert.TestingT, answer *yunheiscot.Answer, subString string) bool {
	if assert.NotNil(t, answer) {
		return assert.Containsf(t, answer.Text, subString, "Answer expected to have text containing [%s] but its text [%s] didn't", subString, answer.Text)
	}
	return false
}

// HasImage asserts that the answer carries an image with the expected url
func HasImage(t assert.TestingT, answer *yunheiscot.Answer, imageURL string) bool {
	if assert.NotNil(t, answer) {
		return assert.Equalf(t, imageURL, answer.ImageURL, "Answer image expected to be [%s] but was [%s]", imageURL, answer.ImageURL)
	}
	return false
}

// HasNoImage asserts that the answer is a text only answer
func HasNoImage(t assert.TestingT, answer *yunheiscot.Answer) bool {
	if assert.NotNil(t, answer) {
		return assert.Emptyf(t, answer.ImageURL, "Answer expected to be text only but had image [%s]", answer.ImageURL)
	}
	return false
}

// HasOptions asserts that the answer's options contains the expected configuration key/values
func HasOptions(t assert.TestingT, answer *yunheiscot.Answer, options ...ResolvedAnswerOption) bool {
	if assert.NotNil(t, answer) {
		ropts := convertConfigsToResolvedAnswerOptions(yunheiscot.ApplyAnswerOpts(answer.Options...))
		return assert.ElementsMatchf(t, options, ropts, "Answer options expected %s but were %s", options, ropts)
	}
	return false
}

// convertConfigsToResolvedAnswerOptions converts a map[string]string of answer options to an array
// of ResolvedAnswerOptions for easier matching
func convertConfigsToResolvedAnswerOptions(configs map[string]string) (ropts []ResolvedAnswerOption) {
	ropts = make([]ResolvedAnswerOption, 0)

	for key, value := range configs {
		ropts = append(ropts, ResolvedAnswerOption{Key: key, Value: value})
	}

	return ropts
}
