package actions_test

import (
	"regexp"
	"testing"

	"github.com/furryhm/yunheiscot"
	"github.com/furryhm/yunheiscot/actions"
	"github.com/stretchr/testify/assert"
)

func TestNewCommandWithDefaults(t *testing.T) {
	action := actions.NewCommand().Build()
	assert.False(t, action.Hidden)
	assert.True(t, action.Match(&yunheiscot.IncomingMessage{}))
	assert.Nil(t, action.Answer(&yunheiscot.IncomingMessage{}))
}

func TestNewHearActionWithDefaults(t *testing.T) {
	action := actions.NewHearAction().Build()
	assert.False(t, action.Hidden)
	assert.True(t, action.Match(&yunheiscot.IncomingMessage{}))
	assert.Nil(t, action.Answer(&yunheiscot.IncomingMessage{}))
}

func TestNewActionWithMatcher(t *testing.T) {
	action := actions.NewHearAction().
		WithMatcher(func(m *yunheiscot.IncomingMessage) bool {
			return false
		}).
		Build()

	assert.False(t, action.Match(&yunheiscot.IncomingMessage{}))
}

func TestNewActionMatchingPattern(t *testing.T) {
	action := actions.NewCommand().
		MatchingPattern(regexp.MustCompile(`^(云黑查询|云黑)(?:\s+(\S+))?\s*$`)).
		Build()

	assert.True(t, action.Match(&yunheiscot.IncomingMessage{NormalizedText: "云黑查询"}))
	assert.True(t, action.Match(&yunheiscot.IncomingMessage{NormalizedText: "云黑 123456"}))
	assert.False(t, action.Match(&yunheiscot.IncomingMessage{NormalizedText: "云黑查询 1 2"}))
	assert.False(t, action.Match(&yunheiscot.IncomingMessage{NormalizedText: "hello"}))
}

func TestNewActionWithAnswerer(t *testing.T) {
	action := actions.NewHearAction().
		WithAnswerer(func(m *yunheiscot.IncomingMessage) *yunheiscot.Answer {
			return &yunheiscot.Answer{Text: "fake answer"}
		}).
		Build()

	assert.Equal(t, &yunheiscot.Answer{Text: "fake answer"}, action.Answer(&yunheiscot.IncomingMessage{}))
}

func TestNewActionWithUsage(t *testing.T) {
	action := actions.NewHearAction().
		WithUsage("make something").
		Build()

	assert.Equal(t, "make something", action.Usage)
}

func TestNewActionWithDescription(t *testing.T) {
	action := actions.NewHearAction().
		WithDescription("Instruct me to make something").
		Build()

	assert.Equal(t, "Instruct me to make something", action.Description)
}

func TestNewActionWithDescriptionf(t *testing.T) {
	action := actions.NewHearAction().
		WithDescriptionf("Instruct me to make %d things", 2).
		Build()

	assert.Equal(t, "Instruct me to make 2 things", action.Description)
}

func TestNewHiddenAction(t *testing.T) {
	action := actions.NewCommand().
		Hidden().
		Build()

	assert.True(t, action.Hidden)
}
