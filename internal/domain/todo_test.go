package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoPatchApplyCompletes(t *testing.T) {
	todo := Todo{ID: "1", Text: "old", OwnerID: "u"}
	text := "new"
	done := true
	at := int64(1700000000000)

	TodoPatch{Text: &text, Completed: &done, CompletedAt: &at}.Apply(&todo)

	assert.Equal(t, "new", todo.Text)
	assert.True(t, todo.Completed)
	require.NotNil(t, todo.CompletedAt)
	assert.Equal(t, at, *todo.CompletedAt)
	assert.Equal(t, "u", todo.OwnerID)
}

func TestTodoPatchApplyClearsCompletedAt(t *testing.T) {
	at := int64(123456)
	todo := Todo{Text: "x", Completed: true, CompletedAt: &at}
	done := false

	TodoPatch{Completed: &done}.Apply(&todo)

	assert.False(t, todo.Completed)
	assert.Nil(t, todo.CompletedAt)
	assert.Equal(t, "x", todo.Text)
}

func TestTodoPatchApplyTextOnlyKeepsCompletion(t *testing.T) {
	at := int64(123456)
	todo := Todo{Text: "x", Completed: true, CompletedAt: &at}
	text := "y"

	TodoPatch{Text: &text}.Apply(&todo)

	assert.True(t, todo.Completed)
	assert.Equal(t, &at, todo.CompletedAt)
}

func TestTodoPatchEmpty(t *testing.T) {
	assert.True(t, TodoPatch{}.Empty())
	text := "a"
	assert.False(t, TodoPatch{Text: &text}.Empty())
}

func TestUserHasToken(t *testing.T) {
	u := User{Tokens: []Token{{Purpose: PurposeAuth, Value: "abc"}}}
	assert.True(t, u.HasToken(PurposeAuth, "abc"))
	assert.False(t, u.HasToken("reset", "abc"))
	assert.False(t, u.HasToken(PurposeAuth, "def"))
}
