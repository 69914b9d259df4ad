package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// treeABC builds the guide {A:[B,C]} where B and C are children of A.
func treeABC() []Question {
	return []Question{
		{
			ID:   "A",
			Text: "Question A",
			SubQuestions: []Question{
				{ID: "B", Text: "Question B"},
				{ID: "C", Text: "Question C"},
			},
		},
	}
}

func TestFindQuestion_TopLevel(t *testing.T) {
	q := FindQuestion(treeABC(), "A")

	require.NotNil(t, q)
	assert.Equal(t, "Question A", q.Text)
}

func TestFindQuestion_Nested(t *testing.T) {
	q := FindQuestion(treeABC(), "C")

	require.NotNil(t, q)
	assert.Equal(t, "Question C", q.Text)
}

func TestFindQuestion_NotFound(t *testing.T) {
	assert.Nil(t, FindQuestion(treeABC(), "missing"))
	assert.Nil(t, FindQuestion(treeABC(), ""))
}

func TestNextQuestion_PreOrder(t *testing.T) {
	tree := treeABC()

	next := NextQuestion(tree, "A")
	require.NotNil(t, next)
	assert.Equal(t, "B", next.ID)

	next = NextQuestion(tree, "B")
	require.NotNil(t, next)
	assert.Equal(t, "C", next.ID)

	assert.Nil(t, NextQuestion(tree, "C"))
}

func TestNextQuestion_SubtreeBeforeSiblings(t *testing.T) {
	tree := []Question{
		{ID: "q1", Text: "one", SubQuestions: []Question{
			{ID: "q1a", Text: "one-a", SubQuestions: []Question{
				{ID: "q1a1", Text: "one-a-one"},
			}},
		}},
		{ID: "q2", Text: "two"},
	}

	// q1's whole subtree comes before q2.
	next := NextQuestion(tree, "q1a1")
	require.NotNil(t, next)
	assert.Equal(t, "q2", next.ID)
}

func TestNextQuestion_UnknownCurrent(t *testing.T) {
	assert.Nil(t, NextQuestion(treeABC(), "missing"))
}

func TestFlattenQuestions(t *testing.T) {
	flat := FlattenQuestions(treeABC())

	require.Len(t, flat, 3)
	assert.Equal(t, "A", flat[0].ID)
	assert.Equal(t, "B", flat[1].ID)
	assert.Equal(t, "C", flat[2].ID)
}

func TestFlattenQuestions_Empty(t *testing.T) {
	assert.Empty(t, FlattenQuestions(nil))
}

func TestValidateQuestions_Valid(t *testing.T) {
	assert.NoError(t, ValidateQuestions(treeABC()))
}

func TestValidateQuestions_Empty(t *testing.T) {
	err := ValidateQuestions(nil)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateQuestions_DuplicateID(t *testing.T) {
	tree := []Question{
		{ID: "q1", Text: "one"},
		{ID: "q2", Text: "two", SubQuestions: []Question{
			{ID: "q1", Text: "duplicate"},
		}},
	}

	err := ValidateQuestions(tree)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "duplicate question id")
}

func TestValidateQuestions_MissingText(t *testing.T) {
	err := ValidateQuestions([]Question{{ID: "q1"}})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidateQuestions_BadRule(t *testing.T) {
	tree := []Question{{
		ID:   "q1",
		Text: "one",
		FollowUpRules: []FollowUpRule{
			{Condition: FollowUpCondition{Type: "bogus"}},
		},
	}}

	err := ValidateQuestions(tree)

	assert.ErrorIs(t, err, ErrInvalidInput)
}
