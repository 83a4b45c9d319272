package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknown_IsSentinel(t *testing.T) {
	u := Unknown()
	assert.True(t, u.IsUnknown())
	assert.Equal(t, CategoryUnknown, u.Type())
}

func TestInferred_DeterministicId(t *testing.T) {
	a, err := Inferred("Coffee Shops")
	require.NoError(t, err)
	b, err := Inferred("coffee   shops")
	require.NoError(t, err)
	assert.Equal(t, a.Id(), b.Id())
}

func TestCategory_IsSimilarTo_CaseInsensitiveName(t *testing.T) {
	a, _ := NewCategory("cat-1", "Groceries", CategoryYnabAssigned)
	b, _ := NewCategory("cat-2", "GROCERIES", CategoryBankInferred)
	assert.True(t, a.IsSimilarTo(b))
}

func TestYnabCategory_Similarity(t *testing.T) {
	c, err := NewYnabCategory("c1", "Dining Out", "g1", "Food", false, false)
	require.NoError(t, err)

	assert.Equal(t, 1.0, c.Similarity("Paid at DINING OUT last night"))
	assert.Equal(t, 0.7, c.Similarity("charged under food group"))
	assert.Equal(t, 0.5, c.Similarity("weekly dining run"))
	assert.Equal(t, 0.0, c.Similarity("unrelated text"))
	assert.Equal(t, 0.0, c.Similarity(""))
}

func TestYnabCategory_IsAvailableForInference(t *testing.T) {
	visible, _ := NewYnabCategory("c1", "Rent", "g1", "Housing", false, false)
	hidden, _ := NewYnabCategory("c2", "Old", "g1", "Housing", true, false)
	deleted, _ := NewYnabCategory("c3", "Gone", "g1", "Housing", false, true)

	assert.True(t, visible.IsAvailableForInference())
	assert.False(t, hidden.IsAvailableForInference())
	assert.False(t, deleted.IsAvailableForInference())
}

func TestNewCategory_RejectsBlank(t *testing.T) {
	_, err := NewCategory("", "name", CategoryUnknown)
	assert.Error(t, err)

	_, err = NewCategory("id", "", CategoryUnknown)
	assert.Error(t, err)
}
