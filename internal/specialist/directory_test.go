package specialist_test

import (
	"testing"

	"github.com/Rrens/medical-agent/internal/specialist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Catalog(t *testing.T) {
	d := specialist.Default()
	require.Equal(t, 10, d.Len())

	first := d.First()
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "General Physician", first.Name)

	for i, s := range d.All() {
		assert.Equal(t, i+1, s.ID, "directory must be ordered by id")
		assert.NotEmpty(t, s.PersonaPrompt)
		assert.NotEmpty(t, s.Description)
	}
}

func TestDirectory_Get(t *testing.T) {
	d := specialist.Default()

	neuro, ok := d.Get(7)
	require.True(t, ok)
	assert.Equal(t, "Neurologist", neuro.Name)

	_, ok = d.Get(42)
	assert.False(t, ok)
}

func TestDirectory_AllReturnsCopy(t *testing.T) {
	d := specialist.Default()

	all := d.All()
	all[0].Name = "mutated"

	assert.Equal(t, "General Physician", d.First().Name)
}

func TestDirectory_Catalog(t *testing.T) {
	entries := specialist.Default().Catalog()
	require.Len(t, entries, 10)
	assert.Equal(t, 8, entries[7].ID)
	assert.Equal(t, "ENT Specialist", entries[7].Specialist)
}
