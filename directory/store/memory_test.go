package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/employee-directory/directory"
)

func TestMemory_EmptyStoreStartsAtOne(t *testing.T) {
	m := NewMemory()

	e, err := m.Insert(directory.Employee{FirstName: "First"})

	require.NoError(t, err)
	assert.Equal(t, 1, e.ID)
}

func TestMemory_SnapshotsAreImmutable(t *testing.T) {
	// GIVEN: A snapshot taken before mutations
	m := NewMemory(directory.SampleEmployees()...)
	before := m.Snapshot()

	// WHEN: Updating, deleting and bulk-changing
	e, err := m.Get(1)
	require.NoError(t, err)
	e.Role = "CTO"
	require.NoError(t, m.Update(e))
	require.NoError(t, m.Delete(2))
	_, err = m.SetStatus([]int{3}, directory.StatusInactive)
	require.NoError(t, err)

	// THEN: The old snapshot is unchanged and the version moved on
	assert.Len(t, before.Records, 20)
	assert.Equal(t, "Senior Developer", before.Records[0].Role)
	assert.Equal(t, directory.StatusActive, before.Records[2].Status)

	after := m.Snapshot()
	assert.Greater(t, after.Version, before.Version)
	assert.Len(t, after.Records, 19)
	assert.Equal(t, "CTO", after.Records[0].Role)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	m := NewMemory(directory.SampleEmployees()...)

	e, err := m.Get(1)
	require.NoError(t, err)
	e.Skills[0] = "COBOL"

	again, err := m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "JavaScript", again.Skills[0])
}

func TestMemory_NotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.Get(7)
	assert.ErrorIs(t, err, directory.ErrEmployeeNotFound)
	assert.ErrorIs(t, m.Update(directory.Employee{ID: 7}), directory.ErrEmployeeNotFound)
	assert.ErrorIs(t, m.Delete(7), directory.ErrEmployeeNotFound)

	var nf *directory.NotFoundError
	assert.ErrorAs(t, m.Delete(7), &nf)
	assert.Equal(t, 7, nf.ID)
}

func TestMemory_DeleteManyIsSingleSwap(t *testing.T) {
	m := NewMemory(directory.SampleEmployees()...)
	v := m.Snapshot().Version

	n := m.DeleteMany([]int{1, 5, 99})

	assert.Equal(t, 2, n)
	assert.Equal(t, v+1, m.Snapshot().Version)

	assert.Equal(t, 0, m.DeleteMany([]int{99}))
	assert.Equal(t, v+1, m.Snapshot().Version, "no-op does not bump version")
}

func TestMemory_SetStatusRejectsUnknown(t *testing.T) {
	m := NewMemory(directory.SampleEmployees()...)

	_, err := m.SetStatus([]int{1}, "Retired")

	assert.ErrorIs(t, err, directory.ErrInvalidStatus)
}

func TestMemory_HighWaterSurvivesDeleteButNotReplace(t *testing.T) {
	m := NewMemory(directory.SampleEmployees()[:3]...)
	require.NoError(t, m.Delete(3))

	e, err := m.Insert(directory.Employee{})
	require.NoError(t, err)
	assert.Equal(t, 4, e.ID)

	m.Replace(nil)
	e, err = m.Insert(directory.Employee{})
	require.NoError(t, err)
	assert.Equal(t, 1, e.ID)
}
