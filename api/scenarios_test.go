package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/employee-directory/directory"
	"github.com/warp/employee-directory/export"
)

func TestScenarioRecords(t *testing.T) {
	sample, err := ScenarioRecords("sample")
	require.NoError(t, err)
	assert.Len(t, sample, 20)

	empty, err := ScenarioRecords("empty")
	require.NoError(t, err)
	assert.Empty(t, empty)

	it, err := ScenarioRecords("it-only")
	require.NoError(t, err)
	assert.Len(t, it, 11)
	for _, e := range it {
		assert.Equal(t, "Information Technology", e.Department)
	}

	_, err = ScenarioRecords("mars-office")
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestLoadScenario_DropsSessionState(t *testing.T) {
	// GIVEN: A session with a search, a selection and an open form
	env := newSampleEnv(t)
	env.session(t, http.MethodPut, "/api/session/search", searchRequest{Search: "a"})
	env.session(t, http.MethodPost, "/api/session/selection/toggle", idRequest{ID: 1})
	env.session(t, http.MethodPost, "/api/session/form", nil)

	// WHEN: Loading the IT scenario
	rec := env.do(t, http.MethodPost, "/api/scenarios/load", map[string]string{"scenario_id": "it-only"})

	// THEN: Eleven records and a clean session
	require.Equal(t, http.StatusOK, rec.Code)
	_, s, _ := env.session(t, http.MethodGet, "/api/session", nil)
	assert.Equal(t, 11, s.Page.TotalItems)
	assert.Empty(t, s.Query.Search)
	assert.Empty(t, s.Selected)
	assert.False(t, s.Form.Open)

	rec = env.do(t, http.MethodGet, "/api/scenarios/current", nil)
	var current ScenarioDTO
	decodeEnvelope(t, rec, &current)
	assert.Equal(t, "it-only", current.ID)
	assert.Equal(t, 11, current.Records)
}

func TestLoadScenario_Unknown(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodPost, "/api/scenarios/load", map[string]string{"scenario_id": "mars-office"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, env.store.Snapshot().Records, 20)
}

func TestResetDirectory(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.store.Snapshot().Records)

	rec = env.do(t, http.MethodGet, "/api/scenarios/current", nil)
	assert.Empty(t, decodeEnvelope(t, rec, nil).Data)

	// Ids restart at 1 after a reset
	rec = env.do(t, http.MethodPost, "/api/employees", validRequest())
	var e EmployeeDTO
	decodeEnvelope(t, rec, &e)
	assert.Equal(t, 1, e.ID)
}

func TestListScenarios(t *testing.T) {
	env := newSampleEnv(t)

	rec := env.do(t, http.MethodGet, "/api/scenarios", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var list []ScenarioDTO
	decodeEnvelope(t, rec, &list)
	require.Len(t, list, 3)
	assert.Equal(t, "sample", list[0].ID)
	assert.Equal(t, 20, list[0].Records)
}

func TestSnapshotScheduler_SkipsUnchangedDirectory(t *testing.T) {
	// GIVEN: A scheduler over the sample directory
	env := newSampleEnv(t)
	ss := NewSnapshotScheduler(env.h, export.FormatCSV, time.Hour)
	ctx := context.Background()

	// WHEN: Running twice without changes
	first, written, err := ss.RunNow(ctx)
	require.NoError(t, err)
	require.True(t, written)
	_, written, err = ss.RunNow(ctx)
	require.NoError(t, err)

	// THEN: Only the first run wrote a snapshot
	assert.False(t, written)
	assert.Equal(t, 20, first.Rows)
	stored, err := export.Stored(ctx, env.h.blobs)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	// WHEN: The directory changes
	require.NoError(t, env.store.Delete(1))
	second, written, err := ss.RunNow(ctx)

	// THEN: A new snapshot is written
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, 19, second.Rows)
	assert.NotEqual(t, first.Key, second.Key)
}

func TestSnapshotScheduler_StartStop(t *testing.T) {
	env := newTestEnv(t, directory.SampleEmployees()[:2]...)
	ss := NewSnapshotScheduler(env.h, export.FormatXLSX, time.Hour)

	ss.Start()
	require.Eventually(t, func() bool {
		stored, err := export.Stored(context.Background(), env.h.blobs)
		return err == nil && len(stored) == 1
	}, time.Second, 10*time.Millisecond)
	ss.Stop()
	ss.Stop()

	disabled := NewSnapshotScheduler(env.h, export.FormatCSV, 0)
	disabled.Start()
	disabled.Stop()
}
