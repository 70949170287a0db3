package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b4build/vic-duty-roster-sub000/app/database"
	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

// fakeRemote is an in-memory RemoteStore.
type fakeRemote struct {
	body    []byte
	pushes  int
	fetches int
	failGet bool
}

func (r *fakeRemote) Fetch() ([]byte, error) {
	r.fetches++
	if r.failGet {
		return nil, assert.AnError
	}
	return r.body, nil
}

func (r *fakeRemote) Push(body []byte) error {
	r.pushes++
	r.body = body
	return nil
}

func TestCompareStamps(t *testing.T) {
	tests := []struct {
		name   string
		local  string
		remote string
		want   bool
	}{
		{"remote newer", "2025-01-01T00:00:00Z", "2025-01-02T00:00:00Z", true},
		{"remote older", "2025-01-02T00:00:00Z", "2025-01-01T00:00:00Z", false},
		{"equal stamps keep local", "2025-01-01T00:00:00Z", "2025-01-01T00:00:00Z", false},
		{"no local stamp, remote present", "", "2025-01-01T00:00:00Z", true},
		{"no remote stamp", "2025-01-01T00:00:00Z", "", false},
		{"both empty", "", "", false},
		{"nano precision", "2025-01-01T00:00:00.000001Z", "2025-01-01T00:00:00.000002Z", true},
		{"unparsable falls back to lexical", "abc", "abd", true},
		{"unparsable lexical keep", "abd", "abc", false},
		{"mixed parse falls back to lexical", "2025-01-01T00:00:00Z", "zzz", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareStamps(tt.local, tt.remote))
		})
	}
}

func TestSealerRoundTrip(t *testing.T) {
	s, err := NewSealer("passphrase")
	require.NoError(t, err)
	require.NotNil(t, s)

	plain := []byte(`{"hello":"world"}`)
	sealed, err := s.Seal(plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, sealed)

	// Unique nonce per write: sealing twice differs.
	sealed2, err := s.Seal(plain)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, sealed2)

	got, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	// Wrong key fails authentication.
	other, err := NewSealer("different")
	require.NoError(t, err)
	_, err = other.Open(sealed)
	assert.Error(t, err)

	// Truncated payloads error instead of panicking.
	_, err = s.Open(sealed[:3])
	assert.Error(t, err)

	// No secret means no sealer.
	none, err := NewSealer("")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func newSyncPair(t *testing.T) (database.Store, *HistoryEngine, *fakeRemote, *Syncer) {
	t.Helper()
	store := database.NewMemoryStore()
	engine := NewHistoryEngine(store)
	remote := &fakeRemote{}
	return store, engine, remote, NewSyncer(store, engine, remote, nil)
}

func TestSyncToRemote_Unconfigured(t *testing.T) {
	store := database.NewMemoryStore()
	engine := NewHistoryEngine(store)
	syncer := NewSyncer(store, engine, nil, nil)

	status, err := syncer.SyncToRemote()
	require.NoError(t, err)
	assert.Equal(t, "skipped", status.Status)

	status, err = syncer.HydrateFromRemote()
	require.NoError(t, err)
	assert.Equal(t, "unconfigured", status.Status)
}

func TestSyncToRemote_PushesSectionsAndStamps(t *testing.T) {
	store, _, remote, syncer := newSyncPair(t)
	seedFaculty(t, store, "Sup One", "Inv One", "Inv Two")
	require.NoError(t, store.SaveAssignment(buildChart("2025-01-06")))

	status, err := syncer.SyncToRemote()
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.ElementsMatch(t, []string{"duties", "history", "faculty"}, status.Sections)
	assert.Equal(t, 1, remote.pushes)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(remote.body, &env))
	assert.Contains(t, env, "duties")
	assert.Contains(t, env, "_meta")

	stamp, err := store.GetSectionStamp(models.SectionDuties)
	require.NoError(t, err)
	assert.NotEmpty(t, stamp)
}

func TestHydrate_RemoteNewerReplacesSection(t *testing.T) {
	// A populated source instance pushes, a fresh instance pulls.
	srcStore, _, remote, srcSyncer := newSyncPair(t)
	seedFaculty(t, srcStore, "Sup One", "Inv One", "Inv Two")
	require.NoError(t, srcStore.SaveAssignment(buildChart("2025-01-06")))
	_, err := srcSyncer.SyncToRemote()
	require.NoError(t, err)

	dstStore := database.NewMemoryStore()
	dstEngine := NewHistoryEngine(dstStore)
	dstSyncer := NewSyncer(dstStore, dstEngine, remote, nil)

	status, err := dstSyncer.HydrateFromRemote()
	require.NoError(t, err)
	assert.Equal(t, "merged", status.Status)
	assert.ElementsMatch(t, []string{"duties", "history", "faculty"}, status.Sections)

	duties, err := dstStore.ListAssignments()
	require.NoError(t, err)
	require.Len(t, duties, 1)
	assert.Equal(t, "2025-01-06", duties[0].Date)

	// History was rederived from the merged duties.
	entries, err := dstStore.ListHistory()
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	f, err := dstStore.GetFaculty("A")
	require.NoError(t, err)
	assert.Equal(t, 1, f.DutyCount)
}

func TestHydrate_LocalNewerKeepsLocal(t *testing.T) {
	store, _, remote, syncer := newSyncPair(t)
	seedFaculty(t, store, "Sup One", "Inv One", "Inv Two")
	require.NoError(t, store.SaveAssignment(buildChart("2025-01-06")))

	// Remote snapshot carries older stamps and different duties.
	old := time.Now().Add(-time.Hour).Format(time.RFC3339Nano)
	env := map[string]interface{}{
		"duties": []models.Assignment{*buildChart("2024-12-01")},
		"_meta":  map[string]string{"duties": old},
	}
	remote.body, _ = json.Marshal(env)

	for _, s := range models.AllSections {
		require.NoError(t, store.SetSectionStamp(s, time.Now().Format(time.RFC3339Nano)))
	}

	status, err := syncer.HydrateFromRemote()
	require.NoError(t, err)
	assert.Equal(t, "unchanged", status.Status)

	duties, err := store.ListAssignments()
	require.NoError(t, err)
	require.Len(t, duties, 1)
	assert.Equal(t, "2025-01-06", duties[0].Date)
}

func TestHydrate_SectionsMergeIndependently(t *testing.T) {
	store, _, remote, syncer := newSyncPair(t)
	seedFaculty(t, store, "Sup One", "Inv One", "Inv Two")

	// Local faculty stamp is fresh, duties stamp is stale.
	now := time.Now()
	require.NoError(t, store.SetSectionStamp(models.SectionFaculty, now.Format(time.RFC3339Nano)))
	require.NoError(t, store.SetSectionStamp(models.SectionDuties, now.Add(-2*time.Hour).Format(time.RFC3339Nano)))

	env := map[string]interface{}{
		"duties":  []models.Assignment{*buildChart("2025-02-01")},
		"faculty": []models.Faculty{{ID: "Z", Name: "Remote Only", Department: "EE", Designation: "Prof."}},
		"_meta": map[string]string{
			"duties":  now.Format(time.RFC3339Nano),
			"faculty": now.Add(-3 * time.Hour).Format(time.RFC3339Nano),
		},
	}
	remote.body, _ = json.Marshal(env)

	status, err := syncer.HydrateFromRemote()
	require.NoError(t, err)
	assert.Equal(t, []string{"duties"}, status.Sections)

	// Newer remote duties applied, older remote faculty ignored.
	duties, err := store.ListAssignments()
	require.NoError(t, err)
	require.Len(t, duties, 1)
	assert.Equal(t, "2025-02-01", duties[0].Date)

	faculty, err := store.ListFaculty()
	require.NoError(t, err)
	assert.Len(t, faculty, 3)
}

func TestHydrate_DutiesAuthoritativeOverHistory(t *testing.T) {
	store, _, remote, syncer := newSyncPair(t)
	seedFaculty(t, store, "Sup One", "Inv One", "Inv Two")

	// Remote carries a chart plus a bogus history section with a newer
	// stamp than anything local.
	now := time.Now().Format(time.RFC3339Nano)
	env := map[string]interface{}{
		"duties": []models.Assignment{*buildChart("2025-01-06")},
		"history": []models.DutyHistoryEntry{
			{ID: "bogus", FacultyID: "A", Date: "1999-01-01", Shift: models.Shift1, Role: models.RoleInvigilator},
		},
		"_meta": map[string]string{"duties": now, "history": now},
	}
	remote.body, _ = json.Marshal(env)

	_, err := syncer.HydrateFromRemote()
	require.NoError(t, err)

	entries, err := store.ListHistory()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.NotEqual(t, "bogus", e.ID)
		assert.Equal(t, "2025-01-06", e.Date)
	}
}

func TestHydrate_SealedPayloadWrongKeyTreatedAsAbsent(t *testing.T) {
	srcStore := database.NewMemoryStore()
	srcEngine := NewHistoryEngine(srcStore)
	remote := &fakeRemote{}
	sealerA, err := NewSealer("key-a")
	require.NoError(t, err)
	srcSyncer := NewSyncer(srcStore, srcEngine, remote, sealerA)

	seedFaculty(t, srcStore, "Sup One", "Inv One", "Inv Two")
	require.NoError(t, srcStore.SaveAssignment(buildChart("2025-01-06")))
	_, err = srcSyncer.SyncToRemote()
	require.NoError(t, err)

	// Same key round-trips.
	dstStore := database.NewMemoryStore()
	dstSyncer := NewSyncer(dstStore, NewHistoryEngine(dstStore), remote, sealerA)
	status, err := dstSyncer.HydrateFromRemote()
	require.NoError(t, err)
	assert.Equal(t, "merged", status.Status)

	// Wrong key: every section fails authentication and is skipped.
	sealerB, err := NewSealer("key-b")
	require.NoError(t, err)
	badStore := database.NewMemoryStore()
	badSyncer := NewSyncer(badStore, NewHistoryEngine(badStore), remote, sealerB)
	status, err = badSyncer.HydrateFromRemote()
	require.NoError(t, err)
	assert.Equal(t, "unchanged", status.Status)

	duties, err := badStore.ListAssignments()
	require.NoError(t, err)
	assert.Empty(t, duties)
}

func TestHydrate_EmptyRemote(t *testing.T) {
	_, _, remote, syncer := newSyncPair(t)
	remote.body = nil

	status, err := syncer.HydrateFromRemote()
	require.NoError(t, err)
	assert.Equal(t, "empty", status.Status)
}

func TestExportImportRoundTrip(t *testing.T) {
	store, engine, _, syncer := newSyncPair(t)
	seedFaculty(t, store, "Sup One", "Inv One", "Inv Two")
	chart := buildChart("2025-01-06")
	require.NoError(t, store.SaveAssignment(chart))
	require.NoError(t, engine.Commit(chart))

	snap, err := syncer.Export()
	require.NoError(t, err)
	require.Len(t, snap.Duties, 1)
	require.Len(t, snap.History, 3)
	require.Len(t, snap.Faculty, 3)

	historyBefore, err := store.ListHistory()
	require.NoError(t, err)
	countsBefore := map[string]int{}
	for _, f := range snap.Faculty {
		countsBefore[f.ID] = f.DutyCount
	}

	require.NoError(t, syncer.Import(snap))

	historyAfter, err := store.ListHistory()
	require.NoError(t, err)
	assert.Equal(t, historyBefore, historyAfter)

	after, err := store.ListFaculty()
	require.NoError(t, err)
	for _, f := range after {
		assert.Equal(t, countsBefore[f.ID], f.DutyCount, "faculty %s", f.Name)
	}
}

func TestImport_RejectsDuplicateFaculty(t *testing.T) {
	store, _, _, syncer := newSyncPair(t)
	seedFaculty(t, store, "Existing")

	snap := &models.BackupSnapshot{
		Faculty: []models.Faculty{
			{ID: "X1", Name: "Same", Department: "CS", Designation: "Prof."},
			{ID: "X2", Name: "same", Department: "CS", Designation: "Prof."},
		},
	}
	err := syncer.Import(snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate faculty name")

	// Nothing was written.
	list, err := store.ListFaculty()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Existing", list[0].Name)
}
