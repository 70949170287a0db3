package services

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"time"

	"github.com/b4build/vic-duty-roster-sub000/app/database"
	"github.com/b4build/vic-duty-roster-sub000/app/models"
)

// remoteEnvelope is the wire shape of the backup endpoint: any subset of
// the three sections plus a map of per-section stamps. A sealed section is
// carried as a JSON string holding base64(nonce||ciphertext); a plain one
// as its JSON value directly.
type remoteEnvelope struct {
	Duties  json.RawMessage   `json:"duties,omitempty"`
	History json.RawMessage   `json:"history,omitempty"`
	Faculty json.RawMessage   `json:"faculty,omitempty"`
	Meta    map[string]string `json:"_meta,omitempty"`
}

func (e *remoteEnvelope) section(s models.BackupSection) json.RawMessage {
	switch s {
	case models.SectionDuties:
		return e.Duties
	case models.SectionHistory:
		return e.History
	case models.SectionFaculty:
		return e.Faculty
	}
	return nil
}

func (e *remoteEnvelope) setSection(s models.BackupSection, raw json.RawMessage) {
	switch s {
	case models.SectionDuties:
		e.Duties = raw
	case models.SectionHistory:
		e.History = raw
	case models.SectionFaculty:
		e.Faculty = raw
	}
}

// CompareStamps decides a per-section last-write-wins merge: true means the
// remote copy replaces the local one. Remote wins when it is strictly newer
// or when the local side has no recorded stamp at all. Unparsable stamps
// fall back to lexical comparison.
func CompareStamps(local, remote string) bool {
	if remote == "" {
		return false
	}
	if local == "" {
		return true
	}
	lt, lerr := parseStamp(local)
	rt, rerr := parseStamp(remote)
	if lerr == nil && rerr == nil {
		return rt.After(lt)
	}
	return remote > local
}

func parseStamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// SyncStatus reports the outcome of a push or pull.
type SyncStatus struct {
	Status   string   `json:"status"`
	Sections []string `json:"sections,omitempty"`
}

// Syncer reconciles the local store with the remote backup endpoint using
// per-section last-write-wins. A nil remote degrades both directions to a
// reported status instead of an error; a nil sealer means plaintext
// payloads.
type Syncer struct {
	store  database.Store
	engine *HistoryEngine
	remote RemoteStore
	sealer *Sealer
}

func NewSyncer(store database.Store, engine *HistoryEngine, remote RemoteStore, sealer *Sealer) *Syncer {
	return &Syncer{store: store, engine: engine, remote: remote, sealer: sealer}
}

// encodeSection marshals a collection and seals it when a key is
// configured.
func (s *Syncer) encodeSection(v interface{}) (json.RawMessage, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if s.sealer == nil {
		return plain, nil
	}
	sealed, err := s.sealer.Seal(plain)
	if err != nil {
		return nil, err
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(sealed))
}

// decodeSection reverses encodeSection. The bool result is false when the
// payload cannot be recovered (wrong key, corrupt data, malformed JSON);
// the section is then treated as absent, never as a hard error.
func (s *Syncer) decodeSection(raw json.RawMessage, out interface{}) bool {
	if len(raw) == 0 {
		return false
	}
	var sealedB64 string
	if err := json.Unmarshal(raw, &sealedB64); err == nil {
		// String payload: sealed section.
		if s.sealer == nil {
			log.Println("Backup section is encrypted but no backup key is configured")
			return false
		}
		sealed, err := base64.StdEncoding.DecodeString(sealedB64)
		if err != nil {
			return false
		}
		plain, err := s.sealer.Open(sealed)
		if err != nil {
			log.Printf("Backup section failed decryption: %v", err)
			return false
		}
		return json.Unmarshal(plain, out) == nil
	}
	return json.Unmarshal(raw, out) == nil
}

// SyncToRemote pushes the requested sections (all three when none are
// named) to the remote endpoint, stamping each with the current time. An
// unconfigured remote is a silent no-op.
func (s *Syncer) SyncToRemote(sections ...models.BackupSection) (*SyncStatus, error) {
	if s.remote == nil {
		return &SyncStatus{Status: "skipped"}, nil
	}
	if len(sections) == 0 {
		sections = models.AllSections
	}

	env := &remoteEnvelope{Meta: map[string]string{}}
	stamp := time.Now().Format(time.RFC3339Nano)
	var pushed []string

	for _, section := range sections {
		var value interface{}
		var err error
		switch section {
		case models.SectionDuties:
			value, err = s.store.ListAssignments()
		case models.SectionHistory:
			value, err = s.store.ListHistory()
		case models.SectionFaculty:
			var list []*models.Faculty
			list, err = s.store.ListFaculty()
			value = list
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		raw, err := s.encodeSection(value)
		if err != nil {
			return nil, err
		}
		env.setSection(section, raw)
		env.Meta[string(section)] = stamp
		pushed = append(pushed, string(section))
	}

	body, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	if err := s.remote.Push(body); err != nil {
		return nil, err
	}

	// Record the stamps locally only after the push landed, so a failed
	// push leaves the merge comparison untouched.
	for _, section := range sections {
		if err := s.store.SetSectionStamp(section, stamp); err != nil {
			return nil, err
		}
	}
	return &SyncStatus{Status: "ok", Sections: pushed}, nil
}

// HydrateFromRemote pulls the remote snapshot and merges it section by
// section: a section is replaced locally only when its remote stamp wins
// the comparison. When duties is replaced, history and duty counts are
// rederived from the merged duties rather than trusted from the remote
// history payload.
func (s *Syncer) HydrateFromRemote() (*SyncStatus, error) {
	if s.remote == nil {
		return &SyncStatus{Status: "unconfigured"}, nil
	}
	body, err := s.remote.Fetch()
	if err != nil {
		return nil, err
	}
	if body == nil {
		return &SyncStatus{Status: "empty"}, nil
	}

	var env remoteEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}

	var merged []string
	dutiesReplaced := false
	historyTouched := false

	for _, section := range models.AllSections {
		raw := env.section(section)
		if raw == nil {
			continue
		}
		local, err := s.store.GetSectionStamp(section)
		if err != nil {
			return nil, err
		}
		remoteStamp := ""
		if env.Meta != nil {
			remoteStamp = env.Meta[string(section)]
		}
		if !CompareStamps(local, remoteStamp) {
			continue
		}

		switch section {
		case models.SectionDuties:
			var duties []models.Assignment
			if !s.decodeSection(raw, &duties) {
				continue
			}
			if err := s.store.ReplaceAllAssignments(duties); err != nil {
				return nil, err
			}
			dutiesReplaced = true
		case models.SectionHistory:
			var history []models.DutyHistoryEntry
			if !s.decodeSection(raw, &history) {
				continue
			}
			if err := s.store.ReplaceAllHistory(history); err != nil {
				return nil, err
			}
			historyTouched = true
		case models.SectionFaculty:
			var faculty []models.Faculty
			if !s.decodeSection(raw, &faculty) {
				continue
			}
			if err := s.store.ReplaceAllFaculty(faculty); err != nil {
				return nil, err
			}
			historyTouched = true
		}

		if err := s.store.SetSectionStamp(section, remoteStamp); err != nil {
			return nil, err
		}
		merged = append(merged, string(section))
	}

	// Duties is authoritative over history: a replaced duties section
	// invalidates whatever history came with (or survived) the merge.
	if dutiesReplaced {
		if err := s.engine.RebuildAll(); err != nil {
			return nil, err
		}
	} else if historyTouched {
		if err := s.engine.RecountDuties(); err != nil {
			return nil, err
		}
	}

	if len(merged) == 0 {
		return &SyncStatus{Status: "unchanged"}, nil
	}
	return &SyncStatus{Status: "merged", Sections: merged}, nil
}

// Export assembles the full local state as a snapshot for download.
func (s *Syncer) Export() (*models.BackupSnapshot, error) {
	duties, err := s.store.ListAssignments()
	if err != nil {
		return nil, err
	}
	history, err := s.store.ListHistory()
	if err != nil {
		return nil, err
	}
	facultyPtrs, err := s.store.ListFaculty()
	if err != nil {
		return nil, err
	}
	faculty := make([]models.Faculty, 0, len(facultyPtrs))
	for _, f := range facultyPtrs {
		faculty = append(faculty, *f)
	}

	snap := &models.BackupSnapshot{
		Duties:  duties,
		History: history,
		Faculty: faculty,
		Meta:    map[string]string{},
	}
	if snap.Duties == nil {
		snap.Duties = []models.Assignment{}
	}
	if snap.History == nil {
		snap.History = []models.DutyHistoryEntry{}
	}
	for _, section := range models.AllSections {
		stamp, err := s.store.GetSectionStamp(section)
		if err != nil {
			return nil, err
		}
		if stamp != "" {
			snap.Meta[string(section)] = stamp
		}
	}
	return snap, nil
}

// Import restores a snapshot wholesale: sections present in the snapshot
// replace local state, then history and duty counts are rederived from the
// imported duties. The faculty section is validated before any write.
func (s *Syncer) Import(snap *models.BackupSnapshot) error {
	if snap.HasSection(models.SectionFaculty) {
		if err := ValidateFacultyImport(snap.Faculty); err != nil {
			return err
		}
	}
	if snap.HasSection(models.SectionFaculty) {
		if err := s.store.ReplaceAllFaculty(snap.Faculty); err != nil {
			return err
		}
	}
	if snap.HasSection(models.SectionDuties) {
		if err := s.store.ReplaceAllAssignments(snap.Duties); err != nil {
			return err
		}
		return s.engine.RebuildAll()
	}
	if snap.HasSection(models.SectionHistory) {
		if err := s.store.ReplaceAllHistory(snap.History); err != nil {
			return err
		}
	}
	return s.engine.RecountDuties()
}
