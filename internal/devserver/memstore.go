package devserver

import (
	"sort"
	"sync"
	"time"
)

const isoLayout = "2006-01-02T15:04:05.000000"

type anchorRow struct {
	ID         int
	Name       string
	DouyinID   string
	RoomID     *string
	AvatarURL  *string
	IsFollowed bool
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

type recordingRow struct {
	ID            int
	AnchorID      int
	VideoPath     string
	VideoDuration *int
	StartTime     time.Time
	EndTime       *time.Time
	Status        string
	VideoBytes    int64
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

type summaryRow struct {
	ID               int
	RecordingID      int
	Content          string
	CorePoints       *string
	MarketAnalysis   *string
	InvestmentAdvice *string
	Keywords         *string
	Status           string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

// memStore is the stub backend's state. All methods take the lock.
type memStore struct {
	mu         sync.Mutex
	now        func() time.Time
	anchors    map[int]*anchorRow
	recordings map[int]*recordingRow
	summaries  map[int]*summaryRow
	nextID     map[string]int
}

func newMemStore(now func() time.Time) *memStore {
	if now == nil {
		now = time.Now
	}
	return &memStore{
		now:        now,
		anchors:    map[int]*anchorRow{},
		recordings: map[int]*recordingRow{},
		summaries:  map[int]*summaryRow{},
		nextID:     map[string]int{},
	}
}

func (s *memStore) allocID(kind string) int {
	s.nextID[kind]++
	return s.nextID[kind]
}

func (s *memStore) listAnchors(followed *bool) []anchorRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]anchorRow, 0, len(s.anchors))
	for _, a := range s.anchors {
		if followed != nil && a.IsFollowed != *followed {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) anchorByDouyinID(douyinID string) bool {
	for _, a := range s.anchors {
		if a.DouyinID == douyinID {
			return true
		}
	}
	return false
}

// createAnchor reports false when the platform id is taken.
func (s *memStore) createAnchor(a anchorRow) (anchorRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.anchorByDouyinID(a.DouyinID) {
		return anchorRow{}, false
	}
	a.ID = s.allocID("anchor")
	a.CreatedAt = s.now()
	a.UpdatedAt = nil
	row := a
	s.anchors[a.ID] = &row
	return row, true
}

type anchorChange struct {
	Name       *string
	RoomID     **string
	AvatarURL  **string
	IsFollowed *bool
}

func (s *memStore) updateAnchor(id int, ch anchorChange) (anchorRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.anchors[id]
	if !ok {
		return anchorRow{}, false
	}
	if ch.Name != nil {
		a.Name = *ch.Name
	}
	if ch.RoomID != nil {
		a.RoomID = *ch.RoomID
	}
	if ch.AvatarURL != nil {
		a.AvatarURL = *ch.AvatarURL
	}
	if ch.IsFollowed != nil {
		a.IsFollowed = *ch.IsFollowed
	}
	now := s.now()
	a.UpdatedAt = &now
	return *a, true
}

// deleteAnchor also drops the anchor's recordings and their summaries.
func (s *memStore) deleteAnchor(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.anchors[id]; !ok {
		return false
	}
	delete(s.anchors, id)
	for rid, r := range s.recordings {
		if r.AnchorID != id {
			continue
		}
		delete(s.recordings, rid)
		for sid, sm := range s.summaries {
			if sm.RecordingID == rid {
				delete(s.summaries, sid)
			}
		}
	}
	return true
}

func (s *memStore) addRecording(r recordingRow) recordingRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.allocID("recording")
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	row := r
	s.recordings[r.ID] = &row
	return row
}

func (s *memStore) addSummary(sm summaryRow) summaryRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	sm.ID = s.allocID("summary")
	if sm.CreatedAt.IsZero() {
		sm.CreatedAt = s.now()
	}
	row := sm
	s.summaries[sm.ID] = &row
	return row
}

func (s *memStore) listRecordings(anchorID int, status string) []recordingRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]recordingRow, 0, len(s.recordings))
	for _, r := range s.recordings {
		if anchorID != 0 && r.AnchorID != anchorID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.After(out[j].StartTime)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *memStore) recording(id int) (recordingRow, *anchorRow, *summaryRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recordings[id]
	if !ok {
		return recordingRow{}, nil, nil, false
	}
	var a *anchorRow
	if row, ok := s.anchors[r.AnchorID]; ok {
		cp := *row
		a = &cp
	}
	var sm *summaryRow
	for _, row := range s.summaries {
		if row.RecordingID == id {
			cp := *row
			sm = &cp
			break
		}
	}
	return *r, a, sm, true
}

type summaryView struct {
	summaryRow
	recording *recordingRow
	anchor    *anchorRow
}

func (s *memStore) summaryViewLocked(sm *summaryRow) summaryView {
	v := summaryView{summaryRow: *sm}
	if r, ok := s.recordings[sm.RecordingID]; ok {
		rc := *r
		v.recording = &rc
		if a, ok := s.anchors[r.AnchorID]; ok {
			ac := *a
			v.anchor = &ac
		}
	}
	return v
}

func (s *memStore) listSummaries(anchorID int) []summaryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]summaryView, 0, len(s.summaries))
	for _, sm := range s.summaries {
		r, ok := s.recordings[sm.RecordingID]
		if !ok {
			// Summaries are joined to their recording; orphans never list.
			continue
		}
		if anchorID != 0 && r.AnchorID != anchorID {
			continue
		}
		out = append(out, s.summaryViewLocked(sm))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *memStore) summary(id int) (summaryView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sm, ok := s.summaries[id]
	if !ok {
		return summaryView{}, false
	}
	return s.summaryViewLocked(sm), true
}

type counts struct {
	anchors, recordings, summaries int
	videoBytes, summaryBytes       int64
}

func (s *memStore) counts() counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := counts{anchors: len(s.anchors), recordings: len(s.recordings), summaries: len(s.summaries)}
	for _, r := range s.recordings {
		c.videoBytes += r.VideoBytes
	}
	for _, sm := range s.summaries {
		c.summaryBytes += int64(len(sm.Content))
		if sm.CorePoints != nil {
			c.summaryBytes += int64(len(*sm.CorePoints))
		}
	}
	return c
}
