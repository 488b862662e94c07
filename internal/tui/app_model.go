package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"livewatch-cli/internal/console"
	"livewatch-cli/internal/gateway"
	"livewatch-cli/internal/metrics"
	"livewatch-cli/internal/model"
	"livewatch-cli/internal/store"
)

const (
	minibufferAutoClearAfter = 4 * time.Second
	defaultStatusInterval    = 5 * time.Second
)

// Options wires the TUI to its gateways. Anchors is usually the journaling decorator.
type Options struct {
	Anchors    console.AnchorGateway
	Recordings console.RecordingGateway
	Summaries  console.SummaryGateway
	Status     console.LoadFunc[model.SystemStatus]

	// Store persists the last view and selection; a zero Store disables it.
	Store   store.Store
	Log     *logrus.Logger
	Metrics *metrics.Metrics

	StatusInterval time.Duration
}

// programHooks is shared by every copy of the model so controller callbacks reach the
// running program.
type programHooks struct {
	send func(tea.Msg)
}

// notify runs on whatever goroutine changed the controller, including the event loop
// itself, so the send must not block.
func (h *programHooks) notify() {
	if h != nil && h.send != nil {
		go h.send(stateChangedMsg{})
	}
}

type detailState struct {
	kind      detailKind
	seq       int
	id        model.ID
	recording *console.SnapshotController[model.Recording]
	summary   *console.SnapshotController[model.Summary]
	scroll    int
}

type appModel struct {
	opts  Options
	ctx   context.Context
	env   console.Env
	queue *console.Queue
	hooks *programHooks

	width  int
	height int

	view view

	anchorsList    list.Model
	recordingsList list.Model
	summariesList  list.Model

	anchors    *console.ListController[model.Anchor]
	anchorForm *console.ModalController[model.Anchor, console.AnchorValues]
	recordings *console.ListController[model.Recording]
	summaries  *console.ListController[model.Summary]
	status     *console.SnapshotController[model.SystemStatus]

	followedOnly bool
	// recordingsFor narrows the recordings view to one anchor.
	recordingsFor     model.ID
	recordingsForName string

	modal        modalKind
	form         anchorFormModel
	submitting   bool
	deleteTarget model.Anchor
	confirmFocus confirmModalFocus

	detail    detailState
	detailSeq int

	minibufferText  string
	minibufferErr   bool
	minibufferSetAt time.Time

	// pendingSelect restores the saved selection once a view's first load lands.
	pendingSelect map[view]model.ID
}

func newAppModel(opts Options) appModel {
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = defaultStatusInterval
	}
	q := &console.Queue{}
	m := appModel{
		opts:          opts,
		ctx:           context.Background(),
		queue:         q,
		env:           console.Env{Notifier: q, Log: opts.Log, Metrics: opts.Metrics},
		hooks:         &programHooks{},
		view:          viewAnchors,
		pendingSelect: map[view]model.ID{},
	}
	m.anchorsList = newList("Anchors")
	m.recordingsList = newList("Recordings")
	m.summariesList = newList("Summaries")

	if st, err := opts.Store.LoadTUIState(); err == nil && st != nil {
		m.view = viewFromString(st.View)
		m.followedOnly = st.FollowedOnly
		m.pendingSelect[viewAnchors] = model.ID(st.SelectedAnchorID)
		m.pendingSelect[viewRecordings] = model.ID(st.SelectedRecordingID)
		m.pendingSelect[viewSummaries] = model.ID(st.SelectedSummaryID)
	}

	m.buildAnchors()
	m.buildRecordings()
	m.summaries = console.NewListController[model.Summary](m.env, "summaries", console.SummarySource{Gateway: opts.Summaries})
	m.summaries.OnChange(m.hooks.notify)
	m.status = console.NewSnapshotController[model.SystemStatus](m.env, "status", opts.Status)
	m.status.OnChange(m.hooks.notify)
	return m
}

// buildAnchors (re)creates the anchors controller and its modal for the current filter.
func (m *appModel) buildAnchors() {
	var f gateway.AnchorFilter
	if m.followedOnly {
		followed := true
		f.Followed = &followed
	}
	m.anchors = console.NewListController[model.Anchor](m.env, "anchors", console.AnchorSource{Gateway: m.opts.Anchors, Filter: f})
	m.anchors.OnChange(m.hooks.notify)
	m.anchorForm = console.NewModalController[model.Anchor, console.AnchorValues](m.env, console.AnchorForm{Gateway: m.opts.Anchors}, m.anchors)
	m.anchorForm.OnChange(m.hooks.notify)
}

func (m *appModel) buildRecordings() {
	src := console.RecordingSource{Gateway: m.opts.Recordings, Filter: gateway.RecordingFilter{AnchorID: m.recordingsFor}}
	m.recordings = console.NewListController[model.Recording](m.env, "recordings", src)
	m.recordings.OnChange(m.hooks.notify)
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(tickMinibuffer(), tickStatus(m.opts.StatusInterval), m.activateCmd(m.view))
}

func tickMinibuffer() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{} })
}

func tickStatus(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg { return statusTickMsg{} })
}

// activateCmd loads a view the first time it is shown.
func (m appModel) activateCmd(v view) tea.Cmd {
	ctx := m.ctx
	switch v {
	case viewAnchors:
		c := m.anchors
		return func() tea.Msg { return listLoadedMsg{view: v, err: c.Activate(ctx)} }
	case viewRecordings:
		c := m.recordings
		return func() tea.Msg { return listLoadedMsg{view: v, err: c.Activate(ctx)} }
	case viewSummaries:
		c := m.summaries
		return func() tea.Msg { return listLoadedMsg{view: v, err: c.Activate(ctx)} }
	case viewStatus:
		if m.status.State().Loaded {
			return nil
		}
		return m.statusLoadCmd()
	}
	return nil
}

func (m appModel) refreshCmd(v view) tea.Cmd {
	ctx := m.ctx
	switch v {
	case viewAnchors:
		c := m.anchors
		return func() tea.Msg { return listLoadedMsg{view: v, err: c.Refresh(ctx)} }
	case viewRecordings:
		c := m.recordings
		return func() tea.Msg { return listLoadedMsg{view: v, err: c.Refresh(ctx)} }
	case viewSummaries:
		c := m.summaries
		return func() tea.Msg { return listLoadedMsg{view: v, err: c.Refresh(ctx)} }
	case viewStatus:
		return m.statusLoadCmd()
	}
	return nil
}

func (m appModel) statusLoadCmd() tea.Cmd {
	ctx, c := m.ctx, m.status
	return func() tea.Msg { return statusLoadedMsg{err: c.Load(ctx)} }
}

func (m appModel) submitCmd(v console.AnchorValues) tea.Cmd {
	ctx, c := m.ctx, m.anchorForm
	op := "create"
	if c.Mode() == console.ModeEdit {
		op = "update"
	}
	return func() tea.Msg { return mutationDoneMsg{op: op, err: c.Submit(ctx, v)} }
}

func (m appModel) removeCmd(id model.ID) tea.Cmd {
	ctx, c := m.ctx, m.anchors
	return func() tea.Msg { return mutationDoneMsg{op: "delete", err: c.Remove(ctx, id)} }
}

func (m appModel) detailLoadCmd() tea.Cmd {
	ctx, d := m.ctx, m.detail
	switch d.kind {
	case detailRecording:
		return func() tea.Msg { return detailLoadedMsg{seq: d.seq, err: d.recording.Load(ctx)} }
	case detailSummary:
		return func() tea.Msg { return detailLoadedMsg{seq: d.seq, err: d.summary.Load(ctx)} }
	}
	return nil
}

// openDetail starts loading the record under the cursor of the current list view.
func (m *appModel) openDetail() tea.Cmd {
	var d detailState
	switch m.view {
	case viewRecordings:
		it, ok := m.recordingsList.SelectedItem().(recordingItem)
		if !ok {
			return nil
		}
		id, g := it.rec.ID, m.opts.Recordings
		d = detailState{kind: detailRecording, id: id}
		d.recording = console.NewSnapshotController[model.Recording](m.env, "recording "+id.String(),
			func(ctx context.Context) (model.Recording, error) { return g.Get(ctx, id) })
	case viewSummaries:
		it, ok := m.summariesList.SelectedItem().(summaryItem)
		if !ok {
			return nil
		}
		id, g := it.sum.ID, m.opts.Summaries
		d = detailState{kind: detailSummary, id: id}
		d.summary = console.NewSnapshotController[model.Summary](m.env, "summary "+id.String(),
			func(ctx context.Context) (model.Summary, error) { return g.Get(ctx, id) })
	default:
		return nil
	}
	m.detailSeq++
	d.seq = m.detailSeq
	m.detail = d
	return m.detailLoadCmd()
}

// showRecordingsFor switches to the recordings view narrowed to one anchor; an empty id
// clears the filter.
func (m *appModel) showRecordingsFor(id model.ID, name string) tea.Cmd {
	m.recordingsFor = id
	m.recordingsForName = name
	m.buildRecordings()
	m.recordingsList.ResetSelected()
	m.view = viewRecordings
	return m.activateCmd(viewRecordings)
}

func (m *appModel) toggleFollowedOnly() tea.Cmd {
	m.followedOnly = !m.followedOnly
	m.buildAnchors()
	m.anchorsList.ResetSelected()
	return m.activateCmd(viewAnchors)
}

func (m *appModel) showMinibuffer(text string, isErr bool) {
	m.minibufferText = text
	m.minibufferErr = isErr
	m.minibufferSetAt = time.Now()
}

// drainNotices moves queued controller notices to the minibuffer. The latest wins; an
// error is kept over a later info from the same batch.
func (m *appModel) drainNotices() {
	notices := m.queue.Drain()
	if len(notices) == 0 {
		return
	}
	pick := notices[len(notices)-1]
	for _, n := range notices {
		if n.Level == console.LevelError {
			pick = n
		}
	}
	m.showMinibuffer(pick.Message, pick.Level == console.LevelError)
}

// syncLists copies controller state into the list widgets.
func (m *appModel) syncLists() {
	anchors, recordings, summaries := m.anchors.State(), m.recordings.State(), m.summaries.State()
	setItemsKeepSelection(&m.anchorsList, anchorItems(anchors.Items), m.takePendingSelect(viewAnchors, anchors.Loading, len(anchors.Items)))
	setItemsKeepSelection(&m.recordingsList, recordingItems(recordings.Items), m.takePendingSelect(viewRecordings, recordings.Loading, len(recordings.Items)))
	setItemsKeepSelection(&m.summariesList, summaryItems(summaries.Items), m.takePendingSelect(viewSummaries, summaries.Loading, len(summaries.Items)))
}

// takePendingSelect hands out the saved selection once the view has rows to select.
func (m *appModel) takePendingSelect(v view, loading bool, n int) model.ID {
	id := m.pendingSelect[v]
	if id == "" || loading || n == 0 {
		return ""
	}
	delete(m.pendingSelect, v)
	return id
}

func (m *appModel) activeList() *list.Model {
	switch m.view {
	case viewAnchors:
		return &m.anchorsList
	case viewRecordings:
		return &m.recordingsList
	case viewSummaries:
		return &m.summariesList
	}
	return nil
}

func (m appModel) selectedAnchor() (model.Anchor, bool) {
	it, ok := m.anchorsList.SelectedItem().(anchorItem)
	if !ok {
		return model.Anchor{}, false
	}
	return it.anchor, true
}

func (m appModel) tuiState() *store.TUIState {
	st := &store.TUIState{
		Version:      1,
		View:         viewNames[m.view],
		FollowedOnly: m.followedOnly,
	}
	if it := m.anchorsList.SelectedItem(); it != nil {
		st.SelectedAnchorID = itemID(it).String()
	}
	if it := m.recordingsList.SelectedItem(); it != nil {
		st.SelectedRecordingID = itemID(it).String()
	}
	if it := m.summariesList.SelectedItem(); it != nil {
		st.SelectedSummaryID = itemID(it).String()
	}
	return st
}

// saveState is best effort; a failure only reaches the log.
func (m appModel) saveState() {
	if err := m.opts.Store.SaveTUIState(m.tuiState()); err != nil && m.opts.Log != nil {
		m.opts.Log.WithError(err).Warn("saving tui state failed")
	}
}
