package model

type RecordingStatus string

const (
	RecordingPending   RecordingStatus = "pending"
	RecordingActive    RecordingStatus = "recording"
	RecordingCompleted RecordingStatus = "completed"
	RecordingFailed    RecordingStatus = "failed"
)

type SummaryStatus string

const (
	SummaryPending    SummaryStatus = "pending"
	SummaryProcessing SummaryStatus = "processing"
	SummaryGenerating SummaryStatus = "generating"
	SummaryCompleted  SummaryStatus = "completed"
	SummaryFailed     SummaryStatus = "failed"
)

// Anchor is a tracked broadcaster. DouyinID is the platform identifier and cannot
// change after creation.
type Anchor struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	DouyinID   string `json:"douyin_id"`
	RoomID     string `json:"room_id,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	IsFollowed bool   `json:"is_followed"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// AnchorInput is the create body.
type AnchorInput struct {
	Name       string `json:"name"`
	DouyinID   string `json:"douyin_id"`
	RoomID     string `json:"room_id,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	IsFollowed bool   `json:"is_followed"`
}

// AnchorPatch is the update body. It deliberately has no platform id.
type AnchorPatch struct {
	Name       string `json:"name"`
	RoomID     string `json:"room_id"`
	AvatarURL  string `json:"avatar_url"`
	IsFollowed bool   `json:"is_followed"`
}

// AnchorRef is the abbreviated anchor the backend inlines into recordings and summaries.
type AnchorRef struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	DouyinID string `json:"douyin_id,omitempty"`
}

type Recording struct {
	ID            ID              `json:"id"`
	AnchorID      ID              `json:"anchor_id"`
	Anchor        *AnchorRef      `json:"anchor,omitempty"`
	StartTime     string          `json:"start_time,omitempty"`
	EndTime       string          `json:"end_time,omitempty"`
	VideoDuration *int64          `json:"video_duration,omitempty"`
	Status        RecordingStatus `json:"status"`
	VideoPath     string          `json:"video_path,omitempty"`
	CreatedAt     string          `json:"created_at,omitempty"`
	UpdatedAt     string          `json:"updated_at,omitempty"`
	Summary       *Summary        `json:"summary,omitempty"`
}

// AnchorName returns the inlined anchor name, or "-" when the backend did not expand it.
func (r Recording) AnchorName() string {
	if r.Anchor == nil || r.Anchor.Name == "" {
		return "-"
	}
	return r.Anchor.Name
}

// RecordingRef is the abbreviated recording inlined into summaries.
type RecordingRef struct {
	ID        ID         `json:"id"`
	StartTime string     `json:"start_time,omitempty"`
	EndTime   string     `json:"end_time,omitempty"`
	Anchor    *AnchorRef `json:"anchor,omitempty"`
}

type Summary struct {
	ID               ID            `json:"id"`
	RecordingID      ID            `json:"recording_id"`
	Recording        *RecordingRef `json:"recording,omitempty"`
	Content          string        `json:"content"`
	CorePoints       StringList    `json:"core_points"`
	Status           SummaryStatus `json:"status"`
	MarketAnalysis   string        `json:"market_analysis,omitempty"`
	InvestmentAdvice string        `json:"investment_advice,omitempty"`
	Keywords         KeywordList   `json:"keywords,omitempty"`
	CreatedAt        string        `json:"created_at,omitempty"`
	UpdatedAt        string        `json:"updated_at,omitempty"`
}

func (s Summary) AnchorName() string {
	if s.Recording == nil || s.Recording.Anchor == nil || s.Recording.Anchor.Name == "" {
		return "-"
	}
	return s.Recording.Anchor.Name
}

type StorageUsage struct {
	VideoSize   int64  `json:"video_size"`
	SummarySize int64  `json:"summary_size"`
	TotalSize   int64  `json:"total_size"`
	Unit        string `json:"unit,omitempty"`
}

type Counts struct {
	AnchorCount    int64 `json:"anchor_count"`
	RecordingCount int64 `json:"recording_count"`
	SummaryCount   int64 `json:"summary_count"`
}

type SystemStatus struct {
	Storage   StorageUsage `json:"storage"`
	Database  Counts       `json:"database"`
	Timestamp string       `json:"timestamp"`
}
