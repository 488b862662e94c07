package devserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func iso(t time.Time) string { return t.Format(isoLayout) }

func isoPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return iso(*t)
}

func strPtr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func intPtr(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

// pathID parses an integer route id; anything else is a 404 like the real backend's
// <int:...> routes.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return id, true
}

type paging struct {
	page, perPage int
}

func pagingOf(c *gin.Context) paging {
	p := paging{page: 1, perPage: 10}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.page = v
	}
	if v, err := strconv.Atoi(c.Query("per_page")); err == nil && v > 0 {
		p.perPage = v
	}
	return p
}

// envelope slices items to the requested page and wraps it the way list endpoints do.
func envelope[T any](p paging, all []T, render func(T) gin.H) gin.H {
	total := len(all)
	pages := (total + p.perPage - 1) / p.perPage
	start := (p.page - 1) * p.perPage
	items := make([]gin.H, 0, p.perPage)
	for i := start; i < total && i < start+p.perPage; i++ {
		items = append(items, render(all[i]))
	}
	return gin.H{
		"items":    items,
		"total":    total,
		"page":     p.page,
		"per_page": p.perPage,
		"pages":    pages,
	}
}

func intQuery(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}

func anchorJSON(a anchorRow) gin.H {
	return gin.H{
		"id":          a.ID,
		"name":        a.Name,
		"douyin_id":   a.DouyinID,
		"room_id":     strPtr(a.RoomID),
		"avatar_url":  strPtr(a.AvatarURL),
		"is_followed": a.IsFollowed,
		"created_at":  iso(a.CreatedAt),
		"updated_at":  isoPtr(a.UpdatedAt),
	}
}

func (s *Server) listAnchors(c *gin.Context) {
	var followed *bool
	if v, ok := c.GetQuery("is_followed"); ok {
		b := strings.ToLower(v) == "true"
		followed = &b
	}
	c.JSON(http.StatusOK, envelope(pagingOf(c), s.store.listAnchors(followed), anchorJSON))
}

type anchorBody struct {
	Name       *string `json:"name"`
	DouyinID   *string `json:"douyin_id"`
	RoomID     *string `json:"room_id"`
	AvatarURL  *string `json:"avatar_url"`
	IsFollowed *bool   `json:"is_followed"`
}

func (s *Server) createAnchor(c *gin.Context) {
	var body anchorBody
	if err := c.ShouldBindJSON(&body); err != nil ||
		body.Name == nil || *body.Name == "" || body.DouyinID == nil || *body.DouyinID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	row := anchorRow{
		Name:       *body.Name,
		DouyinID:   *body.DouyinID,
		RoomID:     body.RoomID,
		AvatarURL:  body.AvatarURL,
		IsFollowed: true,
	}
	if body.IsFollowed != nil {
		row.IsFollowed = *body.IsFollowed
	}
	created, ok := s.store.createAnchor(row)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Anchor already exists"})
		return
	}
	out := anchorJSON(created)
	delete(out, "updated_at")
	c.JSON(http.StatusCreated, out)
}

func (s *Server) updateAnchor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	// Decode into raw fields so a present-but-null value is distinguishable from absent.
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		raw = map[string]any{}
	}
	var ch anchorChange
	if v, ok := raw["name"].(string); ok {
		ch.Name = &v
	}
	if v, present := raw["room_id"]; present {
		p := optString(v)
		ch.RoomID = &p
	}
	if v, present := raw["avatar_url"]; present {
		p := optString(v)
		ch.AvatarURL = &p
	}
	if v, ok := raw["is_followed"].(bool); ok {
		ch.IsFollowed = &v
	}
	updated, ok := s.store.updateAnchor(id, ch)
	if !ok {
		notFound(c, "Anchor")
		return
	}
	out := anchorJSON(updated)
	delete(out, "created_at")
	c.JSON(http.StatusOK, out)
}

func optString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func (s *Server) deleteAnchor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !s.store.deleteAnchor(id) {
		notFound(c, "Anchor")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Anchor deleted successfully"})
}

func recordingJSON(r recordingRow) gin.H {
	return gin.H{
		"id":             r.ID,
		"anchor_id":      r.AnchorID,
		"video_path":     r.VideoPath,
		"video_duration": intPtr(r.VideoDuration),
		"start_time":     iso(r.StartTime),
		"end_time":       isoPtr(r.EndTime),
		"status":         r.Status,
		"created_at":     iso(r.CreatedAt),
		"updated_at":     isoPtr(r.UpdatedAt),
	}
}

func (s *Server) listRecordings(c *gin.Context) {
	rows := s.store.listRecordings(intQuery(c, "anchor_id"), c.Query("status"))
	c.JSON(http.StatusOK, envelope(pagingOf(c), rows, recordingJSON))
}

func (s *Server) getRecording(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, a, sm, ok := s.store.recording(id)
	if !ok {
		notFound(c, "Recording")
		return
	}
	out := recordingJSON(r)
	out["anchor"] = nil
	if a != nil {
		out["anchor"] = gin.H{"id": a.ID, "name": a.Name, "douyin_id": a.DouyinID}
	}
	out["summary"] = nil
	if sm != nil {
		out["summary"] = gin.H{
			"id":                sm.ID,
			"content":           sm.Content,
			"core_points":       strPtr(sm.CorePoints),
			"market_analysis":   strPtr(sm.MarketAnalysis),
			"investment_advice": strPtr(sm.InvestmentAdvice),
			"keywords":          strPtr(sm.Keywords),
			"status":            sm.Status,
		}
	}
	c.JSON(http.StatusOK, out)
}

func summaryJSON(v summaryView, detail bool) gin.H {
	out := gin.H{
		"id":                v.ID,
		"recording_id":      v.RecordingID,
		"content":           v.Content,
		"core_points":       strPtr(v.CorePoints),
		"market_analysis":   strPtr(v.MarketAnalysis),
		"investment_advice": strPtr(v.InvestmentAdvice),
		"keywords":          strPtr(v.Keywords),
		"status":            v.Status,
		"created_at":        iso(v.CreatedAt),
		"updated_at":        isoPtr(v.UpdatedAt),
		"recording":         nil,
	}
	if v.recording == nil {
		return out
	}
	rec := gin.H{
		"id":         v.recording.ID,
		"start_time": iso(v.recording.StartTime),
		"anchor":     nil,
	}
	if detail {
		rec["end_time"] = isoPtr(v.recording.EndTime)
	}
	if v.anchor != nil {
		anchor := gin.H{"id": v.anchor.ID, "name": v.anchor.Name}
		if detail {
			anchor["douyin_id"] = v.anchor.DouyinID
		}
		rec["anchor"] = anchor
	}
	out["recording"] = rec
	return out
}

func (s *Server) listSummaries(c *gin.Context) {
	rows := s.store.listSummaries(intQuery(c, "anchor_id"))
	c.JSON(http.StatusOK, envelope(pagingOf(c), rows, func(v summaryView) gin.H { return summaryJSON(v, false) }))
}

func (s *Server) getSummary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, ok := s.store.summary(id)
	if !ok {
		notFound(c, "Summary")
		return
	}
	c.JSON(http.StatusOK, summaryJSON(v, true))
}

func (s *Server) systemStatus(c *gin.Context) {
	n := s.store.counts()
	c.JSON(http.StatusOK, gin.H{
		"storage": gin.H{
			"video_size":   n.videoBytes,
			"summary_size": n.summaryBytes,
			"total_size":   n.videoBytes + n.summaryBytes,
			"unit":         "bytes",
		},
		"database": gin.H{
			"anchor_count":    n.anchors,
			"recording_count": n.recordings,
			"summary_count":   n.summaries,
		},
		"timestamp": iso(s.store.now()),
	})
}
