package devserver

import (
	"time"
)

func ptr[T any](v T) *T { return &v }

// seed fills s with a small, realistic data set.
func seed(s *memStore) {
	now := s.now()

	zhang, _ := s.createAnchor(anchorRow{Name: "张财经", DouyinID: "zhangcaijing", RoomID: ptr("7201934"), IsFollowed: true})
	li, _ := s.createAnchor(anchorRow{Name: "李老师说股", DouyinID: "lilaoshi88", IsFollowed: true})
	_, _ = s.createAnchor(anchorRow{Name: "Wang Macro", DouyinID: "wangmacro", IsFollowed: false})

	done := now.Add(-26 * time.Hour)
	r1 := s.addRecording(recordingRow{
		AnchorID:      zhang.ID,
		VideoPath:     "data/temp_videos/zhangcaijing_1.mp4",
		VideoDuration: ptr(5400),
		StartTime:     done,
		EndTime:       ptr(done.Add(90 * time.Minute)),
		Status:        "completed",
		VideoBytes:    1_610_612_736,
	})
	s.addSummary(summaryRow{
		RecordingID: r1.ID,
		Content: "## 今日要点\n\n半导体板块放量上涨，主播认为短期仍有资金流入。\n\n" +
			"- 关注成交量变化\n- 控制仓位",
		CorePoints:       ptr(`["半导体板块放量", "北向资金净流入", "注意追高风险"]`),
		MarketAnalysis:   ptr("市场情绪偏暖，成交额较前一日放大。"),
		InvestmentAdvice: ptr("分批建仓，止损设在前低。"),
		Keywords:         ptr("半导体,北向资金,成交量"),
		Status:           "completed",
		CreatedAt:        done.Add(95 * time.Minute),
	})

	r2 := s.addRecording(recordingRow{
		AnchorID:   li.ID,
		VideoPath:  "data/temp_videos/lilaoshi88_1.mp4",
		StartTime:  now.Add(-40 * time.Minute),
		Status:     "recording",
		VideoBytes: 734_003_200,
	})
	s.addSummary(summaryRow{
		RecordingID: r2.ID,
		Content:     "",
		Status:      "generating",
		CreatedAt:   now.Add(-5 * time.Minute),
	})

	s.addRecording(recordingRow{
		AnchorID:  li.ID,
		VideoPath: "data/temp_videos/lilaoshi88_0.mp4",
		StartTime: now.Add(-50 * time.Hour),
		EndTime:   ptr(now.Add(-49 * time.Hour)),
		Status:    "failed",
	})
}
