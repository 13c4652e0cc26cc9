package models

import (
	"testing"
	"time"

	"github.com/focusflow/focusflow-be/internal/pkg/apperr"
)

func countOpen(intervals []Interval) int {
	n := 0
	for _, iv := range intervals {
		if iv.Open() {
			n++
		}
	}
	return n
}

func TestNewSession(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	s, err := NewSession(1, []string{"code"}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StatusActive {
		t.Errorf("expected active, got %s", s.Status)
	}
	if countOpen(s.Intervals) != 1 || len(s.Intervals) != 1 {
		t.Errorf("expected exactly one open interval, got %+v", s.Intervals)
	}
	if s.Duration != 0 {
		t.Errorf("expected zero duration, got %d", s.Duration)
	}
	if s.Date != "2025-03-10" {
		t.Errorf("expected date 2025-03-10, got %s", s.Date)
	}
}

func TestNewSessionRequiresTags(t *testing.T) {
	_, err := NewSession(1, nil, time.Now())
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestPauseClosesIntervalAndAccumulates(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	s, _ := NewSession(1, []string{"code"}, base)

	if err := s.Pause(ts(base, 30)); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if s.Status != StatusPaused {
		t.Errorf("expected paused, got %s", s.Status)
	}
	if countOpen(s.Intervals) != 0 {
		t.Errorf("expected no open interval after pause")
	}
	if s.Duration != 30000 {
		t.Errorf("expected 30000ms, got %d", s.Duration)
	}
}

func TestPauseInvalidStates(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	s, _ := NewSession(1, []string{"code"}, base)
	_ = s.Pause(ts(base, 10))

	if err := s.Pause(ts(base, 20)); !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("pause on paused: expected InvalidState, got %v", err)
	}

	_ = s.End(ts(base, 20), 5, nil)
	if err := s.Pause(ts(base, 30)); !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("pause on completed: expected InvalidState, got %v", err)
	}
}

func TestResumeInvalidStates(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	s, _ := NewSession(1, []string{"code"}, base)

	if err := s.Resume(ts(base, 10)); !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("resume on active: expected InvalidState, got %v", err)
	}

	_ = s.Pause(ts(base, 10))
	_ = s.End(ts(base, 20), 3, nil)
	if err := s.Resume(ts(base, 30)); !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Errorf("resume on completed: expected InvalidState, got %v", err)
	}
}

func TestEndValidatesRatingAndKeepsState(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	s, _ := NewSession(1, []string{"code"}, base)

	for _, rating := range []int{0, 6, -1} {
		err := s.End(ts(base, 30), rating, nil)
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Fatalf("rating %d: expected ValidationError, got %v", rating, err)
		}
		// 校验失败不能动会话状态
		if s.Status != StatusActive || s.Duration != 0 || countOpen(s.Intervals) != 1 {
			t.Fatalf("session mutated by failed end: %+v", s)
		}
	}
}

func TestEndOnCompleted(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	s, _ := NewSession(1, []string{"code"}, base)
	_ = s.End(ts(base, 30), 4, nil)

	if err := s.End(ts(base, 60), 4, nil); !apperr.IsKind(err, apperr.KindInvalidState) {
		t.Fatalf("expected InvalidState, got %v", err)
	}
}

// start → pause → resume → end：duration 等于两段闭合区间之和，与暂停多久无关
func TestFullRoundTrip(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	s, _ := NewSession(1, []string{"deep-work"}, base)

	if err := s.Pause(ts(base, 120)); err != nil { // 2 分钟
		t.Fatalf("pause: %v", err)
	}
	// 暂停了整整一小时
	if err := s.Resume(ts(base, 3720)); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if s.Status != StatusActive || countOpen(s.Intervals) != 1 {
		t.Fatalf("resume did not reopen an interval: %+v", s)
	}
	// 此时 duration 不含进行中的区间
	if s.Duration != 120000 {
		t.Fatalf("duration includes open interval: %d", s.Duration)
	}

	notes := "went well"
	if err := s.End(ts(base, 3780), 5, &notes); err != nil { // 再计 1 分钟
		t.Fatalf("end: %v", err)
	}
	if s.Status != StatusCompleted || countOpen(s.Intervals) != 0 {
		t.Fatalf("end did not close out session: %+v", s)
	}
	if s.Duration != 180000 {
		t.Fatalf("expected 180000ms (2min+1min), got %d", s.Duration)
	}
	if s.Rating == nil || *s.Rating != 5 || s.Notes == nil || *s.Notes != "went well" {
		t.Fatalf("rating/notes not persisted: %+v", s)
	}
}

// 从 paused 结束：没有开放区间，幂等闭合不追加时长
func TestEndFromPaused(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	s, _ := NewSession(1, []string{"read"}, base)
	_ = s.Pause(ts(base, 45))

	if err := s.End(ts(base, 500), 3, nil); err != nil {
		t.Fatalf("end: %v", err)
	}
	if s.Duration != 45000 {
		t.Fatalf("expected 45000ms, got %d", s.Duration)
	}
}
