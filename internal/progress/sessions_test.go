// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package progress

import (
	"testing"
	"time"

	"github.com/tomtom215/upnext/internal/models"
)

const (
	testGap      = 24 * time.Hour
	testLookback = 7 * 24 * time.Hour
)

func TestDetectSessions_Threshold(t *testing.T) {
	t.Parallel()

	base := daysAgo(2)
	three := []models.WatchEvent{
		ev(1, 1, base),
		ev(1, 2, base.Add(time.Hour)),
		ev(1, 3, base.Add(2*time.Hour)),
	}

	sessions := DetectSessions(three, testNow, testGap, testLookback)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].EpisodesInSession != 3 {
		t.Errorf("EpisodesInSession = %d, want 3", sessions[0].EpisodesInSession)
	}
	if !sessions[0].SessionStart.Equal(base) || !sessions[0].SessionEnd.Equal(base.Add(2*time.Hour)) {
		t.Errorf("session bounds = %v..%v", sessions[0].SessionStart, sessions[0].SessionEnd)
	}

	if got := DetectSessions(three[:2], testNow, testGap, testLookback); len(got) != 0 {
		t.Errorf("two events produced %d sessions, want 0", len(got))
	}
}

func TestDetectSessions_ChainGap(t *testing.T) {
	t.Parallel()

	// Each step is under 24h but the chain spans 40h: still one session.
	base := daysAgo(20)
	events := []models.WatchEvent{
		ev(1, 1, base),
		ev(1, 2, base.Add(20*time.Hour)),
		ev(1, 3, base.Add(40*time.Hour)),
	}

	sessions := DetectSessions(events, testNow, testGap, testLookback)
	if len(sessions) != 1 || sessions[0].EpisodesInSession != 3 {
		t.Fatalf("sessions = %+v, want one session of 3", sessions)
	}
	if sessions[0].IsActive {
		t.Error("a session 20 days old should not be active")
	}
}

func TestDetectSessions_SplitsOnLargeGap(t *testing.T) {
	t.Parallel()

	first := daysAgo(10)
	second := daysAgo(1)
	events := []models.WatchEvent{
		ev(1, 9, first),
		ev(1, 10, first.Add(time.Hour)),
		ev(2, 1, first.Add(2*time.Hour)),
		ev(2, 2, first.Add(49*time.Hour)), // lone event between sessions
		ev(2, 3, second),
		ev(2, 4, second.Add(time.Hour)),
		ev(2, 5, second.Add(2*time.Hour)),
		ev(2, 6, second.Add(3*time.Hour)),
	}

	sessions := DetectSessions(events, testNow, testGap, testLookback)
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}

	if sessions[0].EpisodesInSession != 3 || sessions[0].IsActive {
		t.Errorf("first session = %+v", sessions[0])
	}
	if got := sessions[0].SeasonNumbersTouched; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("first session seasons = %v, want [1 2]", got)
	}
	if sessions[1].EpisodesInSession != 4 || !sessions[1].IsActive {
		t.Errorf("second session = %+v", sessions[1])
	}
}

func TestDetectSessions_UnsortedInput(t *testing.T) {
	t.Parallel()

	base := daysAgo(1)
	events := []models.WatchEvent{
		ev(1, 3, base.Add(2*time.Hour)),
		ev(1, 1, base),
		ev(1, 2, base.Add(time.Hour)),
	}

	sessions := DetectSessions(events, testNow, testGap, testLookback)
	if len(sessions) != 1 || !sessions[0].SessionStart.Equal(base) {
		t.Fatalf("sessions = %+v", sessions)
	}
	if events[0].EpisodeNumber != 3 {
		t.Error("input slice should not be reordered")
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	sessions := []models.BingeSession{
		{ShowID: "a", SessionEnd: daysAgo(10), EpisodesInSession: 3},
		{ShowID: "b", SessionEnd: daysAgo(1), EpisodesInSession: 6, IsActive: true},
		{ShowID: "a", SessionEnd: daysAgo(5), EpisodesInSession: 3, IsActive: true},
	}

	s := Summarize(sessions)

	if s.TotalSessions != 3 || s.ActiveSessions != 2 || s.TotalEpisodes != 12 || s.LongestSession != 6 {
		t.Errorf("summary = %+v", s)
	}
	if s.AvgEpisodes != 4 {
		t.Errorf("AvgEpisodes = %v, want 4", s.AvgEpisodes)
	}
	if s.Sessions[0].ShowID != "b" || !s.Sessions[2].SessionEnd.Equal(daysAgo(10)) {
		t.Errorf("sessions not ordered most recent first: %+v", s.Sessions)
	}

	empty := Summarize(nil)
	if empty.Sessions == nil || empty.TotalSessions != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}
