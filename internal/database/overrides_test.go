// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/upnext/internal/models"
)

func boolPtr(v bool) *bool       { return &v }
func intPtr(v int) *int          { return &v }
func stringPtr(v string) *string { return &v }

func TestGetOverride_DefaultHasNoSideEffect(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	o, err := db.GetOverride(ctx, "u1", "show-1")
	if err != nil {
		t.Fatalf("GetOverride() error = %v", err)
	}
	if o.Exists() {
		t.Error("default override should not exist")
	}
	if o.UserID != "u1" || o.ShowID != "show-1" {
		t.Errorf("default override keys = %s/%s", o.UserID, o.ShowID)
	}
	if o.IsHidden || o.IsCompleted || o.HasNextOverride() || o.PriorityOverride != nil || o.Notes != nil {
		t.Errorf("default override has values set: %+v", o)
	}

	list, err := db.ListOverrides(ctx, "u1")
	if err != nil {
		t.Fatalf("ListOverrides() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("GetOverride() created %d records", len(list))
	}
}

func TestUpsertOverride_PartialUpdates(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	first := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fixedClock(db, first)

	o, err := db.UpsertOverride(ctx, "u1", "show-1", models.OverridePatch{
		IsHidden:    boolPtr(true),
		NextSeason:  intPtr(2),
		NextEpisode: intPtr(3),
		Priority:    intPtr(8),
		Notes:       stringPtr("pick up after the finale"),
	})
	if err != nil {
		t.Fatalf("UpsertOverride() error = %v", err)
	}
	if !o.UpdatedAt.Equal(first) {
		t.Errorf("UpdatedAt = %v, want %v", o.UpdatedAt, first)
	}

	second := first.Add(time.Hour)
	fixedClock(db, second)
	if _, err := db.UpsertOverride(ctx, "u1", "show-1", models.OverridePatch{IsCompleted: boolPtr(true)}); err != nil {
		t.Fatalf("second UpsertOverride() error = %v", err)
	}

	got, err := db.GetOverride(ctx, "u1", "show-1")
	if err != nil {
		t.Fatalf("GetOverride() error = %v", err)
	}
	if !got.IsHidden || !got.IsCompleted {
		t.Errorf("flags = hidden %v completed %v, want both true", got.IsHidden, got.IsCompleted)
	}
	if !got.HasNextOverride() || *got.NextSeasonOverride != 2 || *got.NextEpisodeOverride != 3 {
		t.Errorf("next override not preserved: %+v", got)
	}
	if got.PriorityOverride == nil || *got.PriorityOverride != 8 {
		t.Errorf("PriorityOverride = %v, want 8", got.PriorityOverride)
	}
	if got.Notes == nil || *got.Notes != "pick up after the finale" {
		t.Errorf("Notes = %v", got.Notes)
	}
	if !got.UpdatedAt.Equal(second) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, second)
	}
}

func TestUpsertOverride_ClearFlags(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.UpsertOverride(ctx, "u1", "show-1", models.OverridePatch{
		NextSeason:  intPtr(1),
		NextEpisode: intPtr(7),
		Priority:    intPtr(3),
		Notes:       stringPtr("note"),
	})
	if err != nil {
		t.Fatalf("UpsertOverride() error = %v", err)
	}

	got, err := db.UpsertOverride(ctx, "u1", "show-1", models.OverridePatch{
		ClearNext:     true,
		ClearPriority: true,
		ClearNotes:    true,
	})
	if err != nil {
		t.Fatalf("clearing UpsertOverride() error = %v", err)
	}
	if got.HasNextOverride() || got.PriorityOverride != nil || got.Notes != nil {
		t.Errorf("fields not cleared: %+v", got)
	}

	stored, err := db.GetOverride(ctx, "u1", "show-1")
	if err != nil {
		t.Fatalf("GetOverride() error = %v", err)
	}
	if !stored.Exists() {
		t.Error("cleared override record should still exist")
	}
	if stored.HasNextOverride() || stored.PriorityOverride != nil || stored.Notes != nil {
		t.Errorf("stored fields not cleared: %+v", stored)
	}
}

func TestUpsertOverride_RejectsOutOfRangePriority(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	if _, err := db.UpsertOverride(context.Background(), "u1", "show-1", models.OverridePatch{Priority: intPtr(11)}); err == nil {
		t.Error("priority 11 should violate the CHECK constraint")
	}
}

func TestListOverrides_SurvivesEventRemoval(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	ev := watch("u1", "show-1", 1, 1, baseTime)
	mustAdd(t, db, ev)
	if _, err := db.UpsertOverride(ctx, "u1", "show-1", models.OverridePatch{IsHidden: boolPtr(true)}); err != nil {
		t.Fatalf("UpsertOverride() error = %v", err)
	}
	if _, err := db.UpsertOverride(ctx, "u1", "show-0", models.OverridePatch{IsCompleted: boolPtr(true)}); err != nil {
		t.Fatalf("UpsertOverride() error = %v", err)
	}
	if _, err := db.UpsertOverride(ctx, "u2", "show-1", models.OverridePatch{IsHidden: boolPtr(true)}); err != nil {
		t.Fatalf("UpsertOverride() error = %v", err)
	}
	if err := db.RemoveWatchEvent(ctx, ev); err != nil {
		t.Fatalf("RemoveWatchEvent() error = %v", err)
	}

	list, err := db.ListOverrides(ctx, "u1")
	if err != nil {
		t.Fatalf("ListOverrides() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListOverrides() returned %d records, want 2", len(list))
	}
	if list[0].ShowID != "show-0" || list[1].ShowID != "show-1" {
		t.Errorf("ListOverrides() order = %s, %s", list[0].ShowID, list[1].ShowID)
	}
}
