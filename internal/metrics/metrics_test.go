// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/test-record", "200"))

	RecordAPIRequest("GET", "/api/v1/test-record", "200", 15*time.Millisecond)
	RecordAPIRequest("GET", "/api/v1/test-record", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/test-record", "200"))
	if after-before != 2 {
		t.Errorf("APIRequestsTotal delta = %v, want 2", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordFeedCache(t *testing.T) {
	hits := testutil.ToFloat64(FeedCacheTotal.WithLabelValues("hit"))
	misses := testutil.ToFloat64(FeedCacheTotal.WithLabelValues("miss"))

	RecordFeedCache(true)
	RecordFeedCache(false)
	RecordFeedCache(false)

	if d := testutil.ToFloat64(FeedCacheTotal.WithLabelValues("hit")) - hits; d != 1 {
		t.Errorf("hit delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(FeedCacheTotal.WithLabelValues("miss")) - misses; d != 2 {
		t.Errorf("miss delta = %v, want 2", d)
	}
}

func TestRecordFeedItems(t *testing.T) {
	before := testutil.ToFloat64(FeedItemsTotal.WithLabelValues("binge_worthy"))
	zeroBefore := testutil.ToFloat64(FeedItemsTotal.WithLabelValues("seasonal_returns"))

	RecordFeedItems(map[string]int{"binge_worthy": 3, "seasonal_returns": 0})

	if d := testutil.ToFloat64(FeedItemsTotal.WithLabelValues("binge_worthy")) - before; d != 3 {
		t.Errorf("binge_worthy delta = %v, want 3", d)
	}
	if d := testutil.ToFloat64(FeedItemsTotal.WithLabelValues("seasonal_returns")) - zeroBefore; d != 0 {
		t.Errorf("seasonal_returns delta = %v, want 0", d)
	}
}

func TestRecordMetadata(t *testing.T) {
	req := testutil.ToFloat64(MetadataRequestsTotal.WithLabelValues("not_found"))
	memHit := testutil.ToFloat64(MetadataCacheTotal.WithLabelValues("memory", "hit"))
	badgerMiss := testutil.ToFloat64(MetadataCacheTotal.WithLabelValues("badger", "miss"))

	RecordMetadataRequest("not_found")
	RecordMetadataCache("memory", true)
	RecordMetadataCache("badger", false)

	if d := testutil.ToFloat64(MetadataRequestsTotal.WithLabelValues("not_found")) - req; d != 1 {
		t.Errorf("not_found delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(MetadataCacheTotal.WithLabelValues("memory", "hit")) - memHit; d != 1 {
		t.Errorf("memory hit delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(MetadataCacheTotal.WithLabelValues("badger", "miss")) - badgerMiss; d != 1 {
		t.Errorf("badger miss delta = %v, want 1", d)
	}
}

func TestRecordEvents(t *testing.T) {
	pub := testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("test.topic"))
	ok := testutil.ToFloat64(EventsProcessedTotal.WithLabelValues("test.topic", "success"))
	failed := testutil.ToFloat64(EventsProcessedTotal.WithLabelValues("test.topic", "error"))

	RecordEventPublished("test.topic")
	RecordEventProcessed("test.topic", nil)
	RecordEventProcessed("test.topic", errors.New("handler failed"))

	if d := testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("test.topic")) - pub; d != 1 {
		t.Errorf("published delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(EventsProcessedTotal.WithLabelValues("test.topic", "success")) - ok; d != 1 {
		t.Errorf("success delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(EventsProcessedTotal.WithLabelValues("test.topic", "error")) - failed; d != 1 {
		t.Errorf("error delta = %v, want 1", d)
	}
}

func TestRecordFeedBuild(t *testing.T) {
	before := testutil.CollectAndCount(FeedBuildDuration)
	RecordFeedBuild(40 * time.Millisecond)
	if got := testutil.CollectAndCount(FeedBuildDuration); got != before {
		t.Errorf("histogram series count changed: %d -> %d", before, got)
	}
}
