// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package progress

import (
	"sort"

	"github.com/tomtom215/upnext/internal/models"
)

// FeedOptions controls filtering, grouping and pagination of a feed.
type FeedOptions struct {
	IncludeHidden    bool
	IncludeCompleted bool

	// MinPriority drops items scoring below it. Nil disables the filter.
	MinPriority *float64

	// MaxDaysSinceLastEpisode drops items idle for longer. Nil disables it.
	MaxDaysSinceLastEpisode *float64

	// Patterns keeps only the listed watching patterns. Empty keeps all.
	Patterns []models.WatchingPattern

	// Grouped returns category groups instead of a paginated flat list.
	Grouped bool

	// Limit of 0 returns every item after Offset.
	Limit  int
	Offset int
}

// Assemble filters, sorts and categorizes items, then either groups them or
// paginates the flat list. The input slice is not modified.
func Assemble(items []models.ContinueWatchingItem, opts FeedOptions) models.ContinueWatchingFeed {
	filtered := Filter(items, opts)
	SortItems(filtered)
	for i := range filtered {
		filtered[i].Category = Categorize(&filtered[i])
	}

	feed := models.ContinueWatchingFeed{Total: len(filtered)}
	if opts.Grouped {
		feed.Groups = Group(filtered)
		return feed
	}

	feed.Items = Paginate(filtered, opts.Offset, opts.Limit)
	feed.Limit = opts.Limit
	feed.Offset = opts.Offset
	return feed
}

// Filter applies visibility, numeric and pattern filters in that order and
// returns a new slice.
func Filter(items []models.ContinueWatchingItem, opts FeedOptions) []models.ContinueWatchingItem {
	var patterns map[models.WatchingPattern]struct{}
	if len(opts.Patterns) > 0 {
		patterns = make(map[models.WatchingPattern]struct{}, len(opts.Patterns))
		for _, p := range opts.Patterns {
			patterns[p] = struct{}{}
		}
	}

	out := make([]models.ContinueWatchingItem, 0, len(items))
	for i := range items {
		item := &items[i]

		if item.IsHidden && !opts.IncludeHidden {
			continue
		}
		if item.IsCompleted && !opts.IncludeCompleted {
			continue
		}

		if opts.MinPriority != nil && item.FinalPriorityScore < *opts.MinPriority {
			continue
		}
		if opts.MaxDaysSinceLastEpisode != nil && item.DaysSinceLastEpisode > *opts.MaxDaysSinceLastEpisode {
			continue
		}

		if patterns != nil {
			if _, ok := patterns[item.WatchingPattern]; !ok {
				continue
			}
		}

		out = append(out, *item)
	}
	return out
}

// SortItems orders items by priority score descending, then by most recent
// LastWatchedAt, then by ShowID so equal items have a stable order.
func SortItems(items []models.ContinueWatchingItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]
		if a.FinalPriorityScore != b.FinalPriorityScore {
			return a.FinalPriorityScore > b.FinalPriorityScore
		}
		if !a.LastWatchedAt.Equal(b.LastWatchedAt) {
			return a.LastWatchedAt.After(b.LastWatchedAt)
		}
		return a.ShowID < b.ShowID
	})
}

// Categorize returns the feed category for an item. Shows with no
// resolvable next episode go to finish_the_series; the remaining rules are
// evaluated in order and the first match wins.
func Categorize(item *models.ContinueWatchingItem) models.FeedCategory {
	switch {
	case item.SeriesFinished:
		return models.CategoryFinishSeries
	case item.UrgencyLevel == models.UrgencyFresh && item.RecommendationStrength == models.StrengthHigh:
		return models.CategoryUpNext
	case item.WatchingPattern == models.PatternBinge:
		return models.CategoryBingeWorthy
	case item.TotalEpisodesWatched <= RecentlyStartedMaxEpisodes && item.DaysSinceLastEpisode <= RecentlyStartedMaxDays:
		return models.CategoryRecentlyStarted
	case item.UrgencyLevel == models.UrgencyOld:
		return models.CategoryTakingBreak
	case item.UrgencyLevel == models.UrgencyStale:
		return models.CategorySeasonalReturns
	default:
		return models.CategoryUpNext
	}
}

// Group splits sorted, categorized items into groups in display order.
// Empty categories are omitted; item order within a group is preserved.
func Group(items []models.ContinueWatchingItem) []models.FeedGroup {
	byCategory := make(map[models.FeedCategory][]models.ContinueWatchingItem)
	for i := range items {
		byCategory[items[i].Category] = append(byCategory[items[i].Category], items[i])
	}

	groups := make([]models.FeedGroup, 0, len(byCategory))
	for _, category := range models.FeedCategoryOrder {
		if group, ok := byCategory[category]; ok {
			groups = append(groups, models.FeedGroup{Category: category, Items: group})
		}
	}
	return groups
}

// Paginate returns items[offset:offset+limit], clamped to the slice.
// A limit of 0 or less means no limit.
func Paginate(items []models.ContinueWatchingItem, offset, limit int) []models.ContinueWatchingItem {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []models.ContinueWatchingItem{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
