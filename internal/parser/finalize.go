package parser

import (
	"strings"

	"mediaparse/internal/config"
	"mediaparse/internal/links"
)

// finalize hands URLs no block claimed to the download items. Under
// single_primary a lone item with links (or a collection) takes them all;
// otherwise each item still lacking links receives one, in pool order.
func (p *Parser) finalize(downloads []MediaItem, pool []string, claims *links.ClaimSet) {
	leftovers := claims.Unclaimed(pool)
	if len(leftovers) == 0 || len(downloads) == 0 {
		return
	}

	if p.leftoverPolicy != config.LeftoverDistribute {
		primary := -1
		primaries := 0
		for i, item := range downloads {
			if len(item.AssociatedURLs) > 0 || item.IsCollection {
				primary = i
				primaries++
			}
		}
		if primaries == 1 {
			downloads[primary].AssociatedURLs = append(downloads[primary].AssociatedURLs, claims.ClaimAll(leftovers)...)
			return
		}
	}

	next := 0
	for i := range downloads {
		if next >= len(leftovers) {
			return
		}
		if len(downloads[i].AssociatedURLs) > 0 {
			continue
		}
		if claims.Claim(leftovers[next]) {
			downloads[i].AssociatedURLs = append(downloads[i].AssociatedURLs, leftovers[next])
		}
		next++
	}
}

// mergeWatchList folds watch-list mentions into the interest list. A block
// item whose title contains a watch-list title is replaced in place; titles
// already listed inside a collection are not repeated.
func mergeWatchList(interest, downloads []MediaItem, watch []MediaItem) []MediaItem {
	if len(watch) == 0 {
		return interest
	}

	listed := make(map[string]struct{})
	for _, group := range [][]MediaItem{downloads, interest} {
		for _, item := range group {
			for _, entry := range item.ItemsIncluded {
				listed[strings.ToLower(entry.Title)] = struct{}{}
			}
		}
	}

	pending := make([]MediaItem, 0, len(watch))
	for _, w := range watch {
		if _, dup := listed[strings.ToLower(w.Title)]; dup {
			continue
		}
		pending = append(pending, w)
	}

	placed := make([]bool, len(pending))
	merged := make([]MediaItem, 0, len(interest)+len(pending))
	for _, item := range interest {
		if item.IsCollection {
			merged = append(merged, item)
			continue
		}
		idx := containedWatchTitle(item.Title, pending)
		switch {
		case idx < 0:
			merged = append(merged, item)
		case !placed[idx]:
			merged = append(merged, pending[idx])
			placed[idx] = true
		}
	}
	for i, w := range pending {
		if !placed[i] {
			merged = append(merged, w)
		}
	}
	return merged
}

func containedWatchTitle(title string, watch []MediaItem) int {
	lower := strings.ToLower(title)
	for i, w := range watch {
		if strings.Contains(lower, strings.ToLower(w.Title)) {
			return i
		}
	}
	return -1
}
