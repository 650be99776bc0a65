package content

import "sort"

// SortByDate returns a copy of items ordered by date, most recent first.
// Items without a date sort as the Unix epoch. Equal dates keep their input
// order, so sorting a sorted slice is a no-op.
func SortByDate(items []Item) []Item {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sortKey(sorted[i]) > sortKey(sorted[j])
	})
	return sorted
}

func sortKey(item Item) int64 {
	if item.Date.IsZero() {
		return 0
	}
	return item.Date.UnixMilli()
}

// FindBySlug returns a copy of the first item whose slug equals slug, or nil.
func FindBySlug(items []Item, slug string) *Item {
	if slug == "" {
		return nil
	}
	for i := range items {
		if items[i].Slug == slug {
			found := items[i]
			return &found
		}
	}
	return nil
}

// PublishedOnly filters out items with Published set to false.
func PublishedOnly(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Published {
			out = append(out, item)
		}
	}
	return out
}
