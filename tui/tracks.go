package tui

import (
	"sort"
	"strings"

	"github.com/amvnote/amvnote/media"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// matchTrack picks the track whose language or title best matches query.
// An exact language match wins over fuzzy ones.
func matchTrack(tracks []media.Track, query string) mo.Option[int64] {
	query = strings.TrimSpace(query)
	if query == "" || len(tracks) == 0 {
		return mo.None[int64]()
	}

	if exact, ok := lo.Find(tracks, func(t media.Track) bool {
		return strings.EqualFold(t.Lang.OrElse(""), query)
	}); ok {
		return mo.Some(exact.ID)
	}

	labels := lo.Map(tracks, func(t media.Track, _ int) string {
		return t.Lang.OrElse("") + " " + t.Title.OrElse("")
	})
	ranks := fuzzy.RankFindNormalizedFold(query, labels)
	if len(ranks) == 0 {
		return mo.None[int64]()
	}

	sort.Stable(ranks)
	return mo.Some(tracks[ranks[0].OriginalIndex].ID)
}
