package traversal

import "github.com/nao1215/wikiwalk/internal/model"

// visitedSet holds the normalized headings seen during one run.
type visitedSet map[string]struct{}

func newVisitedSet() visitedSet {
	return make(visitedSet)
}

// add records the heading and reports whether it was new.
func (v visitedSet) add(heading string) bool {
	key := model.HeadingKey(heading)
	if _, ok := v[key]; ok {
		return false
	}
	v[key] = struct{}{}
	return true
}

func (v visitedSet) contains(heading string) bool {
	_, ok := v[model.HeadingKey(heading)]
	return ok
}
