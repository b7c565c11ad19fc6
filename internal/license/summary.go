package license

import (
	"sort"
	"strings"
)

// Summary groups the licenses of a field that share a Bazel rating.
type Summary struct {
	// Name is the comma-separated, sorted list of license names.
	Name string `json:"name" yaml:"name"`
	// Rating is the Bazel rating shared by the licenses.
	Rating string `json:"rating" yaml:"rating"`
}

// Summarize lists every license mentioned in text grouped by Bazel rating,
// least restrictive first. Text that does not parse is split on "/".
func Summarize(text string) []Summary {
	var leaves []Leaf
	if expr, err := Parse(strings.TrimSpace(text)); err == nil {
		leaves = collectLeaves(expr, nil)
	} else {
		for _, part := range strings.Split(text, "/") {
			if id := strings.TrimSpace(part); id != "" {
				leaves = append(leaves, Leaf{ID: id, Name: id})
			}
		}
	}
	if len(leaves) == 0 {
		return []Summary{{Name: NoLicense, Rating: Restricted.BazelRating()}}
	}

	byRating := make(map[string][]string)
	order := make(map[string]Rating)
	for _, leaf := range leaves {
		r := Rate(leaf.ID)
		rating := r.BazelRating()
		byRating[rating] = appendUnique(byRating[rating], leaf.Name)
		if least, ok := order[rating]; !ok || r < least {
			order[rating] = r
		}
	}

	summaries := make([]Summary, 0, len(byRating))
	for rating, names := range byRating {
		sort.Strings(names)
		summaries = append(summaries, Summary{Name: strings.Join(names, ","), Rating: rating})
	}
	sort.Slice(summaries, func(i, j int) bool { return order[summaries[i].Rating] < order[summaries[j].Rating] })
	return summaries
}

func collectLeaves(expr Expr, out []Leaf) []Leaf {
	switch e := expr.(type) {
	case Leaf:
		return append(out, e)
	case And:
		return collectLeaves(e.Right, collectLeaves(e.Left, out))
	case Or:
		return collectLeaves(e.Right, collectLeaves(e.Left, out))
	}
	return out
}

func appendUnique(values []string, v string) []string {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}
