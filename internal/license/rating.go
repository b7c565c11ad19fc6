package license

import (
	"fmt"
	"strings"
)

// Rating is a license restrictiveness level, ordered from least to most
// restrictive.
type Rating int

const (
	Unencumbered Rating = iota
	Notice
	Reciprocal
	ByExceptionOnly
	Restricted
	Disallowed
)

var ratingNames = map[Rating]string{
	Unencumbered:    "unencumbered",
	Notice:          "notice",
	Reciprocal:      "reciprocal",
	ByExceptionOnly: "by_exception_only",
	Restricted:      "restricted",
	Disallowed:      "disallowed",
}

func (r Rating) String() string {
	if name, ok := ratingNames[r]; ok {
		return name
	}
	return "unknown"
}

// BazelRating maps the rating onto the vocabulary of Bazel's licenses() rule.
func (r Rating) BazelRating() string {
	switch r {
	case Unencumbered:
		return "unencumbered"
	case Notice:
		return "notice"
	case Reciprocal:
		return "reciprocal"
	default:
		return "restricted"
	}
}

// MarshalText renders the rating by name.
func (r Rating) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a rating name.
func (r *Rating) UnmarshalText(text []byte) error {
	for rating, name := range ratingNames {
		if name == string(text) {
			*r = rating
			return nil
		}
	}
	return fmt.Errorf("unknown license rating %q", text)
}

// known rates SPDX identifiers. Identifiers not listed are Restricted.
var known = map[string]Rating{
	"CC0-1.0":   Unencumbered,
	"Unlicense": Unencumbered,

	"AFL-2.1":          Notice,
	"Apache-1.0":       Notice,
	"Apache-1.1":       Notice,
	"Apache-2.0":       Notice,
	"Artistic-1.0":     Notice,
	"Artistic-2.0":     Notice,
	"BSD-1-Clause":     Notice,
	"BSD-3-Clause":     Notice,
	"libtiff":          Notice,
	"BSL-1.0":          Notice,
	"CC-BY-3.0":        Notice,
	"CC-BY-4.0":        Notice,
	"ISC":              Notice,
	"LPL-1.02":         Notice,
	"Libpng":           Notice,
	"MIT":              Notice,
	"MS-PL":            Notice,
	"NCSA":             Notice,
	"OpenSSL":          Notice,
	"PHP-3.0":          Notice,
	"PHP-3.01":         Notice,
	"Python-2.0":       Notice,
	"TCP-wrappers":     Notice,
	"Unicode-DFS-2015": Notice,
	"Unicode-DFS-2016": Notice,
	"W3C":              Notice,
	"W3C-19980720":     Notice,
	"W3C-20150513":     Notice,
	"X11":              Notice,
	"Xnet":             Notice,
	"ZPL-2.0":          Notice,
	"ZPL-2.1":          Notice,
	"Zend-2.0":         Notice,
	"Zlib":             Notice,

	"APSL-2.0": Reciprocal,
	"CDDL-1.0": Reciprocal,
	"CDDL-1.1": Reciprocal,
	"CPL-1.0":  Reciprocal,
	"EPL-1.0":  Reciprocal,
	"IPL-1.0":  Reciprocal,
	"MPL-1.0":  Reciprocal,
	"MPL-1.1":  Reciprocal,
	"MPL-2.0":  Reciprocal,
	"Ruby":     Reciprocal,

	"OFL-1.0": ByExceptionOnly,
	"OFL-1.1": ByExceptionOnly,

	"AGPL-1.0":          Disallowed,
	"AGPL-3.0":          Disallowed,
	"AGPL-3.0-only":     Disallowed,
	"AGPL-3.0-or-later": Disallowed,
	"Beerware":          Disallowed,
	"EUPL-1.0":          Disallowed,
	"EUPL-1.1":          Disallowed,
	"EUPL-1.2":          Disallowed,
	"SISSL":             Disallowed,
	"SISSL-1.2":         Disallowed,
	"WTFPL":             Disallowed,
}

func init() {
	for _, family := range []string{"CC-BY-NC", "CC-BY-NC-ND", "CC-BY-NC-SA"} {
		for _, v := range []string{"1.0", "2.0", "2.5", "3.0", "4.0"} {
			known[family+"-"+v] = Disallowed
		}
	}
}

// Rate returns the rating of a single license identifier. A trailing "+"
// is ignored.
func Rate(id string) Rating {
	base := strings.TrimSuffix(id, "+")
	if base == "" {
		return Restricted
	}
	if r, ok := known[base]; ok {
		return r
	}
	return Restricted
}
