package grf

import (
	"regexp"
	"strings"
)

// resolveResult is the outcome of resolving a query against a table.
type resolveResult struct {
	entry     *entry
	ambiguous []*entry // populated only when the resolution is ambiguous
}

// resolve implements the exact-then-normalized-then-ambiguous lookup rule.
func (t *table) resolve(query string) resolveResult {
	if e, ok := t.byExactName[query]; ok {
		return resolveResult{entry: e}
	}

	candidates := t.byNormalizedName[normalizeName(query)]
	switch len(candidates) {
	case 0:
		return resolveResult{}
	case 1:
		return resolveResult{entry: candidates[0]}
	default:
		return resolveResult{ambiguous: candidates}
	}
}

const maxAmbiguousCandidates = 5

// FindCriteria describes a conjunctive filter for Find.
type FindCriteria struct {
	// Extension restricts results to names with this extension (no dot,
	// case-insensitive). Uses the extension index directly when it is the
	// only non-zero criterion.
	Extension string

	// Substring restricts results to normalized names containing this
	// (case-insensitive) substring.
	Substring string

	// Suffix restricts results to normalized names ending with this
	// (case-insensitive) suffix.
	Suffix string

	// Regexp, if non-nil, restricts results to exact names it matches.
	Regexp *regexp.Regexp

	// MaxResults caps the number of returned names; 0 means unlimited.
	MaxResults int
}

// find applies criteria against t, returning matching entry names in index
// order. When only Extension is set, it's served from the extension index
// without a full scan.
func (t *table) find(c FindCriteria) []string {
	extOnly := c.Extension != "" && c.Substring == "" && c.Suffix == "" && c.Regexp == nil

	var candidates []*entry
	if extOnly {
		candidates = t.byExtension[strings.ToLower(c.Extension)]
	} else {
		candidates = t.entries
	}

	var out []string
	normExt := strings.ToLower(c.Extension)
	normSub := strings.ToLower(c.Substring)
	normSuf := strings.ToLower(c.Suffix)

	for _, e := range candidates {
		norm := normalizeName(e.name)

		if !extOnly && c.Extension != "" && extensionOf(norm) != normExt {
			continue
		}
		if normSub != "" && !strings.Contains(norm, normSub) {
			continue
		}
		if normSuf != "" && !strings.HasSuffix(norm, normSuf) {
			continue
		}
		if c.Regexp != nil && !c.Regexp.MatchString(e.name) {
			continue
		}

		out = append(out, e.name)
		if c.MaxResults > 0 && len(out) >= c.MaxResults {
			break
		}
	}

	return out
}
