// Package normalize provides the deterministic hashtag canonicalizer
// Pipeline order
// 1 strip an optional leading # marker
// 2 UTF-8 repair drop invalid bytes
// 3 Unicode NFD decomposition
// 4 Case folding
// 5 Remove combining marks so accent variants merge
// 6 Collapse internal whitespace runs to a single underscore
// 7 Gate on ^[a-z0-9_]+$ and drop anything else as noise
package normalize

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct{}

// canonical gate applied after folding; tokens failing it are dropped
var canonicalRE = regexp.MustCompile(`^[a-z0-9_]+$`)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFD,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Hashtag returns the canonical form of a raw token and whether it survived
// the noise gate. Accent and case variants of the same tag map to one bucket
func (n *Normalizer) Hashtag(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "#")
	if s == "" {
		return "", false
	}

	// repair UTF-8 then run the pooled fold chain
	s = strings.ToValidUTF8(s, "")
	tr := chainPool.Get().(transform.Transformer)
	folded, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	out := underscoreSpaces(folded)
	if !canonicalRE.MatchString(out) {
		return "", false
	}
	return out, true
}

// Many canonicalizes a batch, silently dropping noise tokens and duplicates
// while preserving first-seen order
func (n *Normalizer) Many(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		tag, ok := n.Hashtag(r)
		if !ok {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// underscoreSpaces converts whitespace runs to a single underscore and trims edges
func underscoreSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte('_')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
