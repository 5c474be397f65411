package plant

import "strings"

// DefaultSlug substitutes for input that slugifies to nothing.
const DefaultSlug = "unnamed"

// Slugify derives the canonical identifier for a scientific name: lowercase,
// every maximal run of characters outside [a-z0-9] collapsed to a single
// underscore, no leading or trailing underscore. Empty or all-symbol input
// yields "" and must be rejected or replaced with DefaultSlug by the caller.
//
// Slugify is idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	sep := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('_')
		}
		sep = false
		b.WriteRune(r)
	}
	return b.String()
}
