package trace

import (
	"strconv"
	"strings"

	"github.com/kolkov/callprof/internal/prof/callsite"
)

// nameKey identifies a full name. Line is deliberately excluded: every
// call site of the same tag in the same function aggregates together.
type nameKey struct {
	file, fn, tag string
}

// siteKey short-circuits resolution for a (PC, tag) pair already seen.
type siteKey struct {
	pc  callsite.PC
	tag string
}

// Names is the full-name cache used during reconstruction.
//
// Without it, formatting cost would scale with the number of events
// rather than with the number of distinct (file, function, tag) triples.
//
// Thread Safety: NOT safe for concurrent use. A Names belongs to one
// reconstruction at a time.
type Names struct {
	resolver callsite.Resolver
	byKey    map[nameKey]string
	bySite   map[siteKey]string
	formats  int
}

// NewNames creates an empty cache resolving call sites through r.
func NewNames(r callsite.Resolver) *Names {
	return &Names{
		resolver: r,
		byKey:    make(map[nameKey]string),
		bySite:   make(map[siteKey]string),
	}
}

// Name returns the full name for a tag recorded at site.
func (n *Names) Name(tag string, site callsite.PC) string {
	sk := siteKey{pc: site, tag: tag}
	if s, ok := n.bySite[sk]; ok {
		return s
	}

	s := n.Lookup(tag, n.resolver.Resolve(site))
	n.bySite[sk] = s

	return s
}

// Lookup returns the full name for a tag at a resolved location, formatting
// it only on the first occurrence of its (file, function, tag) key.
func (n *Names) Lookup(tag string, loc callsite.Location) string {
	key := nameKey{file: loc.File, fn: loc.Func, tag: tag}
	if s, ok := n.byKey[key]; ok {
		return s
	}

	s := formatName(tag, loc)
	n.formats++
	n.byKey[key] = s

	return s
}

// Len returns the number of distinct full names.
func (n *Names) Len() int { return len(n.byKey) }

// Formats returns how many names were formatted. It equals Len; the
// counter exists so callers can verify the cache is effective.
func (n *Names) Formats() int { return n.formats }

// formatName renders "tag (func file:line)", or "func (file:line)" for an
// empty tag.
func formatName(tag string, loc callsite.Location) string {
	var b strings.Builder
	b.Grow(len(tag) + len(loc.Func) + len(loc.File) + 16)

	if tag != "" {
		b.WriteString(tag)
		b.WriteString(" (")
		b.WriteString(loc.Func)
		b.WriteByte(' ')
	} else {
		b.WriteString(loc.Func)
		b.WriteString(" (")
	}
	b.WriteString(loc.File)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(loc.Line))
	b.WriteByte(')')

	return b.String()
}
