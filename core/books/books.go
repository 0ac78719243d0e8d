// Package books holds the canonical Bible book table and resolves the many
// ways a book name is spelled in historical prose to a single entry.
package books

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/FocuswithJustin/JuniperCitations/core/errors"
)

// Book is one canonical Bible book.
type Book struct {
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	Order    int      `json:"order"`
	Chapters int      `json:"chapters"`
	Abbrevs  []string `json:"abbrevs,omitempty"`
}

// HasChapter reports whether ch is a valid chapter number for the book.
func (b *Book) HasChapter(ch int) bool {
	return ch >= 1 && ch <= b.Chapters
}

// Registry is a read-only lookup table over a set of books. It is safe for
// concurrent use once built.
type Registry struct {
	books     []*Book
	bySlug    map[string]*Book
	keys      map[string]*Book
	spellings []string
}

// NewRegistry builds a registry from the given books. Names and slugs must be
// unique and every book needs at least one chapter.
//
// Lookup keys are registered in two passes: full names, slugs and name
// variants first, then abbreviations. When two books claim the same key the
// first registration wins.
func NewRegistry(list []Book) (*Registry, error) {
	if len(list) == 0 {
		return nil, errors.NewValidation("books", "empty registry")
	}

	r := &Registry{
		books:  make([]*Book, 0, len(list)),
		bySlug: make(map[string]*Book, len(list)),
		keys:   make(map[string]*Book, len(list)*6),
	}
	names := make(map[string]bool, len(list))

	for i := range list {
		b := list[i]
		b.Abbrevs = append([]string(nil), list[i].Abbrevs...)

		if strings.TrimSpace(b.Name) == "" || strings.TrimSpace(b.Slug) == "" {
			return nil, &errors.ValidationError{
				Field:   "name",
				Value:   fmt.Sprintf("order %d", b.Order),
				Message: "book needs a name and a slug",
			}
		}
		if b.Chapters < 1 {
			return nil, &errors.ValidationError{
				Field:   "chapters",
				Value:   b.Name,
				Message: fmt.Sprintf("%s has %d chapters, want at least 1", b.Name, b.Chapters),
			}
		}
		lname := strings.ToLower(b.Name)
		if names[lname] {
			return nil, &errors.ValidationError{Field: "name", Value: b.Name, Message: "duplicate name " + b.Name}
		}
		if _, dup := r.bySlug[b.Slug]; dup {
			return nil, &errors.ValidationError{Field: "slug", Value: b.Slug, Message: "duplicate slug " + b.Slug}
		}
		names[lname] = true

		bp := &b
		r.books = append(r.books, bp)
		r.bySlug[b.Slug] = bp
	}

	sort.SliceStable(r.books, func(i, j int) bool { return r.books[i].Order < r.books[j].Order })

	spelled := make(map[string]bool)
	add := func(key string, b *Book, spelling bool) {
		key = normalizeKey(key)
		if key == "" {
			return
		}
		if _, taken := r.keys[key]; !taken {
			r.keys[key] = b
		}
		if spelling && !spelled[key] {
			spelled[key] = true
			r.spellings = append(r.spellings, key)
		}
	}

	for _, b := range r.books {
		add(b.Name, b, true)
		add(b.Slug, b, false)
		for _, v := range variants[b.Slug] {
			add(v, b, true)
		}
	}
	for _, b := range r.books {
		for _, a := range b.Abbrevs {
			add(a, b, true)
		}
	}

	sort.Slice(r.spellings, func(i, j int) bool {
		a, b := r.spellings[i], r.spellings[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	return r, nil
}

// Default returns a fresh registry over the canonical 82-book table.
func Default() *Registry {
	r, err := NewRegistry(canon)
	if err != nil {
		panic(fmt.Sprintf("books: canonical table is invalid: %v", err))
	}
	return r
}

// Books returns the books in canonical order.
func (r *Registry) Books() []*Book {
	out := make([]*Book, len(r.books))
	copy(out, r.books)
	return out
}

// Len returns the number of books in the registry.
func (r *Registry) Len() int {
	return len(r.books)
}

// Lookup finds a book by an already-normalized key: a lower-cased full name,
// slug, name variant or abbreviation.
func (r *Registry) Lookup(key string) (*Book, bool) {
	b, ok := r.keys[key]
	return b, ok
}

// BySlug finds a book by its slug.
func (r *Registry) BySlug(slug string) (*Book, bool) {
	b, ok := r.bySlug[slug]
	return b, ok
}

// Alternation returns every spelling the plain-text matcher should look for:
// full names, name variants and abbreviations, longest first. Equal-length
// spellings are ordered lexically so the result is deterministic.
func (r *Registry) Alternation() []string {
	out := make([]string, len(r.spellings))
	copy(out, r.spellings)
	return out
}

var (
	saintPrefix = regexp.MustCompile(`^(?:st\.?|saint)\s+`)
	spaceRun    = regexp.MustCompile(`\s+`)
)

// Normalize applies the resolver's normalization to a raw book spelling:
// NFC, lower case, no leading "St"/"Saint", no dots, single spaces, trimmed.
func Normalize(raw string) string {
	s := strings.ToLower(norm.NFC.String(raw))
	s = strings.TrimLeft(s, " \t\r\n")
	s = saintPrefix.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ".", "")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Resolve maps a raw spelling such as "1 Cor.", "St. John" or "1John" to its
// book. A spelling that is not known returns (nil, false).
func (r *Registry) Resolve(raw string) (*Book, bool) {
	key := Normalize(raw)
	if key == "" {
		return nil, false
	}
	if b, ok := r.keys[key]; ok {
		return b, true
	}
	if len(key) > 1 && isDigit(key[0]) && isLetter(key[1]) {
		if b, ok := r.keys[key[:1]+" "+key[1:]]; ok {
			return b, true
		}
	}
	return nil, false
}

func normalizeKey(s string) string {
	s = strings.ToLower(norm.NFC.String(s))
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' }
