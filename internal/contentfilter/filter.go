// Package contentfilter vets user-submitted text before the store accepts it.
// Posts are anonymous, so anything that looks like contact information or a
// link is rejected outright.
package contentfilter

import "regexp"

var (
	urlPattern   = regexp.MustCompile(`(https?://\S+)|(www\.\S+)`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+\d{1,3}[\s-])?(\(\d{3}\)|\d{3})[\s.-]?\d{3}[\s.-]?\d{4}`)
)

// Filter reports whether text is unsafe to publish.
type Filter struct{}

// New creates a content filter.
func New() *Filter {
	return &Filter{}
}

// IsUnsafe returns true when text contains a URL, an email-shaped substring,
// or a phone-number-shaped digit sequence.
func (f *Filter) IsUnsafe(text string) bool {
	if urlPattern.MatchString(text) {
		return true
	}
	if emailPattern.MatchString(text) {
		return true
	}
	return phonePattern.MatchString(text)
}
