// Package forms holds the input forms for write operations and their
// validation rules. A form collects raw submitted values, Validate fills
// the Errors map with field-level messages, and handlers re-render the
// page with those messages when validation fails.
package forms

import (
	"fmt"
	"strings"
)

// PostForm carries the submitted fields for creating or editing a post.
// GroupID is nil when the author picked no group; existence of a selected
// group is checked by the handler against the group repository.
type PostForm struct {
	Text    string
	GroupID *uint
	Errors  map[string]string
}

// Validate checks required-ness and the moderation rule against the given
// blocklist. It returns true when the form is clean.
func (f *PostForm) Validate(blocklist []string) bool {
	f.Errors = map[string]string{}
	validateText(f.Text, blocklist, f.Errors)
	return len(f.Errors) == 0
}

// CommentForm carries the submitted text for a new comment.
type CommentForm struct {
	Text   string
	Errors map[string]string
}

// Validate checks required-ness and the moderation rule. It returns true
// when the form is clean.
func (f *CommentForm) Validate(blocklist []string) bool {
	f.Errors = map[string]string{}
	validateText(f.Text, blocklist, f.Errors)
	return len(f.Errors) == 0
}

func validateText(text string, blocklist []string, errs map[string]string) {
	if strings.TrimSpace(text) == "" {
		errs["text"] = "Text is required"
		return
	}
	if word, found := forbiddenWordIn(text, blocklist); found {
		errs["text"] = fmt.Sprintf("Text may not contain the word %q", word)
	}
}

// forbiddenWordIn reports the first blocklisted substring found in the
// lower-cased text. The match is a plain substring check, not a word
// boundary: the rule is a moderation placeholder, not a profanity engine.
func forbiddenWordIn(text string, blocklist []string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, word := range blocklist {
		if word != "" && strings.Contains(lowered, word) {
			return word, true
		}
	}
	return "", false
}
