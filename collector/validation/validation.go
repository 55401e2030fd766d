package validation

import (
	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/model"
	"github.com/cryptopulse/cryptopulse/utils"
)

var validMethods = []string{model.MethodHTTP, model.MethodBrowser}

// ValidatePost checks the invariants every adapter must uphold before a post
// may enter the store. A failing post is skipped, not fatal to the batch.
func ValidatePost(p *model.Post) error {
	if p.Source == "" {
		return errors.New("post missing source")
	}
	if !utils.ContainsString(validMethods, p.Method) {
		return errors.Errorf("post has invalid method %q", p.Method)
	}
	if p.Title == "" && p.Text == "" {
		return errors.New("post has neither title nor text")
	}
	return nil
}
