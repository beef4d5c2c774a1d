package tinygit

import (
	"fmt"
	"os"
	"time"

	"github.com/tinygit/tinygit/protocol/object"
)

// defaultIdentityName and defaultIdentityEmail are the literal author/committer
// identity used when TINYGIT_AUTHOR_NAME / TINYGIT_AUTHOR_EMAIL are unset. This
// resolves spec.md §9's open question in favor of configuration, while keeping
// the original fixture's literal as the zero-config fallback.
const (
	defaultIdentityName  = "tinygit"
	defaultIdentityEmail = "tinygit@localhost"
)

// resolveIdentity builds the author/committer identity ("name <email> ts tz")
// for the current moment, reading TINYGIT_AUTHOR_NAME/TINYGIT_AUTHOR_EMAIL and
// falling back to the fixed literal identity when either is unset.
func resolveIdentity(now time.Time) *object.Identity {
	name := os.Getenv("TINYGIT_AUTHOR_NAME")
	if name == "" {
		name = defaultIdentityName
	}
	email := os.Getenv("TINYGIT_AUTHOR_EMAIL")
	if email == "" {
		email = defaultIdentityEmail
	}

	_, offset := now.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	tz := fmt.Sprintf("%s%02d%02d", sign, offset/3600, (offset%3600)/60)

	return &object.Identity{
		Name:      name,
		Email:     email,
		Timestamp: now.Unix(),
		Timezone:  tz,
	}
}
