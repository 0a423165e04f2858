package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

const (
	maxUsernameLen = 150
	maxEmailLen    = 254
	maxNameLen     = 256
	maxSlugLen     = 50
	maxProfileLen  = 150

	// reservedUsername collides with the /users/me route.
	reservedUsername = "me"
)

func validateUsername(v *ValidationError, username string) {
	switch {
	case username == "":
		v.Add("username", "This field is required.")
	case utf8.RuneCountInString(username) > maxUsernameLen:
		v.Add("username", fmt.Sprintf("Ensure this field has no more than %d characters.", maxUsernameLen))
	case strings.EqualFold(username, reservedUsername):
		v.Add("username", fmt.Sprintf("Username %q is reserved.", username))
	case !usernamePattern.MatchString(username):
		v.Add("username", "Enter a valid username. Letters, digits and @/./+/-/_ only.")
	}
}

func validateEmail(v *ValidationError, email string) {
	switch {
	case email == "":
		v.Add("email", "This field is required.")
	case len(email) > maxEmailLen:
		v.Add("email", fmt.Sprintf("Ensure this field has no more than %d characters.", maxEmailLen))
	case !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@"):
		v.Add("email", "Enter a valid email address.")
	}
}

func validateProfileField(v *ValidationError, field string, value *string) {
	if value != nil && utf8.RuneCountInString(*value) > maxProfileLen {
		v.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", maxProfileLen))
	}
}

func validateName(v *ValidationError, name string) {
	switch {
	case strings.TrimSpace(name) == "":
		v.Add("name", "This field is required.")
	case utf8.RuneCountInString(name) > maxNameLen:
		v.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", maxNameLen))
	}
}

func validateSlug(v *ValidationError, slug string) {
	switch {
	case slug == "":
		v.Add("slug", "This field is required.")
	case len(slug) > maxSlugLen:
		v.Add("slug", fmt.Sprintf("Ensure this field has no more than %d characters.", maxSlugLen))
	case !slugPattern.MatchString(slug):
		v.Add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
}

// validateYear rejects years in the future.
func validateYear(v *ValidationError, year int, now time.Time) {
	if year < 0 || year > now.Year() {
		v.Add("year", fmt.Sprintf("Year must be between 0 and %d.", now.Year()))
	}
}

func validateScore(v *ValidationError, score int) {
	if score < 1 || score > 10 {
		v.Add("score", "Score must be between 1 and 10.")
	}
}

func validateText(v *ValidationError, text string) {
	if strings.TrimSpace(text) == "" {
		v.Add("text", "This field is required.")
	}
}
