package prompts

import (
	"fmt"
	"strings"

	"github.com/nkhl07/cold-email-assistant/internal/types"
)

// emailFile holds the outreach email profiles.
const emailFile = "email.json"

// Profile names shipped in email.json.
const (
	// ProfileResume is used when the student uploaded a résumé.
	ProfileResume = "resume"
	// ProfileFreeText is used when the student typed a background description.
	ProfileFreeText = "profile"
)

// Profile is a pair of templates controlling tone and structure of the email.
// System is static; User carries the {{.TargetText}}, {{.StudentText}} and {{.Goal}} placeholders.
type Profile struct {
	Name   string
	System string
	User   string
}

// Prompt is the two-segment prompt sent to the generation collaborator.
type Prompt struct {
	System string
	User   string
}

// LoadProfile reads a profile from the embedded email templates.
func LoadProfile(name string) (Profile, error) {
	system, err := Get(emailFile, name+".system")
	if err != nil {
		return Profile{}, fmt.Errorf("load profile %q: %w", name, err)
	}
	user, err := Get(emailFile, name+".user")
	if err != nil {
		return Profile{}, fmt.Errorf("load profile %q: %w", name, err)
	}
	return Profile{Name: name, System: system, User: user}, nil
}

// ProfileNames lists the profiles shipped in email.json, sorted.
// A profile exists when its ".system" key does.
func ProfileNames() ([]string, error) {
	keys, err := List(emailFile)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, key := range keys {
		if name, ok := strings.CutSuffix(key, ".system"); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// Compose builds the prompt for one request. It is pure: the same inputs always give the same prompt.
func Compose(profile Profile, ctx types.AggregatedContext, goal string) Prompt {
	return Prompt{
		System: profile.System,
		User: Format(profile.User, map[string]string{
			"TargetText":  ctx.TargetText,
			"StudentText": ctx.StudentText,
			"Goal":        goal,
		}),
	}
}
