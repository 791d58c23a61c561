// Package examples holds the built-in sample emails.
package examples

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownExample is returned for a name that has no sample.
var ErrUnknownExample = errors.New("unknown example")

// Example is a sample email.
type Example struct {
	Name        string
	Description string
	Content     string
}

var all = []Example{
	{
		Name:        "safe",
		Description: "routine internal meeting reminder",
		Content: "Subject: Team Weekly Sync\n\nHi everyone,\n\nJust a reminder for our weekly meeting on Wednesday at 10:00 AM. " +
			"We'll be discussing the Q4 roadmap and budget updates. Please update your status slides before the call.\n\nBest,\nSarah",
	},
	{
		Name:        "phish",
		Description: "urgent account lock with a credential harvesting link",
		Content: "Subject: URGENT: Security Breach Detected!\n\nDear User,\n\nWe detected a suspicious login attempt from Russia. " +
			"Your account has been temporarily locked for your protection. To restore access immediately, please visit our secure portal: " +
			"http://security-verify-bank-login.com and confirm your identity.\n\nFailure to act within 24 hours will result in permanent deletion.",
	},
	{
		Name:        "adv",
		Description: "adversarial lookalike characters (pay-pa1, transacti0n)",
		Content: "Subject: N0tice: Your pay-pa1 account status\n\nDe@r customer, \n\nWe've found irregularities in your last transacti0n. " +
			"P1ease update your info at http://secure-pay-pals.net to prevent 1oss of fund$. \n\nOur system d3tected a r1sk in your b@nk-account.",
	},
}

// All returns every sample in display order.
func All() []Example {
	return slices.Clone(all)
}

// Names returns the sample names.
func Names() []string {
	names := make([]string, len(all))
	for i, e := range all {
		names[i] = e.Name
	}
	return names
}

// Get returns the sample called name.
func Get(name string) (Example, error) {
	for _, e := range all {
		if e.Name == name {
			return e, nil
		}
	}
	return Example{}, fmt.Errorf("%w: %q (choose one of %v)", ErrUnknownExample, name, Names())
}
