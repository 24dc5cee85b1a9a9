// Package policy implements the secret-complexity rules applied to every
// candidate secret, including the master key itself.
//
// The five rules run in a fixed order and short-circuit on the first
// failure, so error messages are deterministic:
//  1. length >= 12 characters
//  2. at least one lowercase ASCII letter
//  3. at least one uppercase ASCII letter
//  4. at least one ASCII digit
//  5. at least one character from the special set !@#$%^&*()-=_+
package policy

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MinLength is the minimum accepted secret length.
	MinLength = 12

	// SpecialChars is the fixed special-character set rule 5 checks against.
	SpecialChars = "!@#$%^&*()-=_+"
)

// Rule identifies one complexity check.
type Rule int

const (
	RuleLength Rule = iota
	RuleLowercase
	RuleUppercase
	RuleDigit
	RuleSpecial
)

// String returns a short human-readable description of the rule.
func (r Rule) String() string {
	switch r {
	case RuleLength:
		return fmt.Sprintf("at least %d characters", MinLength)
	case RuleLowercase:
		return "at least one lowercase letter"
	case RuleUppercase:
		return "at least one uppercase letter"
	case RuleDigit:
		return "at least one digit"
	case RuleSpecial:
		return fmt.Sprintf("at least one special character (%s)", SpecialChars)
	default:
		return "unknown rule"
	}
}

// Violation reports which rule a candidate failed and which field it was
// validated as ("key", "password"). It implements error.
type Violation struct {
	Rule  Rule
	Label string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s must contain %s", v.Label, v.Rule)
}

// Validate checks candidate against all five rules in order and returns the
// first *Violation encountered, or nil if the candidate satisfies them all.
// There is no partial success: callers must abort the whole operation on a
// non-nil result.
func Validate(candidate, label string) error {
	// Length counts characters, not bytes, so multi-byte input gets no
	// head start on the minimum.
	if utf8.RuneCountInString(candidate) < MinLength {
		return &Violation{Rule: RuleLength, Label: label}
	}
	if !strings.ContainsFunc(candidate, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		return &Violation{Rule: RuleLowercase, Label: label}
	}
	if !strings.ContainsFunc(candidate, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return &Violation{Rule: RuleUppercase, Label: label}
	}
	if !strings.ContainsFunc(candidate, func(r rune) bool { return r >= '0' && r <= '9' }) {
		return &Violation{Rule: RuleDigit, Label: label}
	}
	if !strings.ContainsAny(candidate, SpecialChars) {
		return &Violation{Rule: RuleSpecial, Label: label}
	}
	return nil
}
