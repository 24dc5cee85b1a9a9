package policy

import (
	"errors"
	"testing"
)

func TestValidateAccepts(t *testing.T) {
	valid := []string{
		"Abcdef1!gh23",
		"Zyxwvu9#ab12",
		"longEnough-Pass1",
		"A1b2C3d4E5f6+",
	}
	for _, candidate := range valid {
		if err := Validate(candidate, "password"); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", candidate, err)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		rule      Rule
	}{
		{"too short", "Ab1!x", RuleLength},
		{"no lowercase", "ABCDEF1!GH23", RuleLowercase},
		{"no uppercase", "abcdef1!gh23", RuleUppercase},
		{"no digit", "Abcdefg!ghij", RuleDigit},
		{"no special", "Abcdefg1ghij", RuleSpecial},
		{"empty", "", RuleLength},
		// 8 runes but 12 bytes: the minimum is measured in characters
		{"multi-byte short", "ÀÀÀÀaA1!", RuleLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.candidate, "password")
			if err == nil {
				t.Fatalf("Validate(%q) = nil, want violation", tt.candidate)
			}
			var v *Violation
			if !errors.As(err, &v) {
				t.Fatalf("Validate(%q) returned %T, want *Violation", tt.candidate, err)
			}
			if v.Rule != tt.rule {
				t.Errorf("Rule = %v, want %v", v.Rule, tt.rule)
			}
		})
	}
}

// Length is checked before the character classes, so a candidate failing
// several rules always reports the length violation.
func TestValidateShortCircuitOrder(t *testing.T) {
	err := Validate("abc", "password")
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected *Violation, got %v", err)
	}
	if v.Rule != RuleLength {
		t.Errorf("Rule = %v, want RuleLength", v.Rule)
	}
}

func TestViolationCarriesLabel(t *testing.T) {
	err := Validate("short", "key")
	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected *Violation, got %v", err)
	}
	if v.Label != "key" {
		t.Errorf("Label = %q, want %q", v.Label, "key")
	}
	msg := v.Error()
	if msg == "" || msg[0:3] != "key" {
		t.Errorf("Error() = %q, want message starting with the label", msg)
	}
}
