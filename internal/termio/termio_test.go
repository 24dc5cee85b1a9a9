package termio

import (
	"strings"
	"testing"
)

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"YES", true},
		{" y \n", true},
		{"", false},
		{"\n", false},
		{"n", false},
		{"no", false},
		{"yeah", false},
		{"ok", false},
		{"y y", false},
	}
	for _, tt := range tests {
		if got := IsAffirmative(tt.answer); got != tt.want {
			t.Errorf("IsAffirmative(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}
}

func TestConfirmDefaultsToNo(t *testing.T) {
	// Empty line must mean no
	ok, err := Confirm("Overwrite?", strings.NewReader("\n"))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if ok {
		t.Error("empty input should not confirm")
	}

	// EOF without any input must mean no as well
	ok, err = Confirm("Overwrite?", strings.NewReader(""))
	if err != nil {
		t.Fatalf("Confirm failed on EOF: %v", err)
	}
	if ok {
		t.Error("EOF should not confirm")
	}
}

func TestConfirmAffirmative(t *testing.T) {
	ok, err := Confirm("Overwrite?", strings.NewReader("yes\n"))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if !ok {
		t.Error("explicit yes should confirm")
	}
}
