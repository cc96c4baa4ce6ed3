package classify

import "testing"

func TestNewNameKey_FoldsCaseAndWhitespace(t *testing.T) {
	t.Parallel()

	base := NewNameKey("John", "Smith")
	variants := []struct {
		name  string
		first string
		last  string
	}{
		{name: "upper case", first: "JOHN", last: "SMITH"},
		{name: "mixed case", first: "jOhN", last: "sMiTh"},
		{name: "surrounding spaces", first: "  John ", last: " Smith  "},
		{name: "tabs", first: "\tJohn", last: "Smith\t"},
		{name: "inner whitespace in last name", first: "John", last: "  Smith"},
	}

	for _, tc := range variants {
		if got := NewNameKey(tc.first, tc.last); got != base {
			t.Fatalf("%s: expected %q, got %q", tc.name, base, got)
		}
	}

	if NewNameKey("John", "Smyth") == base {
		t.Fatalf("expected different surnames to produce different keys")
	}
	if NewNameKey("Jo", "hn Smith") != NewNameKey("Jo hn", "Smith") {
		t.Fatalf("expected keys to compare on the joined full name")
	}
}

func TestNewEmailKey(t *testing.T) {
	t.Parallel()

	key, ok := NewEmailKey("  John.Smith@Example.COM ")
	if !ok {
		t.Fatalf("expected key for non-blank email")
	}
	other, _ := NewEmailKey("john.smith@example.com")
	if key != other {
		t.Fatalf("expected case-folded email keys to match: %q vs %q", key, other)
	}

	if _, ok := NewEmailKey("   "); ok {
		t.Fatalf("expected blank email to produce no key")
	}
}

func TestTracker_FirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()
	name := NewNameKey("John", "Smith")
	email, _ := NewEmailKey("john@example.com")

	if _, seen := tracker.NameSeen(name); seen {
		t.Fatalf("expected empty tracker")
	}

	tracker.Remember(1, name, email, true)
	tracker.Remember(4, name, email, true)

	row, seen := tracker.NameSeen(NewNameKey("JOHN", " smith "))
	if !seen || row != 1 {
		t.Fatalf("expected name first seen on row 1, got row=%d seen=%v", row, seen)
	}
	row, seen = tracker.EmailSeen(email)
	if !seen || row != 1 {
		t.Fatalf("expected email first seen on row 1, got row=%d seen=%v", row, seen)
	}
}

func TestTracker_SkipsMissingEmail(t *testing.T) {
	t.Parallel()

	tracker := NewTracker()
	tracker.Remember(1, NewNameKey("A", "B"), EmailKey{}, false)

	if _, seen := tracker.EmailSeen(EmailKey{}); seen {
		t.Fatalf("expected blank email not to be tracked")
	}
}

func TestTracker_BatchesAreIndependent(t *testing.T) {
	t.Parallel()

	first := NewTracker()
	second := NewTracker()
	name := NewNameKey("John", "Smith")

	first.Remember(1, name, EmailKey{}, false)
	if _, seen := second.NameSeen(name); seen {
		t.Fatalf("expected separate trackers to share no state")
	}
}

func TestNewNameKey_FoldsUnicode(t *testing.T) {
	t.Parallel()

	if NewNameKey("Jürgen", "Straße") != NewNameKey("JÜRGEN", "STRASSE") {
		t.Fatalf("expected full case folding to match sharp s with ss")
	}
	if NewNameKey("Ømar", "Ødegaard").String() != "ømar ødegaard" {
		t.Fatalf("unexpected folded key %q", NewNameKey("Ømar", "Ødegaard").String())
	}
}
