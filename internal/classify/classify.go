// Package classify detects rows that repeat an identity already seen earlier
// in the same import batch.
package classify

import (
	"strings"

	"golang.org/x/text/cases"
)

// NameKey identifies a player by first and last name. Keys compare equal
// regardless of letter case and surrounding or repeated whitespace.
type NameKey struct {
	value string
}

// EmailKey identifies a player by email address with the same folding rules
// as NameKey.
type EmailKey struct {
	value string
}

func NewNameKey(firstName, lastName string) NameKey {
	return NameKey{value: fold(firstName + " " + lastName)}
}

// NewEmailKey returns the key for email and false when email is blank.
func NewEmailKey(email string) (EmailKey, bool) {
	folded := fold(email)
	if folded == "" {
		return EmailKey{}, false
	}
	return EmailKey{value: folded}, true
}

func (k NameKey) String() string  { return k.value }
func (k EmailKey) String() string { return k.value }

// fold applies full Unicode case folding, so "Straße" and "STRASSE" agree.
// A Caser is stateful, hence one per call.
func fold(value string) string {
	return cases.Fold().String(strings.Join(strings.Fields(value), " "))
}

// Tracker remembers the first row each identity was accepted on. A Tracker
// belongs to exactly one batch and must not be shared between batches.
type Tracker struct {
	names  map[NameKey]int
	emails map[EmailKey]int
}

func NewTracker() *Tracker {
	return &Tracker{
		names:  make(map[NameKey]int),
		emails: make(map[EmailKey]int),
	}
}

// NameSeen returns the row that first claimed key.
func (t *Tracker) NameSeen(key NameKey) (int, bool) {
	row, ok := t.names[key]
	return row, ok
}

// EmailSeen returns the row that first claimed key.
func (t *Tracker) EmailSeen(key EmailKey) (int, bool) {
	row, ok := t.emails[key]
	return row, ok
}

// Remember records row as the first occurrence of name and, when hasEmail is
// true, of email. Earlier claims are never overwritten.
func (t *Tracker) Remember(row int, name NameKey, email EmailKey, hasEmail bool) {
	if _, exists := t.names[name]; !exists {
		t.names[name] = row
	}
	if !hasEmail {
		return
	}
	if _, exists := t.emails[email]; !exists {
		t.emails[email] = row
	}
}
