package player

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is the typed canonical form of one imported spreadsheet row.
type Record struct {
	FirstName      string
	LastName       string
	DateOfBirth    string
	Nationality    string
	Position       string
	Height         *int
	Weight         *int
	PreferredFoot  string
	CurrentClub    string
	Email          string
	Phone          string
	MarketValue    *Money
	ContractExpiry string
	Tags           []string
	Notes          string
	Stats          *SeasonStats
}

// FullName joins the trimmed first and last name with a single space.
func (r Record) FullName() string {
	return strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName)
}

// Money is a market value magnitude together with the text shown to users.
type Money struct {
	Amount  decimal.Decimal
	Display string
}

// SeasonStats is the optional statistics sub-record embedded in a row.
type SeasonStats struct {
	Season        string
	MatchesPlayed *int
	Goals         *int
	Assists       *int
	YellowCards   *int
	RedCards      *int
	MinutesPlayed *int
	AverageRating *decimal.Decimal
	PassAccuracy  *decimal.Decimal
}

// Player is a persisted player record.
type Player struct {
	ID         int64
	Record     Record
	SourceFile string
	BatchID    string
	CreatedAt  time.Time
}

// Stats is a persisted season statistics record.
type Stats struct {
	ID       int64
	PlayerID int64
	SeasonStats
}
