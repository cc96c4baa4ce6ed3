package importer

import "scoutdesk/player"

// CanonicalRecord is a coerced row. Unparsed keeps numeric cells that could
// not be converted so the validator can report them.
type CanonicalRecord struct {
	player.Record
	Unparsed map[Field]string
}

var statsFields = []Field{
	FieldSeason,
	FieldMatchesPlayed,
	FieldGoals,
	FieldAssists,
	FieldYellowCards,
	FieldRedCards,
	FieldMinutesPlayed,
	FieldAverageRating,
	FieldPassAccuracy,
}

// Coerce converts a row's strings into typed values. Only market values fail
// loudly; other bad numbers are deferred to validation.
func Coerce(record Record, style HeaderStyle) (CanonicalRecord, []*FieldCoercionError) {
	out := CanonicalRecord{
		Record: player.Record{
			FirstName:      record.Get(FieldFirstName),
			LastName:       record.Get(FieldLastName),
			DateOfBirth:    record.Get(FieldDateOfBirth),
			Nationality:    record.Get(FieldNationality),
			Position:       record.Get(FieldPosition),
			PreferredFoot:  record.Get(FieldPreferredFoot),
			CurrentClub:    record.Get(FieldCurrentClub),
			Email:          record.Get(FieldEmail),
			Phone:          record.Get(FieldPhone),
			ContractExpiry: record.Get(FieldContractExpiry),
			Tags:           splitTags(record.Get(FieldTags), style.TagSeparator()),
			Notes:          record.Get(FieldNotes),
		},
		Unparsed: make(map[Field]string),
	}

	integer := func(field Field) *int {
		raw := record.Get(field)
		value, ok := parseInteger(raw)
		if !ok {
			out.Unparsed[field] = raw
		}
		return value
	}

	out.Height = integer(FieldHeight)
	out.Weight = integer(FieldWeight)

	var errs []*FieldCoercionError
	if raw := record.Get(FieldMarketValue); raw != "" {
		money, ok := parseMarketValue(raw)
		if ok {
			out.MarketValue = &money
		} else {
			errs = append(errs, &FieldCoercionError{Row: record.RowNumber, Field: FieldMarketValue, Value: raw})
		}
	}

	if hasStats(record) {
		stats := &player.SeasonStats{
			Season:        record.Get(FieldSeason),
			MatchesPlayed: integer(FieldMatchesPlayed),
			Goals:         integer(FieldGoals),
			Assists:       integer(FieldAssists),
			YellowCards:   integer(FieldYellowCards),
			RedCards:      integer(FieldRedCards),
			MinutesPlayed: integer(FieldMinutesPlayed),
		}
		for _, field := range []Field{FieldAverageRating, FieldPassAccuracy} {
			raw := record.Get(field)
			value, ok := parseDecimal(raw)
			if !ok {
				out.Unparsed[field] = raw
			}
			if field == FieldAverageRating {
				stats.AverageRating = value
			} else {
				stats.PassAccuracy = value
			}
		}
		out.Stats = stats
	}

	return out, errs
}

func hasStats(record Record) bool {
	for _, field := range statsFields {
		if record.Get(field) != "" {
			return true
		}
	}
	return false
}
