package importer

import (
	"fmt"
	"strings"
	"unicode"
)

// Field is a canonical column key, independent of how the source file spells
// its header.
type Field string

const (
	FieldFirstName      Field = "firstName"
	FieldLastName       Field = "lastName"
	FieldDateOfBirth    Field = "dateOfBirth"
	FieldNationality    Field = "nationality"
	FieldPosition       Field = "position"
	FieldHeight         Field = "height"
	FieldWeight         Field = "weight"
	FieldPreferredFoot  Field = "preferredFoot"
	FieldCurrentClub    Field = "currentClub"
	FieldEmail          Field = "email"
	FieldPhone          Field = "phone"
	FieldMarketValue    Field = "marketValue"
	FieldContractExpiry Field = "contractExpiry"
	FieldTags           Field = "tags"
	FieldNotes          Field = "notes"
	FieldSeason         Field = "season"
	FieldMatchesPlayed  Field = "matchesPlayed"
	FieldGoals          Field = "goals"
	FieldAssists        Field = "assists"
	FieldYellowCards    Field = "yellowCards"
	FieldRedCards       Field = "redCards"
	FieldMinutesPlayed  Field = "minutesPlayed"
	FieldAverageRating  Field = "averageRating"
	FieldPassAccuracy   Field = "passAccuracy"
)

// HeaderStyle tells which export convention a header row follows.
type HeaderStyle int

const (
	// StyleMachine headers look like "firstName"; tag lists are pipe separated.
	StyleMachine HeaderStyle = iota
	// StyleHuman headers look like "First Name"; tag lists are comma separated.
	StyleHuman
)

func (s HeaderStyle) String() string {
	if s == StyleHuman {
		return "human"
	}
	return "machine"
}

// TagSeparator returns the delimiter used for tag lists in this style.
func (s HeaderStyle) TagSeparator() string {
	if s == StyleHuman {
		return ","
	}
	return "|"
}

type headerAlias struct {
	field   Field
	label   string
	machine string
	human   []string
}

// headerAliases lists every known header spelling. The first human spelling
// is the one written into generated templates and exports.
var headerAliases = []headerAlias{
	{field: FieldFirstName, label: "First name", machine: "firstName", human: []string{"First Name"}},
	{field: FieldLastName, label: "Last name", machine: "lastName", human: []string{"Last Name", "Surname"}},
	{field: FieldDateOfBirth, label: "Date of birth", machine: "dateOfBirth", human: []string{"Date of Birth", "DOB", "Birth Date"}},
	{field: FieldNationality, label: "Nationality", machine: "nationality", human: []string{"Nationality"}},
	{field: FieldPosition, label: "Position", machine: "position", human: []string{"Position"}},
	{field: FieldHeight, label: "Height", machine: "height", human: []string{"Height (cm)", "Height"}},
	{field: FieldWeight, label: "Weight", machine: "weight", human: []string{"Weight (kg)", "Weight"}},
	{field: FieldPreferredFoot, label: "Preferred foot", machine: "preferredFoot", human: []string{"Preferred Foot", "Foot"}},
	{field: FieldCurrentClub, label: "Current club", machine: "currentClub", human: []string{"Current Club", "Club"}},
	{field: FieldEmail, label: "Email", machine: "email", human: []string{"Email", "Email Address"}},
	{field: FieldPhone, label: "Phone", machine: "phone", human: []string{"Phone", "Phone Number"}},
	{field: FieldMarketValue, label: "Market value", machine: "marketValue", human: []string{"Market Value"}},
	{field: FieldContractExpiry, label: "Contract expiry", machine: "contractExpiry", human: []string{"Contract Expiry", "Contract End"}},
	{field: FieldTags, label: "Tags", machine: "tags", human: []string{"Tags"}},
	{field: FieldNotes, label: "Notes", machine: "notes", human: []string{"Notes", "Scout Notes"}},
	{field: FieldSeason, label: "Season", machine: "season", human: []string{"Season"}},
	{field: FieldMatchesPlayed, label: "Matches played", machine: "matchesPlayed", human: []string{"Matches Played", "Appearances"}},
	{field: FieldGoals, label: "Goals", machine: "goals", human: []string{"Goals"}},
	{field: FieldAssists, label: "Assists", machine: "assists", human: []string{"Assists"}},
	{field: FieldYellowCards, label: "Yellow cards", machine: "yellowCards", human: []string{"Yellow Cards"}},
	{field: FieldRedCards, label: "Red cards", machine: "redCards", human: []string{"Red Cards"}},
	{field: FieldMinutesPlayed, label: "Minutes played", machine: "minutesPlayed", human: []string{"Minutes Played", "Minutes"}},
	{field: FieldAverageRating, label: "Average rating", machine: "averageRating", human: []string{"Average Rating", "Rating"}},
	{field: FieldPassAccuracy, label: "Pass accuracy", machine: "passAccuracy", human: []string{"Pass Accuracy (%)", "Pass Accuracy"}},
}

type headerMatch struct {
	field Field
	style HeaderStyle
}

// headerTable resolves header spellings to canonical fields.
type headerTable struct {
	exact      map[string]headerMatch
	normalized map[string]Field
	labels     map[Field]string
	order      []headerAlias
}

var defaultHeaders = mustHeaderTable(headerAliases)

// newHeaderTable indexes aliases and rejects any spelling claimed by two
// different fields, either exactly or after normalization.
func newHeaderTable(aliases []headerAlias) (*headerTable, error) {
	table := &headerTable{
		exact:      make(map[string]headerMatch),
		normalized: make(map[string]Field),
		labels:     make(map[Field]string, len(aliases)),
		order:      aliases,
	}

	add := func(field Field, spelling string, style HeaderStyle) error {
		if strings.TrimSpace(spelling) == "" {
			return fmt.Errorf("field %s has an empty header alias", field)
		}
		if existing, ok := table.exact[spelling]; ok && existing.field != field {
			return fmt.Errorf("header %q is claimed by %s and %s", spelling, existing.field, field)
		}
		table.exact[spelling] = headerMatch{field: field, style: style}

		key := normalizeHeader(spelling)
		if existing, ok := table.normalized[key]; ok && existing != field {
			return fmt.Errorf("header %q collides with an alias of %s (claimed by %s)", spelling, existing, field)
		}
		table.normalized[key] = field
		return nil
	}

	for _, alias := range aliases {
		if _, dup := table.labels[alias.field]; dup {
			return nil, fmt.Errorf("field %s is listed twice", alias.field)
		}
		table.labels[alias.field] = alias.label

		if err := add(alias.field, alias.machine, StyleMachine); err != nil {
			return nil, err
		}
		for _, spelling := range alias.human {
			if err := add(alias.field, spelling, StyleHuman); err != nil {
				return nil, err
			}
		}
	}

	return table, nil
}

func mustHeaderTable(aliases []headerAlias) *headerTable {
	table, err := newHeaderTable(aliases)
	if err != nil {
		panic(err)
	}
	return table
}

// resolve maps one header cell to its canonical field. Unknown headers come
// back unchanged with ok set to false.
func (t *headerTable) resolve(header string) (Field, HeaderStyle, bool) {
	trimmed := strings.TrimSpace(header)
	if match, ok := t.exact[trimmed]; ok {
		return match.field, match.style, true
	}
	if field, ok := t.normalized[normalizeHeader(trimmed)]; ok {
		return field, guessStyle(trimmed), true
	}
	return Field(trimmed), guessStyle(trimmed), false
}

// NormalizeHeader maps a header spelling to its canonical field. Unknown
// headers are returned unchanged.
func NormalizeHeader(header string) Field {
	field, _, _ := defaultHeaders.resolve(header)
	return field
}

// TemplateHeaders returns the header row generated templates use for style.
func TemplateHeaders(style HeaderStyle) []string {
	headers := make([]string, 0, len(defaultHeaders.order))
	for _, alias := range defaultHeaders.order {
		if style == StyleHuman {
			headers = append(headers, alias.human[0])
		} else {
			headers = append(headers, alias.machine)
		}
	}
	return headers
}

// Fields returns every canonical field in template column order.
func Fields() []Field {
	fields := make([]Field, 0, len(defaultHeaders.order))
	for _, alias := range defaultHeaders.order {
		fields = append(fields, alias.field)
	}
	return fields
}

func fieldLabel(field Field) string {
	if label, ok := defaultHeaders.labels[field]; ok {
		return label
	}
	return string(field)
}

func guessStyle(header string) HeaderStyle {
	if strings.ContainsAny(header, " ()%") {
		return StyleHuman
	}
	for _, r := range header {
		if unicode.IsUpper(r) {
			return StyleHuman
		}
		break
	}
	return StyleMachine
}

func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	replacer := strings.NewReplacer("_", "", "-", "", " ", "", "(", "", ")", "", "%", "")
	return replacer.Replace(trimmed)
}
