package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"scoutdesk/player"
	"scoutdesk/telemetry"
)

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrDuplicateEmail = errors.New("a player with this email already exists")
)

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection serialises writers from concurrent imports.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS players (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	date_of_birth TEXT NOT NULL,
	nationality TEXT NOT NULL,
	position TEXT NOT NULL,
	height INTEGER,
	weight INTEGER,
	preferred_foot TEXT NOT NULL DEFAULT '',
	current_club TEXT NOT NULL DEFAULT '',
	email TEXT COLLATE NOCASE UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	market_value TEXT,
	market_value_display TEXT NOT NULL DEFAULT '',
	contract_expiry TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	notes TEXT NOT NULL DEFAULT '',
	source_file TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS player_stats (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id INTEGER NOT NULL REFERENCES players(id),
	season TEXT NOT NULL DEFAULT '',
	matches_played INTEGER,
	goals INTEGER,
	assists INTEGER,
	yellow_cards INTEGER,
	red_cards INTEGER,
	minutes_played INTEGER,
	average_rating TEXT,
	pass_accuracy TEXT
);

CREATE INDEX IF NOT EXISTS idx_player_stats_player ON player_stats(player_id);

CREATE TABLE IF NOT EXISTS import_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	batch_id TEXT NOT NULL,
	file_type TEXT NOT NULL,
	file_name TEXT NOT NULL,
	total_rows INTEGER NOT NULL,
	successful INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	duplicates INTEGER NOT NULL,
	stats_failures INTEGER NOT NULL,
	recorded_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	// batch_id arrived after the first release; older databases get it added.
	if err := s.ensureColumn("players", "batch_id", `TEXT NOT NULL DEFAULT ''`); err != nil {
		return err
	}

	return nil
}

func (s *SQLiteStore) ensureColumn(table, column, definition string) error {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s);`, table))
	if err != nil {
		return fmt.Errorf("query table info: %w", err)
	}
	defer rows.Close()

	hasColumn := false
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scan table info: %w", err)
		}
		if strings.EqualFold(name, column) {
			hasColumn = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate table info: %w", err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("close table info: %w", err)
	}

	if hasColumn {
		return nil
	}

	if _, err := s.db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s;`, table, column, definition)); err != nil {
		return fmt.Errorf("add %s column: %w", column, err)
	}

	return nil
}

// CreatePlayer inserts one player. Emails are unique across all imports,
// ignoring case; a clash returns ErrDuplicateEmail.
func (s *SQLiteStore) CreatePlayer(ctx context.Context, p player.Player) (player.Player, error) {
	const insertStmt = `
INSERT INTO players (
	first_name,
	last_name,
	date_of_birth,
	nationality,
	position,
	height,
	weight,
	preferred_foot,
	current_club,
	email,
	phone,
	market_value,
	market_value_display,
	contract_expiry,
	tags,
	notes,
	source_file,
	batch_id,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	record := p.Record
	tags, err := encodeTags(record.Tags)
	if err != nil {
		return player.Player{}, err
	}

	var (
		marketValue decimal.NullDecimal
		display     string
	)
	if record.MarketValue != nil {
		marketValue = decimal.NewNullDecimal(record.MarketValue.Amount)
		display = record.MarketValue.Display
	}

	createdAt := s.now().UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx, insertStmt,
		record.FirstName,
		record.LastName,
		record.DateOfBirth,
		record.Nationality,
		record.Position,
		nullInt(record.Height),
		nullInt(record.Weight),
		record.PreferredFoot,
		record.CurrentClub,
		nullString(record.Email),
		record.Phone,
		marketValue,
		display,
		record.ContractExpiry,
		tags,
		record.Notes,
		p.SourceFile,
		p.BatchID,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return player.Player{}, fmt.Errorf("%w: %s", ErrDuplicateEmail, record.Email)
		}
		return player.Player{}, fmt.Errorf("insert player: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return player.Player{}, fmt.Errorf("read inserted player id: %w", err)
	}

	p.ID = id
	p.CreatedAt = createdAt
	p.Record.Stats = nil
	return p, nil
}

// CreatePlayerStats stores one season of statistics for an existing player.
func (s *SQLiteStore) CreatePlayerStats(ctx context.Context, playerID int64, stats player.SeasonStats) (player.Stats, error) {
	if playerID <= 0 {
		return player.Stats{}, fmt.Errorf("player id must be > 0")
	}

	const insertStmt = `
INSERT INTO player_stats (
	player_id,
	season,
	matches_played,
	goals,
	assists,
	yellow_cards,
	red_cards,
	minutes_played,
	average_rating,
	pass_accuracy
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	res, err := s.db.ExecContext(ctx, insertStmt,
		playerID,
		stats.Season,
		nullInt(stats.MatchesPlayed),
		nullInt(stats.Goals),
		nullInt(stats.Assists),
		nullInt(stats.YellowCards),
		nullInt(stats.RedCards),
		nullInt(stats.MinutesPlayed),
		nullDecimal(stats.AverageRating),
		nullDecimal(stats.PassAccuracy),
	)
	if err != nil {
		return player.Stats{}, fmt.Errorf("insert player stats: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return player.Stats{}, fmt.Errorf("read inserted stats id: %w", err)
	}

	return player.Stats{ID: id, PlayerID: playerID, SeasonStats: stats}, nil
}

const selectPlayerColumns = `
SELECT
	id,
	first_name,
	last_name,
	date_of_birth,
	nationality,
	position,
	height,
	weight,
	preferred_foot,
	current_club,
	email,
	phone,
	market_value,
	market_value_display,
	contract_expiry,
	tags,
	notes,
	source_file,
	batch_id,
	created_at
FROM players`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (player.Player, error) {
	var (
		p           player.Player
		height      sql.NullInt64
		weight      sql.NullInt64
		email       sql.NullString
		marketValue decimal.NullDecimal
		display     string
		tagsRaw     string
		createdRaw  string
	)

	if err := row.Scan(
		&p.ID,
		&p.Record.FirstName,
		&p.Record.LastName,
		&p.Record.DateOfBirth,
		&p.Record.Nationality,
		&p.Record.Position,
		&height,
		&weight,
		&p.Record.PreferredFoot,
		&p.Record.CurrentClub,
		&email,
		&p.Record.Phone,
		&marketValue,
		&display,
		&p.Record.ContractExpiry,
		&tagsRaw,
		&p.Record.Notes,
		&p.SourceFile,
		&p.BatchID,
		&createdRaw,
	); err != nil {
		return player.Player{}, err
	}

	p.Record.Height = intFromNull(height)
	p.Record.Weight = intFromNull(weight)
	p.Record.Email = email.String
	if marketValue.Valid {
		p.Record.MarketValue = &player.Money{Amount: marketValue.Decimal, Display: display}
	}

	tags, err := decodeTags(tagsRaw)
	if err != nil {
		return player.Player{}, err
	}
	p.Record.Tags = tags

	p.CreatedAt, err = time.Parse(time.RFC3339, createdRaw)
	if err != nil {
		return player.Player{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}

	return p, nil
}

// ListPlayers returns every stored player in insertion order with the first
// stored season of statistics attached.
func (s *SQLiteStore) ListPlayers(ctx context.Context) ([]player.Player, error) {
	rows, err := s.db.QueryContext(ctx, selectPlayerColumns+` ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	players := make([]player.Player, 0, 64)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("close players: %w", err)
	}

	stats, err := s.firstStatsByPlayer(ctx)
	if err != nil {
		return nil, err
	}
	for i := range players {
		if season, ok := stats[players[i].ID]; ok {
			players[i].Record.Stats = &season
		}
	}

	return players, nil
}

// GetPlayerByID returns one player or ErrPlayerNotFound.
func (s *SQLiteStore) GetPlayerByID(ctx context.Context, id int64) (player.Player, error) {
	if id <= 0 {
		return player.Player{}, fmt.Errorf("player id must be > 0")
	}

	p, err := scanPlayer(s.db.QueryRowContext(ctx, selectPlayerColumns+` WHERE id = ?;`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return player.Player{}, ErrPlayerNotFound
		}
		return player.Player{}, fmt.Errorf("query player %d: %w", id, err)
	}

	stats, err := s.ListPlayerStats(ctx, id)
	if err != nil {
		return player.Player{}, err
	}
	if len(stats) > 0 {
		p.Record.Stats = &stats[0].SeasonStats
	}

	return p, nil
}

// ListPlayerStats returns every stored season for one player.
func (s *SQLiteStore) ListPlayerStats(ctx context.Context, playerID int64) ([]player.Stats, error) {
	rows, err := s.db.QueryContext(ctx, selectStatsColumns+` WHERE player_id = ? ORDER BY id;`, playerID)
	if err != nil {
		return nil, fmt.Errorf("query player stats: %w", err)
	}
	defer rows.Close()

	var stats []player.Stats
	for rows.Next() {
		entry, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player stats: %w", err)
		}
		stats = append(stats, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player stats: %w", err)
	}
	return stats, nil
}

const selectStatsColumns = `
SELECT
	id,
	player_id,
	season,
	matches_played,
	goals,
	assists,
	yellow_cards,
	red_cards,
	minutes_played,
	average_rating,
	pass_accuracy
FROM player_stats`

func scanStats(row rowScanner) (player.Stats, error) {
	var (
		entry                                                         player.Stats
		matches, goals, assists, yellowCards, redCards, minutesPlayed sql.NullInt64
		averageRating, passAccuracy                                   decimal.NullDecimal
	)
	if err := row.Scan(
		&entry.ID,
		&entry.PlayerID,
		&entry.Season,
		&matches,
		&goals,
		&assists,
		&yellowCards,
		&redCards,
		&minutesPlayed,
		&averageRating,
		&passAccuracy,
	); err != nil {
		return player.Stats{}, err
	}

	entry.MatchesPlayed = intFromNull(matches)
	entry.Goals = intFromNull(goals)
	entry.Assists = intFromNull(assists)
	entry.YellowCards = intFromNull(yellowCards)
	entry.RedCards = intFromNull(redCards)
	entry.MinutesPlayed = intFromNull(minutesPlayed)
	entry.AverageRating = decimalFromNull(averageRating)
	entry.PassAccuracy = decimalFromNull(passAccuracy)
	return entry, nil
}

func (s *SQLiteStore) firstStatsByPlayer(ctx context.Context) (map[int64]player.SeasonStats, error) {
	rows, err := s.db.QueryContext(ctx, selectStatsColumns+` ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("query player stats: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]player.SeasonStats)
	for rows.Next() {
		entry, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player stats: %w", err)
		}
		if _, seen := out[entry.PlayerID]; !seen {
			out[entry.PlayerID] = entry.SeasonStats
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player stats: %w", err)
	}
	return out, nil
}

// DeletePlayer removes one player together with its statistics.
func (s *SQLiteStore) DeletePlayer(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("player id must be > 0")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM player_stats WHERE player_id = ?;`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete stats of player %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM players WHERE id = ?;`, id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete player %d: %w", id, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("read deleted row count: %w", err)
	}
	if rowsAffected == 0 {
		_ = tx.Rollback()
		return ErrPlayerNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete transaction: %w", err)
	}
	return nil
}

// DeleteAllPlayers empties the player and statistics tables and returns the
// number of players removed. The usage log is kept.
func (s *SQLiteStore) DeleteAllPlayers(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM player_stats;`); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete player stats: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM players;`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete players: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete transaction: %w", err)
	}
	return rows, nil
}

// ImportEvent is one row of the usage log.
type ImportEvent struct {
	ID         int64
	RecordedAt time.Time
	telemetry.Event
}

// RecordImport appends a finished batch to the usage log.
func (s *SQLiteStore) RecordImport(ctx context.Context, event telemetry.Event) error {
	const insertStmt = `
INSERT INTO import_events (
	batch_id,
	file_type,
	file_name,
	total_rows,
	successful,
	failed,
	duplicates,
	stats_failures,
	recorded_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	if _, err := s.db.ExecContext(ctx, insertStmt,
		event.BatchID,
		event.FileType,
		event.FileName,
		event.TotalRows,
		event.Successful,
		event.Failed,
		event.Duplicates,
		event.StatsFailures,
		s.now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert import event: %w", err)
	}
	return nil
}

// ListImportEvents returns the most recent usage log entries, newest first.
func (s *SQLiteStore) ListImportEvents(ctx context.Context, limit int) ([]ImportEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
SELECT
	id,
	batch_id,
	file_type,
	file_name,
	total_rows,
	successful,
	failed,
	duplicates,
	stats_failures,
	recorded_at
FROM import_events
ORDER BY id DESC
LIMIT ?;`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query import events: %w", err)
	}
	defer rows.Close()

	events := make([]ImportEvent, 0, limit)
	for rows.Next() {
		var (
			event       ImportEvent
			recordedRaw string
		)
		if err := rows.Scan(
			&event.ID,
			&event.BatchID,
			&event.FileType,
			&event.FileName,
			&event.TotalRows,
			&event.Successful,
			&event.Failed,
			&event.Duplicates,
			&event.StatsFailures,
			&recordedRaw,
		); err != nil {
			return nil, fmt.Errorf("scan import event: %w", err)
		}
		event.RecordedAt, err = time.Parse(time.RFC3339, recordedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at %q: %w", recordedRaw, err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import events: %w", err)
	}
	return events, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(raw), nil
}

func decodeTags(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode tags %q: %w", raw, err)
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}

func nullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func intFromNull(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	out := int(value.Int64)
	return &out
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullDecimal(value *decimal.Decimal) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*value)
}

func decimalFromNull(value decimal.NullDecimal) *decimal.Decimal {
	if !value.Valid {
		return nil
	}
	out := value.Decimal
	return &out
}
