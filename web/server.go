// Package web serves the player import API. It has no authentication and is
// meant to run behind a trusted proxy or on localhost.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"scoutdesk/config"
	"scoutdesk/importer"
	"scoutdesk/internal/logging"
	"scoutdesk/output"
	"scoutdesk/player"
	"scoutdesk/storage"
)

// Store is the persistence the HTTP surface needs beyond importing.
type Store interface {
	importer.PlayerStore
	ListPlayers(ctx context.Context) ([]player.Player, error)
	GetPlayerByID(ctx context.Context, id int64) (player.Player, error)
	DeletePlayer(ctx context.Context, id int64) error
	ListImportEvents(ctx context.Context, limit int) ([]storage.ImportEvent, error)
}

type Server struct {
	store    Store
	importer *importer.Service
	cfg      config.Config
	logger   *slog.Logger
	router   *chi.Mux
}

type Options struct {
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
}

func NewServer(store Store, service *importer.Service, cfg config.Config, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := &Server{
		store:    store,
		importer: service,
		cfg:      cfg,
		logger:   logger,
		router:   chi.NewRouter(),
	}

	r := server.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", server.handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/players/import", server.handleAPIImport)
		r.Get("/players", server.handleAPIPlayers)
		r.Get("/players/{id}", server.handleAPIPlayer)
		r.Delete("/players/{id}", server.handleAPIPlayerDelete)
		r.Get("/imports", server.handleAPIImports)
		r.Get("/templates/{format}", server.handleAPITemplate)
	})

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAPIImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	if maxSize <= 0 {
		maxSize = config.DefaultMaxFileSize
	}
	// The limit applies to the file; the body may carry the multipart
	// envelope on top of it.
	bodyLimit := maxSize + multipartEnvelope
	if r.ContentLength > bodyLimit {
		writeError(w, http.StatusRequestEntityTooLarge, fileTooLarge(maxSize))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fileTooLarge(maxSize))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parse multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read upload: %v", err))
		return
	}
	if int64(len(data)) > maxSize {
		writeError(w, http.StatusRequestEntityTooLarge, fileTooLarge(maxSize))
		return
	}

	report, err := s.importer.Import(r.Context(), header.Filename, data)
	if err != nil {
		var failure *importer.ImportFailure
		if errors.As(err, &failure) {
			writeJSON(w, http.StatusBadRequest, importer.NewFailureReport(failure))
			return
		}
		logging.With(r.Context(), s.logger).Error("import upload", "file_name", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// multipartEnvelope is the allowance for boundaries, part headers and other
// form fields in an upload body.
const multipartEnvelope = 1 << 20

func fileTooLarge(maxSize int64) string {
	return fmt.Sprintf("file exceeds the upload limit of %d bytes", maxSize)
}

func (s *Server) handleAPIPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.store.ListPlayers(r.Context())
	if err != nil {
		s.internalError(w, r, "list players", err)
		return
	}

	views := make([]playerView, 0, len(players))
	for _, p := range players {
		views = append(views, newPlayerView(p))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleAPIPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	p, err := s.store.GetPlayerByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrPlayerNotFound) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		s.internalError(w, r, "get player", err)
		return
	}

	writeJSON(w, http.StatusOK, newPlayerView(p))
}

func (s *Server) handleAPIPlayerDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePositiveInt64(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player id")
		return
	}

	if err := s.store.DeletePlayer(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrPlayerNotFound) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		s.internalError(w, r, "delete player", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIImports(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := parsePositiveInt64(raw)
		if err != nil || parsed > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = int(parsed)
	}

	events, err := s.store.ListImportEvents(r.Context(), limit)
	if err != nil {
		s.internalError(w, r, "list import events", err)
		return
	}

	views := make([]importEventView, 0, len(events))
	for _, event := range events {
		views = append(views, importEventView{
			BatchID:       event.BatchID,
			FileType:      event.FileType,
			FileName:      event.FileName,
			TotalRows:     event.TotalRows,
			Successful:    event.Successful,
			Failed:        event.Failed,
			Duplicates:    event.Duplicates,
			StatsFailures: event.StatsFailures,
			RecordedAt:    event.RecordedAt,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleAPITemplate(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "format")))
	fileType, ok := importer.ParseFileType(format)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported template format: %s", format))
		return
	}

	var buf bytes.Buffer
	if err := output.WriteTemplate(&buf, string(fileType)); err != nil {
		s.internalError(w, r, "write template", err)
		return
	}

	fileName, contentType := "players_template.csv", "text/csv; charset=utf-8"
	if fileType == importer.FileTypeExcel {
		fileName = "players_template.xlsx"
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, action string, err error) {
	logging.With(r.Context(), s.logger).Error(action, "error", err)
	writeError(w, http.StatusInternalServerError, action+" failed")
}

type moneyView struct {
	Amount  decimal.Decimal `json:"amount"`
	Display string          `json:"display"`
}

type statsView struct {
	Season        string           `json:"season,omitempty"`
	MatchesPlayed *int             `json:"matchesPlayed,omitempty"`
	Goals         *int             `json:"goals,omitempty"`
	Assists       *int             `json:"assists,omitempty"`
	YellowCards   *int             `json:"yellowCards,omitempty"`
	RedCards      *int             `json:"redCards,omitempty"`
	MinutesPlayed *int             `json:"minutesPlayed,omitempty"`
	AverageRating *decimal.Decimal `json:"averageRating,omitempty"`
	PassAccuracy  *decimal.Decimal `json:"passAccuracy,omitempty"`
}

type playerView struct {
	ID             int64      `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	DateOfBirth    string     `json:"dateOfBirth"`
	Nationality    string     `json:"nationality"`
	Position       string     `json:"position"`
	Height         *int       `json:"height,omitempty"`
	Weight         *int       `json:"weight,omitempty"`
	PreferredFoot  string     `json:"preferredFoot,omitempty"`
	CurrentClub    string     `json:"currentClub,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	MarketValue    *moneyView `json:"marketValue,omitempty"`
	ContractExpiry string     `json:"contractExpiry,omitempty"`
	Tags           []string   `json:"tags"`
	Notes          string     `json:"notes,omitempty"`
	Stats          *statsView `json:"stats,omitempty"`
	SourceFile     string     `json:"sourceFile"`
	BatchID        string     `json:"batchId"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func newPlayerView(p player.Player) playerView {
	record := p.Record
	view := playerView{
		ID:             p.ID,
		FirstName:      record.FirstName,
		LastName:       record.LastName,
		DateOfBirth:    record.DateOfBirth,
		Nationality:    record.Nationality,
		Position:       record.Position,
		Height:         record.Height,
		Weight:         record.Weight,
		PreferredFoot:  record.PreferredFoot,
		CurrentClub:    record.CurrentClub,
		Email:          record.Email,
		Phone:          record.Phone,
		ContractExpiry: record.ContractExpiry,
		Tags:           record.Tags,
		Notes:          record.Notes,
		SourceFile:     p.SourceFile,
		BatchID:        p.BatchID,
		CreatedAt:      p.CreatedAt,
	}
	if view.Tags == nil {
		view.Tags = []string{}
	}
	if record.MarketValue != nil {
		view.MarketValue = &moneyView{Amount: record.MarketValue.Amount, Display: record.MarketValue.Display}
	}
	if stats := record.Stats; stats != nil {
		view.Stats = &statsView{
			Season:        stats.Season,
			MatchesPlayed: stats.MatchesPlayed,
			Goals:         stats.Goals,
			Assists:       stats.Assists,
			YellowCards:   stats.YellowCards,
			RedCards:      stats.RedCards,
			MinutesPlayed: stats.MinutesPlayed,
			AverageRating: stats.AverageRating,
			PassAccuracy:  stats.PassAccuracy,
		}
	}
	return view
}

type importEventView struct {
	BatchID       string    `json:"batchId"`
	FileType      string    `json:"fileType"`
	FileName      string    `json:"fileName"`
	TotalRows     int       `json:"totalRows"`
	Successful    int       `json:"successful"`
	Failed        int       `json:"failed"`
	Duplicates    int       `json:"duplicates"`
	StatsFailures int       `json:"statsFailures"`
	RecordedAt    time.Time `json:"recordedAt"`
}

func parsePositiveInt64(value string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("value must be > 0")
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
