package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"scoutdesk/config"
	"scoutdesk/importer"
	"scoutdesk/storage"
	"scoutdesk/telemetry"
)

type testEnv struct {
	server  *httptest.Server
	store   *storage.SQLiteStore
	metrics *telemetry.Metrics
}

func newTestEnv(t *testing.T, maxFileSize int64) *testEnv {
	t.Helper()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "scoutdesk_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := telemetry.NewMetrics()
	service := &importer.Service{
		Store:     store,
		Telemetry: telemetry.Fanout{metrics, store},
		Logger:    logger,
		Now:       func() time.Time { return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC) },
	}

	cfg := config.Config{Import: config.ImportConfig{MaxFileSize: maxFileSize}}
	ts := httptest.NewServer(NewServer(store, service, cfg, Options{Metrics: metrics.Handler(), Logger: logger}))
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, store: store, metrics: metrics}
}

func uploadBody(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func (e *testEnv) upload(t *testing.T, fileName string, content []byte) *http.Response {
	t.Helper()

	body, contentType := uploadBody(t, fileName, content)
	resp, err := http.Post(e.server.URL+"/api/players/import", contentType, body)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

const playersCSV = `firstName,lastName,dateOfBirth,nationality,position,email,marketValue,tags,season,goals
John,Smith,1995-05-10,England,Forward,john@example.com,"€1,500,000",fast|strong,2025/26,12
Marco,Rossi,15-03-1999,Italy,Midfielder,,,,,
John,Smith,1996-01-20,England,Defender,,,,,
`

func TestServer_ImportReportsRowOutcomes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.DefaultMaxFileSize)
	resp := env.upload(t, "players.csv", []byte(playersCSV))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decode[importer.Report](t, resp)
	assert.Equal(t, "Import completed: 1 successful, 1 failed, 1 duplicates", report.Message)
	assert.Equal(t, importer.FileTypeCSV, report.FileType)
	assert.Equal(t, "players.csv", report.FileName)
	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, []string{"Row 2: Date of birth must be in YYYY-MM-DD format"}, report.Errors)
	assert.Equal(t, []string{`Row 3: Duplicate player name "John Smith" (also found in row 1)`}, report.Duplicates)

	events, err := env.store.ListImportEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].Successful)
}

func TestServer_ImportRejectsUnparseableFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.DefaultMaxFileSize)
	resp := env.upload(t, "players.csv", []byte("firstName,lastName\n"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	failure := decode[importer.FailureReport](t, resp)
	assert.Equal(t, "File must contain a header row and at least one data row", failure.Message)
	assert.Equal(t, importer.FileTypeCSV, failure.FileType)
	assert.Equal(t, "players.csv", failure.FileName)
	assert.NotEmpty(t, failure.Error)
}

func TestServer_ImportRejectsOversizedUpload(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 256)
	resp := env.upload(t, "players.csv", bytes.Repeat([]byte("a,b\n"), 200))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestServer_ImportLimitAppliesToFileNotEnvelope(t *testing.T) {
	t.Parallel()

	content := []byte(playersCSV)
	env := newTestEnv(t, int64(len(content)))

	resp := env.upload(t, "players.csv", content)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[importer.Report](t, resp).Successful)

	resp = env.upload(t, "players.csv", append(content, '\n'))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestServer_ImportRequiresFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.DefaultMaxFileSize)
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("note", "no file"))
	require.NoError(t, writer.Close())

	resp, err := http.Post(env.server.URL+"/api/players/import", writer.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ListAndGetPlayers(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.DefaultMaxFileSize)
	require.Equal(t, http.StatusOK, env.upload(t, "players.csv", []byte(playersCSV)).StatusCode)

	resp, err := http.Get(env.server.URL + "/api/players")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	players := decode[[]map[string]any](t, resp)
	require.Len(t, players, 1)
	assert.Equal(t, "John", players[0]["firstName"])
	assert.Equal(t, []any{"fast", "strong"}, players[0]["tags"])
	assert.Equal(t, map[string]any{"amount": "1500000", "display": "€1,500,000"}, players[0]["marketValue"])

	id := int64(players[0]["id"].(float64))
	one, err := http.Get(env.server.URL + "/api/players/" + strconv.FormatInt(id, 10))
	require.NoError(t, err)
	defer one.Body.Close()
	require.Equal(t, http.StatusOK, one.StatusCode)
	detail := decode[map[string]any](t, one)
	assert.Equal(t, map[string]any{"season": "2025/26", "goals": float64(12)}, detail["stats"])

	missing, err := http.Get(env.server.URL + "/api/players/999")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	invalid, err := http.Get(env.server.URL + "/api/players/abc")
	require.NoError(t, err)
	defer invalid.Body.Close()
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
}

func TestServer_DeletePlayer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.DefaultMaxFileSize)
	require.Equal(t, http.StatusOK, env.upload(t, "players.csv", []byte(playersCSV)).StatusCode)

	players, err := env.store.ListPlayers(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 1)

	url := env.server.URL + "/api/players/" + strconv.FormatInt(players[0].ID, 10)
	for _, want := range []int{http.StatusNoContent, http.StatusNotFound} {
		req, err := http.NewRequest(http.MethodDelete, url, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode)
	}
}

func TestServer_CrossBatchEmailIsAPersistenceError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.DefaultMaxFileSize)
	require.Equal(t, http.StatusOK, env.upload(t, "first.csv", []byte(playersCSV)).StatusCode)

	resp := env.upload(t, "second.csv", []byte("firstName,lastName,dateOfBirth,nationality,position,email\nJim,Brown,1997-03-03,Scotland,Goalkeeper,JOHN@example.com\n"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	report := decode[importer.Report](t, resp)
	assert.Equal(t, 0, report.Successful)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.True(t, strings.HasPrefix(report.Errors[0], "Row 1: "), report.Errors[0])
	assert.Empty(t, report.Duplicates)
}

func TestServer_Templates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.DefaultMaxFileSize)

	resp, err := http.Get(env.server.URL + "/api/templates/csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "players_template.csv")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), strings.Join(importer.TemplateHeaders(importer.StyleMachine), ",")))

	xlsx, err := http.Get(env.server.URL + "/api/templates/excel")
	require.NoError(t, err)
	defer xlsx.Body.Close()
	require.Equal(t, http.StatusOK, xlsx.StatusCode)
	data, err := io.ReadAll(xlsx.Body)
	require.NoError(t, err)
	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(book.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, importer.TemplateHeaders(importer.StyleHuman), rows[0])

	bad, err := http.Get(env.server.URL + "/api/templates/pdf")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestServer_MetricsAndHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.DefaultMaxFileSize)
	require.Equal(t, http.StatusOK, env.upload(t, "players.csv", []byte(playersCSV)).StatusCode)

	resp, err := http.Get(env.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `scoutdesk_import_batches_total{file_type="csv"} 1`)

	health, err := http.Get(env.server.URL + "/healthz")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestServer_ImportsLog(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, config.DefaultMaxFileSize)
	require.Equal(t, http.StatusOK, env.upload(t, "players.csv", []byte(playersCSV)).StatusCode)

	resp, err := http.Get(env.server.URL + "/api/imports?limit=5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	events := decode[[]map[string]any](t, resp)
	require.Len(t, events, 1)
	assert.Equal(t, "players.csv", events[0]["fileName"])
	assert.Equal(t, float64(1), events[0]["duplicates"])

	bad, err := http.Get(env.server.URL + "/api/imports?limit=0")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}
