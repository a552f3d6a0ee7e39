package main

import (
	"CricketScoreApi/internal/data"
	"CricketScoreApi/internal/jsonlog"
	"CricketScoreApi/internal/matchhub"
	"CricketScoreApi/internal/pins"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"
)

type memoryMatches struct {
	mu      sync.Mutex
	records map[string]data.MatchRecord
	nextID  int64
}

func newMemoryMatches() *memoryMatches {
	return &memoryMatches{records: make(map[string]data.MatchRecord)}
}

func (s *memoryMatches) Insert(match *data.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	match.ID = s.nextID
	match.Pin = pins.New(pins.PinScopeMatches)
	match.Pin.ID = match.ID
	match.CreatedAt = time.Now()
	match.Version = 1
	s.records[match.Pin.Pin] = *match
	return nil
}

func (s *memoryMatches) Get(pin string) (*data.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, ok := s.records[pin]
	if !ok {
		return nil, data.ErrRecordNotFound
	}
	return &match, nil
}

func (s *memoryMatches) Update(match *data.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.records[match.Pin.Pin]
	if !ok || stored.Version != match.Version {
		return data.ErrEditConflict
	}
	match.Version++
	s.records[match.Pin.Pin] = *match
	return nil
}

func (s *memoryMatches) Delete(pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[pin]; !ok {
		return data.ErrRecordNotFound
	}
	delete(s.records, pin)
	return nil
}

func (s *memoryMatches) GetAll(filters data.MatchesFilter) ([]*data.MatchRecord,
	data.MatchesMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]*data.MatchRecord, 0, len(s.records))
	for _, record := range s.records {
		matches = append(matches, &record)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	var metadata data.MatchesMetadata
	metadata.Pag.TotalRecords = len(matches)
	return matches, metadata, nil
}

type sentReport struct {
	recipient string
	template  string
	data      any
}

type memoryMailer struct {
	mu   sync.Mutex
	sent []sentReport
}

func (m *memoryMailer) Send(recipient, templateFile string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, sentReport{recipient: recipient, template: templateFile, data: data})
	return nil
}

func newTestApplication(t *testing.T) *application {
	t.Helper()

	var cfg config
	cfg.env = "testing"
	cfg.version = "1.0.0"

	app := &application{
		logger:  jsonlog.New(io.Discard, jsonlog.LevelOff),
		config:  cfg,
		matches: newMemoryMatches(),
		mailer:  &memoryMailer{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.hubs = matchhub.NewRegistry(ctx, matchhub.Config{
		Logger:   app.logger,
		OnChange: app.persistChange,
		OnClose:  app.hubClosed,
	})
	t.Cleanup(func() {
		app.hubs.Shutdown()
		cancel()
		app.wg.Wait()
	})

	return app
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &testServer{ts}
}

// do sends body as JSON, with the scorer key when one is given, and decodes the response.
func (ts *testServer) do(t *testing.T, method, urlPath, key string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+urlPath, reader)
	if err != nil {
		t.Fatal(err)
	}
	if key != "" {
		req.Header.Set(scorerKeyHeader, key)
	}

	rs, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer rs.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(rs.Body).Decode(&decoded); err != nil {
		t.Fatal(err)
	}
	return rs.StatusCode, decoded
}

func (ts *testServer) get(t *testing.T, urlPath string) (int, map[string]any) {
	t.Helper()
	return ts.do(t, http.MethodGet, urlPath, "", nil)
}

func matchSetupBody() map[string]any {
	return map[string]any{
		"team_one":     "Rovers",
		"team_two":     "United",
		"players_one":  []string{"Ann", "Bob", "Cal", "Dee", "Eve", "Fay"},
		"players_two":  []string{"Gus", "Hal", "Ivy", "Jo", "Kim", "Lou"},
		"overs":        6,
		"batting_side": "one",
	}
}

// createMatch posts a valid setup and returns the new match's pin and scorer key.
func (ts *testServer) createMatch(t *testing.T) (string, string) {
	t.Helper()

	code, body := ts.do(t, http.MethodPost, "/v1/match", "", matchSetupBody())
	if code != http.StatusCreated {
		t.Fatalf("creating match: got status %d (%v)", code, body)
	}

	match := body["match"].(map[string]any)
	return match["pin"].(string), body["scorer_key"].(string)
}

// startMatch creates a match and sends out openers 0 and 1 against bowler 2.
func (ts *testServer) startMatch(t *testing.T) (string, string) {
	t.Helper()

	pin, key := ts.createMatch(t)
	code, body := ts.do(t, http.MethodPost, "/v1/match/"+pin+"/openers", key, map[string]any{
		"batsmen": []int{0, 1},
		"bowler":  2,
	})
	if code != http.StatusOK {
		t.Fatalf("selecting openers: got status %d (%v)", code, body)
	}
	return pin, key
}
