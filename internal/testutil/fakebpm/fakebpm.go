// Package fakebpm is an in-process stand-in for the BPM engine REST API, serving
// embedded JSON fixtures for exact flow node queries.
package fakebpm

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/pagination"
)

//go:embed testdata/*.json
var fixtures embed.FS

// Fixture names.
const (
	FailedFlowNodes5    = "failedFlowNodes5"
	FailedFlowNodes10   = "failedFlowNodes10"
	FailedFlowNodes20   = "failedFlowNodes20"
	GenerateRandomCases = "generateRandomCases"
	EmptyResult         = "emptyResult"
	Processes           = "processes"
)

// BasePath is the engine web application path served by the fake.
const BasePath = "/bonita"

// APIToken is the token handed out by the fake login service.
const APIToken = "fake-api-token"

// Fixture returns the raw JSON of a fixture.
func Fixture(t testing.TB, name string) []byte {
	t.Helper()
	data, err := fixtures.ReadFile("testdata/" + name + ".json")
	require.NoError(t, err)
	return data
}

// FlowNodes decodes a flow node fixture.
func FlowNodes(t testing.TB, name string) []bpm.FlowNode {
	t.Helper()
	var nodes []bpm.FlowNode
	require.NoError(t, json.Unmarshal(Fixture(t, name), &nodes))
	return nodes
}

type route struct {
	fixture string
	total   int
}

// Server is a fake engine. Flow node queries are answered only when they exactly
// match a registered query; anything else is a 404 so that unexpected requests fail
// loudly.
type Server struct {
	*httptest.Server

	t testing.TB

	mu         sync.Mutex
	routes     map[string]route
	processes  string
	requests   []url.Values
	username   string
	password   string
	requireKey bool
}

// New starts a fake engine that is closed with the test.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		t:         t,
		routes:    make(map[string]route),
		processes: Processes,
	}

	r := mux.NewRouter()
	api := r.PathPrefix(BasePath).Subrouter()
	api.HandleFunc("/"+bpm.LoginPath, s.login).Methods(http.MethodPost)
	api.HandleFunc("/"+bpm.FlowNodePath, s.flowNodes).Methods(http.MethodGet)
	api.HandleFunc("/"+bpm.ProcessPath, s.processList).Methods(http.MethodGet)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the engine URL to hand to bpm.New.
func (s *Server) BaseURL() string {
	return s.URL + BasePath
}

// Handle answers query with fixture and no Content-Range header.
func (s *Server) Handle(query, fixture string) {
	s.HandleWithTotal(query, fixture, -1)
}

// HandleWithTotal answers query with fixture and a Content-Range reporting total.
func (s *Server) HandleWithTotal(query, fixture string, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[normalize(s.t, query)] = route{fixture: fixture, total: total}
}

// SetProcesses changes the fixture of the process list.
func (s *Server) SetProcesses(fixture string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processes = fixture
}

// RequireLogin makes the API answer 401 until a session is opened with these credentials.
func (s *Server) RequireLogin(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username, s.password, s.requireKey = username, password, true
}

// Requests returns the decoded queries of every flow node request, in order.
func (s *Server) Requests() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]url.Values, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) authorized(r *http.Request) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.requireKey || r.Header.Get(bpm.HeaderAPIToken) == APIToken
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	ok := !s.requireKey || (r.PostForm.Get("username") == s.username && r.PostForm.Get("password") == s.password)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusUnauthorized, "bad credentials")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "fake-session", Path: BasePath})
	http.SetCookie(w, &http.Cookie{Name: bpm.HeaderAPIToken, Value: APIToken, Path: BasePath})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) flowNodes(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}

	query := r.URL.Query()
	s.mu.Lock()
	s.requests = append(s.requests, query)
	rt, ok := s.routes[query.Encode()]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "no fixture for "+r.URL.RawQuery)
		return
	}

	if rt.total >= 0 {
		page, _ := strconv.Atoi(query.Get("p"))
		count, _ := strconv.Atoi(query.Get("c"))
		rng := pagination.Range{Page: page, Size: count, Total: rt.total}
		w.Header().Set(pagination.HeaderContentRange, rng.String())
	}
	s.writeFixture(w, rt.fixture)
}

func (s *Server) processList(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	s.mu.Lock()
	fixture := s.processes
	s.mu.Unlock()
	s.writeFixture(w, fixture)
}

func (s *Server) writeFixture(w http.ResponseWriter, name string) {
	data, err := fixtures.ReadFile("testdata/" + name + ".json")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"exception":"fake","message":%q}`, message)
}

// normalize turns a raw query into the key used for route lookup.
func normalize(t testing.TB, raw string) string {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values.Encode()
}
