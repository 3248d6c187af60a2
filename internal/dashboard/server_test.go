package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"stashdup/internal/dupe"
	"stashdup/internal/logging"
	"stashdup/internal/scanstore"
	"stashdup/internal/stash"
)

type stubBackend struct {
	scenes   []stash.Scene
	fetchErr error

	mergeDest    string
	mergeSources []string
	mergeErr     error
}

func (b *stubBackend) FetchScenes(context.Context) ([]stash.Scene, error) {
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	return b.scenes, nil
}

func (b *stubBackend) MergeScenes(_ context.Context, destination string, sources []string) (string, error) {
	if b.mergeErr != nil {
		return "", b.mergeErr
	}
	b.mergeDest = destination
	b.mergeSources = append([]string(nil), sources...)
	return destination, nil
}

type memStore struct {
	reports map[string]*dupe.Report
	order   []string
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{reports: make(map[string]*dupe.Report)}
}

func (m *memStore) SaveReport(_ context.Context, report *dupe.Report) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.reports[report.PassID] = report
	m.order = append(m.order, report.PassID)
	return nil
}

func (m *memStore) RecentPasses(_ context.Context, limit int) ([]scanstore.PassSummary, error) {
	var out []scanstore.PassSummary
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		report := m.reports[m.order[i]]
		out = append(out, scanstore.PassSummary{
			PassID:         report.PassID,
			GeneratedAt:    report.GeneratedAt,
			RecordsScanned: report.RecordsScanned,
			ClustersFound:  report.ClustersFound,
			PairsFound:     report.PairsFound,
			Elapsed:        report.Elapsed,
		})
	}
	return out, nil
}

func (m *memStore) GetReport(_ context.Context, passID string) (*dupe.Report, error) {
	report, ok := m.reports[passID]
	if !ok {
		return nil, scanstore.ErrNotFound
	}
	return report, nil
}

func newTestServer(t *testing.T, backend Backend, store PassStore) *Server {
	t.Helper()
	srv, err := NewServer("127.0.0.1:0", backend, store, dupe.DefaultOptions(), logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func sceneWithOSHash(id, title, hash string) stash.Scene {
	return stash.Scene{
		ID:    id,
		Title: title,
		Files: []stash.SceneFile{{
			Duration:     120,
			Fingerprints: []stash.Fingerprint{{Type: "oshash", Value: hash}},
		}},
	}
}

func TestIndexShowsRecordCountAndPasses(t *testing.T) {
	backend := &stubBackend{scenes: []stash.Scene{
		sceneWithOSHash("1", "One", "aa"),
		sceneWithOSHash("2", "Two", "bb"),
		sceneWithOSHash("3", "Three", "cc"),
	}}
	store := newMemStore()
	report := &dupe.Report{
		PassID:         "pass-1",
		GeneratedAt:    time.Now(),
		RecordsScanned: 3,
		Elapsed:        42 * time.Millisecond,
	}
	if err := store.SaveReport(context.Background(), report); err != nil {
		t.Fatalf("seed report: %v", err)
	}

	srv := newTestServer(t, backend, store)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body := getBody(t, ts.URL+"/")
	if !strings.Contains(body, ">3<") {
		t.Errorf("expected record count 3 in page, got:\n%s", body)
	}
	if !strings.Contains(body, "pass-1") {
		t.Errorf("expected pass id in recent passes, got:\n%s", body)
	}
}

func TestIndexSurvivesBackendOutage(t *testing.T) {
	backend := &stubBackend{fetchErr: errors.New("connection refused")}
	srv := newTestServer(t, backend, newMemStore())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := readAll(t, resp.Body)
	if !strings.Contains(body, "backend unreachable") {
		t.Errorf("expected outage notice, got:\n%s", body)
	}
}

func TestScanPersistsReportAndRedirects(t *testing.T) {
	backend := &stubBackend{scenes: []stash.Scene{
		sceneWithOSHash("1", "Copy A", "deadbeef"),
		sceneWithOSHash("2", "Copy B", "deadbeef"),
		sceneWithOSHash("3", "Other", "0ther"),
	}}
	store := newMemStore()
	srv := newTestServer(t, backend, store)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := noRedirectClient()
	resp, err := client.Post(ts.URL+"/scan", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatalf("POST /scan: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	location := resp.Header.Get("Location")
	if !strings.HasPrefix(location, "/duplicates?pass=") {
		t.Fatalf("unexpected redirect target %q", location)
	}

	if len(store.order) != 1 {
		t.Fatalf("expected one saved report, got %d", len(store.order))
	}
	report := store.reports[store.order[0]]
	if report.ClustersFound != 1 {
		t.Errorf("ClustersFound = %d, want 1", report.ClustersFound)
	}
	if report.RecordsScanned != 3 {
		t.Errorf("RecordsScanned = %d, want 3", report.RecordsScanned)
	}
}

func TestDuplicatesRendersStoredReport(t *testing.T) {
	backend := &stubBackend{scenes: []stash.Scene{
		sceneWithOSHash("1", "Copy A", "deadbeef"),
		sceneWithOSHash("2", "Copy B", "deadbeef"),
	}}
	store := newMemStore()
	report, err := dupe.Scan(context.Background(), stash.Records(backend.scenes), dupe.DefaultOptions())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if err := store.SaveReport(context.Background(), report); err != nil {
		t.Fatalf("seed report: %v", err)
	}

	srv := newTestServer(t, backend, store)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body := getBody(t, ts.URL+"/duplicates?pass="+url.QueryEscape(report.PassID))
	for _, want := range []string{"Copy A", "Copy B", "oshash", "100.0%"} {
		if !strings.Contains(body, want) {
			t.Errorf("report page missing %q:\n%s", want, body)
		}
	}
}

func TestDuplicatesDefaultsToLatestPass(t *testing.T) {
	store := newMemStore()
	for i := 1; i <= 2; i++ {
		report := &dupe.Report{
			PassID:      fmt.Sprintf("pass-%d", i),
			GeneratedAt: time.Now(),
		}
		if err := store.SaveReport(context.Background(), report); err != nil {
			t.Fatalf("seed report: %v", err)
		}
	}
	srv := newTestServer(t, &stubBackend{}, store)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body := getBody(t, ts.URL+"/duplicates")
	if !strings.Contains(body, "pass-2") {
		t.Errorf("expected latest pass rendered, got:\n%s", body)
	}
}

func TestDuplicatesUnknownPass(t *testing.T) {
	srv := newTestServer(t, &stubBackend{}, newMemStore())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/duplicates?pass=nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestMergeRelaysToBackend(t *testing.T) {
	backend := &stubBackend{}
	srv := newTestServer(t, backend, newMemStore())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	form := url.Values{
		"destination": {"1"},
		"source":      {"1", "2", "3"},
		"pass":        {"pass-1"},
	}
	client := noRedirectClient()
	resp, err := client.PostForm(ts.URL+"/merge", form)
	if err != nil {
		t.Fatalf("POST /merge: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "/duplicates?pass=pass-1" {
		t.Errorf("redirect = %q, want /duplicates?pass=pass-1", got)
	}

	if backend.mergeDest != "1" {
		t.Errorf("merge destination = %q, want 1", backend.mergeDest)
	}
	// The destination must never appear among its own sources.
	if len(backend.mergeSources) != 2 || backend.mergeSources[0] != "2" || backend.mergeSources[1] != "3" {
		t.Errorf("merge sources = %v, want [2 3]", backend.mergeSources)
	}
}

func TestMergeRequiresDestinationAndSources(t *testing.T) {
	backend := &stubBackend{}
	srv := newTestServer(t, backend, newMemStore())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	for name, form := range map[string]url.Values{
		"no destination":   {"source": {"2"}},
		"no sources":       {"destination": {"1"}},
		"only self source": {"destination": {"1"}, "source": {"1"}},
	} {
		resp, err := http.PostForm(ts.URL+"/merge", form)
		if err != nil {
			t.Fatalf("%s: POST /merge: %v", name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, resp.StatusCode)
		}
	}
	if backend.mergeDest != "" {
		t.Errorf("backend merge should not have been called, got destination %q", backend.mergeDest)
	}
}

func TestMergeBackendFailure(t *testing.T) {
	backend := &stubBackend{mergeErr: errors.New("merge rejected")}
	srv := newTestServer(t, backend, newMemStore())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	form := url.Values{"destination": {"1"}, "source": {"2"}}
	resp, err := http.PostForm(ts.URL+"/merge", form)
	if err != nil {
		t.Fatalf("POST /merge: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestNewServerValidation(t *testing.T) {
	if _, err := NewServer("", &stubBackend{}, newMemStore(), dupe.DefaultOptions(), nil); err == nil {
		t.Error("expected error for empty bind")
	}
	if _, err := NewServer("127.0.0.1:0", nil, newMemStore(), dupe.DefaultOptions(), nil); err == nil {
		t.Error("expected error for nil backend")
	}
	if _, err := NewServer("127.0.0.1:0", &stubBackend{}, nil, dupe.DefaultOptions(), nil); err == nil {
		t.Error("expected error for nil store")
	}
}

func getBody(t *testing.T, target string) string {
	t.Helper()
	resp, err := http.Get(target)
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", target, resp.StatusCode)
	}
	return readAll(t, resp.Body)
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
