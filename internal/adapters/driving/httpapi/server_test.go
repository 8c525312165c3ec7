package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recollect/internal/core/domain"
)

// mockQuery serves canned results and records the options it saw.
type mockQuery struct {
	results []domain.QueryResult
	err     error
	gotText string
	gotOpts domain.QueryOptions
}

func (m *mockQuery) Query(_ context.Context, text string, opts domain.QueryOptions) ([]domain.QueryResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyQuery
	}
	m.gotText = text
	m.gotOpts = opts
	return m.results, m.err
}

// mockIndex is a stub index manager.
type mockIndex struct {
	rebuilds int
	resets   int
	status   domain.IndexStatus
}

func (m *mockIndex) IndexFile(_ context.Context, _ string, _ []byte) error { return nil }
func (m *mockIndex) RemoveFile(_ context.Context, _ string) error          { return nil }
func (m *mockIndex) Rebuild(_ context.Context) error                       { m.rebuilds++; return nil }
func (m *mockIndex) Reset(_ context.Context) error                         { m.resets++; return nil }
func (m *mockIndex) Counts() map[domain.Granularity]int {
	return map[domain.Granularity]int{domain.GranularityMemory: 3}
}
func (m *mockIndex) Status() domain.IndexStatus { return m.status }

// mockSettings wraps a settings value with patch support.
type mockSettings struct {
	settings domain.Settings
}

func (m *mockSettings) Get() domain.Settings { return m.settings }
func (m *mockSettings) Update(patch domain.SettingsPatch) (domain.Settings, error) {
	updated, err := m.settings.Apply(patch)
	if err != nil {
		return m.settings, err
	}
	m.settings = updated
	return updated, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *mockQuery, *mockIndex, *mockSettings) {
	t.Helper()
	query := &mockQuery{}
	idx := &mockIndex{}
	settings := &mockSettings{settings: domain.DefaultSettings()}

	s := NewServer(0, query, idx, settings)
	ts := httptest.NewServer(s.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, query, idx, settings
}

func TestQuery_EmptyTextRejected(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/query?q=")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQuery_ReturnsResults(t *testing.T) {
	ts, query, _, _ := newTestServer(t)
	query.results = []domain.QueryResult{
		{Text: "bought milk", Granularity: domain.GranularityMemory},
	}

	resp, err := http.Get(ts.URL + "/api/query?q=milk&mode=memory&n_results=3&recency_weight=0.5")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []domain.QueryResult `json:"results"`
		Count   int                  `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "bought milk", body.Results[0].Text)

	assert.Equal(t, "milk", query.gotText)
	require.NotNil(t, query.gotOpts.Mode)
	assert.Equal(t, domain.GranularityMemory, *query.gotOpts.Mode)
	require.NotNil(t, query.gotOpts.NResults)
	assert.Equal(t, 3, *query.gotOpts.NResults)
	require.NotNil(t, query.gotOpts.RecencyWeight)
	assert.Equal(t, 0.5, *query.gotOpts.RecencyWeight)
}

func TestQuery_BadResultCount(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/query?q=milk&n_results=zero")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettings_GetAndUpdate(t *testing.T) {
	ts, _, _, settings := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/settings")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Settings settingsPayload `json:"settings"`
		Counts   map[string]int  `json:"counts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "memory", body.Settings.RetrievalMode)
	assert.Equal(t, 3, body.Counts["memory"])

	update := strings.NewReader(`{"retrieval_mode": "line", "recency_weight": 0.2}`)
	resp2, err := http.Post(ts.URL+"/api/settings", "application/json", update)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	assert.Equal(t, domain.GranularityLine, settings.settings.RetrievalMode)
	assert.Equal(t, 0.2, settings.settings.RecencyWeight)
}

func TestSettings_InvalidTimezoneRejected(t *testing.T) {
	ts, _, _, settings := newTestServer(t)

	update := strings.NewReader(`{"timezone": "Mars/Olympus_Mons"}`)
	resp, err := http.Post(ts.URL+"/api/settings", "application/json", update)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UTC", settings.settings.Timezone)
}

func TestRefresh(t *testing.T) {
	ts, _, idx, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/refresh", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, idx.rebuilds)

	var body struct {
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body.Counts["memory"])
}

func TestReset(t *testing.T) {
	ts, _, idx, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/reset", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, idx.resets)
}

func TestStatus(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Progress float64        `json:"progress"`
		Counts   map[string]int `json:"counts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(100), body.Progress)
	assert.Equal(t, 3, body.Counts["memory"])
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _, _, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/query", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
