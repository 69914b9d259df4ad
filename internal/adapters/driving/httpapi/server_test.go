package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/intervo/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/intervo/internal/core/domain"
	"github.com/custodia-labs/intervo/internal/core/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	guides := services.NewGuideService(store)
	sessions := services.NewSessionService(store, guides, nil)

	srv := NewServer(":0", guides, sessions, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req, err := http.NewRequest(method, url, &reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp, decoded
}

func createGuide(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/guides", map[string]any{
		"title": "Onboarding Debrief",
		"questions": []map[string]any{
			{"id": "q1", "text": "How was your first week?"},
			{"id": "q2", "text": "What surprised you?"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var id string
	require.NoError(t, json.Unmarshal(body["id"], &id))
	require.NotEmpty(t, id)
	return id
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"ok"`, string(body["status"]))
}

func TestGuideEndpoints(t *testing.T) {
	ts := newTestServer(t)
	id := createGuide(t, ts)

	// List includes the new guide.
	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/guides", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Get resolves the active version.
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/guides/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var version domain.GuideVersion
	require.NoError(t, json.Unmarshal(body["activeVersion"], &version))
	assert.Equal(t, 1, version.Version)
	assert.Len(t, version.Content.Questions, 2)

	// Unknown guide is a 404.
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/guides/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Invalid guide payload is a 400.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/guides", map[string]any{
		"title":     "Broken",
		"questions": []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVersionEndpoints(t *testing.T) {
	ts := newTestServer(t)
	id := createGuide(t, ts)

	// Publish a second version.
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/guides", map[string]any{
		"title": "Onboarding Debrief",
		"questions": []map[string]any{
			{"id": "q1", "text": "Revised opener"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/guides/"+id+"/versions", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Roll back to version 1.
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/guides/"+id+"/versions/1/activate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var active domain.GuideVersion
	require.NoError(t, json.Unmarshal(body["activeVersion"], &active))
	assert.Equal(t, 1, active.Version)

	// Activating a missing version is a 404.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/guides/"+id+"/versions/99/activate", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Non-numeric version is a 400.
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/guides/"+id+"/versions/latest/activate", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionFlow(t *testing.T) {
	ts := newTestServer(t)
	id := createGuide(t, ts)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/sessions", map[string]any{"guideId": id})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session domain.Session
	require.NoError(t, json.Unmarshal(body["session"], &session))
	var current domain.Question
	require.NoError(t, json.Unmarshal(body["currentQuestion"], &current))
	assert.Equal(t, "q1", current.ID)

	answerURL := fmt.Sprintf("%s/api/sessions/%s/answer", ts.URL, session.ID)

	// Out-of-order submission conflicts.
	resp, _ = doJSON(t, http.MethodPost, answerURL, map[string]any{
		"questionId": "q2",
		"answer":     "Trying to skip ahead here",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Deflecting answer is rejected without advancing.
	resp, _ = doJSON(t, http.MethodPost, answerURL, map[string]any{
		"questionId": "q1",
		"answer":     "I don't know",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Valid answers walk the guide to completion.
	resp, body = doJSON(t, http.MethodPost, answerURL, map[string]any{
		"questionId": "q1",
		"answer":     "It was busy but went well",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var next domain.Question
	require.NoError(t, json.Unmarshal(body["nextQuestion"], &next))
	assert.Equal(t, "q2", next.ID)

	resp, body = doJSON(t, http.MethodPost, answerURL, map[string]any{
		"questionId": "q2",
		"answer":     "How fast the team moves",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var complete bool
	require.NoError(t, json.Unmarshal(body["isComplete"], &complete))
	assert.True(t, complete)

	// Answer after completion conflicts.
	resp, _ = doJSON(t, http.MethodPost, answerURL, map[string]any{
		"questionId": "q2",
		"answer":     "One more for the road",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Session state is retrievable.
	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/sessions/"+session.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body["session"], &session))
	assert.True(t, session.State.IsComplete)
}

func TestSessionErrors(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/sessions", map[string]any{"guideId": "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/sessions", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatWithoutLLM(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/chat", map[string]any{"question": "hi"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
