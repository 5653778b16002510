package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agent "github.com/virtual-me/agent"
	"github.com/virtual-me/agent/cache"
	"github.com/virtual-me/agent/evaluator"
	"github.com/virtual-me/agent/model"
	"github.com/virtual-me/agent/persona"
	toolhandler "github.com/virtual-me/agent/tool_handler"
)

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Complete(ctx context.Context, transcript []model.Message, tools []model.Tool) (*model.Completion, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &model.Completion{
		FinishReason: model.FinishStop,
		Message:      model.Message{Role: model.RoleAssistant, Content: p.reply},
	}, nil
}

func (p *stubProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, nil
}

type nopCache struct{}

func (nopCache) Lookup(ctx context.Context, question string, fuzzy bool, limit int) ([]cache.Record, error) {
	return nil, nil
}

func (nopCache) Upsert(ctx context.Context, question, answer, tags string) error {
	return nil
}

type stubRebuilder struct {
	count   int
	err     error
	started chan struct{}
	release chan struct{}
}

func (r *stubRebuilder) Build(ctx context.Context, dir string) (int, error) {
	if r.started != nil {
		close(r.started)
		<-r.release
	}
	return r.count, r.err
}

func newTestServer(t *testing.T, chat model.Provider, rebuilder Rebuilder) *Server {
	t.Helper()

	catalog, err := toolhandler.NewCatalog()
	require.NoError(t, err)

	eval := &stubProvider{reply: `{"helpfulness": 5, "faithfulness": 5, "style": 5, "feedback": ""}`}
	profile := &persona.Profile{Name: "Panos", Summary: "summary", Resume: "resume"}

	a := agent.New(chat, catalog, evaluator.NewEvaluator(eval, "Panos"), nopCache{}, profile)

	return New(a, rebuilder, "kb")
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &stubProvider{reply: "hi"}, nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChatReturnsReply(t *testing.T) {
	s := newTestServer(t, &stubProvider{reply: "an answer"}, nil)

	body := strings.NewReader(`{"message": "what do you do?", "history": [{"role": "user", "content": "hi"}, {"role": "assistant", "content": "hello"}]}`)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reply": "an answer"}`, rec.Body.String())
}

func TestChatRejectsInvalidJSON(t *testing.T) {
	s := newTestServer(t, &stubProvider{reply: "unused"}, nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatRequiresMessage(t *testing.T) {
	s := newTestServer(t, &stubProvider{reply: "unused"}, nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"history": []}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatDegradesToApologyOnAgentFailure(t *testing.T) {
	s := newTestServer(t, &stubProvider{err: errors.New("upstream down")}, nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "hi there friend"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), failureReply)
}

func TestReindexReturnsChunkCount(t *testing.T) {
	s := newTestServer(t, &stubProvider{reply: "unused"}, &stubRebuilder{count: 12})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reindex", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"chunks": 12}`, rec.Body.String())
}

func TestReindexWithoutRebuilder(t *testing.T) {
	s := newTestServer(t, &stubProvider{reply: "unused"}, nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reindex", nil))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestReindexFailure(t *testing.T) {
	s := newTestServer(t, &stubProvider{reply: "unused"}, &stubRebuilder{err: errors.New("embedder down")})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reindex", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestReindexRejectsConcurrentRebuilds(t *testing.T) {
	rebuilder := &stubRebuilder{
		count:   3,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newTestServer(t, &stubProvider{reply: "unused"}, rebuilder)

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reindex", nil))
		done <- rec
	}()

	// Wait for the first rebuild to hold the lock, then race a second one.
	<-rebuilder.started
	second := httptest.NewRecorder()
	s.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/reindex", nil))
	assert.Equal(t, http.StatusConflict, second.Code)

	close(rebuilder.release)
	first := <-done
	assert.Equal(t, http.StatusOK, first.Code)
}
