package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appservices "factsaura-backend/application/services"
	domaincfg "factsaura-backend/domain/config"
	domainservices "factsaura-backend/domain/services"
	"factsaura-backend/infrastructure/config"
	"factsaura-backend/infrastructure/di"
	"factsaura-backend/infrastructure/persistence/memory"
	"factsaura-backend/interfaces/http/rest"
	"factsaura-backend/pkg/observability"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	domainCfg := domaincfg.DefaultDomainConfig()
	analyzer := domainservices.NewTextAnalyzer(domainCfg, logger)
	calculator := domainservices.NewSimilarityCalculator(domainCfg, logger)
	store := memory.NewFamilyStore(config.NewTreePolicy(domainCfg, nil), nil, logger)
	classifier := appservices.NewClassifier(store, analyzer, calculator, nil, domainCfg, logger)

	commandBus, err := di.ProvideCommandBus(store, analyzer, calculator, classifier, logger)
	require.NoError(t, err)
	queryBus, err := di.ProvideQueryBus(store, di.ProvideCache())
	require.NoError(t, err)

	collector := observability.NewCollector("factsaura")
	return rest.NewRouter(commandBus, queryBus, classifier, store, collector, []string{"*"}, logger).Setup()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoints(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = doJSON(t, handler, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIngestLifecycle(t *testing.T) {
	handler := newTestHandler(t)
	seed := "Turmeric cures cancer naturally say doctors"

	// unseen content starts a family
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/ingest", map[string]string{"content": seed})
	require.Equal(t, http.StatusOK, rec.Code)
	first := decodeBody(t, rec)
	assert.Equal(t, true, first["created"])
	familyID := first["family_id"].(string)
	classification := first["classification"].(map[string]interface{})
	assert.Equal(t, "newFamily", classification["decision"])

	// an amplified rewording attaches to the same family
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/ingest", map[string]string{
		"content": "URGENT: Turmeric cures cancer naturally say doctors, share immediately!!!",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeBody(t, rec)
	assert.Equal(t, true, second["created"])
	assert.Equal(t, familyID, second["family_id"])
	classification = second["classification"].(map[string]interface{})
	assert.Equal(t, "attachAsChild", classification["decision"])

	// resubmitting the seed verbatim is acknowledged, not stored
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/ingest", map[string]string{"content": seed})
	require.Equal(t, http.StatusOK, rec.Code)
	third := decodeBody(t, rec)
	assert.Equal(t, false, third["created"])
	classification = third["classification"].(map[string]interface{})
	assert.Equal(t, "duplicate", classification["decision"])

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/families", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	families := decodeBody(t, rec)["families"].([]interface{})
	assert.Len(t, families, 1)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/families/"+familyID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tree := decodeBody(t, rec)
	assert.Len(t, tree["nodes"].([]interface{}), 2)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/admin/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody(t, rec)
	assert.Equal(t, float64(1), stats["family_count"])
	assert.Equal(t, float64(2), stats["node_count"])
}

func TestClassifyEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/classify", map[string]string{
		"content": "Turmeric cures cancer naturally say doctors",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "newFamily", body["decision"])

	// decision endpoint never writes
	rec = doJSON(t, handler, http.MethodGet, "/api/v1/admin/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeBody(t, rec)["family_count"])
}

func TestClassifyRejectsEmptyContent(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/classify", map[string]string{"content": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestRejectsMalformedBody(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestRejectsEmptyContentWith400(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/ingest", map[string]string{"content": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownFamilyReturnsNotFound(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/families/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
