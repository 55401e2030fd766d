package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T, handler http.HandlerFunc) *Analyzer {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// resty only unmarshals the result when the response says JSON.
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	t.Setenv("INFERENCE_API_URL", server.URL)

	a, err := NewAnalyzer(ModelCryptobert)
	require.NoError(t, err)
	return a
}

func TestNewAnalyzerUnknownModel(t *testing.T) {
	_, err := NewAnalyzer("not-a-model")
	assert.Error(t, err)
}

func TestAnalyzeBatchPreservesOrder(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ElKulako/cryptobert", r.URL.Path)
		var req inferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Inputs, 2)

		fmt.Fprint(w, `[
		  [{"label":"Bullish","score":0.9},{"label":"Bearish","score":0.05},{"label":"Neutral","score":0.05}],
		  [{"label":"Bullish","score":0.1},{"label":"Bearish","score":0.8},{"label":"Neutral","score":0.1}]
		]`)
	})

	// The middle text is too short to send; the model only sees two inputs
	// and the responses must land back on the right positions.
	results, err := a.AnalyzeBatch(context.Background(), []string{
		"bitcoin is going to the moon", "gm", "everything is crashing hard",
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Bullish", results[0].Label)
	assert.InDelta(t, 0.85, results[0].Score, 1e-9)
	assert.Equal(t, "Neutral", results[1].Label)
	assert.Zero(t, results[1].Score)
	assert.Equal(t, "Bearish", results[2].Label)
}

func TestAnalyzeBatchAllShortTexts(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	results, err := a.AnalyzeBatch(context.Background(), []string{"gm", "wen"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Neutral", results[0].Label)
}

func TestAnalyzeBatchServerError(t *testing.T) {
	a := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err := a.AnalyzeBatch(context.Background(), []string{"bitcoin looks strong"})
	assert.Error(t, err)
}

func TestResultFromClassesFinbertAliases(t *testing.T) {
	res := resultFromClasses([]classScore{
		{Label: "positive", Score: 0.7},
		{Label: "negative", Score: 0.1},
		{Label: "neutral", Score: 0.2},
	})
	assert.Equal(t, "Bullish", res.Label)
	assert.InDelta(t, 0.6, res.Score, 1e-9)
	assert.InDelta(t, 0.7, res.Probs["Bullish"], 1e-9)
}

func TestResultFromClassesNeutralBand(t *testing.T) {
	res := resultFromClasses([]classScore{
		{Label: "Bullish", Score: 0.42},
		{Label: "Bearish", Score: 0.40},
		{Label: "Neutral", Score: 0.18},
	})
	// Weak edge stays Neutral, score keeps the sign.
	assert.Equal(t, "Neutral", res.Label)
	assert.InDelta(t, 0.02, res.Score, 1e-9)
}

func TestRegistryReusesAnalyzer(t *testing.T) {
	r := NewRegistry()
	a, err := r.Get(ModelFinbert)
	require.NoError(t, err)
	b, err := r.Get(ModelFinbert)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestValidate(t *testing.T) {
	bull, bear := "Bullish", "Bearish"
	preds := []Result{{Label: "Bullish"}, {Label: "Bullish"}, {Label: "Bearish"}}
	labels := []*string{&bull, &bear, nil}

	acc := Validate(preds, labels)
	assert.Equal(t, 2, acc.Labeled)
	assert.Equal(t, 1, acc.Correct)
	assert.InDelta(t, 50.0, acc.Percent, 1e-9)
}

func TestValidateNoLabels(t *testing.T) {
	acc := Validate([]Result{{Label: "Bullish"}}, []*string{nil})
	assert.Zero(t, acc.Labeled)
	assert.Zero(t, acc.Percent)
}
