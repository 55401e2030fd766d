// Package sentiment scores normalized text with pretrained classifiers
// served by a hosted inference endpoint. Model weights never live in this
// process; an analyzer is a thin batched HTTP client plus the label mapping
// for its model.
package sentiment

import (
	"context"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	ModelFinbert    = "finbert"
	ModelCryptobert = "cryptobert"

	defaultInferenceBase = "https://api-inference.huggingface.co/models"
)

// Hosted model ids for the two supported classifiers.
var modelPaths = map[string]string{
	ModelFinbert:    "ProsusAI/finbert",
	ModelCryptobert: "ElKulako/cryptobert",
}

// Per-model output label vocabularies, mapped onto the shared
// Bullish/Bearish/Neutral space.
var labelAliases = map[string]string{
	"positive": "Bullish",
	"negative": "Bearish",
	"neutral":  "Neutral",
	"Bullish":  "Bullish",
	"Bearish":  "Bearish",
	"Neutral":  "Neutral",
}

// Result is one scored text. Score is in [-1, 1], bearish to bullish;
// Probs keeps the raw class probabilities for inspection.
type Result struct {
	Label string             `json:"label"`
	Score float64            `json:"score"`
	Probs map[string]float64 `json:"probs"`
}

type Analyzer struct {
	Model  string
	client *resty.Client
}

// NewAnalyzer builds the client for one model. Construction is cheap; the
// remote endpoint loads the actual weights on first call and keeps them
// warm, which is why analyzers are cached in a Registry and reused for the
// process lifetime.
func NewAnalyzer(model string) (*Analyzer, error) {
	path, ok := modelPaths[model]
	if !ok {
		return nil, errors.Errorf("unknown sentiment model %q, choices: finbert, cryptobert", model)
	}

	base := os.Getenv("INFERENCE_API_URL")
	if base == "" {
		base = defaultInferenceBase
	}

	client := resty.New().
		SetBaseURL(base+"/"+path).
		SetTimeout(60*time.Second).
		SetHeader("Content-Type", "application/json")
	if token := os.Getenv("INFERENCE_API_TOKEN"); token != "" {
		client.SetAuthToken(token)
	}

	return &Analyzer{Model: model, client: client}, nil
}

type inferenceRequest struct {
	Inputs  []string               `json:"inputs"`
	Options map[string]interface{} `json:"options"`
}

type classScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalyzeBatch scores texts in one round trip, preserving order. Texts too
// short to carry sentiment come back Neutral with score 0 without being sent
// to the model, mirroring how empty normalizer output is handled upstream.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, texts []string) ([]Result, error) {
	results := make([]Result, len(texts))
	var sendTexts []string
	var sendIdx []int
	for i, t := range texts {
		if len(t) < 5 {
			results[i] = Result{Label: "Neutral", Score: 0, Probs: map[string]float64{}}
			continue
		}
		sendTexts = append(sendTexts, t)
		sendIdx = append(sendIdx, i)
	}
	if len(sendTexts) == 0 {
		return results, nil
	}

	var raw [][]classScore
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(inferenceRequest{
			Inputs:  sendTexts,
			Options: map[string]interface{}{"wait_for_model": true},
		}).
		SetResult(&raw).
		ForceContentType("application/json").
		Post("")
	if err != nil {
		return nil, errors.Wrapf(err, "%s inference request failed", a.Model)
	}
	if resp.IsError() {
		return nil, errors.Errorf("%s inference returned status %d: %s", a.Model, resp.StatusCode(), resp.String())
	}
	if len(raw) != len(sendTexts) {
		return nil, errors.Errorf("%s inference returned %d results for %d inputs", a.Model, len(raw), len(sendTexts))
	}

	for j, classes := range raw {
		results[sendIdx[j]] = resultFromClasses(classes)
	}
	return results, nil
}

func (a *Analyzer) Analyze(ctx context.Context, text string) (Result, error) {
	results, err := a.AnalyzeBatch(ctx, []string{text})
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

// resultFromClasses collapses class probabilities into the shared label
// space: score is P(bullish) - P(bearish), and the label flips at +-0.05 so
// weak signals stay Neutral.
func resultFromClasses(classes []classScore) Result {
	probs := make(map[string]float64, len(classes))
	for _, c := range classes {
		label, ok := labelAliases[c.Label]
		if !ok {
			label = c.Label
		}
		probs[label] = c.Score
	}

	score := probs["Bullish"] - probs["Bearish"]
	label := "Neutral"
	if score > 0.05 {
		label = "Bullish"
	} else if score < -0.05 {
		label = "Bearish"
	}
	return Result{Label: label, Score: score, Probs: probs}
}
