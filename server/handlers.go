package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/collector"
	"github.com/cryptopulse/cryptopulse/collector/builder"
	"github.com/cryptopulse/cryptopulse/collector/handler"
	"github.com/cryptopulse/cryptopulse/collector/sink"
	"github.com/cryptopulse/cryptopulse/econometrics"
	"github.com/cryptopulse/cryptopulse/model"
	"github.com/cryptopulse/cryptopulse/sentiment"
	"github.com/cryptopulse/cryptopulse/store"
	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type scrapeRequest struct {
	Source  string `json:"source" binding:"required"`
	Method  string `json:"method"`
	Asset   string `json:"asset"`
	Channel string `json:"channel"`
	Limit   int    `json:"limit"`
}

func (s *Server) scrapeHandler(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 100
	}
	if req.Asset == "" {
		req.Asset = "bitcoin"
	}

	col, err := builder.Lookup(s.Collectors, req.Source, req.Method)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	h := handler.DataCollectJobHandler{Sink: sink.NewStoreSink(s.Store)}
	meta, err := h.Collect(c.Request.Context(), col, collector.NewTask(req.Asset, req.Channel, req.Limit))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, collector.ErrPlatformUnreachable) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meta)
}

func filtersFromQuery(c *gin.Context) store.Filters {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return store.Filters{
		Source:  c.Query("source"),
		Method:  c.Query("method"),
		Channel: c.Query("channel"),
		Limit:   limit,
	}
}

func (s *Server) postsHandler(c *gin.Context) {
	f := filtersFromQuery(c)
	if f.Limit <= 0 {
		f.Limit = 100
	}
	posts, err := s.Store.Query(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(posts), "posts": posts})
}

func (s *Server) statsHandler(c *gin.Context) {
	stats, err := s.Store.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type exportRequest struct {
	Format  string `json:"format" binding:"required"`
	Source  string `json:"source"`
	Method  string `json:"method"`
	Channel string `json:"channel"`
}

func (s *Server) exportHandler(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	path, err := s.Store.Export(req.Format, store.Filters{
		Source: req.Source, Method: req.Method, Channel: req.Channel,
	}, s.ExportDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

type sentimentRequest struct {
	Model string   `json:"model"`
	Texts []string `json:"texts" binding:"required"`
}

func (s *Server) sentimentHandler(c *gin.Context) {
	var req sentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Model == "" {
		req.Model = sentiment.ModelCryptobert
	}
	analyzer, err := s.Sentiments.Get(req.Model)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	results, err := analyzer.AnalyzeBatch(c.Request.Context(), req.Texts)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"model": req.Model, "results": results})
}

type analyzeRequest struct {
	Model   string `json:"model"`
	Source  string `json:"source"`
	Method  string `json:"method"`
	Channel string `json:"channel"`
	Limit   int    `json:"limit"`
}

type scoredPost struct {
	Uid        string  `json:"uid"`
	Source     string  `json:"source"`
	Label      string  `json:"label"`
	Score      float64 `json:"score"`
	HumanLabel *string `json:"human_label,omitempty"`
}

// analyzeHandler scores a slice of stored posts and, where human labels
// exist, reports how well the classifier agrees with them. Posts are append
// only so scores are returned, never written back.
func (s *Server) analyzeHandler(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Model == "" {
		req.Model = sentiment.ModelCryptobert
	}
	if req.Limit <= 0 {
		req.Limit = 500
	}

	posts, err := s.Store.Query(store.Filters{
		Source: req.Source, Method: req.Method, Channel: req.Channel, Limit: req.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(posts) == 0 {
		c.JSON(http.StatusOK, gin.H{"model": req.Model, "scored": 0, "posts": []scoredPost{}})
		return
	}

	analyzer, err := s.Sentiments.Get(req.Model)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	results, err := analyzer.AnalyzeBatch(c.Request.Context(), postTexts(posts))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	labels := make([]*string, len(posts))
	scored := make([]scoredPost, len(posts))
	for i := range posts {
		labels[i] = posts[i].HumanLabel
		scored[i] = scoredPost{
			Uid:        posts[i].Uid,
			Source:     posts[i].Source,
			Label:      results[i].Label,
			Score:      results[i].Score,
			HumanLabel: posts[i].HumanLabel,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"model":    req.Model,
		"scored":   len(scored),
		"accuracy": sentiment.Validate(results, labels),
		"posts":    scored,
	})
}

func (s *Server) pricesHandler(c *gin.Context) {
	asset := c.Param("asset")
	days, _ := strconv.Atoi(c.Query("days"))
	if days > 0 {
		points, err := s.Prices.GetHistorical(c.Request.Context(), asset, days)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"asset": asset, "days": days, "prices": points})
		return
	}
	quote, err := s.Prices.GetQuote(c.Request.Context(), asset)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}

type causalityRequest struct {
	Asset   string `json:"asset" binding:"required"`
	Model   string `json:"model"`
	Source  string `json:"source"`
	Channel string `json:"channel"`
	Days    int    `json:"days"`
	MaxLag  int    `json:"max_lag"`
}

// causalityHandler runs the full study for one asset: score stored posts,
// aggregate to a daily sentiment series, pull the daily price series, align
// the two, then test stationarity and Granger causality in both directions.
func (s *Server) causalityHandler(c *gin.Context) {
	var req causalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Model == "" {
		req.Model = sentiment.ModelCryptobert
	}
	if req.Days <= 0 {
		req.Days = 90
	}
	if req.MaxLag <= 0 {
		req.MaxLag = 3
	}

	posts, err := s.Store.Query(store.Filters{Source: req.Source, Channel: req.Channel})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(posts) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no posts collected for the requested filters"})
		return
	}

	analyzer, err := s.Sentiments.Get(req.Model)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	results, err := analyzer.AnalyzeBatch(c.Request.Context(), postTexts(posts))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = r.Score
	}

	priceSeries, err := s.Prices.GetHistorical(c.Request.Context(), req.Asset, req.Days)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	daily := econometrics.DailyMeanSentiment(posts, scores)
	dates, sentimentSeries, returns := econometrics.Align(daily, priceSeries)
	// Granger and VAR at max_lag p need more than 3p+1 overlapping days.
	if len(dates) <= 3*req.MaxLag+1 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "not enough overlapping days between sentiment and prices",
			"days":  len(dates),
		})
		return
	}

	adfSentiment, err := econometrics.ADF(sentimentSeries, 1)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	adfReturns, err := econometrics.ADF(returns, 1)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	sentToPrice, err := econometrics.Granger(sentimentSeries, returns, req.MaxLag)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	priceToSent, err := econometrics.Granger(returns, sentimentSeries, req.MaxLag)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	crossCorr, err := econometrics.CrossCorrelation(sentimentSeries, returns, req.MaxLag)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	varFit, err := econometrics.FitVAR(
		[]string{"sentiment", "returns"},
		[][]float64{sentimentSeries, returns}, req.MaxLag)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	Logger.Log.Infof("causality study for %s: %d posts, %d aligned days", req.Asset, len(posts), len(dates))
	c.JSON(http.StatusOK, gin.H{
		"asset":              req.Asset,
		"model":              req.Model,
		"posts":              len(posts),
		"aligned_days":       len(dates),
		"adf_sentiment":      adfSentiment,
		"adf_returns":        adfReturns,
		"sentiment_to_price": sentToPrice,
		"price_to_sentiment": priceToSent,
		"cross_correlation":  crossCorr,
		"var":                varFit,
	})
}

type compareModelsRequest struct {
	Source  string `json:"source"`
	Method  string `json:"method"`
	Channel string `json:"channel"`
	Limit   int    `json:"limit"`
}

// compareModelsHandler scores the same stored posts with both classifiers
// and reports per-model accuracy against human labels, plus how often the
// two models agree with each other.
func (s *Server) compareModelsHandler(c *gin.Context) {
	var req compareModelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 200
	}

	posts, err := s.Store.Query(store.Filters{
		Source: req.Source, Method: req.Method, Channel: req.Channel, Limit: req.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(posts) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no posts collected for the requested filters"})
		return
	}

	texts := postTexts(posts)
	labels := make([]*string, len(posts))
	for i := range posts {
		labels[i] = posts[i].HumanLabel
	}

	models := []string{sentiment.ModelFinbert, sentiment.ModelCryptobert}
	byModel := make(map[string][]sentiment.Result, len(models))
	report := gin.H{}
	for _, name := range models {
		analyzer, err := s.Sentiments.Get(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		results, err := analyzer.AnalyzeBatch(c.Request.Context(), texts)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		byModel[name] = results
		report[name] = gin.H{"accuracy": sentiment.Validate(results, labels)}
	}

	agreed := 0
	first, second := byModel[models[0]], byModel[models[1]]
	for i := range first {
		if first[i].Label == second[i].Label {
			agreed++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":             len(posts),
		"models":            report,
		"agreement_percent": 100 * float64(agreed) / float64(len(first)),
	})
}

// postTexts picks the body for scoring, falling back to the title for
// link-style posts without one.
func postTexts(posts []model.Post) []string {
	texts := make([]string, len(posts))
	for i := range posts {
		texts[i] = posts[i].Text
		if texts[i] == "" {
			texts[i] = posts[i].Title
		}
	}
	return texts
}
