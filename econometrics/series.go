package econometrics

import (
	"sort"
	"time"

	"github.com/cryptopulse/cryptopulse/model"
	"github.com/cryptopulse/cryptopulse/prices"
)

type SentimentPoint struct {
	Date  time.Time `json:"date"`
	Mean  float64   `json:"mean"`
	Count int       `json:"count"`
}

// DailyMeanSentiment buckets posts by UTC day and averages their sentiment
// scores. Scores are parallel to posts (the pipeline computes them on the
// fly, posts are stored append only without one). Posts without a creation
// time fall back to the scrape time.
func DailyMeanSentiment(posts []model.Post, scores []float64) []SentimentPoint {
	type bucket struct {
		sum   float64
		count int
	}
	n := len(posts)
	if len(scores) < n {
		n = len(scores)
	}
	buckets := make(map[time.Time]*bucket)
	for i := 0; i < n; i++ {
		ts := posts[i].CreatedAt
		if ts.IsZero() {
			ts = posts[i].ScrapedAt
		}
		if ts.IsZero() {
			continue
		}
		day := ts.UTC().Truncate(24 * time.Hour)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.sum += scores[i]
		b.count++
	}

	points := make([]SentimentPoint, 0, len(buckets))
	for day, b := range buckets {
		points = append(points, SentimentPoint{
			Date:  day,
			Mean:  b.sum / float64(b.count),
			Count: b.count,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// Align pairs daily sentiment with daily price returns on the days both
// are observed. The return on day d is price[d]/price[d-1] - 1, so a day
// only qualifies when the price series also covers the previous day.
func Align(sentiment []SentimentPoint, priceSeries []prices.PricePoint) (dates []time.Time, sentimentOut, returns []float64) {
	priceByDay := make(map[time.Time]float64, len(priceSeries))
	for _, p := range priceSeries {
		priceByDay[p.Date.UTC().Truncate(24*time.Hour)] = p.Price
	}

	for _, s := range sentiment {
		day := s.Date
		price, ok := priceByDay[day]
		if !ok {
			continue
		}
		prev, ok := priceByDay[day.AddDate(0, 0, -1)]
		if !ok || prev == 0 {
			continue
		}
		dates = append(dates, day)
		sentimentOut = append(sentimentOut, s.Mean)
		returns = append(returns, price/prev-1)
	}
	return dates, sentimentOut, returns
}
