package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/consigliere/consigliere/models"
	"github.com/consigliere/consigliere/utils"
)

// Fallback used when the remote quote API is unreachable or returns garbage.
const (
	fallbackQuoteText   = "The impediment to action advances action. What stands in the way becomes the way."
	fallbackQuoteAuthor = "Marcus Aurelius"
)

// QuoteProvider yields the quote assigned to today. Narrow interface so the
// dashboard can be composed against a stub in tests.
type QuoteProvider interface {
	Today(ctx context.Context) (*models.DailyQuote, error)
}

// QuoteService assigns one quote per calendar date, shared by all users. The
// first request of a day fetches from the remote API and pins the result in
// the database; Redis shortcuts repeat reads for the rest of the day.
type QuoteService struct {
	db     *gorm.DB
	clock  Clock
	apiURL string
	client *http.Client
}

// NewQuoteService creates a QuoteService fetching from apiURL. An empty URL
// disables remote fetching and always pins the fallback quote.
func NewQuoteService(db *gorm.DB, clock Clock, apiURL string) *QuoteService {
	return &QuoteService{
		db:     db,
		clock:  clock,
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Today returns the quote for the current date, creating it if this is the
// first request of the day. Concurrent first requests race on the unique date
// index; the loser re-reads the winner's row.
func (s *QuoteService) Today(ctx context.Context) (*models.DailyQuote, error) {
	today := s.clock.Today()
	cacheKey := "cache:quote:" + today.Format("2006-01-02")

	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		var cached models.DailyQuote
		if err := json.Unmarshal(b, &cached); err == nil {
			return &cached, nil
		}
	}

	var quote models.DailyQuote
	err := s.db.WithContext(ctx).Where("date = ?", today).First(&quote).Error
	if err == nil {
		utils.CacheSetJSON(cacheKey, quote, 24*time.Hour)
		return &quote, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	text, author := s.fetch(ctx)
	quote = models.DailyQuote{Date: today, QuoteText: text, Author: author}
	if err := s.db.WithContext(ctx).Create(&quote).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Where("date = ?", today).First(&quote).Error; err != nil {
			return nil, err
		}
	}
	utils.CacheSetJSON(cacheKey, quote, 24*time.Hour)
	return &quote, nil
}

type quotePayload struct {
	Content string `json:"content"`
	Quote   string `json:"quote"`
	Author  string `json:"author"`
}

// fetch pulls a quote from the remote API, falling back to the built-in one
// on any failure. The API may answer with a single object or a one-element
// array depending on endpoint.
func (s *QuoteService) fetch(ctx context.Context) (string, string) {
	if s.apiURL == "" {
		return fallbackQuoteText, fallbackQuoteAuthor
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL, nil)
	if err != nil {
		return fallbackQuoteText, fallbackQuoteAuthor
	}
	resp, err := s.client.Do(req)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("quote api fetch failed: %v", err)
		}
		return fallbackQuoteText, fallbackQuoteAuthor
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fallbackQuoteText, fallbackQuoteAuthor
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fallbackQuoteText, fallbackQuoteAuthor
	}

	var payload quotePayload
	var list []quotePayload
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
		payload = list[0]
	} else if err := json.Unmarshal(body, &payload); err != nil {
		return fallbackQuoteText, fallbackQuoteAuthor
	}

	text := payload.Content
	if text == "" {
		text = payload.Quote
	}
	if text == "" {
		return fallbackQuoteText, fallbackQuoteAuthor
	}
	return text, payload.Author
}
