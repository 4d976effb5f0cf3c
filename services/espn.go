package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"nfl-pickems-go/logging"
)

// ScoreFeed is the read-only interface to the external scoreboard. The
// game updater and game service depend on this rather than the concrete
// ESPN client.
type ScoreFeed interface {
	CurrentWeek(ctx context.Context) (int, error)
	GamesForWeek(ctx context.Context, week int) ([]FeedGame, error)
}

// FeedGame is a normalized record from the scoreboard feed. Scores are
// nil when the feed did not report them.
type FeedGame struct {
	ESPNID    string
	Week      int
	HomeTeam  string
	AwayTeam  string
	StartTime time.Time
	HomeScore *int
	AwayScore *int
	Completed bool
}

// ESPNClient fetches NFL scoreboard data from ESPN's public API. The
// feed is untrusted; every field is parsed defensively. A rate limiter
// enforces a minimum delay between requests.
type ESPNClient struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	logger  *logging.Logger
}

// NewESPNClient creates a new ESPN scoreboard client
func NewESPNClient() *ESPNClient {
	return &ESPNClient{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard",
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  logging.WithPrefix("ESPNClient"),
	}
}

// ESPN API response structures
type espnResponse struct {
	Week   espnWeek    `json:"week"`
	Events []espnEvent `json:"events"`
}

type espnWeek struct {
	Number int `json:"number"`
}

type espnEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Week         espnWeek          `json:"week"`
	Status       espnStatus        `json:"status"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnStatus struct {
	Type espnStatusType `json:"type"`
}

type espnStatusType struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Completed bool   `json:"completed"`
}

type espnCompetition struct {
	Competitors []espnCompetitor `json:"competitors"`
}

type espnCompetitor struct {
	HomeAway string   `json:"homeAway"`
	Score    string   `json:"score"`
	Team     espnTeam `json:"team"`
}

type espnTeam struct {
	Abbreviation string `json:"abbreviation"`
}

func (e *ESPNClient) fetch(ctx context.Context, url string) (*espnResponse, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ESPN data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ESPN API returned status %d", resp.StatusCode)
	}

	var parsed espnResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode ESPN response: %w", err)
	}
	return &parsed, nil
}

// CurrentWeek returns the current NFL week number reported by the feed
func (e *ESPNClient) CurrentWeek(ctx context.Context) (int, error) {
	resp, err := e.fetch(ctx, e.baseURL)
	if err != nil {
		return 0, fmt.Errorf("failed to get current week: %w", err)
	}

	if resp.Week.Number < 1 {
		return 1, nil
	}
	return resp.Week.Number, nil
}

// GamesForWeek fetches normalized game records for a regular-season week
func (e *ESPNClient) GamesForWeek(ctx context.Context, week int) ([]FeedGame, error) {
	url := fmt.Sprintf("%s?week=%d&seasontype=2&limit=100", e.baseURL, week)

	e.logger.Debugf("Fetching scoreboard for week %d", week)
	resp, err := e.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for week %d: %w", week, err)
	}

	games := make([]FeedGame, 0, len(resp.Events))
	for _, event := range resp.Events {
		game, ok := e.convertEvent(event, week)
		if !ok {
			continue
		}
		games = append(games, game)
	}

	e.logger.Debugf("Week %d: %d of %d events converted", week, len(games), len(resp.Events))
	return games, nil
}

// convertEvent normalizes a single event; malformed events are skipped
func (e *ESPNClient) convertEvent(event espnEvent, week int) (FeedGame, bool) {
	if event.ID == "" || len(event.Competitions) == 0 {
		e.logger.Warnf("Skipping event with missing id or competitions")
		return FeedGame{}, false
	}

	competition := event.Competitions[0]
	if len(competition.Competitors) < 2 {
		e.logger.Warnf("Skipping event %s with %d competitors", event.ID, len(competition.Competitors))
		return FeedGame{}, false
	}

	startTime, err := parseFeedTime(event.Date)
	if err != nil {
		e.logger.Warnf("Skipping event %s with unparseable date %q: %v", event.ID, event.Date, err)
		return FeedGame{}, false
	}

	game := FeedGame{
		ESPNID:    event.ID,
		Week:      week,
		StartTime: startTime,
		Completed: event.Status.Type.Completed,
	}
	if event.Week.Number > 0 {
		game.Week = event.Week.Number
	}

	for _, competitor := range competition.Competitors {
		score := parseFeedScore(competitor.Score)
		switch competitor.HomeAway {
		case "home":
			game.HomeTeam = competitor.Team.Abbreviation
			game.HomeScore = score
		case "away":
			game.AwayTeam = competitor.Team.Abbreviation
			game.AwayScore = score
		}
	}

	if game.HomeTeam == "" || game.AwayTeam == "" {
		e.logger.Warnf("Skipping event %s with missing team abbreviation", event.ID)
		return FeedGame{}, false
	}

	return game, true
}

// parseFeedTime parses ESPN kickoff timestamps, which appear both with
// and without seconds ("2024-09-08T00:20Z" and "2024-09-08T00:20:00Z").
func parseFeedTime(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04Z", value)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05Z", value)
}

func parseFeedScore(value string) *int {
	if value == "" {
		return nil
	}
	score, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &score
}
