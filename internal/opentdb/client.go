package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"time"

	"github.com/quizden/triviaroom-go/internal/dependencies/random"
	"github.com/quizden/triviaroom-go/internal/model"
)

// DefaultBaseURL is the public Open Trivia Database endpoint
const DefaultBaseURL = "https://opentdb.com/api.php"

// Client fetches multiple-choice questions from the Open Trivia Database.
// Answer options are shuffled exactly once here; their order is the display
// order for the whole round.
type Client struct {
	baseURL    string
	httpClient *http.Client
	random     random.Random
}

// NewClient creates a question fetch client
func NewClient(baseURL string, rnd random.Random) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		random:     rnd,
	}
}

// Response codes defined by the Open Trivia DB API
const (
	codeSuccess   = 0
	codeNoResults = 1
	codeInvalid   = 2
	codeRateLimit = 5
)

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []apiQuestion `json:"results"`
}

type apiQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// FetchQuestions retrieves amount multiple-choice questions. category <= 0
// means any category; DifficultyMixed means any difficulty.
func (c *Client) FetchQuestions(ctx context.Context, amount, category int, difficulty model.Difficulty) ([]model.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(amount, category, difficulty), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trivia questions: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trivia API returned HTTP %d", resp.StatusCode)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to parse trivia response: %w", err)
	}

	switch decoded.ResponseCode {
	case codeSuccess:
	case codeNoResults:
		return nil, fmt.Errorf("trivia API has no questions for these settings")
	case codeRateLimit:
		return nil, fmt.Errorf("trivia API rate limit exceeded")
	default:
		return nil, fmt.Errorf("trivia API error (response_code %d)", decoded.ResponseCode)
	}

	questions := make([]model.Question, 0, len(decoded.Results))
	for _, raw := range decoded.Results {
		questions = append(questions, c.convert(raw))
	}
	return questions, nil
}

func (c *Client) buildURL(amount, category int, difficulty model.Difficulty) string {
	params := url.Values{}
	params.Set("amount", fmt.Sprintf("%d", amount))
	params.Set("type", "multiple")
	if category > 0 {
		params.Set("category", fmt.Sprintf("%d", category))
	}
	if difficulty != "" && difficulty != model.DifficultyMixed {
		params.Set("difficulty", string(difficulty))
	}
	return c.baseURL + "?" + params.Encode()
}

// convert unescapes the API's HTML entities and fixes the option order for
// the round
func (c *Client) convert(raw apiQuestion) model.Question {
	correct := html.UnescapeString(raw.CorrectAnswer)
	options := make([]string, 0, len(raw.IncorrectAnswers)+1)
	for _, a := range raw.IncorrectAnswers {
		options = append(options, html.UnescapeString(a))
	}
	options = append(options, correct)
	c.random.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return model.Question{
		Prompt:        html.UnescapeString(raw.Question),
		Options:       options,
		CorrectAnswer: correct,
		Difficulty:    model.Difficulty(raw.Difficulty),
		Category:      html.UnescapeString(raw.Category),
	}
}
