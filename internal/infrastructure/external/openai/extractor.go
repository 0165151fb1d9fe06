// Package openai provides the optional model-backed extractor consulted when the rule-based
// parser finds nothing in an utterance.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/shop-ledger/internal/application/port"
	"github.com/garyjia/shop-ledger/internal/domain/entity"
	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNoChoices is returned when the API answers without a message
var ErrNoChoices = errors.New("no response from OpenAI")

// Config holds the extractor settings
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Currency    string
}

// chatClient is the part of *openai.Client the extractor uses
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Extractor implements port.CommandExtractor using the chat completions API
type Extractor struct {
	client  chatClient
	cfg     Config
	prompts *PromptConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewExtractor creates an extractor. prompts may be nil to use the built-in prompts.
func NewExtractor(cfg Config, prompts *PromptConfig, logger *zap.Logger) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return newExtractor(openai.NewClientWithConfig(clientCfg), cfg, prompts, logger)
}

func newExtractor(client chatClient, cfg Config, prompts *PromptConfig, logger *zap.Logger) *Extractor {
	if prompts == nil {
		prompts = DefaultPrompts()
	}
	return &Extractor{
		client:  client,
		cfg:     cfg,
		prompts: prompts,
		logger:  logger,
		now:     time.Now,
	}
}

type extractedEntry struct {
	Item  string  `json:"item"`
	Qty   float64 `json:"qty"`
	Unit  string  `json:"unit"`
	Price float64 `json:"price"`
	Type  string  `json:"type"`
}

type extractionResponse struct {
	Entries []extractedEntry `json:"entries"`
}

// ExtractEntries asks the model for ledger lines in text
func (e *Extractor) ExtractEntries(ctx context.Context, text string) ([]entity.ParsedEntry, error) {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	prompt, err := renderTemplate(e.prompts.EntryExtraction.UserTemplate, map[string]string{
		"Text":     text,
		"Currency": e.cfg.Currency,
	})
	if err != nil {
		return nil, err
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: e.prompts.EntryExtraction.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		e.logger.Error("OpenAI API call failed", zap.Error(err))
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	content := resp.Choices[0].Message.Content
	var result extractionResponse
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		jsonStr := extractJSON(content)
		if jsonStr == "" || json.Unmarshal([]byte(jsonStr), &result) != nil {
			e.logger.Error("Failed to parse OpenAI response",
				zap.Error(err),
				zap.String("content", content))
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	entries := e.toEntries(text, result.Entries)
	e.logger.Info("Extracted entries with OpenAI",
		zap.String("model", e.cfg.Model),
		zap.Int("entries", len(entries)))
	return entries, nil
}

func (e *Extractor) toEntries(text string, extracted []extractedEntry) []entity.ParsedEntry {
	now := e.now()
	caser := cases.Title(language.English)
	entries := make([]entity.ParsedEntry, 0, len(extracted))
	for _, x := range extracted {
		item := strings.TrimSpace(x.Item)
		if item == "" {
			continue
		}
		qty := x.Qty
		if qty <= 0 {
			qty = 1
		}
		price := x.Price
		if price < 0 {
			price = 0
		}
		entryType := entity.EntryType(strings.ToLower(strings.TrimSpace(x.Type)))
		if !entryType.IsValid() {
			entryType = entity.CashIn
		}
		total, _ := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price)).Round(2).Float64()

		entries = append(entries, entity.ParsedEntry{
			Item:            caser.String(item),
			Qty:             qty,
			Unit:            strings.ToLower(strings.TrimSpace(x.Unit)),
			Price:           price,
			Total:           total,
			Type:            entryType,
			SourceText:      text,
			TransactionDate: now,
			PriceSource:     entity.PriceSourceParsed,
		})
	}
	return entries
}

// extractJSON returns the outermost {...} object in content, for answers wrapped in prose
func extractJSON(content string) string {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

var _ port.CommandExtractor = (*Extractor)(nil)
