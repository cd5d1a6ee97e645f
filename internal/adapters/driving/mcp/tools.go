package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// defaultQueryLimit caps query_flashcards when no limit is given.
const defaultQueryLimit = 50

// QueryInput is the input schema for the query_flashcards tool.
type QueryInput struct {
	ArticleID string `json:"article_id,omitempty" jsonschema:"restrict to cards from one article"`
	Type      string `json:"type,omitempty" jsonschema:"word type: vocabulary, grammar, literary or historical"`
	Level     string `json:"level,omitempty" jsonschema:"CEFR level such as B2"`
	Search    string `json:"search,omitempty" jsonschema:"case-insensitive substring of the headword or Persian translation"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of cards (default 50)"`
	Offset    int    `json:"offset,omitempty" jsonschema:"number of cards to skip"`
}

// SessionInput is the input schema for the session_cards tool.
type SessionInput struct {
	Mode      string `json:"mode,omitempty" jsonschema:"due (default), new or all"`
	ArticleID string `json:"article_id,omitempty" jsonschema:"restrict to cards from one article"`
	Type      string `json:"type,omitempty" jsonschema:"word type"`
	Level     string `json:"level,omitempty" jsonschema:"CEFR level"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of cards (default: configured session size)"`
}

// ReviewInput is the input schema for the review_card tool.
type ReviewInput struct {
	CardID  string `json:"card_id" jsonschema:"the flashcard ID"`
	Quality int    `json:"quality" jsonschema:"recall quality from 0 (forgot) to 5 (perfect); 3 or more passes"`
}

// ListArticlesInput is the input schema for the list_articles tool.
type ListArticlesInput struct{}

// CardsOutput is the output schema for tools returning flashcards.
type CardsOutput struct {
	Cards []CardOutput `json:"cards"`
	Count int          `json:"count"`
}

// CardOutput represents a single flashcard.
type CardOutput struct {
	ID                 string `json:"id"`
	ArticleID          string `json:"article_id"`
	Word               string `json:"word"`
	Lemma              string `json:"lemma"`
	Type               string `json:"type"`
	Level              string `json:"level"`
	Definition         string `json:"definition,omitempty"`
	PersianTranslation string `json:"persian_translation,omitempty"`
	ExampleSentence    string `json:"example_sentence,omitempty"`
	Stage              int    `json:"stage"`
	NextReview         int64  `json:"next_review"`
}

// ArticlesOutput is the output schema for the list_articles tool.
type ArticlesOutput struct {
	Articles []ArticleOutput `json:"articles"`
	Count    int             `json:"count"`
}

// ArticleOutput summarises one article.
type ArticleOutput struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Pages        int    `json:"pages"`
	Analyzed     int    `json:"analyzed"`
	CollectionID string `json:"collection_id,omitempty"`
	ProcessedAt  int64  `json:"processed_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_flashcards",
		Description: "Search flashcards by article, type, level and text, sorted by headword",
	}, s.handleQueryFlashcards)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "session_cards",
		Description: "Pick a shuffled set of flashcards for a study session",
	}, s.handleSessionCards)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "review_card",
		Description: "Record a review of a flashcard and reschedule it",
	}, s.handleReviewCard)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_articles",
		Description: "List imported articles, newest first",
	}, s.handleListArticles)
}

func (s *Server) handleQueryFlashcards(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, CardsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	cards, err := s.ports.Flashcards.Query(ctx, domain.FlashcardQuery{
		ArticleID: input.ArticleID,
		Type:      input.Type,
		Level:     input.Level,
		Search:    input.Search,
		Limit:     limit,
		Offset:    input.Offset,
	})
	if err != nil {
		return nil, CardsOutput{}, err
	}
	return nil, toCardsOutput(cards), nil
}

func (s *Server) handleSessionCards(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, CardsOutput, error) {
	mode := domain.SessionMode(input.Mode)
	if input.Mode == "" {
		mode = domain.SessionDue
	}
	if !mode.IsValid() {
		return nil, CardsOutput{}, fmt.Errorf("%w: unknown session mode %q", domain.ErrInvalidInput, input.Mode)
	}

	cards, err := s.ports.Flashcards.CardsForSession(ctx, mode, domain.SessionFilters{
		ArticleID: input.ArticleID,
		Type:      input.Type,
		Level:     input.Level,
	}, input.Limit)
	if err != nil {
		return nil, CardsOutput{}, err
	}
	return nil, toCardsOutput(cards), nil
}

func (s *Server) handleReviewCard(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReviewInput,
) (*mcp.CallToolResult, CardOutput, error) {
	if s.ports.Review == nil {
		return nil, CardOutput{}, ErrReviewUnavailable
	}

	card, err := s.ports.Review.Review(ctx, input.CardID, input.Quality)
	if err != nil {
		return nil, CardOutput{}, err
	}
	return nil, toCardOutput(card), nil
}

func (s *Server) handleListArticles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListArticlesInput,
) (*mcp.CallToolResult, ArticlesOutput, error) {
	articles, err := s.ports.Library.ListArticles(ctx)
	if err != nil {
		return nil, ArticlesOutput{}, err
	}

	output := ArticlesOutput{
		Articles: make([]ArticleOutput, len(articles)),
		Count:    len(articles),
	}
	for i := range articles {
		output.Articles[i] = toArticleOutput(&articles[i])
	}
	return nil, output, nil
}

func toCardsOutput(cards []domain.Flashcard) CardsOutput {
	output := CardsOutput{
		Cards: make([]CardOutput, len(cards)),
		Count: len(cards),
	}
	for i := range cards {
		output.Cards[i] = toCardOutput(&cards[i])
	}
	return output
}

func toCardOutput(card *domain.Flashcard) CardOutput {
	return CardOutput{
		ID:                 card.ID,
		ArticleID:          card.ArticleID,
		Word:               card.Word,
		Lemma:              card.Lemma,
		Type:               card.Type.String(),
		Level:              card.Level,
		Definition:         card.Definition,
		PersianTranslation: card.PersianTranslation,
		ExampleSentence:    card.ExampleSentence,
		Stage:              card.Stage,
		NextReview:         int64(card.NextReview),
	}
}

func toArticleOutput(a *domain.Article) ArticleOutput {
	return ArticleOutput{
		ID:           a.ID,
		Title:        a.Title,
		Pages:        a.SegmentCount(),
		Analyzed:     a.AnalyzedCount(),
		CollectionID: a.CollectionID,
		ProcessedAt:  int64(a.ProcessedAt),
	}
}
