// Package recommender is a reference implementation of the chat service. It
// matches free text against the menu sent with each request and answers with
// a reply and the recommended subset.
package recommender

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"orderbot/internal/chat"
	"orderbot/internal/models"
)

// DefaultLimit caps the number of recommended dishes
const DefaultLimit = 5

// Engine turns a message and a menu into a reply
type Engine interface {
	Name() string
	Recommend(ctx context.Context, message string, menu []models.MenuItem) (*chat.Response, error)
}

var stopWords = map[string]bool{
	"and": true, "any": true, "are": true, "can": true, "eat": true,
	"for": true, "get": true, "give": true, "have": true, "like": true,
	"please": true, "some": true, "something": true, "the": true, "want": true,
	"what": true, "with": true, "would": true, "you": true, "show": true,
}

// KeywordEngine scores dishes by word overlap with the message
type KeywordEngine struct {
	limit int
}

// NewKeywordEngine creates a keyword engine. A limit below 1 uses DefaultLimit.
func NewKeywordEngine(limit int) *KeywordEngine {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &KeywordEngine{limit: limit}
}

func (e *KeywordEngine) Name() string {
	return "keyword"
}

// Recommend returns matching dishes, or the top rated ones when nothing matches.
func (e *KeywordEngine) Recommend(ctx context.Context, message string, menu []models.MenuItem) (*chat.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(menu) == 0 {
		return &chat.Response{
			Response:        "The menu is not available right now. Please try again later.",
			RecommendedMenu: []models.MenuItem{},
		}, nil
	}

	terms := keywords(message)
	type scored struct {
		item  models.MenuItem
		score int
	}
	var matches []scored
	for _, item := range menu {
		title := strings.ToLower(item.Title)
		desc := strings.ToLower(item.Description)
		score := 0
		for _, term := range terms {
			if strings.Contains(title, term) {
				score += 2
			} else if strings.Contains(desc, term) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{item: item, score: score})
		}
	}

	if len(matches) == 0 {
		return &chat.Response{
			Response:        "I couldn't find an exact match, so here are our top rated dishes.",
			RecommendedMenu: topRated(menu, e.limit),
		}, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].item.Rating > matches[j].item.Rating
	})
	if len(matches) > e.limit {
		matches = matches[:e.limit]
	}

	items := make([]models.MenuItem, len(matches))
	titles := make([]string, len(matches))
	for i, m := range matches {
		items[i] = m.item
		titles[i] = m.item.Title
	}
	return &chat.Response{
		Response:        fmt.Sprintf("Here are some dishes you might enjoy: %s.", strings.Join(titles, ", ")),
		RecommendedMenu: items,
	}, nil
}

// keywords lowercases the message, drops short and common words and trims
// plural endings.
func keywords(message string) []string {
	fields := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 3 || stopWords[f] {
			continue
		}
		if len(f) > 3 && strings.HasSuffix(f, "s") {
			f = strings.TrimSuffix(f, "s")
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}

func topRated(menu []models.MenuItem, limit int) []models.MenuItem {
	items := make([]models.MenuItem, len(menu))
	copy(items, menu)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Rating > items[j].Rating
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
