package commands

import (
	"context"
	"strings"

	"packbrowser/internal/application"
)

// SearchResult is one ranked match
type SearchResult struct {
	Name   string
	Path   string
	IsDir  bool
	Prefix bool // matched at the start of the name
}

// SearchCommand searches entry names below the browsing root
type SearchCommand struct {
	session *application.Session
	Query   string
	Limit   int // 0 means no limit
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(session *application.Session, query string, limit int) *SearchCommand {
	return &SearchCommand{
		session: session,
		Query:   query,
		Limit:   limit,
	}
}

// Execute runs the search command. Prefix matches come before substring
// matches; ties keep tree order.
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if err := application.ValidateRequired("query", c.Query); err != nil {
		return nil, err
	}

	matches := c.session.SearchAll(c.Query)
	if len(matches) == 0 {
		return nil, application.ErrNoResults
	}
	if c.Limit > 0 && len(matches) > c.Limit {
		matches = matches[:c.Limit]
	}

	query := strings.ToLower(strings.TrimSpace(c.Query))
	results := make([]SearchResult, 0, len(matches))
	for _, node := range matches {
		results = append(results, SearchResult{
			Name:   node.Name,
			Path:   node.Path,
			IsDir:  node.IsDir(),
			Prefix: strings.HasPrefix(strings.ToLower(node.Name), query),
		})
	}
	return results, nil
}
