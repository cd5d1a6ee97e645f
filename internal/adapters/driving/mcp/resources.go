package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Lingua resources.
	uriScheme = "lingua://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "articles",
		Name:        "articles",
		Description: "List of imported articles, newest first",
		MIMEType:    "application/json",
	}, s.handleArticlesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "articles/{articleId}/segments/{index}",
		Name:        "article-segment",
		Description: "One page of an article with its analysed items and translation",
		MIMEType:    "application/json",
	}, s.handleSegmentResource)
}

// handleArticlesResource returns a summary of every article.
func (s *Server) handleArticlesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	articles, err := s.ports.Library.ListArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}

	infos := make([]ArticleOutput, len(articles))
	for i := range articles {
		infos[i] = toArticleOutput(&articles[i])
	}

	return jsonResource(req.Params.URI, infos)
}

// handleSegmentResource returns one page of an article.
func (s *Server) handleSegmentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	articleID, index, ok := extractSegmentRef(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	seg, err := s.ports.Library.GetSegment(ctx, articleID, index)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting segment: %w", err)
	}

	return jsonResource(req.Params.URI, seg)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSegmentRef parses a URI like lingua://articles/{articleId}/segments/{index}.
func extractSegmentRef(uri string) (string, int, bool) {
	const prefix = uriScheme + "articles/"
	const middle = "/segments/"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return "", 0, false
	}

	articleID, rawIndex, ok := strings.Cut(rest, middle)
	if !ok || articleID == "" || strings.Contains(articleID, "/") {
		return "", 0, false
	}

	index, err := strconv.Atoi(rawIndex)
	if err != nil || index < 0 {
		return "", 0, false
	}
	return articleID, index, true
}
