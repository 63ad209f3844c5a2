package n8n

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultCatalogURL serves the public node and template catalog. It needs no
// API key.
const DefaultCatalogURL = "https://api.n8n.io/api"

// ErrNodeTypeNotFound is returned by Catalog.GetNode.
var ErrNodeTypeNotFound = errors.New("node type not found")

// Catalog reads the unauthenticated public catalog.
type Catalog struct {
	client  *Client
	baseURL string
}

// NewCatalog creates a catalog reader. An empty baseURL uses DefaultCatalogURL.
func NewCatalog(client *Client, baseURL string) *Catalog {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultCatalogURL
	}
	return &Catalog{client: client, baseURL: baseURL}
}

// ListNodes fetches every node type in the catalog.
func (c *Catalog) ListNodes(ctx context.Context) ([]NodeType, error) {
	res := c.client.CallURL(ctx, "", http.MethodGet, JoinURL(c.baseURL, "nodes"), nil)
	if !res.OK() {
		return nil, fmt.Errorf("failed to fetch node catalog: %w", res.Err)
	}

	// The catalog has answered both with a bare array and with {data: [...]}.
	var nodes []NodeType
	if err := res.Decode(&nodes); err == nil {
		return nodes, nil
	}
	var page Page[NodeType]
	if err := res.Decode(&page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// SearchNodes ranks catalog node types against query by fuzzy match on name
// and display name, best match first.
func (c *Catalog) SearchNodes(ctx context.Context, query string, limit int) ([]NodeType, error) {
	nodes, err := c.ListNodes(ctx)
	if err != nil {
		return nil, err
	}
	return RankNodes(nodes, query, limit), nil
}

// RankNodes is the ranking step of SearchNodes.
func RankNodes(nodes []NodeType, query string, limit int) []NodeType {
	query = strings.TrimSpace(query)
	if query == "" {
		return headNodes(nodes, limit)
	}

	keys := make([]string, len(nodes))
	for i, n := range nodes {
		keys[i] = n.DisplayName + " " + n.Name
	}

	ranks := fuzzy.RankFindFold(query, keys)
	sort.Stable(ranks)

	out := make([]NodeType, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, nodes[r.OriginalIndex])
	}

	// Fall back to description matches so "send mail" still finds Gmail.
	if len(out) == 0 {
		q := strings.ToLower(query)
		for _, n := range nodes {
			if strings.Contains(strings.ToLower(n.Description), q) {
				out = append(out, n)
			}
		}
	}

	return headNodes(out, limit)
}

// GetNode returns the catalog entry for a node type such as
// "n8n-nodes-base.webhook". A bare suffix ("webhook") also matches.
func (c *Catalog) GetNode(ctx context.Context, nodeType string) (*NodeType, error) {
	nodes, err := c.ListNodes(ctx)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(nodeType))
	for i := range nodes {
		if strings.ToLower(nodes[i].Name) == want {
			return &nodes[i], nil
		}
	}
	for i := range nodes {
		name := strings.ToLower(nodes[i].Name)
		if idx := strings.LastIndex(name, "."); idx >= 0 && name[idx+1:] == want {
			return &nodes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNodeTypeNotFound, nodeType)
}

// SearchTemplates queries the template search endpoint.
func (c *Catalog) SearchTemplates(ctx context.Context, query, category string, limit int) ([]Template, int, error) {
	q := url.Values{}
	q.Set("search", query)
	if category != "" {
		q.Set("category", category)
	}
	if limit > 0 {
		q.Set("rows", strconv.Itoa(limit))
	}

	res := c.client.CallURL(ctx, "", http.MethodGet, JoinURL(c.baseURL, "templates/search")+"?"+q.Encode(), nil)
	if !res.OK() {
		return nil, 0, fmt.Errorf("failed to search templates: %w", res.Err)
	}

	var body struct {
		TotalWorkflows int        `json:"totalWorkflows"`
		Workflows      []Template `json:"workflows"`
	}
	if err := res.Decode(&body); err != nil {
		return nil, 0, err
	}
	return body.Workflows, body.TotalWorkflows, nil
}

// GetTemplate fetches one template including its workflow definition.
func (c *Catalog) GetTemplate(ctx context.Context, id string) (map[string]interface{}, error) {
	res := c.client.CallURL(ctx, "", http.MethodGet, JoinURL(c.baseURL, "templates/workflows/"+PathEscape(id)), nil)
	if !res.OK() {
		return nil, fmt.Errorf("failed to fetch template %s: %w", id, res.Err)
	}

	obj := res.Object()
	if obj == nil {
		return nil, fmt.Errorf("unexpected template response for %s", id)
	}
	if inner, ok := obj["workflow"].(map[string]interface{}); ok {
		return inner, nil
	}
	return obj, nil
}

func headNodes(nodes []NodeType, limit int) []NodeType {
	if limit > 0 && len(nodes) > limit {
		return nodes[:limit]
	}
	return nodes
}
