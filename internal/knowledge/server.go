package knowledge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hsinyulu/mcp-playground/internal/log"
)

const (
	serverName    = "knowledge-assistant"
	serverVersion = "0.2.0"

	fetchTimeout  = 10 * time.Second
	fetchMaxChars = 10000
	userAgent     = "mcplab-knowledge/0.2"
)

// Server wires the knowledge store, research tools, resources, and
// prompts into an MCP server.
type Server struct {
	store  *Store
	logger log.Logger
	http   *http.Client
}

// NewServer builds the MCP server around the given store.
func NewServer(store *Store, logger log.Logger) *mcp.Server {
	if logger == nil {
		logger = log.NewNop()
	}
	s := &Server{
		store:  store,
		logger: logger,
		http:   &http.Client{Timeout: fetchTimeout},
	}

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	s.registerTools(server)
	s.registerResources(server)
	s.registerPrompts(server)
	return server
}

// schemaFor derives an input schema from a request struct. Schema
// derivation only fails on malformed struct tags, so a failure here is a
// programming error.
func schemaFor[T any]() *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("deriving schema: %v", err))
	}
	return schema
}

type searchWebInput struct {
	Query      string `json:"query" jsonschema:"the search query"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

type fetchWebpageInput struct {
	URL string `json:"url" jsonschema:"the webpage URL to fetch"`
}

type createNoteInput struct {
	Title   string   `json:"title" jsonschema:"title of the note"`
	Content string   `json:"content" jsonschema:"body of the note"`
	Tags    []string `json:"tags,omitempty" jsonschema:"optional tags for later filtering"`
}

type findNotesInput struct {
	Query string   `json:"query,omitempty" jsonschema:"text to match against note titles and contents"`
	Tags  []string `json:"tags,omitempty" jsonschema:"tags every matching note must carry"`
}

type generateDocInput struct {
	Title       string   `json:"title" jsonschema:"document title"`
	Sections    []string `json:"sections" jsonschema:"section headings in order"`
	ContentType string   `json:"content_type,omitempty" jsonschema:"document type, e.g. article or report (default article)"`
}

type emptyInput struct{}

func (s *Server) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_web",
		Description: "Search the web for information on a topic and return a list of results.",
		InputSchema: schemaFor[searchWebInput](),
	}, s.searchWeb)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fetch_webpage_content",
		Description: "Fetch a webpage and return its title and readable text content.",
		InputSchema: schemaFor[fetchWebpageInput](),
	}, s.fetchWebpage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_note",
		Description: "Save a note to the knowledge base.",
		InputSchema: schemaFor[createNoteInput](),
	}, s.createNote)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_notes",
		Description: "Search saved notes by text and tags.",
		InputSchema: schemaFor[findNotesInput](),
	}, s.findNotes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_markdown_doc",
		Description: "Generate a structured markdown document with the given sections.",
		InputSchema: schemaFor[generateDocInput](),
	}, s.generateDoc)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_resource_roots",
		Description: "List the resource domains this server exposes.",
		InputSchema: schemaFor[emptyInput](),
	}, s.resourceRoots)
}

// searchResult is one entry of a simulated web search. Real search needs
// an API key to some provider; for a demo tool the shape of the answer
// matters more than its truth.
type searchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

func (s *Server) searchWeb(ctx context.Context, req *mcp.CallToolRequest, in searchWebInput) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.Query) == "" {
		return errorResult("search_web: query must not be empty"), nil, nil
	}
	max := in.MaxResults
	if max <= 0 {
		max = 5
	}
	if max > 10 {
		max = 10
	}

	s.logger.DebugContext(ctx, "searching web", "query", in.Query, "max_results", max)

	results := make([]searchResult, 0, max)
	for i := 1; i <= max; i++ {
		results = append(results, searchResult{
			Title:   fmt.Sprintf("Result %d for '%s'", i, in.Query),
			URL:     fmt.Sprintf("https://example.com/search/%d", i),
			Snippet: fmt.Sprintf("This is a simulated search result %d about %s.", i, in.Query),
		})
	}

	result, err := jsonResult(map[string]any{
		"query":   in.Query,
		"results": results,
	})
	return result, nil, err
}

func (s *Server) fetchWebpage(ctx context.Context, req *mcp.CallToolRequest, in fetchWebpageInput) (*mcp.CallToolResult, any, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return errorResult("fetch_webpage_content: url must not be empty"), nil, nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return errorResult("fetch_webpage_content: url must start with http:// or https://"), nil, nil
	}

	// The canonical demo URL gets canned content so the tutorial works
	// offline.
	if strings.Contains(url, "example.com") {
		result, err := jsonResult(map[string]any{
			"url":     url,
			"title":   "Example Domain",
			"content": "This domain is for use in illustrative examples in documents.",
		})
		return result, nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errorResult("fetch_webpage_content: building request: %v", err), nil, nil
	}
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return errorResult("fetch_webpage_content: fetching %s: %v", url, err), nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorResult("fetch_webpage_content: %s returned status %d", url, resp.StatusCode), nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return errorResult("fetch_webpage_content: parsing %s: %v", url, err), nil, nil
	}

	doc.Find("script, style, noscript").Remove()
	title := strings.TrimSpace(doc.Find("title").First().Text())
	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if runes := []rune(text); len(runes) > fetchMaxChars {
		text = string(runes[:fetchMaxChars]) + "..."
	}

	s.logger.DebugContext(ctx, "fetched webpage", "url", url, "title", title, "chars", len(text))

	result, err := jsonResult(map[string]any{
		"url":     url,
		"title":   title,
		"content": text,
	})
	return result, nil, err
}

func (s *Server) createNote(ctx context.Context, req *mcp.CallToolRequest, in createNoteInput) (*mcp.CallToolResult, any, error) {
	note, err := s.store.CreateNote(in.Title, in.Content, in.Tags)
	if err != nil {
		return errorResult("create_note: %v", err), nil, nil
	}

	s.logger.InfoContext(ctx, "note created", "id", note.ID, "title", note.Title)

	result, err := jsonResult(map[string]any{
		"id":      note.ID,
		"title":   note.Title,
		"tags":    note.Tags,
		"message": fmt.Sprintf("Note '%s' saved with id %s.", note.Title, note.ID[:8]),
	})
	return result, nil, err
}

func (s *Server) findNotes(ctx context.Context, req *mcp.CallToolRequest, in findNotesInput) (*mcp.CallToolResult, any, error) {
	notes, err := s.store.SearchNotes(in.Query, in.Tags)
	if err != nil {
		return errorResult("find_notes: %v", err), nil, nil
	}

	result, err := jsonResult(map[string]any{
		"query": in.Query,
		"count": len(notes),
		"notes": Summaries(notes, true),
	})
	return result, nil, err
}

func (s *Server) generateDoc(ctx context.Context, req *mcp.CallToolRequest, in generateDocInput) (*mcp.CallToolResult, any, error) {
	if len(in.Sections) == 0 {
		return errorResult("generate_markdown_doc: at least one section is required"), nil, nil
	}

	info, markdown, err := s.store.CreateDocument(in.Title, in.Sections, in.ContentType)
	if err != nil {
		return errorResult("generate_markdown_doc: %v", err), nil, nil
	}

	s.logger.InfoContext(ctx, "document generated", "id", info.ID, "title", info.Title, "path", info.Path)

	result, err := jsonResult(map[string]any{
		"id":       info.ID,
		"title":    info.Title,
		"path":     info.Path,
		"markdown": markdown,
	})
	return result, nil, err
}

func (s *Server) resourceRoots(ctx context.Context, req *mcp.CallToolRequest, in emptyInput) (*mcp.CallToolResult, any, error) {
	result, err := jsonResult(map[string]any{
		"roots": s.store.Roots(),
		"uris": []string{
			"notes:list", "notes:id:<id>", "notes:search:<query>",
			"documents:list", "documents:id:<id>",
		},
	})
	return result, nil, err
}
