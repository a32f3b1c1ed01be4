package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Resource URIs follow a colon-separated grammar:
//
//	notes:list            all note summaries
//	notes:id:<id>         one note as markdown
//	notes:search:<query>  summaries matching a query
//	documents:list        all generated documents
//	documents:id:<id>     one document as markdown
const resourceGrammar = "notes:list, notes:id:<id>, notes:search:<query>, documents:list, documents:id:<id>"

func (s *Server) registerResources(server *mcp.Server) {
	server.AddResource(&mcp.Resource{
		URI:         "notes:list",
		Name:        "All notes",
		Description: "Summaries of every saved note, newest first.",
		MIMEType:    "application/json",
	}, s.readResource)

	server.AddResource(&mcp.Resource{
		URI:         "documents:list",
		Name:        "All documents",
		Description: "Every generated document, newest first.",
		MIMEType:    "application/json",
	}, s.readResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "notes:id:{id}",
		Name:        "Note by id",
		Description: "One note rendered as markdown. Short 8-character ids work.",
		MIMEType:    "text/markdown",
	}, s.readResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "notes:search:{query}",
		Name:        "Note search",
		Description: "Summaries of notes whose title or content matches the query.",
		MIMEType:    "application/json",
	}, s.readResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "documents:id:{id}",
		Name:        "Document by id",
		Description: "One generated document as markdown.",
		MIMEType:    "text/markdown",
	}, s.readResource)
}

// readResource dispatches every resource URI through the grammar above.
// A single handler keeps the dispatch table in one place.
func (s *Server) readResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	domain, rest, _ := strings.Cut(uri, ":")

	switch domain {
	case "notes":
		return s.readNotesResource(uri, rest)
	case "documents":
		return s.readDocumentsResource(uri, rest)
	default:
		return nil, fmt.Errorf("unknown resource %q; valid patterns: %s", uri, resourceGrammar)
	}
}

func (s *Server) readNotesResource(uri, rest string) (*mcp.ReadResourceResult, error) {
	op, arg, _ := strings.Cut(rest, ":")

	switch op {
	case "list":
		notes, err := s.store.Notes()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", uri, err)
		}
		return jsonContents(uri, Summaries(notes, true))

	case "id":
		if arg == "" {
			return nil, fmt.Errorf("resource %q is missing a note id", uri)
		}
		note, err := s.store.GetNote(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", uri, err)
		}
		return markdownContents(uri, renderNote(note)), nil

	case "search":
		if arg == "" {
			return nil, fmt.Errorf("resource %q is missing a search query", uri)
		}
		notes, err := s.store.SearchNotes(arg, nil)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", uri, err)
		}
		return jsonContents(uri, Summaries(notes, true))

	default:
		return nil, fmt.Errorf("unknown resource %q; valid patterns: %s", uri, resourceGrammar)
	}
}

func (s *Server) readDocumentsResource(uri, rest string) (*mcp.ReadResourceResult, error) {
	op, arg, _ := strings.Cut(rest, ":")

	switch op {
	case "list":
		docs, err := s.store.Documents()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", uri, err)
		}
		if docs == nil {
			docs = []DocumentInfo{}
		}
		return jsonContents(uri, docs)

	case "id":
		if arg == "" {
			return nil, fmt.Errorf("resource %q is missing a document id", uri)
		}
		content, err := s.store.GetDocument(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", uri, err)
		}
		return markdownContents(uri, content), nil

	default:
		return nil, fmt.Errorf("unknown resource %q; valid patterns: %s", uri, resourceGrammar)
	}
}

// renderNote formats a note as a small markdown record.
func renderNote(n *Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.Title)
	if len(n.Tags) > 0 {
		fmt.Fprintf(&b, "*Tags: %s*\n\n", strings.Join(n.Tags, ", "))
	}
	b.WriteString(n.Content)
	fmt.Fprintf(&b, "\n\n---\n*Created %s, updated %s*\n",
		n.CreatedAt.Format("2006-01-02 15:04"),
		n.UpdatedAt.Format("2006-01-02 15:04"))
	return b.String()
}

// jsonContents encodes v for a resource read. Callers pass non-nil
// slices so an empty listing encodes as "[]", not "null".
func jsonContents(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func markdownContents(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     text,
		}},
	}
}
