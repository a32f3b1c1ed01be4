// Package knowledge implements the personal knowledge assistant MCP
// server: research tools, file-backed notes and generated documents,
// URI-addressable resources, and reusable prompt templates.
package knowledge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
)

var (
	// ErrNoteNotFound indicates no note matches the requested identifier.
	ErrNoteNotFound = errors.New("note not found")

	// ErrDocumentNotFound indicates no document matches the identifier.
	ErrDocumentNotFound = errors.New("document not found")
)

// previewLen bounds note previews in listings.
const previewLen = 150

// Note is one knowledge-base record, persisted as a single JSON file.
// There is deliberately no index, locking, or versioning: the store is
// demo state for a single server process.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Preview returns the first previewLen runes of the note content.
func (n *Note) Preview() string {
	runes := []rune(n.Content)
	if len(runes) <= previewLen {
		return n.Content
	}
	return string(runes[:previewLen]) + "..."
}

// Summary is the listing view of a note: everything but the full content.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
	Preview   string    `json:"preview,omitempty"`
}

// DocumentInfo describes one generated document on disk.
type DocumentInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Path      string    `json:"path"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists notes and generated documents under a root directory:
// one JSON file per note in notes/, one markdown file (plus an HTML
// preview) per document in documents/.
type Store struct {
	notesDir string
	docsDir  string

	// now is swapped in tests for deterministic timestamps.
	now func() time.Time
}

// Roots are the resource domains the store backs.
func (s *Store) Roots() []string {
	return []string{"notes", "documents", "resources"}
}

// NewStore creates (if needed) the data directories under root.
func NewStore(root string) (*Store, error) {
	s := &Store{
		notesDir: filepath.Join(root, "notes"),
		docsDir:  filepath.Join(root, "documents"),
		now:      time.Now,
	}
	for _, dir := range []string{s.notesDir, s.docsDir, filepath.Join(root, "resources")} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	return s, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9_-]+`)

// slugify lowercases a title and replaces anything outside [a-z0-9_-]
// with underscores, for use in filenames.
func slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "untitled"
	}
	return slug
}

// CreateNote writes a new note and returns the stored record.
func (s *Store) CreateNote(title, content string, tags []string) (*Note, error) {
	if title == "" {
		return nil, errors.New("note title must not be empty")
	}
	if tags == nil {
		tags = []string{}
	}

	now := s.now().UTC()
	note := &Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.MarshalIndent(note, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding note: %w", err)
	}

	path := filepath.Join(s.notesDir, fmt.Sprintf("%s_%s.json", slugify(title), note.ID[:8]))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return nil, fmt.Errorf("writing note: %w", err)
	}
	return note, nil
}

// Notes loads every note, newest first. Unreadable or corrupt files are
// skipped rather than failing the whole listing.
func (s *Store) Notes() ([]*Note, error) {
	entries, err := os.ReadDir(s.notesDir)
	if err != nil {
		return nil, fmt.Errorf("reading notes directory: %w", err)
	}

	var notes []*Note
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.notesDir, entry.Name()))
		if err != nil {
			continue
		}
		var note Note
		if err := json.Unmarshal(data, &note); err != nil {
			continue
		}
		notes = append(notes, &note)
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}

// GetNote finds a note by full ID or by an unambiguous prefix (the
// 8-character short form used in filenames).
func (s *Store) GetNote(id string) (*Note, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNoteNotFound)
	}
	notes, err := s.Notes()
	if err != nil {
		return nil, err
	}
	for _, note := range notes {
		if note.ID == id || strings.HasPrefix(note.ID, id) {
			return note, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
}

// SearchNotes returns notes whose title or content contains the query
// (case-insensitive) and which carry every requested tag. An empty query
// matches everything.
func (s *Store) SearchNotes(query string, tags []string) ([]*Note, error) {
	notes, err := s.Notes()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var matched []*Note
	for _, note := range notes {
		if query != "" &&
			!strings.Contains(strings.ToLower(note.Title), query) &&
			!strings.Contains(strings.ToLower(note.Content), query) {
			continue
		}
		if !hasAllTags(note.Tags, tags) {
			continue
		}
		matched = append(matched, note)
	}
	return matched, nil
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Summaries converts notes to their listing form.
func Summaries(notes []*Note, withPreview bool) []Summary {
	out := make([]Summary, 0, len(notes))
	for _, n := range notes {
		s := Summary{ID: n.ID, Title: n.Title, Tags: n.Tags, UpdatedAt: n.UpdatedAt}
		if withPreview {
			s.Preview = n.Preview()
		}
		out = append(out, s)
	}
	return out
}

// CreateDocument generates a skeleton markdown document with the given
// section headings, writes it alongside an HTML preview, and returns its
// info plus the markdown content.
func (s *Store) CreateDocument(title string, sections []string, contentType string) (*DocumentInfo, string, error) {
	if title == "" {
		return nil, "", errors.New("document title must not be empty")
	}
	if contentType == "" {
		contentType = "article"
	}

	id := uuid.NewString()
	now := s.now().UTC()

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", title)
	fmt.Fprintf(&md, "*Generated on %s — %s*\n\n", now.Format("2006-01-02 15:04"), contentType)
	for i, section := range sections {
		fmt.Fprintf(&md, "## %s\n\n", section)
		fmt.Fprintf(&md, "Content for section %d: %s. Replace this with actual content.\n\n", i+1, section)
	}
	md.WriteString("---\n")
	md.WriteString("*This document was generated by the knowledge assistant.*\n")

	stem := fmt.Sprintf("%s_%s", slugify(title), id[:8])
	mdPath := filepath.Join(s.docsDir, stem+".md")
	if err := os.WriteFile(mdPath, []byte(md.String()), 0o640); err != nil {
		return nil, "", fmt.Errorf("writing document: %w", err)
	}

	var html bytes.Buffer
	fmt.Fprintf(&html, "<!DOCTYPE html><html><head><title>%s</title></head><body>", title)
	if err := goldmark.Convert([]byte(md.String()), &html); err != nil {
		return nil, "", fmt.Errorf("rendering HTML preview: %w", err)
	}
	html.WriteString("</body></html>")
	if err := os.WriteFile(filepath.Join(s.docsDir, stem+".html"), html.Bytes(), 0o640); err != nil {
		return nil, "", fmt.Errorf("writing HTML preview: %w", err)
	}

	info := &DocumentInfo{ID: id, Title: title, Path: mdPath, UpdatedAt: now}
	return info, md.String(), nil
}

// Documents lists generated documents, taking the title from the first
// heading line of each markdown file.
func (s *Store) Documents() ([]DocumentInfo, error) {
	entries, err := os.ReadDir(s.docsDir)
	if err != nil {
		return nil, fmt.Errorf("reading documents directory: %w", err)
	}

	var docs []DocumentInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(s.docsDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}

		title, _, _ := strings.Cut(string(data), "\n")
		title = strings.TrimSpace(strings.TrimPrefix(title, "#"))

		stem := strings.TrimSuffix(entry.Name(), ".md")
		id := stem
		if idx := strings.LastIndex(stem, "_"); idx >= 0 {
			id = stem[idx+1:]
		}

		docs = append(docs, DocumentInfo{
			ID:        id,
			Title:     title,
			Path:      path,
			UpdatedAt: fi.ModTime().UTC(),
		})
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
	return docs, nil
}

// GetDocument returns the markdown content of the document whose filename
// contains the given identifier.
func (s *Store) GetDocument(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrDocumentNotFound)
	}
	entries, err := os.ReadDir(s.docsDir)
	if err != nil {
		return "", fmt.Errorf("reading documents directory: %w", err)
	}
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		if strings.Contains(strings.TrimSuffix(entry.Name(), ".md"), id) {
			data, err := os.ReadFile(filepath.Join(s.docsDir, entry.Name()))
			if err != nil {
				return "", fmt.Errorf("reading document: %w", err)
			}
			return string(data), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
}
