// Package blog holds the posts/authors demo domain served over GraphQL.
// Persistence is an in-memory store; the GraphQL layer only sees the Store
// API, so swapping in a real database stays a local change.
package blog

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrAuthorNotFound is returned when a post references an unknown author.
var ErrAuthorNotFound = errors.New("author not found")

// Author is a post author.
type Author struct {
	ID        string
	Name      string
	Thumbnail string
}

// Post is a single blog post.
type Post struct {
	ID       string
	Title    string
	Text     string
	Category string
	AuthorID string
}

// Store is a concurrency-safe in-memory post/author store. Posts are kept
// newest first.
type Store struct {
	mu      sync.RWMutex
	posts   []Post
	authors map[string]Author
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{authors: make(map[string]Author)}
}

// AddAuthor registers an author and returns it with its generated ID.
func (s *Store) AddAuthor(name, thumbnail string) Author {
	author := Author{
		ID:        uuid.NewString(),
		Name:      name,
		Thumbnail: thumbnail,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.authors[author.ID] = author
	return author
}

// WritePost stores a new post for an existing author.
func (s *Store) WritePost(title, text, category, authorID string) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.authors[authorID]; !ok {
		return Post{}, ErrAuthorNotFound
	}

	post := Post{
		ID:       uuid.NewString(),
		Title:    title,
		Text:     text,
		Category: category,
		AuthorID: authorID,
	}
	s.posts = append([]Post{post}, s.posts...)
	return post, nil
}

// RecentPosts returns up to count posts starting at offset, newest first.
// Out-of-range windows clamp to the available posts.
func (s *Store) RecentPosts(count, offset int) []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count <= 0 || offset < 0 || offset >= len(s.posts) {
		return nil
	}
	end := offset + count
	if end > len(s.posts) {
		end = len(s.posts)
	}
	out := make([]Post, end-offset)
	copy(out, s.posts[offset:end])
	return out
}

// Post looks up a post by ID.
func (s *Store) Post(id string) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

// Author looks up an author by ID.
func (s *Store) Author(id string) (Author, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	author, ok := s.authors[id]
	return author, ok
}

// Authors returns all authors.
func (s *Store) Authors() []Author {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Author, 0, len(s.authors))
	for _, a := range s.authors {
		out = append(out, a)
	}
	return out
}

// PostsByAuthor returns the author's posts, newest first.
func (s *Store) PostsByAuthor(authorID string) []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Post
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out
}

// Seed fills the store with demo content so the server answers queries out
// of the box.
func (s *Store) Seed() {
	ann := s.AddAuthor("Ann Example", "https://example.com/ann.png")
	ben := s.AddAuthor("Ben Sample", "https://example.com/ben.png")

	seed := []struct {
		title, text, category string
		author                Author
	}{
		{"Hello, GraphQL", "A first look at the posts API.", "intro", ann},
		{"Schema design notes", "Types, fields, and where they live.", "design", ann},
		{"Observability for resolvers", "Naming transactions after selections.", "ops", ben},
		{"Elision in practice", "Keeping secrets out of traces.", "ops", ben},
	}
	for _, p := range seed {
		// Seeded authors always exist, the error cannot fire.
		_, _ = s.WritePost(p.title, p.text, p.category, p.author.ID)
	}
}
