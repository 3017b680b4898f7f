// Package api serves the posts/authors GraphQL endpoint over HTTP and wires
// the operation observer into query execution.
package api

import (
	"github.com/graphql-go/graphql"

	"github.com/twcrone/graphql-observe/internal/blog"
)

// NewSchema builds the posts/authors GraphQL schema backed by store, with
// ext registered so every execution is observed.
func NewSchema(store *blog.Store, ext graphql.Extension) (graphql.Schema, error) {
	authorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Author",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"thumbnail": &graphql.Field{Type: graphql.String},
		},
	})

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"text":     &graphql.Field{Type: graphql.String},
			"category": &graphql.Field{Type: graphql.String},
		},
	})

	postType.AddFieldConfig("author", &graphql.Field{
		Type: authorType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			post, ok := p.Source.(blog.Post)
			if !ok {
				return nil, nil
			}
			author, ok := store.Author(post.AuthorID)
			if !ok {
				return nil, nil
			}
			return author, nil
		},
	})

	authorType.AddFieldConfig("posts", &graphql.Field{
		Type: graphql.NewList(postType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			author, ok := p.Source.(blog.Author)
			if !ok {
				return nil, nil
			}
			return store.PostsByAuthor(author.ID), nil
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"recentPosts": &graphql.Field{
				Type: graphql.NewList(postType),
				Args: graphql.FieldConfigArgument{
					"count":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					count, _ := p.Args["count"].(int)
					offset, _ := p.Args["offset"].(int)
					return store.RecentPosts(count, offset), nil
				},
			},
			"post": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					post, ok := store.Post(id)
					if !ok {
						return nil, nil
					}
					return post, nil
				},
			},
			"authors": &graphql.Field{
				Type: graphql.NewList(authorType),
				Resolve: func(graphql.ResolveParams) (interface{}, error) {
					return store.Authors(), nil
				},
			},
			"author": &graphql.Field{
				Type: authorType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					author, ok := store.Author(id)
					if !ok {
						return nil, nil
					}
					return author, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"writePost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"title":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"text":     &graphql.ArgumentConfig{Type: graphql.String},
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"authorId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					title, _ := p.Args["title"].(string)
					text, _ := p.Args["text"].(string)
					category, _ := p.Args["category"].(string)
					authorID, _ := p.Args["authorId"].(string)
					return store.WritePost(title, text, category, authorID)
				},
			},
		},
	})

	cfg := graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	}
	if ext != nil {
		cfg.Extensions = []graphql.Extension{ext}
	}
	return graphql.NewSchema(cfg)
}
