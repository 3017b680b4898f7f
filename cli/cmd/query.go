package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twcrone/graphql-observe/internal/client"
)

const recentPostsQuery = `query RecentPosts($count: Int!, $offset: Int) {
  recentPosts(count: $count, offset: $offset) {
    id
    title
    category
    author {
      name
    }
  }
}`

var (
	queryEndpoint string
	queryCount    int
	queryOffset   int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Fetch recent posts from a running server",
	Long: `Fetch recent posts from a running server and print them as JSON.

Examples:
  graphql-observe query
  graphql-observe query --count 5 --offset 10
  graphql-observe query --endpoint http://staging:8080/api/v1/graphql`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryEndpoint, "endpoint",
		"http://localhost:8080/api/v1/graphql", "GraphQL endpoint URL")
	queryCmd.Flags().IntVarP(&queryCount, "count", "n", 10, "Number of posts to fetch")
	queryCmd.Flags().IntVar(&queryOffset, "offset", 0, "Offset into the post list")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.New(queryEndpoint).Do(ctx, client.Request{
		Query:         recentPostsQuery,
		OperationName: "RecentPosts",
		Variables: map[string]interface{}{
			"count":  queryCount,
			"offset": queryOffset,
		},
	})
	if err != nil {
		return err
	}

	if len(resp.Errors) > 0 {
		for _, e := range resp.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e.Message)
		}
		return fmt.Errorf("query returned %d error(s)", len(resp.Errors))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp.Data)
}
