package supabase

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// Client wraps the Supabase client used for realtime progress rows.
type Client struct {
	Supabase *supabase.Client
}

func NewClient(url, key string) (*Client, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{Supabase: client}, nil
}

// Upsert writes row into table through PostgREST, merging on conflictColumn.
func (c *Client) Upsert(table, conflictColumn string, row any) error {
	_, _, err := c.Supabase.From(table).Upsert(row, conflictColumn, "minimal", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", table, err)
	}
	return nil
}
