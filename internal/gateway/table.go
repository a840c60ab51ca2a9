package gateway

import (
	"context"
	"net/url"
)

// Select fetches every row of table matching all equality filters into out
// (a pointer to a slice of records).
func (c *Client) Select(ctx context.Context, table string, filters []Eq, out any) error {
	q := url.Values{"select": {"*"}}
	addFilters(q, filters)
	return c.do(ctx, "GET", "/rest/v1/"+table, q, nil, nil, out)
}

// Insert inserts one record and decodes the canonical rows (with
// server-assigned identifiers) into out, a pointer to a slice.
func (c *Client) Insert(ctx context.Context, table string, record any, out any) error {
	headers := map[string]string{"Prefer": "return=representation"}
	return c.do(ctx, "POST", "/rest/v1/"+table, nil, headers, []any{record}, out)
}

// Update patches the rows matching filters and decodes the updated canonical
// rows into out, a pointer to a slice.
func (c *Client) Update(ctx context.Context, table string, patch any, filters []Eq, out any) error {
	q := url.Values{}
	addFilters(q, filters)
	headers := map[string]string{"Prefer": "return=representation"}
	return c.do(ctx, "PATCH", "/rest/v1/"+table, q, headers, patch, out)
}

// Delete removes the rows matching filters.
func (c *Client) Delete(ctx context.Context, table string, filters []Eq) error {
	q := url.Values{}
	addFilters(q, filters)
	return c.do(ctx, "DELETE", "/rest/v1/"+table, q, nil, nil, nil)
}

func addFilters(q url.Values, filters []Eq) {
	for _, f := range filters {
		q.Set(f.Column, "eq."+f.Value)
	}
}
