package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// MaxPages bounds pagination in case a server keeps returning next links.
const MaxPages = 1000

// inspirePage is one page of the INSPIRE literature search API.
type inspirePage struct {
	Hits *struct {
		Hits  []json.RawMessage `json:"hits"`
		Total int               `json:"total"`
	} `json:"hits"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// FetchInspireJSON retrieves every page of an INSPIRE literature search,
// starting at url and following links.next, and returns a single document
// of the form {"hits":{"hits":[...],"total":n}}. Hits are kept verbatim.
func (c *Client) FetchInspireJSON(ctx context.Context, url string) ([]byte, error) {
	var hits []json.RawMessage
	total := 0
	seen := make(map[string]bool)

	for next := url; next != ""; {
		if seen[next] {
			return nil, fmt.Errorf("%w: pagination loops back to %s", ErrInvalidResponse, next)
		}
		if len(seen) >= MaxPages {
			return nil, fmt.Errorf("%w: more than %d pages", ErrInvalidResponse, MaxPages)
		}
		seen[next] = true

		body, err := c.Get(ctx, next)
		if err != nil {
			return nil, err
		}

		var page inspirePage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %v", ErrInvalidResponse, next, err)
		}
		if page.Hits == nil {
			return nil, fmt.Errorf("%w: %s has no hits", ErrInvalidResponse, next)
		}

		hits = append(hits, page.Hits.Hits...)
		total = page.Hits.Total
		next = page.Links.Next
	}

	return marshalHits(hits, total)
}

func marshalHits(hits []json.RawMessage, total int) ([]byte, error) {
	if hits == nil {
		hits = []json.RawMessage{}
	}
	doc := struct {
		Hits struct {
			Hits  []json.RawMessage `json:"hits"`
			Total int               `json:"total"`
		} `json:"hits"`
	}{}
	doc.Hits.Hits = hits
	doc.Hits.Total = total

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding combined hits: %w", err)
	}
	return buf.Bytes(), nil
}
