package export

import (
	"context"
	"fmt"

	"staffdash/internal/listing"
)

// CollectAll walks every page of q through src and returns the records in
// order. It stops at the first failed page.
func CollectAll[T any](ctx context.Context, src *listing.Source[T], q listing.Query) ([]T, error) {
	var out []T
	for page := 1; ; page++ {
		q.Page = page
		t, ok := src.Begin(q, true)
		if !ok {
			return nil, fmt.Errorf("not signed in")
		}
		res := src.Run(ctx, t)
		src.Apply(res)
		if res.Err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, res.Err)
		}
		out = append(out, res.Page.Items...)
		if page >= res.Page.LastPage || len(res.Page.Items) == 0 {
			return out, nil
		}
	}
}
