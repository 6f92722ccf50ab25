package store

import (
	"context"
	"fmt"
)

// Replicate copies every document of src whose revision wins over the one
// held by dst, tombstones included, and returns how many it wrote. Running it
// twice in a row writes nothing the second time.
func Replicate(ctx context.Context, src, dst DocumentStore) (int, error) {
	from, err := src.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("store: read source: %w", err)
	}
	to, err := dst.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("store: read target: %w", err)
	}

	have := make(map[string]string, len(to))
	for _, doc := range to {
		have[doc.ID] = doc.Rev
	}

	written := 0
	for _, doc := range from {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		rev, ok := have[doc.ID]
		if ok && (rev == doc.Rev || !Wins(doc.Rev, rev)) {
			continue
		}
		if err := dst.Replace(ctx, doc); err != nil {
			return written, fmt.Errorf("store: replicate %s: %w", doc.ID, err)
		}
		written++
	}
	return written, nil
}
