package cache

import "context"

// RunGeneration runs the fetch of generation gen of key and reports whether its
// result was applied and whether the remote was skipped
func RunGeneration[T any](ctx context.Context, c *Cache[T], key Key, gen uint64) (applied, skipped bool) {
	out, _ := c.run(ctx, key, gen)
	return out.applied, out.skipped
}
