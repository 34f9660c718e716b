package completion

// Completions accumulates items across strategies in insertion order.
// The engine never deduplicates or reorders: overlapping candidates
// from different strategies reach the client as they were added, and
// filtering, ranking and duplicate suppression are the client's job.
// Relevance rides along as data.
type Completions struct {
	items []Item
}

// Add appends one item.
func (c *Completions) Add(item Item) {
	c.items = append(c.items, item)
}

// AddAll appends a batch of items.
func (c *Completions) AddAll(items []Item) {
	c.items = append(c.items, items...)
}

// Len returns the number of accumulated items.
func (c *Completions) Len() int { return len(c.items) }

// Finish returns the accumulated items in the order they were added.
func (c *Completions) Finish() []Item {
	if c.items == nil {
		return []Item{}
	}

	return c.items
}
