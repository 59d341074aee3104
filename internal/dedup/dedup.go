package dedup

// Index is a seen-set over the publish targets' existing state:
// listing identity keys from the sheet's rows on one side, repository
// file paths on the other. Looking a key up before fetching a detail
// page is what makes re-runs cheap and idempotent.
type Index struct {
	seen map[string]bool
}

func NewIndex() *Index {
	return &Index{seen: make(map[string]bool)}
}

func (ix *Index) Seen(key string) bool {
	return ix.seen[key]
}

func (ix *Index) Add(keys ...string) {
	for _, k := range keys {
		if k != "" {
			ix.seen[k] = true
		}
	}
}

func (ix *Index) Len() int {
	return len(ix.seen)
}
