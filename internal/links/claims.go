package links

// ClaimSet tracks which pool URLs have already been assigned to an item.
type ClaimSet struct {
	claimed map[string]struct{}
}

// NewClaimSet returns an empty claim set.
func NewClaimSet() *ClaimSet {
	return &ClaimSet{claimed: make(map[string]struct{})}
}

// Claim marks u as assigned. It returns false when u was already claimed.
func (c *ClaimSet) Claim(u string) bool {
	if _, ok := c.claimed[u]; ok {
		return false
	}
	c.claimed[u] = struct{}{}
	return true
}

// Claimed reports whether u has been assigned.
func (c *ClaimSet) Claimed(u string) bool {
	_, ok := c.claimed[u]
	return ok
}

// Len returns the number of claimed URLs.
func (c *ClaimSet) Len() int {
	return len(c.claimed)
}

// ClaimAll claims every unclaimed URL in pool and returns them in pool order.
func (c *ClaimSet) ClaimAll(pool []string) []string {
	out := make([]string, 0)
	for _, u := range pool {
		if c.Claim(u) {
			out = append(out, u)
		}
	}
	return out
}

// Unclaimed returns the URLs in pool that nobody has claimed, in pool order.
func (c *ClaimSet) Unclaimed(pool []string) []string {
	out := make([]string, 0)
	for _, u := range pool {
		if !c.Claimed(u) {
			out = append(out, u)
		}
	}
	return out
}
