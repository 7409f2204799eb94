package models

// Result is one web-search hit. Extract is the snippet truncated or extended
// to the per-source character budget requested by the caller.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Extract string `json:"extract,omitempty"`
}

// Clip truncates s to at most n characters on a byte boundary.
func Clip(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
