package facematch

// Candidate is a stored embedding that a query can be compared against.
type Candidate struct {
	File      string
	Embedding []float64
}

// Result is a matched candidate together with its distance to the query.
type Result struct {
	File     string  `json:"file"`
	Distance float64 `json:"distance"`
}

// Match returns the files of all candidates whose distance to query is strictly
// below threshold. Results keep the candidates' order.
func Match(query []float64, candidates []Candidate, threshold float64) []string {
	matches := make([]string, 0)
	for _, r := range MatchWithDistances(query, candidates, threshold) {
		matches = append(matches, r.File)
	}
	return matches
}

// MatchWithDistances is like Match but also reports each match's distance.
func MatchWithDistances(query []float64, candidates []Candidate, threshold float64) []Result {
	results := make([]Result, 0)
	for _, c := range candidates {
		d := EuclideanDistance(query, c.Embedding)
		if d < threshold {
			results = append(results, Result{File: c.File, Distance: d})
		}
	}
	return results
}
