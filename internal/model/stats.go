package model

// StatSeries is a labelled count series, shaped for direct chart consumption.
type StatSeries struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// SearchStats summarizes one search result set.
type SearchStats struct {
	ClustersByType   StatSeries `json:"clusters_by_type"`
	ClustersByPhylum StatSeries `json:"clusters_by_phylum"`
}
