package model

import "fmt"

// Cluster is the flattened record for one biosynthetic gene cluster as returned
// by search and export. Hybrid clusters (more than one type annotation) are
// collapsed into a single record with a combined term such as "nrps-t1pks hybrid".
// This is a pure domain model with no database-specific dependencies or tags.
type Cluster struct {
	BgcID          int64  `json:"bgc_id"`
	Species        string `json:"species"`
	Acc            string `json:"acc"`
	Version        int    `json:"version"`
	ClusterNumber  int    `json:"cluster_number"`
	Term           string `json:"term"`
	Description    string `json:"description"`
	StartPos       int    `json:"start_pos"`
	EndPos         int    `json:"end_pos"`
	CbhAcc         string `json:"cbh_acc"`
	CbhDescription string `json:"cbh_description"`
	Similarity     int    `json:"similarity"`
}

// resultURLFormat points at the rendered cluster page for a sequence record.
const resultURLFormat = "http://antismash-db.secondarymetabolites.org/output/%s/index.html#cluster-%d"

// CSVColumns is the header for exported cluster rows, in column order.
var CSVColumns = []string{
	"species", "accession", "cluster_number", "type", "from", "to",
	"most_similar_cluster", "similarity", "mibig_accession", "url",
}

// CSV renders the cluster as one tab-separated export row.
func (c Cluster) CSV() string {
	return fmt.Sprintf("%s\t%s.%d\t%d\t%s\t%d\t%d\t%s\t%d\t%s\t"+resultURLFormat,
		c.Species, c.Acc, c.Version, c.ClusterNumber, c.Term, c.StartPos, c.EndPos,
		c.CbhDescription, c.Similarity, c.CbhAcc, c.Acc, c.ClusterNumber)
}
