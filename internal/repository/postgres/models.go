package postgres

import (
	"strings"

	"bgcapi/internal/model"
)

// pgClusterRow is one joined row of the cluster record query. Clusters with
// several type annotations produce several rows which collapse into a single
// hybrid record.
type pgClusterRow struct {
	BgcID          int64  `db:"bgc_id"`
	Species        string `db:"species"`
	Acc            string `db:"acc"`
	Version        int    `db:"version"`
	ClusterNumber  int    `db:"cluster_number"`
	Term           string `db:"term"`
	Description    string `db:"description"`
	StartPos       int    `db:"start_pos"`
	EndPos         int    `db:"end_pos"`
	CbhAcc         string `db:"cbh_acc"`
	CbhDescription string `db:"cbh_description"`
	Similarity     int    `db:"similarity"`
}

func (p pgClusterRow) ToModel() model.Cluster {
	return model.Cluster{
		BgcID:          p.BgcID,
		Species:        p.Species,
		Acc:            p.Acc,
		Version:        p.Version,
		ClusterNumber:  p.ClusterNumber,
		Term:           p.Term,
		Description:    p.Description,
		StartPos:       p.StartPos,
		EndPos:         p.EndPos,
		CbhAcc:         p.CbhAcc,
		CbhDescription: p.CbhDescription,
		Similarity:     p.Similarity,
	}
}

// collapseClusters folds adjacent rows sharing a bgc_id into one record.
// Rows must already be ordered by bgc_id, then term.
func collapseClusters(rows []pgClusterRow) []model.Cluster {
	out := make([]model.Cluster, 0, len(rows))
	for i := 0; i < len(rows); {
		rec := rows[i].ToModel()
		terms := []string{rows[i].Term}
		j := i + 1
		for ; j < len(rows) && rows[j].BgcID == rows[i].BgcID; j++ {
			terms = append(terms, rows[j].Term)
		}
		if len(terms) > 1 {
			combined := strings.Join(terms, "-")
			rec.Term = combined + " hybrid"
			rec.Description = "Hybrid cluster: " + combined
		}
		out = append(out, rec)
		i = j
	}
	return out
}

// pgStatRow is one label/count pair of a summary query.
type pgStatRow struct {
	Label string `db:"label"`
	Tally int    `db:"tally"`
}

func statRowsToSeries(rows []pgStatRow) model.StatSeries {
	series := model.StatSeries{
		Labels: make([]string, 0, len(rows)),
		Data:   make([]int, 0, len(rows)),
	}
	for _, row := range rows {
		series.Labels = append(series.Labels, row.Label)
		series.Data = append(series.Data, row.Tally)
	}
	return series
}
