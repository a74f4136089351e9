package service

import (
	"context"
	"sort"

	"kiruna/internal/cache"
	"kiruna/internal/model"
	"kiruna/internal/repository"
)

// GraphService builds the timeline diagram.
type GraphService interface {
	// Timeline places every document on a year/scale grid and lists the
	// connections between them.
	Timeline(ctx context.Context) (*model.Graph, error)
}

type graphService struct {
	repo  repository.DocumentRepository
	cache cache.Cache
}

func NewGraphService(repo repository.DocumentRepository, c cache.Cache) GraphService {
	return &graphService{repo: repo, cache: c}
}

func (s *graphService) Timeline(ctx context.Context) (*model.Graph, error) {
	var cached model.Graph
	if hit, _ := s.cache.Get(ctx, cache.KeyGraph, &cached); hit {
		return &cached, nil
	}

	summaries, err := s.repo.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := s.repo.Edges(ctx)
	if err != nil {
		return nil, err
	}

	g := BuildGraph(summaries, edges)
	_ = s.cache.Set(ctx, cache.KeyGraph, g)
	return g, nil
}

// BuildGraph aggregates summaries by issuance year and scale column. Columns
// are TEXT and CONCEPT, then architectural ratios by ascending denominator,
// then BLUEPRINTS/ACTUALS. Edges whose endpoints are not among the nodes are
// dropped.
func BuildGraph(summaries []model.DocumentSummary, edges []model.Edge) *model.Graph {
	g := &model.Graph{
		Years: []int{},
		Nodes: make([]model.GraphNode, 0, len(summaries)),
		Cells: []model.GraphCell{},
		Edges: make([]model.Edge, 0, len(edges)),
	}

	type cellKey struct {
		year  int
		scale string
	}
	counts := map[cellKey]int{}
	years := map[int]struct{}{}
	ratios := map[string]int{}
	present := make(map[string]struct{}, len(summaries))

	for _, d := range summaries {
		pd, err := model.ParsePartialDate(d.Date)
		if err != nil {
			continue
		}
		column := string(d.Scale)
		if d.Scale == model.ScaleArchitectural && d.ArchitecturalScale != "" {
			column = d.ArchitecturalScale
			if n, err := model.ParseArchitecturalScale(column); err == nil {
				ratios[column] = n
			}
		}

		g.Nodes = append(g.Nodes, model.GraphNode{
			ID:    d.ID,
			Title: d.Title,
			Year:  pd.Year,
			Scale: column,
			Type:  d.TypeName,
		})
		counts[cellKey{pd.Year, column}]++
		years[pd.Year] = struct{}{}
		present[d.ID] = struct{}{}
	}

	for y := range years {
		g.Years = append(g.Years, y)
	}
	sort.Ints(g.Years)

	g.Scales = scaleColumns(ratios)
	order := make(map[string]int, len(g.Scales))
	for i, col := range g.Scales {
		order[col] = i
	}
	for k, n := range counts {
		g.Cells = append(g.Cells, model.GraphCell{Year: k.year, Scale: k.scale, Count: n})
	}
	sort.Slice(g.Cells, func(i, j int) bool {
		a, b := g.Cells[i], g.Cells[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if ra, rb := rank(order, a.Scale), rank(order, b.Scale); ra != rb {
			return ra < rb
		}
		return a.Scale < b.Scale
	})

	for _, e := range edges {
		_, from := present[e.From]
		_, to := present[e.To]
		if from && to {
			g.Edges = append(g.Edges, e)
		}
	}
	return g
}

func scaleColumns(ratios map[string]int) []string {
	labels := make([]string, 0, len(ratios))
	for label := range ratios {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if ratios[labels[i]] != ratios[labels[j]] {
			return ratios[labels[i]] < ratios[labels[j]]
		}
		return labels[i] < labels[j]
	})

	cols := []string{string(model.ScaleText), string(model.ScaleConcept)}
	cols = append(cols, labels...)
	return append(cols, string(model.ScaleBlueprints))
}

// rank places unknown columns after the known ones.
func rank(order map[string]int, col string) int {
	if i, ok := order[col]; ok {
		return i
	}
	return len(order)
}
