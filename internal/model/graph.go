package model

// Graph is the timeline diagram: years on one axis, scale columns on the other.
type Graph struct {
	Years  []int       `json:"years"`
	Scales []string    `json:"scales"`
	Nodes  []GraphNode `json:"nodes"`
	Cells  []GraphCell `json:"cells"`
	Edges  []Edge      `json:"edges"`
}

// GraphNode places one document. Scale is the column label, which for
// architectural documents is the ratio itself.
type GraphNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
	Scale string `json:"scale"`
	Type  string `json:"type"`
}

// GraphCell counts the documents sharing a year and a scale column.
type GraphCell struct {
	Year  int    `json:"year"`
	Scale string `json:"scale"`
	Count int    `json:"count"`
}
