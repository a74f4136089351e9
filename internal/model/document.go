package model

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

// Scale is the representation scale of a document.
type Scale string

const (
	ScaleText          Scale = "TEXT"
	ScaleConcept       Scale = "CONCEPT"
	ScaleBlueprints    Scale = "BLUEPRINTS/ACTUALS"
	ScaleArchitectural Scale = "ARCHITECTURAL"
)

// Valid reports whether s is a known scale.
func (s Scale) Valid() bool {
	switch s {
	case ScaleText, ScaleConcept, ScaleBlueprints, ScaleArchitectural:
		return true
	}
	return false
}

var (
	architecturalScalePattern = regexp.MustCompile(`^1:([0-9]+)$`)

	ErrInvalidArchitecturalScale = errors.New("architectural scale must have the form 1:<number>")
)

// ParseArchitecturalScale returns the denominator of a "1:<n>" ratio.
func ParseArchitecturalScale(s string) (int, error) {
	m := architecturalScalePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, ErrInvalidArchitecturalScale
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, ErrInvalidArchitecturalScale
	}
	return n, nil
}

// ConnectionType classifies a link between two documents.
type ConnectionType string

const (
	ConnectionDirect     ConnectionType = "DIRECT"
	ConnectionCollateral ConnectionType = "COLLATERAL"
	ConnectionProjection ConnectionType = "PROJECTION"
	ConnectionUpdate     ConnectionType = "UPDATE"
)

// Connection is a typed link to another document.
type Connection struct {
	Document string         `json:"document"`
	Type     ConnectionType `json:"type"`
}

// Document is the central entity: a planning artefact of the relocation,
// fully populated with its references.
type Document struct {
	ID                 string        `json:"id"`
	Title              string        `json:"title"`
	Stakeholders       []Stakeholder `json:"stakeholders"`
	Scale              Scale         `json:"scale"`
	ArchitecturalScale string        `json:"architecturalScale,omitempty"`
	Type               DocumentType  `json:"type"`
	Date               string        `json:"date"`
	Language           string        `json:"language,omitempty"`
	Summary            string        `json:"summary,omitempty"`
	Connections        []Connection  `json:"connections"`
	Media              []Media       `json:"media"`
	Coordinates        *Coordinate   `json:"coordinates,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// DocumentDraft is the write-side shape of a document: references are ids.
type DocumentDraft struct {
	ID                 string
	Title              string
	StakeholderIDs     []string
	Scale              Scale
	ArchitecturalScale string
	TypeID             string
	Date               string
	DateFrom           time.Time
	DateTo             time.Time
	Language           string
	Summary            string
	Connections        []Connection
	MediaIDs           []string
	CoordinateID       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DocumentConnections lists the links leaving and entering one document.
// For incoming links Connection.Document is the source document.
type DocumentConnections struct {
	Outgoing []Connection `json:"outgoing"`
	Incoming []Connection `json:"incoming"`
}

// DocumentSummary is the projection used by the timeline diagram.
type DocumentSummary struct {
	ID                 string
	Title              string
	Date               string
	Scale              Scale
	ArchitecturalScale string
	TypeName           string
}

// Edge is a connection seen from outside either endpoint.
type Edge struct {
	From string         `json:"from"`
	To   string         `json:"to"`
	Type ConnectionType `json:"type"`
}
