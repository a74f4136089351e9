package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// GeometryType discriminates the coordinate union.
type GeometryType string

const (
	GeometryPoint   GeometryType = "Point"
	GeometryPolygon GeometryType = "Polygon"
)

// Position is a [longitude, latitude] pair, GeoJSON order.
type Position [2]float64

func (p Position) Lon() float64 { return p[0] }
func (p Position) Lat() float64 { return p[1] }

// UnmarshalJSON accepts exactly two numbers; null and short or long arrays
// are rejected.
func (p *Position) UnmarshalJSON(b []byte) error {
	var v []float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if len(v) != 2 {
		return fmt.Errorf("%w: position must be [lon, lat]", ErrInvalidGeometry)
	}
	p[0], p[1] = v[0], v[1]
	return nil
}

// Valid reports whether the position lies on the globe.
func (p Position) Valid() bool {
	return p.Lon() >= -180 && p.Lon() <= 180 && p.Lat() >= -90 && p.Lat() <= 90
}

// Coordinate is a named Point or Polygon. A Point holds exactly one position;
// a Polygon holds its closed ring.
type Coordinate struct {
	ID        string
	Name      string
	Type      GeometryType
	Positions []Position
	CreatedAt time.Time
}

type coordinateJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        GeometryType    `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// MarshalJSON renders a Point as [lon, lat] and a Polygon as [[lon, lat], ...].
func (c Coordinate) MarshalJSON() ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if c.Type == GeometryPoint && len(c.Positions) == 1 {
		raw, err = json.Marshal(c.Positions[0])
	} else {
		raw, err = json.Marshal(c.Positions)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(coordinateJSON{
		ID:          c.ID,
		Name:        c.Name,
		Type:        c.Type,
		Coordinates: raw,
		CreatedAt:   c.CreatedAt,
	})
}

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	var aux coordinateJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	positions, err := DecodePositions(aux.Type, aux.Coordinates)
	if err != nil {
		return err
	}
	*c = Coordinate{
		ID:        aux.ID,
		Name:      aux.Name,
		Type:      aux.Type,
		Positions: positions,
		CreatedAt: aux.CreatedAt,
	}
	return nil
}

var ErrInvalidGeometry = errors.New("invalid geometry")

// DecodePositions reads the coordinates member for the given geometry type.
func DecodePositions(t GeometryType, raw json.RawMessage) ([]Position, error) {
	switch t {
	case GeometryPoint:
		var p Position
		if isNull(raw) {
			return nil, fmt.Errorf("%w: point must be [lon, lat]", ErrInvalidGeometry)
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: point must be [lon, lat]", ErrInvalidGeometry)
		}
		return []Position{p}, nil
	case GeometryPolygon:
		var ring []Position
		if err := json.Unmarshal(raw, &ring); err != nil {
			return nil, fmt.Errorf("%w: polygon must be [[lon, lat], ...]", ErrInvalidGeometry)
		}
		return ring, nil
	default:
		return nil, fmt.Errorf("%w: type must be Point or Polygon", ErrInvalidGeometry)
	}
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// CloseRing returns the ring with its first position repeated at the end
// when it is not already closed.
func CloseRing(ring []Position) []Position {
	if len(ring) == 0 || ring[0] == ring[len(ring)-1] {
		return ring
	}
	closed := make([]Position, len(ring), len(ring)+1)
	copy(closed, ring)
	return append(closed, ring[0])
}

// DistinctPositions counts the distinct positions of a ring.
func DistinctPositions(ring []Position) int {
	seen := make(map[Position]struct{}, len(ring))
	for _, p := range ring {
		seen[p] = struct{}{}
	}
	return len(seen)
}
