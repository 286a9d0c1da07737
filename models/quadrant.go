package models

import "fmt"

// Quadrant is one of the four fixed monitoring axes.
type Quadrant string

const (
	QuadrantTech       Quadrant = "tech"
	QuadrantRegulation Quadrant = "regulation"
	QuadrantMarket     Quadrant = "market"
	QuadrantReputation Quadrant = "reputation"
)

// DefaultQuadrant is used when no keyword scored.
const DefaultQuadrant = QuadrantMarket

// QuadrantInfo is the display metadata served to the dashboard.
type QuadrantInfo struct {
	Key   Quadrant `json:"key"`
	Label string   `json:"label"`
	Color string   `json:"color"`
}

var quadrantInfo = map[Quadrant]QuadrantInfo{
	QuadrantTech:       {Key: QuadrantTech, Label: "Technologie", Color: "#3B82F6"},
	QuadrantRegulation: {Key: QuadrantRegulation, Label: "Régulation", Color: "#8B5CF6"},
	QuadrantMarket:     {Key: QuadrantMarket, Label: "Marché", Color: "#10B981"},
	QuadrantReputation: {Key: QuadrantReputation, Label: "Réputation", Color: "#F59E0B"},
}

// AllQuadrants returns the quadrants in canonical order.
func AllQuadrants() []Quadrant {
	return []Quadrant{QuadrantTech, QuadrantRegulation, QuadrantMarket, QuadrantReputation}
}

// Valid reports whether q is one of the four known quadrants.
func (q Quadrant) Valid() bool {
	_, ok := quadrantInfo[q]
	return ok
}

// Info returns the label and color of q.
func (q Quadrant) Info() QuadrantInfo {
	return quadrantInfo[q]
}

// ParseQuadrant validates a raw quadrant value.
func ParseQuadrant(s string) (Quadrant, error) {
	q := Quadrant(s)
	if !q.Valid() {
		return "", fmt.Errorf("%w: unknown quadrant %q", ErrValidation, s)
	}
	return q, nil
}

// QuadrantCatalog returns display metadata for every quadrant in canonical order.
func QuadrantCatalog() []QuadrantInfo {
	out := make([]QuadrantInfo, 0, len(quadrantInfo))
	for _, q := range AllQuadrants() {
		out = append(out, quadrantInfo[q])
	}
	return out
}

// AlertLevel is the severity of an alert.
type AlertLevel string

const (
	AlertInfo     AlertLevel = "info"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// Interpretation is the absolute SPDI tier.
type Interpretation string

const (
	StrongPresence   Interpretation = "strongPresence"
	SolidPresence    Interpretation = "solidPresence"
	LowVisibility    Interpretation = "lowVisibility"
	InvisibilityRisk Interpretation = "invisibilityRisk"
)

// Trend is the coarse label copied onto the actor profile.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendStable Trend = "stable"
	TrendDown   Trend = "down"
)

// Run statuses written to collectes_log.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)
