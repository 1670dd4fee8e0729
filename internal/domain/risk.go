package domain

// Risk aggregation. All functions here are pure: given the same findings set
// they produce the same result, so callers recompute on every read instead of
// caching a projection that could drift from the base findings.

type RiskCategory string

const (
	RiskCritical RiskCategory = "CRITICAL"
	RiskHigh     RiskCategory = "HIGH RISK"
	RiskMedium   RiskCategory = "MEDIUM RISK"
	RiskLow      RiskCategory = "LOW RISK"
	RiskNone     RiskCategory = "NO ISSUES"
)

// Severity weights. Room-level weighting is deliberately more aggressive per
// tier than property-level; both sets are contractual and must not be merged.
var (
	roomWeights     = map[Severity]int{SeverityCritical: 40, SeverityHigh: 25, SeverityMedium: 15, SeverityLow: 5}
	propertyWeights = map[Severity]int{SeverityCritical: 40, SeverityHigh: 20, SeverityMedium: 10, SeverityLow: 2}
)

const maxScore = 100

type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

func countSeverities(findings []Finding) SeverityCounts {
	var c SeverityCounts
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			c.Critical++
		case SeverityHigh:
			c.High++
		case SeverityMedium:
			c.Medium++
		case SeverityLow:
			c.Low++
		}
		c.Total++
	}
	return c
}

// categorize applies the threshold ladder in fixed precedence order:
// critical, then high, then medium>=2, then any finding at all.
func categorize(c SeverityCounts) RiskCategory {
	switch {
	case c.Critical >= 1:
		return RiskCritical
	case c.High >= 1:
		return RiskHigh
	case c.Medium >= 2:
		return RiskMedium
	case c.Total > 0:
		return RiskLow
	default:
		return RiskNone
	}
}

func weightedScore(c SeverityCounts, w map[Severity]int) int {
	s := c.Critical*w[SeverityCritical] + c.High*w[SeverityHigh] + c.Medium*w[SeverityMedium] + c.Low*w[SeverityLow]
	if s > maxScore {
		return maxScore
	}
	return s
}

type RoomRiskScore struct {
	RoomID   string         `json:"room_id"`
	RoomName string         `json:"room_name"`
	RoomType string         `json:"room_type"`
	Counts   SeverityCounts `json:"counts"`
	Score    int            `json:"score"`
	Category RiskCategory   `json:"category"`
}

// RoomRisk scores one room from its findings. A room with no findings (rooms
// exist before any upload) scores 0 / NO ISSUES.
func RoomRisk(room Room, findings []Finding) RoomRiskScore {
	c := countSeverities(findings)
	return RoomRiskScore{
		RoomID:   room.ID,
		RoomName: room.Name,
		RoomType: room.Type,
		Counts:   c,
		Score:    weightedScore(c, roomWeights),
		Category: categorize(c),
	}
}

type PropertyRiskScore struct {
	PropertyID    string         `json:"property_id"`
	TotalFindings int            `json:"total_findings"`
	Counts        SeverityCounts `json:"counts"`
	Score         int            `json:"score"`
	Rating        RiskCategory   `json:"rating"`
}

// PropertyRisk scores a property from the findings of all its rooms.
func PropertyRisk(propertyID string, findings []Finding) PropertyRiskScore {
	c := countSeverities(findings)
	return PropertyRiskScore{
		PropertyID:    propertyID,
		TotalFindings: c.Total,
		Counts:        c,
		Score:         weightedScore(c, propertyWeights),
		Rating:        categorize(c),
	}
}

// ExecutiveSummary renders the one-line client-facing summary for a property.
func ExecutiveSummary(pr PropertyRiskScore) string {
	return "Risk level is " + string(pr.Rating)
}
