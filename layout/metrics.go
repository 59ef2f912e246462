package layout

import "math"

// rhythmUnit 是判断间距节奏的基准单位。
const rhythmUnit = 8

// Metrics 是布局质量指标，均位于 [0,100]。
type Metrics struct {
	ContentDensity        float64 `json:"contentDensity"`
	VerticalEfficiency    float64 `json:"verticalEfficiency"`
	TypographyConsistency float64 `json:"typographyConsistency"`
	SpacingRhythm         float64 `json:"spacingRhythm"`
	OverallScore          float64 `json:"overallScore"`
}

// ComputeMetrics 计算布局指标。没有元素时字号一致性为 0。
func ComputeMetrics(tree PositionedTree, area ContentArea) Metrics {
	var m Metrics
	total := tree.Measured().TotalHeight()
	if area.Height > 0 {
		m.ContentDensity = math.Min(100, total/area.Height*100)
		m.VerticalEfficiency = math.Min(100, total/area.Height*120)
	}

	if len(tree.Children) > 0 {
		base := tree.Children[0].Style.Size
		for _, c := range tree.Children[1:] {
			base = min(base, c.Style.Size)
		}
		step := float64(base) / 4
		consistent := 0
		for _, c := range tree.Children {
			if step > 0 && math.Mod(float64(c.Style.Size), step) == 0 {
				consistent++
			}
		}
		m.TypographyConsistency = float64(consistent) / float64(len(tree.Children)) * 100
	}

	if tree.Spacing%rhythmUnit == 0 {
		m.SpacingRhythm = 100
	}

	m.OverallScore = m.ContentDensity*0.3 +
		m.VerticalEfficiency*0.3 +
		m.TypographyConsistency*0.2 +
		m.SpacingRhythm*0.2
	return m
}
