package layout

import (
	"fmt"
	"math"
)

const (
	// MinLegibleSize 以下的字号会产生警告。
	MinLegibleSize = 32
	// MinReadability 以下的可读性分数会产生警告。
	MinReadability = 60

	issuePenalty   = 20
	warningPenalty = 5
	boundsEpsilon  = 1e-6
)

// Validation 是布局的事后检查结果。Issues 表示越界，Warnings 表示可读性问题。
type Validation struct {
	IsValid  bool     `json:"isValid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
	Score    float64  `json:"score"`
}

// Validate 检查每个元素是否越出正文区域、字号是否过小、可读性是否过低。
func Validate(tree PositionedTree, area ContentArea) Validation {
	v := Validation{Issues: []string{}, Warnings: []string{}}
	for _, el := range tree.Children {
		p := el.Position
		if p.X < area.X-boundsEpsilon || p.X+p.Width > area.Right()+boundsEpsilon {
			v.Issues = append(v.Issues, fmt.Sprintf("元素 %s 超出水平边界", el.Type))
		}
		if p.Y < area.Y-boundsEpsilon || p.Y+p.Height > area.Bottom()+boundsEpsilon {
			v.Issues = append(v.Issues, fmt.Sprintf("元素 %s 超出垂直边界", el.Type))
		}
		if el.Style.Size < MinLegibleSize {
			v.Warnings = append(v.Warnings, fmt.Sprintf("元素 %s 的字号可能过小（%dpx）", el.Type, el.Style.Size))
		}
		if m := el.Measured.Metrics; m != nil && m.Readability < MinReadability {
			v.Warnings = append(v.Warnings, fmt.Sprintf("元素 %s 的可读性较低（%.1f）", el.Type, m.Readability))
		}
	}
	v.IsValid = len(v.Issues) == 0
	v.Score = math.Max(0, 100-issuePenalty*float64(len(v.Issues))-warningPenalty*float64(len(v.Warnings)))
	return v
}
