package typography

import (
	"math"
	"strings"
)

// Scoring 是可读性评分的常量，均为经验值。
type Scoring struct {
	// IdealWordsPerLine 是每行理想词数。
	IdealWordsPerLine float64 `json:"idealWordsPerLine" yaml:"ideal_words_per_line"`
	// WordDeviationPenalty 是平均词数每偏离一个词扣的分。
	WordDeviationPenalty float64 `json:"wordDeviationPenalty" yaml:"word_deviation_penalty"`
	// HangingPenalty 是每个以悬挂词结尾的行扣的分。
	HangingPenalty float64 `json:"hangingPenalty" yaml:"hanging_penalty"`
	// VariationDivisor 把行宽标准差换算为扣分。
	VariationDivisor float64 `json:"variationDivisor" yaml:"variation_divisor"`
	// MaxVariationPenalty 是行宽不齐的扣分上限。
	MaxVariationPenalty float64 `json:"maxVariationPenalty" yaml:"max_variation_penalty"`
}

// DefaultScoring 返回默认评分常量。
func DefaultScoring() Scoring {
	return Scoring{
		IdealWordsPerLine:    8,
		WordDeviationPenalty: 10,
		HangingPenalty:       15,
		VariationDivisor:     10,
		MaxVariationPenalty:  30,
	}
}

// Metrics 描述一组行的排版质量。
type Metrics struct {
	LineCount        int     `json:"lineCount"`
	AverageLineWidth float64 `json:"averageLineWidth"`
	LineVariation    float64 `json:"lineVariation"`
	HangingLines     int     `json:"hangingLines"`
	HyphenatedLines  int     `json:"hyphenatedLines"`
	Readability      float64 `json:"readability"`
}

// Metrics 计算 lines 的质量指标；空输入返回零值。
func (b *Breaker) Metrics(m Measurer, lines []string) Metrics {
	metrics := Metrics{LineCount: len(lines)}
	if len(lines) == 0 {
		return metrics
	}

	widths := make([]float64, len(lines))
	var sum float64
	words := 0
	for i, line := range lines {
		widths[i] = m.MeasureText(line)
		sum += widths[i]

		fields := strings.Split(line, " ")
		words += len(fields)
		if last := fields[len(fields)-1]; last != "" && b.lexicon.IsHanging(last) {
			metrics.HangingLines++
		}
		if strings.HasSuffix(line, "-") {
			metrics.HyphenatedLines++
		}
	}
	n := float64(len(lines))
	metrics.AverageLineWidth = sum / n

	var variance float64
	for _, w := range widths {
		d := w - metrics.AverageLineWidth
		variance += d * d
	}
	metrics.LineVariation = math.Sqrt(variance / n)

	s := b.scoring
	avgWords := float64(words) / n
	score := math.Max(0, 100-math.Abs(avgWords-s.IdealWordsPerLine)*s.WordDeviationPenalty)
	score -= float64(metrics.HangingLines) * s.HangingPenalty
	if s.VariationDivisor > 0 {
		score -= math.Min(metrics.LineVariation/s.VariationDivisor, s.MaxVariationPenalty)
	}
	metrics.Readability = math.Max(0, score)
	return metrics
}
