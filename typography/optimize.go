package typography

const (
	DefaultMaxIterations     = 3
	DefaultTargetReadability = 80.0
)

// Result 是 Optimize 的输出。
type Result struct {
	Lines     []string `json:"lines"`
	Metrics   Metrics  `json:"metrics"`
	Optimized bool     `json:"optimized"`
}

// Optimize 先按调用方选项折行，再尝试几种固定的规则变体，保留可读性最高的结果。
// 达到目标分数、或一整轮没有任何改进时提前结束。
func (b *Breaker) Optimize(m Measurer, text string, maxWidth float64, opts Options) Result {
	iterations := opts.MaxIterations
	if iterations <= 0 {
		iterations = DefaultMaxIterations
	}
	target := opts.TargetReadability
	if target <= 0 {
		target = DefaultTargetReadability
	}

	best := b.Wrap(m, text, maxWidth, opts)
	bestMetrics := b.Metrics(m, best)

	variations := variationsOf(opts)
	for round := 0; round < iterations && bestMetrics.Readability < target; round++ {
		improved := false
		for _, v := range variations {
			lines := b.Wrap(m, text, maxWidth, v)
			metrics := b.Metrics(m, lines)
			if metrics.Readability > bestMetrics.Readability {
				best, bestMetrics = lines, metrics
				improved = true
			}
		}
		// 变体是固定的，下一轮结果不会不同。
		if !improved {
			break
		}
	}

	return Result{
		Lines:     best,
		Metrics:   bestMetrics,
		Optimized: bestMetrics.Readability >= target,
	}
}

func variationsOf(opts Options) []Options {
	hanging, loose, medium, glued := opts, opts, opts, opts
	hanging.PreventHanging = true
	loose.PreventHanging = false
	medium.HyphenationQuality = HyphenationMedium
	glued.UseNonBreakingSpaces = true
	return []Options{hanging, loose, medium, glued}
}
