package canvasrenderer

// 画布坐标以 mm 为单位，并按 1 px = 1 mm 光栅化；字体系统使用 pt。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// toPt 将像素（即画布 mm）转换为点(pt)。
func toPt(px float64) float64 { return px * MmToPt }
