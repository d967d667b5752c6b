package layout

import "math"

// Metrics converts stacking rows and spans into board pixel geometry.
// The zero value is not useful; start from [DefaultMetrics].
type Metrics struct {
	SprintWidth   float64 `toml:"sprint_width" json:"sprintWidth"`     // width of one sprint column
	CardHeight    float64 `toml:"card_height" json:"cardHeight"`       // height of a task card
	RowPitch      float64 `toml:"row_pitch" json:"rowPitch"`           // vertical distance between rows
	LanePadding   float64 `toml:"lane_padding" json:"lanePadding"`     // space above row 0
	MinLaneHeight float64 `toml:"min_lane_height" json:"minLaneHeight"` // height of an empty lane
	MinLeft       float64 `toml:"min_left" json:"minLeft"`             // smallest rendered left offset
	MinTaskWidth  float64 `toml:"min_task_width" json:"minTaskWidth"`  // resize lower bound
}

// DefaultMetrics returns the geometry used by the board UI.
func DefaultMetrics() Metrics {
	return Metrics{
		SprintWidth:   187.5,
		CardHeight:    42,
		RowPitch:      54,
		LanePadding:   12,
		MinLaneHeight: 66,
		MinLeft:       8,
		MinTaskWidth:  50,
	}
}

// LaneHeight returns the pixel height of a lane needing the given number of layers.
// Empty lanes are as tall as a lane with one layer.
func (m Metrics) LaneHeight(layers int) float64 {
	return math.Max(m.MinLaneHeight, m.LanePadding+float64(max(layers, 1))*m.RowPitch)
}

// TaskTop returns the top offset of a card on the given row.
func (m Metrics) TaskTop(row int) float64 {
	return float64(max(row, 0))*m.RowPitch + m.LanePadding
}

// TaskLeft returns the rendered left offset of a card starting at start.
func (m Metrics) TaskLeft(start float64) float64 {
	return math.Max(m.MinLeft, start)
}

// BoardWidth returns the width of a board with n sprint columns.
func (m Metrics) BoardWidth(sprints int) float64 {
	return float64(max(sprints, 0)) * m.SprintWidth
}

// SprintIndex returns the sprint column under offset x, or -1 left of the board.
func (m Metrics) SprintIndex(x float64) int {
	if x < 0 || m.SprintWidth <= 0 {
		return -1
	}
	return int(math.Floor(x / m.SprintWidth))
}

// ClampWidth raises w to the minimum task width.
func (m Metrics) ClampWidth(w float64) float64 {
	return math.Max(m.MinTaskWidth, w)
}

// SpanOf returns the span covering sprint columns [from, to] inclusive.
func (m Metrics) SpanOf(from, to int) Span {
	from, to = max(from, 0), max(to, 0)
	if to < from {
		from, to = to, from
	}
	return Span{Start: float64(from) * m.SprintWidth, Width: float64(to-from+1) * m.SprintWidth}
}
