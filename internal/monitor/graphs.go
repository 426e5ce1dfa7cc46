package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '\u2800'

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// brailleDots maps [row][col] to the bit offset for a braille dot.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// chartCeiling picks the y-axis maximum for rate data: the peak rounded up to
// a tidy step, never below 10.
func chartCeiling(data []float64) float64 {
	peak := 0.0
	for _, v := range data {
		if v > peak {
			peak = v
		}
	}
	if peak < 10 {
		return 10
	}

	step := 1.0
	for step*10 < peak {
		step *= 10
	}
	ceil := step
	for ceil < peak {
		ceil += step
	}
	return ceil
}

func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// RenderRateChart renders samples as a braille area chart scaled from zero to
// ceiling. Each character column holds two samples; data shorter than the
// chart is right-aligned so the newest sample sits at the right edge. Columns
// containing a discontinuity are drawn in the discontinuity color.
func RenderRateChart(samples []RateSample, width, height int, ceiling float64) string {
	if len(samples) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = float64(s.InstantaneousRate)
	}

	totalDots := height * 4
	targetPoints := width * 2

	resampled := data
	marks := discontinuityMarks(samples, len(samples))
	if len(data) > targetPoints {
		resampled = resampleData(data, targetPoints)
		marks = discontinuityMarks(samples, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}
	colBreak := make([]bool, width)

	horizOffset := targetPoints - len(resampled)
	if horizOffset < 0 {
		horizOffset = 0
	}

	for i, val := range resampled {
		charCol := (i + horizOffset) / 2
		if charCol >= width {
			continue
		}
		if marks[i] {
			colBreak[charCol] = true
		}

		dotHeight := clampInt(int(normalizeValue(val, 0, ceiling)*float64(totalDots)), totalDots)
		// Keep a visible floor so a running generator never disappears.
		if dotHeight == 0 && val > 0 {
			dotHeight = 1
		}

		subCol := (i + horizOffset) % 2
		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - (dot / 4)
			if row < 0 {
				continue
			}
			subRow := 3 - (dot % 4)
			grid[row][charCol] |= rune(1 << brailleDots[subRow][subCol])
		}
	}

	graphStyle := lipgloss.NewStyle().Foreground(ColorGraph)
	breakStyle := lipgloss.NewStyle().Foreground(ColorDiscontinuity)

	lines := make([]string, 0, height)
	for rowIdx, row := range grid {
		var b strings.Builder
		for colIdx, char := range row {
			switch {
			case colBreak[colIdx] && rowIdx == height-1 && char == brailleBase:
				b.WriteString(breakStyle.Render("╎"))
			case colBreak[colIdx]:
				b.WriteString(breakStyle.Render(string(char)))
			default:
				b.WriteString(graphStyle.Render(string(char)))
			}
		}
		lines = append(lines, b.String())
	}

	return strings.Join(lines, "\n")
}

// discontinuityMarks maps sample discontinuities onto n output points.
func discontinuityMarks(samples []RateSample, n int) []bool {
	marks := make([]bool, n)
	if n == 0 || len(samples) == 0 {
		return marks
	}
	for i, s := range samples {
		if !s.Discontinuity {
			continue
		}
		idx := i * n / len(samples)
		if idx >= n {
			idx = n - 1
		}
		marks[idx] = true
	}
	return marks
}

// RenderMiniSparkline renders a single-row sparkline using block characters.
// Used by the compact layout where there is no room for the braille chart.
func RenderMiniSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	ceiling := chartCeiling(data)
	resampled := data
	if len(data) > width {
		resampled = resampleData(data, width)
	}

	var result strings.Builder
	for _, val := range resampled {
		idx := clampInt(int(normalizeValue(val, 0, ceiling)*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
		result.WriteRune(sparklineBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(ColorGraph).Render(result.String())
}

// FormatAxisValue formats a y-axis label the way the chart legend shows it:
// values of 1000 and above in thousands ("2k", "2.5k").
func FormatAxisValue(v float64) string {
	if v >= 1000 {
		k := v / 1000
		if k == float64(int(k)) {
			return fmt.Sprintf("%dk", int(k))
		}
		return fmt.Sprintf("%.1fk", k)
	}
	return fmt.Sprintf("%d", int(v))
}

// resampleData resamples data to the target size.
// When downsampling (compressing), uses max-based sampling to preserve peaks/spikes.
// When upsampling (expanding), uses linear interpolation.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	// Upsampling: linear interpolation
	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}
