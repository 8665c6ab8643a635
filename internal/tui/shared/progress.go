package shared

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// NewShareBar creates a bar showing what fraction of the inventory a group
// takes up, coloured with the theme highlight.
func NewShareBar(width int) progress.Model {
	bar := progress.New(progress.WithSolidFill(string(HighlightColor())))
	bar.Width = width
	bar.ShowPercentage = false

	if !colorsDisabled {
		bar.EmptyColor = dimColorCode
	}

	return bar
}

// RenderASCIIShare renders share as "[#####     ]  50%". share is clamped to
// [0, 1]; any non-zero share shows at least one mark.
func RenderASCIIShare(share float64, width int) string {
	share = clampShare(share)

	filled := int(math.Round(share * float64(width)))
	if filled == 0 && share > 0 && width > 0 {
		filled = 1
	}

	return fmt.Sprintf("[%s%s] %3d%%",
		strings.Repeat("#", filled),
		strings.Repeat(" ", width-filled),
		int(math.Round(share*PercentScale)),
	)
}

// RenderShare renders share with the bar, or as ASCII when colours are off.
// The percentage is always printed after the bar.
func RenderShare(bar progress.Model, share float64) string {
	share = clampShare(share)

	if colorsDisabled {
		return RenderASCIIShare(share, bar.Width)
	}

	return fmt.Sprintf("%s %3d%%", bar.ViewAs(share), int(math.Round(share*PercentScale)))
}

func clampShare(share float64) float64 {
	if math.IsNaN(share) || share < 0 {
		return 0
	}

	return math.Min(share, 1)
}
