package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Styles below are built from these; never use inline
// lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: crate names, labels, paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen marks permissive license ratings and added crates.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow marks reciprocal ratings and modified crates.
	ColorYellow = lipgloss.Color("220")

	// ColorRed marks restricted ratings and removed crates.
	ColorRed = lipgloss.Color("196")

	// ColorBoldRed marks disallowed ratings (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (crate names, labels, paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)

	// StyleAdded, StyleRemoved and StyleModified style plan diff sections.
	StyleAdded    = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleRemoved  = lipgloss.NewStyle().Foreground(ColorRed)
	StyleModified = lipgloss.NewStyle().Foreground(ColorYellow)
)

// License ratings as rendered in plans.
const (
	RatingUnencumbered    = "unencumbered"
	RatingNotice          = "notice"
	RatingReciprocal      = "reciprocal"
	RatingByExceptionOnly = "by_exception_only"
	RatingRestricted      = "restricted"
	RatingDisallowed      = "disallowed"
)

// RatingStyle returns the style for a license rating name.
// Unknown ratings return an unstyled default.
func RatingStyle(rating string) lipgloss.Style {
	switch rating {
	case RatingUnencumbered, RatingNotice:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case RatingReciprocal:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case RatingByExceptionOnly, RatingRestricted:
		return lipgloss.NewStyle().Foreground(ColorRed)
	case RatingDisallowed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minCrateColumnWidth is the minimum width of the crate column before the
// rating suffix, so ratings line up.
const minCrateColumnWidth = 40

// FormatCrateLine renders "c:<name>-<version>" followed by a right-aligned,
// color-coded license rating.
func FormatCrateLine(name, version, rating string) string {
	ident := fmt.Sprintf("%s-%s", name, version)

	padding := minCrateColumnWidth - len(ident)
	if padding < 2 {
		padding = 2
	}

	return StyleDim.Render("c:") + StyleNoun.Render(ident) + strings.Repeat(" ", padding) + RatingStyle(rating).Render(rating)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
