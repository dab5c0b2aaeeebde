package main

import (
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"fphash/internal/manifest"
)

// absentDigest is printed in place of a digest for unreadable files.
const absentDigest = "-"

// digestWidth fits the longest decimal uint64.
const digestWidth = 20

var (
	digestColor    = color.New(color.FgCyan)
	absentColor    = color.New(color.FgRed, color.Bold)
	modifiedColor  = color.New(color.FgYellow)
	addedColor     = color.New(color.FgGreen)
	unchangedColor = color.New(color.Faint)
)

// formatDigest pads and colors a digest column.
func formatDigest(digest string, ok bool) string {
	if !ok {
		return absentColor.Sprint(runewidth.FillRight(absentDigest, digestWidth))
	}
	return digestColor.Sprint(runewidth.FillRight(digest, digestWidth))
}

// formatStatus pads and colors a status column.
func formatStatus(s manifest.Status) string {
	label := runewidth.FillRight(s.String(), len("unreadable"))
	switch s {
	case manifest.StatusModified:
		return modifiedColor.Sprint(label)
	case manifest.StatusAdded:
		return addedColor.Sprint(label)
	case manifest.StatusUnreadable:
		return absentColor.Sprint(label)
	default:
		return unchangedColor.Sprint(label)
	}
}

// columnWidth returns the display width of the widest value.
func columnWidth(values []string) int {
	width := 0
	for _, v := range values {
		width = max(width, runewidth.StringWidth(v))
	}
	return width
}
