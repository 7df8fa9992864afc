package markdown

// WrapTextForTest exposes the word wrapper for testing.
var WrapTextForTest = wrapText

// CellWidthForTest exposes the ANSI-aware width measure for testing.
var CellWidthForTest = cellWidth
