package export

import (
	"image/color"
	"strconv"
)

// CoursePalette цвета выбранных курсов по порядку выбора (как в дашборде Excel)
var CoursePalette = []string{"DDEBF7", "E2EFDA", "FFF2CC", "FCE4D6", "E7E6E6", "D9E1F2"}

const (
	ConflictColor = "FFC7CE"
	HeaderColor   = "203764"
	LabelColor    = "F2F2F2"
	BorderColor   = "D9D9D9"
)

// paletteIndex сопоставляет код курса с его цветом по позиции в выборке
func paletteIndex(codes []string) map[string]int {
	idx := make(map[string]int, len(codes))
	for i, c := range codes {
		idx[c] = i % len(CoursePalette)
	}
	return idx
}

// hexColor переводит "RRGGBB" в color.RGBA
func hexColor(hex string, alpha uint8) color.RGBA {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return color.RGBA{200, 200, 200, alpha}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: alpha}
}
