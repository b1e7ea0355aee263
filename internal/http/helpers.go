package http

import (
	"strconv"
	"strings"
)

// iconGlyph maps a catalog icon name to the character shown in the list.
func iconGlyph(icon string) string {
	switch icon {
	case "Music":
		return "♫"
	case "ShoppingBag":
		return "\U0001F6CD"
	case "Star":
		return "★"
	default:
		return "\U0001F4FA"
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// daysLabel renders the distance to a renewal the way the alert panel shows it.
func daysLabel(days int) string {
	switch days {
	case 0:
		return "Hoje"
	case 1:
		return "Amanhã"
	default:
		return "Em " + strconv.Itoa(days) + " dias"
	}
}
