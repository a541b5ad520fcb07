package resolver

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sdko-org/vertical-padding/internal/padding"
)

const (
	levelsTag   = "building:levels"
	buildingTag = "building"
)

var (
	leadingInt    = regexp.MustCompile(`^\s*[+-]?\d+`)
	officePattern = regexp.MustCompile(`(?i)(office|commercial)`)
)

// Normalize turns raw building tags into metadata. It never fails: missing or
// malformed tags fall back to DefaultFloorCount and a non-office building.
func Normalize(tags map[string]string) padding.BuildingMetadata {
	return padding.BuildingMetadata{
		FloorCount: floorCount(tags[levelsTag]),
		IsOffice:   officePattern.MatchString(tags[buildingTag]),
	}
}

// floorCount reads the leading integer of the tag value, so "3.5" is 3 and
// "4;5" is 4. Values above padding.MaxFloorCount count as unusable.
func floorCount(raw string) int {
	m := leadingInt.FindString(raw)
	if m == "" {
		return padding.DefaultFloorCount
	}
	n, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil || n <= 0 || n > padding.MaxFloorCount {
		return padding.DefaultFloorCount
	}
	return n
}
