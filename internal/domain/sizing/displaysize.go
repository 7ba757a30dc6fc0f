package sizing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// displaySizePattern matches sizes like "34C", "36DD", "75E".
var displaySizePattern = regexp.MustCompile(`^(\d+)([A-Za-z]+)$`)

// DisplaySize is a region-notation size resolved against a TableSet
type DisplaySize struct {
	BandDisplay int
	CupLetter   string
	Code        SizeCode
}

// String renders the size back in its display notation
func (d DisplaySize) String() string {
	return fmt.Sprintf("%d%s", d.BandDisplay, d.CupLetter)
}

// regionUsesInches reports whether the region expresses band sizes in inches.
// US and UK bands are inch numbers (32, 34, ...); the rest use centimeters.
func regionUsesInches(regionCode string) bool {
	code := normalizeRegion(regionCode)
	return code == "US" || code == "UK"
}

// InchesToCm converts an inch band measurement to centimeters
func InchesToCm(inches int) int {
	return int(math.Round(float64(inches) * 2.54))
}

// CmToInches converts a centimeter band measurement to inches
func CmToInches(cm int) int {
	return int(math.Round(float64(cm) / 2.54))
}

// ParseDisplaySize resolves a size string like "34C" under a region's
// notation: the band number in the region's unit and the cup letter through
// the region's progression. Band numbers under 50 are treated as inches
// regardless of region, which tolerates US-notation input on metric regions.
func ParseDisplaySize(tables *TableSet, regionCode, size string) (DisplaySize, error) {
	m := displaySizePattern.FindStringSubmatch(strings.TrimSpace(size))
	if m == nil {
		return DisplaySize{}, ErrMalformedSize
	}

	bandDisplay, err := strconv.Atoi(m[1])
	if err != nil || bandDisplay <= 0 {
		return DisplaySize{}, ErrMalformedSize
	}
	cupLetter := strings.ToUpper(m[2])

	volume, err := tables.VolumeFor(regionCode, cupLetter)
	if err != nil {
		return DisplaySize{}, err
	}

	bandCm := bandDisplay
	if bandDisplay < 50 {
		bandCm = InchesToCm(bandDisplay)
	}

	return DisplaySize{
		BandDisplay: bandDisplay,
		CupLetter:   cupLetter,
		Code:        SizeCode{BandCm: bandCm, CupVolume: volume},
	}, nil
}

// FormatDisplaySize renders a SizeCode in a region's notation
func FormatDisplaySize(tables *TableSet, regionCode string, code SizeCode) (DisplaySize, error) {
	letter, err := tables.LetterFor(regionCode, code.CupVolume)
	if err != nil {
		return DisplaySize{}, err
	}

	bandDisplay := code.BandCm
	if regionUsesInches(regionCode) {
		bandDisplay = CmToInches(code.BandCm)
	}

	return DisplaySize{
		BandDisplay: bandDisplay,
		CupLetter:   letter,
		Code:        code,
	}, nil
}
