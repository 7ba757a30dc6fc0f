package sizing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lumiere/backend/internal/domain/shared"
)

// RegionTable is one region's ordered cup progression. The cup volume of a
// letter is its 1-based position in the progression. Regions differ in
// vocabulary (US uses DD/DDD where UK uses DD/E and EU uses E/F) and in how
// far the progression extends; conversion between regions is always a table
// lookup, never arithmetic on letters.
type RegionTable struct {
	Code        string
	Progression []string
}

// TableSet holds the cup progressions the engine operates on. It is built
// once at construction and read-only afterwards, so it is safe for
// unrestricted concurrent use.
type TableSet struct {
	regions map[string]RegionTable
	order   []string
}

// NewTableSet validates and assembles region tables into a TableSet
func NewTableSet(tables ...RegionTable) (*TableSet, error) {
	if len(tables) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "At least one region table is required")
	}

	ts := &TableSet{
		regions: make(map[string]RegionTable, len(tables)),
		order:   make([]string, 0, len(tables)),
	}

	for _, table := range tables {
		code := strings.ToUpper(strings.TrimSpace(table.Code))
		if code == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "Region code cannot be empty")
		}
		if len(table.Progression) == 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Region %s has an empty progression", code))
		}
		if _, exists := ts.regions[code]; exists {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Region %s is defined twice", code))
		}

		seen := make(map[string]bool, len(table.Progression))
		normalized := make([]string, len(table.Progression))
		for i, letter := range table.Progression {
			letter = strings.ToUpper(strings.TrimSpace(letter))
			if letter == "" {
				return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Region %s has an empty cup letter at volume %d", code, i+1))
			}
			if seen[letter] {
				return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Region %s repeats cup letter %s", code, letter))
			}
			seen[letter] = true
			normalized[i] = letter
		}

		ts.regions[code] = RegionTable{Code: code, Progression: normalized}
		ts.order = append(ts.order, code)
	}

	sort.Strings(ts.order)
	return ts, nil
}

// StandardTables returns the shipped cup progressions. US stacks repeated
// letters (DD, DDD), UK and AU use doubled letters (DD, E, F, FF, ...),
// EU, FR and JP run the plain alphabet, and VN follows a US/UK hybrid.
func StandardTables() *TableSet {
	ts, err := NewTableSet(
		RegionTable{Code: "US", Progression: []string{"AA", "A", "B", "C", "D", "DD", "DDD", "G", "H", "I", "J", "K", "L", "M", "N"}},
		RegionTable{Code: "UK", Progression: []string{"AA", "A", "B", "C", "D", "DD", "E", "F", "FF", "G", "GG", "H", "HH", "J", "JJ", "K"}},
		RegionTable{Code: "EU", Progression: []string{"AA", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N"}},
		RegionTable{Code: "FR", Progression: []string{"AA", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N"}},
		RegionTable{Code: "AU", Progression: []string{"AA", "A", "B", "C", "D", "DD", "E", "F", "FF", "G", "GG", "H", "HH", "J", "JJ"}},
		RegionTable{Code: "JP", Progression: []string{"AA", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N"}},
		RegionTable{Code: "VN", Progression: []string{"AA", "A", "B", "C", "D", "DD", "E", "F", "G", "H", "I", "J"}},
	)
	if err != nil {
		panic(err)
	}
	return ts
}

// Regions returns the supported region codes in sorted order
func (ts *TableSet) Regions() []string {
	codes := make([]string, len(ts.order))
	copy(codes, ts.order)
	return codes
}

// Supports reports whether the region code is known
func (ts *TableSet) Supports(regionCode string) bool {
	_, ok := ts.regions[normalizeRegion(regionCode)]
	return ok
}

// LetterFor returns the cup letter for a volume in a region
func (ts *TableSet) LetterFor(regionCode string, cupVolume int) (string, error) {
	table, ok := ts.regions[normalizeRegion(regionCode)]
	if !ok {
		return "", ErrUnsupportedRegion
	}
	if cupVolume < 1 || cupVolume > len(table.Progression) {
		return "", ErrVolumeOutOfRange
	}
	return table.Progression[cupVolume-1], nil
}

// VolumeFor returns the cup volume for a letter in a region
func (ts *TableSet) VolumeFor(regionCode, cupLetter string) (int, error) {
	table, ok := ts.regions[normalizeRegion(regionCode)]
	if !ok {
		return 0, ErrUnsupportedRegion
	}
	letter := strings.ToUpper(strings.TrimSpace(cupLetter))
	for i, l := range table.Progression {
		if l == letter {
			return i + 1, nil
		}
	}
	return 0, ErrUnknownCupLetter
}

// Progression returns a copy of the region's cup letters in ascending
// volume order; callers may modify or re-iterate the slice freely
func (ts *TableSet) Progression(regionCode string) ([]string, error) {
	table, ok := ts.regions[normalizeRegion(regionCode)]
	if !ok {
		return nil, ErrUnsupportedRegion
	}
	progression := make([]string, len(table.Progression))
	copy(progression, table.Progression)
	return progression, nil
}

// Conversion is the result of translating a cup letter between regions
type Conversion struct {
	FromRegion    string `json:"from_region"`
	FromCupLetter string `json:"from_cup_letter"`
	ToRegion      string `json:"to_region"`
	ToCupLetter   string `json:"to_cup_letter"`
	CupVolume     int    `json:"cup_volume"`
	IsExactMatch  bool   `json:"is_exact_match"`
}

// Convert translates a cup letter from one region's vocabulary to another's
// by going through the shared cup volume. IsExactMatch is always true for
// total tables; it exists so sparse tables can signal interpolation later.
func (ts *TableSet) Convert(fromRegion, toRegion, cupLetter string) (Conversion, error) {
	volume, err := ts.VolumeFor(fromRegion, cupLetter)
	if err != nil {
		return Conversion{}, err
	}
	toLetter, err := ts.LetterFor(toRegion, volume)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{
		FromRegion:    normalizeRegion(fromRegion),
		FromCupLetter: strings.ToUpper(strings.TrimSpace(cupLetter)),
		ToRegion:      normalizeRegion(toRegion),
		ToCupLetter:   toLetter,
		CupVolume:     volume,
		IsExactMatch:  true,
	}, nil
}

// Matrix returns the cup letter for a volume in every region that has one.
// It fails only when the volume is out of range for all regions.
func (ts *TableSet) Matrix(cupVolume int) (map[string]string, error) {
	matrix := make(map[string]string)
	for _, code := range ts.order {
		if letter, err := ts.LetterFor(code, cupVolume); err == nil {
			matrix[code] = letter
		}
	}
	if len(matrix) == 0 {
		return nil, ErrVolumeOutOfRange
	}
	return matrix, nil
}

// ProgressionInfo describes a cup letter's position within its region
type ProgressionInfo struct {
	RegionCode  string `json:"region_code"`
	CupLetter   string `json:"cup_letter"`
	CupVolume   int    `json:"cup_volume"`
	PreviousCup string `json:"previous_cup,omitempty"`
	NextCup     string `json:"next_cup,omitempty"`
}

// Info returns a cup letter's volume and neighbors in a region
func (ts *TableSet) Info(regionCode, cupLetter string) (ProgressionInfo, error) {
	volume, err := ts.VolumeFor(regionCode, cupLetter)
	if err != nil {
		return ProgressionInfo{}, err
	}
	table := ts.regions[normalizeRegion(regionCode)]

	info := ProgressionInfo{
		RegionCode: table.Code,
		CupLetter:  table.Progression[volume-1],
		CupVolume:  volume,
	}
	if volume > 1 {
		info.PreviousCup = table.Progression[volume-2]
	}
	if volume < len(table.Progression) {
		info.NextCup = table.Progression[volume]
	}
	return info, nil
}

func normalizeRegion(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
