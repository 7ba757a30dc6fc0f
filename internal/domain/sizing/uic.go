package sizing

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/lumiere/backend/internal/domain/shared"
)

// Sizing-specific domain errors
var (
	ErrInvalidSizeCode   = shared.NewDomainError("INVALID_SIZE_CODE", "Band must be positive and cup volume at least 1")
	ErrMalformedUIC      = shared.NewDomainError("MALFORMED_UIC", "Universal identifier code does not match the expected format")
	ErrUnsupportedRegion = shared.NewDomainError("UNSUPPORTED_REGION", "Region code is not supported")
	ErrVolumeOutOfRange  = shared.NewDomainError("VOLUME_OUT_OF_RANGE", "Cup volume is outside the region's progression")
	ErrUnknownCupLetter  = shared.NewDomainError("UNKNOWN_CUP_LETTER", "Cup letter is not part of the region's progression")
	ErrMalformedSize     = shared.NewDomainError("MALFORMED_SIZE", "Size must be a band number followed by a cup letter")
	ErrNoSisterDown      = shared.NewDomainError("NO_SISTER_DOWN", "No sister size exists below this band")
	ErrNoSisterUp        = shared.NewDomainError("NO_SISTER_UP", "No sister size exists above this cup volume")
)

// BandStepCm is one band-size increment (2 inches) in centimeters.
const BandStepCm = 5

// uicPattern matches the serialized UIC token, e.g. UIC_BRA_BAND86_CUPVOL6.
var uicPattern = regexp.MustCompile(`^UIC_BRA_BAND(\d+)_CUPVOL(\d+)$`)

// SizeCode is the canonical, region-agnostic representation of a bra size:
// the band measurement in centimeters and an integer cup volume. Cup volume
// is a rank, not a physical unit; regional cup letters are derived from it
// through a TableSet. The string token is a serialization convenience only,
// internal logic never parses it.
type SizeCode struct {
	BandCm    int `json:"band_cm"`
	CupVolume int `json:"cup_volume"`
}

// NewSizeCode validates and constructs a SizeCode
func NewSizeCode(bandCm, cupVolume int) (SizeCode, error) {
	if bandCm <= 0 || cupVolume < 1 {
		return SizeCode{}, ErrInvalidSizeCode
	}
	return SizeCode{BandCm: bandCm, CupVolume: cupVolume}, nil
}

// Encode serializes the size code into its UIC token form
func (c SizeCode) Encode() (string, error) {
	if c.BandCm <= 0 || c.CupVolume < 1 {
		return "", ErrInvalidSizeCode
	}
	return fmt.Sprintf("UIC_BRA_BAND%d_CUPVOL%d", c.BandCm, c.CupVolume), nil
}

// MustEncode serializes a size code that has already passed validation,
// such as one produced by ParseUIC or sister arithmetic. It panics on an
// invalid code, which indicates a bug in the caller.
func (c SizeCode) MustEncode() string {
	uic, err := c.Encode()
	if err != nil {
		panic(err)
	}
	return uic
}

// DecodeUIC parses a UIC token back into a SizeCode. The same validity rules
// as Encode apply, so Decode(Encode(c)) == c for every valid c.
func DecodeUIC(uic string) (SizeCode, error) {
	m := uicPattern.FindStringSubmatch(uic)
	if m == nil {
		return SizeCode{}, ErrMalformedUIC
	}
	bandCm, err := strconv.Atoi(m[1])
	if err != nil {
		return SizeCode{}, ErrMalformedUIC
	}
	cupVolume, err := strconv.Atoi(m[2])
	if err != nil {
		return SizeCode{}, ErrMalformedUIC
	}
	if bandCm <= 0 || cupVolume < 1 {
		return SizeCode{}, ErrMalformedUIC
	}
	return SizeCode{BandCm: bandCm, CupVolume: cupVolume}, nil
}
