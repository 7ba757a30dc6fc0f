package sizing

// Sister sizing rule: shifting the band by one step while moving the cup
// volume one step in the opposite direction preserves approximate cup
// capacity. 34C -> sister down 32D, sister up 36B.

// SisterDown returns the equivalent size one band step tighter
func (c SizeCode) SisterDown() (SizeCode, error) {
	if c.BandCm-BandStepCm <= 0 {
		return SizeCode{}, ErrNoSisterDown
	}
	return SizeCode{BandCm: c.BandCm - BandStepCm, CupVolume: c.CupVolume + 1}, nil
}

// SisterUp returns the equivalent size one band step looser
func (c SizeCode) SisterUp() (SizeCode, error) {
	if c.CupVolume-1 < 1 {
		return SizeCode{}, ErrNoSisterUp
	}
	return SizeCode{BandCm: c.BandCm + BandStepCm, CupVolume: c.CupVolume - 1}, nil
}

// SisterPair holds the computable sister sizes of an anchor size.
// A nil side means no sister exists in that direction; callers treat
// that as "alternate unavailable", never as a failure.
type SisterPair struct {
	Down *SizeCode
	Up   *SizeCode
}

// Sisters computes both sister sizes, dropping the sides that are out of range
func (c SizeCode) Sisters() SisterPair {
	var pair SisterPair
	if down, err := c.SisterDown(); err == nil {
		pair.Down = &down
	}
	if up, err := c.SisterUp(); err == nil {
		pair.Up = &up
	}
	return pair
}
