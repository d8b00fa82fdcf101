package zeroize

// DropSentinel is a marker field a containing type embeds to get a
// release-time zeroness assertion. It carries a non-zero birth marker so
// that ZeroizationProbe implementations can — and must — exclude it from
// their conjunction over fields: the sentinel itself is never zero while
// alive, only once its own Release has run.
//
// Embed this in any type whose zeroization completeness should be
// verifiable in tests: call Arm() at construction, Release() at the type's
// own Release/Close, and Alive() in test code to check whether that
// Release has run. The sentinel does not itself inspect the surrounding
// value.
type DropSentinel struct {
	born uint8
}

const sentinelBirthMark uint8 = 0xA5

// Arm sets the sentinel's birth marker. Call once at construction.
func (s *DropSentinel) Arm() {
	s.born = sentinelBirthMark
}

// Alive reports whether the sentinel is still armed (i.e. Release has not
// run yet).
func (s *DropSentinel) Alive() bool {
	return s.born == sentinelBirthMark
}

// Release clears the sentinel's birth marker. Call this last, after every
// other field of the containing value has been zeroized, so that a
// subsequent IsZeroized() on the whole value (sentinel included) reports
// true.
func (s *DropSentinel) Release() {
	s.born = 0
}
