package slides

// Sequence issues 1-based, gapless slide numbers for one video run. It is
// owned by a single sampling session; Reset is an explicit call so that
// runs stay isolated. Rollback undoes the most recent Next after a failed
// persistence, keeping the invariant that every reported number is backed
// by a verified file on disk.
type Sequence struct {
	current int
}

func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next sequence number.
func (s *Sequence) Next() int {
	s.current++
	return s.current
}

// Rollback revokes the most recently issued number.
func (s *Sequence) Rollback() {
	if s.current > 0 {
		s.current--
	}
}

// Current returns the highest issued number, 0 before the first Next.
func (s *Sequence) Current() int {
	return s.current
}

// Reset prepares the generator for a new video.
func (s *Sequence) Reset() {
	s.current = 0
}
