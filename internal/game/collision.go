package game

// Collides reports whether the bird touches the ceiling, the floor, or a
// pipe in s.
//
// Horizontally only the bird's leading edge (BirdX+BirdRadius) is tested
// against the pipe, and vertically only its center against the gap.
func Collides(s State) bool {
	birdTop := s.BirdY - BirdRadius
	birdBottom := s.BirdY + BirdRadius
	if birdTop <= 0 || birdBottom >= Height {
		return true
	}

	edge := float64(BirdX + BirdRadius)
	inPipe := s.PipeX < edge && edge < s.PipeX+PipeWidth
	if !inPipe {
		return false
	}

	gapTop := s.PipeGapTop
	gapBottom := s.PipeGapTop + PipeGap
	return !(gapTop < s.BirdY && s.BirdY < gapBottom)
}
