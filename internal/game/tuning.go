package game

// Playfield and physics constants. These are fixed; nothing reads them from config.
const (
	Width                  = 640
	Height                 = 480
	BirdRadius             = 20
	BirdX                  = 100 // fixed horizontal center of the bird
	Gravity                = 3
	FallVelocityMultiplier = 2.5 // gravity is scaled by this while no hand is seen
	FollowFactor           = 0.2 // fraction of the distance to the fingertip covered per tick
	PipeWidth              = 70
	PipeGap                = 160
	PipeSpeed              = 14
	GapTopMin              = 100
	GapTopMax              = 300 // GapTopMax+PipeGap stays below Height; not enforced
)

// RecycleTicks is the number of ticks a pipe spawned at Width needs to
// leave the screen, i.e. ceil((Width+PipeWidth)/PipeSpeed).
const RecycleTicks = (Width + PipeWidth + PipeSpeed - 1) / PipeSpeed
