package entity

// Clip names shared by the kinds.
const (
	ClipDestroy = "destroy"
	ClipFall    = "fall"
	ClipDeath   = "death"
	ClipRevive  = "revive"
)

// AnimationPlayer plays named clips. Only the clip length matters to the
// simulation: it schedules the follow-up state change.
type AnimationPlayer interface {
	Play(clip string)
	CurrentClipLength() int
}

// ClipPlayer is an AnimationPlayer driven by a table of clip lengths in
// ticks. Unknown clips have length zero.
type ClipPlayer struct {
	lengths map[string]int
	current string
}

// NewClipPlayer creates a player over the given table.
func NewClipPlayer(lengths map[string]int) *ClipPlayer {
	return &ClipPlayer{lengths: lengths}
}

// Play starts clip.
func (p *ClipPlayer) Play(clip string) {
	p.current = clip
}

// Current returns the last clip played.
func (p *ClipPlayer) Current() string {
	return p.current
}

// CurrentClipLength returns the length of the current clip in ticks.
func (p *ClipPlayer) CurrentClipLength() int {
	return p.lengths[p.current]
}

// Delay counts ticks down to a follow-up action.
type Delay struct {
	left   int
	active bool
}

// Start arms the delay for n ticks. n <= 0 fires on the next Tick.
func (d *Delay) Start(n int) {
	d.left = n
	d.active = true
}

// Active reports whether the delay is armed.
func (d *Delay) Active() bool {
	return d.active
}

// Tick advances the delay and reports true exactly once, on the tick it
// runs out.
func (d *Delay) Tick() bool {
	if !d.active {
		return false
	}
	d.left--
	if d.left <= 0 {
		d.active = false
		return true
	}
	return false
}

// Cancel disarms the delay.
func (d *Delay) Cancel() {
	d.active = false
}
