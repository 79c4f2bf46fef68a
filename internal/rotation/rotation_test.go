package rotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/sched"
)

type pivot struct {
	x, y, z float32
	calls   int
}

func (p *pivot) SetEuler(x, y, z float32) {
	p.x, p.y, p.z = x, y, z
	p.calls++
}

func newCoordinator() (*Coordinator, *sched.Scheduler, *pivot) {
	s := sched.New()
	p := &pivot{}
	return New(p, s, config.Default().Rotation), s, p
}

// step runs one frame the way the session does: scheduler first, then rotation.
func step(c *Coordinator, s *sched.Scheduler, d time.Duration) {
	s.Advance(d)
	c.Frame(float32(d.Seconds()))
}

func TestAutoSpin(t *testing.T) {
	c, _, p := newCoordinator()
	require.True(t, c.Auto())

	c.Frame(1)
	assert.InDelta(t, 0.5, p.y, 1e-6)
	assert.Equal(t, c.Visual().Y, c.Angles().Y)
	assert.Equal(t, 1, p.calls)
}

func TestScrollEasesTowardTarget(t *testing.T) {
	c, s, p := newCoordinator()
	c.Frame(1)

	c.Scroll(100)
	assert.False(t, c.Auto())
	assert.True(t, s.Pending(ResumeKey))

	c.Frame(0.4)
	assert.Greater(t, p.y, float32(0.5))
	assert.Less(t, p.y, float32(1.0))

	c.Frame(0.4)
	assert.InDelta(t, 1.0, c.Angles().Y, 1e-6)
	assert.InDelta(t, 1.0, p.y, 1e-6)
	assert.False(t, c.Easing())
}

func TestTwoScrollsResumeOnceFromSecond(t *testing.T) {
	c, s, _ := newCoordinator()
	const frame = 100 * time.Millisecond

	c.Scroll(50)
	for i := 0; i < 10; i++ {
		step(c, s, frame)
	}
	c.Scroll(50)
	remaining, ok := s.Remaining(ResumeKey)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, remaining)

	resumes := 0
	var resumedAt time.Duration
	prev := c.Auto()
	for i := 1; i <= 40; i++ {
		step(c, s, frame)
		if c.Auto() && !prev {
			resumes++
			resumedAt = time.Duration(i) * frame
		}
		prev = c.Auto()
	}
	assert.Equal(t, 1, resumes)
	assert.Equal(t, 2*time.Second, resumedAt)
}

func TestResetCompletesAtZero(t *testing.T) {
	c, s, p := newCoordinator()
	c.Frame(1)
	c.Scroll(200)
	c.Frame(0.8)
	require.NotZero(t, c.Angles().Y)

	c.Reset()
	assert.False(t, c.Auto())
	assert.False(t, s.Pending(ResumeKey))

	for i := 0; i < 3; i++ {
		c.Frame(0.25)
		assert.False(t, c.Auto())
	}
	c.Frame(0.25)

	assert.Equal(t, Angles{}, c.Angles())
	assert.Equal(t, Angles{}, c.Visual())
	assert.Equal(t, float32(0), p.y)
	assert.True(t, c.Auto())

	c.Frame(1)
	assert.InDelta(t, 0.5, p.y, 1e-6)
}

func TestScrollReplacesReset(t *testing.T) {
	c, s, _ := newCoordinator()
	c.Frame(1)

	c.Reset()
	step(c, s, 500*time.Millisecond)
	c.Scroll(10)

	// The reset would have finished here; its completion must not fire.
	step(c, s, 600*time.Millisecond)
	assert.False(t, c.Auto())

	step(c, s, 1400*time.Millisecond)
	assert.True(t, c.Auto())
}

func TestToggle(t *testing.T) {
	c, s, p := newCoordinator()
	c.Frame(1)

	assert.False(t, c.Toggle())
	c.Frame(1)
	assert.InDelta(t, 0.5, p.y, 1e-6)

	c.Scroll(10)
	assert.True(t, c.Toggle())
	assert.False(t, s.Pending(ResumeKey))
	assert.False(t, c.Easing())
	assert.Equal(t, c.Visual(), c.Angles())

	c.Frame(1)
	assert.Greater(t, p.y, float32(0.5))
}

func TestHoverHoldsSpin(t *testing.T) {
	c, s, p := newCoordinator()
	c.Frame(1)

	c.HoverEnter()
	c.Frame(1)
	assert.InDelta(t, 0.5, p.y, 1e-6)
	assert.True(t, c.Auto())
	assert.True(t, c.Holding())

	c.HoverLeave()
	c.Frame(1)
	assert.InDelta(t, 1.0, p.y, 1e-6)

	// Hover does not touch a pending resume.
	c.Scroll(10)
	c.HoverEnter()
	assert.True(t, s.Pending(ResumeKey))
	c.HoverLeave()
	assert.False(t, c.Auto())
}

func TestDispose(t *testing.T) {
	c, s, _ := newCoordinator()
	c.Scroll(10)
	c.Dispose()
	assert.False(t, s.Pending(ResumeKey))
	assert.False(t, c.Easing())
}

func TestWrap(t *testing.T) {
	assert.Equal(t, float32(1), wrap(1))
	assert.InDelta(t, 1.0, wrap(1+4*3.14159265), 1e-4)
	assert.InDelta(t, -1.0, wrap(-1-2*3.14159265), 1e-4)
}
