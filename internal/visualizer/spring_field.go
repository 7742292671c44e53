package visualizer

import "github.com/charmbracelet/harmonica"

const (
	springFrequency = 8.0
	springDamping   = 1.0 // critically damped
)

// springField animates a row of values towards their targets, one
// harmonica spring per value.
type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringField(fps int, n int) springField {
	return springField{
		spring: harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping),
		pos:    make([]float64, n),
		vel:    make([]float64, n),
	}
}

func (s *springField) step(i int, target float64) float64 {
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	s.pos[i] = p
	s.vel[i] = v
	return p
}

func (s *springField) reset() {
	clear(s.pos)
	clear(s.vel)
}
