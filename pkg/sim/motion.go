package sim

// motion integrates the velocity of a train which accelerates toward
// the desired velocity at a constant rate. Velocities are in mm/s.
type motion struct {
	desired float64
	current float64
	accel   float64
}

// advance moves the state by secs seconds and returns the distance
// traveled, negative when moving backwards.
func (m *motion) advance(secs float64) float64 {
	if secs <= 0 {
		return 0
	}
	if m.accel == 0 || m.current == m.desired {
		m.current = m.desired
		return m.current * secs
	}
	accel := m.accel
	if m.current > m.desired {
		accel = -accel
	}
	accelSecs := (m.desired - m.current) / accel
	if accelSecs > secs {
		dist := m.current*secs + accel*secs*secs/2
		m.current += accel * secs
		return dist
	}
	dist := m.current*accelSecs + accel*accelSecs*accelSecs/2
	m.current = m.desired
	return dist + m.desired*(secs-accelSecs)
}
