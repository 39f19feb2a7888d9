package playback

// EaseInOutCubic maps t in [0, 1] onto an S-curve: 4t^3 below one half,
// 1 + 4(t-1)^3 above.
func EaseInOutCubic(t float64) float64 {
	t = clamp(t, 0, 1)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := t - 1
	return 1 + 4*u*u*u
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
