package geom

// FBMParams configures fractal noise summation.
type FBMParams struct {
	Amplitude   float64 `yaml:"amplitude" toml:"amplitude"`
	Frequency   float64 `yaml:"frequency" toml:"frequency"`
	Octaves     int     `yaml:"octaves" toml:"octaves"`
	Persistence float64 `yaml:"persistence" toml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity" toml:"lacunarity"`
}

// EvaluateFBM sums octaves of n at (x, y). Amplitude decays by persistence and
// frequency grows by lacunarity after each octave. p is a value copy, so the
// caller's parameters are never advanced.
func EvaluateFBM(x, y float64, p FBMParams, n Noise2D) float64 {
	var combined float64
	for i := 0; i < p.Octaves; i++ {
		combined += p.Amplitude * n.Noise2D(x*p.Frequency, y*p.Frequency)
		p.Amplitude *= p.Persistence
		p.Frequency *= p.Lacunarity
	}
	return combined
}
