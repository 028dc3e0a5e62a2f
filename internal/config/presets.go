package config

var Presets = map[string]*Config{
	"ground_1d": {
		Dim: 1, HalfWidth: []float64{5}, Resolution: []int{64},
		Dt: 0.01, Steps: 2000, Accuracy: 1e-10,
		Wave: WaveConfig{Widths: []float64{1}},
		Trap: TrapConfig{AlphaY: 1, AlphaZ: 1},
	},
	"interacting_1d": {
		Dim: 1, HalfWidth: []float64{10}, Resolution: []int{256},
		Dt: 0.002, Steps: 10000, G: 10.0, Accuracy: 1e-12,
		Wave: WaveConfig{Widths: []float64{2}},
		Trap: TrapConfig{AlphaY: 1, AlphaZ: 1},
	},
	"pancake_2d": {
		Dim: 2, HalfWidth: []float64{8}, Resolution: []int{128},
		Dt: 0.005, Steps: 5000, G: 5.0, Accuracy: 1e-10,
		Wave: WaveConfig{Widths: []float64{1.5}},
		Trap: TrapConfig{AlphaY: 1.5, AlphaZ: 1},
	},
	"anisotropic_3d": {
		Dim: 3, HalfWidth: []float64{6, 6, 4}, Resolution: []int{64, 64, 32},
		Dt: 0.002, Steps: 4000, G: 20.0, Accuracy: 1e-10,
		Wave: WaveConfig{Widths: []float64{1, 1, 0.7}},
		Trap: TrapConfig{AlphaY: 1, AlphaZ: 2},
	},
	"dipolar_3d": {
		Dim: 3, HalfWidth: []float64{6}, Resolution: []int{64},
		Dt: 0.002, Steps: 6000, G: 20.0, GDipole: 10.0, Accuracy: 1e-10,
		Wave:  WaveConfig{Widths: []float64{1, 1, 0.7}},
		Trap:  TrapConfig{AlphaY: 1, AlphaZ: 2},
		Noise: NoiseConfig{Enabled: true, Min: DefaultNoiseMin, Max: DefaultNoiseMax},
	},
	"kicked_1d": {
		Dim: 1, HalfWidth: []float64{10}, Resolution: []int{256},
		Dt: 0.001, Steps: 5000, RealTime: true,
		Wave: WaveConfig{Widths: []float64{1}, Kick: 2.0},
		Trap: TrapConfig{AlphaY: 1, AlphaZ: 1},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
