package config

// Presets are complete named configurations. "lab" is the bench rotor the
// defaults describe; the others stress different corners of the envelope.
var Presets = map[string]*Config{
	"lab": DefaultConfig(),
	"flywheel": {
		// Heavy rotor, strong driver, long spin-up.
		Params: PlantConfig{
			Inertia: 0.5, Kt: 0.12, R: 1.2, AlphaR: 0.0039, TRef: 293.15,
			CTh: 450.0, HTh: 1.5, TAmb: 293.15,
			Ke: 2e-4, Kg: 1e-4, Kv: 1e-7, CMech: 5e-4,
			RPMLimit: 8000, TLimit: 393.15, IMax: 12.0, DutyMax: 0.05,
			PulsesPerRev: 2,
		},
		Run: RunConfig{TargetRPM: 6000, HoldBand: 50, MinRPM: 100, Duration: 120, Tick: DefaultTick, Dt: 0.001},
	},
	"vacuum": {
		// Levitated rotor in hard vacuum: gas drag gone, eddy drag dominant.
		Params: PlantConfig{
			Inertia: 0.02, Kt: 0.05, R: 2.0, AlphaR: 0.0039, TRef: 293.15,
			CTh: 200.0, HTh: 0.4, TAmb: 293.15,
			Ke: 1e-4, Kg: 0, Kv: 0, CMech: 0,
			RPMLimit: 30000, TLimit: 363.15, IMax: 5.0, DutyMax: 0.02,
			PulsesPerRev: 1,
		},
		Run: RunConfig{TargetRPM: 24000, HoldBand: 50, MinRPM: 100, Duration: 300, Tick: DefaultTick, Dt: 0.001},
	},
	"hotcoil": {
		// Undersized cooling; drives the thermal interlock in minutes.
		Params: PlantConfig{
			Inertia: 0.02, Kt: 0.05, R: 3.5, AlphaR: 0.0045, TRef: 293.15,
			CTh: 80.0, HTh: 0.1, TAmb: 303.15,
			Ke: 1e-4, Kg: 5e-5, Kv: 0, CMech: 0,
			RPMLimit: 12000, TLimit: 343.15, IMax: 6.0, DutyMax: 0.1,
			PulsesPerRev: 1,
		},
		Run: RunConfig{TargetRPM: 9000, HoldBand: 50, MinRPM: 100, Duration: 120, Tick: DefaultTick, Dt: 0.001},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
