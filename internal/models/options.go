package models

// FormOptions lists the choices offered by the nameplate form selectors.
type FormOptions struct {
	Manufacturers       []string `json:"manufacturers"`
	ControlCircuitVolts []string `json:"controlCircuitVolts"`
	CompressorCounts    []int    `json:"numCompressors"`
	OutdoorFanCounts    []string `json:"numOutdoorFans"`
	IndoorFanCounts     []string `json:"numIndoorFans"`
	EconomizerOptions   []string `json:"economizer"`
}

func DefaultFormOptions() FormOptions {
	manufacturers := make([]string, len(Manufacturers))
	copy(manufacturers, Manufacturers)
	return FormOptions{
		Manufacturers:       manufacturers,
		ControlCircuitVolts: []string{ControlCircuit24VAC, ControlCircuit120VAC},
		CompressorCounts:    []int{0, 1, 2, 3, 4},
		OutdoorFanCounts:    []string{NotPresent, "1", "2", "3", "4"},
		IndoorFanCounts:     []string{NotPresent, "1", "2"},
		EconomizerOptions:   []string{NotPresent, "1"},
	}
}
