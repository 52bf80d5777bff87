package models

// TelemetrySnapshot is one simulated commissioning readout. Values are
// display strings with their unit suffix already applied.
type TelemetrySnapshot struct {
	RunID string `json:"runId"`

	BypassState string `json:"bypassState"` // "Bypass (all relays closed)" | "Normal"
	OnlineState string `json:"onlineState"` // "Offline" | "Online"

	CellularSignalStrength string `json:"cellularSignalStrength"`
	RATMeasured            string `json:"ratMeasured"` // radio access technology
	SATMeasured            string `json:"satMeasured"`
	RATTempMeasured        string `json:"ratTempMeasured"` // return air temperature
	DomeTempMeasured       string `json:"domeTempMeasured"`
	VoltageMeasured        string `json:"voltageMeasured"`
	CurrentMeasured        string `json:"currentMeasured"`
	VibrationMeasured      string `json:"vibrationMeasured"`

	PaceDateTime        string `json:"paceDateTime"`
	PaceLocationZip     string `json:"paceLocationZip"`
	WeatherSiteLocation string `json:"weatherSiteLocation"`
	WeatherSiteOat      string `json:"weatherSiteOat"`
	EnergyPriceLocation string `json:"energyPriceLocation"`
	EnergySitePrice     string `json:"energySitePrice"`

	CompressorSignals string `json:"compressorSignals"`
	FanSignals        string `json:"fanSignals"`
}
