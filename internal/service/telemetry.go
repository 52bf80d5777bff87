package service

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"pace_service_tool/internal/models"

	"github.com/google/uuid"
)

// ----------- Simulation constants -----------
const (
	BypassState  = "Bypass (all relays closed)"
	NormalState  = "Normal"
	OnlineState  = "Online"
	OfflineState = "Offline"

	CompressorSignals = "Thermostat sweep detected – compressor call inputs observed."
	FanSignals        = "Fan signals received – indoor/outdoor fan stages cycled from thermostat."

	// ISO-8601 with milliseconds, as browsers print Date.toISOString.
	paceDateTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Range describes one uniformly drawn measurement.
type Range struct {
	Min, Max float64
	Decimals int
	Prefix   string
	Suffix   string
}

func (r Range) format(v float64) string {
	return r.Prefix + strconv.FormatFloat(v, 'f', r.Decimals, 64) + r.Suffix
}

// Measurement ranges keyed by snapshot JSON name.
var TelemetryRanges = map[string]Range{
	"cellularSignalStrength": {Min: -110, Max: -70, Decimals: 0, Suffix: " dBm"},
	"satMeasured":            {Min: 45, Max: 60, Decimals: 1, Suffix: " °F"},
	"ratTempMeasured":        {Min: 68, Max: 80, Decimals: 1, Suffix: " °F"},
	"domeTempMeasured":       {Min: 80, Max: 120, Decimals: 1, Suffix: " °F"},
	"voltageMeasured":        {Min: 198, Max: 265, Decimals: 0, Suffix: " V"},
	"currentMeasured":        {Min: 5, Max: 40, Decimals: 1, Suffix: " A"},
	"vibrationMeasured":      {Min: 0, Max: 8, Decimals: 2, Suffix: " mm/s"},
	"weatherSiteOat":         {Min: 55, Max: 98, Decimals: 1, Suffix: " °F"},
	"energySitePrice":        {Min: 0.08, Max: 0.35, Decimals: 3, Prefix: "$", Suffix: " /kWh"},
}

// Categorical choices, drawn uniformly with replacement.
var (
	RadioAccessTechnologies = []string{"LTE", "LTE-M", "5G", "NB-IoT"}
	PaceLocationZips        = []string{"32801", "75001", "60601", "30301"}
	WeatherSites            = []string{"KORL", "KATL", "KDFW", "KORD"}
	EnergyPriceLocations    = []string{"FL-UTIL-01", "ERCOT", "PJM"}
)

// TelemetryService simulates one commissioning telemetry round-trip per call.
type TelemetryService struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	now    func() time.Time
	latest *models.TelemetrySnapshot
}

// NewTelemetryService uses src for every draw and now for the timestamp.
// A nil src is seeded from the clock; a nil now means time.Now.
func NewTelemetryService(src rand.Source, now func() time.Time) *TelemetryService {
	if src == nil {
		src = rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())
	}
	if now == nil {
		now = time.Now
	}
	return &TelemetryService{rnd: rand.New(src), now: now}
}

// RunTest draws a fresh snapshot and keeps it as the latest one.
func (s *TelemetryService) RunTest() models.TelemetrySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	// bypass closes every relay, which takes the controller offline
	bypass := s.rnd.Float64() < 0.5
	snap := models.TelemetrySnapshot{
		RunID:       uuid.NewString(),
		BypassState: NormalState,
		OnlineState: OnlineState,

		CellularSignalStrength: s.draw("cellularSignalStrength"),
		RATMeasured:            s.choice(RadioAccessTechnologies),
		SATMeasured:            s.draw("satMeasured"),
		RATTempMeasured:        s.draw("ratTempMeasured"),
		DomeTempMeasured:       s.draw("domeTempMeasured"),
		VoltageMeasured:        s.draw("voltageMeasured"),
		CurrentMeasured:        s.draw("currentMeasured"),
		VibrationMeasured:      s.draw("vibrationMeasured"),

		PaceDateTime:        s.now().UTC().Format(paceDateTimeLayout),
		PaceLocationZip:     s.choice(PaceLocationZips),
		WeatherSiteLocation: s.choice(WeatherSites),
		WeatherSiteOat:      s.draw("weatherSiteOat"),
		EnergyPriceLocation: s.choice(EnergyPriceLocations),
		EnergySitePrice:     s.draw("energySitePrice"),

		CompressorSignals: CompressorSignals,
		FanSignals:        FanSignals,
	}
	if bypass {
		snap.BypassState = BypassState
		snap.OnlineState = OfflineState
	}

	s.latest = &snap
	return snap
}

func (s *TelemetryService) Latest() (models.TelemetrySnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return models.TelemetrySnapshot{}, false
	}
	return *s.latest, true
}

// draw returns a value in [Min, Max) rounded to the range's decimals.
// Rounding can reach Max but never pass it.
func (s *TelemetryService) draw(name string) string {
	r := TelemetryRanges[name]
	return r.format(r.Min + s.rnd.Float64()*(r.Max-r.Min))
}

func (s *TelemetryService) choice(options []string) string {
	return options[s.rnd.IntN(len(options))]
}
