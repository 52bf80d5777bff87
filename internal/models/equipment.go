package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Slot capacities of the nameplate form. Counts above these only expose
// the slots that exist.
const (
	MaxCompressors = 4
	MaxFanSlots    = 2
)

const NotPresent = "Not Present"

const (
	ControlCircuit24VAC  = "24vac"
	ControlCircuit120VAC = "120vac"
)

var Manufacturers = []string{
	"Carrier",
	"Trane",
	"Lennox",
	"Daikin",
	"Rheem",
	"Aaon",
	"Goodman",
	"Toshiba",
	"Mitsubishi",
	"LG",
	"Nordyne",
	"Bosch",
	"Samsung",
	"Danfoss",
	"Other",
}

var (
	compressorLabels = [MaxCompressors]string{"ComprA", "ComprB", "ComprC", "ComprD"}
	fanLabels        = [MaxFanSlots]string{"FanA", "FanB"}
)

var (
	ErrUnknownField   = errors.New("unknown field")
	ErrInvalidValue   = errors.New("invalid value")
	ErrSlotOutOfRange = errors.New("slot index out of range")
)

// MotorSpec is one compressor or fan nameplate. LRA is only meaningful for compressors.
type MotorSpec struct {
	Label  string `json:"label" yaml:"label" msgpack:"label"`
	Volts  string `json:"volts" yaml:"volts" msgpack:"volts"`
	Phases string `json:"phases" yaml:"phases" msgpack:"phases"`
	Hz     string `json:"hz" yaml:"hz" msgpack:"hz"`
	RLA    string `json:"rla" yaml:"rla" msgpack:"rla"`
	LRA    string `json:"lra,omitempty" yaml:"lra,omitempty" msgpack:"lra,omitempty"`
}

type HeatingCapacity struct {
	InputMaxBtuHr       string `json:"inputMaxBtuHr" yaml:"inputMaxBtuHr" msgpack:"inputMaxBtuHr"`
	OutputCapacityBtuHr string `json:"outputCapacityBtuHr" yaml:"outputCapacityBtuHr" msgpack:"outputCapacityBtuHr"`
}

type CoolingCapacity struct {
	InputMaxKw       string `json:"inputMaxKw" yaml:"inputMaxKw" msgpack:"inputMaxKw"`
	OutputCapacityKw string `json:"outputCapacityKw" yaml:"outputCapacityKw" msgpack:"outputCapacityKw"`
}

// EquipmentRecord is the persisted nameplate form.
//
// Slot arrays always hold every slot; the count fields only select how
// many leading slots are shown, so lowering a count never loses data.
// The record contains no slices or maps: a plain assignment is a deep copy.
type EquipmentRecord struct {
	Manufacturer        string `json:"manufacturer" yaml:"manufacturer" msgpack:"manufacturer"`
	ModelNumber         string `json:"modelNumber" yaml:"modelNumber" msgpack:"modelNumber"`
	SerialNumber        string `json:"serialNumber" yaml:"serialNumber" msgpack:"serialNumber"`
	ControlCircuitVolts string `json:"controlCircuitVolts" yaml:"controlCircuitVolts" msgpack:"controlCircuitVolts"`

	CompressorCount int                       `json:"numCompressors" yaml:"numCompressors" msgpack:"numCompressors"`
	Compressors     [MaxCompressors]MotorSpec `json:"compressors" yaml:"compressors" msgpack:"compressors"`

	OutdoorFanCount string                 `json:"numOutdoorFans" yaml:"numOutdoorFans" msgpack:"numOutdoorFans"` // "Not Present" | "1".."4"
	OutdoorFans     [MaxFanSlots]MotorSpec `json:"outdoorFans" yaml:"outdoorFans" msgpack:"outdoorFans"`

	IndoorFanCount string                 `json:"numIndoorFans" yaml:"numIndoorFans" msgpack:"numIndoorFans"` // "Not Present" | "1" | "2"
	IndoorFans     [MaxFanSlots]MotorSpec `json:"indoorFans" yaml:"indoorFans" msgpack:"indoorFans"`

	Economizer string `json:"economizer" yaml:"economizer" msgpack:"economizer"` // "Not Present" | "1"

	Heating HeatingCapacity `json:"heating" yaml:"heating" msgpack:"heating"`
	Cooling CoolingCapacity `json:"cooling" yaml:"cooling" msgpack:"cooling"`
}

// DefaultEquipmentRecord returns the blank form used on first run and
// whenever stored data cannot be read.
func DefaultEquipmentRecord() EquipmentRecord {
	r := EquipmentRecord{
		ControlCircuitVolts: ControlCircuit24VAC,
		CompressorCount:     0,
		OutdoorFanCount:     "1",
		IndoorFanCount:      "1",
		Economizer:          NotPresent,
	}
	return r.Normalize()
}

// Normalize restores the fixed slot labels. Stored data may not rename slots.
func (r EquipmentRecord) Normalize() EquipmentRecord {
	for i := range r.Compressors {
		r.Compressors[i].Label = compressorLabels[i]
	}
	for i := range r.OutdoorFans {
		r.OutdoorFans[i].Label = fanLabels[i]
		r.OutdoorFans[i].LRA = ""
	}
	for i := range r.IndoorFans {
		r.IndoorFans[i].Label = fanLabels[i]
		r.IndoorFans[i].LRA = ""
	}
	return r
}

// Field names a top-level scalar of EquipmentRecord.
type Field string

const (
	FieldManufacturer        Field = "manufacturer"
	FieldModelNumber         Field = "modelNumber"
	FieldSerialNumber        Field = "serialNumber"
	FieldControlCircuitVolts Field = "controlCircuitVolts"
	FieldCompressorCount     Field = "numCompressors"
	FieldOutdoorFanCount     Field = "numOutdoorFans"
	FieldIndoorFanCount      Field = "numIndoorFans"
	FieldEconomizer          Field = "economizer"
)

// MotorGroup selects one of the slot arrays.
type MotorGroup string

const (
	GroupCompressors MotorGroup = "compressors"
	GroupOutdoorFans MotorGroup = "outdoorFans"
	GroupIndoorFans  MotorGroup = "indoorFans"
)

type MotorField string

const (
	MotorVolts  MotorField = "volts"
	MotorPhases MotorField = "phases"
	MotorHz     MotorField = "hz"
	MotorRLA    MotorField = "rla"
	MotorLRA    MotorField = "lra"
)

type Section string

const (
	SectionHeating Section = "heating"
	SectionCooling Section = "cooling"
)

// WithField returns a copy of r with one top-level scalar replaced.
// numCompressors is coerced to an integer; no other validation happens.
func (r EquipmentRecord) WithField(field Field, value string) (EquipmentRecord, error) {
	switch field {
	case FieldManufacturer:
		r.Manufacturer = value
	case FieldModelNumber:
		r.ModelNumber = value
	case FieldSerialNumber:
		r.SerialNumber = value
	case FieldControlCircuitVolts:
		r.ControlCircuitVolts = value
	case FieldCompressorCount:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return r, fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
		}
		r.CompressorCount = n
	case FieldOutdoorFanCount:
		r.OutdoorFanCount = value
	case FieldIndoorFanCount:
		r.IndoorFanCount = value
	case FieldEconomizer:
		r.Economizer = value
	default:
		return r, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return r, nil
}

// WithMotor returns a copy of r with one attribute of one slot replaced.
// Slots past the visible count are addressable and kept as they are.
func (r EquipmentRecord) WithMotor(group MotorGroup, index int, field MotorField, value string) (EquipmentRecord, error) {
	var slots []MotorSpec
	switch group {
	case GroupCompressors:
		slots = r.Compressors[:]
	case GroupOutdoorFans:
		slots = r.OutdoorFans[:]
	case GroupIndoorFans:
		slots = r.IndoorFans[:]
	default:
		return r, fmt.Errorf("%w: group %q", ErrUnknownField, group)
	}
	if index < 0 || index >= len(slots) {
		return r, fmt.Errorf("%w: %s[%d]", ErrSlotOutOfRange, group, index)
	}

	// slots aliases the arrays of the local copy r, never the caller's record.
	m := &slots[index]
	switch field {
	case MotorVolts:
		m.Volts = value
	case MotorPhases:
		m.Phases = value
	case MotorHz:
		m.Hz = value
	case MotorRLA:
		m.RLA = value
	case MotorLRA:
		if group != GroupCompressors {
			return r, fmt.Errorf("%w: %s has no %q", ErrUnknownField, group, field)
		}
		m.LRA = value
	default:
		return r, fmt.Errorf("%w: motor field %q", ErrUnknownField, field)
	}
	return r, nil
}

// WithNested returns a copy of r with one heating or cooling field replaced.
func (r EquipmentRecord) WithNested(section Section, field string, value string) (EquipmentRecord, error) {
	switch section {
	case SectionHeating:
		switch field {
		case "inputMaxBtuHr":
			r.Heating.InputMaxBtuHr = value
		case "outputCapacityBtuHr":
			r.Heating.OutputCapacityBtuHr = value
		default:
			return r, fmt.Errorf("%w: %s.%s", ErrUnknownField, section, field)
		}
	case SectionCooling:
		switch field {
		case "inputMaxKw":
			r.Cooling.InputMaxKw = value
		case "outputCapacityKw":
			r.Cooling.OutputCapacityKw = value
		default:
			return r, fmt.Errorf("%w: %s.%s", ErrUnknownField, section, field)
		}
	default:
		return r, fmt.Errorf("%w: section %q", ErrUnknownField, section)
	}
	return r, nil
}

// VisibleCompressors returns the first CompressorCount slots, clamped to 0..MaxCompressors.
func (r EquipmentRecord) VisibleCompressors() []MotorSpec {
	n := clamp(r.CompressorCount, 0, MaxCompressors)
	out := make([]MotorSpec, n)
	copy(out, r.Compressors[:n])
	return out
}

func (r EquipmentRecord) VisibleOutdoorFans() []MotorSpec {
	n := fanSlotsShown(r.OutdoorFanCount)
	out := make([]MotorSpec, n)
	copy(out, r.OutdoorFans[:n])
	return out
}

func (r EquipmentRecord) VisibleIndoorFans() []MotorSpec {
	n := fanSlotsShown(r.IndoorFanCount)
	out := make([]MotorSpec, n)
	copy(out, r.IndoorFans[:n])
	return out
}

// fanSlotsShown maps a fan count selection to a slot count. The selector
// offers up to 4 outdoor fans but only MaxFanSlots are modeled.
func fanSlotsShown(count string) int {
	if count == NotPresent {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil {
		return 0
	}
	return clamp(n, 0, MaxFanSlots)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
