package service

import "pace_service_tool/internal/models"

type MotorParams struct {
	Group models.MotorGroup
	Index int // zero-based slot, including slots beyond the visible count
	Field models.MotorField
	Value string
}

type NestedParams struct {
	Section models.Section // heating | cooling
	Field   string
	Value   string
}
