// Package models provides the data structures used throughout the application.
package models

// Component categories, listed in classification priority order. Leak
// categories that name a fluid come first and the catch-all comes last.
const (
	CategoryHydraulicLeak = "Vazamento - Hidráulico"
	CategoryOilLeak       = "Vazamento - Óleo"
	CategoryFuelLeak      = "Vazamento - Combustível"
	CategoryHoseLeak      = "Mangueira (Vazamento)"
	CategoryAirCondition  = "Ar Condicionado"
	CategoryElectronics   = "Falha Eletrônica / Painel"
	CategoryElectrical    = "Elétrica"
	CategoryRadio         = "Rádio"
	CategoryBrake         = "Freio"
	CategorySteering      = "Direção"
	CategorySuspension    = "Suspensão"
	CategoryUndercarriage = "Rodantes"
	CategoryTires         = "Pneus/Rodagem"
	CategoryElevator      = "Elevador"
	CategoryAccumulator   = "Acumulador"
	CategoryTopper        = "Despontador"
	CategoryEngine        = "Motor"
	CategoryAssess        = "Avaliar"

	// CategoryUnclassified is assigned when neither a rule nor the fallback
	// model produced a category.
	CategoryUnclassified = "Não Classificado"
)

// Classification methods recorded on each result.
const (
	MethodRule     = "rule"
	MethodFallback = "fallback"
	MethodNone     = "none"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)

// Catalog returns the built-in categories in priority order, followed by the
// unclassified sentinel.
func Catalog() []string {
	return []string{
		CategoryHydraulicLeak,
		CategoryOilLeak,
		CategoryFuelLeak,
		CategoryHoseLeak,
		CategoryAirCondition,
		CategoryElectronics,
		CategoryElectrical,
		CategoryRadio,
		CategoryBrake,
		CategorySteering,
		CategorySuspension,
		CategoryUndercarriage,
		CategoryTires,
		CategoryElevator,
		CategoryAccumulator,
		CategoryTopper,
		CategoryEngine,
		CategoryAssess,
		CategoryUnclassified,
	}
}
