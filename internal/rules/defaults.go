package rules

import "fjacquet/maint-report/internal/models"

// DefaultVersion is the version of the built-in rule table.
const DefaultVersion = 3

// DefaultTable returns the built-in rule table. Keywords may carry accents;
// they are normalized at compile time. Patterns must be written against
// normalized text (lower case, no accents).
func DefaultTable() Table {
	return Table{
		Version: DefaultVersion,
		Leak: Predicates{
			Keywords: []string{"gotejamento", "gotejando", "pingando", "escorrendo"},
			Patterns: []string{`\bvaz(a|am|ou|ando|amento|amentos)\b`},
		},
		CatchAll: models.CategoryAssess,
		Rules: []Rule{
			{
				Category:  models.CategoryHydraulicLeak,
				LeakFluid: true,
				Predicates: Predicates{
					Keywords: []string{"fluido hidráulico"},
					Patterns: []string{`\bhidraulic[oa]s?\b`},
				},
			},
			{
				Category:  models.CategoryOilLeak,
				LeakFluid: true,
				Exclude:   []string{"diesel", "combustível"},
				Predicates: Predicates{
					Keywords: []string{"lubrificante", "cárter", "carter"},
					Patterns: []string{`\boleos?\b`},
				},
			},
			{
				Category:  models.CategoryFuelLeak,
				LeakFluid: true,
				Predicates: Predicates{
					Keywords: []string{"diesel", "combustível", "gasolina", "etanol", "álcool", "arla"},
					Patterns: []string{`\btanques? de combustivel\b`},
				},
			},
			{
				Category:     models.CategoryHoseLeak,
				RequiresLeak: true,
				Predicates: Predicates{
					Keywords: []string{"mangote", "flexível", "flexíveis"},
					Patterns: []string{`\bmangueiras?\b`},
				},
			},
			{
				Category: models.CategoryAirCondition,
				Predicates: Predicates{
					Keywords: []string{"ar condicionado", "ar-condicionado", "climatizador", "climatização",
						"ac", "a/c", "evaporador", "condensador", "compressor do ar"},
				},
			},
			{
				Category: models.CategoryElectronics,
				Predicates: Predicates{
					Keywords: []string{"painel", "computador de bordo", "display", "tela", "ecu",
						"código de falha", "luz de advertência", "monitor"},
					Patterns: []string{`\beletronic[oa]s?\b`, `\bmodulos?\b`, `\bsensor(es)?\b`},
				},
			},
			{
				Category: models.CategoryElectrical,
				Predicates: Predicates{
					Keywords: []string{"bateria", "alternador", "motor de arranque", "motor de partida",
						"chicote", "relé", "farol", "faróis", "lâmpada", "lanterna", "curto circuito",
						"sem partida", "não dá partida", "pisca"},
					Patterns: []string{`\beletric[oa]s?\b`, `\bfusive(l|is)\b`},
				},
			},
			{
				Category: models.CategoryRadio,
				Predicates: Predicates{
					Keywords: []string{"antena", "rádio comunicador", "comunicação"},
					Patterns: []string{`\bradios?\b`},
				},
			},
			{
				Category: models.CategoryBrake,
				Predicates: Predicates{
					Keywords: []string{"pastilha", "pastilhas", "lona de freio", "disco de freio",
						"cuíca", "pinça", "abs", "tambor"},
					Patterns: []string{`\bfrei(o|os|ando)\b`},
				},
			},
			{
				Category: models.CategorySteering,
				Predicates: Predicates{
					Keywords: []string{"direção", "caixa de direção", "volante", "barra axial",
						"terminal de direção", "alinhamento"},
				},
			},
			{
				Category: models.CategorySuspension,
				Predicates: Predicates{
					Keywords: []string{"suspensão", "feixe de mola", "bucha", "buchas", "balança",
						"bandeja", "pivô", "estabilizador", "jumelo"},
					Patterns: []string{`\bamortecedor(es)?\b`, `\bmolas?\b`},
				},
			},
			{
				Category: models.CategoryUndercarriage,
				Predicates: Predicates{
					Keywords: []string{"rodante", "rodantes", "material rodante", "esteira", "esteiras",
						"sapata", "sapatas", "rolete", "roletes", "roda guia", "roda motriz"},
				},
			},
			{
				Category: models.CategoryTires,
				Predicates: Predicates{
					Keywords: []string{"furado", "furou", "calibragem", "estepe", "rodagem",
						"câmara de ar", "cubo de roda", "rolamento de roda"},
					Patterns: []string{`\bpneus?\b`, `\brodas?\b`},
				},
			},
			{
				Category: models.CategoryElevator,
				Predicates: Predicates{
					Keywords: []string{"elevador", "elevadores", "taliscas", "talisca", "corrente do elevador"},
				},
			},
			{
				Category: models.CategoryAccumulator,
				Predicates: Predicates{
					Keywords: []string{"acumulador", "acumuladores"},
				},
			},
			{
				Category: models.CategoryTopper,
				Predicates: Predicates{
					Keywords: []string{"despontador", "desponte", "disco despontador"},
				},
			},
			{
				Category: models.CategoryEngine,
				Predicates: Predicates{
					Keywords: []string{"cabeçote", "junta do cabeçote", "turbina", "turbo", "biela",
						"pistão", "virabrequim", "radiador", "arrefecimento", "bico injetor",
						"injetor", "perda de potência", "retífica", "fumaça"},
					Patterns: []string{`\bmotor(es)?\b`, `\bsuperaquec\w*\b`},
				},
			},
			{
				Category: models.CategoryAssess,
				Predicates: Predicates{
					Keywords: []string{"avaliar", "avaliação", "verificar", "verificação", "analisar",
						"análise", "checar", "diagnóstico", "inspecionar", "inspeção"},
				},
			},
		},
	}
}
