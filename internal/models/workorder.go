package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrder is one maintenance service record from the work-order export.
// Column names follow the export headers; every column except the
// description is optional and defaults to its zero value when absent.
type WorkOrder struct {
	Boletim     string `csv:"Boletim"`
	Origem      string `csv:"Origem"`
	EntradaRaw  string `csv:"Entrada"`
	SaidaRaw    string `csv:"Saída"`
	Frota       string `csv:"Número de frota"`
	Classe      string `csv:"Classe manutenção"`
	Causa       string `csv:"Causa manutenção"`
	Descricao   string `csv:"Descrição"`
	DwellRaw    string `csv:"Tempo de Permanência(h)"`
	Componente  string `csv:"Componente"`
	MetodoClass string `csv:"Método classificação"`

	MonthBucket string `csv:"Ano/Mes"`

	Entrada    time.Time       `csv:"-"`
	Saida      time.Time       `csv:"-"`
	DwellHours decimal.Decimal `csv:"-"`
}

// HasEntry reports whether the entry timestamp was parsed.
func (w WorkOrder) HasEntry() bool {
	return !w.Entrada.IsZero()
}
