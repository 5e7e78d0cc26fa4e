package batch

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 8, 0, 0, 0, time.UTC)
}

func TestDateRange(t *testing.T) {
	a := DateRange{Start: day(5), End: day(10)}
	b := DateRange{Start: day(2), End: day(7)}

	merged := a.Merge(b)
	assert.Equal(t, day(2), merged.Start)
	assert.Equal(t, day(10), merged.End)
	assert.Equal(t, "2024-01-02_2024-01-10", merged.String())

	assert.Equal(t, a, DateRange{}.Merge(a))
	assert.Equal(t, "", DateRange{Start: day(1)}.String())
	assert.True(t, DateRange{}.IsZero())
}

func TestDateRangeOf(t *testing.T) {
	orders := []models.WorkOrder{{Entrada: day(9)}, {}, {Entrada: day(3)}}

	dr := DateRangeOf(orders)
	assert.Equal(t, day(3), dr.Start)
	assert.Equal(t, day(9), dr.End)
	assert.True(t, DateRangeOf(nil).IsZero())
}

func TestOriginFromFilename(t *testing.T) {
	tests := map[string]string{
		"os_terceiros.csv":        "Terceiros",
		"/data/campo-2024.csv":    "Campo",
		"MANUTENCAO_INTERNA.csv":  "Manutencao Interna",
		"2024.csv":                "",
		"oficina.externa.v2.csv":  "Oficina Externa V2",
	}

	for in, expected := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, expected, OriginFromFilename(in))
		})
	}
}

func TestConsolidate(t *testing.T) {
	logger := logging.NewMockLogger()
	aggregator := NewBatchAggregator(logger)

	data := map[string][]models.WorkOrder{
		"campo.csv": {
			{Boletim: "2", Entrada: day(5)},
			{Boletim: "1", Entrada: day(1), Origem: "Campo"},
		},
		"terceiros.csv": {
			{Boletim: "1", Entrada: day(3)},
			{Boletim: "9"},
		},
		"broken.csv": nil,
	}
	load := func(path string) ([]models.WorkOrder, error) {
		if path == "broken.csv" {
			return nil, errors.New("bad header")
		}
		return data[path], nil
	}

	result, err := aggregator.Consolidate([]string{"campo.csv", "broken.csv", "terceiros.csv"}, load)
	require.NoError(t, err)

	assert.Equal(t, []string{"campo.csv", "terceiros.csv"}, result.SourceFiles)
	assert.Equal(t, []string{"broken.csv"}, result.FailedFiles)
	require.Len(t, result.Orders, 4)

	var got []string
	for _, o := range result.Orders {
		got = append(got, o.Origem+"/"+o.Boletim)
	}
	assert.Equal(t, []string{"Campo/1", "Terceiros/1", "Campo/2", "Terceiros/9"}, got)
	assert.Equal(t, 0, result.Duplicates)
	assert.Equal(t, DateRange{Start: day(1), End: day(5)}, result.DateRange)
	assert.True(t, logger.HasEntry("ERROR", "Failed to load work orders file"))
}

func TestConsolidate_AllFail(t *testing.T) {
	aggregator := NewBatchAggregator(logging.NewMockLogger())

	_, err := aggregator.Consolidate([]string{"a.csv"}, func(string) ([]models.WorkOrder, error) {
		return nil, errors.New("nope")
	})
	assert.Error(t, err)
}

func TestConsolidate_Duplicates(t *testing.T) {
	logger := logging.NewMockLogger()
	aggregator := NewBatchAggregator(logger)

	load := func(string) ([]models.WorkOrder, error) {
		return []models.WorkOrder{{Boletim: "7", Origem: "Campo"}, {Boletim: " 7 ", Origem: "campo"}, {Boletim: ""}, {Boletim: ""}}, nil
	}

	result, err := aggregator.Consolidate([]string{"x.csv"}, load)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Duplicates)
	assert.True(t, logger.HasEntry("WARN", "Found potential duplicate work orders"))
}

// Consolidation never loses or invents work orders and always yields a
// chronological sequence.
func TestConsolidate_PreservesCountAndOrder(t *testing.T) {
	aggregator := NewBatchAggregator(logging.NewMockLogger())
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		t.Run(fmt.Sprintf("iteration_%d", i), func(t *testing.T) {
			files := make([]string, rng.Intn(4)+1)
			data := make(map[string][]models.WorkOrder)
			total := 0
			for f := range files {
				files[f] = fmt.Sprintf("origem%d.csv", f)
				n := rng.Intn(20)
				for k := 0; k < n; k++ {
					o := models.WorkOrder{Boletim: fmt.Sprintf("%d-%d", f, k)}
					if rng.Intn(5) > 0 {
						o.Entrada = day(rng.Intn(28) + 1)
					}
					data[files[f]] = append(data[files[f]], o)
				}
				total += n
			}

			result, err := aggregator.Consolidate(files, func(p string) ([]models.WorkOrder, error) {
				return data[p], nil
			})
			require.NoError(t, err)
			require.Len(t, result.Orders, total)

			undated := false
			for k := 1; k < len(result.Orders); k++ {
				prev, cur := result.Orders[k-1], result.Orders[k]
				if !cur.HasEntry() {
					undated = true
					continue
				}
				assert.False(t, undated, "dated work order after an undated one")
				assert.False(t, cur.Entrada.Before(prev.Entrada))
			}
		})
	}
}
