package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consolidador/domain/table"
)

func TestProfile_TextColumn(t *testing.T) {
	c := &table.Consolidated{
		Columns: []string{"Nome"},
		Rows: [][]string{
			{"Alice"},
			{"Bob"},
			{"Alice"},
			{""},
		},
	}

	profiles := Profile(c)
	require.Len(t, profiles, 1)

	p := profiles[0]
	assert.Equal(t, "Nome", p.Name)
	assert.Equal(t, 3, p.NonEmpty)
	assert.Equal(t, 2, p.UniqueCount)
	assert.InDelta(t, 0.25, p.MissingRate, 1e-9)
	assert.False(t, p.IsNumeric)
}

func TestProfile_NumericColumn(t *testing.T) {
	c := &table.Consolidated{
		Columns: []string{"Idade"},
		Rows: [][]string{
			{"10"},
			{"20"},
			{"30"},
			{"40"},
		},
	}

	profiles := Profile(c)
	require.Len(t, profiles, 1)

	p := profiles[0]
	assert.True(t, p.IsNumeric)
	assert.InDelta(t, 25.0, p.Mean, 1e-9)
	assert.InDelta(t, 10.0, p.Min, 1e-9)
	assert.InDelta(t, 40.0, p.Max, 1e-9)
	assert.Greater(t, p.StdDev, 0.0)
}

func TestProfile_DecimalCommaTreatedAsNumeric(t *testing.T) {
	c := &table.Consolidated{
		Columns: []string{"Salario"},
		Rows: [][]string{
			{"1500,50"},
			{"2000,75"},
		},
	}

	profiles := Profile(c)
	require.Len(t, profiles, 1)
	assert.True(t, profiles[0].IsNumeric)
	assert.InDelta(t, 1750.625, profiles[0].Mean, 1e-9)
}

func TestProfile_MostlyTextNotNumeric(t *testing.T) {
	c := &table.Consolidated{
		Columns: []string{"Resposta"},
		Rows: [][]string{
			{"1"},
			{"Sim"},
			{"Não"},
			{"Talvez"},
		},
	}

	profiles := Profile(c)
	require.Len(t, profiles, 1)
	assert.False(t, profiles[0].IsNumeric)
}

func TestProfile_EmptyInput(t *testing.T) {
	assert.Nil(t, Profile(nil))
	assert.Nil(t, Profile(&table.Consolidated{}))
}
