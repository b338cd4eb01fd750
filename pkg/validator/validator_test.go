package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID    uuid.UUID        `validate:"uuid_required"`
	DNI   string           `validate:"dni"`
	Price decimal.Decimal  `validate:"money_gt0"`
	Unit  *decimal.Decimal `validate:"omitempty,money_gte0"`
	State string           `validate:"processed_state"`
}

func valid() sample {
	return sample{
		ID:    uuid.New(),
		DNI:   "12345678",
		Price: decimal.RequireFromString("10.50"),
		State: "Conos Veteados",
	}
}

func TestValidateStructAcceptsGoodInput(t *testing.T) {
	s := valid()
	assert.Empty(t, ValidateStruct(&s))
}

func TestValidateStructRules(t *testing.T) {
	negative := decimal.NewFromInt(-1)

	cases := map[string]struct {
		mutate func(*sample)
		tag    string
	}{
		"nil uuid":        {func(s *sample) { s.ID = uuid.Nil }, "uuid_required"},
		"short dni":       {func(s *sample) { s.DNI = "1234" }, "dni"},
		"letters in dni":  {func(s *sample) { s.DNI = "1234567a" }, "dni"},
		"zero price":      {func(s *sample) { s.Price = decimal.Zero }, "money_gt0"},
		"three decimals":  {func(s *sample) { s.Price = decimal.RequireFromString("1.005") }, "money_gt0"},
		"negative unit":   {func(s *sample) { s.Unit = &negative }, "money_gte0"},
		"raw not allowed": {func(s *sample) { s.State = "Por Hilandar" }, "processed_state"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := valid()
			tc.mutate(&s)
			errs := ValidateStruct(&s)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.tag, errs[0].Tag)
		})
	}
}

func TestIsDNI(t *testing.T) {
	assert.True(t, IsDNI("87654321"))
	assert.False(t, IsDNI("876543210"))
}
