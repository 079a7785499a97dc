package repositories

import (
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// sql turns a literal statement fragment into a matcher pattern
func sql(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

// decimalArg matches a decimal.Decimal argument by value, ignoring scale
type decimalArg string

func (d decimalArg) Match(v any) bool {
	got, ok := v.(decimal.Decimal)
	return ok && got.Equal(decimal.RequireFromString(string(d)))
}

func stockRow(stock int) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"stock"}).AddRow(stock)
}
