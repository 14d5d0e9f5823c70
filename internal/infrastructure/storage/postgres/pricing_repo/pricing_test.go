package pricing_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/domain/pricing"
)

func TestBasePriceQuery(t *testing.T) {
	repo := NewPriceRepo(nil)

	sql, args, err := repo.basePriceQuery(pricing.DomainBuyback, "iphone13", "128GB").Limit(1).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT price FROM price_base WHERE domain = $1 AND model = $2 AND storage = $3 LIMIT 1", sql)
	assert.Equal(t, []any{pricing.DomainBuyback, "iphone13", "128GB"}, args)
}

func TestRulesQuery(t *testing.T) {
	repo := NewPriceRepo(nil)

	sql, args, err := repo.rulesQuery(pricing.DomainResale, "iphone13").ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT domain, model, storage, kind, grade, value FROM price_deduction_rules "+
			"WHERE domain = $1 AND model = $2 ORDER BY kind, grade, storage NULLS FIRST",
		sql)
	assert.Len(t, args, 2)
}
