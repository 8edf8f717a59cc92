package seed_test

import (
	"context"
	"testing"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/SscSPs/hotel_ledger/internal/core/services"
	"github.com/SscSPs/hotel_ledger/internal/platform/config"
	"github.com/SscSPs/hotel_ledger/internal/platform/seed"
	"github.com/SscSPs/hotel_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const childFirst = `
accounts:
  - code: "4100"
    name: Room Revenue
    type: REVENUE
    parent: "4000"
  - code: "1000"
    name: Cash
    type: ASSET
  - code: "4000"
    name: Sales Revenue
    type: REVENUE
`

func TestOrdered_ParentsFirst(t *testing.T) {
	chart, err := seed.ParseChart([]byte(childFirst))
	require.NoError(t, err)

	ordered, err := chart.Ordered()
	require.NoError(t, err)

	codes := make([]string, len(ordered))
	for i, a := range ordered {
		codes[i] = a.Code
	}
	assert.Equal(t, []string{"4000", "4100", "1000"}, codes)
}

func TestOrdered_Rejects(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"cycle", `
accounts:
  - {code: "A", name: A, type: ASSET, parent: "B"}
  - {code: "B", name: B, type: ASSET, parent: "A"}
`},
		{"duplicate code", `
accounts:
  - {code: "1000", name: Cash, type: ASSET}
  - {code: "1000", name: Petty Cash, type: ASSET}
`},
		{"missing code", `
accounts:
  - {name: Nameless, type: ASSET}
`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chart, err := seed.ParseChart([]byte(tc.yaml))
			require.NoError(t, err)
			_, err = chart.Ordered()
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	container := services.NewServiceContainer(&config.Config{
		BalanceTolerance:         decimal.New(1, -2),
		StrictSeparationOfDuties: true,
		EntryNumberPrefix:        "JE",
	}, memory.NewRepositoryProvider(memory.NewStore()), nil)
	admin := domain.NewActor("seed", domain.CapManageAccounts)

	chart, err := seed.ParseChart([]byte(childFirst))
	require.NoError(t, err)

	res, err := seed.Apply(ctx, container.Account, admin, chart)
	require.NoError(t, err)
	assert.Len(t, res.Created, 3)
	assert.Empty(t, res.Skipped)

	room, err := container.Account.GetAccountByCode(ctx, "4100")
	require.NoError(t, err)
	sales, err := container.Account.GetAccountByCode(ctx, "4000")
	require.NoError(t, err)
	assert.Equal(t, sales.AccountID, room.ParentAccountID)

	res, err = seed.Apply(ctx, container.Account, admin, chart)
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Len(t, res.Skipped, 3)
}

func TestApply_RequiresCapability(t *testing.T) {
	container := services.NewServiceContainer(&config.Config{EntryNumberPrefix: "JE"},
		memory.NewRepositoryProvider(memory.NewStore()), nil)
	chart, err := seed.ParseChart([]byte(childFirst))
	require.NoError(t, err)

	_, err = seed.Apply(context.Background(), container.Account, domain.NewActor("clerk"), chart)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestLoadChartFile_Bundled(t *testing.T) {
	chart, err := seed.LoadChartFile("../../../configs/chart_of_accounts.yaml")
	require.NoError(t, err)

	ordered, err := chart.Ordered()
	require.NoError(t, err)
	require.NotEmpty(t, ordered)
	for _, a := range ordered {
		assert.True(t, a.Type.IsValid(), "account %s has type %q", a.Code, a.Type)
	}
}
