package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Store = (*memStore)(nil)

func TestCalculateFee_Deterministic(t *testing.T) {
	first, err := CalculateFee("teen", "solo")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		fee, err := CalculateFee("teen", "solo")
		require.NoError(t, err)
		assert.Equal(t, first, fee)
	}
}

func TestCalculateFee_UnknownCategory(t *testing.T) {
	_, err := CalculateFee("toddler", "solo")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = CalculateFee("teen", "flashmob")
	require.ErrorAs(t, err, &ve)
}

func TestCalculateFee_AllTableKeys(t *testing.T) {
	for _, age := range []string{AgeMini, AgeJunior, AgeTeen, AgeSenior} {
		for _, typ := range []string{TypeSolo, TypeDuet, TypeTrio, TypeGroup} {
			fee, err := CalculateFee(age, typ)
			require.NoError(t, err, "%s/%s", age, typ)
			assert.Greater(t, fee, 0)
		}
	}
}

func TestNationalsFee_GroupAllUnpaid(t *testing.T) {
	st := newMemStore()
	var ids []int
	for i := 0; i < 5; i++ {
		ids = append(ids, st.addDancer("novice", false).ID)
	}

	b, err := CalculateNationalsFee(context.Background(), st, TypeGroup, 1, 5, ids)
	require.NoError(t, err)

	assert.Equal(t, 300, b.BaseFee) // small-group tier
	assert.Equal(t, 5, b.UnpaidCount)
	assert.Equal(t, 5*25, b.RegistrationFees)
	assert.Equal(t, b.BaseFee+b.RegistrationFees, b.Total)
}

func TestNationalsFee_LargeGroupTier(t *testing.T) {
	st := newMemStore()

	b, err := CalculateNationalsFee(context.Background(), st, TypeGroup, 0, 12, nil)
	require.NoError(t, err)
	assert.Equal(t, 450, b.BaseFee)
	assert.Equal(t, 0, b.RegistrationFees)
}

func TestNationalsFee_MixedPaidAndMastery(t *testing.T) {
	st := newMemStore()
	paid := st.addDancer("novice", true)
	novice := st.addDancer("novice", false)
	advanced := st.addDancer("advanced", false)

	b, err := CalculateNationalsFee(context.Background(), st, TypeTrio, 0, 3,
		[]int{paid.ID, novice.ID, advanced.ID})
	require.NoError(t, err)

	assert.Equal(t, 3*70, b.BaseFee)
	assert.Equal(t, 2, b.UnpaidCount)
	assert.Equal(t, 25+35, b.RegistrationFees)
	assert.Equal(t, 210+60, b.Total)
}

func TestNationalsFee_SoloBillsPerSolo(t *testing.T) {
	st := newMemStore()

	b, err := CalculateNationalsFee(context.Background(), st, TypeSolo, 3, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 3*115, b.BaseFee)
}

func TestNationalsFee_UnknownType(t *testing.T) {
	st := newMemStore()
	_, err := CalculateNationalsFee(context.Background(), st, "flashmob", 0, 4, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestNationalsFee_Deterministic(t *testing.T) {
	st := newMemStore()
	d := st.addDancer("intermediate", false)

	first, err := CalculateNationalsFee(context.Background(), st, TypeDuet, 0, 2, []int{d.ID})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := CalculateNationalsFee(context.Background(), st, TypeDuet, 0, 2, []int{d.ID})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
