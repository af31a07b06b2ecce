package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_UnderThresholdIsOutsideScope(t *testing.T) {
	classifier := Classifier{Threshold: 100000, Rate: 0.25}

	decision := classifier.Classify(50000, 0)

	assert.Equal(t, VATTypeOutside, decision.VATType)
	assert.Nil(t, decision.Account)
	assert.Equal(t, int64(50000), decision.NetAmount)
	assert.Equal(t, int64(0), decision.VATAmount)
}

func TestClassify_ExactlyAtThresholdIsOutsideScope(t *testing.T) {
	classifier := Classifier{Threshold: 50000, Rate: 0.25}

	// running total + amount lands exactly on the threshold: still outside
	decision := classifier.Classify(40000, 10000)

	assert.Equal(t, VATTypeOutside, decision.VATType)
	assert.Nil(t, decision.Account)
}

func TestClassify_CrossingThresholdIsTaxed(t *testing.T) {
	classifier := Classifier{Threshold: 50000, Rate: 0.25}

	decision := classifier.Classify(40001, 10000)

	assert.NotEqual(t, VATTypeOutside, decision.VATType)
	assert.NotNil(t, decision.Account)
}

func TestClassify_StandardRateSplit(t *testing.T) {
	classifier := Classifier{Threshold: 0, Rate: 0.25}

	decision := classifier.Classify(39400, 0)

	assert.Equal(t, VATTypeHigh, decision.VATType)
	if assert.NotNil(t, decision.Account) {
		assert.Equal(t, int64(3000), *decision.Account)
	}
	assert.Equal(t, int64(31520), decision.NetAmount)
	assert.Equal(t, int64(7880), decision.VATAmount)
}

func TestClassify_ExemptAmountHasNoSplit(t *testing.T) {
	classifier := Classifier{Threshold: 0, Rate: 0.25}

	decision := classifier.Classify(41400, 0)

	assert.Equal(t, VATTypeExempt, decision.VATType)
	if assert.NotNil(t, decision.Account) {
		assert.Equal(t, int64(3100), *decision.Account)
	}
	assert.Equal(t, int64(41400), decision.NetAmount)
	assert.Equal(t, int64(0), decision.VATAmount)
}

func TestClassify_UnknownAmountDefaults(t *testing.T) {
	classifier := Classifier{Threshold: 0, Rate: 0.25}

	decision := classifier.Classify(12345, 0)

	assert.Equal(t, VATTypeHigh, decision.VATType)
	if assert.NotNil(t, decision.Account) {
		assert.Equal(t, DefaultSaleAccount, *decision.Account)
	}
	// Only the standard-rate account carries a VAT split.
	assert.Equal(t, int64(12345), decision.NetAmount)
	assert.Equal(t, int64(0), decision.VATAmount)
}

func TestClassify_NetPlusVATEqualsGross(t *testing.T) {
	classifier := Classifier{Threshold: 0, Rate: 0.25}

	standardRateAmounts := []int64{23800, 39400, 43700, 63600}
	for _, amount := range standardRateAmounts {
		decision := classifier.Classify(amount, 0)

		assert.Equal(t, amount, decision.NetAmount+decision.VATAmount, "amount %d", amount)
		assert.Equal(t, amount-int64(float64(amount)/1.25), decision.VATAmount, "amount %d", amount)
	}
}

func TestClassify_RunningTotalIsOrderDependent(t *testing.T) {
	classifier := Classifier{Threshold: 100000, Rate: 0.25}

	first := classifier.Classify(60000, 0)
	assert.Equal(t, VATTypeOutside, first.VATType)

	second := classifier.Classify(60000, 60000)
	assert.Equal(t, VATTypeHigh, second.VATType)
}
