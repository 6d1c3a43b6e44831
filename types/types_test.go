package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentOptionAmount(t *testing.T) {
	cases := []struct {
		name   string
		option PaymentOption
		want   string
	}{
		{
			"satoshis to BTC",
			PaymentOption{EstimatedAmount: decimal.NewFromInt(15900), Decimals: 8},
			"0.000159",
		},
		{
			"wei to ETH",
			PaymentOption{EstimatedAmount: decimal.RequireFromString("2390000000000000000"), Decimals: 18},
			"2.39",
		},
		{
			"no scaling",
			PaymentOption{EstimatedAmount: decimal.NewFromInt(42)},
			"42",
		},
		{
			"zero value",
			PaymentOption{},
			"0",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tc.want).Equal(tc.option.Amount()),
				"got %s", tc.option.Amount())
		})
	}
}

func TestResponsesExpired(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	options := &PaymentOptionsResponse{}
	assert.False(t, options.Expired(now), "zero expires never lapses")

	options.Expires = now.Add(-time.Minute)
	assert.True(t, options.Expired(now))

	options.Expires = now.Add(time.Minute)
	assert.False(t, options.Expired(now))

	request := &PaymentRequestResponse{Expires: now.Add(-time.Second)}
	assert.True(t, request.Expired(now))
	assert.False(t, request.Expired(now.Add(-2*time.Second)))
}

func TestOptionSelectionValidate(t *testing.T) {
	s := &OptionSelection{}
	assert.ErrorContains(t, s.Validate(), "chain is required")

	s.Chain = ChainBTC
	assert.NoError(t, s.Validate())
}

func TestPaymentSubmissionValidate(t *testing.T) {
	cases := []struct {
		name       string
		submission PaymentSubmission
		wantErr    string
	}{
		{
			"missing chain",
			PaymentSubmission{Transactions: []Transaction{{Tx: "02"}}},
			"chain is required",
		},
		{
			"no transactions",
			PaymentSubmission{Chain: ChainBTC},
			"at least one transaction is required",
		},
		{
			"empty transaction hex",
			PaymentSubmission{Chain: ChainBTC, Transactions: []Transaction{{Tx: "02"}, {}}},
			"transactions[1].tx is required",
		},
		{
			"valid",
			PaymentSubmission{Chain: ChainBTC, Currency: "BTC", Transactions: []Transaction{{Tx: "02", WeightedSize: 141}}},
			"",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.submission.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}

func TestVerifiedResult(t *testing.T) {
	result := &VerifiedResult{
		RequestURL: "https://merchant.example/i/abc",
		Data:       map[string]interface{}{"memo": "ok"},
		Raw:        []byte(`{"memo":"ok","payment":{"chain":"BTC","transactions":[{"tx":"02"}]}}`),
	}
	assert.False(t, result.Verified())

	result.Key = &TrustedKey{Identity: "merchant.example"}
	assert.True(t, result.Verified())

	var ack PaymentACK
	require.NoError(t, result.Decode(&ack))
	assert.Equal(t, "ok", ack.Memo)
	require.Len(t, ack.Payment.Transactions, 1)
	assert.Equal(t, "02", ack.Payment.Transactions[0].Tx)

	bad := &VerifiedResult{Raw: []byte("not json")}
	assert.Error(t, bad.Decode(&ack))
}
