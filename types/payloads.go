package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentOptionsResponse is the merchant's opening offer: one entry per
// chain/currency pair it is willing to be paid in.
type PaymentOptionsResponse struct {
	Time           time.Time       `json:"time"`
	Expires        time.Time       `json:"expires"`
	Memo           string          `json:"memo,omitempty"`
	PaymentURL     string          `json:"paymentUrl" validate:"required,url"`
	PaymentID      string          `json:"paymentId,omitempty"`
	PaymentOptions []PaymentOption `json:"paymentOptions" validate:"required,min=1,dive"`
}

// Expired reports whether the offer has lapsed at the given time.
func (r *PaymentOptionsResponse) Expired(now time.Time) bool {
	return !r.Expires.IsZero() && now.After(r.Expires)
}

// PaymentOption is a single way to pay: a chain, its currency, and the
// estimated amount due in that currency's atomic unit.
type PaymentOption struct {
	Chain           string          `json:"chain" validate:"required"`
	Currency        string          `json:"currency,omitempty"`
	Network         string          `json:"network,omitempty"`
	EstimatedAmount decimal.Decimal `json:"estimatedAmount"`
	RequiredFeeRate float64         `json:"requiredFeeRate,omitempty"`
	MinerFee        decimal.Decimal `json:"minerFee"`
	Decimals        int32           `json:"decimals"`
	Selected        bool            `json:"selected,omitempty"`
}

// Amount returns the estimated amount scaled out of atomic units, for
// example satoshis to whole BTC when Decimals is 8.
func (o PaymentOption) Amount() decimal.Decimal {
	return o.EstimatedAmount.Shift(-o.Decimals)
}

// PaymentRequestResponse pins the exact terms for the selected option and
// carries the instructions the payer must turn into transactions.
type PaymentRequestResponse struct {
	Time         time.Time            `json:"time"`
	Expires      time.Time            `json:"expires"`
	Memo         string               `json:"memo,omitempty"`
	PaymentURL   string               `json:"paymentUrl" validate:"required,url"`
	PaymentID    string               `json:"paymentId,omitempty"`
	Chain        string               `json:"chain" validate:"required"`
	Network      string               `json:"network,omitempty"`
	Currency     string               `json:"currency,omitempty"`
	Instructions []PaymentInstruction `json:"instructions" validate:"required,min=1,dive"`
}

// Expired reports whether the payment terms have lapsed at the given time.
func (r *PaymentRequestResponse) Expired(now time.Time) bool {
	return !r.Expires.IsZero() && now.After(r.Expires)
}

// PaymentInstruction tells the payer what to construct. UTXO chains list
// required outputs; account chains carry a single destination and value.
type PaymentInstruction struct {
	Type            string          `json:"type,omitempty"`
	RequiredFeeRate float64         `json:"requiredFeeRate,omitempty"`
	Outputs         []Output        `json:"outputs,omitempty"`
	To              string          `json:"to,omitempty"`
	Value           decimal.Decimal `json:"value"`
	Data            string          `json:"data,omitempty"`
	GasPrice        decimal.Decimal `json:"gasPrice"`
}

// Output is one required output of a UTXO payment.
type Output struct {
	Amount  decimal.Decimal `json:"amount"`
	Address string          `json:"address"`
}

// PaymentACK is the merchant's acceptance of a submitted payment. It echoes
// the submission back along with an optional memo for the payer.
type PaymentACK struct {
	Payment PaymentSubmission `json:"payment"`
	Memo    string            `json:"memo,omitempty"`
}
