package fees

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxCorrectionRounds bounds the gross-amount correction loop in ComputeCharge.
const MaxCorrectionRounds = 5

var (
	// ErrInvalidAmount is returned for non-positive or out-of-range amounts.
	ErrInvalidAmount = errors.New("invalid top-up amount")
	// ErrAmountTooLow indicates the requested net amount is below the configured minimum.
	ErrAmountTooLow = fmt.Errorf("%w: below minimum", ErrInvalidAmount)
	// ErrAmountTooHigh indicates the requested net amount is above the configured maximum.
	ErrAmountTooHigh = fmt.Errorf("%w: above maximum", ErrInvalidAmount)
	// ErrInvalidSchedule indicates a fee schedule that violates its invariants.
	ErrInvalidSchedule = errors.New("invalid fee schedule")
	// ErrUnreconcilableFee indicates no gross amount could be found that nets the
	// requested credit within one subunit.
	ErrUnreconcilableFee = errors.New("fee schedule did not reconcile")
)

var one = decimal.NewFromInt(1)

// Schedule is a gateway's published fee schedule. Amounts are in currency subunits.
type Schedule struct {
	PercentageFee          decimal.Decimal `json:"percentageFee"`
	FlatFee                int64           `json:"flatFee"`
	FlatFeeWaiverThreshold int64           `json:"flatFeeWaiverThreshold"`
	FeeCap                 int64           `json:"feeCap"`
}

// ChargeBreakdown is the result of a single fee computation.
type ChargeBreakdown struct {
	NetAmount            int64 `json:"netAmount"`
	GrossAmount          int64 `json:"grossAmount"`
	TotalFee             int64 `json:"totalFee"`
	PercentageFeePortion int64 `json:"percentageFeePortion"`
	FlatFeePortion       int64 `json:"flatFeePortion"`
	FeeCapApplied        bool  `json:"feeCapApplied"`
}

// WalletReceives is what remains of the gross charge after the gateway's fee.
func (b ChargeBreakdown) WalletReceives() int64 {
	return b.GrossAmount - b.TotalFee
}

func (s Schedule) Validate() error {
	switch {
	case s.PercentageFee.IsNegative() || s.PercentageFee.GreaterThanOrEqual(one):
		return fmt.Errorf("%w: percentage fee %s outside [0, 1)", ErrInvalidSchedule, s.PercentageFee)
	case s.FlatFee < 0 || s.FlatFeeWaiverThreshold < 0 || s.FeeCap < 0:
		return fmt.Errorf("%w: negative amount", ErrInvalidSchedule)
	case s.FeeCap < s.FlatFee:
		return fmt.Errorf("%w: fee cap %d below flat fee %d", ErrInvalidSchedule, s.FeeCap, s.FlatFee)
	}
	return nil
}

// Calculator applies a schedule together with the configured top-up limits.
// A zero MinAmount or MaxAmount disables that bound.
type Calculator struct {
	Schedule  Schedule `json:"schedule"`
	MinAmount int64    `json:"minAmount"`
	MaxAmount int64    `json:"maxAmount"`
}

func (c Calculator) Compute(net int64) (ChargeBreakdown, error) {
	if net <= 0 {
		return ChargeBreakdown{}, fmt.Errorf("%w: %d", ErrInvalidAmount, net)
	}
	if c.MinAmount > 0 && net < c.MinAmount {
		return ChargeBreakdown{}, fmt.Errorf("%w: %d < %d", ErrAmountTooLow, net, c.MinAmount)
	}
	if c.MaxAmount > 0 && net > c.MaxAmount {
		return ChargeBreakdown{}, fmt.Errorf("%w: %d > %d", ErrAmountTooHigh, net, c.MaxAmount)
	}
	return ComputeCharge(net, c.Schedule)
}

// ComputeCharge finds the gross amount the payer must be charged so that the
// wallet is credited net after the gateway deducts its fee. Every rounding step
// is a ceiling, matching the gateway, so the quote never undershoots the charge.
func ComputeCharge(net int64, s Schedule) (ChargeBreakdown, error) {
	if net <= 0 {
		return ChargeBreakdown{}, fmt.Errorf("%w: %d", ErrInvalidAmount, net)
	}
	if err := s.Validate(); err != nil {
		return ChargeBreakdown{}, err
	}

	flat := s.flatFeeFor(net)
	gross := ceil(decimal.NewFromInt(net + flat).Div(one.Sub(s.PercentageFee)))
	if s.percentagePortion(gross)+flat > s.FeeCap {
		gross = net + s.FeeCap
	}
	return s.reconcile(net, flat, gross, MaxCorrectionRounds)
}

// flatFeeFor decides the flat fee from a first-order estimate of the gross.
// The decision is not revisited by the correction loop.
func (s Schedule) flatFeeFor(net int64) int64 {
	estimate := decimal.NewFromInt(net).Mul(one.Add(s.PercentageFee))
	if estimate.LessThan(decimal.NewFromInt(s.FlatFeeWaiverThreshold)) {
		return 0
	}
	return s.FlatFee
}

func (s Schedule) reconcile(net, flat, gross int64, rounds int) (ChargeBreakdown, error) {
	for i := 0; i < rounds; i++ {
		b := s.breakdownAt(gross, flat)
		b.NetAmount = net
		diff := net - b.WalletReceives()
		if diff >= -1 && diff <= 1 {
			return b, nil
		}
		gross += diff
	}
	return ChargeBreakdown{}, fmt.Errorf("%w: net %d after %d rounds", ErrUnreconcilableFee, net, rounds)
}

func (s Schedule) breakdownAt(gross, flat int64) ChargeBreakdown {
	b := ChargeBreakdown{
		GrossAmount:          gross,
		PercentageFeePortion: s.percentagePortion(gross),
		FlatFeePortion:       flat,
	}
	b.TotalFee = b.PercentageFeePortion + b.FlatFeePortion
	if b.TotalFee > s.FeeCap {
		b.TotalFee = s.FeeCap
		b.PercentageFeePortion = s.FeeCap - flat
		b.FeeCapApplied = true
	}
	return b
}

func (s Schedule) percentagePortion(gross int64) int64 {
	return ceil(decimal.NewFromInt(gross).Mul(s.PercentageFee))
}

func ceil(d decimal.Decimal) int64 {
	return d.Ceil().IntPart()
}
