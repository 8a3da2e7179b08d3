package cp_amm

import "errors"

var (
	// ErrPositionPermanentLocked is returned when a position's liquidity can never be withdrawn.
	ErrPositionPermanentLocked = errors.New("position is permanently locked")

	// ErrPositionVesting is returned when a vesting schedule has not fully elapsed.
	ErrPositionVesting = errors.New("position liquidity is still vesting")
)
