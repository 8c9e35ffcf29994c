package rpiws281x

import (
	"errors"

	"github.com/coreman2200/rpiws281x/internal/hw"
)

// Code is the closed set of result codes surfaced by hardware operations.
// It mirrors the underlying library's ws2811_return_t values.
type Code = hw.Code

const (
	Success           = hw.Success
	ErrGeneric        = hw.ErrGeneric
	ErrOutOfMemory    = hw.ErrOutOfMemory
	ErrHwNotSupported = hw.ErrHwNotSupported
	ErrMemLock        = hw.ErrMemLock
	ErrMmap           = hw.ErrMmap
	ErrMapRegisters   = hw.ErrMapRegisters
	ErrGpioInit       = hw.ErrGpioInit
	ErrPwmSetup       = hw.ErrPwmSetup
	ErrMailboxDevice  = hw.ErrMailboxDevice
	ErrDma            = hw.ErrDma
	ErrIllegalGpio    = hw.ErrIllegalGpio
	ErrPcmSetup       = hw.ErrPcmSetup
	ErrSpiSetup       = hw.ErrSpiSetup
	ErrSpiTransfer    = hw.ErrSpiTransfer
)

// Configuration and lifecycle errors detected before any hardware call.
var (
	ErrPinNotAllowed   = errors.New("selected pin not allowed")
	ErrWrongFrequency  = errors.New("wrong frequency")
	ErrWrongStripType  = errors.New("unknown strip type")
	ErrWrongLedCount   = errors.New("led count must be positive for an active channel")
	ErrWrongDMAChannel = errors.New("dma channel out of range")
	ErrNoActiveChannel = errors.New("no active channel")
	ErrChannelDisabled = errors.New("channel disabled")
	ErrDriverStopped   = errors.New("driver stopped")
)
