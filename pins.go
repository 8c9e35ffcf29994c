package rpiws281x

// PwmPin is a GPIO with a hardware PWM function. PWM1 pins are electrically
// available on the second channel only.
type PwmPin int

const (
	// Pwm0Gpio12 is PWM0 on GPIO 12.
	Pwm0Gpio12 PwmPin = 12
	// Pwm0Gpio18 is PWM0 on GPIO 18.
	Pwm0Gpio18 PwmPin = 18
	// Pwm1Gpio13 is PWM1 on GPIO 13.
	Pwm1Gpio13 PwmPin = 13
	// Pwm1Gpio19 is PWM1 on GPIO 19.
	Pwm1Gpio19 PwmPin = 19
)

func (p PwmPin) valid() bool {
	switch p {
	case Pwm0Gpio12, Pwm0Gpio18, Pwm1Gpio13, Pwm1Gpio19:
		return true
	}
	return false
}

// secondary reports whether the pin belongs to the PWM1 pair.
func (p PwmPin) secondary() bool {
	return p == Pwm1Gpio13 || p == Pwm1Gpio19
}

// PcmPin is a GPIO with the PCM_DOUT function.
type PcmPin int

const (
	// PcmGpio21 is PCM_DOUT on the board header.
	PcmGpio21 PcmPin = 21
	// PcmGpio31 is PCM_DOUT on the P5 header, not present on all boards.
	PcmGpio31 PcmPin = 31
)

func (p PcmPin) valid() bool {
	return p == PcmGpio21 || p == PcmGpio31
}

// SpiPin is a GPIO with the SPI MOSI function.
type SpiPin int

// SpiGpio10 is SPI0 MOSI on GPIO 10.
const SpiGpio10 SpiPin = 10

func (p SpiPin) valid() bool {
	return p == SpiGpio10
}
