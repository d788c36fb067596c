package ubasic

import "math/rand/v2"

//
// Adapters to the hardware and to non-volatile storage.  The
// interpreter range-checks arguments before calling them, so an
// adapter may assume channel and mode values are valid
//

type Pins interface {
	PinMode(ch uint8, mode int8, speed uint8)
	DigitalWrite(ch uint8, v uint8)
	DigitalRead(ch uint8) int8
}

type PWM interface {
	AnalogWriteConfig(prescaler, period uint16)
	AnalogWrite(ch uint8, duty int16)
}

type ADC interface {
	AnalogReadConfig(sampletime, nreads uint8)
	AnalogRead(ch uint8) int16
}

//
// Input never blocks: InputAvailable polls, Input returns what is
// there (at most maxlen bytes) or ""
//

type Serial interface {
	Print(text string)
	InputAvailable() bool
	Input(maxlen int) string
}

// Uint32 returns a random value of the given bit width
type Random interface {
	Uint32(bits uint) uint32
}

//
// kind is one of KindNumeric, KindString or KindArray.  A read that
// finds nothing returns an empty slice and no error
//

type Storage interface {
	Init() error
	WriteVariable(slot, kind uint8, data []byte) error
	ReadVariable(slot, kind uint8) ([]byte, error)
}

type Hardware struct {
	Pins    Pins
	PWM     PWM
	ADC     ADC
	Serial  Serial
	Random  Random
	Storage Storage
}

func (hw Hardware) withDefaults() Hardware {

	if hw.Pins == nil {
		hw.Pins = nopPins{}
	}
	if hw.PWM == nil {
		hw.PWM = nopPWM{}
	}
	if hw.ADC == nil {
		hw.ADC = nopADC{}
	}
	if hw.Serial == nil {
		hw.Serial = nopSerial{}
	}
	if hw.Random == nil {
		hw.Random = defaultRandom{}
	}
	if hw.Storage == nil {
		hw.Storage = nopStorage{}
	}

	return hw
}

type nopPins struct{}

func (nopPins) PinMode(uint8, int8, uint8) {}
func (nopPins) DigitalWrite(uint8, uint8)  {}
func (nopPins) DigitalRead(uint8) int8     { return 0 }

type nopPWM struct{}

func (nopPWM) AnalogWriteConfig(uint16, uint16) {}
func (nopPWM) AnalogWrite(uint8, int16)         {}

type nopADC struct{}

func (nopADC) AnalogReadConfig(uint8, uint8) {}
func (nopADC) AnalogRead(uint8) int16        { return 0 }

type nopSerial struct{}

func (nopSerial) Print(string)         {}
func (nopSerial) InputAvailable() bool { return false }
func (nopSerial) Input(int) string     { return "" }

type defaultRandom struct{}

func (defaultRandom) Uint32(bits uint) uint32 {

	return rand.Uint32() >> (32 - min(bits, 32))
}

type nopStorage struct{}

func (nopStorage) Init() error                               { return nil }
func (nopStorage) WriteVariable(uint8, uint8, []byte) error  { return nil }
func (nopStorage) ReadVariable(uint8, uint8) ([]byte, error) { return nil, nil }
