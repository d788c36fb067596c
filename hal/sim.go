package hal

import (
	"log/slog"
	"math/rand/v2"
	"sync"
)

//
// Pins remembers the mode and level of every pin it is told about.
// A write is visible to the next read of the same channel, which is
// enough to loop a script's DWRITE back into DREAD
//

type Pins struct {
	mu     sync.Mutex
	log    *slog.Logger
	modes  map[uint8]int8
	levels map[uint8]int8
}

func NewPins(log *slog.Logger) *Pins {

	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Pins{
		log:    log,
		modes:  make(map[uint8]int8),
		levels: make(map[uint8]int8),
	}
}

func (p *Pins) PinMode(ch uint8, mode int8, speed uint8) {

	p.mu.Lock()
	defer p.mu.Unlock()

	p.modes[ch] = mode

	p.log.Debug("pinmode", "ch", ch, "mode", mode, "speed", speed)
}

func (p *Pins) DigitalWrite(ch uint8, v uint8) {

	p.mu.Lock()
	defer p.mu.Unlock()

	p.levels[ch] = int8(v)

	p.log.Debug("dwrite", "ch", ch, "v", v)
}

func (p *Pins) DigitalRead(ch uint8) int8 {

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.levels[ch]
}

// Set drives an input pin from the host side

func (p *Pins) Set(ch uint8, v int8) {

	p.mu.Lock()
	defer p.mu.Unlock()

	p.levels[ch] = v
}

func (p *Pins) Mode(ch uint8) (int8, bool) {

	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.modes[ch]

	return m, ok
}

type PWM struct {
	mu        sync.Mutex
	log       *slog.Logger
	prescaler uint16
	period    uint16
	duty      [4]int16
}

func NewPWM(log *slog.Logger) *PWM {

	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &PWM{log: log}
}

func (p *PWM) AnalogWriteConfig(prescaler, period uint16) {

	p.mu.Lock()
	defer p.mu.Unlock()

	p.prescaler, p.period = prescaler, period

	p.log.Debug("pwmconf", "prescaler", prescaler, "period", period)
}

func (p *PWM) AnalogWrite(ch uint8, duty int16) {

	p.mu.Lock()
	defer p.mu.Unlock()

	if ch >= 1 && int(ch) <= len(p.duty) {
		p.duty[ch-1] = duty
	}

	p.log.Debug("pwm", "ch", ch, "duty", duty)
}

func (p *PWM) Duty(ch uint8) int16 {

	p.mu.Lock()
	defer p.mu.Unlock()

	if ch < 1 || int(ch) > len(p.duty) {
		return -1
	}

	return p.duty[ch-1]
}

func (p *PWM) Config() (uint16, uint16) {

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.prescaler, p.period
}

//
// ADC returns fixed per-channel readings.  Channels past the end of
// the table read 0
//

type ADC struct {
	mu         sync.Mutex
	values     []int16
	sampletime uint8
	nreads     uint8
}

func NewADC(values []int) *ADC {

	a := &ADC{}
	for _, v := range values {
		a.values = append(a.values, int16(v))
	}

	return a
}

func (a *ADC) AnalogReadConfig(sampletime, nreads uint8) {

	a.mu.Lock()
	defer a.mu.Unlock()

	a.sampletime, a.nreads = sampletime, nreads
}

func (a *ADC) AnalogRead(ch uint8) int16 {

	a.mu.Lock()
	defer a.mu.Unlock()

	if int(ch) >= len(a.values) {
		return 0
	}

	return a.values[ch]
}

func (a *ADC) Set(ch uint8, v int16) {

	a.mu.Lock()
	defer a.mu.Unlock()

	for int(ch) >= len(a.values) {
		a.values = append(a.values, 0)
	}

	a.values[ch] = v
}

//
// Random is a PCG source.  A zero seed picks a random one
//

type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom(seed int64) *Random {

	s := uint64(seed)
	if seed == 0 {
		s = rand.Uint64()
	}

	return &Random{rng: rand.New(rand.NewPCG(s, s>>32|1))}
}

func (r *Random) Uint32(bits uint) uint32 {

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rng.Uint32() >> (32 - min(bits, 32))
}
