package adc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mcuperiph-go/errcode"
	"mcuperiph-go/hal/gpio"
	"mcuperiph-go/hal/internal/sim"
	"mcuperiph-go/hal/nvic"
	"mcuperiph-go/hal/rcc"
	"mcuperiph-go/hal/regmap"
	"mcuperiph-go/x/mmio"
	"mcuperiph-go/x/timex"
)

type rig struct {
	s    *sim.Silicon
	gate *rcc.Gate
	pins *gpio.Pins
	nv   *nvic.Recorder
	d    *Device
	blk  *regmap.ADCBlock
}

func newRig(t *testing.T) *rig {
	t.Helper()
	s := sim.New()
	g := rcc.New(s.Map.RCC())
	ps := gpio.New(s.Map, g)
	nv := nvic.NewRecorder()
	d, err := New(Config{
		ID:     regmap.ADC1,
		Map:    s.Map,
		Gate:   g,
		Pins:   ps,
		NVIC:   nv,
		Budget: timex.Budget{Ticks: timex.DefaultBound, Src: s.Clock},
	})
	require.NoError(t, err)
	blk, _ := s.Map.ADC(regmap.ADC1)
	return &rig{s: s, gate: g, pins: ps, nv: nv, d: d, blk: blk}
}

var pa0 = gpio.Pin{Port: regmap.PortA, Num: 0}

func (r *rig) adcClock() regmap.Clock {
	c, _ := r.s.Map.Clock(regmap.ADC1)
	return c
}

// writes counts every register write the ADC could have caused.
func (r *rig) writes() int {
	n := 0
	for _, reg := range []mmio.Register32{
		r.blk.ISR, r.blk.IER, r.blk.CR, r.blk.CFGR1, r.blk.CFGR2,
		r.blk.SMPR, r.blk.TR, r.blk.CHSELR, r.blk.DR,
		r.s.Map.ADCCommon().CCR,
		r.s.Map.RCC().APB2ENR, r.s.Map.RCC().AHBENR, r.s.Map.RCC().CR2,
	} {
		n += sim.Reg(reg).Writes
	}
	return n
}

func (r *rig) cr() uint32 { return sim.Reg(r.blk.CR).Peek() }

// sampling drives the device to Sampling on channel 0 through PA0.
func (r *rig) sampling(t *testing.T) {
	t.Helper()
	require.NoError(t, r.d.Configure(Single))
	require.NoError(t, r.d.Channel(Selection{Source: External(0, pa0), SampleTime: 3}))
	require.NoError(t, r.d.Start())
	require.NoError(t, r.d.StartSampling())
	require.Equal(t, Sampling, r.d.State())
}

func TestNewRejectsUnknownInstance(t *testing.T) {
	s := sim.New()
	g := rcc.New(s.Map.RCC())
	_, err := New(Config{ID: regmap.ADC2, Map: s.Map, Gate: g, Pins: gpio.New(s.Map, g), NVIC: nvic.NewRecorder()})
	require.ErrorIs(t, err, errcode.Unsupported)

	_, err = New(Config{ID: regmap.ADC1, Map: s.Map})
	require.ErrorIs(t, err, errcode.Precondition)
}

func TestCalibrateCompletesWithinBound(t *testing.T) {
	r := newRig(t)
	r.s.ADC.CalibrationTicks = 50

	require.NoError(t, r.d.Calibrate())
	require.True(t, r.d.Calibrated())
	require.Equal(t, Calibrated, r.d.State())
	require.Zero(t, r.cr()&regmap.ADC_CR_ADCAL)
	require.True(t, r.gate.Held("adc1", r.adcClock()))
}

func TestCalibrateTimesOutPastBound(t *testing.T) {
	r := newRig(t)
	r.s.ADC.CalibrationTicks = 450

	err := r.d.Calibrate()
	require.ErrorIs(t, err, errcode.Timeout)
	require.False(t, r.d.Calibrated())
	require.Equal(t, Uninitialized, r.d.State())
	// Not rolled back: ADCAL is still pending in hardware.
	require.NotZero(t, r.cr()&regmap.ADC_CR_ADCAL)
}

func TestCalibrateDisablesEnabledConverterFirst(t *testing.T) {
	r := newRig(t)
	sim.Reg(r.blk.CR).Poke(regmap.ADC_CR_ADEN)
	sim.Reg(r.blk.CFGR1).Poke(regmap.ADC_CFGR1_DMAEN)

	require.NoError(t, r.d.Calibrate())
	require.Zero(t, r.cr()&regmap.ADC_CR_ADEN)
	require.Zero(t, sim.Reg(r.blk.CFGR1).Peek()&regmap.ADC_CFGR1_DMAEN)
}

func TestCalibrateRejectedWhileActive(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.d.Configure(Single))
	before := r.writes()
	require.ErrorIs(t, r.d.Calibrate(), errcode.Precondition)
	require.Equal(t, before, r.writes())
}

func TestConfigureSelectsModeAndAsyncClock(t *testing.T) {
	r := newRig(t)
	sim.Reg(r.blk.CFGR2).Poke(2 << regmap.ADC_CFGR2_CKMODE_Pos)

	require.NoError(t, r.d.Configure(Continuous))
	require.Equal(t, Active, r.d.State())
	require.Equal(t, Continuous, r.d.Mode())
	require.True(t, r.d.Calibrated())
	require.NotZero(t, sim.Reg(r.blk.CFGR1).Peek()&regmap.ADC_CFGR1_CONT)
	require.Zero(t, sim.Reg(r.blk.CFGR2).Peek()>>regmap.ADC_CFGR2_CKMODE_Pos&regmap.ADC_CFGR2_CKMODE_Msk)
	require.NotZero(t, sim.Reg(r.s.Map.RCC().CR2).Peek()&regmap.RCC_CR2_HSI14ON)
	require.True(t, r.gate.Enabled(r.adcClock()))
}

func TestConfigureIsIdempotent(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.d.Configure(Single))
	before := r.writes()

	require.NoError(t, r.d.Configure(Single))
	require.NoError(t, r.d.Configure(Continuous))
	require.Equal(t, before, r.writes(), "a second configure must not write")
	require.Equal(t, Single, r.d.Mode())
	require.Equal(t, 1, r.gate.Holders(r.adcClock()))
}

func TestConfigureFailureReleasesClock(t *testing.T) {
	t.Run("calibration timeout", func(t *testing.T) {
		r := newRig(t)
		r.s.ADC.CalibrationTicks = sim.Never

		require.ErrorIs(t, r.d.Configure(Single), errcode.Timeout)
		require.Equal(t, Uninitialized, r.d.State())
		require.False(t, r.gate.Held("adc1", r.adcClock()))
		require.False(t, r.gate.Enabled(r.adcClock()))
	})
	t.Run("oscillator timeout", func(t *testing.T) {
		r := newRig(t)
		r.s.HSI14Ticks = sim.Never

		require.ErrorIs(t, r.d.Configure(Single), errcode.Timeout)
		require.Equal(t, Calibrated, r.d.State())
		require.False(t, r.gate.Held("adc1", r.adcClock()))
	})
	t.Run("clock never latches", func(t *testing.T) {
		r := newRig(t)
		r.s.Stuck[regmap.APB2] = regmap.RCC_APB2ENR_ADCEN

		require.ErrorIs(t, r.d.Configure(Single), errcode.ResourceUnavailable)
		require.Equal(t, Uninitialized, r.d.State())
		require.Equal(t, 0, r.gate.Holders(r.adcClock()))
	})
	t.Run("clock held by earlier calibrate stays held", func(t *testing.T) {
		r := newRig(t)
		require.NoError(t, r.d.Calibrate())
		r.s.HSI14Ticks = sim.Never

		require.Error(t, r.d.Configure(Single))
		require.True(t, r.gate.Held("adc1", r.adcClock()))
	})
}

func TestStartRequiresCalibratedActiveDevice(t *testing.T) {
	r := newRig(t)
	require.ErrorIs(t, r.d.Start(), errcode.Precondition)
	require.ErrorIs(t, r.d.StartSampling(), errcode.Precondition)
	require.Equal(t, 0, r.writes())

	r.s.ADC.CalibrationTicks = sim.Never
	require.Error(t, r.d.Configure(Single))
	require.ErrorIs(t, r.d.Start(), errcode.Precondition)
	require.Zero(t, r.cr()&regmap.ADC_CR_ADEN)
}

func TestStartClearsStaleReady(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.d.Configure(Single))
	r.s.RaiseADC(regmap.ADC_ISR_ADRDY)
	r.s.ADC.ReadyTicks = sim.Never

	// A stale ADRDY must not satisfy the handshake.
	require.ErrorIs(t, r.d.Start(), errcode.Timeout)
	require.Zero(t, r.s.ADCStatus()&regmap.ADC_ISR_ADRDY)
}

func TestStartTimeoutLeavesEnableBitSet(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.d.Configure(Single))
	r.s.ADC.ReadyTicks = sim.Never

	require.ErrorIs(t, r.d.Start(), errcode.Timeout)
	require.NotZero(t, r.cr()&regmap.ADC_CR_ADEN, "ADEN stays set after a start timeout")
	require.Equal(t, Active, r.d.State())

	// Stop recovers the converter.
	require.NoError(t, r.d.Stop())
	require.Zero(t, r.cr()&regmap.ADC_CR_ADEN)
}

func TestSampleOnce(t *testing.T) {
	r := newRig(t)
	r.s.ADC.Sample = 0x0123
	r.sampling(t)

	v, err := r.d.GetValue()
	require.NoError(t, err)
	require.EqualValues(t, 0x0123, v)
	require.Equal(t, ChannelConfigured, r.d.State())
}

func TestStartSamplingRejectsSecondRequest(t *testing.T) {
	r := newRig(t)
	r.sampling(t)
	before := r.writes()

	require.ErrorIs(t, r.d.StartSampling(), errcode.Busy)
	require.Equal(t, before, r.writes())
}

func TestGetValueTimeoutKeepsSampling(t *testing.T) {
	r := newRig(t)
	r.s.ADC.ConversionTicks = sim.Never
	r.sampling(t)

	_, err := r.d.GetValue()
	require.ErrorIs(t, err, errcode.Timeout)
	require.Equal(t, Sampling, r.d.State())

	_, err = newRig(t).d.GetValue()
	require.ErrorIs(t, err, errcode.Precondition)
}

func TestMutationsRejectedWhileSampling(t *testing.T) {
	r := newRig(t)
	r.sampling(t)
	before := r.writes()
	ier := sim.Reg(r.blk.IER).Peek()

	require.ErrorIs(t, r.d.Channel(Selection{Source: VRefInt, SampleTime: 1}), errcode.Precondition)
	require.ErrorIs(t, r.d.EnableInterrupt(Callbacks{Ready: func() {}}), errcode.Precondition)
	require.ErrorIs(t, r.d.DisableInterrupts(), errcode.Precondition)
	// Configure on an active device is a no-op, not a mutation.
	require.NoError(t, r.d.Configure(Continuous))

	require.Equal(t, before, r.writes())
	require.Equal(t, ier, sim.Reg(r.blk.IER).Peek())
	require.False(t, r.nv.Enabled(12))
}

func TestChannelRejectsOutOfRange(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.d.Configure(Single))

	err := r.d.Channel(Selection{Source: External(19, pa0), SampleTime: 7})
	require.ErrorIs(t, err, errcode.OutOfRange)
	require.Zero(t, sim.Reg(r.blk.CHSELR).Writes)
	require.Zero(t, sim.Reg(r.blk.CHSELR).Peek())
	_, owned := r.pins.Owner(pa0)
	require.False(t, owned, "pin must not be claimed")

	err = r.d.Channel(Selection{Source: External(0, pa0), SampleTime: 8})
	require.ErrorIs(t, err, errcode.OutOfRange)
	require.Zero(t, sim.Reg(r.blk.SMPR).Writes)
}

func TestChannelRequiresActive(t *testing.T) {
	r := newRig(t)
	require.ErrorIs(t, r.d.Channel(Selection{Source: External(0, pa0)}), errcode.Precondition)
	require.Equal(t, 0, r.writes())
}

func TestChannelExternalClaimsAnalogPin(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.d.Configure(Single))
	require.NoError(t, r.d.Channel(Selection{Source: External(0, pa0), SampleTime: 4}))

	owner, ok := r.pins.Owner(pa0)
	require.True(t, ok)
	require.Equal(t, "adc1", owner)
	gpioa, _ := r.s.Map.GPIO(regmap.PortA)
	require.EqualValues(t, regmap.GPIO_MODE_ANALOG, sim.Reg(gpioa.MODER).Peek()&0x3)
	require.EqualValues(t, 1, sim.Reg(r.blk.CHSELR).Peek())
	require.EqualValues(t, 4, sim.Reg(r.blk.SMPR).Peek())
	require.Equal(t, ChannelConfigured, r.d.State())

	r.pins.Release("adc1", pa0)
	other := gpio.Pin{Port: regmap.PortA, Num: 1}
	require.NoError(t, r.pins.ClaimAF("usart2", other, 1))
	require.ErrorIs(t, r.d.Channel(Selection{Source: External(1, other)}), errcode.PinInUse)
}

func TestChannelExternalMustMatchWiredPin(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.d.Configure(Single))

	for _, src := range []Source{
		External(16, pa0), // internal channel
		External(18, pa0),
		External(1, pa0), // IN1 is PA1
		External(8, gpio.Pin{Port: regmap.PortA, Num: 8}),
	} {
		require.ErrorIs(t, r.d.Channel(Selection{Source: src}), errcode.OutOfRange, "IN%d", src.Channel)
	}
	require.Zero(t, sim.Reg(r.blk.CHSELR).Writes)
	require.Zero(t, sim.Reg(r.s.Map.ADCCommon().CCR).Peek()&regmap.ADC_CCR_TSEN)
	_, owned := r.pins.Owner(pa0)
	require.False(t, owned)

	pb0 := gpio.Pin{Port: regmap.PortB, Num: 0}
	require.NoError(t, r.d.Channel(Selection{Source: External(8, pb0)}))
	require.EqualValues(t, 1<<8, r.d.Channels())

	require.NoError(t, r.d.Stop())
	_, owned = r.pins.Owner(pb0)
	require.False(t, owned, "stop releases the pin of every selected input")
}

func TestChannelInternalSources(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.d.Configure(Single))

	require.NoError(t, r.d.Channel(Selection{Source: TempSensor, SampleTime: 1}))
	ccr := sim.Reg(r.s.Map.ADCCommon().CCR).Peek()
	require.NotZero(t, ccr&regmap.ADC_CCR_TSEN)
	require.EqualValues(t, MaxSampleTime, sim.Reg(r.blk.SMPR).Peek(), "temperature sensor forces the longest sample time")
	require.EqualValues(t, 1<<16, sim.Reg(r.blk.CHSELR).Peek())

	require.NoError(t, r.d.Channel(Selection{Source: VBat, SampleTime: 2}))
	require.NotZero(t, sim.Reg(r.s.Map.ADCCommon().CCR).Peek()&regmap.ADC_CCR_VBATEN)
	require.EqualValues(t, 1<<16|1<<18, r.d.Channels())

	require.ErrorIs(t, r.d.Channel(Selection{Source: Source{Channel: 5}}), errcode.OutOfRange)
}

func TestStopReleasesSessionResources(t *testing.T) {
	r := newRig(t)
	r.sampling(t)
	_, err := r.d.GetValue()
	require.NoError(t, err)

	require.NoError(t, r.d.Stop())
	require.Equal(t, Calibrated, r.d.State())
	require.Zero(t, r.cr()&(regmap.ADC_CR_ADEN|regmap.ADC_CR_ADSTART))
	require.Zero(t, sim.Reg(r.blk.CHSELR).Peek())
	require.False(t, r.gate.Enabled(r.adcClock()))
	_, owned := r.pins.Owner(pa0)
	require.False(t, owned)

	// A new session reuses the calibration.
	r.s.ADC.CalibrationTicks = sim.Never
	require.NoError(t, r.d.Configure(Single))
	require.Equal(t, Active, r.d.State())
}

func TestStopConversionTimeoutIsNotRolledBack(t *testing.T) {
	r := newRig(t)
	r.s.ADC.ConversionTicks = sim.Never
	r.sampling(t)
	r.s.ADC.StopTicks = sim.Never

	require.ErrorIs(t, r.d.Stop(), errcode.Timeout)
	require.Equal(t, Stopping, r.d.State())
	cr := r.cr()
	require.NotZero(t, cr&regmap.ADC_CR_ADSTP)
	require.NotZero(t, cr&regmap.ADC_CR_ADEN)
	require.True(t, r.gate.Enabled(r.adcClock()))

	require.ErrorIs(t, r.d.StartSampling(), errcode.Precondition)

	// Hardware eventually acknowledges; a second stop completes.
	r.s.ADC.StopTicks = 3
	require.NoError(t, r.d.Stop())
	require.Equal(t, Calibrated, r.d.State())
}

func TestStopDisableTimeoutLeavesDisablePending(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.d.Configure(Single))
	require.NoError(t, r.d.Start())
	r.s.ADC.DisableTicks = sim.Never

	require.ErrorIs(t, r.d.Stop(), errcode.Timeout)
	cr := r.cr()
	require.NotZero(t, cr&regmap.ADC_CR_ADDIS)
	require.NotZero(t, cr&regmap.ADC_CR_ADEN)
	require.Equal(t, Stopping, r.d.State())
}

func TestConfigureRejectedWhileStopping(t *testing.T) {
	r := newRig(t)
	r.s.ADC.ConversionTicks = sim.Never
	r.sampling(t)
	r.s.ADC.StopTicks = sim.Never
	require.ErrorIs(t, r.d.Stop(), errcode.Timeout)
	before := r.writes()

	require.ErrorIs(t, r.d.Configure(Single), errcode.Precondition)
	require.Equal(t, Stopping, r.d.State())
	require.Equal(t, before, r.writes())

	r.s.ADC.StopTicks = 3
	require.NoError(t, r.d.Stop())
	require.NoError(t, r.d.Configure(Single))
	require.Equal(t, Active, r.d.State())
}

func TestStopRequiresActive(t *testing.T) {
	r := newRig(t)
	require.ErrorIs(t, r.d.Stop(), errcode.Precondition)
	require.NoError(t, r.d.Calibrate())
	require.ErrorIs(t, r.d.Stop(), errcode.Precondition)
}

func TestStateNames(t *testing.T) {
	require.Equal(t, "channel_configured", ChannelConfigured.String())
	require.Equal(t, "stopping", Stopping.String())
	require.Equal(t, "unknown", State(99).String())
}
