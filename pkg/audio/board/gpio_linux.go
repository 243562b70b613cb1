//go:build linux

package board

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// gpioArray drives the mic-array multiplexer through periph.io.
type gpioArray struct {
	pins   Pins
	enable gpio.PinIO
	sel    [3]gpio.PinIO
}

func newGPIOArray(pins Pins) micArray {
	return &gpioArray{pins: pins}
}

// Setup initializes the host GPIO subsystem and claims the pins as
// outputs, leaving the array enabled.
func (g *gpioArray) Setup() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("gpio host init: %w", err)
	}

	g.enable = gpioreg.ByName(g.pins.Enable)
	if g.enable == nil {
		return fmt.Errorf("gpio pin %q not found", g.pins.Enable)
	}
	for i, name := range g.pins.Select {
		p := gpioreg.ByName(name)
		if p == nil {
			return fmt.Errorf("gpio pin %q not found", name)
		}
		g.sel[i] = p
	}

	for _, p := range g.sel {
		if err := p.Out(gpio.Low); err != nil {
			return fmt.Errorf("gpio %s: %w", p.Name(), err)
		}
	}
	return g.enable.Out(gpio.High)
}

// Select encodes the mic index onto the three select lines, then waits
// for the analog switch to settle.
func (g *gpioArray) Select(idx int) error {
	for i, p := range g.sel {
		level := gpio.Low
		if idx&(1<<i) != 0 {
			level = gpio.High
		}
		if err := p.Out(level); err != nil {
			return fmt.Errorf("gpio %s: %w", p.Name(), err)
		}
	}
	time.Sleep(time.Millisecond)
	return nil
}

func (g *gpioArray) Enable(on bool) error {
	level := gpio.Low
	if on {
		level = gpio.High
	}
	return g.enable.Out(level)
}

// Close parks all lines low.
func (g *gpioArray) Close() error {
	if g.enable != nil {
		_ = g.enable.Out(gpio.Low)
	}
	for _, p := range g.sel {
		if p != nil {
			_ = p.Out(gpio.Low)
		}
	}
	return nil
}
