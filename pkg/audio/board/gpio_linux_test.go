//go:build linux

package board

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// fakePin records the last level written to it.
type fakePin struct {
	name  string
	level gpio.Level
}

func (p *fakePin) String() string   { return p.name }
func (p *fakePin) Halt() error      { return nil }
func (p *fakePin) Name() string     { return p.name }
func (p *fakePin) Number() int      { return 0 }
func (p *fakePin) Function() string { return "Out" }

func (p *fakePin) In(pull gpio.Pull, edge gpio.Edge) error { return nil }
func (p *fakePin) Read() gpio.Level                        { return p.level }
func (p *fakePin) WaitForEdge(timeout time.Duration) bool  { return false }
func (p *fakePin) Pull() gpio.Pull                         { return gpio.PullNoChange }
func (p *fakePin) DefaultPull() gpio.Pull                  { return gpio.PullNoChange }

func (p *fakePin) Out(l gpio.Level) error {
	p.level = l
	return nil
}

func (p *fakePin) PWM(duty gpio.Duty, f physic.Frequency) error { return nil }

var _ gpio.PinIO = (*fakePin)(nil)

func newFakeGPIOArray() (*gpioArray, *fakePin, [3]*fakePin) {
	enable := &fakePin{name: "GPIO24"}
	sel := [3]*fakePin{{name: "GPIO25"}, {name: "GPIO8"}, {name: "GPIO7"}}

	g := &gpioArray{pins: DefaultPins(), enable: enable}
	for i, p := range sel {
		g.sel[i] = p
	}
	return g, enable, sel
}

func TestSelectEncoding(t *testing.T) {
	g, _, sel := newFakeGPIOArray()

	for idx := 0; idx < 8; idx++ {
		if err := g.Select(idx); err != nil {
			t.Fatalf("mic %d: unexpected error: %v", idx, err)
		}
		for bit := 0; bit < 3; bit++ {
			want := gpio.Level(idx&(1<<bit) != 0)
			if sel[bit].level != want {
				t.Errorf("mic %d: select line %d = %v, want %v", idx, bit, sel[bit].level, want)
			}
		}
	}
}

func TestEnableLine(t *testing.T) {
	g, enable, _ := newFakeGPIOArray()

	if err := g.Enable(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enable.level != gpio.High {
		t.Error("expected enable high")
	}

	if err := g.Enable(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enable.level != gpio.Low {
		t.Error("expected enable low")
	}
}

func TestCloseParksLinesLow(t *testing.T) {
	g, enable, sel := newFakeGPIOArray()
	g.Select(7)
	g.Enable(true)

	if err := g.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enable.level != gpio.Low {
		t.Error("expected enable parked low")
	}
	for i, p := range sel {
		if p.level != gpio.Low {
			t.Errorf("select line %d not parked low", i)
		}
	}
}
