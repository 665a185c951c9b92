package channel_test

import (
	"fmt"

	"github.com/cwbudde/algo-droplet/dsp/channel"
	"github.com/cwbudde/algo-droplet/dsp/control"
)

func ExampleProcessor_Process() {
	pr, err := channel.New()
	if err != nil {
		panic(err)
	}

	p := control.DefaultParams()
	p.FilterMode = control.FilterOnePass
	p.CutoffHz = 2000
	p.ResonanceKnobCode = 0

	var out channel.Output
	for range 4800 {
		out = pr.Process(p, 0.25)
	}

	fmt.Printf("out=%.3f env=%.3f active=%v\n", out.Sample, out.Envelope, out.Active)

	p.Enabled = false
	fmt.Printf("disabled: %+v\n", pr.Process(p, 0.25))
	// Output:
	// out=0.250 env=0.250 active=true
	// disabled: {Sample:0 Envelope:0 Active:false}
}

func ExampleModule_Step() {
	m, err := channel.NewModule(nil)
	if err != nil {
		panic(err)
	}

	in := channel.DefaultInputs()
	in.Audio = 0.5
	in.QKnob = 0
	in.FreqKnob = 3

	var out channel.Outputs
	for range 4800 {
		out = m.Step(in)
	}

	fmt.Printf("audio=%.2f V envelope=%.1f V\n", out.Audio, out.Envelope)
	// Output:
	// audio=0.50 V envelope=10.0 V
}
