package window_test

import (
	"fmt"

	"github.com/cwbudde/algo-droplet/dsp/window"
)

func ExampleGenerate() {
	w := window.Generate(window.TypeHann, 4, window.WithPeriodic())
	fmt.Printf("%.2f\n", w)

	// Output:
	// [0.00 0.50 1.00 0.50]
}

func ExampleAnalyze() {
	a, err := window.Analyze(window.Generate(window.TypeHann, 256, window.WithPeriodic()))
	if err != nil {
		panic(err)
	}

	fmt.Printf("coherent gain %.2f, ENBW %.2f bins\n", a.CoherentGain, a.ENBW)

	// Output:
	// coherent gain 0.50, ENBW 1.50 bins
}
