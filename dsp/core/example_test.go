package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-droplet/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(64),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=44100 blockSize=64
}

func ExampleClampInt() {
	fmt.Println(core.ClampInt(4095+2047, 0, 4095))

	// Output:
	// 4095
}
