//go:build !headless

package main

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
)

// otoOutput plays a mono float32 stream on the default device.
type otoOutput struct {
	ctx    *oto.Context
	player *oto.Player
}

func openOutput(sampleRate int, r io.Reader) (audioOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	return &otoOutput{
		ctx:    ctx,
		player: ctx.NewPlayer(r),
	}, nil
}

func (o *otoOutput) Play() {
	o.player.Play()
}

func (o *otoOutput) Err() error {
	if err := o.player.Err(); err != nil {
		return err
	}

	return o.ctx.Err()
}

func (o *otoOutput) Close() error {
	return o.player.Close()
}
