package client

import (
	"context"

	"github.com/nadtcp/nadtcp-go/pkg/protocol"
)

// PowerOn powers the amplifier on.
func (c *Client) PowerOn(ctx context.Context) error {
	return c.Exec(ctx, protocol.CmdPower, protocol.OpAssign, true)
}

// PowerOff powers the amplifier off.
func (c *Client) PowerOff(ctx context.Context) error {
	return c.Exec(ctx, protocol.CmdPower, protocol.OpAssign, false)
}

// SetVolume sets the volume in device scale (dB, integral values in
// [-80, 0)).
func (c *Client) SetVolume(ctx context.Context, dB float64) error {
	return c.Exec(ctx, protocol.CmdVolume, protocol.OpAssign, dB)
}

// VolumeUp steps the volume up by the device-defined increment.
func (c *Client) VolumeUp(ctx context.Context) error {
	return c.Exec(ctx, protocol.CmdVolume, protocol.OpIncrement, nil)
}

// VolumeDown steps the volume down by the device-defined increment.
func (c *Client) VolumeDown(ctx context.Context) error {
	return c.Exec(ctx, protocol.CmdVolume, protocol.OpDecrement, nil)
}

// Mute mutes the amplifier.
func (c *Client) Mute(ctx context.Context) error {
	return c.Exec(ctx, protocol.CmdMute, protocol.OpAssign, true)
}

// Unmute unmutes the amplifier.
func (c *Client) Unmute(ctx context.Context) error {
	return c.Exec(ctx, protocol.CmdMute, protocol.OpAssign, false)
}

// SelectSource selects an input source. The name must be one of
// AvailableSources.
func (c *Client) SelectSource(ctx context.Context, source string) error {
	return c.Exec(ctx, protocol.CmdSource, protocol.OpAssign, source)
}

// AvailableSources returns the enumerated input source list. The list is
// static device metadata, independent of connection state.
func (c *Client) AvailableSources() []string {
	return protocol.SourceNames()
}
