package codec

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTick(t *testing.T) {
	tick := types.Tick{
		Time:  time.Date(2016, 1, 2, 3, 2, 0, 0, time.UTC),
		Price: 1.2345,
	}

	assert.Equal(t, "tick_ts=1451703720&price=1.2345", string(EncodeTick(tick)))
}

func TestEncodeTickNoTrailingTerminator(t *testing.T) {
	body := EncodeTick(types.Tick{Time: time.Unix(0, 0), Price: 1})
	assert.NotEqual(t, byte('\n'), body[len(body)-1])
	assert.NotEqual(t, byte(0), body[len(body)-1])
}

func TestEncodeBar(t *testing.T) {
	bar := types.Bar{
		StartTime: time.Date(2016, 1, 2, 3, 2, 0, 0, time.UTC),
		Open:      1.2345,
		High:      2.3456,
		Low:       0.1234,
		Close:     1.2468,
		Volume:    20,
	}

	assert.Equal(t,
		"start_ts=1451703720&open_=1.2345&high=2.3456&low=0.1234&close=1.2468&volume=20",
		string(EncodeBar(bar)))
}

func TestDecodeCommands(t *testing.T) {
	commands, parseErrs := DecodeCommands([]byte("ORDER,buy,0.1\nORDER,out,0"))

	require.Empty(t, parseErrs)
	require.Len(t, commands, 2)
	assert.Equal(t, types.Command{Name: types.CommandNameOrder, Signal: types.OrderSignalBuy, Volume: 0.1}, commands[0])
	assert.Equal(t, types.Command{Name: types.CommandNameOrder, Signal: types.OrderSignalOut, Volume: 0}, commands[1])
}

func TestDecodeCommandsEmptyBody(t *testing.T) {
	commands, parseErrs := DecodeCommands(nil)
	assert.Empty(t, commands)
	assert.Empty(t, parseErrs)

	commands, parseErrs = DecodeCommands([]byte(""))
	assert.Empty(t, commands)
	assert.Empty(t, parseErrs)
}

func TestDecodeCommandsSkipsBlankLines(t *testing.T) {
	commands, parseErrs := DecodeCommands([]byte("\nORDER,sell,2\n\n"))
	require.Empty(t, parseErrs)
	require.Len(t, commands, 1)
	assert.Equal(t, types.OrderSignalSell, commands[0].Signal)
}

func TestDecodeCommandsCRLF(t *testing.T) {
	commands, parseErrs := DecodeCommands([]byte("ORDER,buy,0.5\r\nORDER,out,0\r\n"))
	require.Empty(t, parseErrs)
	require.Len(t, commands, 2)
}

func TestDecodeCommandsUnknownName(t *testing.T) {
	commands, parseErrs := DecodeCommands([]byte("PING,1\nORDER,buy,0.5"))

	require.Len(t, parseErrs, 1)
	assert.True(t, errors.HasCode(parseErrs[0], errors.ErrCodeUnknownCommand))

	// the well-formed line still decodes
	require.Len(t, commands, 1)
	assert.Equal(t, types.OrderSignalBuy, commands[0].Signal)
}

func TestDecodeCommandsMalformedArgCount(t *testing.T) {
	commands, parseErrs := DecodeCommands([]byte("ORDER,buy\nORDER,buy,0.5,extra\nORDER,sell,1"))

	require.Len(t, parseErrs, 2)
	assert.True(t, errors.HasCode(parseErrs[0], errors.ErrCodeMalformedCommand))
	assert.True(t, errors.HasCode(parseErrs[1], errors.ErrCodeMalformedCommand))

	require.Len(t, commands, 1)
	assert.Equal(t, types.OrderSignalSell, commands[0].Signal)
}

func TestDecodeCommandsUnknownOrderKind(t *testing.T) {
	commands, parseErrs := DecodeCommands([]byte("ORDER,hold,0.5"))

	assert.Empty(t, commands)
	require.Len(t, parseErrs, 1)
	assert.True(t, errors.HasCode(parseErrs[0], errors.ErrCodeUnknownOrderKind))
}

func TestDecodeCommandsBadVolume(t *testing.T) {
	_, parseErrs := DecodeCommands([]byte("ORDER,buy,lots"))
	require.Len(t, parseErrs, 1)
	assert.True(t, errors.HasCode(parseErrs[0], errors.ErrCodeMalformedCommand))
}

func TestDecodeCommandsOutIgnoresVolumeToken(t *testing.T) {
	commands, parseErrs := DecodeCommands([]byte("ORDER,out,99"))
	require.Empty(t, parseErrs)
	require.Len(t, commands, 1)
	assert.Zero(t, commands[0].Volume)
}

func TestEncodeCommandsRoundTrip(t *testing.T) {
	original := []types.Command{
		{Name: types.CommandNameOrder, Signal: types.OrderSignalBuy, Volume: 0.1},
		{Name: types.CommandNameOrder, Signal: types.OrderSignalOut, Volume: 0},
	}

	decoded, parseErrs := DecodeCommands(EncodeCommands(original))
	require.Empty(t, parseErrs)
	assert.Equal(t, original, decoded)
}
