// Package codec implements the wire format spoken between the terminal bridge
// and the remote controller: flat key=value report bodies on the way out, and
// line-oriented command scripts on the way back.
//
// Outbound bodies are ampersand-joined key=value pairs in a fixed field
// order, with no trailing terminator. Inbound bodies are newline-separated
// commands with comma-separated positional arguments, the first argument
// being the command name.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
)

// orderArgCount is the exact argument count of an ORDER line: the signal
// token and the volume token.
const orderArgCount = 2

// EncodeTick renders a tick report body: tick_ts=<unix>&price=<float>.
func EncodeTick(tick types.Tick) []byte {
	return []byte(fmt.Sprintf("tick_ts=%d&price=%s",
		tick.Time.Unix(),
		formatFloat(tick.Price),
	))
}

// EncodeBar renders a bar report body with six fields in fixed order. The
// field name "open_" is kept verbatim for wire compatibility with deployed
// controller servers.
func EncodeBar(bar types.Bar) []byte {
	return []byte(fmt.Sprintf("start_ts=%d&open_=%s&high=%s&low=%s&close=%s&volume=%s",
		bar.StartTime.Unix(),
		formatFloat(bar.Open),
		formatFloat(bar.High),
		formatFloat(bar.Low),
		formatFloat(bar.Close),
		formatFloat(bar.Volume),
	))
}

// DecodeCommands parses a response body into the commands it carries. A
// malformed or unknown line yields an error for that line only; every
// well-formed line still decodes. An empty body decodes to zero commands.
func DecodeCommands(body []byte) ([]types.Command, []error) {
	var (
		commands  []types.Command
		parseErrs []error
	)

	for i, line := range strings.Split(string(body), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		command, err := decodeLine(line)
		if err != nil {
			parseErrs = append(parseErrs, errors.Wrapf(errors.GetCode(err), err, "line %d", i+1))
			continue
		}

		commands = append(commands, command)
	}

	return commands, parseErrs
}

// EncodeCommands renders commands back into the wire script form. This is the
// controller-side counterpart of DecodeCommands.
func EncodeCommands(commands []types.Command) []byte {
	lines := make([]string, 0, len(commands))
	for _, command := range commands {
		lines = append(lines, fmt.Sprintf("%s,%s,%s",
			command.Name,
			command.Signal,
			formatFloat(command.Volume),
		))
	}

	return []byte(strings.Join(lines, "\n"))
}

func decodeLine(line string) (types.Command, error) {
	tokens := strings.Split(line, ",")

	name := types.CommandName(tokens[0])
	if name != types.CommandNameOrder {
		return types.Command{}, errors.Newf(errors.ErrCodeUnknownCommand, "unknown command %q", tokens[0])
	}

	args := tokens[1:]
	if len(args) != orderArgCount {
		return types.Command{}, errors.Newf(errors.ErrCodeMalformedCommand,
			"ORDER expects %d arguments, got %d", orderArgCount, len(args))
	}

	signal, err := types.ParseOrderSignal(args[0])
	if err != nil {
		return types.Command{}, err
	}

	// The volume token is present on every ORDER line but ignored for out.
	volume := 0.0

	if signal != types.OrderSignalOut {
		volume, err = strconv.ParseFloat(args[1], 64)
		if err != nil {
			return types.Command{}, errors.Wrapf(errors.ErrCodeMalformedCommand, err,
				"invalid ORDER volume %q", args[1])
		}
	}

	return types.NewOrderCommand(signal, volume)
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
