package controller

import (
	"context"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-bridge/internal/codec"
	"github.com/rxtech-lab/argo-bridge/internal/logger"
	"github.com/rxtech-lab/argo-bridge/internal/transport"
	"github.com/rxtech-lab/argo-bridge/internal/types"
	"github.com/rxtech-lab/argo-bridge/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ControllerServerTestSuite struct {
	suite.Suite
	server *Server
	client *transport.Client
}

func TestControllerServerSuite(t *testing.T) {
	suite.Run(t, new(ControllerServerTestSuite))
}

func (suite *ControllerServerTestSuite) SetupTest() {
	suite.server = NewServer(NewBarDirectionPolicy(2), logger.NewNopLogger())
	suite.Require().NoError(suite.server.Start(""))
	suite.client = transport.NewClient(suite.server.ReportURL())
}

func (suite *ControllerServerTestSuite) TearDownTest() {
	suite.NoError(suite.server.Stop())
}

func (suite *ControllerServerTestSuite) sendBar(bar types.Bar) transport.Response {
	response, err := suite.client.Send(context.Background(), transport.ReportTypeBar, codec.EncodeBar(bar))
	suite.Require().NoError(err)

	return response
}

func (suite *ControllerServerTestSuite) bar(open, close float64) types.Bar {
	return types.Bar{
		StartTime: time.Unix(1700000000, 0),
		Open:      open,
		High:      open + 1,
		Low:       open - 1,
		Close:     close,
		Volume:    10,
	}
}

func (suite *ControllerServerTestSuite) TestProbe() {
	suite.NoError(suite.client.Probe(context.Background()))
}

func (suite *ControllerServerTestSuite) TestUpBarTriggersBuy() {
	response := suite.sendBar(suite.bar(1.0, 1.5))

	commands, parseErrs := codec.DecodeCommands(response.Body)
	suite.Empty(parseErrs)
	suite.Require().Len(commands, 1)
	suite.Equal(types.OrderSignalBuy, commands[0].Signal)
	suite.InDelta(2, commands[0].Volume, 1e-12)
	suite.True(suite.server.OrderInFlight())
}

func (suite *ControllerServerTestSuite) TestDownBarTriggersSell() {
	response := suite.sendBar(suite.bar(1.5, 1.0))

	commands, _ := codec.DecodeCommands(response.Body)
	suite.Require().Len(commands, 1)
	suite.Equal(types.OrderSignalSell, commands[0].Signal)
}

func (suite *ControllerServerTestSuite) TestUnchangedBarTriggersOut() {
	response := suite.sendBar(suite.bar(1.2, 1.2))

	commands, _ := codec.DecodeCommands(response.Body)
	suite.Require().Len(commands, 1)
	suite.Equal(types.OrderSignalOut, commands[0].Signal)
}

func (suite *ControllerServerTestSuite) TestTickNeverTrades() {
	tick := types.Tick{Time: time.Unix(1700000000, 0), Price: 1.2}

	response, err := suite.client.Send(context.Background(), transport.ReportTypeTick, codec.EncodeTick(tick))
	suite.NoError(err)
	suite.Equal("Reported", string(response.Body))
	suite.False(suite.server.OrderInFlight())
}

func (suite *ControllerServerTestSuite) TestSecondCommandWaitsForOutcome() {
	suite.sendBar(suite.bar(1.0, 1.5))
	suite.True(suite.server.OrderInFlight())

	// A new decision is dropped while the first order is unresolved.
	response := suite.sendBar(suite.bar(1.5, 1.0))
	suite.Equal("Reported", string(response.Body))

	// The status report resolves the order; the next bar trades again.
	outcome := types.OrderOutcome{Success: true}
	_, err := suite.client.Send(context.Background(), transport.ReportTypeOrder, outcome.StatusBody())
	suite.NoError(err)
	suite.False(suite.server.OrderInFlight())

	response = suite.sendBar(suite.bar(1.5, 1.0))
	commands, _ := codec.DecodeCommands(response.Body)
	suite.Require().Len(commands, 1)
	suite.Equal(types.OrderSignalSell, commands[0].Signal)
}

func (suite *ControllerServerTestSuite) TestOutcomeRecorded() {
	suite.sendBar(suite.bar(1.0, 1.5))

	outcome := types.OrderOutcome{Success: false, Err: errors.New(errors.ErrCodeOrderFailed, "rejected")}
	_, err := suite.client.Send(context.Background(), transport.ReportTypeOrder, outcome.StatusBody())
	suite.NoError(err)

	outcomes := suite.server.Outcomes()
	suite.Require().Len(outcomes, 1)
	suite.False(outcomes[0].Success)
}

func (suite *ControllerServerTestSuite) TestInvalidTypeRejected() {
	_, err := suite.client.Send(context.Background(), transport.ReportType("balance"), []byte("x=1"))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeHTTPStatus))
}

func (suite *ControllerServerTestSuite) TestMalformedBarRejected() {
	_, err := suite.client.Send(context.Background(), transport.ReportTypeBar, []byte("start_ts=abc"))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeHTTPStatus))
}

func (suite *ControllerServerTestSuite) TestBadOrderStatusRejected() {
	_, err := suite.client.Send(context.Background(), transport.ReportTypeOrder, []byte("status=maybe"))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeHTTPStatus))
}
