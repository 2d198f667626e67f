package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeUnknownCommand, "unknown command %q", "PING")
	suite.NotNil(err)
	suite.Equal(ErrCodeUnknownCommand, err.Code)
	suite.Equal(`unknown command "PING"`, err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeTransportFailed, "failed to reach remote", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeTransportFailed, err.Code)
	suite.Equal("failed to reach remote", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeTransportFailed, cause, "failed to post %s report", "tick")
	suite.NotNil(err)
	suite.Equal(ErrCodeTransportFailed, err.Code)
	suite.Equal("failed to post tick report", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeTransportFailed, "failed to reach remote", cause)
	suite.Equal("[200] failed to reach remote: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeHTTPStatus, "remote returned an error status", cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestUnwrapNil() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal(ErrCodeInvalidParameter, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeOrderFailed, "order rejected")
	err := Wrap(ErrCodeCloseFailed, "close step failed", cause)
	// GetCode should return the outermost error's code
	suite.Equal(ErrCodeCloseFailed, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromForeignError() {
	err := errors.New("standard error")
	suite.Equal(ErrCodeUnknown, GetCode(err))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.True(HasCode(err, ErrCodeInvalidParameter))
	suite.False(HasCode(err, ErrCodeOrderFailed))
}

func (suite *ErrorTestSuite) TestIsError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeTransportFailed, "failed to reach remote", cause)
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestTradeError() {
	err := NewTradeError(133, "submit", "trading is disabled for the account")
	suite.Equal("submit: trading is disabled for the account (code 133)", err.Error())
	suite.Equal(133, err.RawCode)
}

func (suite *ErrorTestSuite) TestIsTradeError() {
	tradeErr := NewTradeError(4, "close", "trade server is busy")
	wrapped := Wrap(ErrCodeCloseFailed, "failed to close position", tradeErr)

	suite.True(IsTradeError(wrapped))
	suite.False(IsTradeError(errors.New("standard error")))
}

func (suite *ErrorTestSuite) TestTradeErrorThroughChain() {
	tradeErr := NewTradeError(130, "submit", "stop distance too small")
	wrapped := fmt.Errorf("reconcile: %w", Wrap(ErrCodeOrderFailed, "failed to open position", tradeErr))

	var extracted *TradeError
	suite.True(As(wrapped, &extracted))
	suite.Equal(130, extracted.RawCode)
}
