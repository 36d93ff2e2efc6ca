package wallet

import (
	"fmt"

	"github.com/everFinance/domns/schema"
)

// EIP-1193 provider error codes
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnrecognizedChain = 4902
	CodeInvalidParams     = -32602
)

// RPCError satisfies go-ethereum's rpc.Error, callers switch on ErrorCode.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return e.Message
}

func (e *RPCError) ErrorCode() int {
	return e.Code
}

func (e *RPCError) Unwrap() error {
	switch e.Code {
	case CodeUserRejected:
		return schema.ErrUserRejected
	case CodeUnrecognizedChain:
		return schema.ErrUnknownChain
	case CodeUnauthorized:
		return schema.ErrNotConnected
	}
	return nil
}

func errUserRejected() error {
	return &RPCError{Code: CodeUserRejected, Message: "User rejected the request."}
}

func errUnauthorized() error {
	return &RPCError{Code: CodeUnauthorized, Message: "The requested account and/or method has not been authorized by the user."}
}

func errUnrecognizedChain(chainId string) error {
	return &RPCError{
		Code:    CodeUnrecognizedChain,
		Message: fmt.Sprintf("Unrecognized chain ID %q. Try adding the chain using wallet_addEthereumChain first.", chainId),
	}
}

func errInvalidParams(msg string) error {
	return &RPCError{Code: CodeInvalidParams, Message: msg}
}
