package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveErrorFormatting(t *testing.T) {
	err := ErrBadPortToken("80x")
	assert.Equal(t, "[PORT_PARSE] invalid port token (token: 80x)", err.Error())

	bare := NewResolveError(CodeEmptyTargets, "resolution produced no targets")
	assert.Equal(t, "[EMPTY_TARGETS] resolution produced no targets", bare.Error())
}

func TestResolveErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("open targets.txt: no such file or directory")
	err := ErrTargetFile("targets.txt", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeFileRead, GetCode(err))
}

func TestScanErrorFormatting(t *testing.T) {
	cause := errors.New("nmap binary not found")
	err := WrapScanErrorWithMethod(CodeScanFailed, "scanner execution failed", "syn", cause)

	assert.Equal(t, "[SCAN_FAILED] scanner execution failed (method: syn)", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"resolve error", ErrInvalidTarget("not-a-host"), CodeTargetInvalid},
		{"range order", ErrRangeOrder("10.0.0.9-10.0.0.1"), CodeRangeOrder},
		{"scan error", NewScanError(CodeTimeout, "scan timed out"), CodeTimeout},
		{"config error", NewConfigFieldError(CodeConfiguration, "missing value", "scanning.timeout"), CodeConfiguration},
		{"plain error", errors.New("plain"), CodeUnknown},
		{"nil-ish wrapped", fmt.Errorf("wrapped: %w", errors.New("inner")), CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(tt.err))
			assert.True(t, IsCode(tt.err, tt.want))
		})
	}
}
