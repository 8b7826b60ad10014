package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bazaar/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Password",
			input:  []byte(`{"hello":"world","password":"abc123"}`),
			output: []byte(`{"hello":"world","password":"[MASKED]"}`),
		},
		{
			name:   "Password capital letter",
			input:  []byte(`{"hello":"world","Password":"abc123"}`),
			output: []byte(`{"hello":"world","Password":"[MASKED]"}`),
		},
		{
			name:   "Bot token in path",
			input:  []byte(`POST /bot123456:AAH-secret_value/sendMessage HTTP/1.1`),
			output: []byte(`POST /bot123456:[MASKED]/sendMessage HTTP/1.1`),
		},
		{
			name:   "Token and dsn",
			input:  []byte(`{"token": "xyz", "dsn": "postgres://u:p@db/bazaar", "action": "scan"}`),
			output: []byte(`{"token": "[MASKED]", "dsn": "[MASKED]", "action": "scan"}`),
		},
		{
			name:   "Game payload untouched",
			input:  []byte(`{"action":"deal"}`),
			output: []byte(`{"action":"deal"}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}
