package webhook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsSyntheticReplyToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"eight zeros", "00000000", true},
		{"long zero prefix", "000000000000000000000000abcdef", true},
		{"eight f lowercase", "ffffffff", true},
		{"eight f uppercase", "FFFFFFFF", true},
		{"mixed case f prefix", "fFfFfFfF1234", true},
		{"contains test", "abc-test-def", true},
		{"contains TEST", "abcTESTdef", true},
		{"seven zeros only", "0000000a", false},
		{"seven f only", "fffffffa", false},
		{"zeros not leading", "a00000000", false},
		{"real looking token", "b1c2d3e4f5a6978802468ace", false},
		{"empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsSyntheticReplyToken(tc.token))
		})
	}
}
