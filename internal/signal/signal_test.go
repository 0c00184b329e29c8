package signal

import (
	"testing"

	"gabigame_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    Signal
		ignored bool
		wantErr bool
	}{
		{
			name: "start",
			body: "status=1&userid=5&gameid=3&world=1&level=2",
			want: Signal{Status: StatusStart, UserID: 5, GameID: 3, World: 1, Level: 2},
		},
		{
			name: "start with trailing newline",
			body: "status=1&userid=5&gameid=3&world=4&level=1\n",
			want: Signal{Status: StatusStart, UserID: 5, GameID: 3, World: 4, Level: 1},
		},
		{
			name: "start ignores extra tail",
			body: "status=1&userid=5&gameid=3&world=1&level=2&moves=1&failedattempts=0",
			want: Signal{Status: StatusStart, UserID: 5, GameID: 3, World: 1, Level: 2},
		},
		{
			name: "finish",
			body: "status=2&userid=5&gameid=3&world=2&level=4&moves=37&failedattempts=2",
			want: Signal{Status: StatusFinish, UserID: 5, GameID: 3, World: 2, Level: 4, Moves: 37, FailedAttempts: 2},
		},
		{
			name:    "unknown status ignored",
			body:    "status=7&userid=5&gameid=3&world=1&level=2",
			want:    Signal{Status: 7, UserID: 5, GameID: 3, World: 1, Level: 2},
			ignored: true,
		},
		{name: "empty", body: "", wantErr: true},
		{name: "too few fields", body: "status=1&userid=5&gameid=3", wantErr: true},
		{name: "wrong order", body: "userid=5&status=1&gameid=3&world=1&level=2", wantErr: true},
		{name: "missing equals", body: "status=1&userid&gameid=3&world=1&level=2", wantErr: true},
		{name: "not a number", body: "status=1&userid=x&gameid=3&world=1&level=2", wantErr: true},
		{name: "negative id", body: "status=1&userid=-5&gameid=3&world=1&level=2", wantErr: true},
		{name: "finish without tail", body: "status=2&userid=5&gameid=3&world=1&level=2", wantErr: true},
		{name: "finish with partial tail", body: "status=2&userid=5&gameid=3&world=1&level=2&moves=3", wantErr: true},
		{name: "finish with extra tail", body: "status=2&userid=5&gameid=3&world=1&level=2&moves=3&failedattempts=1&x=1", wantErr: true},
		{name: "finish tail out of order", body: "status=2&userid=5&gameid=3&world=1&level=2&failedattempts=1&moves=3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.body)
			if tt.wantErr {
				require.ErrorIs(t, err, util.ErrBadSignal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ignored, got.Ignored())
		})
	}
}
