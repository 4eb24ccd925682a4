package values

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSuspicionScore(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{
			name:    "valid mid-range score",
			value:   52.5,
			wantErr: false,
		},
		{
			name:    "zero score",
			value:   0,
			wantErr: false,
		},
		{
			name:    "maximum score",
			value:   100,
			wantErr: false,
		},
		{
			name:    "negative score",
			value:   -0.1,
			wantErr: true,
		},
		{
			name:    "score above cap",
			value:   100.5,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := NewSuspicionScore(tt.value)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.value, score.Value())
		})
	}
}

func TestSuspicionScore_Band(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  RiskBand
	}{
		{"zero is low", 0, RiskBandLow},
		{"just below medium", 39.9, RiskBandLow},
		{"medium lower bound", 40, RiskBandMedium},
		{"just below high", 69.9, RiskBandMedium},
		{"high lower bound", 70, RiskBandHigh},
		{"maximum is high", 100, RiskBandHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MustNewSuspicionScore(tt.value).Band())
		})
	}
}

func TestSuspicionScore_JSON(t *testing.T) {
	score := MustNewSuspicionScore(31.2)

	data, err := json.Marshal(score)
	require.NoError(t, err)
	assert.Equal(t, "31.2", string(data))

	var decoded SuspicionScore
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, score, decoded)

	var invalid SuspicionScore
	assert.Error(t, json.Unmarshal([]byte("170"), &invalid))
}
