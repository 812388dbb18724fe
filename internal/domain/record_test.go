package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Step
	}{
		{
			name: "current key",
			data: `{"description":"Open login page","state":"finished"}`,
			want: Step{Description: "Open login page", State: StepFinished},
		},
		{
			name: "legacy key",
			data: `{"descrpition":"Open login page","state":"started"}`,
			want: Step{Description: "Open login page", State: StepStarted},
		},
		{
			name: "current key wins",
			data: `{"descrpition":"old","description":"new","state":"finished"}`,
			want: Step{Description: "new", State: StepFinished},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Step
			require.NoError(t, json.Unmarshal([]byte(tt.data), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStep_MarshalUsesCurrentKey(t *testing.T) {
	data, err := json.Marshal(Step{Description: "Add to cart", State: StepStarted})
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":"Add to cart","state":"started"}`, string(data))
}

func TestParseRecord_LegacySteps(t *testing.T) {
	rec, err := ParseRecord(`{"test_id":"t1","steps":{"2":{"descrpition":"Click on product image","state":"finished"}},"status":"PASS"}`)
	require.NoError(t, err)
	assert.Equal(t, "Click on product image", rec.Steps[2].Description)
	assert.True(t, rec.Status.IsPass())
}
