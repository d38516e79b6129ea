package httpclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"H-1","b":99812,"c":null}`), &v))

	assert.Equal(t, FlexString("H-1"), v.A)
	assert.Equal(t, FlexString("99812"), v.B)
	assert.Equal(t, FlexString(""), v.C)
}

func TestFlexFloat(t *testing.T) {
	var v struct {
		Num     FlexFloat `json:"num"`
		Str     FlexFloat `json:"str"`
		Null    FlexFloat `json:"null"`
		Garbage FlexFloat `json:"garbage"`
		Missing FlexFloat `json:"missing"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"num":8.4,"str":"1299.5","null":null,"garbage":"n/a"}`), &v))

	require.NotNil(t, v.Num.Ptr())
	assert.Equal(t, 8.4, *v.Num.Ptr())
	assert.Equal(t, 1299.5, v.Str.Value)
	assert.Nil(t, v.Null.Ptr())
	assert.Nil(t, v.Garbage.Ptr())
	assert.Nil(t, v.Missing.Ptr())
}
