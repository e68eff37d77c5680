package data

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2016, time.November, 10)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2016-11-10"`, string(out))

	var parsed Date
	err = json.Unmarshal([]byte(`"1895-12-28"`), &parsed)
	require.NoError(t, err)
	assert.Equal(t, NewDate(1895, time.December, 28), parsed)
}

func TestDateJSONInvalid(t *testing.T) {
	var d Date

	// 非字符串
	err := json.Unmarshal([]byte(`20161110`), &d)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	// 格式不对的字符串
	err = json.Unmarshal([]byte(`"10.11.2016"`), &d)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}
