package conv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestByteCountDecimal(t *testing.T) {
	assert.Equal(t, "0 b", ByteCountDecimal(0))
	assert.Equal(t, "999 b", ByteCountDecimal(999))
	assert.Equal(t, "1.0kb", ByteCountDecimal(1000))
	assert.Equal(t, "1.5Mb", ByteCountDecimal(1500*1000))
}

func TestStringOf(t *testing.T) {
	f := 12.345
	var nilf *float64
	assert.Equal(t, "12.35", StringOf(f))
	assert.Equal(t, "12.35", StringOf(&f))
	assert.Equal(t, "-", StringOf(nilf))
	assert.Equal(t, "42", StringOf(uint32(42)))
	assert.Equal(t, "1.5s", StringOf(1500*time.Millisecond))
	assert.Equal(t, "a,b", StringOf([]string{"a", "b"}))
}
