package storage

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUploadKey(t *testing.T) {
	key := UploadKey("products", "Brass Trophy (final).png")
	parts := strings.SplitN(key, "/", 2)
	assert.Equal(t, "products", parts[0])
	dash := strings.IndexByte(parts[1], '-')
	assert.Greater(t, dash, 0)
	ms, err := strconv.ParseInt(parts[1][:dash], 10, 64)
	assert.NoError(t, err)
	assert.InDelta(t, time.Now().UnixMilli(), ms, float64(time.Minute.Milliseconds()))
	assert.NotContains(t, parts[1][dash+1:], " ")
	assert.NotContains(t, parts[1][dash+1:], "/")
}

func TestUploadKeysDiffer(t *testing.T) {
	a := UploadKey("products", "a.png")
	time.Sleep(2 * time.Millisecond)
	b := UploadKey("products", "a.png")
	assert.NotEqual(t, a, b)
}
