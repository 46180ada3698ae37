package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateWindow(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, GetCSTTimeLocation())

	start, end := DateWindow(now, 30)
	assert.Equal(t, "20240131", start)
	assert.Equal(t, "20240301", end)

	start, end = DateWindow(now, 0)
	assert.Equal(t, end, start)
}
