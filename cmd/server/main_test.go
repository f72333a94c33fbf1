package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealMainReturnsExitCodeOnBadConfig(t *testing.T) {
	t.Setenv("REPORT_TIMEZONE", "Nowhere/Invalid")
	assert.Equal(t, 1, realMain())
}

func TestRealMainReturnsExitCodeOnBadLogLevel(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/fms")
	t.Setenv("ARCHIVE_BACKEND", "local")
	t.Setenv("INFLUXDB2_URL", "")
	t.Setenv("REPORT_TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "loudest")
	assert.Equal(t, 1, realMain())
}
