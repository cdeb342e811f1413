package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", "json", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("number", "JV-2024-001").Info("voucher saved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "voucher saved", entry["msg"])
	assert.Equal(t, "JV-2024-001", entry["number"])
}

func TestNew_Defaults(t *testing.T) {
	logger, err := New("", "", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("loud", "text", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestLogError(t *testing.T) {
	logger, hook := test.NewNullLogger()

	LogError(logger, "api", "createVoucher", "saving voucher", map[string]string{"id": "x"}, errors.New("boom"))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "boom", entry.Message)
	assert.Equal(t, "api", entry.Data["module"])
	assert.Equal(t, "createVoucher", entry.Data["funcName"])
	assert.Contains(t, entry.Data, "data")

	LogError(logger, "api", "createVoucher", "saving voucher", nil, errors.New("boom"))
	assert.NotContains(t, hook.LastEntry().Data, "data")
}
