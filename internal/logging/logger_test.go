package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"benritz/bonds/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		logger, err := logging.New("debug", "json")
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

		var buf bytes.Buffer
		logger.SetOutput(&buf)
		logger.WithField("isin", "GB0001").Info("priced")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "GB0001", entry["isin"])
		assert.Equal(t, "priced", entry["msg"])
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := logging.New("loud", "text")
		require.Error(t, err)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := logging.New("info", "xml")
		require.Error(t, err)
	})
}
