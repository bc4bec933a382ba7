package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	require.Equal(t, logrus.DebugLevel, New("debug", "text").GetLevel())
	require.Equal(t, logrus.InfoLevel, New("nonsense", "text").GetLevel())
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("info", "json", &buf)

	l.WithField("job_id", 7).Info("Job completed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "Job completed", entry["msg"])
	require.EqualValues(t, 7, entry["job_id"])
}
