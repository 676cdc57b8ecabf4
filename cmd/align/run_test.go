package main

import (
	"bytes"
	"encoding/json/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/listenup-narration/internal/alignment"
)

const engineJob = `{
  "sentences": [
    {"id": "s2", "text": "Good morning.", "order": 1},
    {"id": "s1", "text": "Hello world.", "order": 0}
  ],
  "words": [
    {"text": "Hello", "startSec": 0.0, "endSec": 0.5, "confidence": 0.98},
    {"text": "world.", "startSec": 0.5, "endSec": 1.0, "confidence": 0.95},
    {"text": "Good", "startSec": 1.2, "endSec": 1.6, "confidence": 0.97},
    {"text": "morning.", "startSec": 1.6, "endSec": 2.0, "confidence": 0.93}
  ]
}`

const whisperWordsJob = `{
  "sentences": [{"id": "s1", "text": "Hello world.", "order": 0}],
  "words": [
    {"word": " Hello", "start": 0.0, "end": 0.5, "probability": 0.9},
    {"word": " world.", "start": 0.5, "end": 1.0, "probability": 0.8}
  ]
}`

const whisperTranscriptJob = `{
  "sentences": [{"id": "s1", "text": "Hello world.", "order": 0}],
  "transcript": {
    "text": "Hello world.",
    "language": "en",
    "duration": 1.0,
    "segments": [{"id": 0, "text": "Hello world.", "start": 0, "end": 1.0, "words": [
      {"word": " Hello", "start": 0.0, "end": 0.5, "probability": 0.9},
      {"word": " world.", "start": 0.5, "end": 1.0, "probability": 0.8}
    ]}],
    "words": []
  }
}`

type cliOutput struct {
	Result alignment.Result  `json:"result"`
	Report *alignment.Report `json:"report"`
}

func runCLI(t *testing.T, stdin string, args ...string) (int, cliOutput, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)

	var out cliOutput
	if code == 0 {
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &out), stdout.String())
	}
	return code, out, stderr.String()
}

func TestRun_Stdin(t *testing.T) {
	code, out, _ := runCLI(t, engineJob)
	require.Equal(t, 0, code)

	require.Len(t, out.Result.SentenceTimings, 2)
	assert.Equal(t, "s1", out.Result.SentenceTimings[0].SentenceID)
	assert.Equal(t, int64(1200), out.Result.SentenceTimings[1].StartMs)
	assert.Nil(t, out.Result.SentenceTimings[0].Words)
	assert.Nil(t, out.Report)
}

func TestRun_WordsAndValidate(t *testing.T) {
	code, out, _ := runCLI(t, engineJob, "-words", "-validate")
	require.Equal(t, 0, code)

	require.NotNil(t, out.Report)
	assert.True(t, out.Report.IsValid)
	assert.Len(t, out.Result.SentenceTimings[0].Words, 2)
}

func TestRun_WhisperShapes(t *testing.T) {
	for name, input := range map[string]string{
		"words":      whisperWordsJob,
		"transcript": whisperTranscriptJob,
	} {
		t.Run(name, func(t *testing.T) {
			code, out, _ := runCLI(t, input, "-words")
			require.Equal(t, 0, code)

			require.Len(t, out.Result.SentenceTimings, 1)
			timing := out.Result.SentenceTimings[0]
			assert.Equal(t, int64(0), timing.StartMs)
			assert.Equal(t, int64(1000), timing.EndMs)
			assert.InDelta(t, 1.0, timing.Confidence, 1e-9)
			require.Len(t, timing.Words, 2)
			assert.Equal(t, "Hello", timing.Words[0].Word)
			assert.InDelta(t, 0.9, timing.Words[0].Confidence, 1e-9)
		})
	}
}

func TestRun_InvalidAlignmentExitsZero(t *testing.T) {
	job := `{"sentences": [{"id": "s1", "text": "Nothing matches here.", "order": 0}],
	         "words": [{"text": "qqqq", "startSec": 0, "endSec": 1}]}`

	code, out, _ := runCLI(t, job, "-validate")
	require.Equal(t, 0, code)
	require.NotNil(t, out.Report)
	assert.False(t, out.Report.IsValid)
}

func TestRun_InputFileAndPretty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.json")
	require.NoError(t, os.WriteFile(path, []byte(engineJob), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-input", path, "-pretty"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "\n  \"result\"")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"malformed json", `{"sentences": [`, nil},
		{"missing file", "", []string{"-input", filepath.Join(os.TempDir(), "does-not-exist-align.json")}},
		{"duplicate sentence IDs", `{"sentences": [{"id": "a"}, {"id": "a"}], "words": []}`, nil},
		{"unknown flag", "", []string{"-bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tt.stdin, tt.args...)
			assert.Equal(t, 1, code)
		})
	}
}
