package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/amp-labs/chanactor/actor"
	"github.com/amp-labs/chanactor/channel"
	"github.com/amp-labs/chanactor/logger"
	"github.com/amp-labs/chanactor/substrate/gochan"
	"github.com/manifoldco/promptui"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScript(t *testing.T) {
	t.Parallel()

	f, err := os.Open("testdata/hello.yaml")
	require.NoError(t, err)

	defer f.Close() //nolint:errcheck

	script, err := LoadScript(f)
	require.NoError(t, err)
	assert.Equal(t, DefaultScript(), script)
}

func TestLoadScriptRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := LoadScript(strings.NewReader("steps: []\n"))
	require.ErrorIs(t, err, ErrEmptyScript)

	_, err = LoadScript(strings.NewReader("steps:\n  - op: reset\n"))
	require.ErrorIs(t, err, ErrUnknownOp)

	_, err = LoadScript(strings.NewReader("steps:\n  - op: get\n    expected: x\n"))
	require.Error(t, err)
}

func TestScriptsOnEverySubstrate(t *testing.T) {
	t.Parallel()

	for name, b := range bindings {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := logger.WithLogger(t.Context(), slogt.New(t))

			var out bytes.Buffer

			require.NoError(t, b.script(ctx, DefaultScript(), "ignored", &out))

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			require.Len(t, lines, 5)
			assert.Equal(t, `get -> "Hello"`, lines[0])
			assert.Equal(t, `update("World") -> "World"`, lines[1])
			assert.Equal(t, `terminate -> "World"`, lines[3])
			assert.True(t, strings.HasPrefix(lines[4], "get -> error: "), lines[4])
		})
	}
}

func TestScriptWithoutTerminate(t *testing.T) {
	t.Parallel()

	f, err := os.Open("testdata/counter.yaml")
	require.NoError(t, err)

	defer f.Close() //nolint:errcheck

	script, err := LoadScript(f)
	require.NoError(t, err)

	var out bytes.Buffer

	require.NoError(t, bindings[gochan.Name].script(t.Context(), script, "0", &out))
	assert.Contains(t, out.String(), `get -> "2"`)
}

func TestScriptExpectationFailure(t *testing.T) {
	t.Parallel()

	script := Script{Steps: []Step{
		{Op: OpUpdate, Value: "a"},
		{Op: OpGet, Expect: expect("b")},
		{Op: OpUpdate, Value: "never"},
	}}

	var out bytes.Buffer

	err := bindings[gochan.Name].script(t.Context(), script, "", &out)
	require.ErrorIs(t, err, ErrExpectation)
	assert.Contains(t, err.Error(), "step 2")
	assert.NotContains(t, out.String(), "never")
}

func TestCheck(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom") //nolint:err113

	require.NoError(t, check(Step{Op: OpGet}, "x", nil))
	require.NoError(t, check(Step{Op: OpGet, ExpectError: true}, "", channel.SendError("gone")))
	require.ErrorIs(t, check(Step{Op: OpGet, ExpectError: true}, "x", nil), ErrExpectation)
	require.ErrorIs(t, check(Step{Op: OpGet, ExpectError: true}, "", boom), ErrExpectation)
	require.ErrorIs(t, check(Step{Op: OpGet}, "", boom), boom)
	require.ErrorIs(t, check(Step{Op: OpGet, Expect: expect("y")}, "x", nil), ErrExpectation)
}

type scriptedPrompter struct {
	answers []string
}

func (s *scriptedPrompter) next() (string, error) {
	if len(s.answers) == 0 {
		return "", promptui.ErrEOF
	}

	answer := s.answers[0]
	s.answers = s.answers[1:]

	return answer, nil
}

func (s *scriptedPrompter) Select(string, ...string) (string, error) {
	return s.next()
}

func (s *scriptedPrompter) PromptStringEmptyOk(string) (string, error) {
	return s.next()
}

func TestConsole(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	prompts := &scriptedPrompter{answers: []string{"get", "update", "World", "terminate", "get"}}

	err := runConsole[gochan.Family[actor.Request], gochan.Family[actor.CommandResult]](
		t.Context(), "Hello", prompts, &out)
	require.NoError(t, err)

	assert.Equal(t, "get -> \"Hello\"\nupdate(\"World\") -> \"World\"\nterminate -> \"World\"\n", out.String())
	assert.Equal(t, []string{"get"}, prompts.answers, "console stops after terminate")
}

func TestConsoleQuitAndEOF(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := runConsole[gochan.Family[actor.Request], gochan.Family[actor.CommandResult]](
		t.Context(), "Hello", &scriptedPrompter{answers: []string{"quit"}}, &out)
	require.NoError(t, err)

	err = runConsole[gochan.Family[actor.Request], gochan.Family[actor.CommandResult]](
		t.Context(), "Hello", &scriptedPrompter{}, &out)
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestParseFlags(t *testing.T) {
	t.Parallel()

	opts, err := parseFlags([]string{"-substrate", "ants", "-initial", "x", "-env", "test"})
	require.NoError(t, err)
	assert.Equal(t, options{substrate: "ants", initial: "x", environment: "test"}, opts)

	_, err = parseFlags([]string{"-substrate", "threads"})
	require.ErrorIs(t, err, ErrUnknownSubstrate)
}
