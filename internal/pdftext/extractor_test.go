package pdftext

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	stdout []byte
	stderr []byte
	err    error

	name string
	args []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.name = name
	f.args = args
	return f.stdout, f.stderr, f.err
}

func TestExtractTextEmptyInput(t *testing.T) {
	e := NewExtractor(Config{}, nil)

	_, err := e.ExtractText(context.Background(), nil)
	assert.EqualError(t, err, "empty input")
}

func TestExtractTextRejectsGarbage(t *testing.T) {
	runner := &fakeRunner{}
	e := NewExtractor(Config{}, nil).WithRunner(runner)

	_, err := e.ExtractText(context.Background(), []byte("this is not a pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid PDF")
	assert.Empty(t, runner.name, "pdftotext must not run on invalid input")
}

func TestPdfToTextArguments(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("INVOICE\nAcme GmbH\n")}
	e := NewExtractor(Config{Pdftotext: "/usr/bin/pdftotext"}, nil).WithRunner(runner)

	text, err := e.pdfToText(context.Background(), "/tmp/in.pdf")
	require.NoError(t, err)
	assert.Equal(t, "INVOICE\nAcme GmbH\n", text)
	assert.Equal(t, "/usr/bin/pdftotext", runner.name)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix", "/tmp/in.pdf", "-"}, runner.args)
}

func TestPdfToTextPageLimit(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("page one")}
	e := NewExtractor(Config{MaxPages: 3}, nil).WithRunner(runner)

	_, err := e.pdfToText(context.Background(), "/tmp/in.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix", "-l", "3", "/tmp/in.pdf", "-"}, runner.args)
}

func TestPdfToTextFailure(t *testing.T) {
	runner := &fakeRunner{stderr: []byte("Syntax Error: Couldn't read xref table"), err: errors.New("exit status 1")}
	e := NewExtractor(Config{}, nil).WithRunner(runner)

	_, err := e.pdfToText(context.Background(), "/tmp/in.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext")
	assert.Contains(t, err.Error(), "Couldn't read xref table")
}
