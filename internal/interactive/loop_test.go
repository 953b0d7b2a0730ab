package interactive

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"godge/app"
	"godge/domain/expression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, req app.AnalysisRequest) (*app.AnalysisResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*app.AnalysisResponse)
	return resp, args.Error(1)
}

func saved(path string) *app.AnalysisResponse {
	return &app.AnalysisResponse{Results: &expression.ResultTable{}, SavedTo: path}
}

func TestLoop_QuitsOnYes(t *testing.T) {
	runner := &MockRunner{}
	runner.On("Run", mock.Anything, app.AnalysisRequest{
		FirstPath:  "a.csv",
		SecondPath: "b.csv",
		SaveAs:     "out",
		Options:    app.AnalysisOptions{Method: "holm"},
	}).Return(saved("out.csv"), nil).Once()

	var out bytes.Buffer
	loop := NewLoop(runner, app.AnalysisOptions{}, strings.NewReader("a.csv\nb.csv\nout\nholm\nY\n"), &out)
	require.NoError(t, loop.Run(context.Background()))

	runner.AssertExpectations(t)
	assert.Contains(t, out.String(), promptFirst)
	assert.Contains(t, out.String(), "Saved to out.csv")
	assert.NotContains(t, out.String(), farewell)
}

func TestLoop_RepeatsOnNo(t *testing.T) {
	runner := &MockRunner{}
	runner.On("Run", mock.Anything, mock.Anything).Return(saved("x.csv"), nil).Twice()

	input := "a\nb\nx\n\nno\na\nb\nx\n\nyes\n"
	loop := NewLoop(runner, app.AnalysisOptions{}, strings.NewReader(input), &bytes.Buffer{})
	require.NoError(t, loop.Run(context.Background()))

	runner.AssertNumberOfCalls(t, "Run", 2)
	req := runner.Calls[0].Arguments.Get(1).(app.AnalysisRequest)
	assert.Empty(t, req.Options.Method)
}

func TestLoop_UnknownAnswerSaysGoodbye(t *testing.T) {
	runner := &MockRunner{}
	runner.On("Run", mock.Anything, mock.Anything).Return(saved("x.csv"), nil).Once()

	var out bytes.Buffer
	loop := NewLoop(runner, app.AnalysisOptions{}, strings.NewReader("a\nb\nx\n\nmaybe\n"), &out)
	require.NoError(t, loop.Run(context.Background()))

	assert.True(t, strings.HasSuffix(out.String(), farewell+"\n"))
}

func TestLoop_ReportsErrorsAndContinues(t *testing.T) {
	runner := &MockRunner{}
	runner.On("Run", mock.Anything, mock.Anything).Return(nil, errors.New("file not found")).Once()
	runner.On("Run", mock.Anything, mock.Anything).Return(saved("x.csv"), nil).Once()

	var out bytes.Buffer
	input := "a\nb\nx\n\nn\na\nb\nx\n\ny\n"
	loop := NewLoop(runner, app.AnalysisOptions{}, strings.NewReader(input), &out)
	require.NoError(t, loop.Run(context.Background()))

	assert.Contains(t, out.String(), "Error: file not found")
	assert.Contains(t, out.String(), "Saved to x.csv")
}

func TestLoop_EndOfInput(t *testing.T) {
	runner := &MockRunner{}
	loop := NewLoop(runner, app.AnalysisOptions{}, strings.NewReader("a\nb\n"), &bytes.Buffer{})
	require.NoError(t, loop.Run(context.Background()))
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestLoop_KeepsDefaults(t *testing.T) {
	seed := int64(9)
	runner := &MockRunner{}
	runner.On("Run", mock.Anything, mock.Anything).Return(saved("x.csv"), nil).Once()

	defaults := app.AnalysisOptions{Seed: &seed, Align: expression.AlignIntersect}
	loop := NewLoop(runner, defaults, strings.NewReader("a\nb\nx\nbh\ny\n"), &bytes.Buffer{})
	require.NoError(t, loop.Run(context.Background()))

	req := runner.Calls[0].Arguments.Get(1).(app.AnalysisRequest)
	assert.Equal(t, "bh", req.Options.Method)
	assert.Equal(t, &seed, req.Options.Seed)
	assert.Equal(t, expression.AlignIntersect, req.Options.Align)
}
