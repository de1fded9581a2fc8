package labels

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/treasuretrove/ledger/pkg/config"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

type recordingSpooler struct {
	mu   sync.Mutex
	jobs [][]byte
	err  error
}

func (s *recordingSpooler) Print(_ context.Context, job []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	return s.err
}

func (s *recordingSpooler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func sampleLabel() models.Label {
	return models.Label{
		Header: &models.LabelLine{Y: 10, Text: "Spring 1"},
		Lines: []models.LabelLine{
			{Y: 32, Text: "3 x boxes of nails"},
			{Y: 54, Text: `1 x 6" "clamp"`},
		},
	}
}

func TestRenderEPL(t *testing.T) {
	want := "\nN\nq812\n" +
		"A20,10,0,4,1,1,N,\"Spring 1\"\n" +
		"A20,32,0,3,1,1,N,\"3 x boxes of nails\"\n" +
		"A20,54,0,3,1,1,N,\"1 x 6\\\" \\\"clamp\\\"\"\n" +
		"P1\n"
	assert.Equal(t, want, string(RenderEPL(sampleLabel())))

	t.Run("no header", func(t *testing.T) {
		got := string(RenderEPL(models.Label{Lines: []models.LabelLine{{Y: 10, Text: `1 x a\b`}}}))
		assert.Equal(t, "\nN\nq812\nA20,10,0,3,1,1,N,\"1 x a\\\\b\"\nP1\n", got)
	})
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("spooler tests use POSIX utilities")
	}
}

func TestCommandSpooler(t *testing.T) {
	skipWithoutShell(t)
	ctx := context.Background()

	t.Run("pipes job to stdin", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "job.epl")
		s, err := NewCommandSpooler("tee '"+out+"'", time.Second)
		require.NoError(t, err)

		require.NoError(t, s.Print(ctx, []byte("N\nP1\n")))
		got, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "N\nP1\n", string(got))
	})

	t.Run("failing command", func(t *testing.T) {
		s, err := NewCommandSpooler(`sh -c "echo printer offline >&2; exit 3"`, time.Second)
		require.NoError(t, err)

		err = s.Print(ctx, []byte("N\n"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrLabelTransmission))
		assert.Contains(t, err.Error(), "printer offline")
	})

	t.Run("timeout", func(t *testing.T) {
		s, err := NewCommandSpooler("sleep 5", 50*time.Millisecond)
		require.NoError(t, err)

		start := time.Now()
		err = s.Print(ctx, nil)
		assert.True(t, errors.Is(err, domain.ErrLabelTransmission))
		assert.Less(t, time.Since(start), 4*time.Second)
	})

	t.Run("invalid command", func(t *testing.T) {
		_, err := NewCommandSpooler(`lp "unterminated`, time.Second)
		assert.Error(t, err)
		_, err = NewCommandSpooler("   ", time.Second)
		assert.Error(t, err)
	})
}

func TestNewSpooler_BlankDiscards(t *testing.T) {
	s, err := NewSpooler(" ", time.Second)
	require.NoError(t, err)
	assert.IsType(t, DiscardSpooler{}, s)
	assert.NoError(t, s.Print(context.Background(), []byte("N\n")))
}

func TestSpoolerDispatcher(t *testing.T) {
	ctx := context.Background()
	spool := &recordingSpooler{}
	d := NewSpoolerDispatcher(spool, logger.Discard())

	require.NoError(t, d.Dispatch(ctx, "sub-1", sampleLabel()))
	require.Equal(t, 1, spool.count())
	assert.Equal(t, RenderEPL(sampleLabel()), spool.jobs[0])

	t.Run("empty label is skipped", func(t *testing.T) {
		require.NoError(t, d.Dispatch(ctx, "sub-2", models.Label{Lines: []models.LabelLine{}}))
		assert.Equal(t, 1, spool.count())
	})

	t.Run("spooler error is returned", func(t *testing.T) {
		failing := &recordingSpooler{err: errors.New("jammed")}
		err := NewSpoolerDispatcher(failing, logger.Discard()).Dispatch(ctx, "sub-3", sampleLabel())
		assert.EqualError(t, err, "jammed")
	})
}

func TestTemporalDispatcher(t *testing.T) {
	label := sampleLabel()
	c := &mocks.Client{}
	c.On("ExecuteWorkflow",
		mock.Anything,
		mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
			return o.ID == "print-label-sub-1" && o.TaskQueue == "label-printing"
		}),
		PrintLabelWorkflowName,
		label,
	).Return(&mocks.WorkflowRun{}, nil).Once()

	d := NewTemporalDispatcher(c, "label-printing", logger.Discard())
	require.NoError(t, d.Dispatch(context.Background(), "sub-1", label))
	c.AssertExpectations(t)

	t.Run("start failure", func(t *testing.T) {
		c := &mocks.Client{}
		c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("unavailable"))
		err := NewTemporalDispatcher(c, "q", logger.Discard()).Dispatch(context.Background(), "x", label)
		assert.True(t, errors.Is(err, domain.ErrLabelTransmission))
	})
}

func TestNewDispatcher(t *testing.T) {
	t.Run("printing disabled", func(t *testing.T) {
		d, err := NewDispatcher(&config.Config{}, nil, logger.Discard())
		require.NoError(t, err)
		assert.IsType(t, NopDispatcher{}, d)
	})

	t.Run("local command", func(t *testing.T) {
		d, err := NewDispatcher(&config.Config{LabelPrinterCommand: "lp -o raw"}, nil, logger.Discard())
		require.NoError(t, err)
		assert.IsType(t, &SpoolerDispatcher{}, d)
	})
}

func newWorkflowEnv(t *testing.T, spool Spooler) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(PrintLabelWorkflow, workflow.RegisterOptions{Name: PrintLabelWorkflowName})
	acts := &Activities{Spooler: spool}
	env.RegisterActivityWithOptions(acts.PrintLabel, activity.RegisterOptions{Name: PrintLabelActivityName})
	return env
}

func TestPrintLabelWorkflow(t *testing.T) {
	t.Run("prints once", func(t *testing.T) {
		spool := &recordingSpooler{}
		env := newWorkflowEnv(t, spool)

		env.ExecuteWorkflow(PrintLabelWorkflowName, sampleLabel())

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())
		require.Equal(t, 1, spool.count())
		assert.Equal(t, RenderEPL(sampleLabel()), spool.jobs[0])
	})

	t.Run("gives up after bounded retries", func(t *testing.T) {
		spool := &recordingSpooler{err: errors.New("offline")}
		env := newWorkflowEnv(t, spool)

		env.ExecuteWorkflow(PrintLabelWorkflowName, sampleLabel())

		require.True(t, env.IsWorkflowCompleted())
		assert.Error(t, env.GetWorkflowError())
		assert.Equal(t, 3, spool.count())
	})
}
