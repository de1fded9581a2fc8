package labels

import (
	"context"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// Registered names, shared by the starter and the worker.
const (
	PrintLabelWorkflowName = "PrintLabel"
	PrintLabelActivityName = "PrintLabelActivity"
)

// PrintLabelWorkflow prints one label. The printer is retried a bounded
// number of times; a label that still fails is given up on.
func PrintLabelWorkflow(ctx workflow.Context, label models.Label) error {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})
	return workflow.ExecuteActivity(ctx, PrintLabelActivityName, label).Get(ctx, nil)
}

// Activities holds the side-effecting half of label printing.
type Activities struct {
	Spooler Spooler
}

// PrintLabel renders and spools the label.
func (a *Activities) PrintLabel(ctx context.Context, label models.Label) error {
	return a.Spooler.Print(ctx, RenderEPL(label))
}

// Register adds the label workflow and activity to r under their shared names.
func Register(r worker.Registry, spooler Spooler) {
	r.RegisterWorkflowWithOptions(PrintLabelWorkflow, workflow.RegisterOptions{Name: PrintLabelWorkflowName})
	acts := &Activities{Spooler: spooler}
	r.RegisterActivityWithOptions(acts.PrintLabel, activity.RegisterOptions{Name: PrintLabelActivityName})
}
