package labels

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"

	"github.com/treasuretrove/ledger/pkg/config"
	"github.com/treasuretrove/ledger/pkg/logger"
	"github.com/treasuretrove/ledger/pkg/workflows"
	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

// Dispatcher sends a label toward the printer. key identifies the request
// (submission or container id) so a redelivered event maps to the same job.
type Dispatcher interface {
	Dispatch(ctx context.Context, key string, label models.Label) error
}

// SpoolerDispatcher prints synchronously through a Spooler.
type SpoolerDispatcher struct {
	spooler Spooler
	log     logger.Logger
}

func NewSpoolerDispatcher(spooler Spooler, log logger.Logger) *SpoolerDispatcher {
	return &SpoolerDispatcher{spooler: spooler, log: log}
}

func (d *SpoolerDispatcher) Dispatch(ctx context.Context, key string, label models.Label) error {
	if label.Empty() {
		return nil
	}
	if err := d.spooler.Print(ctx, RenderEPL(label)); err != nil {
		return err
	}
	d.log.Info("label printed", "key", key, "lines", len(label.Lines))
	return nil
}

// NopDispatcher drops labels. Used when printing is disabled.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(context.Context, string, models.Label) error { return nil }

// TemporalDispatcher starts PrintLabelWorkflow and returns without waiting.
type TemporalDispatcher struct {
	client    client.Client
	taskQueue string
	log       logger.Logger
}

func NewTemporalDispatcher(c client.Client, taskQueue string, log logger.Logger) *TemporalDispatcher {
	return &TemporalDispatcher{client: c, taskQueue: taskQueue, log: log}
}

func (d *TemporalDispatcher) Dispatch(ctx context.Context, key string, label models.Label) error {
	if label.Empty() {
		return nil
	}
	opts := client.StartWorkflowOptions{
		ID:        "print-label-" + key,
		TaskQueue: d.taskQueue,
	}
	if _, err := d.client.ExecuteWorkflow(ctx, opts, PrintLabelWorkflowName, label); err != nil {
		return fmt.Errorf("%w: start workflow %s: %w", domain.ErrLabelTransmission, opts.ID, err)
	}
	d.log.Info("label workflow started", "workflow_id", opts.ID, "task_queue", d.taskQueue)
	return nil
}

// NewDispatcher picks Temporal when a client is connected, otherwise the
// local printer command, otherwise NopDispatcher.
func NewDispatcher(cfg *config.Config, tc *workflows.TemporalClient, log logger.Logger) (Dispatcher, error) {
	if tc != nil {
		return NewTemporalDispatcher(tc.Client, tc.TaskQueue, log), nil
	}
	if cfg.LabelPrinterCommand == "" {
		log.Info("label printing disabled")
		return NopDispatcher{}, nil
	}
	spooler, err := NewCommandSpooler(cfg.LabelPrinterCommand, cfg.LabelPrintTimeout)
	if err != nil {
		return nil, err
	}
	return NewSpoolerDispatcher(spooler, log), nil
}
