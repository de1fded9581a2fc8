package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/treasuretrove/ledger/services/inventory/domain"
	"github.com/treasuretrove/ledger/services/inventory/domain/models"
	"github.com/treasuretrove/ledger/services/inventory/domain/repositories"
)

// ResolveContainer picks the single container for a submission, first match wins:
//  1. a non-blank newName is ensured (created if absent) and returned, even
//     when selectedID is also set;
//  2. selectedID is looked up; an unknown id returns ErrContainerNotFound;
//  3. otherwise nil: the items are loose.
//
// Must run inside the transaction that inserts the items, so a container
// created here disappears if the insert fails.
func ResolveContainer(ctx context.Context, tx repositories.InventoryTx, newName *string, selectedID *uuid.UUID) (*models.Container, error) {
	if name := NormalizeOptional(newName); name != nil {
		cn, err := models.NewContainerName(*name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidContainerName, err)
		}
		c, _, err := tx.EnsureContainer(ctx, cn)
		if err != nil {
			return nil, fmt.Errorf("ensure container %q: %w", cn, err)
		}
		return c, nil
	}

	if selectedID != nil {
		c, err := tx.ContainerByID(ctx, *selectedID)
		if err != nil {
			return nil, fmt.Errorf("look up container %s: %w", selectedID, err)
		}
		return c, nil
	}

	return nil, nil //nolint:nilnil
}
