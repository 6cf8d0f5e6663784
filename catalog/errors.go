// Package catalog implements the in-memory, copy-on-write catalog of
// dataset -> partition -> object state (spec §3, §4.1): the "State" value
// that every Action threads forward. Grounded on the original prototype's
// state.rs (see original_source/), restructured as persistent Go maps with
// structural sharing instead of im::HashMap.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package catalog

import (
	"fmt"

	"github.com/coldlake/coldlake/cmn"
	"github.com/coldlake/coldlake/cmn/cos"
)

// ErrMissingDataset is returned when a DatasetPath has no entry in the catalog.
type ErrMissingDataset struct{ Path cmn.DatasetPath }

func (e *ErrMissingDataset) Error() string   { return fmt.Sprintf("missing dataset %s", e.Path) }
func (e *ErrMissingDataset) Kind() cos.ErrKind { return cos.KindMissingDataset }

// ErrMissingPartition is returned when a PartitionPath has no entry in its dataset.
type ErrMissingPartition struct{ Path cmn.PartitionPath }

func (e *ErrMissingPartition) Error() string   { return fmt.Sprintf("missing partition %s", e.Path) }
func (e *ErrMissingPartition) Kind() cos.ErrKind { return cos.KindMissingPartition }

// ErrMissingObject is returned when an ObjectPath has no entry in its partition.
type ErrMissingObject struct{ Path cmn.ObjectPath }

func (e *ErrMissingObject) Error() string   { return fmt.Sprintf("missing object %s", e.Path) }
func (e *ErrMissingObject) Kind() cos.ErrKind { return cos.KindMissingObject }
