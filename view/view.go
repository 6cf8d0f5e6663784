// Package view renders catalog state as operator-facing text (spec §6,
// "rendered text views" — external collaborator, specified only at
// interface). Grounded directly on the prototype's view.rs ListPartitions
// and ListObjects views.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package view

import (
	"fmt"
	"strings"

	"github.com/coldlake/coldlake/catalog"
	"github.com/coldlake/coldlake/cmn"
)

// View renders some slice of a catalog.State as text.
type View interface {
	Render(state catalog.State) (string, error)
}

// ListPartitions renders every partition under a dataset, its object
// count and size, and optionally every object within it.
type ListPartitions struct {
	Path        cmn.DatasetPath
	WithObjects bool
}

func (v *ListPartitions) Render(state catalog.State) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "List Partitions for %q:", v.Path)

	partitions, err := state.ListPartitions(v.Path)
	if err != nil {
		return "", err
	}

	for _, partition := range partitions {
		objects, err := state.ListObjects(partition)
		if err != nil {
			return "", err
		}
		part, err := state.GetPartition(partition)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\n  - %s (objects: %d, size: %s)", partition.Partition, len(objects), part.Size())

		if !v.WithObjects {
			continue
		}
		for _, objectPath := range objects {
			obj, err := state.GetObject(objectPath)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "\n    - %s: %s", objectPath.Key, obj)
		}
	}

	return b.String(), nil
}

// ListObjects renders every object under a partition.
type ListObjects struct {
	Path cmn.PartitionPath
}

func (v *ListObjects) Render(state catalog.State) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "List Objects for %q:", v.Path)

	objects, err := state.ListObjects(v.Path)
	if err != nil {
		return "", err
	}
	for _, objectPath := range objects {
		obj, err := state.GetObject(objectPath)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\n  - %s: %s", objectPath.Key, obj)
	}

	return b.String(), nil
}
