package catalog

import (
	"fmt"

	"github.com/coldlake/coldlake/cmn"
)

// ValidateSingleFormat reports an error naming the first partition where
// more than one Format is present. Promoted from the prototype's abandoned
// SingleFormatValidator sketch (validator.rs) into a real, tested check —
// see SPEC_FULL.md §D.
func ValidateSingleFormat(ds DatasetState) error {
	for _, p := range ds.ListPartitions() {
		part, _ := ds.Get(p)
		var seen cmn.Format
		first := true
		for _, key := range part.ListKeys() {
			obj, _ := part.Get(key)
			if first {
				seen = obj.Format
				first = false
				continue
			}
			if obj.Format != seen {
				return fmt.Errorf("partition %s mixes formats %s and %s", p, seen, obj.Format)
			}
		}
	}
	return nil
}

// ValidateNoEmptyPartitions reports an error naming the first partition
// with zero objects. Promoted from the prototype's abandoned
// NoEmptyPartitionsValidator sketch (validator.rs) — see SPEC_FULL.md §D.
func ValidateNoEmptyPartitions(ds DatasetState) error {
	for _, p := range ds.ListPartitions() {
		part, _ := ds.Get(p)
		if part.Len() == 0 {
			return fmt.Errorf("partition %s is empty", p)
		}
	}
	return nil
}
