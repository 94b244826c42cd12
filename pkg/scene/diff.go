package scene

// DiffOp classifies one reconciliation step.
type DiffOp uint8

const (
	// OpCreate introduces an element that was absent.
	OpCreate DiffOp = iota
	// OpUpdate retargets a surviving element.
	OpUpdate
	// OpDestroy retires an element no longer desired.
	OpDestroy
)

func (op DiffOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// Patch is a single keyed reconciliation decision.
type Patch struct {
	Op  DiffOp
	UID string
}

// DiffKeys reconciles the current uid set against the desired one by set
// difference. Desired order drives the create/update order; destroys follow
// in current order. The result is independent of any rendering backend.
func DiffKeys(current, desired []string) []Patch {
	have := make(map[string]struct{}, len(current))
	for _, uid := range current {
		have[uid] = struct{}{}
	}
	want := make(map[string]struct{}, len(desired))

	patches := make([]Patch, 0, len(desired))
	for _, uid := range desired {
		if _, dup := want[uid]; dup {
			continue
		}
		want[uid] = struct{}{}
		if _, ok := have[uid]; ok {
			patches = append(patches, Patch{Op: OpUpdate, UID: uid})
		} else {
			patches = append(patches, Patch{Op: OpCreate, UID: uid})
		}
	}
	for _, uid := range current {
		if _, ok := want[uid]; !ok {
			patches = append(patches, Patch{Op: OpDestroy, UID: uid})
		}
	}
	return patches
}
