package entity

import "testing"

func makeFieldSet(ids ...string) FieldSet {
	s := make(FieldSet, 0, len(ids))
	for i, id := range ids {
		s = append(s, ProcedureField{ID: id, OrderIndex: i})
	}
	return s
}

func assertOrder(t *testing.T, s FieldSet, want ...string) {
	t.Helper()
	if len(s) != len(want) {
		t.Fatalf("len = %d, want %d", len(s), len(want))
	}
	for i, id := range want {
		if s[i].ID != id {
			t.Fatalf("position %d: got %s, want %s (set: %+v)", i, s[i].ID, id, s)
		}
		if s[i].OrderIndex != i {
			t.Fatalf("field %s: order_index = %d, want %d", s[i].ID, s[i].OrderIndex, i)
		}
	}
}

func TestFieldSetNormalize(t *testing.T) {
	s := FieldSet{
		{ID: "a", OrderIndex: 7},
		{ID: "b", OrderIndex: 2},
		{ID: "c", OrderIndex: 99},
	}
	s.Normalize()
	assertOrder(t, s, "a", "b", "c")
}

func TestFieldSetMove(t *testing.T) {
	s := makeFieldSet("a", "b", "c", "d")

	// 前移
	if !s.Move(3, 1) {
		t.Fatalf("move failed")
	}
	assertOrder(t, s, "a", "d", "b", "c")

	// 后移
	if !s.Move(0, 2) {
		t.Fatalf("move failed")
	}
	assertOrder(t, s, "d", "b", "a", "c")

	// 越界不动
	if s.Move(0, 4) || s.Move(-1, 0) {
		t.Fatalf("out-of-range move should return false")
	}
	assertOrder(t, s, "d", "b", "a", "c")
}

func TestFieldSetRemoveInsert(t *testing.T) {
	s := makeFieldSet("a", "b", "c")

	s = s.Remove(1)
	assertOrder(t, s, "a", "c")

	s = s.Insert(1, ProcedureField{ID: "x"})
	assertOrder(t, s, "a", "x", "c")

	// 越界插入收敛到两端
	s = s.Insert(99, ProcedureField{ID: "tail"})
	assertOrder(t, s, "a", "x", "c", "tail")
	s = s.Insert(-5, ProcedureField{ID: "head"})
	assertOrder(t, s, "head", "a", "x", "c", "tail")

	// 越界删除不动
	s = s.Remove(42)
	assertOrder(t, s, "head", "a", "x", "c", "tail")
}

func TestWorkOrderTransitions(t *testing.T) {
	allowed := []struct{ from, to string }{
		{WorkOrderStatusOpen, WorkOrderStatusInProgress},
		{WorkOrderStatusOpen, WorkOrderStatusCancelled},
		{WorkOrderStatusInProgress, WorkOrderStatusOnHold},
		{WorkOrderStatusInProgress, WorkOrderStatusCompleted},
		{WorkOrderStatusOnHold, WorkOrderStatusInProgress},
	}
	for _, c := range allowed {
		if !CanTransitionWorkOrder(c.from, c.to) {
			t.Fatalf("%s → %s should be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to string }{
		{WorkOrderStatusOpen, WorkOrderStatusCompleted},
		{WorkOrderStatusCompleted, WorkOrderStatusInProgress},
		{WorkOrderStatusCancelled, WorkOrderStatusOpen},
		{WorkOrderStatusOnHold, WorkOrderStatusCompleted},
	}
	for _, c := range denied {
		if CanTransitionWorkOrder(c.from, c.to) {
			t.Fatalf("%s → %s should be denied", c.from, c.to)
		}
	}
}

func TestExecutionTerminal(t *testing.T) {
	if ExecutionTerminal(ExecutionStatusInProgress) {
		t.Fatalf("in_progress is not terminal")
	}
	if !ExecutionTerminal(ExecutionStatusCompleted) || !ExecutionTerminal(ExecutionStatusCancelled) {
		t.Fatalf("completed and cancelled are terminal")
	}
}
