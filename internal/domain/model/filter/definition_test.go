package filter

import (
	"testing"

	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

func TestDefinition_Validate(t *testing.T) {
	p := func(v model.Priority) *model.Priority { return &v }
	d := func(v DueRange) *DueRange { return &v }

	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{name: "empty", def: Definition{}},
		{name: "valid bounds", def: Definition{PriorityAtLeast: p(model.PriorityP2), PriorityAtMost: p(model.PriorityP4)}},
		{name: "contradictory bounds are legal", def: Definition{PriorityAtLeast: p(model.PriorityP4), PriorityAtMost: p(model.PriorityP1)}},
		{name: "bound out of range", def: Definition{PriorityAtLeast: p(0)}, wantErr: true},
		{name: "upper bound out of range", def: Definition{PriorityAtMost: p(5)}, wantErr: true},
		{name: "unknown state", def: Definition{WorkflowStates: []model.WorkflowState{"blocked"}}, wantErr: true},
		{name: "known states", def: Definition{WorkflowStates: []model.WorkflowState{model.WorkflowTodo, model.WorkflowDoing}}},
		{name: "due range", def: Definition{DueRange: d(DueNext7)}},
		{name: "unknown due range", def: Definition{DueRange: d("tomorrow")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr {
				if !model.IsValidation(err) {
					t.Fatalf("Validate() = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
		})
	}
}
