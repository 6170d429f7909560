package automation

import (
	"context"
	"errors"
	"testing"
	"time"

	common_models "go-charity/internal/common/models"
	"go-charity/internal/features/audit"
	"go-charity/internal/features/rbac"
	"go-charity/internal/features/task"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestEvalCondition(t *testing.T) {
	due := time.Now().Add(-time.Hour)
	urgent := &task.Task{
		Status:   task.StatusPending,
		Priority: task.PriorityUrgent,
		Category: "field",
		Tags:     []string{"aid", "winter"},
		DueDate:  &due,
	}

	tests := []struct {
		name      string
		condition string
		want      bool
		wantErr   bool
	}{
		{
			name:      "empty condition always passes",
			condition: "",
			want:      true,
		},
		{
			name:      "priority match",
			condition: `pass := priority == "urgent"`,
			want:      true,
		},
		{
			name:      "priority mismatch",
			condition: `pass := priority == "low"`,
			want:      false,
		},
		{
			name:      "compound expression",
			condition: `pass := priority == "urgent" && overdue`,
			want:      true,
		},
		{
			name:      "status binding",
			condition: `pass := status == "PENDING"`,
			want:      true,
		},
		{
			name:      "category binding",
			condition: `pass := category == "field"`,
			want:      true,
		},
		{
			name:      "does not set pass",
			condition: `x := 1`,
			wantErr:   true,
		},
		{
			name:      "syntax error",
			condition: `pass :=`,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evalCondition(tt.condition, urgent)
			if (err != nil) != tt.wantErr {
				t.Fatalf("evalCondition() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("evalCondition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateRule(t *testing.T) {
	valid := func() *Rule {
		return &Rule{
			Name:           "urgent submissions",
			Trigger:        task.ActionSubmitted,
			Condition:      `pass := priority == "urgent"`,
			NotifyCreator:  true,
			NotifyAssignee: false,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Rule)
		want   []string
	}{
		{
			name:   "valid rule",
			mutate: func(*Rule) {},
			want:   nil,
		},
		{
			name:   "missing name",
			mutate: func(r *Rule) { r.Name = "" },
			want:   []string{"name"},
		},
		{
			name:   "missing trigger",
			mutate: func(r *Rule) { r.Trigger = "" },
			want:   []string{"trigger"},
		},
		{
			name: "no recipients",
			mutate: func(r *Rule) {
				r.NotifyCreator = false
				r.NotifyAssignee = false
				r.NotifyRoles = nil
			},
			want: []string{"recipients"},
		},
		{
			name:   "roles alone are enough",
			mutate: func(r *Rule) { r.NotifyCreator = false; r.NotifyRoles = []rbac.Role{rbac.RoleProgramManager} },
			want:   nil,
		},
		{
			name:   "broken condition script",
			mutate: func(r *Rule) { r.Condition = `pass :=` },
			want:   []string{"condition"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := valid()
			tt.mutate(rule)
			got := validateRule(rule)
			if len(got) != len(tt.want) {
				t.Fatalf("validateRule() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("validateRule()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

type fakeRuleRepo struct {
	rules map[primitive.ObjectID]*Rule
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[primitive.ObjectID]*Rule)}
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule *Rule) error {
	if rule.ID.IsZero() {
		rule.ID = primitive.NewObjectID()
	}
	stored := *rule
	f.rules[rule.ID] = &stored
	return nil
}

func (f *fakeRuleRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Rule, error) {
	r, ok := f.rules[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRuleRepo) FindActiveByTrigger(ctx context.Context, trigger task.ActivityAction) ([]Rule, error) {
	return nil, nil
}

func (f *fakeRuleRepo) FindAll(ctx context.Context) ([]Rule, error) { return nil, nil }

func (f *fakeRuleRepo) Update(ctx context.Context, rule *Rule) error {
	stored := *rule
	f.rules[rule.ID] = &stored
	return nil
}

func (f *fakeRuleRepo) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return nil
}

func (f *fakeRuleRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(f.rules, id)
	return nil
}

type failingAuditService struct{}

func (failingAuditService) LogChange(ctx context.Context, actor common_models.Actor, action audit.AuditAction, module string, recordID string, changes map[string]audit.Change) error {
	return errors.New("audit store down")
}

func (failingAuditService) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]audit.AuditLog, error) {
	return nil, nil
}

func TestCreateRuleSucceedsWhenAuditAppendFails(t *testing.T) {
	repo := newFakeRuleRepo()
	svc := NewAutomationService(repo, nil, nil, failingAuditService{}, zap.NewNop())

	admin := common_models.Actor{ID: primitive.NewObjectID(), Name: "Admin", Role: rbac.RoleSuperAdmin}
	rule := &Rule{Name: "Urgent submissions", Trigger: task.ActionSubmitted, NotifyCreator: true}

	if err := svc.CreateRule(context.Background(), admin, rule); err != nil {
		t.Fatalf("rule creation must not fail on a degraded audit trail: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), rule.ID); err != nil {
		t.Fatal("the rule write must stand despite the audit failure")
	}
}
