package domain

// AutoActionType identifies a side effect executed when a stage reaches full
// approval. Actions run exactly once, in the stage's configured order, after
// the approval's own status change has been durably committed.
type AutoActionType string

const (
	AutoActionCreateTask       AutoActionType = "CREATE_TASK"
	AutoActionSetStatus        AutoActionType = "SET_STATUS"
	AutoActionConvertToProject AutoActionType = "CONVERT_TO_PROJECT"
)

// AutoAction is one configured side effect of a fully approved stage.
type AutoAction struct {
	Type AutoActionType
	// TaskTitle and TaskRole apply to CREATE_TASK.
	TaskTitle string
	TaskRole  Role
	// TargetStatus applies to SET_STATUS.
	TargetStatus CaseStatus
}

// WorkflowStage is the static per-stage definition: which roles form the
// quorum and what happens on full approval. Not persisted.
type WorkflowStage struct {
	StageID       string
	Name          string
	RequiredRoles []Role
	AutoActions   []AutoAction
}

// StageConfig is the immutable stage table injected at service start.
type StageConfig struct {
	stages map[string]WorkflowStage
}

// NewStageConfig builds a config from the given stages. The last definition
// wins on duplicate ids.
func NewStageConfig(stages ...WorkflowStage) *StageConfig {
	m := make(map[string]WorkflowStage, len(stages))
	for _, s := range stages {
		m[s.StageID] = s
	}
	return &StageConfig{stages: m}
}

// Stage looks up a stage definition by id.
func (c *StageConfig) Stage(stageID string) (WorkflowStage, bool) {
	s, ok := c.stages[stageID]
	return s, ok
}

// DefaultStageConfig is the stage table for the standard case lifecycle.
func DefaultStageConfig() *StageConfig {
	return NewStageConfig(
		WorkflowStage{
			StageID:       "design_signoff",
			Name:          "Design Sign-off",
			RequiredRoles: []Role{RoleEngineering, RoleProjectManager},
			AutoActions: []AutoAction{
				{Type: AutoActionCreateTask, TaskTitle: "Prepare contract draft", TaskRole: RoleSales},
				{Type: AutoActionSetStatus, TargetStatus: StatusContractReview},
			},
		},
		WorkflowStage{
			StageID:       "contract_signoff",
			Name:          "Contract Sign-off",
			RequiredRoles: []Role{RoleSales, RoleFinance},
			AutoActions: []AutoAction{
				{Type: AutoActionSetStatus, TargetStatus: StatusWaitingForPayment},
			},
		},
		WorkflowStage{
			StageID:       "planning_handoff",
			Name:          "Planning Hand-off",
			RequiredRoles: []Role{RoleFinance, RoleAccounts, RoleProjectManager},
			AutoActions: []AutoAction{
				{Type: AutoActionConvertToProject},
				{Type: AutoActionCreateTask, TaskTitle: "Kick off project planning", TaskRole: RoleProjectManager},
			},
		},
	)
}
