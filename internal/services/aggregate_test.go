package services

import (
	"testing"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateTasksOneTimeCompleted(t *testing.T) {
	userA := newUser("alice")
	summary := AggregateTasks([]models.Task{
		{TaskType: models.TaskTypeOneTime, Status: models.TaskStatusCompleted, AssignedTo: userA},
	})

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.OneOff)
	assert.Equal(t, 0, summary.Cyclic)
	assert.Equal(t, 1, summary.ByStatus.Count(models.TaskStatusCompleted))
	assert.Equal(t, 1, summary.ByType.Count(models.TaskTypeOneTime))

	require.Len(t, summary.ByPerson, 1)
	person := summary.ByPerson[0]
	assert.Equal(t, userA.ID.Hex(), person.UserID)
	assert.Equal(t, "alice", person.Username)
	assert.Equal(t, "alice@example.com", person.Email)
	assert.Equal(t, 1, person.Completed)
	assert.Equal(t, 1, person.OneOff)
	assert.Equal(t, 1, person.Total)
}

func TestAggregateTasksSeedsAllBuckets(t *testing.T) {
	summary := AggregateTasks(nil)

	assert.Equal(t, models.KnownTaskStatuses, summary.ByStatus.Keys())
	assert.Equal(t, models.KnownTaskTypes, summary.ByType.Keys())
	assert.NotNil(t, summary.ByPerson)
	assert.Empty(t, summary.ByPerson)
}

func TestAggregateTasksCyclicIsComplementOfOneTime(t *testing.T) {
	summary := AggregateTasks([]models.Task{
		{TaskType: models.TaskTypeDaily, Status: models.TaskStatusPending},
		{TaskType: "fortnightly", Status: models.TaskStatusPending},
		{TaskType: "", Status: models.TaskStatusPending},
		{TaskType: models.TaskTypeOneTime, Status: models.TaskStatusPending},
	})

	assert.Equal(t, 3, summary.Cyclic)
	assert.Equal(t, 1, summary.OneOff)
	assert.Equal(t, 1, summary.ByType.Count("fortnightly"))
	assert.Equal(t, summary.Total, summary.ByType.Total())
}

func TestAggregateTasksUnknownStatus(t *testing.T) {
	userA := newUser("alice")
	summary := AggregateTasks([]models.Task{
		{TaskType: models.TaskTypeWeekly, Status: "on-hold", AssignedTo: userA},
		{TaskType: models.TaskTypeWeekly, Status: models.TaskStatusOverdue, AssignedTo: userA},
	})

	assert.Equal(t, 1, summary.ByStatus.Count("on-hold"))
	assert.Equal(t, append(append([]string{}, models.KnownTaskStatuses...), "on-hold"), summary.ByStatus.Keys())

	require.Len(t, summary.ByPerson, 1)
	person := summary.ByPerson[0]
	assert.Equal(t, map[string]int{"on-hold": 1}, person.Other)
	assert.Equal(t, 1, person.Overdue)
	assert.Equal(t, 2, person.Cyclic)
}

func TestAggregateTasksPersonOrderIsFirstEncounter(t *testing.T) {
	alice, bob, carol := newUser("alice"), newUser("bob"), newUser("carol")
	summary := AggregateTasks([]models.Task{
		{TaskType: models.TaskTypeDaily, Status: models.TaskStatusPending, AssignedTo: bob},
		{TaskType: models.TaskTypeDaily, Status: models.TaskStatusPending, AssignedTo: alice},
		{TaskType: models.TaskTypeDaily, Status: models.TaskStatusPending, AssignedTo: bob},
		{TaskType: models.TaskTypeDaily, Status: models.TaskStatusPending, AssignedTo: carol},
	})

	var names []string
	for _, p := range summary.ByPerson {
		names = append(names, p.Username)
	}
	assert.Equal(t, []string{"bob", "alice", "carol"}, names)
	assert.Equal(t, 2, summary.ByPerson[0].Total)
}

func TestAggregateTasksDefaultsMissingUsername(t *testing.T) {
	anonymous := newUser("")
	anonymous.Email = ""
	summary := AggregateTasks([]models.Task{
		{TaskType: models.TaskTypeDaily, Status: models.TaskStatusPending, AssignedTo: anonymous},
	})

	require.Len(t, summary.ByPerson, 1)
	assert.Equal(t, "Unknown", summary.ByPerson[0].Username)
	assert.Equal(t, "", summary.ByPerson[0].Email)
}

func TestAggregateWorkflowsScenario(t *testing.T) {
	userA, userB := newUser("alice"), newUser("bob")
	summary := AggregateWorkflows([]models.WorkflowInstance{{
		Steps: []models.WorkflowStep{
			{StepNo: 1, Status: models.StepStatusDone, Who: userA},
			{StepNo: 2, Status: models.StepStatusPending, Who: userB},
		},
	}})

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 0, summary.Completed)
	assert.Equal(t, 1, summary.InProgress)
	assert.Equal(t, map[string]int{"2": 1}, summary.StepStatusBreakdown)

	require.Len(t, summary.ByPerson, 2)
	assert.Equal(t, 1, summary.ByPerson[0].Completed)
	assert.Equal(t, []int{}, summary.ByPerson[0].PendingSteps)
	assert.Equal(t, []int{2}, summary.ByPerson[1].PendingSteps)
}

func TestAggregateWorkflowsCompletionRules(t *testing.T) {
	tests := []struct {
		name           string
		steps          []models.WorkflowStep
		wantCompleted  int
		wantInProgress int
		wantBreakdown  map[string]int
	}{
		{
			name: "all done",
			steps: []models.WorkflowStep{
				{StepNo: 1, Status: models.StepStatusDone},
				{StepNo: 2, Status: models.StepStatusDone},
			},
			wantCompleted: 1,
			wantBreakdown: map[string]int{},
		},
		{
			name:          "zero steps counts as completed",
			steps:         nil,
			wantCompleted: 1,
			wantBreakdown: map[string]int{},
		},
		{
			name: "all not started is neither completed nor in progress",
			steps: []models.WorkflowStep{
				{StepNo: 1, Status: models.StepStatusNotStarted},
				{StepNo: 2, Status: models.StepStatusNotStarted},
			},
			wantBreakdown: map[string]int{"1": 1},
		},
		{
			name: "in progress step",
			steps: []models.WorkflowStep{
				{StepNo: 3, Status: models.StepStatusDone},
				{StepNo: 4, Status: models.StepStatusNotStarted},
				{StepNo: 5, Status: models.StepStatusInProgress},
			},
			wantInProgress: 1,
			wantBreakdown:  map[string]int{"4": 1},
		},
		{
			name: "unknown status blocks completion only",
			steps: []models.WorkflowStep{
				{StepNo: 1, Status: "Skipped"},
			},
			wantBreakdown: map[string]int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := AggregateWorkflows([]models.WorkflowInstance{{Steps: tt.steps}})
			assert.Equal(t, 1, summary.Total)
			assert.Equal(t, tt.wantCompleted, summary.Completed)
			assert.Equal(t, tt.wantInProgress, summary.InProgress)
			assert.Equal(t, tt.wantBreakdown, summary.StepStatusBreakdown)
		})
	}
}

func TestAggregateWorkflowsPendingStepsKeepDuplicates(t *testing.T) {
	userA := newUser("alice")
	wf := models.WorkflowInstance{Steps: []models.WorkflowStep{
		{StepNo: 1, Status: models.StepStatusInProgress, Who: userA},
		{StepNo: 2, Status: models.StepStatusNotStarted, Who: userA},
		{StepNo: 3, Status: models.StepStatusDone, Who: userA},
		{StepNo: 4, Status: models.StepStatusPending},
	}}
	summary := AggregateWorkflows([]models.WorkflowInstance{wf, wf})

	require.Len(t, summary.ByPerson, 1)
	person := summary.ByPerson[0]
	assert.Equal(t, 6, person.Total)
	assert.Equal(t, 2, person.InProgress)
	assert.Equal(t, 2, person.Completed)
	assert.Equal(t, []int{2, 2}, person.PendingSteps)
	assert.Equal(t, person.Total, person.InProgress+person.Completed+len(person.PendingSteps))
	assert.Equal(t, map[string]int{"1": 2}, summary.StepStatusBreakdown)
}

func TestAggregateChecklists(t *testing.T) {
	userA := newUser("alice")
	summary := AggregateChecklists([]models.Checklist{
		{Status: models.ChecklistStatusSubmitted, AssignedTo: userA},
		{Status: "Draft", AssignedTo: userA},
		{Status: "submitted"},
	})

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Done)
	assert.Equal(t, 2, summary.NotDone)
	require.Len(t, summary.ByPerson, 1)
	assert.Equal(t, 2, summary.ByPerson[0].Total)
	assert.Equal(t, 1, summary.ByPerson[0].Done)
	assert.Equal(t, 1, summary.ByPerson[0].NotDone)
}

func TestAggregateHelpTicketsCaseInsensitive(t *testing.T) {
	summary := AggregateHelpTickets([]models.HelpTicket{
		{Status: "CLOSED"},
		{Status: "closed"},
		{Status: "Verified & Closed"},
		{Status: "In Progress"},
		{Status: "OPEN"},
		{Status: "escalated"},
	})

	assert.Equal(t, 6, summary.Total)
	assert.Equal(t, 3, summary.Closed)
	assert.Equal(t, 1, summary.InProgress)
	assert.Equal(t, 1, summary.Open)
	assert.Equal(t, 1, summary.Other)
	assert.Empty(t, summary.ByPerson)
}

func TestAggregateHelpTicketsFallsBackToRaiser(t *testing.T) {
	userC, userD := newUser("carol"), newUser("dave")
	summary := AggregateHelpTickets([]models.HelpTicket{
		{Status: "", AssignedTo: nil, RaisedBy: userC},
		{Status: "closed", AssignedTo: userD, RaisedBy: userC},
	})

	assert.Equal(t, 1, summary.Open)
	require.Len(t, summary.ByPerson, 2)
	assert.Equal(t, "carol", summary.ByPerson[0].Username)
	assert.Equal(t, 1, summary.ByPerson[0].Open)
	assert.Equal(t, "dave", summary.ByPerson[1].Username)
	assert.Equal(t, 1, summary.ByPerson[1].Closed)
}

func TestAggregateTotalsMatchBucketsAndPeople(t *testing.T) {
	alice, bob := newUser("alice"), newUser("bob")

	tasks := []models.Task{
		{TaskType: models.TaskTypeOneTime, Status: models.TaskStatusPending, AssignedTo: alice},
		{TaskType: models.TaskTypeMonthly, Status: "blocked", AssignedTo: bob},
		{TaskType: "custom", Status: models.TaskStatusCompleted},
		{TaskType: models.TaskTypeYearly, Status: models.TaskStatusOverdue, AssignedTo: alice},
	}
	ts := AggregateTasks(tasks)
	assert.Equal(t, ts.Total, ts.ByStatus.Total())
	assert.Equal(t, ts.Total, ts.ByType.Total())
	assert.Equal(t, ts.Total, ts.OneOff+ts.Cyclic)
	personTotal := 0
	for _, p := range ts.ByPerson {
		buckets := p.Pending + p.InProgress + p.Completed + p.Overdue
		for _, n := range p.Other {
			buckets += n
		}
		assert.Equal(t, p.Total, buckets)
		personTotal += p.Total
	}
	assert.Equal(t, ts.Total, personTotal+1)

	checklists := []models.Checklist{
		{Status: models.ChecklistStatusSubmitted, AssignedTo: alice},
		{Status: "Pending"},
		{Status: "Pending", AssignedTo: bob},
	}
	cs := AggregateChecklists(checklists)
	assert.Equal(t, cs.Total, cs.Done+cs.NotDone)
	personTotal = 0
	for _, p := range cs.ByPerson {
		assert.Equal(t, p.Total, p.Done+p.NotDone)
		personTotal += p.Total
	}
	assert.Equal(t, cs.Total, personTotal+1)

	tickets := []models.HelpTicket{
		{Status: "open", AssignedTo: alice},
		{Status: "waiting", RaisedBy: bob},
		{Status: "closed"},
	}
	hs := AggregateHelpTickets(tickets)
	assert.Equal(t, hs.Total, hs.Open+hs.InProgress+hs.Closed+hs.Other)
	personTotal = 0
	for _, p := range hs.ByPerson {
		assert.Equal(t, p.Total, p.Open+p.InProgress+p.Closed+p.Other)
		personTotal += p.Total
	}
	assert.Equal(t, hs.Total, personTotal+1)
}

func TestBuildUserDirectory(t *testing.T) {
	alice := newUser("alice")
	entries := BuildUserDirectory([]models.User{*alice})

	require.Len(t, entries, 1)
	assert.Equal(t, models.UserEntry{ID: alice.ID.Hex(), Username: "alice", Email: "alice@example.com"}, entries[0])
	assert.NotNil(t, BuildUserDirectory(nil))
}
