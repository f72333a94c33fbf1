package services

import (
	"strconv"
	"strings"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"
)

// unknownUsername labels breakdown rows whose user has no username
const unknownUsername = "Unknown"

// personIndex keeps per-user records in order of first encounter
type personIndex[T any] struct {
	byID    map[string]*T
	ordered []*T
	newRec  func(models.PersonIdentity) *T
}

func newPersonIndex[T any](newRec func(models.PersonIdentity) *T) *personIndex[T] {
	return &personIndex[T]{byID: make(map[string]*T), newRec: newRec}
}

func (p *personIndex[T]) lookup(user *models.User) *T {
	id := user.ID.Hex()
	if rec, ok := p.byID[id]; ok {
		return rec
	}
	rec := p.newRec(identityOf(user))
	p.byID[id] = rec
	p.ordered = append(p.ordered, rec)
	return rec
}

func (p *personIndex[T]) records() []*T {
	if p.ordered == nil {
		return []*T{}
	}
	return p.ordered
}

func identityOf(user *models.User) models.PersonIdentity {
	username := user.Username
	if username == "" {
		username = unknownUsername
	}
	return models.PersonIdentity{
		UserID:   user.ID.Hex(),
		Username: username,
		Email:    user.Email,
	}
}

// AggregateTasks tallies tasks by type, status and assignee. Any task type
// other than one-time counts as cyclic.
func AggregateTasks(tasks []models.Task) models.TaskSummary {
	summary := models.TaskSummary{
		ByStatus: models.NewHistogram(models.KnownTaskStatuses...),
		ByType:   models.NewHistogram(models.KnownTaskTypes...),
	}
	people := newPersonIndex(func(id models.PersonIdentity) *models.TaskPersonStats {
		return &models.TaskPersonStats{PersonIdentity: id}
	})

	for _, task := range tasks {
		oneOff := task.TaskType == models.TaskTypeOneTime

		summary.Total++
		if oneOff {
			summary.OneOff++
		} else {
			summary.Cyclic++
		}
		summary.ByStatus.Add(task.Status)
		summary.ByType.Add(task.TaskType)

		if task.AssignedTo == nil {
			continue
		}
		person := people.lookup(task.AssignedTo)
		person.Total++
		if oneOff {
			person.OneOff++
		} else {
			person.Cyclic++
		}
		switch task.Status {
		case models.TaskStatusPending:
			person.Pending++
		case models.TaskStatusInProgress:
			person.InProgress++
		case models.TaskStatusCompleted:
			person.Completed++
		case models.TaskStatusOverdue:
			person.Overdue++
		default:
			if person.Other == nil {
				person.Other = make(map[string]int)
			}
			person.Other[task.Status]++
		}
	}

	summary.ByPerson = people.records()
	return summary
}

// AggregateWorkflows tallies FMS projects. A project is completed when every
// step is Done (so a project without steps is completed) and in progress when
// it is not completed and has a Pending or In Progress step. Projects whose
// steps are all Not Started land in neither bucket.
func AggregateWorkflows(workflows []models.WorkflowInstance) models.FMSSummary {
	summary := models.FMSSummary{StepStatusBreakdown: make(map[string]int)}
	people := newPersonIndex(func(id models.PersonIdentity) *models.FMSPersonStats {
		return &models.FMSPersonStats{PersonIdentity: id, PendingSteps: []int{}}
	})

	for _, wf := range workflows {
		summary.Total++

		completed := true
		active := false
		for _, step := range wf.Steps {
			if step.Status != models.StepStatusDone {
				completed = false
			}
			if step.Status == models.StepStatusInProgress || step.Status == models.StepStatusPending {
				active = true
			}
		}
		if completed {
			summary.Completed++
		} else if active {
			summary.InProgress++
		}

		if step := firstOpenStep(wf.Steps); step != nil {
			summary.StepStatusBreakdown[strconv.Itoa(step.StepNo)]++
		}

		for _, step := range wf.Steps {
			if step.Who == nil {
				continue
			}
			person := people.lookup(step.Who)
			person.Total++
			switch step.Status {
			case models.StepStatusInProgress:
				person.InProgress++
			case models.StepStatusDone:
				person.Completed++
			default:
				person.PendingSteps = append(person.PendingSteps, step.StepNo)
			}
		}
	}

	summary.ByPerson = people.records()
	return summary
}

// firstOpenStep returns the first step, in stored order, that still needs work
func firstOpenStep(steps []models.WorkflowStep) *models.WorkflowStep {
	for i := range steps {
		switch steps[i].Status {
		case models.StepStatusPending, models.StepStatusInProgress, models.StepStatusNotStarted:
			return &steps[i]
		}
	}
	return nil
}

// AggregateChecklists splits checklists into submitted and not submitted
func AggregateChecklists(checklists []models.Checklist) models.ChecklistSummary {
	var summary models.ChecklistSummary
	people := newPersonIndex(func(id models.PersonIdentity) *models.ChecklistPersonStats {
		return &models.ChecklistPersonStats{PersonIdentity: id}
	})

	for _, cl := range checklists {
		done := cl.Status == models.ChecklistStatusSubmitted

		summary.Total++
		if done {
			summary.Done++
		} else {
			summary.NotDone++
		}

		if cl.AssignedTo == nil {
			continue
		}
		person := people.lookup(cl.AssignedTo)
		person.Total++
		if done {
			person.Done++
		} else {
			person.NotDone++
		}
	}

	summary.ByPerson = people.records()
	return summary
}

type ticketBucket int

const (
	ticketOther ticketBucket = iota
	ticketOpen
	ticketInProgress
	ticketClosed
)

func classifyTicket(status string) ticketBucket {
	status = strings.ToLower(status)
	if status == "" {
		status = models.TicketStatusOpen
	}
	switch status {
	case models.TicketStatusOpen:
		return ticketOpen
	case models.TicketStatusInProgress:
		return ticketInProgress
	case models.TicketStatusClosed, models.TicketStatusVerifiedAndClose:
		return ticketClosed
	}
	return ticketOther
}

// AggregateHelpTickets tallies help tickets by case-insensitive status.
// Tickets are attributed to the assignee, falling back to the raiser.
func AggregateHelpTickets(tickets []models.HelpTicket) models.HelpTicketSummary {
	var summary models.HelpTicketSummary
	people := newPersonIndex(func(id models.PersonIdentity) *models.HelpTicketPersonStats {
		return &models.HelpTicketPersonStats{PersonIdentity: id}
	})

	for _, ticket := range tickets {
		bucket := classifyTicket(ticket.Status)

		summary.Total++
		switch bucket {
		case ticketOpen:
			summary.Open++
		case ticketInProgress:
			summary.InProgress++
		case ticketClosed:
			summary.Closed++
		default:
			summary.Other++
		}

		owner := ticket.AssignedTo
		if owner == nil {
			owner = ticket.RaisedBy
		}
		if owner == nil {
			continue
		}
		person := people.lookup(owner)
		person.Total++
		switch bucket {
		case ticketOpen:
			person.Open++
		case ticketInProgress:
			person.InProgress++
		case ticketClosed:
			person.Closed++
		default:
			person.Other++
		}
	}

	summary.ByPerson = people.records()
	return summary
}

// BuildUserDirectory lists every user for the report
func BuildUserDirectory(users []models.User) []models.UserEntry {
	entries := make([]models.UserEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, models.UserEntry{
			ID:       u.ID.Hex(),
			Username: u.Username,
			Email:    u.Email,
		})
	}
	return entries
}
