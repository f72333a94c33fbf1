package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// createdWithin matches documents whose createdAt lies in [start, end]
func createdWithin(start, end time.Time) bson.M {
	return bson.M{"createdAt": bson.M{"$gte": start, "$lte": end}}
}

// creationOrder keeps breakdown order stable across runs
func creationOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

// userRefs collects distinct referenced user ids
type userRefs map[primitive.ObjectID]struct{}

func (r userRefs) add(id *primitive.ObjectID) {
	if id != nil && !id.IsZero() {
		r[*id] = struct{}{}
	}
}

func (r userRefs) ids() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	return ids
}

// usersByID loads the referenced users. Ids with no user document are
// absent from the result and resolve to nil.
func (c *MongoDBClient) usersByID(ctx context.Context, refs userRefs) (map[primitive.ObjectID]*models.User, error) {
	resolved := make(map[primitive.ObjectID]*models.User, len(refs))
	if len(refs) == 0 {
		return resolved, nil
	}
	projection := options.Find().SetProjection(bson.M{"username": 1, "email": 1})
	users, err := findAll[models.User](ctx, c.users, bson.M{"_id": bson.M{"$in": refs.ids()}}, projection)
	if err != nil {
		return nil, err
	}
	for i := range users {
		resolved[users[i].ID] = &users[i]
	}
	return resolved, nil
}

func lookupUser(users map[primitive.ObjectID]*models.User, id *primitive.ObjectID) *models.User {
	if id == nil {
		return nil
	}
	return users[*id]
}

// FindTasks returns tasks created in [start, end] with assignees resolved
func (c *MongoDBClient) FindTasks(ctx context.Context, start, end time.Time) ([]models.Task, error) {
	ctx, cancel := c.readContext(ctx)
	defer cancel()

	tasks, err := findAll[models.Task](ctx, c.tasks, createdWithin(start, end), creationOrder())
	if err != nil {
		return nil, err
	}
	refs := userRefs{}
	for i := range tasks {
		refs.add(tasks[i].AssignedToID)
	}
	users, err := c.usersByID(ctx, refs)
	if err != nil {
		return nil, err
	}
	resolveTasks(tasks, users)
	return tasks, nil
}

func resolveTasks(tasks []models.Task, users map[primitive.ObjectID]*models.User) {
	for i := range tasks {
		tasks[i].AssignedTo = lookupUser(users, tasks[i].AssignedToID)
	}
}

// FindWorkflows returns FMS projects created in [start, end] with step owners resolved
func (c *MongoDBClient) FindWorkflows(ctx context.Context, start, end time.Time) ([]models.WorkflowInstance, error) {
	ctx, cancel := c.readContext(ctx)
	defer cancel()

	workflows, err := findAll[models.WorkflowInstance](ctx, c.workflows, createdWithin(start, end), creationOrder())
	if err != nil {
		return nil, err
	}
	refs := userRefs{}
	for i := range workflows {
		for j := range workflows[i].Steps {
			refs.add(workflows[i].Steps[j].WhoID)
		}
	}
	users, err := c.usersByID(ctx, refs)
	if err != nil {
		return nil, err
	}
	resolveWorkflows(workflows, users)
	return workflows, nil
}

func resolveWorkflows(workflows []models.WorkflowInstance, users map[primitive.ObjectID]*models.User) {
	for i := range workflows {
		for j := range workflows[i].Steps {
			step := &workflows[i].Steps[j]
			step.Who = lookupUser(users, step.WhoID)
		}
	}
}

// FindChecklists returns checklists created in [start, end] with assignees resolved
func (c *MongoDBClient) FindChecklists(ctx context.Context, start, end time.Time) ([]models.Checklist, error) {
	ctx, cancel := c.readContext(ctx)
	defer cancel()

	checklists, err := findAll[models.Checklist](ctx, c.checklists, createdWithin(start, end), creationOrder())
	if err != nil {
		return nil, err
	}
	refs := userRefs{}
	for i := range checklists {
		refs.add(checklists[i].AssignedToID)
	}
	users, err := c.usersByID(ctx, refs)
	if err != nil {
		return nil, err
	}
	for i := range checklists {
		checklists[i].AssignedTo = lookupUser(users, checklists[i].AssignedToID)
	}
	return checklists, nil
}

// FindHelpTickets returns help tickets created in [start, end] with assignee and raiser resolved
func (c *MongoDBClient) FindHelpTickets(ctx context.Context, start, end time.Time) ([]models.HelpTicket, error) {
	ctx, cancel := c.readContext(ctx)
	defer cancel()

	tickets, err := findAll[models.HelpTicket](ctx, c.helpTickets, createdWithin(start, end), creationOrder())
	if err != nil {
		return nil, err
	}
	refs := userRefs{}
	for i := range tickets {
		refs.add(tickets[i].AssignedToID)
		refs.add(tickets[i].RaisedByID)
	}
	users, err := c.usersByID(ctx, refs)
	if err != nil {
		return nil, err
	}
	resolveHelpTickets(tickets, users)
	return tickets, nil
}

func resolveHelpTickets(tickets []models.HelpTicket, users map[primitive.ObjectID]*models.User) {
	for i := range tickets {
		tickets[i].AssignedTo = lookupUser(users, tickets[i].AssignedToID)
		tickets[i].RaisedBy = lookupUser(users, tickets[i].RaisedByID)
	}
}

// ListUsers returns every user, projected to id, username and email
func (c *MongoDBClient) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := c.readContext(ctx)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"username": 1, "email": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	return findAll[models.User](ctx, c.users, bson.M{}, opts)
}
