package reconcile

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruipereira/plansync/internal/domain"
	"github.com/ruipereira/plansync/internal/mapping"
	"github.com/ruipereira/plansync/internal/notion"
)

// fakeClient is an in-memory notion.Client. Pages created through it become
// visible to later queries, matching on the same composite keys the engine
// uses.
type fakeClient struct {
	nextID  int
	pages   map[string][]notion.Page // database id -> pages
	users   []notion.User
	pageIDs map[string]*notion.Page

	queryErr  error
	createErr map[string]error // title -> error
	updateErr error

	creates int
	updates int
	queries int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pages:     make(map[string][]notion.Page),
		pageIDs:   make(map[string]*notion.Page),
		createErr: make(map[string]error),
	}
}

func (f *fakeClient) QueryDatabase(_ context.Context, databaseID string, filter *notion.Filter) ([]notion.Page, error) {
	f.queries++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []notion.Page
	for _, p := range f.pages[databaseID] {
		if filter == nil || matches(p, *filter) {
			out = append(out, p)
		}
	}
	return out, nil
}

func matches(p notion.Page, f notion.Filter) bool {
	if len(f.And) > 0 {
		for _, sub := range f.And {
			if !matches(p, sub) {
				return false
			}
		}
		return true
	}
	prop := p.Properties[f.Property]
	switch {
	case f.Title != nil:
		return notion.Plain(prop.Title) == f.Title.Equals
	case f.RichText != nil:
		return notion.Plain(prop.RichText) == f.RichText.Equals
	case f.Relation != nil:
		for _, rel := range prop.Relation {
			if rel.ID == f.Relation.Contains {
				return true
			}
		}
		return false
	}
	return true
}

func (f *fakeClient) CreatePage(_ context.Context, databaseID string, props notion.Properties) (*notion.Page, error) {
	f.creates++
	title := pageTitle(props)
	if err := f.createErr[title]; err != nil {
		return nil, err
	}
	f.nextID++
	page := notion.Page{ID: fmt.Sprintf("page-%d", f.nextID), Properties: props}
	f.pages[databaseID] = append(f.pages[databaseID], page)
	f.pageIDs[page.ID] = &f.pages[databaseID][len(f.pages[databaseID])-1]
	return &page, nil
}

func (f *fakeClient) UpdatePage(_ context.Context, pageID string, props notion.Properties) (*notion.Page, error) {
	f.updates++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	page, ok := f.pageIDs[pageID]
	if !ok {
		return nil, notion.ErrObjectNotFound
	}
	for k, v := range props {
		page.Properties[k] = v
	}
	return page, nil
}

func (f *fakeClient) ListUsers(context.Context) ([]notion.User, error) {
	return f.users, nil
}

func pageTitle(props notion.Properties) string {
	for _, v := range props {
		if len(v.Title) > 0 {
			return notion.Plain(v.Title)
		}
	}
	return ""
}

func testRecords() []mapping.Record {
	mapper := mapping.New(mapping.DefaultStatusVocabulary(), map[domain.EDT]string{
		"PR.0001.1": "Design",
	})
	nodes := []domain.Node{
		{Code: "PR.0001.1", Title: "Design", Kind: domain.KindPhase},
		{Code: "PR.0001.1.1", Title: "Wireframes", Kind: domain.KindTask,
			Assignee: "Ana", ParentCode: "PR.0001.1"},
		{Code: "PR.0001.1.1.M", Title: "Sign-off", Kind: domain.KindMilestone,
			ParentCode: "PR.0001.1"},
	}
	return mapper.MapTasks(nodes)
}

func testEngine(client notion.Client) *Engine {
	return New(client, Config{ProjectsDB: "projects", TasksDB: "tasks"}, nil)
}

func TestEnsureProjectCreatesWhenMissing(t *testing.T) {
	client := newFakeClient()
	engine := testEngine(client)

	id, err := engine.EnsureProject(context.Background(), domain.ProjectInfo{Code: "PR.0001", Name: "Alpha"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, client.creates)

	// Second call finds the same page instead of creating another.
	again, err := testEngine(client).EnsureProject(context.Background(), domain.ProjectInfo{Code: "PR.0001", Name: "Alpha"})
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, client.creates)
}

func TestSyncTasksCreatesInOrder(t *testing.T) {
	client := newFakeClient()
	client.users = []notion.User{{ID: "user-ana", Name: "Ana"}}
	engine := testEngine(client)

	result, err := engine.SyncTasks(context.Background(), "proj-1", testRecords())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Zero(t, result.Failed)
	require.Len(t, result.Nodes, 3)
	assert.Equal(t, domain.EDT("PR.0001.1"), result.Nodes[0].Code)
	assert.Equal(t, domain.EDT("PR.0001.1.1"), result.Nodes[1].Code)

	// The task links to the phase page created moments earlier.
	task := client.pageIDs[result.Nodes[1].PageID]
	require.NotNil(t, task)
	rel := task.Properties[mapping.PropParentTask].Relation
	require.Len(t, rel, 1)
	assert.Equal(t, result.Nodes[0].PageID, rel[0].ID)

	people := task.Properties[mapping.PropAssignee].People
	require.Len(t, people, 1)
	assert.Equal(t, "user-ana", people[0].ID)

	proj := task.Properties[mapping.PropProject].Relation
	require.Len(t, proj, 1)
	assert.Equal(t, "proj-1", proj[0].ID)
}

func TestSyncTasksMilestoneLinksToPhase(t *testing.T) {
	client := newFakeClient()
	engine := testEngine(client)

	result, err := engine.SyncTasks(context.Background(), "proj-1", testRecords())
	require.NoError(t, err)

	milestone := client.pageIDs[result.Nodes[2].PageID]
	require.NotNil(t, milestone)
	rel := milestone.Properties[mapping.PropParentTask].Relation
	require.Len(t, rel, 1)
	assert.Equal(t, result.Nodes[0].PageID, rel[0].ID)
}

func TestSyncTasksSecondPassSkips(t *testing.T) {
	client := newFakeClient()
	records := testRecords()

	first, err := testEngine(client).SyncTasks(context.Background(), "proj-1", records)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Created)

	second, err := testEngine(client).SyncTasks(context.Background(), "proj-1", records)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, 3, second.Skipped)
	assert.Equal(t, 3, client.creates)
	assert.Zero(t, client.updates)
}

func TestSyncTasksUpdatesWhenTypeChanged(t *testing.T) {
	client := newFakeClient()
	records := testRecords()

	_, err := testEngine(client).SyncTasks(context.Background(), "proj-1", records)
	require.NoError(t, err)

	// Flip a stored page's Type as if the sheet reclassified the row.
	for _, p := range client.pageIDs {
		if pageTitle(p.Properties) == "Wireframes" {
			p.Properties[mapping.PropType] = notion.PropertyValue{
				Select: &notion.SelectOption{Name: "Fase"},
			}
		}
	}

	second, err := testEngine(client).SyncTasks(context.Background(), "proj-1", records)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Updated)
	assert.Equal(t, 2, second.Skipped)
}

func TestSyncTasksStructuralErrorAborts(t *testing.T) {
	client := newFakeClient()
	client.queryErr = notion.ErrUnauthorized
	engine := testEngine(client)

	result, err := engine.SyncTasks(context.Background(), "proj-1", testRecords())
	require.ErrorIs(t, err, notion.ErrUnauthorized)
	assert.Equal(t, 1, result.Failed, "only the first node was attempted")
	assert.Len(t, result.Nodes, 1)
}

func TestSyncTasksTransientFailureContinues(t *testing.T) {
	client := newFakeClient()
	client.createErr["Wireframes"] = notion.ErrRetryExhausted
	engine := testEngine(client)

	result, err := engine.SyncTasks(context.Background(), "proj-1", testRecords())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Wireframes")
}

func TestResultErrorTailIsBounded(t *testing.T) {
	r := &Result{}
	for i := 0; i < 10; i++ {
		r.record(NodeResult{
			Title:   fmt.Sprintf("node-%d", i),
			Outcome: domain.OutcomeFailed,
			Message: "boom",
		})
	}
	assert.Equal(t, 10, r.Failed)
	assert.Len(t, r.Errors, errorTailSize)
}

type recordingObserver struct {
	synced   []NodeResult
	warnings []string
}

func (o *recordingObserver) OnNodeSynced(nr NodeResult) { o.synced = append(o.synced, nr) }
func (o *recordingObserver) OnWarning(msg string)       { o.warnings = append(o.warnings, msg) }

func TestUnknownAssigneeWarnsAndProceeds(t *testing.T) {
	client := newFakeClient()
	obs := &recordingObserver{}
	engine := New(client, Config{ProjectsDB: "projects", TasksDB: "tasks"}, obs)

	result, err := engine.SyncTasks(context.Background(), "proj-1", testRecords())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	require.NotEmpty(t, obs.warnings)
	assert.Contains(t, obs.warnings[0], "Ana")
	assert.Len(t, obs.synced, 3)
}

func TestSubTaskParentIsTaskNotMilestone(t *testing.T) {
	client := newFakeClient()
	engine := testEngine(client)

	// The milestone shares its base code with the task before it; the
	// sub-task below both must link to the task.
	mapper := mapping.New(mapping.DefaultStatusVocabulary(), nil)
	records := mapper.MapTasks([]domain.Node{
		{Code: "PR.0001.1", Title: "Design", Kind: domain.KindPhase},
		{Code: "PR.0001.1.1", Title: "Wireframes", Kind: domain.KindTask,
			ParentCode: "PR.0001.1"},
		{Code: "PR.0001.1.1.M", Title: "Wireframes approved", Kind: domain.KindMilestone,
			ParentCode: "PR.0001.1"},
		{Code: "PR.0001.1.1.1", Title: "Mobile wireframes", Kind: domain.KindTask,
			ParentCode: "PR.0001.1.1"},
	})

	result, err := engine.SyncTasks(context.Background(), "proj-1", records)
	require.NoError(t, err)
	require.Len(t, result.Nodes, 4)

	child := client.pageIDs[result.Nodes[3].PageID]
	require.NotNil(t, child)
	rel := child.Properties[mapping.PropParentTask].Relation
	require.Len(t, rel, 1)
	assert.Equal(t, result.Nodes[1].PageID, rel[0].ID)
	assert.NotEqual(t, result.Nodes[2].PageID, rel[0].ID)
}

func TestCommaSeparatedAssignees(t *testing.T) {
	client := newFakeClient()
	client.users = []notion.User{{ID: "user-ana", Name: "Ana"}, {ID: "user-rui", Name: "Rui"}}
	obs := &recordingObserver{}
	engine := New(client, Config{ProjectsDB: "projects", TasksDB: "tasks"}, obs)

	mapper := mapping.New(mapping.DefaultStatusVocabulary(), nil)
	records := mapper.MapTasks([]domain.Node{
		{Code: "PR.0001.1.1", Title: "Wireframes", Kind: domain.KindTask,
			Assignee: "Ana, Rui, Zed"},
	})

	result, err := engine.SyncTasks(context.Background(), "proj-1", records)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	page := client.pageIDs[result.Nodes[0].PageID]
	require.NotNil(t, page)
	people := page.Properties[mapping.PropAssignee].People
	require.Len(t, people, 2)
	assert.Equal(t, "user-ana", people[0].ID)
	assert.Equal(t, "user-rui", people[1].ID)

	require.NotEmpty(t, obs.warnings)
	assert.Contains(t, obs.warnings[0], "Zed")
}

func TestMissingParentWarnsAndLeavesUnlinked(t *testing.T) {
	client := newFakeClient()
	obs := &recordingObserver{}
	engine := New(client, Config{ProjectsDB: "projects", TasksDB: "tasks"}, obs)

	mapper := mapping.New(mapping.DefaultStatusVocabulary(), nil)
	records := mapper.MapTasks([]domain.Node{
		{Code: "PR.0001.2.9", Title: "Orphan", Kind: domain.KindTask,
			Assignee: "Rui", ParentCode: "PR.0001.2"},
	})

	result, err := engine.SyncTasks(context.Background(), "proj-1", records)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	page := client.pageIDs[result.Nodes[0].PageID]
	require.NotNil(t, page)
	_, hasParent := page.Properties[mapping.PropParentTask]
	assert.False(t, hasParent)

	require.NotEmpty(t, obs.warnings)
	assert.Contains(t, obs.warnings[0], "PR.0001.2")
}
