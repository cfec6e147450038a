// Package reconcile pushes classified planning nodes into Notion. The engine
// is an upsert state machine: look the node up by its composite key, then
// create, update, or skip, keeping strict row order so parents exist before
// the rows that reference them.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/ruipereira/plansync/internal/domain"
	"github.com/ruipereira/plansync/internal/mapping"
	"github.com/ruipereira/plansync/internal/notion"
)

// Config identifies the target databases and toggles post-write checks.
type Config struct {
	ProjectsDB string
	TasksDB    string

	// Verify re-queries each created page to confirm it landed.
	Verify bool
}

// Engine reconciles planning records against a Notion workspace.
type Engine struct {
	client   notion.Client
	cfg      Config
	observer Observer

	// pageByCode remembers the page id of every node reconciled in this
	// pass, keyed by its structural code. Parent relations resolve here
	// first and fall back to a remote query.
	pageByCode map[domain.EDT]string

	users       map[string]string
	usersLoaded bool
}

// New creates an Engine. A nil observer is replaced with a noop.
func New(client notion.Client, cfg Config, observer Observer) *Engine {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Engine{
		client:     client,
		cfg:        cfg,
		observer:   observer,
		pageByCode: make(map[domain.EDT]string),
	}
}

// EnsureProject finds or creates the project page for a workbook and returns
// its id. Lookup prefers the project code over the name; two workbooks can
// share a name but never a code.
func (e *Engine) EnsureProject(ctx context.Context, info domain.ProjectInfo) (string, error) {
	var filter notion.Filter
	if !info.Code.IsEmpty() {
		filter = notion.RichTextEquals(mapping.PropProjectID, info.Code.String())
	} else {
		filter = notion.TitleEquals(mapping.PropProjectName, info.Name)
	}

	pages, err := e.client.QueryDatabase(ctx, e.cfg.ProjectsDB, &filter)
	if err != nil {
		return "", fmt.Errorf("looking up project %q: %w", info.Name, err)
	}
	if len(pages) > 0 {
		return pages[0].ID, nil
	}

	page, err := e.client.CreatePage(ctx, e.cfg.ProjectsDB, mapping.ProjectProperties(info))
	if err != nil {
		return "", fmt.Errorf("creating project %q: %w", info.Name, err)
	}
	return page.ID, nil
}

// SyncTasks reconciles records against the tasks database in row order. A
// structural error aborts the pass and returns the partial result; any other
// failure marks the node failed and moves on.
func (e *Engine) SyncTasks(ctx context.Context, projectPageID string, records []mapping.Record) (*Result, error) {
	result := &Result{}

	for _, rec := range records {
		nr, err := e.syncNode(ctx, projectPageID, rec)
		if err != nil {
			nr.Outcome = domain.OutcomeFailed
			nr.Message = err.Error()
			if notion.IsStructural(err) || ctx.Err() != nil {
				result.record(nr)
				e.observer.OnNodeSynced(nr)
				return result, err
			}
		}
		result.record(nr)
		e.observer.OnNodeSynced(nr)
	}
	return result, nil
}

func (e *Engine) syncNode(ctx context.Context, projectPageID string, rec mapping.Record) (NodeResult, error) {
	nr := NodeResult{
		Code:  rec.Node.Code,
		Title: rec.Node.Title,
		Kind:  rec.Node.Kind,
	}

	props := e.buildProperties(ctx, projectPageID, rec)

	existing, err := e.lookup(ctx, projectPageID, rec)
	if err != nil {
		return nr, fmt.Errorf("looking up %q: %w", rec.Node.Title, err)
	}

	if existing != nil {
		nr.PageID = existing.ID
		e.remember(rec.Node, existing.ID)

		if typeMatches(existing, props) {
			nr.Outcome = domain.OutcomeSkipped
			return nr, nil
		}
		if _, err := e.client.UpdatePage(ctx, existing.ID, props); err != nil {
			return nr, fmt.Errorf("updating %q: %w", rec.Node.Title, err)
		}
		nr.Outcome = domain.OutcomeUpdated
		return nr, nil
	}

	page, err := e.client.CreatePage(ctx, e.cfg.TasksDB, props)
	if err != nil {
		return nr, fmt.Errorf("creating %q: %w", rec.Node.Title, err)
	}
	nr.PageID = page.ID
	nr.Outcome = domain.OutcomeCreated
	e.remember(rec.Node, page.ID)

	if e.cfg.Verify {
		e.verify(ctx, projectPageID, rec)
	}
	return nr, nil
}

// buildProperties finalizes a record's payload: the project relation, the
// parent relation, and the assignee are resolved to ids here. Unresolvable
// references are dropped with a warning rather than failing the node.
func (e *Engine) buildProperties(ctx context.Context, projectPageID string, rec mapping.Record) notion.Properties {
	props := make(notion.Properties, len(rec.Properties)+3)
	for k, v := range rec.Properties {
		props[k] = v
	}
	props[mapping.PropProject] = notion.PropertyValue{
		Relation: []notion.RelationRef{{ID: projectPageID}},
	}

	if rec.ParentCode != "" {
		if parentID := e.resolveParent(ctx, projectPageID, rec.ParentCode); parentID != "" {
			props[mapping.PropParentTask] = notion.PropertyValue{
				Relation: []notion.RelationRef{{ID: parentID}},
			}
		} else {
			e.observer.OnWarning(fmt.Sprintf("parent %s of %q not found, leaving unlinked",
				rec.ParentCode, rec.Node.Title))
		}
	}

	if rec.Assignee != "" {
		var people []notion.PersonRef
		for _, name := range strings.Split(rec.Assignee, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if userID := e.resolveUser(ctx, name); userID != "" {
				people = append(people, notion.PersonRef{ID: userID})
			} else {
				e.observer.OnWarning(fmt.Sprintf("no workspace user matches %q", name))
			}
		}
		if len(people) > 0 {
			props[mapping.PropAssignee] = notion.PropertyValue{People: people}
		}
	}
	return props
}

// lookup finds the existing page for a record by its composite key: title,
// structural code, and project membership together. Title alone is not
// unique across projects, and degraded rows have no code at all.
func (e *Engine) lookup(ctx context.Context, projectPageID string, rec mapping.Record) (*notion.Page, error) {
	filters := []notion.Filter{
		notion.TitleEquals(mapping.PropTitle, rec.Node.Title),
		notion.RelationContains(mapping.PropProject, projectPageID),
	}
	if !rec.Node.Code.IsEmpty() {
		filters = append(filters, notion.RichTextEquals(mapping.PropEDT, rec.Node.Code.String()))
	}
	filter := notion.All(filters...)

	pages, err := e.client.QueryDatabase(ctx, e.cfg.TasksDB, &filter)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}
	// Duplicates should not exist; take the first deterministically.
	return &pages[0], nil
}

// resolveParent maps a parent code to a page id, preferring pages touched in
// this pass and falling back to a remote query by code.
func (e *Engine) resolveParent(ctx context.Context, projectPageID string, code domain.EDT) string {
	if id, ok := e.pageByCode[code]; ok {
		return id
	}
	filter := notion.All(
		notion.RichTextEquals(mapping.PropEDT, code.String()),
		notion.RelationContains(mapping.PropProject, projectPageID),
	)
	pages, err := e.client.QueryDatabase(ctx, e.cfg.TasksDB, &filter)
	if err != nil || len(pages) == 0 {
		return ""
	}
	e.pageByCode[code] = pages[0].ID
	return pages[0].ID
}

// resolveUser matches an assignee name to a workspace user id. The user list
// is fetched once per pass, on first need.
func (e *Engine) resolveUser(ctx context.Context, name string) string {
	if !e.usersLoaded {
		e.users = make(map[string]string)
		users, err := e.client.ListUsers(ctx)
		if err != nil {
			e.observer.OnWarning("listing workspace users: " + err.Error())
		} else {
			for _, u := range users {
				e.users[strings.ToLower(strings.TrimSpace(u.Name))] = u.ID
			}
		}
		e.usersLoaded = true
	}
	return e.users[strings.ToLower(strings.TrimSpace(name))]
}

// remember caches the page id of a reconciled node for parent resolution.
// Milestones are skipped: a ".M" code shares its base with the task at the
// same position, and a milestone is never anyone's parent.
func (e *Engine) remember(node domain.Node, pageID string) {
	if node.Kind == domain.KindMilestone || node.Code.IsEmpty() {
		return
	}
	e.pageByCode[node.Code.Base()] = pageID
}

func (e *Engine) verify(ctx context.Context, projectPageID string, rec mapping.Record) {
	page, err := e.lookup(ctx, projectPageID, rec)
	if err != nil || page == nil {
		e.observer.OnWarning(fmt.Sprintf("verification failed for %q", rec.Node.Title))
	}
}

// typeMatches compares only the Type select of an existing page against the
// desired payload. Update versus skip is decided on this property alone.
func typeMatches(page *notion.Page, props notion.Properties) bool {
	want := props[mapping.PropType].Select
	got := page.Properties[mapping.PropType].Select
	if want == nil || got == nil {
		return false
	}
	return want.Name == got.Name
}
