// Package mapping translates classified planning nodes into Notion page
// properties. The property names and types follow the task database schema;
// relation and people values stay symbolic here and are resolved against the
// workspace during reconciliation.
package mapping

import (
	"github.com/ruipereira/plansync/internal/domain"
	"github.com/ruipereira/plansync/internal/notion"
)

// PropertyType names a Notion property type.
type PropertyType string

const (
	TypeTitle       PropertyType = "title"
	TypeSelect      PropertyType = "select"
	TypeStatus      PropertyType = "status"
	TypeRichText    PropertyType = "rich_text"
	TypeDate        PropertyType = "date"
	TypeNumber      PropertyType = "number"
	TypeRelation    PropertyType = "relation"
	TypeMultiSelect PropertyType = "multi_select"
	TypePeople      PropertyType = "people"
)

// Task database property names.
const (
	PropTitle        = "Tarefa"
	PropType         = "Type"
	PropEDT          = "EDT"
	PropStatus       = "Status"
	PropPhase        = "Fase"
	PropPlannedDates = "Datas planeadas"
	PropActualDates  = "Datas reais"
	PropProgress     = "Progresso (dias)"
	PropAssignee     = "Assignee"
	PropProject      = "Project"
	PropParentTask   = "Parent task"
)

// Project database property names.
const (
	PropProjectName = "Name"
	PropProjectID   = "ID"
)

// Field describes one mapped property of the task database. Fields with a
// nil builder (relations, people) are filled by the reconcile engine, which
// owns the workspace id lookups.
type Field struct {
	Name  string
	Type  PropertyType
	build func(m *Mapper, n domain.Node) *notion.PropertyValue
}

// TaskFields returns the task database schema the mapper writes to. A nil
// value from a builder omits the property for that node.
func TaskFields() []Field {
	return []Field{
		{PropTitle, TypeTitle, func(_ *Mapper, n domain.Node) *notion.PropertyValue {
			return &notion.PropertyValue{Title: notion.Text(n.Title)}
		}},
		{PropType, TypeSelect, func(_ *Mapper, n domain.Node) *notion.PropertyValue {
			return &notion.PropertyValue{Select: &notion.SelectOption{Name: TypeName(n.Kind)}}
		}},
		{PropEDT, TypeRichText, func(_ *Mapper, n domain.Node) *notion.PropertyValue {
			if n.Code.IsEmpty() {
				return nil
			}
			return &notion.PropertyValue{RichText: notion.Text(n.Code.String())}
		}},
		{PropStatus, TypeStatus, func(m *Mapper, n domain.Node) *notion.PropertyValue {
			return &notion.PropertyValue{Status: &notion.SelectOption{
				Name: m.vocab.Canonical(n.Status),
			}}
		}},
		{PropPhase, TypeMultiSelect, func(m *Mapper, n domain.Node) *notion.PropertyValue {
			phase := m.phaseName(n)
			if phase == "" {
				return nil
			}
			return &notion.PropertyValue{MultiSelect: []notion.SelectOption{{Name: phase}}}
		}},
		{PropPlannedDates, TypeDate, func(_ *Mapper, n domain.Node) *notion.PropertyValue {
			return dateProperty(n.Planned)
		}},
		{PropActualDates, TypeDate, func(_ *Mapper, n domain.Node) *notion.PropertyValue {
			return dateProperty(n.Actual)
		}},
		{PropProgress, TypeNumber, func(_ *Mapper, n domain.Node) *notion.PropertyValue {
			if n.Progress == nil {
				return nil
			}
			return &notion.PropertyValue{Number: n.Progress}
		}},
		{PropAssignee, TypePeople, nil},
		{PropProject, TypeRelation, nil},
		{PropParentTask, TypeRelation, nil},
	}
}

// TypeName returns the Type select option for a node kind.
func TypeName(kind domain.NodeKind) string {
	switch kind {
	case domain.KindMilestone:
		return "Milestone"
	case domain.KindPhase:
		return "Fase"
	default:
		return "Tarefa"
	}
}

// Record is one node ready to reconcile: its target properties plus the
// symbolic references the engine resolves to page and user ids.
type Record struct {
	Node       domain.Node
	Properties notion.Properties
	ParentCode domain.EDT
	Assignee   string
}

// Mapper builds Notion property payloads from classified nodes.
type Mapper struct {
	vocab       StatusVocabulary
	phaseTitles map[domain.EDT]string
}

// New creates a Mapper. phaseTitles indexes phase titles by code so tasks
// can carry their enclosing phase name as a multi-select value.
func New(vocab StatusVocabulary, phaseTitles map[domain.EDT]string) *Mapper {
	return &Mapper{vocab: vocab, phaseTitles: phaseTitles}
}

// MapTasks converts every non-project node to a Record, preserving order.
// The project row is handled separately against the projects database.
func (m *Mapper) MapTasks(nodes []domain.Node) []Record {
	records := make([]Record, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == domain.KindProject {
			continue
		}
		records = append(records, Record{
			Node:       n,
			Properties: m.taskProperties(n),
			ParentCode: n.ParentCode,
			Assignee:   n.Assignee,
		})
	}
	return records
}

func (m *Mapper) taskProperties(n domain.Node) notion.Properties {
	fields := TaskFields()
	props := make(notion.Properties, len(fields))
	for _, f := range fields {
		if f.build == nil {
			continue
		}
		if v := f.build(m, n); v != nil {
			props[f.Name] = *v
		}
	}
	return props
}

// phaseName resolves the title of the phase a node sits under. Phases name
// themselves; tasks and milestones walk the code's phase prefix.
func (m *Mapper) phaseName(n domain.Node) string {
	if n.Kind == domain.KindPhase {
		return n.Title
	}
	phaseCode := n.Code.PhaseCode()
	if phaseCode == "" {
		return ""
	}
	return m.phaseTitles[phaseCode]
}

// ProjectProperties builds the projects database payload for a workbook.
func ProjectProperties(info domain.ProjectInfo) notion.Properties {
	props := notion.Properties{
		PropProjectName: {Title: notion.Text(info.Name)},
	}
	if !info.Code.IsEmpty() {
		props[PropProjectID] = notion.PropertyValue{RichText: notion.Text(info.Code.String())}
	}
	return props
}

const dateLayout = "2006-01-02"

func dateProperty(r *domain.DateRange) *notion.PropertyValue {
	if r == nil {
		return nil
	}
	d := &notion.DateValue{Start: r.Start.Format(dateLayout)}
	if !r.IsPoint() {
		end := r.End.Format(dateLayout)
		d.End = &end
	}
	return &notion.PropertyValue{Date: d}
}
