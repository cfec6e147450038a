package notion

// TextContent is the inner text of a rich text fragment.
type TextContent struct {
	Content string `json:"content"`
}

// RichText is one fragment of Notion rich text.
type RichText struct {
	Text      TextContent `json:"text"`
	PlainText string      `json:"plain_text,omitempty"`
}

// Text builds a single-fragment rich text array.
func Text(s string) []RichText {
	return []RichText{{Text: TextContent{Content: s}, PlainText: s}}
}

// Plain concatenates the plain text of a rich text array.
func Plain(rt []RichText) string {
	var out string
	for _, r := range rt {
		if r.PlainText != "" {
			out += r.PlainText
		} else {
			out += r.Text.Content
		}
	}
	return out
}

// SelectOption names one option of a select, status, or multi-select.
type SelectOption struct {
	Name string `json:"name"`
}

// DateValue is a Notion date property payload. Dates are sent without a time
// component.
type DateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// RelationRef points at another page.
type RelationRef struct {
	ID string `json:"id"`
}

// PersonRef points at a workspace user.
type PersonRef struct {
	Object string `json:"object,omitempty"`
	ID     string `json:"id"`
}

// PropertyValue is the one-of payload of a page property. Exactly one field
// is set per value, matching the property's type in the database schema.
type PropertyValue struct {
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	Status      *SelectOption  `json:"status,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Relation    []RelationRef  `json:"relation,omitempty"`
	People      []PersonRef    `json:"people,omitempty"`
}

// Properties maps property names to values.
type Properties map[string]PropertyValue

// Page is a Notion page as returned by the API, reduced to the fields the
// sync needs.
type Page struct {
	ID         string     `json:"id"`
	URL        string     `json:"url,omitempty"`
	Properties Properties `json:"properties"`
}

// User is a workspace member.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// TextCondition filters a text-valued property.
type TextCondition struct {
	Equals   string `json:"equals,omitempty"`
	Contains string `json:"contains,omitempty"`
}

// RelationCondition filters a relation property.
type RelationCondition struct {
	Contains string `json:"contains"`
}

// Filter is a Notion database query filter. Either And/Or holds nested
// filters, or Property names the target and exactly one condition is set.
type Filter struct {
	And      []Filter           `json:"and,omitempty"`
	Or       []Filter           `json:"or,omitempty"`
	Property string             `json:"property,omitempty"`
	Title    *TextCondition     `json:"title,omitempty"`
	RichText *TextCondition     `json:"rich_text,omitempty"`
	Relation *RelationCondition `json:"relation,omitempty"`
}

// TitleEquals filters pages whose title property matches exactly.
func TitleEquals(property, value string) Filter {
	return Filter{Property: property, Title: &TextCondition{Equals: value}}
}

// RichTextEquals filters pages on a rich text property.
func RichTextEquals(property, value string) Filter {
	return Filter{Property: property, RichText: &TextCondition{Equals: value}}
}

// RelationContains filters pages whose relation includes the page id.
func RelationContains(property, pageID string) Filter {
	return Filter{Property: property, Relation: &RelationCondition{Contains: pageID}}
}

// All combines filters with a conjunction. A single filter passes through
// unwrapped.
func All(filters ...Filter) Filter {
	if len(filters) == 1 {
		return filters[0]
	}
	return Filter{And: filters}
}
