package model

// AppData is the persisted aggregate: every collection the application keeps,
// serialized and stored as a single document.
type AppData struct {
	TeamMembers    []TeamMember    `json:"team_members"`
	ChoreTemplates []ChoreTemplate `json:"chore_templates"`
	ChoreInstances []ChoreInstance `json:"chore_instances"`
}

// Normalize replaces nil collections with empty ones so the aggregate always
// encodes as arrays.
func (d *AppData) Normalize() {
	if d.TeamMembers == nil {
		d.TeamMembers = []TeamMember{}
	}
	if d.ChoreTemplates == nil {
		d.ChoreTemplates = []ChoreTemplate{}
	}
	if d.ChoreInstances == nil {
		d.ChoreInstances = []ChoreInstance{}
	}
}
