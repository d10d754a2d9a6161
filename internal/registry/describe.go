package registry

import (
	"github.com/dshills/menuconf/internal/setting"
)

// View is the display form of one value entry.
type View struct {
	Name        string   `yaml:"name" json:"name"`
	Label       string   `yaml:"label" json:"label"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Kind        string   `yaml:"kind" json:"kind"`
	Group       string   `yaml:"group,omitempty" json:"group,omitempty"`
	Subgroup    string   `yaml:"subgroup,omitempty" json:"subgroup,omitempty"`
	Parent      string   `yaml:"parent,omitempty" json:"parent,omitempty"`
	Value       string   `yaml:"value" json:"value"`
	Raw         string   `yaml:"raw,omitempty" json:"raw,omitempty"`
	Actions     []string `yaml:"actions,omitempty" json:"actions,omitempty"`
	Flags       string   `yaml:"flags,omitempty" json:"flags,omitempty"`
	Options     []string `yaml:"options,omitempty" json:"options,omitempty"`
	Editable    bool     `yaml:"editable" json:"editable"`
	Modified    bool     `yaml:"modified,omitempty" json:"modified,omitempty"`
}

// Describe returns the view of every value entry in order. env renders
// values; the registry's own environment is used when env is nil.
func (r *Registry) Describe(env *setting.Env) []View {
	if env == nil {
		env = r.env
	}
	var out []View
	for s := range r.Entries() {
		if s.Kind.IsStructural() {
			continue
		}
		out = append(out, describe(env, s))
	}
	return out
}

func describe(env *setting.Env, s *setting.Setting) View {
	v := View{
		Name:        s.Name,
		Label:       s.Label,
		Description: s.Description,
		Kind:        s.Kind.String(),
		Group:       s.Group,
		Subgroup:    s.Subgroup,
		Parent:      s.ParentGroup,
		Value:       setting.Stringify(env, s),
		Editable:    editable(s),
		Modified:    setting.Modified(s),
	}
	if s.Kind != setting.ActionEntry {
		v.Raw = setting.Raw(s)
	}
	for _, act := range s.Actions.Bound() {
		v.Actions = append(v.Actions, act.String())
	}
	if s.Flags != 0 {
		v.Flags = s.Flags.String()
	}
	for _, opt := range s.Options {
		v.Options = append(v.Options, env.Text(opt))
	}
	return v
}

// editable reports whether any bound action can change the value.
func editable(s *setting.Setting) bool {
	if s.Kind == setting.ActionEntry || s.Value == nil {
		return false
	}
	for _, act := range s.Actions.Bound() {
		if act.Mutates() || act == setting.ActionStart {
			return true
		}
	}
	return false
}
