// internal/ppd/ppd.go
package ppd

import (
	"fmt"
)

// UIKind is the presentation kind declared by an *OpenUI line
type UIKind string

const (
	UIPickOne  UIKind = "PickOne"
	UIBoolean  UIKind = "Boolean"
	UIPickMany UIKind = "PickMany"
)

// Choice is one selectable value of an option
type Choice struct {
	Choice string `json:"choice"`
	Text   string `json:"text"`
	Marked bool   `json:"marked"`
}

// Option is a user-settable PPD option
type Option struct {
	Keyword   string    `json:"keyword"`
	Text      string    `json:"text"`
	UI        UIKind    `json:"ui"`
	DefChoice string    `json:"defchoice"`
	Choices   []*Choice `json:"choices"`
}

// FindChoice returns the named choice or nil
func (o *Option) FindChoice(name string) *Choice {
	for _, c := range o.Choices {
		if c.Choice == name {
			return c
		}
	}
	return nil
}

// Group holds options and nested subgroups
type Group struct {
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Options   []*Option `json:"options"`
	SubGroups []*Group  `json:"subgroups,omitempty"`
}

// AllOptions returns the group's own options followed by those of its
// subgroups, depth first.
func (g *Group) AllOptions() []*Option {
	options := append([]*Option(nil), g.Options...)
	for _, sub := range g.SubGroups {
		options = append(options, sub.AllOptions()...)
	}
	return options
}

// Attr is a main-keyword attribute such as *cupsFilter or *FoomaticRIPCommandLine
type Attr struct {
	Name  string `json:"name"`
	Spec  string `json:"spec,omitempty"`
	Text  string `json:"text,omitempty"`
	Value string `json:"value"`
}

// Descriptor is a parsed PPD file
type Descriptor struct {
	Groups []*Group
	Attrs  []*Attr

	lines   []string
	options map[string]*Option
}

// Options iterates every option across all groups and subgroups
func (d *Descriptor) Options() []*Option {
	var options []*Option
	for _, g := range d.Groups {
		options = append(options, g.AllOptions()...)
	}
	return options
}

// FindOption looks up an option by keyword
func (d *Descriptor) FindOption(keyword string) *Option {
	return d.options[keyword]
}

// FindAttr returns the first attribute with the given name, optionally
// restricted to a spec.
func (d *Descriptor) FindAttr(name string, spec ...string) *Attr {
	for _, a := range d.Attrs {
		if a.Name != name {
			continue
		}
		if len(spec) > 0 && a.Spec != spec[0] {
			continue
		}
		return a
	}
	return nil
}

// FindAttrs returns every attribute with the given name in file order
func (d *Descriptor) FindAttrs(name string) []*Attr {
	var attrs []*Attr
	for _, a := range d.Attrs {
		if a.Name == name {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// MarkOption selects a choice as the option's default
func (d *Descriptor) MarkOption(keyword, choice string) error {
	option := d.FindOption(keyword)
	if option == nil {
		return fmt.Errorf("option %s not found", keyword)
	}

	target := option.FindChoice(choice)
	if target == nil {
		return fmt.Errorf("choice %s not available for option %s", choice, keyword)
	}

	if option.UI != UIPickMany {
		for _, c := range option.Choices {
			c.Marked = false
		}
	}
	target.Marked = true
	option.DefChoice = choice
	return nil
}
