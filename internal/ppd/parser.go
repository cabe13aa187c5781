// internal/ppd/parser.go
package ppd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const generalGroup = "General"

type parser struct {
	d        *Descriptor
	groups   []*Group // open group stack, outermost first
	defaults map[string]string
}

// Parse reads PPD text. Lines that do not follow the main-keyword syntax
// are kept for WriteTo but otherwise ignored.
func Parse(r io.Reader) (*Descriptor, error) {
	p := &parser{
		d: &Descriptor{
			options: make(map[string]*Option),
		},
		defaults: make(map[string]string),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var pending *Attr
	var valueLines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		p.d.lines = append(p.d.lines, line)

		if pending != nil {
			idx := strings.IndexByte(line, '"')
			if idx < 0 {
				valueLines = append(valueLines, line)
				continue
			}
			valueLines = append(valueLines, line[:idx])
			pending.Value = strings.Join(valueLines, "\n")
			p.addAttr(pending)
			pending, valueLines = nil, nil
			continue
		}

		attr, open := parseLine(line)
		if attr == nil {
			continue
		}
		if open {
			pending = attr
			valueLines = []string{attr.Value}
			continue
		}
		p.addAttr(attr)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ppd: %w", err)
	}
	if pending != nil {
		pending.Value = strings.Join(valueLines, "\n")
		p.addAttr(pending)
	}

	p.applyDefaults()
	return p.d, nil
}

// ParseFile parses the PPD stored at path
func ParseFile(path string) (*Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ppd: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// parseLine splits "*Name spec/text: value". The second result reports a
// quoted value that continues on following lines.
func parseLine(line string) (*Attr, bool) {
	if !strings.HasPrefix(line, "*") || strings.HasPrefix(line, "*%") || line == "*End" {
		return nil, false
	}

	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return nil, false
	}

	head := strings.TrimSpace(line[1:colon])
	value := strings.TrimSpace(line[colon+1:])

	attr := &Attr{Name: head}
	var rest string
	if sep := strings.IndexAny(head, " \t"); sep >= 0 {
		attr.Name = head[:sep]
		rest = strings.TrimSpace(head[sep+1:])
	}
	if rest != "" {
		spec, text, _ := strings.Cut(rest, "/")
		attr.Spec = strings.TrimSpace(spec)
		attr.Text = text
	}
	if attr.Name == "" {
		return nil, false
	}

	if strings.HasPrefix(value, `"`) {
		body := value[1:]
		if end := strings.IndexByte(body, '"'); end >= 0 {
			attr.Value = body[:end]
			return attr, false
		}
		attr.Value = body
		return attr, true
	}

	attr.Value = value
	return attr, false
}

func (p *parser) addAttr(a *Attr) {
	switch a.Name {
	case "OpenGroup":
		name, text, _ := strings.Cut(a.Value, "/")
		g := &Group{Name: strings.TrimSpace(name), Text: text}
		p.d.Groups = append(p.d.Groups, g)
		p.groups = []*Group{g}
		return
	case "CloseGroup":
		p.groups = nil
		return
	case "OpenSubGroup":
		name, text, _ := strings.Cut(a.Value, "/")
		g := &Group{Name: strings.TrimSpace(name), Text: text}
		parent := p.currentGroup()
		parent.SubGroups = append(parent.SubGroups, g)
		p.groups = append(p.groups, g)
		return
	case "CloseSubGroup":
		if len(p.groups) > 1 {
			p.groups = p.groups[:len(p.groups)-1]
		}
		return
	case "OpenUI", "JCLOpenUI":
		keyword := strings.TrimPrefix(a.Spec, "*")
		if keyword == "" {
			return
		}
		option := &Option{
			Keyword: keyword,
			Text:    a.Text,
			UI:      UIKind(a.Value),
		}
		if option.Text == "" {
			option.Text = keyword
		}
		g := p.currentGroup()
		g.Options = append(g.Options, option)
		p.d.options[keyword] = option
		return
	case "CloseUI", "JCLCloseUI":
		return
	}

	if strings.HasPrefix(a.Name, "Default") && a.Spec == "" {
		p.defaults[strings.TrimPrefix(a.Name, "Default")] = a.Value
	}

	if option := p.d.options[a.Name]; option != nil && a.Spec != "" {
		text := a.Text
		if text == "" {
			text = a.Spec
		}
		option.Choices = append(option.Choices, &Choice{Choice: a.Spec, Text: text})
		return
	}

	p.d.Attrs = append(p.d.Attrs, a)
}

// currentGroup returns the innermost open group, creating the General group
// for options declared outside any group.
func (p *parser) currentGroup() *Group {
	if len(p.groups) > 0 {
		return p.groups[len(p.groups)-1]
	}
	for _, g := range p.d.Groups {
		if g.Name == generalGroup {
			return g
		}
	}
	g := &Group{Name: generalGroup, Text: generalGroup}
	p.d.Groups = append(p.d.Groups, g)
	return g
}

func (p *parser) applyDefaults() {
	for keyword, value := range p.defaults {
		option := p.d.options[keyword]
		if option == nil {
			continue
		}
		option.DefChoice = value
		if c := option.FindChoice(value); c != nil {
			c.Marked = true
		}
	}
}
