package forms

import "strings"

// Group collects controls rendered together as a fieldset. A group does not
// own its controls; they stay in the component tree.
type Group struct {
	name        string
	Label       string
	Description string
	controls    []*Control
}

// NewGroup creates a detached group.
func NewGroup(name, label string) *Group {
	return &Group{name: strings.TrimSpace(name), Label: label}
}

func (g *Group) ComponentName() string {
	return g.name
}

// Add assigns controls to the group. A control belongs to one group at most;
// adding it here removes it from its previous group.
func (g *Group) Add(controls ...*Control) *Group {
	for _, control := range controls {
		if control == nil {
			continue
		}
		if previous := control.group; previous != nil && previous != g {
			previous.remove(control)
		}
		if control.group == g {
			continue
		}
		control.group = g
		g.controls = append(g.controls, control)
	}
	return g
}

// Controls returns the member controls in insertion order.
func (g *Group) Controls() []*Control {
	return append([]*Control(nil), g.controls...)
}

func (g *Group) remove(control *Control) {
	for idx, candidate := range g.controls {
		if candidate == control {
			g.controls = append(g.controls[:idx], g.controls[idx+1:]...)
			return
		}
	}
}
