package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/zpdzap/sb/internal/sandbox"
)

func testModel(names ...string) model {
	m := model{filter: textinput.New()}
	for _, n := range names {
		m.sandboxes = append(m.sandboxes, sandbox.Sandbox{
			Name:      n,
			Workspace: "/home/u/projects/" + n,
		})
	}
	return m
}

func TestVisibleNoFilter(t *testing.T) {
	m := testModel("sb-one-11111111", "sb-two-22222222")
	if got := m.visible(); len(got) != 2 {
		t.Errorf("visible = %d sandboxes, want 2", len(got))
	}
}

func TestVisibleFilter(t *testing.T) {
	m := testModel("sb-api-server-11111111", "sb-webapp-22222222")

	tests := []struct {
		query string
		want  int
	}{
		{"api", 1},
		{"sb-", 2},
		{"API", 1},
		{"nothing-matches", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			m.filter.SetValue(tt.query)
			if got := m.visible(); len(got) != tt.want {
				t.Errorf("visible(%q) = %d, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

func TestSelected(t *testing.T) {
	m := testModel("sb-one-11111111", "sb-two-22222222")

	m.cursor = 1
	sb, ok := m.selected()
	if !ok || sb.Name != "sb-two-22222222" {
		t.Errorf("selected = %+v %v", sb, ok)
	}

	m.cursor = 5
	if _, ok := m.selected(); ok {
		t.Error("selected out of range should report false")
	}

	empty := testModel()
	if _, ok := empty.selected(); ok {
		t.Error("selected on empty list should report false")
	}
}
